package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/fang"
	"github.com/google/uuid"
	"github.com/hylla/waypoint/internal/adapters/storage/sqlite"
	"github.com/hylla/waypoint/internal/app"
	"github.com/hylla/waypoint/internal/config"
	"github.com/hylla/waypoint/internal/platform"
	"github.com/hylla/waypoint/internal/tui"
	"github.com/spf13/cobra"
)

// version is stamped at build time.
var version = "dev"

// program is the part of tea.Program the CLI drives.
type program interface {
	Run() (tea.Model, error)
}

// programFactory builds the board program; tests swap it out.
var programFactory = func(m tea.Model) program {
	return tea.NewProgram(m)
}

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		os.Exit(1)
	}
}

// run executes the command tree against args.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if stdout == nil {
		stdout = io.Discard
	}
	if stderr == nil {
		stderr = io.Discard
	}
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return fang.Execute(ctx, root, fang.WithVersion(version))
}

// rootOptions holds the persistent flag values shared by every command.
type rootOptions struct {
	configPath string
	dbPath     string
	appName    string
	devMode    bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:          "waypoint",
		Short:        "Plan a trip as a list of scheduled points",
		Version:      version,
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Open the trip board
  waypoint

  # List upcoming points by price
  waypoint points --filter future --sort price

  # Write a JSON snapshot
  waypoint export --out trip.json
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBoard(opts, cmd.ErrOrStderr())
		},
	}

	defaultDevMode := version == "dev"
	if envDev, ok := parseBoolEnv("WAYPOINT_DEV_MODE"); ok {
		defaultDevMode = envDev
	}
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", envOr("WAYPOINT_CONFIG", ""), "path to config TOML")
	cmd.PersistentFlags().StringVar(&opts.dbPath, "db", envOr("WAYPOINT_DB_PATH", ""), "path to sqlite database")
	cmd.PersistentFlags().StringVar(&opts.appName, "app", envOr("WAYPOINT_APP_NAME", platform.DefaultAppName), "application name for config/data path resolution")
	cmd.PersistentFlags().BoolVar(&opts.devMode, "dev", defaultDevMode, "use dev mode paths (<app>-dev)")

	cmd.AddCommand(newPathsCmd(opts))
	cmd.AddCommand(newPointsCmd(opts))
	cmd.AddCommand(newExportCmd(opts))
	return cmd
}

// runtimeEnv is the resolved state a command runs against.
type runtimeEnv struct {
	paths  platform.Paths
	config config.Config
	logger *runtimeLogger
	repo   *sqlite.Repository
}

// Close releases the repository and the log sinks.
func (e *runtimeEnv) Close(stderr io.Writer) {
	if e.repo != nil {
		if err := e.repo.Close(); err != nil {
			e.logger.Warn("sqlite close failed", "db_path", e.config.Database.Path, "err", err)
		}
	}
	if err := e.logger.Close(); err != nil && e.logger.shouldLogToSink(e.logger.consoleSink) {
		_, _ = fmt.Fprintf(stderr, "warning: close runtime log sink: %v\n", err)
	}
}

// resolvePaths applies the app name and dev suffix.
func resolvePaths(opts *rootOptions) (platform.Paths, error) {
	return platform.DefaultPathsWithOptions(platform.Options{
		AppName: opts.appName,
		DevMode: opts.devMode,
	})
}

// openRuntime resolves config, logging and storage for one command.
func openRuntime(opts *rootOptions, command string, stderr io.Writer) (*runtimeEnv, error) {
	paths, err := resolvePaths(opts)
	if err != nil {
		return nil, err
	}

	configPath := strings.TrimSpace(opts.configPath)
	if configPath == "" {
		configPath = paths.ConfigPath
	}
	dbPath := strings.TrimSpace(opts.dbPath)
	dbOverridden := dbPath != ""
	if !dbOverridden {
		dbPath = paths.DBPath
	}

	cfg, err := config.Load(configPath, config.Default(dbPath))
	if err != nil {
		return nil, fmt.Errorf("load config %q: %w", configPath, err)
	}
	if dbOverridden {
		cfg.Database.Path = dbPath
	}

	logger, err := newRuntimeLogger(stderr, opts.appName, opts.devMode, cfg.Logging, time.Now)
	if err != nil {
		return nil, fmt.Errorf("configure runtime logger: %w", err)
	}
	if command == "board" {
		// The board owns the terminal; runtime logs go to the dev file only.
		logger.SetConsoleEnabled(false)
	}
	env := &runtimeEnv{paths: paths, config: cfg, logger: logger}

	logger.Info("startup configuration resolved", "app", opts.appName, "dev_mode", opts.devMode, "command", command)
	logger.Debug("runtime paths resolved", "config_path", configPath, "data_dir", paths.DataDir, "db_path", cfg.Database.Path)
	if devPath := logger.DevLogPath(); devPath != "" {
		logger.Info("dev file logging enabled", "path", devPath)
	}

	logger.Info("opening sqlite repository", "db_path", cfg.Database.Path)
	repo, err := sqlite.Open(cfg.Database.Path)
	if err != nil {
		logger.Error("sqlite open failed", "db_path", cfg.Database.Path, "err", err)
		env.Close(stderr)
		return nil, fmt.Errorf("open sqlite repository: %w", err)
	}
	env.repo = repo
	logger.Info("sqlite repository ready", "db_path", cfg.Database.Path, "migrations", "ensured")
	return env, nil
}

// stores builds the app-layer stores over the repository.
func (e *runtimeEnv) stores() tui.Stores {
	return tui.Stores{
		Points:       app.NewPointStore(e.repo, uuid.NewString),
		Destinations: app.NewDestinationStore(e.repo),
		Offers:       app.NewOfferStore(e.repo),
		Filters:      app.NewFilterStore(e.config.DefaultFilter()),
	}
}

// runBoard opens the interactive trip board.
func runBoard(opts *rootOptions, stderr io.Writer) error {
	env, err := openRuntime(opts, "board", stderr)
	if err != nil {
		return err
	}
	defer env.Close(stderr)

	cfg := env.config
	m := tui.NewModel(
		env.stores(),
		tui.WithLogger(env.logger.BoardLogger()),
		tui.WithDefaultPointType(cfg.DefaultPointType()),
		tui.WithTitleMaxDestinations(cfg.Board.TitleMaxDestinations),
		tui.WithBlockLimits(cfg.UIBlock.LowerLimit.Duration, cfg.UIBlock.UpperLimit.Duration),
		tui.WithShakeInterval(cfg.UI.ShakeInterval.Duration),
	)
	env.logger.Info("starting tui program loop")
	if _, err := programFactory(m).Run(); err != nil {
		env.logger.Error("tui program terminated with error", "err", err)
		return fmt.Errorf("run tui program: %w", err)
	}
	env.logger.Info("command flow complete", "command", "board")
	return nil
}

// envOr returns the trimmed env value or fallback.
func envOr(name, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		return v
	}
	return fallback
}

// parseBoolEnv reads a boolean env var, reporting whether it was set and valid.
func parseBoolEnv(name string) (bool, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}
