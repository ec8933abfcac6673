package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hylla/waypoint/internal/domain"
	toml "github.com/pelletier/go-toml/v2"
)

type Config struct {
	Database DatabaseConfig `toml:"database"`
	Logging  LoggingConfig  `toml:"logging"`
	Board    BoardConfig    `toml:"board"`
	UIBlock  UIBlockConfig  `toml:"ui_block"`
	UI       UIConfig       `toml:"ui"`
}

type DatabaseConfig struct {
	Path string `toml:"path"`
}

type LoggingConfig struct {
	Level   string        `toml:"level"`
	DevFile DevFileConfig `toml:"dev_file"`
}

type DevFileConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

type BoardConfig struct {
	DefaultType          string `toml:"default_type"`
	DefaultFilter        string `toml:"default_filter"`
	TitleMaxDestinations int    `toml:"title_max_destinations"`
}

// UIBlockConfig bounds how long the saving indicator takes to appear and how long it stays.
type UIBlockConfig struct {
	LowerLimit Duration `toml:"lower_limit"`
	UpperLimit Duration `toml:"upper_limit"`
}

type UIConfig struct {
	ShakeInterval Duration `toml:"shake_interval"`
}

// Duration decodes TOML strings such as "350ms".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", string(text), err)
	}
	d.Duration = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func Default(dbPath string) Config {
	return Config{
		Database: DatabaseConfig{
			Path: dbPath,
		},
		Logging: LoggingConfig{
			Level: "info",
			DevFile: DevFileConfig{
				Enabled: true,
				Dir:     ".waypoint/log",
			},
		},
		Board: BoardConfig{
			DefaultType:          string(domain.PointTypeFlight),
			DefaultFilter:        string(domain.FilterEverything),
			TitleMaxDestinations: domain.DefaultTitleMaxDestinations,
		},
		UIBlock: UIBlockConfig{
			LowerLimit: Duration{350 * time.Millisecond},
			UpperLimit: Duration{1000 * time.Millisecond},
		},
		UI: UIConfig{
			ShakeInterval: Duration{60 * time.Millisecond},
		},
	}
}

func Load(path string, defaults Config) (Config, error) {
	cfg := defaults
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if len(content) == 0 {
		return cfg, nil
	}

	if err := toml.Unmarshal(content, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode toml: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Database.Path) == "" {
		return errors.New("database path is required")
	}

	switch strings.TrimSpace(strings.ToLower(c.Logging.Level)) {
	case "", "debug", "info", "warn", "error", "fatal":
	default:
		return fmt.Errorf("invalid logging.level: %q", c.Logging.Level)
	}
	if c.Logging.DevFile.Enabled && strings.TrimSpace(c.Logging.DevFile.Dir) == "" {
		return errors.New("logging.dev_file.dir is required when enabled")
	}

	if !domain.PointType(strings.TrimSpace(c.Board.DefaultType)).Valid() {
		return fmt.Errorf("invalid board.default_type: %q", c.Board.DefaultType)
	}
	if _, err := domain.ParseFilter(c.Board.DefaultFilter); err != nil {
		return fmt.Errorf("invalid board.default_filter: %q", c.Board.DefaultFilter)
	}
	if c.Board.TitleMaxDestinations < 1 {
		return errors.New("board.title_max_destinations must be >= 1")
	}

	if c.UIBlock.LowerLimit.Duration < 0 {
		return errors.New("ui_block.lower_limit must be >= 0")
	}
	if c.UIBlock.UpperLimit.Duration < c.UIBlock.LowerLimit.Duration {
		return errors.New("ui_block.upper_limit must be >= ui_block.lower_limit")
	}
	if c.UI.ShakeInterval.Duration <= 0 {
		return errors.New("ui.shake_interval must be > 0")
	}

	return nil
}

// DefaultPointType returns the point type new forms start with.
func (c Config) DefaultPointType() domain.PointType {
	return domain.PointType(strings.TrimSpace(c.Board.DefaultType))
}

// DefaultFilter returns the filter the board opens with.
func (c Config) DefaultFilter() domain.FilterType {
	f, err := domain.ParseFilter(c.Board.DefaultFilter)
	if err != nil {
		return domain.FilterEverything
	}
	return f
}

func EnsureConfigDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
