package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/hylla/waypoint/internal/app"
	"github.com/hylla/waypoint/internal/domain"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newPathsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "paths",
		Short: "Print resolved config, data and database paths",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			paths, err := resolvePaths(opts)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "app: %s\n", opts.appName)
			_, _ = fmt.Fprintf(out, "dev_mode: %t\n", opts.devMode)
			_, _ = fmt.Fprintf(out, "config: %s\n", paths.ConfigPath)
			_, _ = fmt.Fprintf(out, "data_dir: %s\n", paths.DataDir)
			_, _ = fmt.Fprintf(out, "db: %s\n", paths.DBPath)
			_, _ = fmt.Fprintf(out, "export_dir: %s\n", paths.ExportDir)
			return nil
		},
	}
}

func newPointsCmd(opts *rootOptions) *cobra.Command {
	var filterName, sortName string
	cmd := &cobra.Command{
		Use:   "points",
		Short: "Print the filtered and sorted trip points",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := openRuntime(opts, "points", cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer env.Close(cmd.ErrOrStderr())

			filter := env.config.DefaultFilter()
			if cmd.Flags().Changed("filter") {
				if filter, err = domain.ParseFilter(filterName); err != nil {
					return err
				}
			}
			sortBy, err := domain.ParseSort(sortName)
			if err != nil {
				return err
			}
			env.logger.Info("command flow start", "command", "points", "filter", filter, "sort", sortBy)
			snap, err := loadSnapshot(cmd.Context(), env)
			if err != nil {
				env.logger.Error("command flow failed", "command", "points", "err", err)
				return err
			}
			return writePointsTable(cmd.OutOrStdout(), snap, filter, sortBy, env.config.Board.TitleMaxDestinations, time.Now(), time.Local)
		},
	}
	cmd.Flags().StringVar(&filterName, "filter", string(domain.FilterEverything), "everything, future, present or past")
	cmd.Flags().StringVar(&sortName, "sort", string(domain.SortDay), "day, time or price")
	return cmd
}

func newExportCmd(opts *rootOptions) *cobra.Command {
	var outPath string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a JSON snapshot of points, destinations and offers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := openRuntime(opts, "export", cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer env.Close(cmd.ErrOrStderr())

			env.logger.Info("command flow start", "command", "export", "out", outPath)
			snap, err := loadSnapshot(cmd.Context(), env)
			if err != nil {
				env.logger.Error("command flow failed", "command", "export", "err", err)
				return err
			}
			if err := writeSnapshot(snap, outPath, cmd.OutOrStdout()); err != nil {
				env.logger.Error("command flow failed", "command", "export", "err", err)
				return fmt.Errorf("run export command: %w", err)
			}
			env.logger.Info("command flow complete", "command", "export")
			return nil
		},
	}
	cmd.Flags().StringVar(&outPath, "out", "-", "output file path ('-' for stdout)")
	return cmd
}

// snapshot is the exported view of the trip.
type snapshot struct {
	ExportedAt   time.Time            `json:"exported_at"`
	Points       []snapshotPoint      `json:"points"`
	Destinations []domain.Destination `json:"destinations"`
	Offers       []domain.OfferGroup  `json:"offers"`
}

type snapshotPoint struct {
	ID            string           `json:"id"`
	Type          domain.PointType `json:"type"`
	DestinationID string           `json:"destination"`
	DateFrom      time.Time        `json:"date_from"`
	DateTo        time.Time        `json:"date_to"`
	BasePrice     int              `json:"base_price"`
	OfferIDs      []string         `json:"offers"`
	IsFavorite    bool             `json:"is_favorite"`
}

// loadSnapshot initializes the stores together and copies their contents.
func loadSnapshot(ctx context.Context, env *runtimeEnv) (snapshot, error) {
	points := app.NewPointStore(env.repo, nil)
	destinations := app.NewDestinationStore(env.repo)
	offers := app.NewOfferStore(env.repo)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return points.Init(ctx) })
	g.Go(func() error { return destinations.Init(ctx) })
	g.Go(func() error { return offers.Init(ctx) })
	if err := g.Wait(); err != nil {
		return snapshot{}, fmt.Errorf("load trip: %w", err)
	}

	snap := snapshot{
		ExportedAt:   time.Now().UTC(),
		Destinations: destinations.Destinations(),
		Offers:       offers.OfferGroups(),
	}
	for _, p := range points.Points() {
		snap.Points = append(snap.Points, snapshotPoint{
			ID:            p.ID,
			Type:          p.Type,
			DestinationID: p.DestinationID,
			DateFrom:      p.DateFrom,
			DateTo:        p.DateTo,
			BasePrice:     p.BasePrice,
			OfferIDs:      append([]string{}, p.OfferIDs...),
			IsFavorite:    p.IsFavorite,
		})
	}
	return snap, nil
}

func (s snapshot) domainPoints() []domain.Point {
	out := make([]domain.Point, 0, len(s.Points))
	for _, p := range s.Points {
		out = append(out, domain.Point{
			ID:            p.ID,
			Type:          p.Type,
			DestinationID: p.DestinationID,
			DateFrom:      p.DateFrom,
			DateTo:        p.DateTo,
			BasePrice:     p.BasePrice,
			OfferIDs:      p.OfferIDs,
			IsFavorite:    p.IsFavorite,
		})
	}
	return out
}

// writeSnapshot encodes snap to outPath, or to stdout when outPath is "-".
func writeSnapshot(snap snapshot, outPath string, stdout io.Writer) error {
	encoded, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot json: %w", err)
	}
	encoded = append(encoded, '\n')

	if outPath == "" || outPath == "-" {
		if _, err := stdout.Write(encoded); err != nil {
			return fmt.Errorf("write snapshot to stdout: %w", err)
		}
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create export output dir: %w", err)
	}
	if err := os.WriteFile(outPath, encoded, 0o644); err != nil {
		return fmt.Errorf("write export file: %w", err)
	}
	return nil
}

var (
	tableHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("62")).Padding(0, 1)
	tableCellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

// writePointsTable prints the route header and one row per visible point.
func writePointsTable(w io.Writer, snap snapshot, filter domain.FilterType, sortBy domain.SortType, titleMax int, now time.Time, loc *time.Location) error {
	visible := domain.SortPoints(domain.FilterPoints(snap.domainPoints(), filter, now), sortBy)
	if len(visible) == 0 {
		_, err := fmt.Fprintln(w, filter.EmptyMessage())
		return err
	}

	summary := domain.Summarize(visible, snap.Destinations, snap.Offers, titleMax)
	rows := make([][]string, 0, len(visible))
	for _, p := range visible {
		dest, _ := domain.FindDestination(snap.Destinations, p.DestinationID)
		favorite := ""
		if p.IsFavorite {
			favorite = "★"
		}
		rows = append(rows, []string{
			domain.FormatDayMonth(p.DateFrom.In(loc)),
			p.Type.Label(),
			dest.Name,
			domain.FormatClock(p.DateFrom.In(loc)) + " - " + domain.FormatClock(p.DateTo.In(loc)),
			domain.FormatDuration(p.Duration()),
			"€" + strconv.Itoa(domain.TotalPrice(p, snap.Offers)),
			favorite,
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		Headers("DAY", "TYPE", "DESTINATION", "TIME", "DURATION", "PRICE", "").
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return tableHeaderStyle
			}
			return tableCellStyle
		})

	if _, err := fmt.Fprintf(w, "%s\n%s\nTotal: €%d\n", summary.Title, summary.Dates, summary.Cost); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, t.String())
	return err
}
