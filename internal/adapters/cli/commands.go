package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/crewboard/internal/adapters/export"
)

// DefaultWatchInterval is how often watch re-reads the leaderboard.
const DefaultWatchInterval = 30 * time.Second

func (a *App) showCommand() *cobra.Command {
	var carrier string
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Render the leaderboard for every carrier or one carrier",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			lb, err := a.pipeline.Leaderboard(cmd.Context())
			if err != nil {
				return err
			}
			r := newRenderer(a.out)
			code := strings.TrimSpace(carrier)
			if code == "" {
				r.Board(lb)
				return nil
			}
			view, ok := lb.Carrier(code)
			if !ok {
				return fmt.Errorf("%w: %q", ErrCarrierNotFound, code)
			}
			r.Carrier(view)
			return nil
		},
	}
	cmd.Flags().StringVarP(&carrier, "carrier", "c", "", "Show a single carrier code")
	return cmd
}

func (a *App) watchCommand() *cobra.Command {
	var (
		interval time.Duration
		rounds   int
	)
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-render the leaderboard on an interval",
		Long: "Re-render the leaderboard on an interval. The source is re-fetched only when the " +
			"cached snapshot has expired; a failed load is shown but not retried until `refresh`.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if interval <= 0 {
				return ErrInvalidInterval
			}
			ctx := cmd.Context()
			r := newRenderer(a.out)
			ticker := time.NewTicker(interval)
			defer ticker.Stop()

			for n := 1; ; n++ {
				fmt.Fprintf(a.out, "\n%s\n", faint(time.Now().Format(time.DateTime)))
				lb, err := a.pipeline.Leaderboard(ctx)
				if err != nil {
					r.Error(err)
				} else {
					r.Board(lb)
				}
				if rounds > 0 && n >= rounds {
					return nil
				}
				select {
				case <-ctx.Done():
					return nil
				case <-ticker.C:
				}
			}
		},
	}
	cmd.Flags().DurationVarP(&interval, "interval", "i", DefaultWatchInterval, "Re-render interval")
	cmd.Flags().IntVarP(&rounds, "count", "n", 0, "Stop after this many renders (0 runs until interrupted)")
	return cmd
}

func (a *App) refreshCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Discard the cached snapshot, reload the source and render",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			lb, err := a.pipeline.Refresh(cmd.Context())
			if err != nil {
				return err
			}
			r := newRenderer(a.out)
			r.Success(fmt.Sprintf("Refreshed: %d carriers, %d crew members", len(lb.Carriers()), lb.CrewCount()))
			r.Board(lb)
			return nil
		},
	}
}

func (a *App) exportCommand() *cobra.Command {
	var (
		formats string
		dir     string
		name    string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the leaderboard to csv, json, yaml or pdf files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fs, err := export.ParseFormats(formats)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			lb, err := a.pipeline.Leaderboard(ctx)
			if err != nil {
				return err
			}
			paths, err := export.NewExporter().Export(ctx, lb, fs, name, dir)
			if err != nil {
				return err
			}
			r := newRenderer(a.out)
			for _, p := range paths {
				r.Success("Saved " + p)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&formats, "format", "f", "csv", "Comma separated formats: csv, json, yaml, pdf")
	cmd.Flags().StringVarP(&dir, "dir", "d", "", "Output directory (default: current directory)")
	cmd.Flags().StringVarP(&name, "name", "N", "leaderboard", "Base file name without extension")
	return cmd
}
