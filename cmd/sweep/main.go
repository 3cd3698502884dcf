package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/yungbote/studyplanner-backend/internal/app"
	"github.com/yungbote/studyplanner-backend/internal/platform/logger"
	"github.com/yungbote/studyplanner-backend/internal/services"
	"github.com/yungbote/studyplanner-backend/internal/temporalx/sweepflow"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "sweep",
		Short:         "Run study planner notification sweeps and maintenance",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newSweepCmd(services.SweepDue, "Create reminders for assignments due tomorrow"))
	root.AddCommand(newSweepCmd(services.SweepWeekly, "Create weekly summary notifications"))
	root.AddCommand(newMigrateCmd())
	return root
}

func newSweepCmd(kind services.SweepKind, short string) *cobra.Command {
	var at string
	var viaTemporal bool

	cmd := &cobra.Command{
		Use:   string(kind),
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			now, err := parseAt(at)
			if err != nil {
				return err
			}
			log, err := app.NewLogger()
			if err != nil {
				return err
			}
			defer log.Sync()

			a, err := app.New(cmd.Context(), log)
			if err != nil {
				return err
			}
			defer a.Close()

			var res services.SweepResult
			if viaTemporal {
				if a.Clients.Temporal == nil {
					return fmt.Errorf("--temporal requires TEMPORAL_ADDRESS")
				}
				out, err := sweepflow.Trigger(cmd.Context(), a.Clients.Temporal, a.Cfg.Temporal, sweepflow.Input{Kind: kind, At: now})
				if err != nil {
					return err
				}
				res = out.Sums
			} else {
				res, err = services.RunSweep(cmd.Context(), a.Services.Sweep, kind, now)
				if err != nil {
					return err
				}
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s sweep at %s: scanned=%d created=%d skipped=%d\n",
				kind, now.Format(time.RFC3339), res.Scanned, res.Created, res.Skipped)
			return nil
		},
	}
	cmd.Flags().StringVar(&at, "at", "", "evaluation time (RFC3339, default now)")
	cmd.Flags().BoolVar(&viaTemporal, "temporal", false, "run through the Temporal workflow instead of in-process")
	return cmd
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			log, err := app.NewLogger()
			if err != nil {
				return err
			}
			defer log.Sync()
			return migrate(log)
		},
	}
}

func migrate(log *logger.Logger) error {
	cfg, err := app.LoadConfig(log)
	if err != nil {
		return err
	}
	cfg.AutoMigrate = true
	pg, err := app.OpenDB(log, cfg)
	if err != nil {
		return err
	}
	defer pg.Close()
	log.Info("Migrations applied", "db", cfg.Postgres.Name)
	return nil
}

func parseAt(raw string) (time.Time, error) {
	if raw == "" {
		return time.Now(), nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --at %q: %w", raw, err)
	}
	return t, nil
}
