package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/reportloom-cli/internal/email"
	"github.com/KaramelBytes/reportloom-cli/internal/report"
	"github.com/KaramelBytes/reportloom-cli/internal/schedule"
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run report generation on the configured schedule",
	Long: `Schedule blocks and regenerates the report on the configured timetable
(daily, weekly, or a fixed interval) until interrupted. Failed runs are
logged and the schedule keeps going.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireConfig()
		if err != nil {
			return err
		}
		if !c.Schedule.Enabled {
			return fmt.Errorf("schedule.enabled is false; enable it in the config")
		}

		var sender *email.Sender
		if c.Email.Enabled {
			sender, err = email.NewSender(c.Email)
			if err != nil {
				return fmt.Errorf("email not configured: %w", err)
			}
		}

		job := func(ctx context.Context) error {
			res, err := report.NewGenerator(c, nil, nil).Run(ctx)
			if err != nil {
				return err
			}
			// Reports are on disk; a delivery problem must not mark the
			// run failed or stop the schedule.
			if sender != nil {
				if err := sender.Send(ctx, c.Report.Title, res.Outputs); err != nil {
					slog.Warn("report generated but email delivery failed",
						slog.String("error", err.Error()))
				}
			}
			return nil
		}

		s, err := schedule.New(c.Schedule, job, slog.Default())
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		fmt.Printf("✓ Scheduler running (%s); press Ctrl-C to stop\n", s.Spec())
		if err := s.Run(ctx); !errors.Is(err, context.Canceled) {
			return err
		}
		fmt.Println("✓ Scheduler stopped")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(scheduleCmd)
}
