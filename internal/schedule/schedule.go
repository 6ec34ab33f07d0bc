// Package schedule runs report generation on a recurring timetable.
package schedule

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/robfig/cron/v3"

	"github.com/KaramelBytes/reportloom-cli/internal/config"
)

// Job is one scheduled unit of work, typically a full report run.
type Job func(ctx context.Context) error

// Scheduler triggers a job per the configured frequency until its context
// is cancelled.
type Scheduler struct {
	spec string
	job  Job
	log  *slog.Logger
}

// New builds a scheduler from the configuration. A nil logger gets the
// default.
func New(cfg config.Schedule, job Job, log *slog.Logger) (*Scheduler, error) {
	spec, err := CronSpec(cfg)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = slog.Default()
	}
	return &Scheduler{spec: spec, job: job, log: log}, nil
}

// Spec returns the cron expression the scheduler runs on.
func (s *Scheduler) Spec() string { return s.spec }

// Run blocks, firing the job on schedule, until ctx is cancelled. A failed
// job run is logged and does not stop the schedule.
func (s *Scheduler) Run(ctx context.Context) error {
	c := cron.New()
	_, err := c.AddFunc(s.spec, func() {
		s.log.Info("scheduled run starting")
		if err := s.job(ctx); err != nil {
			s.log.Error("scheduled run failed", slog.String("error", err.Error()))
			return
		}
		s.log.Info("scheduled run finished")
	})
	if err != nil {
		return fmt.Errorf("register schedule %q: %w", s.spec, err)
	}

	s.log.Info("scheduler started", slog.String("cron", s.spec))
	c.Start()
	<-ctx.Done()
	stopCtx := c.Stop()
	// Let an in-flight run finish before returning.
	<-stopCtx.Done()
	return ctx.Err()
}

var weekdays = map[string]string{
	"sunday":    "SUN",
	"monday":    "MON",
	"tuesday":   "TUE",
	"wednesday": "WED",
	"thursday":  "THU",
	"friday":    "FRI",
	"saturday":  "SAT",
}

// CronSpec translates the schedule configuration into a cron expression:
// daily and weekly use the HH:MM wall-clock time, interval uses @every.
func CronSpec(cfg config.Schedule) (string, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Frequency)) {
	case "daily":
		h, m, err := parseAt(cfg.At)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%d %d * * *", m, h), nil
	case "weekly":
		h, m, err := parseAt(cfg.At)
		if err != nil {
			return "", err
		}
		day, ok := weekdays[strings.ToLower(strings.TrimSpace(cfg.Day))]
		if !ok {
			return "", fmt.Errorf("unknown weekday %q", cfg.Day)
		}
		return fmt.Sprintf("%d %d * * %s", m, h, day), nil
	case "interval":
		if cfg.EveryMinutes <= 0 {
			return "", fmt.Errorf("schedule.every_minutes must be positive, got %d", cfg.EveryMinutes)
		}
		return fmt.Sprintf("@every %dm", cfg.EveryMinutes), nil
	default:
		return "", fmt.Errorf("unknown schedule frequency %q", cfg.Frequency)
	}
}

// parseAt reads an HH:MM wall-clock time.
func parseAt(at string) (hour, minute int, err error) {
	parts := strings.SplitN(strings.TrimSpace(at), ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("schedule.at must be HH:MM, got %q", at)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("invalid hour in schedule.at %q", at)
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid minute in schedule.at %q", at)
	}
	return hour, minute, nil
}
