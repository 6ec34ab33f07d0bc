package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/KaramelBytes/reportloom-cli/internal/config"
)

func TestCronSpec(t *testing.T) {
	cases := []struct {
		name string
		cfg  config.Schedule
		want string
	}{
		{
			"weekly monday morning",
			config.Schedule{Frequency: "weekly", Day: "monday", At: "09:00"},
			"0 9 * * MON",
		},
		{
			"weekly friday evening",
			config.Schedule{Frequency: "Weekly", Day: "Friday", At: "17:30"},
			"30 17 * * FRI",
		},
		{
			"daily",
			config.Schedule{Frequency: "daily", At: "06:15"},
			"15 6 * * *",
		},
		{
			"interval",
			config.Schedule{Frequency: "interval", EveryMinutes: 45},
			"@every 45m",
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := CronSpec(c.cfg)
			if err != nil {
				t.Fatalf("CronSpec: %v", err)
			}
			if got != c.want {
				t.Errorf("got %q, want %q", got, c.want)
			}
		})
	}
}

func TestCronSpecErrors(t *testing.T) {
	cases := []struct {
		name string
		cfg  config.Schedule
	}{
		{"bad frequency", config.Schedule{Frequency: "hourly"}},
		{"bad weekday", config.Schedule{Frequency: "weekly", Day: "moonday", At: "09:00"}},
		{"bad time", config.Schedule{Frequency: "daily", At: "9am"}},
		{"hour out of range", config.Schedule{Frequency: "daily", At: "25:00"}},
		{"zero interval", config.Schedule{Frequency: "interval", EveryMinutes: 0}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if _, err := CronSpec(c.cfg); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestSchedulerStopsOnCancel(t *testing.T) {
	cfg := config.Schedule{Frequency: "interval", EveryMinutes: 60}
	s, err := New(cfg, func(context.Context) error { return nil }, nil)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if s.Spec() != "@every 60m" {
		t.Errorf("spec = %q", s.Spec())
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		if err != context.Canceled {
			t.Errorf("Run returned %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("scheduler did not stop after cancel")
	}
}
