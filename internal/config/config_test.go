package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Report.Title != "Data Analysis Report" {
		t.Fatalf("title = %q", c.Report.Title)
	}
	if !c.Charts.Bar.Enabled || c.Charts.Bar.TopN != 15 {
		t.Fatalf("bar defaults = %+v", c.Charts.Bar)
	}
	if c.Charts.Pie.TopN != 10 {
		t.Fatalf("pie top_n = %d", c.Charts.Pie.TopN)
	}
	if c.Charts.Bar.CategoryColumn != "auto" {
		t.Fatalf("bar category = %q", c.Charts.Bar.CategoryColumn)
	}
	if c.Email.Enabled || c.Schedule.Enabled {
		t.Fatal("email and schedule must default to disabled")
	}
	if len(c.Output.Formats) != 2 {
		t.Fatalf("formats = %v", c.Output.Formats)
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	p := filepath.Join(t.TempDir(), "config.yaml")
	content := "report:\n  title: Quarterly Sales\ncharts:\n  bar_chart:\n    category_column: region\n    top_n: 5\n"
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	c, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Report.Title != "Quarterly Sales" {
		t.Fatalf("title = %q", c.Report.Title)
	}
	if c.Charts.Bar.CategoryColumn != "region" || c.Charts.Bar.TopN != 5 {
		t.Fatalf("bar = %+v", c.Charts.Bar)
	}
	// Untouched sections keep their defaults.
	if c.Charts.Pie.TopN != 10 {
		t.Fatalf("pie top_n = %d", c.Charts.Pie.TopN)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	p := filepath.Join(t.TempDir(), "config.yaml")
	c, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	c.Report.Title = "Saved Title"
	if err := Save(c, p); err != nil {
		t.Fatalf("save: %v", err)
	}
	again, err := Load(p)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if again.Report.Title != "Saved Title" {
		t.Fatalf("round-trip title = %q", again.Report.Title)
	}
}
