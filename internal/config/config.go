package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global is the full application configuration.
type Global struct {
	Data     Data     `mapstructure:"data" yaml:"data"`
	Report   Report   `mapstructure:"report" yaml:"report"`
	Charts   Charts   `mapstructure:"charts" yaml:"charts"`
	Email    Email    `mapstructure:"email" yaml:"email"`
	Schedule Schedule `mapstructure:"schedule" yaml:"schedule"`
	Output   Output   `mapstructure:"output" yaml:"output"`
}

// Data describes the tabular source.
type Data struct {
	Source     string            `mapstructure:"source" yaml:"source"`
	SourceType string            `mapstructure:"source_type" yaml:"source_type"`
	Sheet      string            `mapstructure:"sheet" yaml:"sheet,omitempty"`
	Table      string            `mapstructure:"table" yaml:"table,omitempty"`
	Query      string            `mapstructure:"query" yaml:"query,omitempty"`
	Headers    map[string]string `mapstructure:"headers" yaml:"headers,omitempty"`
	Params     map[string]string `mapstructure:"params" yaml:"params,omitempty"`
	JSONPath   string            `mapstructure:"json_path" yaml:"json_path,omitempty"`
}

// Report holds document metadata.
type Report struct {
	Title   string `mapstructure:"title" yaml:"title"`
	Author  string `mapstructure:"author" yaml:"author"`
	Company string `mapstructure:"company" yaml:"company,omitempty"`
}

// Charts groups the per-chart fragments.
type Charts struct {
	Bar  ChartConfig `mapstructure:"bar_chart" yaml:"bar_chart"`
	Pie  ChartConfig `mapstructure:"pie_chart" yaml:"pie_chart"`
	Line ChartConfig `mapstructure:"line_chart" yaml:"line_chart"`
}

// ChartConfig is one chart's raw configuration. Column fields accept a
// column name or the "auto" placeholder.
type ChartConfig struct {
	Enabled        bool     `mapstructure:"enabled" yaml:"enabled"`
	CategoryColumn string   `mapstructure:"category_column" yaml:"category_column,omitempty"`
	ValueColumn    string   `mapstructure:"value_column" yaml:"value_column,omitempty"`
	XColumn        string   `mapstructure:"x_column" yaml:"x_column,omitempty"`
	YColumns       []string `mapstructure:"y_columns" yaml:"y_columns,omitempty"`
	Aggregation    string   `mapstructure:"aggregation" yaml:"aggregation,omitempty"`
	TopN           int      `mapstructure:"top_n" yaml:"top_n,omitempty"`
	Title          string   `mapstructure:"title" yaml:"title,omitempty"`
}

// Email configures SMTP delivery.
type Email struct {
	Enabled    bool     `mapstructure:"enabled" yaml:"enabled"`
	Host       string   `mapstructure:"host" yaml:"host,omitempty"`
	Port       int      `mapstructure:"port" yaml:"port,omitempty"`
	Username   string   `mapstructure:"username" yaml:"username,omitempty"`
	Password   string   `mapstructure:"password" yaml:"password,omitempty"`
	Sender     string   `mapstructure:"sender" yaml:"sender,omitempty"`
	Recipients []string `mapstructure:"recipients" yaml:"recipients,omitempty"`
}

// Schedule configures recurring report runs.
type Schedule struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
	// Frequency is daily, weekly or interval.
	Frequency string `mapstructure:"frequency" yaml:"frequency,omitempty"`
	// Day selects the weekday for weekly runs (monday..sunday).
	Day string `mapstructure:"day" yaml:"day,omitempty"`
	// At is the HH:MM wall-clock time for daily/weekly runs.
	At string `mapstructure:"at" yaml:"at,omitempty"`
	// EveryMinutes is the interval length for interval runs.
	EveryMinutes int `mapstructure:"every_minutes" yaml:"every_minutes,omitempty"`
}

// Output configures formats and destination directories. Directories are
// created lazily on first write, never at startup.
type Output struct {
	Formats    []string `mapstructure:"formats" yaml:"formats"`
	ChartsDir  string   `mapstructure:"charts_dir" yaml:"charts_dir"`
	ReportsDir string   `mapstructure:"reports_dir" yaml:"reports_dir"`
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("REPORTLOOM")
	v.AutomaticEnv()

	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".reportloom"))
		}
	}
	// The file is optional; defaults alone are a runnable configuration.
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}

// Save writes the configuration to cfgFile. If cfgFile is empty it writes
// to ~/.reportloom/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".reportloom")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("data.source", "sample_data/data.csv")
	v.SetDefault("data.source_type", "auto")

	v.SetDefault("report.title", "Data Analysis Report")
	v.SetDefault("report.author", "ReportLoom")

	v.SetDefault("charts.bar_chart.enabled", true)
	v.SetDefault("charts.bar_chart.category_column", "auto")
	v.SetDefault("charts.bar_chart.value_column", "auto")
	v.SetDefault("charts.bar_chart.aggregation", "sum")
	v.SetDefault("charts.bar_chart.top_n", 15)

	v.SetDefault("charts.pie_chart.enabled", true)
	v.SetDefault("charts.pie_chart.category_column", "auto")
	v.SetDefault("charts.pie_chart.value_column", "auto")
	v.SetDefault("charts.pie_chart.aggregation", "sum")
	v.SetDefault("charts.pie_chart.top_n", 10)

	v.SetDefault("charts.line_chart.enabled", true)
	v.SetDefault("charts.line_chart.x_column", "auto")

	v.SetDefault("email.enabled", false)
	v.SetDefault("email.port", 587)

	v.SetDefault("schedule.enabled", false)
	v.SetDefault("schedule.frequency", "weekly")
	v.SetDefault("schedule.day", "monday")
	v.SetDefault("schedule.at", "09:00")
	v.SetDefault("schedule.every_minutes", 60)

	v.SetDefault("output.formats", []string{"pdf", "html"})
	v.SetDefault("output.charts_dir", "output/charts")
	v.SetDefault("output.reports_dir", "output/reports")
}
