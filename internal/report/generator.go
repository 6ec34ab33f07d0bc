// Package report orchestrates a full run: load the dataset, profile it,
// build the configured charts, and assemble the output documents.
package report

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/KaramelBytes/reportloom-cli/internal/chart"
	"github.com/KaramelBytes/reportloom-cli/internal/config"
	"github.com/KaramelBytes/reportloom-cli/internal/dataset"
	"github.com/KaramelBytes/reportloom-cli/internal/source"
)

// Generator runs report generation end to end for one configuration.
type Generator struct {
	cfg      *config.Global
	renderer chart.Renderer
	log      *slog.Logger
}

// NewGenerator wires a generator. A nil renderer gets a PNG renderer
// targeting the configured charts directory; a nil logger gets the default.
func NewGenerator(cfg *config.Global, renderer chart.Renderer, log *slog.Logger) *Generator {
	if renderer == nil {
		renderer = chart.NewPNGRenderer(cfg.Output.ChartsDir)
	}
	if log == nil {
		log = slog.Default()
	}
	return &Generator{cfg: cfg, renderer: renderer, log: log}
}

// Result is what one run produced.
type Result struct {
	Manifest *Manifest
	// Outputs maps format name (pdf, html) to the written file path.
	Outputs map[string]string
	Charts  []chart.Artifact
}

// Run executes one report generation pass. A source that cannot be loaded
// is fatal; a chart that cannot be built is logged and skipped.
func (g *Generator) Run(ctx context.Context) (*Result, error) {
	g.log.Info("loading data", slog.String("source", g.cfg.Data.Source))
	ds, err := source.Load(ctx, descriptor(g.cfg.Data))
	if err != nil {
		return nil, fmt.Errorf("load data: %w", err)
	}
	g.log.Info("data loaded",
		slog.Int("rows", ds.Len()),
		slog.Int("columns", len(ds.Columns())))

	summary := dataset.Summarize(ds)
	prof := dataset.Classify(ds)
	g.log.Debug("columns classified",
		slog.Int("numeric", len(prof.Numeric)),
		slog.Int("categorical", len(prof.Categorical)),
		slog.Int("date_like", len(prof.DateLike)))

	builder := chart.NewBuilder(g.renderer, g.log)
	var artifacts []chart.Artifact

	manifest := NewManifest(g.cfg.Report.Title, g.cfg.Data.Source)
	manifest.Rows = ds.Len()
	manifest.Columns = ds.Columns()

	plans := []struct {
		kind chart.Kind
		cc   config.ChartConfig
	}{
		{chart.Bar, g.cfg.Charts.Bar},
		{chart.Pie, g.cfg.Charts.Pie},
		{chart.Line, g.cfg.Charts.Line},
	}
	for _, p := range plans {
		if !p.cc.Enabled {
			continue
		}
		spec, err := chart.Resolve(p.kind, chartConfig(p.cc), prof)
		if err != nil {
			if skippable(err) {
				g.log.Warn("chart skipped",
					slog.String("kind", string(p.kind)),
					slog.String("reason", err.Error()))
				continue
			}
			return nil, fmt.Errorf("resolve %s chart: %w", p.kind, err)
		}
		art, err := builder.Build(spec, ds)
		if err != nil {
			if skippable(err) {
				g.log.Warn("chart skipped",
					slog.String("kind", string(p.kind)),
					slog.String("reason", err.Error()))
				continue
			}
			return nil, fmt.Errorf("build %s chart: %w", p.kind, err)
		}
		artifacts = append(artifacts, *art)
		manifest.AddChart(p.kind, art)
	}

	doc := Document{
		Meta: Meta{
			Title:   g.cfg.Report.Title,
			Author:  g.cfg.Report.Author,
			Company: g.cfg.Report.Company,
		},
		Summary: summary,
		Charts:  artifacts,
	}

	outputs := make(map[string]string)
	name := "report_" + time.Now().Format("2006-01-02_150405")
	for _, format := range g.cfg.Output.Formats {
		switch strings.ToLower(strings.TrimSpace(format)) {
		case "pdf":
			path, err := WritePDF(doc, g.cfg.Output.ReportsDir, name)
			if err != nil {
				return nil, err
			}
			outputs["pdf"] = path
			g.log.Info("report written", slog.String("format", "pdf"), slog.String("path", path))
		case "html", "deck":
			path, err := WriteDeck(doc, g.cfg.Output.ReportsDir, name)
			if err != nil {
				return nil, err
			}
			outputs["html"] = path
			g.log.Info("report written", slog.String("format", "html"), slog.String("path", path))
		default:
			g.log.Warn("unknown output format", slog.String("format", format))
		}
	}

	manifest.Outputs = outputs
	if _, err := manifest.Save(g.cfg.Output.ReportsDir); err != nil {
		return nil, err
	}

	return &Result{Manifest: manifest, Outputs: outputs, Charts: artifacts}, nil
}

func skippable(err error) bool {
	return errors.Is(err, chart.ErrNotBuildable) || errors.Is(err, chart.ErrInsufficientData)
}

// descriptor converts the config data section into a loader descriptor.
func descriptor(d config.Data) source.Descriptor {
	return source.Descriptor{
		Source:   d.Source,
		Type:     d.SourceType,
		Sheet:    d.Sheet,
		Table:    d.Table,
		Query:    d.Query,
		Headers:  d.Headers,
		Params:   d.Params,
		JSONPath: d.JSONPath,
	}
}

// chartConfig converts a raw config fragment into a chart config, turning
// "auto" placeholders into auto selectors.
func chartConfig(cc config.ChartConfig) chart.Config {
	agg, err := chart.ParseAggregation(cc.Aggregation)
	if err != nil {
		// Unknown names fall back to sum rather than failing the run.
		agg = chart.AggSum
	}
	var ys []string
	for _, y := range cc.YColumns {
		y = strings.TrimSpace(y)
		if y == "" || strings.EqualFold(y, "auto") {
			continue
		}
		ys = append(ys, y)
	}
	return chart.Config{
		Enabled:     cc.Enabled,
		Category:    chart.ParseSelector(cc.CategoryColumn),
		Value:       chart.ParseSelector(cc.ValueColumn),
		XColumn:     chart.ParseSelector(cc.XColumn),
		YColumns:    ys,
		Aggregation: agg,
		TopN:        cc.TopN,
		Title:       cc.Title,
	}
}
