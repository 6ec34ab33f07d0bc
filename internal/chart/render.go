package chart

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// palette is the professional-blue theme used across all chart kinds.
var palette = []drawing.Color{
	drawing.ColorFromHex("4472C4"),
	drawing.ColorFromHex("ED7D31"),
	drawing.ColorFromHex("70AD47"),
	drawing.ColorFromHex("FFC000"),
	drawing.ColorFromHex("5B9BD5"),
}

// PNGRenderer rasterizes aggregated tables to PNG files under Dir. The
// directory is created lazily on first write, never at startup.
type PNGRenderer struct {
	Dir string
}

// NewPNGRenderer returns a renderer writing into dir.
func NewPNGRenderer(dir string) *PNGRenderer {
	return &PNGRenderer{Dir: dir}
}

// Render draws the table as the given chart kind and returns the written
// file path.
func (r *PNGRenderer) Render(kind Kind, tbl Table, title, filename string) (string, error) {
	var buf bytes.Buffer
	var err error
	switch kind {
	case Bar:
		err = renderBar(&buf, tbl, title)
	case Pie:
		err = renderPie(&buf, tbl, title)
	case Line:
		err = renderLine(&buf, tbl, title)
	default:
		return "", fmt.Errorf("unknown chart kind %q", kind)
	}
	if err != nil {
		return "", fmt.Errorf("draw %s chart: %w", kind, err)
	}
	if err := os.MkdirAll(r.Dir, 0o755); err != nil {
		return "", fmt.Errorf("mkdir charts dir: %w", err)
	}
	path := filepath.Join(r.Dir, filename)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("write chart: %w", err)
	}
	return path, nil
}

func renderBar(buf *bytes.Buffer, tbl Table, title string) error {
	bars := make([]gochart.Value, len(tbl.Rows))
	for i, row := range tbl.Rows {
		bars[i] = gochart.Value{
			Value: row.Values[0],
			Label: clipLabel(row.Label),
			Style: gochart.Style{FillColor: palette[0], StrokeColor: palette[0]},
		}
	}
	bc := gochart.BarChart{
		Title:    title,
		Width:    1000,
		Height:   600,
		BarWidth: barWidth(len(bars)),
		Bars:     bars,
	}
	return bc.Render(gochart.PNG, buf)
}

func renderPie(buf *bytes.Buffer, tbl Table, title string) error {
	values := make([]gochart.Value, len(tbl.Rows))
	for i, row := range tbl.Rows {
		values[i] = gochart.Value{
			Value: row.Values[0],
			Label: clipLabel(row.Label),
			Style: gochart.Style{FillColor: palette[i%len(palette)]},
		}
	}
	pc := gochart.PieChart{
		Title:  title,
		Width:  800,
		Height: 800,
		Values: values,
	}
	return pc.Render(gochart.PNG, buf)
}

func renderLine(buf *bytes.Buffer, tbl Table, title string) error {
	xs := make([]float64, len(tbl.Rows))
	ticks := make([]gochart.Tick, len(tbl.Rows))
	for i, row := range tbl.Rows {
		xs[i] = float64(i)
		ticks[i] = gochart.Tick{Value: float64(i), Label: clipLabel(row.Label)}
	}
	series := make([]gochart.Series, len(tbl.YLabels))
	for j, name := range tbl.YLabels {
		ys := make([]float64, len(tbl.Rows))
		for i, row := range tbl.Rows {
			ys[i] = row.Values[j]
		}
		series[j] = gochart.ContinuousSeries{
			Name:    Humanize(name),
			XValues: xs,
			YValues: ys,
			Style: gochart.Style{
				StrokeColor: palette[j%len(palette)],
				StrokeWidth: 2,
			},
		}
	}
	lc := gochart.Chart{
		Title:  title,
		Width:  1000,
		Height: 600,
		XAxis:  gochart.XAxis{Ticks: ticks},
		Series: series,
	}
	lc.Elements = []gochart.Renderable{gochart.Legend(&lc)}
	return lc.Render(gochart.PNG, buf)
}

func barWidth(n int) int {
	if n == 0 {
		return 60
	}
	w := 900 / n
	if w > 60 {
		w = 60
	}
	if w < 10 {
		w = 10
	}
	return w
}

// clipLabel keeps axis labels readable on dense charts.
func clipLabel(s string) string {
	const max = 24
	if len(s) > max {
		return s[:max-1] + "…"
	}
	return s
}
