package report

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/KaramelBytes/reportloom-cli/internal/chart"
	"github.com/KaramelBytes/reportloom-cli/internal/config"
)

// pngRenderer writes a minimal real PNG so the assemblers can embed it.
type pngRenderer struct {
	dir   string
	kinds []chart.Kind
}

func (r *pngRenderer) Render(kind chart.Kind, tbl chart.Table, title, filename string) (string, error) {
	r.kinds = append(r.kinds, kind)
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 0x44, G: 0x72, B: 0xC4, A: 0xFF})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	path := filepath.Join(r.dir, filename)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

func writeCSV(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func testConfig(t *testing.T, csvPath string) *config.Global {
	t.Helper()
	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("load defaults: %v", err)
	}
	cfg.Data.Source = csvPath
	cfg.Report.Title = "Quarterly Sales Report"
	cfg.Report.Author = "Analytics"
	cfg.Output.ChartsDir = filepath.Join(t.TempDir(), "charts")
	cfg.Output.ReportsDir = filepath.Join(t.TempDir(), "reports")
	return cfg
}

func TestGeneratorRunEndToEnd(t *testing.T) {
	dir := t.TempDir()
	csv := writeCSV(t, dir, "sales.csv",
		"region,revenue,units\n"+
			"North,1200.50,10\n"+
			"South,800,8\n"+
			"North,300,3\n"+
			"East,950.25,9\n")
	cfg := testConfig(t, csv)

	rend := &pngRenderer{dir: t.TempDir()}
	gen := NewGenerator(cfg, rend, nil)
	res, err := gen.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	// Two numeric columns and one categorical: all three charts build.
	if len(res.Charts) != 3 {
		t.Fatalf("expected 3 charts, got %d", len(res.Charts))
	}
	wantKinds := []chart.Kind{chart.Bar, chart.Pie, chart.Line}
	for i, k := range wantKinds {
		if rend.kinds[i] != k {
			t.Errorf("chart %d: got kind %s, want %s", i, rend.kinds[i], k)
		}
	}
	if res.Charts[0].Title != "Revenue by Region" {
		t.Errorf("bar title = %q", res.Charts[0].Title)
	}
	if res.Charts[2].Title != "Numeric Trends Comparison" {
		t.Errorf("line title = %q", res.Charts[2].Title)
	}

	for _, format := range []string{"pdf", "html"} {
		path, ok := res.Outputs[format]
		if !ok {
			t.Fatalf("missing %s output", format)
		}
		if _, err := os.Stat(path); err != nil {
			t.Errorf("%s output not written: %v", format, err)
		}
	}

	m, err := LoadManifest(cfg.Output.ReportsDir)
	if err != nil {
		t.Fatalf("load manifest: %v", err)
	}
	if m.Rows != 4 {
		t.Errorf("manifest rows = %d, want 4", m.Rows)
	}
	if len(m.Charts) != 3 {
		t.Errorf("manifest charts = %d, want 3", len(m.Charts))
	}
	if m.ID == "" {
		t.Error("manifest has empty id")
	}
}

func TestGeneratorSkipsUnbuildableCharts(t *testing.T) {
	dir := t.TempDir()
	// One numeric column: the line chart needs two and must be skipped
	// without failing the run.
	csv := writeCSV(t, dir, "sales.csv",
		"region,revenue\nNorth,100\nSouth,200\n")
	cfg := testConfig(t, csv)
	cfg.Output.Formats = []string{"html"}

	rend := &pngRenderer{dir: t.TempDir()}
	res, err := NewGenerator(cfg, rend, nil).Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(res.Charts) != 2 {
		t.Fatalf("expected bar and pie only, got %d charts", len(res.Charts))
	}
	for _, k := range rend.kinds {
		if k == chart.Line {
			t.Error("line chart should have been skipped")
		}
	}
}

func TestGeneratorFailsOnMissingSource(t *testing.T) {
	cfg := testConfig(t, filepath.Join(t.TempDir(), "nope.csv"))
	_, err := NewGenerator(cfg, &pngRenderer{dir: t.TempDir()}, nil).Run(context.Background())
	if err == nil {
		t.Fatal("expected error for unreadable source")
	}
}

func TestGeneratorDisabledCharts(t *testing.T) {
	dir := t.TempDir()
	csv := writeCSV(t, dir, "sales.csv",
		"region,revenue,units\nNorth,100,1\nSouth,200,2\n")
	cfg := testConfig(t, csv)
	cfg.Charts.Pie.Enabled = false
	cfg.Charts.Line.Enabled = false
	cfg.Output.Formats = []string{"pdf"}

	rend := &pngRenderer{dir: t.TempDir()}
	res, err := NewGenerator(cfg, rend, nil).Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(res.Charts) != 1 || rend.kinds[0] != chart.Bar {
		t.Fatalf("expected only the bar chart, got %v", rend.kinds)
	}
}
