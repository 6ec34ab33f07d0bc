package chart

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"unicode"

	"github.com/KaramelBytes/reportloom-cli/internal/dataset"
)

// Table is an aggregated dataset ready for rendering: one row per group,
// one value per y series.
type Table struct {
	XLabel  string
	YLabels []string
	Rows    []TableRow
}

// TableRow is a single aggregated group.
type TableRow struct {
	Label  string
	Values []float64
}

// Renderer rasterizes an aggregated table into an image on disk and
// returns the artifact path. Implementations own the output directory.
type Renderer interface {
	Render(kind Kind, tbl Table, title, filename string) (string, error)
}

// Builder executes resolved chart specs against a dataset.
type Builder struct {
	renderer Renderer
	log      *slog.Logger
}

// NewBuilder wires a builder to a renderer. A nil logger falls back to the
// default slog logger.
func NewBuilder(r Renderer, log *slog.Logger) *Builder {
	if log == nil {
		log = slog.Default()
	}
	return &Builder{renderer: r, log: log}
}

// Build aggregates the dataset per the spec and renders one chart. It
// returns ErrNotBuildable or ErrInsufficientData (wrapped) when the chart
// must be skipped; those are expected outcomes, not run failures.
func (b *Builder) Build(spec Spec, ds *dataset.Dataset) (*Artifact, error) {
	var art *Artifact
	var err error
	switch spec.Kind {
	case Bar:
		art, err = b.buildBar(spec, ds)
	case Pie:
		art, err = b.buildPie(spec, ds)
	case Line:
		art, err = b.buildLine(spec, ds)
	default:
		return nil, fmt.Errorf("unknown chart kind %q", spec.Kind)
	}
	if err != nil {
		return nil, err
	}
	b.log.Debug("chart built",
		slog.String("kind", string(spec.Kind)),
		slog.String("title", art.Title),
		slog.String("path", art.Path))
	return art, nil
}

func (b *Builder) buildBar(spec Spec, ds *dataset.Dataset) (*Artifact, error) {
	groups, err := aggregate(ds, spec.Category, spec.Value, spec.Aggregation)
	if err != nil {
		return nil, err
	}
	sortDesc(groups)
	groups = truncate(groups, spec.TopN)
	if len(groups) == 0 {
		return nil, fmt.Errorf("bar chart over %s: %w", spec.Category, ErrInsufficientData)
	}
	title := spec.Title
	if title == "" {
		title = fmt.Sprintf("%s by %s", Humanize(spec.Value), Humanize(spec.Category))
	}
	tbl := toTable(spec.Category, spec.Value, groups)
	path, err := b.renderer.Render(Bar, tbl, title, "bar_chart.png")
	if err != nil {
		return nil, fmt.Errorf("render bar chart: %w", err)
	}
	return &Artifact{
		Title:       title,
		Path:        path,
		Description: fmt.Sprintf("Top %d %s by %s", len(groups), spec.Category, spec.Value),
	}, nil
}

func (b *Builder) buildPie(spec Spec, ds *dataset.Dataset) (*Artifact, error) {
	groups, err := aggregate(ds, spec.Category, spec.Value, spec.Aggregation)
	if err != nil {
		return nil, err
	}
	sortDesc(groups)
	if spec.TopN > 0 && len(groups) > spec.TopN {
		// Keep the top N-1 slices and fold the tail into "Other" so the
		// total stays equal to the sum over all input groups.
		head := groups[:spec.TopN-1]
		var other float64
		for _, g := range groups[spec.TopN-1:] {
			other += g.value
		}
		groups = append(append([]group(nil), head...), group{label: "Other", value: other})
	}
	if len(groups) == 0 {
		return nil, fmt.Errorf("pie chart over %s: %w", spec.Category, ErrInsufficientData)
	}
	title := spec.Title
	if title == "" {
		title = fmt.Sprintf("%s by %s", Humanize(spec.Value), Humanize(spec.Category))
	}
	tbl := toTable(spec.Category, spec.Value, groups)
	path, err := b.renderer.Render(Pie, tbl, title, "pie_chart.png")
	if err != nil {
		return nil, fmt.Errorf("render pie chart: %w", err)
	}
	return &Artifact{
		Title:       title,
		Path:        path,
		Description: fmt.Sprintf("Distribution across %s", spec.Category),
	}, nil
}

func (b *Builder) buildLine(spec Spec, ds *dataset.Dataset) (*Artifact, error) {
	rows, err := aggregateMulti(ds, spec.XColumn, spec.YColumns)
	if err != nil {
		return nil, err
	}
	// Dataset order, capped for readability; never sorted by value.
	if len(rows) > lineMaxPoints {
		rows = rows[:lineMaxPoints]
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("line chart over %s has %d points: %w", spec.XColumn, len(rows), ErrInsufficientData)
	}
	title := spec.Title
	if title == "" {
		title = "Numeric Trends Comparison"
	}
	tbl := Table{XLabel: spec.XColumn, YLabels: spec.YColumns, Rows: rows}
	path, err := b.renderer.Render(Line, tbl, title, "line_chart.png")
	if err != nil {
		return nil, fmt.Errorf("render line chart: %w", err)
	}
	return &Artifact{
		Title:       title,
		Path:        path,
		Description: fmt.Sprintf("Trends across %s", spec.XColumn),
	}, nil
}

type group struct {
	label string
	value float64
}

// aggregate groups the dataset by category and combines the value column.
// Count counts rows per group and ignores the value column entirely.
// Groups whose aggregate has no contributing values are dropped; group
// order is first-seen dataset order.
func aggregate(ds *dataset.Dataset, category, value string, agg Aggregation) ([]group, error) {
	if !ds.HasColumn(category) {
		return nil, fmt.Errorf("category column %q not in dataset: %w", category, ErrNotBuildable)
	}
	if agg != AggCount && !ds.HasColumn(value) {
		return nil, fmt.Errorf("value column %q not in dataset: %w", value, ErrNotBuildable)
	}
	type acc struct {
		sum   float64
		count int
		rows  int
	}
	order := []string{}
	accs := map[string]*acc{}
	for i := 0; i < ds.Len(); i++ {
		cv := ds.Value(i, category)
		if cv.IsNull() {
			continue
		}
		key := cv.Label()
		a := accs[key]
		if a == nil {
			a = &acc{}
			accs[key] = a
			order = append(order, key)
		}
		a.rows++
		if f, ok := ds.Value(i, value).Float(); ok {
			a.sum += f
			a.count++
		}
	}
	out := make([]group, 0, len(order))
	for _, key := range order {
		a := accs[key]
		switch agg {
		case AggCount:
			out = append(out, group{label: key, value: float64(a.rows)})
		case AggMean:
			if a.count == 0 {
				continue // null aggregate
			}
			out = append(out, group{label: key, value: a.sum / float64(a.count)})
		default:
			if a.count == 0 {
				continue
			}
			out = append(out, group{label: key, value: a.sum})
		}
	}
	return out, nil
}

// aggregateMulti groups by x and sums each y column per group, in
// first-seen dataset order. Groups where any y series has no contributing
// values are dropped.
func aggregateMulti(ds *dataset.Dataset, x string, ys []string) ([]TableRow, error) {
	if !ds.HasColumn(x) {
		return nil, fmt.Errorf("x column %q not in dataset: %w", x, ErrNotBuildable)
	}
	for _, y := range ys {
		if !ds.HasColumn(y) {
			return nil, fmt.Errorf("y column %q not in dataset: %w", y, ErrNotBuildable)
		}
	}
	type acc struct {
		sums   []float64
		counts []int
	}
	order := []string{}
	accs := map[string]*acc{}
	for i := 0; i < ds.Len(); i++ {
		xv := ds.Value(i, x)
		if xv.IsNull() {
			continue
		}
		key := xv.Label()
		a := accs[key]
		if a == nil {
			a = &acc{sums: make([]float64, len(ys)), counts: make([]int, len(ys))}
			accs[key] = a
			order = append(order, key)
		}
		for j, y := range ys {
			if f, ok := ds.Value(i, y).Float(); ok {
				a.sums[j] += f
				a.counts[j]++
			}
		}
	}
	out := make([]TableRow, 0, len(order))
	for _, key := range order {
		a := accs[key]
		complete := true
		for _, c := range a.counts {
			if c == 0 {
				complete = false
				break
			}
		}
		if !complete {
			continue
		}
		out = append(out, TableRow{Label: key, Values: append([]float64(nil), a.sums...)})
	}
	return out, nil
}

// sortDesc orders groups by aggregate value descending, label ascending on
// ties for determinism.
func sortDesc(groups []group) {
	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].value == groups[j].value {
			return groups[i].label < groups[j].label
		}
		return groups[i].value > groups[j].value
	})
}

// truncate keeps the first n groups; n <= 0 keeps all.
func truncate(groups []group, n int) []group {
	if n > 0 && len(groups) > n {
		return groups[:n]
	}
	return groups
}

func toTable(x, y string, groups []group) Table {
	rows := make([]TableRow, len(groups))
	for i, g := range groups {
		rows[i] = TableRow{Label: g.label, Values: []float64{g.value}}
	}
	return Table{XLabel: x, YLabels: []string{y}, Rows: rows}
}

// Humanize turns a column identifier into display text: underscores become
// spaces and each word is title-cased.
func Humanize(col string) string {
	words := strings.Fields(strings.ReplaceAll(col, "_", " "))
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
