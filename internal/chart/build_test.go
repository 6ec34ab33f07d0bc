package chart

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/KaramelBytes/reportloom-cli/internal/dataset"
)

// fakeRenderer records the last table instead of rasterizing it.
type fakeRenderer struct {
	kind  Kind
	tbl   Table
	title string
	calls int
}

func (f *fakeRenderer) Render(kind Kind, tbl Table, title, filename string) (string, error) {
	f.kind, f.tbl, f.title = kind, tbl, title
	f.calls++
	return "charts/" + filename, nil
}

func salesDataset(t *testing.T) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.New([]string{"region", "revenue", "profit", "date"})
	if err != nil {
		t.Fatalf("new dataset: %v", err)
	}
	regions := []string{"NA", "EMEA", "APAC", "LATAM"}
	for i := 0; i < 100; i++ {
		r := regions[i%len(regions)]
		ds.Append(dataset.Row{
			"region":  dataset.Text(r),
			"revenue": dataset.Number(float64(10 + i)),
			"profit":  dataset.Number(float64(i % 7)),
			"date":    dataset.Text(fmt.Sprintf("2024-%02d", i%12+1)),
		})
	}
	return ds
}

func TestBuildBarSortedAndCapped(t *testing.T) {
	ds := salesDataset(t)
	r := &fakeRenderer{}
	b := NewBuilder(r, nil)
	art, err := b.Build(Spec{
		Kind: Bar, Category: "region", Value: "revenue",
		Aggregation: AggSum, TopN: 3,
	}, ds)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(r.tbl.Rows) != 3 {
		t.Fatalf("rows = %d, want top-N 3", len(r.tbl.Rows))
	}
	for i := 1; i < len(r.tbl.Rows); i++ {
		if r.tbl.Rows[i].Values[0] > r.tbl.Rows[i-1].Values[0] {
			t.Fatalf("rows not sorted descending: %+v", r.tbl.Rows)
		}
	}
	if art.Title != "Revenue by Region" {
		t.Fatalf("title = %q, want humanized default", art.Title)
	}
}

func TestBuildBarTopNZeroKeepsAll(t *testing.T) {
	ds := salesDataset(t)
	r := &fakeRenderer{}
	b := NewBuilder(r, nil)
	if _, err := b.Build(Spec{Kind: Bar, Category: "region", Value: "revenue", Aggregation: AggSum, TopN: 0}, ds); err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(r.tbl.Rows) != 4 {
		t.Fatalf("rows = %d, want all 4 groups", len(r.tbl.Rows))
	}
}

func TestBuildBarCountIgnoresValueColumn(t *testing.T) {
	ds := salesDataset(t)
	r := &fakeRenderer{}
	b := NewBuilder(r, nil)
	if _, err := b.Build(Spec{Kind: Bar, Category: "region", Value: "revenue", Aggregation: AggCount, TopN: 10}, ds); err != nil {
		t.Fatalf("build: %v", err)
	}
	// 100 rows spread evenly over 4 regions.
	for _, row := range r.tbl.Rows {
		if row.Values[0] != 25 {
			t.Fatalf("count aggregate = %v, want 25 per region", row.Values[0])
		}
	}
}

func TestBuildBarDropsNullAggregates(t *testing.T) {
	ds, err := dataset.New([]string{"cat", "val"})
	if err != nil {
		t.Fatal(err)
	}
	ds.Append(dataset.Row{"cat": dataset.Text("a"), "val": dataset.Number(5)})
	ds.Append(dataset.Row{"cat": dataset.Text("b"), "val": dataset.Null()})
	r := &fakeRenderer{}
	if _, err := NewBuilder(r, nil).Build(Spec{Kind: Bar, Category: "cat", Value: "val", Aggregation: AggSum, TopN: 10}, ds); err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(r.tbl.Rows) != 1 || r.tbl.Rows[0].Label != "a" {
		t.Fatalf("rows = %+v, want only group a", r.tbl.Rows)
	}
}

func TestBuildPieOtherBucket(t *testing.T) {
	ds, err := dataset.New([]string{"cat", "val"})
	if err != nil {
		t.Fatal(err)
	}
	total := 0.0
	for i := 0; i < 12; i++ {
		v := float64(100 - i)
		total += v
		ds.Append(dataset.Row{
			"cat": dataset.Text(fmt.Sprintf("c%02d", i)),
			"val": dataset.Number(v),
		})
	}
	r := &fakeRenderer{}
	b := NewBuilder(r, nil)
	if _, err := b.Build(Spec{Kind: Pie, Category: "cat", Value: "val", Aggregation: AggSum, TopN: 5}, ds); err != nil {
		t.Fatalf("build: %v", err)
	}
	rows := r.tbl.Rows
	if len(rows) != 5 {
		t.Fatalf("rows = %d, want top-N 5", len(rows))
	}
	last := rows[len(rows)-1]
	if last.Label != "Other" {
		t.Fatalf("last row = %q, want Other", last.Label)
	}
	var sum float64
	for _, row := range rows {
		sum += row.Values[0]
	}
	if math.Abs(sum-total) > 1e-9 {
		t.Fatalf("output sum = %v, want input sum %v", sum, total)
	}
}

func TestBuildPieUnderTopNNoOther(t *testing.T) {
	ds := salesDataset(t)
	r := &fakeRenderer{}
	if _, err := NewBuilder(r, nil).Build(Spec{Kind: Pie, Category: "region", Value: "revenue", Aggregation: AggSum, TopN: 10}, ds); err != nil {
		t.Fatalf("build: %v", err)
	}
	for _, row := range r.tbl.Rows {
		if row.Label == "Other" {
			t.Fatal("Other bucket emitted although groups fit top-N")
		}
	}
}

func TestBuildLineCapAndOrder(t *testing.T) {
	ds, err := dataset.New([]string{"month", "revenue", "profit"})
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 30; i++ {
		ds.Append(dataset.Row{
			"month":   dataset.Text(fmt.Sprintf("m%02d", i)),
			"revenue": dataset.Number(float64(i)),
			"profit":  dataset.Number(float64(30 - i)),
		})
	}
	r := &fakeRenderer{}
	b := NewBuilder(r, nil)
	art, err := b.Build(Spec{Kind: Line, XColumn: "month", YColumns: []string{"revenue", "profit"}}, ds)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(r.tbl.Rows) != 20 {
		t.Fatalf("rows = %d, want capped at 20", len(r.tbl.Rows))
	}
	// Dataset order, not value order.
	if r.tbl.Rows[0].Label != "m00" || r.tbl.Rows[19].Label != "m19" {
		t.Fatalf("rows not in dataset order: first %q last %q", r.tbl.Rows[0].Label, r.tbl.Rows[19].Label)
	}
	if art.Title != "Numeric Trends Comparison" {
		t.Fatalf("title = %q, want fixed default", art.Title)
	}
}

func TestBuildLineSkipsSinglePoint(t *testing.T) {
	ds, err := dataset.New([]string{"month", "revenue", "profit"})
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		ds.Append(dataset.Row{
			"month":   dataset.Text("jan"),
			"revenue": dataset.Number(1),
			"profit":  dataset.Number(2),
		})
	}
	r := &fakeRenderer{}
	_, err = NewBuilder(r, nil).Build(Spec{Kind: Line, XColumn: "month", YColumns: []string{"revenue", "profit"}}, ds)
	if !errors.Is(err, ErrInsufficientData) {
		t.Fatalf("err = %v, want ErrInsufficientData", err)
	}
	if r.calls != 0 {
		t.Fatal("renderer invoked for skipped chart")
	}
}

func TestHumanize(t *testing.T) {
	for in, want := range map[string]string{
		"total_laid_off": "Total Laid Off",
		"revenue":        "Revenue",
		"y":              "Y",
	} {
		if got := Humanize(in); got != want {
			t.Fatalf("Humanize(%q) = %q, want %q", in, got, want)
		}
	}
}
