// Package chart turns a dataset profile and a partially-specified chart
// configuration into fully concrete chart specs, aggregates the data for
// them, and hands the result to a renderer.
package chart

import (
	"errors"
	"fmt"
	"strings"
)

// Kind is the chart type.
type Kind string

const (
	Bar  Kind = "bar"
	Pie  Kind = "pie"
	Line Kind = "line"
)

// Default top-N limits applied when a fragment carries none.
const (
	DefaultBarTopN = 15
	DefaultPieTopN = 10
	// lineMaxPoints bounds line charts for readability; groups beyond it
	// are cut in dataset order, not by value.
	lineMaxPoints = 20
)

// Aggregation selects how grouped values are combined.
type Aggregation string

const (
	AggSum   Aggregation = "sum"
	AggMean  Aggregation = "mean"
	AggCount Aggregation = "count"
)

// ParseAggregation normalizes a configured aggregation name. Empty input
// defaults to sum.
func ParseAggregation(s string) (Aggregation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "sum":
		return AggSum, nil
	case "mean", "avg", "average":
		return AggMean, nil
	case "count":
		return AggCount, nil
	default:
		return "", fmt.Errorf("unknown aggregation %q", s)
	}
}

// Role names the slot a column selection fills in a chart. Resolution is
// driven by these roles, never by matching configuration key names.
type Role int

const (
	RoleCategory Role = iota
	RoleValue
	RoleXAxis
	RoleYList
	RoleTitle
)

// Selector is a tagged column reference: either an explicit column name or
// an auto placeholder to be filled from the dataset profile. The zero value
// is auto.
type Selector struct {
	name string
}

// Auto returns the placeholder selector.
func Auto() Selector { return Selector{} }

// Column returns an explicit selector for the named column.
func Column(name string) Selector { return Selector{name: strings.TrimSpace(name)} }

// ParseSelector reads a configured value; "auto" (any case) and blank both
// mean auto.
func ParseSelector(s string) Selector {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "auto") {
		return Selector{}
	}
	return Selector{name: s}
}

// Explicit returns the column name and whether the selector is explicit.
func (s Selector) Explicit() (string, bool) { return s.name, s.name != "" }

// IsAuto reports whether the selector is the auto placeholder.
func (s Selector) IsAuto() bool { return s.name == "" }

// Config is the user-supplied fragment for one chart, before resolution.
type Config struct {
	Enabled     bool
	Category    Selector
	Value       Selector
	XColumn     Selector
	YColumns    []string // empty means auto
	Aggregation Aggregation
	// TopN caps the number of groups; zero or negative keeps all. Callers
	// that want the per-kind default should leave it at DefaultBarTopN /
	// DefaultPieTopN (the config layer injects those).
	TopN  int
	Title string // empty means generate at build time
}

// Spec is a fully resolved, placeholder-free chart configuration.
type Spec struct {
	Kind        Kind
	Category    string
	Value       string
	XColumn     string
	YColumns    []string
	Aggregation Aggregation
	TopN        int
	Title       string
	// CategoryAuto records that the category came from auto-resolution
	// rather than the user. Only auto-selected categories may be swapped
	// for a lower-cardinality one by the pie resolver.
	CategoryAuto bool
}

// ErrNotBuildable signals that a chart lacks a usable column assignment.
// The chart is skipped; it is never a run failure.
var ErrNotBuildable = errors.New("chart not buildable with available columns")

// ErrInsufficientData signals that aggregation produced too few groups to
// draw a meaningful chart. The chart is skipped.
var ErrInsufficientData = errors.New("not enough data points for chart")

// Artifact is the output of building one chart: a rendered image plus the
// labels the report assembler needs. Immutable once produced.
type Artifact struct {
	Title       string
	Path        string
	Description string
}
