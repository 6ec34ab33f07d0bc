package chart

import (
	"fmt"

	"github.com/KaramelBytes/reportloom-cli/internal/dataset"
)

// yListMax caps how many numeric series auto-resolution assigns to a line
// chart.
const yListMax = 3

// Resolve fills every auto placeholder in cfg from the profile and returns
// a concrete spec for the given chart kind. Explicit selections always win
// over auto-resolution. When the dataset offers no usable column for a
// required role, Resolve returns ErrNotBuildable.
func Resolve(kind Kind, cfg Config, prof dataset.Profile) (Spec, error) {
	spec := Spec{
		Kind:        kind,
		Aggregation: cfg.Aggregation,
		TopN:        cfg.TopN,
		Title:       cfg.Title,
	}
	if spec.Aggregation == "" {
		spec.Aggregation = AggSum
	}

	switch kind {
	case Bar, Pie:
		cat, auto, err := resolveColumn(cfg.Category, RoleCategory, prof)
		if err != nil {
			return Spec{}, err
		}
		val, _, err := resolveColumn(cfg.Value, RoleValue, prof)
		if err != nil {
			return Spec{}, err
		}
		spec.Category, spec.CategoryAuto = cat, auto
		spec.Value = val
		if kind == Pie && auto {
			spec.Category = preferLowCardinality(cat, prof)
		}
	case Line:
		// A single series cannot show a trend comparison.
		if len(prof.Numeric) < 2 {
			return Spec{}, fmt.Errorf("line chart needs two numeric columns: %w", ErrNotBuildable)
		}
		x, _, err := resolveColumn(cfg.XColumn, RoleXAxis, prof)
		if err != nil {
			return Spec{}, err
		}
		spec.XColumn = x
		spec.YColumns = cfg.YColumns
		if len(spec.YColumns) == 0 {
			n := len(prof.Numeric)
			if n > yListMax {
				n = yListMax
			}
			spec.YColumns = append([]string(nil), prof.Numeric[:n]...)
		}
	default:
		return Spec{}, fmt.Errorf("unknown chart kind %q", kind)
	}
	return spec, nil
}

// resolveColumn maps one selector to a concrete column for its role. The
// returned bool reports that the assignment came from auto-resolution.
func resolveColumn(sel Selector, role Role, prof dataset.Profile) (string, bool, error) {
	if name, ok := sel.Explicit(); ok {
		return name, false, nil
	}
	switch role {
	case RoleCategory:
		if best, ok := prof.BestCategorical(); ok {
			return best, true, nil
		}
		return "", false, fmt.Errorf("no categorical column: %w", ErrNotBuildable)
	case RoleValue:
		if best, ok := prof.BestNumeric(); ok {
			return best, true, nil
		}
		return "", false, fmt.Errorf("no numeric column: %w", ErrNotBuildable)
	case RoleXAxis:
		if best, ok := prof.BestCategorical(); ok {
			return best, true, nil
		}
		if len(prof.DateLike) > 0 {
			return prof.DateLike[0], true, nil
		}
		return "", false, fmt.Errorf("no x-axis column: %w", ErrNotBuildable)
	default:
		return "", false, fmt.Errorf("role %d is not column-valued", role)
	}
}

// preferLowCardinality searches the categorical list for the first column
// with a slice-friendly distinct count and prefers it over the default.
func preferLowCardinality(fallback string, prof dataset.Profile) string {
	const lo, hi = 3, 8
	for _, col := range prof.Categorical {
		if n := prof.Cardinality[col]; n >= lo && n <= hi {
			return col
		}
	}
	return fallback
}
