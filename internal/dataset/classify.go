package dataset

import "strings"

// Profile is a derived, read-only classification of a dataset's columns.
// It is computed once per report run and never mutated.
type Profile struct {
	// Numeric and Categorical hold usable column names in native dataset
	// order. A column qualifies only when its non-null fraction strictly
	// exceeds minValidFraction.
	Numeric     []string
	Categorical []string
	// DateLike holds columns whose NAME contains "date" or "time". This is
	// a naming heuristic only; values are never parsed to decide it.
	DateLike []string
	// Cardinality maps each categorical column to its distinct value count.
	Cardinality map[string]int
}

// minValidFraction is the non-null share a column must strictly exceed to
// take part in automatic chart selection. Exactly 30% is excluded.
const minValidFraction = 0.30

// BestNumeric returns the first usable numeric column.
func (p Profile) BestNumeric() (string, bool) {
	if len(p.Numeric) == 0 {
		return "", false
	}
	return p.Numeric[0], true
}

// BestCategorical returns the first usable categorical column.
func (p Profile) BestCategorical() (string, bool) {
	if len(p.Categorical) == 0 {
		return "", false
	}
	return p.Categorical[0], true
}

// Classify inspects a dataset and partitions its columns into numeric,
// categorical and date-like lists. A column's kind follows the predominant
// kind of its non-null values; mostly-empty columns are filtered out of the
// numeric/categorical lists but remain in the dataset itself. No column
// ever appears in both lists.
func Classify(ds *Dataset) Profile {
	p := Profile{Cardinality: make(map[string]int)}
	total := ds.Len()
	for _, col := range ds.Columns() {
		lower := strings.ToLower(col)
		if strings.Contains(lower, "date") || strings.Contains(lower, "time") {
			p.DateLike = append(p.DateLike, col)
		}
		var numCnt, txtCnt, tsCnt, nonNull int
		for i := 0; i < total; i++ {
			switch ds.Value(i, col).Kind() {
			case KindNumber:
				numCnt++
				nonNull++
			case KindText:
				txtCnt++
				nonNull++
			case KindTime:
				tsCnt++
				nonNull++
			}
		}
		if float64(nonNull) <= minValidFraction*float64(total) {
			continue
		}
		switch {
		case numCnt >= txtCnt && numCnt >= tsCnt && numCnt > 0:
			p.Numeric = append(p.Numeric, col)
		case txtCnt >= tsCnt && txtCnt > 0:
			p.Categorical = append(p.Categorical, col)
			p.Cardinality[col] = ds.Distinct(col)
		}
	}
	return p
}
