package dataset

// NumStats holds aggregate statistics for one numeric column.
type NumStats struct {
	Sum  float64
	Mean float64
	Max  float64
	Min  float64
}

// Summary captures the headline statistics of a dataset.
type Summary struct {
	Rows    int
	Columns []string
	// Numeric holds stats for every column whose values are predominantly
	// numbers, keyed by column name. NumericOrder preserves dataset order.
	Numeric      map[string]NumStats
	NumericOrder []string
}

// Summarize computes row count, column names and per-numeric-column
// sum/mean/max/min. Null cells are skipped; a column with no numeric
// values is omitted.
func Summarize(ds *Dataset) Summary {
	s := Summary{
		Rows:    ds.Len(),
		Columns: ds.Columns(),
		Numeric: make(map[string]NumStats),
	}
	for _, col := range s.Columns {
		var st NumStats
		n := 0
		for i := 0; i < s.Rows; i++ {
			f, ok := ds.Value(i, col).Float()
			if !ok {
				continue
			}
			if n == 0 {
				st.Min, st.Max = f, f
			} else {
				if f < st.Min {
					st.Min = f
				}
				if f > st.Max {
					st.Max = f
				}
			}
			st.Sum += f
			n++
		}
		if n == 0 {
			continue
		}
		st.Mean = st.Sum / float64(n)
		s.Numeric[col] = st
		s.NumericOrder = append(s.NumericOrder, col)
	}
	return s
}
