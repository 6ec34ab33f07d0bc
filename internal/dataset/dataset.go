package dataset

import (
	"fmt"
	"strings"
	"time"
)

// Kind identifies the underlying type of a cell value.
type Kind int

const (
	KindNull Kind = iota
	KindNumber
	KindText
	KindTime
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindText:
		return "text"
	case KindTime:
		return "time"
	default:
		return "null"
	}
}

// Value is a single typed cell. The zero value is null.
type Value struct {
	kind Kind
	num  float64
	str  string
	ts   time.Time
}

// Null returns the null value.
func Null() Value { return Value{} }

// Number returns a numeric value.
func Number(f float64) Value { return Value{kind: KindNumber, num: f} }

// Text returns a text value. Empty strings are treated as null so that
// missing cells in CSV/Excel input count as missing data.
func Text(s string) Value {
	if strings.TrimSpace(s) == "" {
		return Value{}
	}
	return Value{kind: KindText, str: s}
}

// Time returns a timestamp value.
func Time(t time.Time) Value { return Value{kind: KindTime, ts: t} }

// Kind reports the value's type.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether the value is missing.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Float returns the numeric value and whether the value is a number.
func (v Value) Float() (float64, bool) { return v.num, v.kind == KindNumber }

// Text returns the textual value and whether the value is text.
func (v Value) Text() (string, bool) { return v.str, v.kind == KindText }

// Time returns the timestamp and whether the value is a time.
func (v Value) Time() (time.Time, bool) { return v.ts, v.kind == KindTime }

// Label renders the value for use as an axis label or group key.
func (v Value) Label() string {
	switch v.kind {
	case KindNumber:
		if v.num == float64(int64(v.num)) {
			return fmt.Sprintf("%d", int64(v.num))
		}
		return fmt.Sprintf("%g", v.num)
	case KindText:
		return v.str
	case KindTime:
		return v.ts.Format("2006-01-02")
	default:
		return ""
	}
}

// Row maps column name to cell value. Columns absent from the map are null.
type Row map[string]Value

// Dataset is a rectangular, ordered collection of rows over named columns.
// Column names are unique; the column set and row count are fixed for the
// lifetime of one report run.
type Dataset struct {
	cols []string
	rows []Row
}

// New constructs an empty dataset over the given columns. Duplicate column
// names are rejected.
func New(columns []string) (*Dataset, error) {
	seen := make(map[string]struct{}, len(columns))
	cols := make([]string, 0, len(columns))
	for _, c := range columns {
		name := strings.TrimSpace(c)
		if name == "" {
			return nil, fmt.Errorf("empty column name")
		}
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("duplicate column %q", name)
		}
		seen[name] = struct{}{}
		cols = append(cols, name)
	}
	return &Dataset{cols: cols}, nil
}

// Append adds a row. Values for unknown columns are ignored.
func (d *Dataset) Append(r Row) {
	row := make(Row, len(d.cols))
	for _, c := range d.cols {
		if v, ok := r[c]; ok {
			row[c] = v
		}
	}
	d.rows = append(d.rows, row)
}

// Columns returns the column names in native order.
func (d *Dataset) Columns() []string {
	out := make([]string, len(d.cols))
	copy(out, d.cols)
	return out
}

// HasColumn reports whether the dataset declares the named column.
func (d *Dataset) HasColumn(name string) bool {
	for _, c := range d.cols {
		if c == name {
			return true
		}
	}
	return false
}

// Len returns the row count.
func (d *Dataset) Len() int { return len(d.rows) }

// Value returns the cell at row i for the named column. Out-of-range or
// unknown lookups return null.
func (d *Dataset) Value(i int, col string) Value {
	if i < 0 || i >= len(d.rows) {
		return Value{}
	}
	return d.rows[i][col]
}

// NonNull counts the non-null cells in the named column.
func (d *Dataset) NonNull(col string) int {
	n := 0
	for _, r := range d.rows {
		if !r[col].IsNull() {
			n++
		}
	}
	return n
}

// Distinct counts unique non-null labels in the named column.
func (d *Dataset) Distinct(col string) int {
	seen := make(map[string]struct{})
	for _, r := range d.rows {
		v := r[col]
		if v.IsNull() {
			continue
		}
		seen[v.Label()] = struct{}{}
	}
	return len(seen)
}
