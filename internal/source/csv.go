package source

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/KaramelBytes/reportloom-cli/internal/dataset"
)

type csvLoader struct{}

func (csvLoader) Type() string { return "csv" }

func (csvLoader) Detect(source string) bool {
	name := strings.ToLower(source)
	return strings.HasSuffix(name, ".csv") || strings.HasSuffix(name, ".tsv")
}

func (csvLoader) Load(ctx context.Context, d Descriptor) (*dataset.Dataset, error) {
	f, err := os.Open(d.Source)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	r.Comma = sniffDelimiter(d.Source)

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("csv %s is empty", d.Source)
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	ds, err := dataset.New(header)
	if err != nil {
		return nil, fmt.Errorf("csv header: %w", err)
	}
	cols := ds.Columns()
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rec, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read row %d: %w", ds.Len()+1, err)
		}
		row := make(dataset.Row, len(cols))
		for i, col := range cols {
			if i < len(rec) {
				row[col] = dataset.ParseCell(rec[i])
			}
		}
		ds.Append(row)
	}
	return ds, nil
}

// sniffDelimiter picks by filename; tabs for .tsv, comma otherwise.
func sniffDelimiter(path string) rune {
	if strings.HasSuffix(strings.ToLower(path), ".tsv") {
		return '\t'
	}
	return ','
}
