package source

import (
	"context"
	"fmt"
	"strings"

	"github.com/KaramelBytes/reportloom-cli/internal/dataset"
	"github.com/xuri/excelize/v2"
)

type excelLoader struct{}

func (excelLoader) Type() string { return "excel" }

func (excelLoader) Detect(source string) bool {
	name := strings.ToLower(source)
	return strings.HasSuffix(name, ".xlsx") || strings.HasSuffix(name, ".xls")
}

func (excelLoader) Load(ctx context.Context, d Descriptor) (*dataset.Dataset, error) {
	f, err := excelize.OpenFile(d.Source)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet := d.Sheet
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q of %s is empty", sheet, d.Source)
	}
	ds, err := dataset.New(rows[0])
	if err != nil {
		return nil, fmt.Errorf("sheet header: %w", err)
	}
	cols := ds.Columns()
	for _, rec := range rows[1:] {
		if err := ctx.Err(); err != nil {
			return nil, err
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
