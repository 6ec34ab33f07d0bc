package source

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

func writeWorkbook(t *testing.T) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	rows := [][]any{
		{"region", "revenue"},
		{"North", 1200.5},
		{"South", 800},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		if err := f.SetSheetRow("Sheet1", cell, &row); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}
	path := filepath.Join(t.TempDir(), "sales.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save workbook: %v", err)
	}
	return path
}

func TestLoadExcel(t *testing.T) {
	path := writeWorkbook(t)

	ds, err := Load(context.Background(), Descriptor{Source: path})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := ds.Columns(); len(got) != 2 || got[0] != "region" || got[1] != "revenue" {
		t.Fatalf("columns = %v", got)
	}
	if ds.Len() != 2 {
		t.Fatalf("rows = %d, want 2", ds.Len())
	}
	if f, ok := ds.Value(0, "revenue").Float(); !ok || f != 1200.5 {
		t.Errorf("revenue[0] = %v (%v)", f, ok)
	}
	if s, ok := ds.Value(1, "region").Text(); !ok || s != "South" {
		t.Errorf("region[1] = %q (%v)", s, ok)
	}
}

func TestLoadExcelMissingSheet(t *testing.T) {
	path := writeWorkbook(t)

	_, err := Load(context.Background(), Descriptor{Source: path, Sheet: "Nope"})
	if err == nil {
		t.Fatal("expected error for missing sheet")
	}
}
