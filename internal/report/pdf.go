package report

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/KaramelBytes/reportloom-cli/internal/chart"
	"github.com/KaramelBytes/reportloom-cli/internal/dataset"
	"github.com/KaramelBytes/reportloom-cli/internal/utils"
)

// Meta is the document front matter shared by every output format.
type Meta struct {
	Title   string
	Author  string
	Company string
}

// Document is everything an assembler needs: front matter, the dataset
// summary, and the rendered chart artifacts in report order.
type Document struct {
	Meta    Meta
	Summary dataset.Summary
	Charts  []chart.Artifact
}

// WritePDF assembles the document into a PDF at dir/<name>.pdf and returns
// the written path. Layout: a cover page, a data summary page, then one
// page per chart.
func WritePDF(doc Document, dir, name string) (string, error) {
	if err := utils.EnsureDir(dir); err != nil {
		return "", fmt.Errorf("ensure reports dir: %w", err)
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 20)

	coverPage(pdf, doc.Meta)
	summaryPage(pdf, doc.Summary)
	for _, art := range doc.Charts {
		chartPage(pdf, art)
	}

	path := filepath.Join(dir, name+".pdf")
	if err := pdf.OutputFileAndClose(path); err != nil {
		return "", fmt.Errorf("write pdf: %w", err)
	}
	return path, nil
}

func coverPage(pdf *fpdf.Fpdf, m Meta) {
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 28)
	pdf.SetY(90)
	pdf.MultiCell(0, 12, m.Title, "", "C", false)

	pdf.SetFont("Helvetica", "", 13)
	pdf.Ln(8)
	if m.Company != "" {
		pdf.CellFormat(0, 8, m.Company, "", 1, "C", false, 0, "")
	}
	pdf.CellFormat(0, 8, "Prepared by "+m.Author, "", 1, "C", false, 0, "")
	pdf.SetTextColor(120, 120, 120)
	pdf.CellFormat(0, 8, time.Now().Format("January 2, 2006"), "", 1, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

func summaryPage(pdf *fpdf.Fpdf, s dataset.Summary) {
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, "Data Summary", "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 7, fmt.Sprintf("Rows: %d", s.Rows), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, fmt.Sprintf("Columns: %d", len(s.Columns)), "", 1, "L", false, 0, "")
	pdf.Ln(6)

	if len(s.NumericOrder) == 0 {
		pdf.SetFont("Helvetica", "I", 11)
		pdf.CellFormat(0, 7, "No numeric columns detected.", "", 1, "L", false, 0, "")
		return
	}

	// Stats table header.
	widths := []float64{60, 32, 32, 32, 32}
	headers := []string{"Column", "Sum", "Mean", "Max", "Min"}
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(68, 114, 196)
	pdf.SetTextColor(255, 255, 255)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 8, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(0, 0, 0)
	fill := false
	for _, col := range s.NumericOrder {
		st := s.Numeric[col]
		pdf.SetFillColor(237, 241, 249)
		cells := []string{
			chart.Humanize(col),
			formatStat(st.Sum),
			formatStat(st.Mean),
			formatStat(st.Max),
			formatStat(st.Min),
		}
		for i, c := range cells {
			align := "R"
			if i == 0 {
				align = "L"
			}
			pdf.CellFormat(widths[i], 7, c, "1", 0, align, fill, 0, "")
		}
		pdf.Ln(-1)
		fill = !fill
	}
}

func chartPage(pdf *fpdf.Fpdf, art chart.Artifact) {
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, art.Title, "", 1, "L", false, 0, "")
	pdf.Ln(2)

	// Fit the image to the content width; height follows the aspect ratio.
	pdf.ImageOptions(art.Path, 15, 35, 180, 0, false,
		fpdf.ImageOptions{ImageType: "PNG", ReadDpi: true}, 0, "")

	if art.Description != "" {
		pdf.SetY(180)
		pdf.SetFont("Helvetica", "", 11)
		pdf.SetTextColor(90, 90, 90)
		pdf.MultiCell(0, 6, art.Description, "", "L", false)
		pdf.SetTextColor(0, 0, 0)
	}
}

// formatStat trims trailing zeros so whole numbers print without decimals.
func formatStat(f float64) string {
	if f == float64(int64(f)) {
		return fmt.Sprintf("%.0f", f)
	}
	return fmt.Sprintf("%.2f", f)
}
