package interfaces

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	"solution-analytics/internal/observability/metrics"
	table "solution-analytics/internal/table/domain"
)

const (
	formatXLSX  = "xlsx"
	formatPDF   = "pdf"
	formatArrow = "arrow"

	dataSheet = "data"
)

// ErrNilTable is returned when an exporter is given no table.
var ErrNilTable = errors.New("export: nil table")

// BuildTableXLSX renders a table as a workbook with a header row. Null cells
// stay empty.
func BuildTableXLSX(title string, t *table.Table) (out []byte, err error) {
	start := time.Now()
	defer func() { metrics.ObserveExport(formatXLSX, metrics.Result(err), time.Since(start)) }()
	if t == nil {
		return nil, ErrNilTable
	}

	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", dataSheet); err != nil {
		return nil, err
	}

	header := 1
	if title != "" {
		_ = f.SetCellValue(dataSheet, "A1", title)
		header = 3
	}
	for c, name := range t.Columns() {
		cell, err := excelize.CoordinatesToCellName(c+1, header)
		if err != nil {
			return nil, err
		}
		_ = f.SetCellValue(dataSheet, cell, name)
	}
	for i := 0; i < t.Len(); i++ {
		for c, v := range t.Row(i).Values() {
			if v.IsNull() {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, header+i+1)
			if err != nil {
				return nil, err
			}
			if num, ok := v.Float(); ok {
				_ = f.SetCellValue(dataSheet, cell, num)
				continue
			}
			_ = f.SetCellValue(dataSheet, cell, v.String())
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BuildTablePDF renders a table as a bordered grid on landscape A4 pages.
func BuildTablePDF(title string, t *table.Table) (out []byte, err error) {
	start := time.Now()
	defer func() { metrics.ObserveExport(formatPDF, metrics.Result(err), time.Since(start)) }()
	if t == nil {
		return nil, ErrNilTable
	}

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()
	if title != "" {
		pdf.Cell(0, 8, title)
		pdf.Ln(10)
	}

	cols := t.Columns()
	pageWidth, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	width := 30.0
	if len(cols) > 0 {
		width = (pageWidth - left - right) / float64(len(cols))
	}

	pdf.SetFont("Arial", "B", 9)
	for _, name := range cols {
		pdf.CellFormat(width, 6, name, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 9)
	for i := 0; i < t.Len(); i++ {
		for _, v := range t.Row(i).Values() {
			align := "L"
			text := v.String()
			if num, ok := v.Float(); ok {
				align = "R"
				text = fmt.Sprintf("%.3f", num)
			}
			pdf.CellFormat(width, 6, text, "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.SetFont("Arial", "I", 8)
	pdf.Cell(0, 6, fmt.Sprintf("Rows: %d", t.Len()))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
