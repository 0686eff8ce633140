// Package xlsxexport renders the yearly procurement plan summary as an
// Excel workbook: one row per document with monthly totals.
package xlsxexport

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"supplyplan/internal/domain"
)

// SheetName is the name of the summary worksheet.
const SheetName = "План поставок"

const (
	headerRow    = 4
	firstDataRow = 5
	monthCol     = 5 // E
)

var fixedHeaders = []string{"Файл", "Контрагенты", "№ согл.", "Год"}

var trailingHeaders = []string{"Итого", "+/-", "Ошибки"}

// Row is one document line of the summary.
type Row struct {
	File      string
	Link      string
	Buyers    []string
	Agreement string
	Year      int
	Months    [12]decimal.Decimal
	Deviation string
	Errors    []string
}

// Total returns the sum of the monthly quantities.
func (r Row) Total() decimal.Decimal {
	var total decimal.Decimal
	for _, m := range r.Months {
		total = total.Add(m)
	}
	return total
}

// RowFromDocument builds a summary row. link may be empty.
func RowFromDocument(doc *domain.ParsedDocument, link string) Row {
	row := Row{
		File:      doc.SourceID,
		Link:      link,
		Buyers:    doc.Buyers,
		Agreement: doc.AgreementNumber.String(),
		Year:      doc.Year,
		Months:    doc.MonthlyTotals(),
		Errors:    doc.ValidationErrors,
	}
	if doc.AllowedDeviation != nil {
		row.Deviation = *doc.AllowedDeviation
	}
	return row
}

// Report is the content of one workbook.
type Report struct {
	Year      int
	Generated time.Time
	Rows      []Row
}

// Headers returns the column headers of the summary table.
func Headers() []string {
	out := append([]string(nil), fixedHeaders...)
	for m := 1; m <= 12; m++ {
		out = append(out, fmt.Sprintf("%02d", m))
	}
	return append(out, trailingHeaders...)
}

// BuildFilename returns export_{year}_{dd-mm-YYYY}.xlsx.
func BuildFilename(year int, now time.Time) string {
	return fmt.Sprintf("export_%d_%s.xlsx", year, now.Format("02-01-2006"))
}

// Write renders r as an XLSX workbook to w. Rows are ordered by file name.
func Write(w io.Writer, r Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("xlsxexport: renaming sheet: %w", err)
	}
	st, err := newStyles(f)
	if err != nil {
		return err
	}

	headers := Headers()
	lastCol, _ := excelize.ColumnNumberToName(len(headers))

	if err := f.SetCellValue(SheetName, "A1", fmt.Sprintf("Сводный план поставок на %d год", r.Year)); err != nil {
		return err
	}
	if err := f.MergeCell(SheetName, "A1", lastCol+"1"); err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetName, "A1", "A1", st.title); err != nil {
		return err
	}
	if err := f.SetCellValue(SheetName, "A2", "Дата формирования: "+r.Generated.Format("02.01.2006 15:04")); err != nil {
		return err
	}

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, headerRow)
		if err := f.SetCellValue(SheetName, cell, h); err != nil {
			return err
		}
	}
	first, _ := excelize.CoordinatesToCellName(1, headerRow)
	last, _ := excelize.CoordinatesToCellName(len(headers), headerRow)
	if err := f.SetCellStyle(SheetName, first, last, st.header); err != nil {
		return err
	}

	rows := append([]Row(nil), r.Rows...)
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].File < rows[j].File })
	for i, row := range rows {
		if err := writeRow(f, st, firstDataRow+i, len(headers), row); err != nil {
			return fmt.Errorf("xlsxexport: row %d: %w", i+1, err)
		}
	}

	if err := setWidths(f, len(headers)); err != nil {
		return err
	}
	if err := f.SetPanes(SheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      headerRow,
		TopLeftCell: fmt.Sprintf("A%d", firstDataRow),
		ActivePane:  "bottomLeft",
	}); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("xlsxexport: writing workbook: %w", err)
	}
	return nil
}

func writeRow(f *excelize.File, st styles, n, width int, row Row) error {
	values := []interface{}{
		row.File,
		strings.Join(row.Buyers, ", "),
		row.Agreement,
		row.Year,
	}
	for _, m := range row.Months {
		if m.IsZero() {
			values = append(values, nil)
			continue
		}
		values = append(values, m.InexactFloat64())
	}
	values = append(values, row.Total().InexactFloat64(), row.Deviation, strings.Join(row.Errors, "; "))

	start := fmt.Sprintf("A%d", n)
	if err := f.SetSheetRow(SheetName, start, &values); err != nil {
		return err
	}

	style := st.cell
	if len(row.Errors) > 0 {
		style = st.errorCell
	}
	end, _ := excelize.CoordinatesToCellName(width, n)
	if err := f.SetCellStyle(SheetName, start, end, style); err != nil {
		return err
	}
	if row.Link != "" {
		if err := f.SetCellHyperLink(SheetName, start, row.Link, "External"); err != nil {
			return err
		}
	}
	return nil
}

func setWidths(f *excelize.File, width int) error {
	widths := map[string]float64{"A": 40, "B": 45, "C": 12, "D": 8}
	for col, w := range widths {
		if err := f.SetColWidth(SheetName, col, col, w); err != nil {
			return err
		}
	}
	firstMonth, _ := excelize.ColumnNumberToName(monthCol)
	lastMonth, _ := excelize.ColumnNumberToName(monthCol + 11)
	if err := f.SetColWidth(SheetName, firstMonth, lastMonth, 10); err != nil {
		return err
	}
	total, _ := excelize.ColumnNumberToName(monthCol + 12)
	dev, _ := excelize.ColumnNumberToName(monthCol + 13)
	errs, _ := excelize.ColumnNumberToName(width)
	if err := f.SetColWidth(SheetName, total, dev, 12); err != nil {
		return err
	}
	return f.SetColWidth(SheetName, errs, errs, 60)
}

type styles struct {
	title     int
	header    int
	cell      int
	errorCell int
}

func newStyles(f *excelize.File) (styles, error) {
	border := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	}
	var st styles
	var err error
	if st.title, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 14},
	}); err != nil {
		return st, fmt.Errorf("xlsxexport: title style: %w", err)
	}
	if st.header, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#D9E1F2"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
		Border:    border,
	}); err != nil {
		return st, fmt.Errorf("xlsxexport: header style: %w", err)
	}
	if st.cell, err = f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Vertical: "top", WrapText: true},
		Border:    border,
	}); err != nil {
		return st, fmt.Errorf("xlsxexport: cell style: %w", err)
	}
	if st.errorCell, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Color: "FF0000"},
		Alignment: &excelize.Alignment{Vertical: "top", WrapText: true},
		Border:    border,
	}); err != nil {
		return st, fmt.Errorf("xlsxexport: error style: %w", err)
	}
	return st, nil
}
