package export

import (
	"bytes"
	"fmt"

	"github.com/moonandjupiter/consign-tracker/internal/core"
	"github.com/xuri/excelize/v2"
)

const headerRow = 4

// Excel builds a workbook with a title block, one row per record and the
// per-order totals underneath. Quantities and amounts are written as numbers.
func Excel(data Data) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := sheetName(data.Title)
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}

	lastCol, err := excelize.ColumnNumberToName(len(Headers))
	if err != nil {
		return nil, err
	}
	widths := []float64{12, 32, 14, 12, 14, 14, 14, 14, 14, 22}
	for i, w := range widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(sheet, col, col, w); err != nil {
			return nil, fmt.Errorf("set col width %s: %w", col, err)
		}
	}

	// ── Styles ──────────────────────────────────────────────────────────

	titleStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 16}})
	if err != nil {
		return nil, fmt.Errorf("create title style: %w", err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#333333"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}
	cellStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Size: 10}, Border: thinBorders()})
	if err != nil {
		return nil, fmt.Errorf("create cell style: %w", err)
	}
	totalStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 11}})
	if err != nil {
		return nil, fmt.Errorf("create total style: %w", err)
	}

	// ── Title block ─────────────────────────────────────────────────────

	if err := f.MergeCell(sheet, "A1", lastCol+"1"); err != nil {
		return nil, fmt.Errorf("merge title: %w", err)
	}
	f.SetCellValue(sheet, "A1", sanitizeExcelCell(data.Title))
	f.SetCellStyle(sheet, "A1", lastCol+"1", titleStyle)
	f.SetCellValue(sheet, "A2", "Generated: "+data.GeneratedAt.Format("2006-01-02 15:04"))

	// ── Records ─────────────────────────────────────────────────────────

	for i, h := range Headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, headerRow)
		f.SetCellValue(sheet, cell, h)
	}
	f.SetCellStyle(sheet, fmt.Sprintf("A%d", headerRow), fmt.Sprintf("%s%d", lastCol, headerRow), headerStyle)

	r := headerRow + 1
	for _, m := range data.Records {
		values := []any{
			sanitizeExcelCell(m.SRID),
			sanitizeExcelCell(m.NameCompany),
			sanitizeExcelCell(m.CONo),
			m.QtySold.InexactFloat64(),
			m.RemainingBal.InexactFloat64(),
			m.Amount.InexactFloat64(),
			sanitizeExcelCell(m.InvNo),
			sanitizeExcelCell(dash(m.VoucherNo)),
			sanitizeExcelCell(dash(m.VoucherDate)),
			core.PresentStatus(m.Status(), data.acked(m)).Label,
		}
		cell := fmt.Sprintf("A%d", r)
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return nil, fmt.Errorf("write row %d: %w", r, err)
		}
		f.SetCellStyle(sheet, cell, fmt.Sprintf("%s%d", lastCol, r), cellStyle)
		r++
	}

	// ── Totals per order ────────────────────────────────────────────────

	r++
	summary := core.Summarize(data.Records)
	f.SetCellValue(sheet, fmt.Sprintf("A%d", r), summary.Headline)
	f.SetCellStyle(sheet, fmt.Sprintf("A%d", r), fmt.Sprintf("A%d", r), totalStyle)
	r++
	for _, o := range summary.Orders {
		f.SetCellValue(sheet, fmt.Sprintf("C%d", r), sanitizeExcelCell(o.Label()))
		f.SetCellValue(sheet, fmt.Sprintf("D%d", r), o.Quantity.InexactFloat64())
		f.SetCellValue(sheet, fmt.Sprintf("F%d", r), o.Amount.InexactFloat64())
		r++
	}
	f.SetCellValue(sheet, fmt.Sprintf("C%d", r), "Total")
	f.SetCellValue(sheet, fmt.Sprintf("D%d", r), summary.Quantity.InexactFloat64())
	f.SetCellValue(sheet, fmt.Sprintf("F%d", r), summary.Amount.InexactFloat64())
	f.SetCellStyle(sheet, fmt.Sprintf("C%d", r), fmt.Sprintf("F%d", r), totalStyle)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel: %w", err)
	}
	return buf.Bytes(), nil
}

// sheetName derives a legal sheet name: at most 31 characters, none of : \ / ? * [ ].
func sheetName(title string) string {
	var out []rune
	for _, c := range title {
		switch c {
		case ':', '\\', '/', '?', '*', '[', ']':
			continue
		}
		out = append(out, c)
		if len(out) == 31 {
			break
		}
	}
	if len(out) == 0 {
		return "Consignments"
	}
	return string(out)
}

// sanitizeExcelCell prefixes values that a spreadsheet would treat as formulas.
func sanitizeExcelCell(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r', '|':
		if s == "-" {
			return s
		}
		return "'" + s
	}
	return s
}

func thinBorders() []excelize.Border {
	sides := []string{"left", "top", "bottom", "right"}
	borders := make([]excelize.Border, len(sides))
	for i, side := range sides {
		borders[i] = excelize.Border{Type: side, Color: "#000000", Style: 1}
	}
	return borders
}
