package services

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// renderWorkbook is the structured (editable) back-end. Each document becomes
// a single-sheet xlsx laid out to mirror its paginated counterpart.
func renderWorkbook(view TenderDocumentView, docType DocumentType) ([]byte, error) {
	switch docType {
	case DocComparative:
		return comparativeWorkbook(view)
	case DocScrutiny:
		return scrutinyWorkbook(view)
	case DocWorkOrder:
		return letterWorkbook(view, workOrderContent(view), "Work Order")
	default:
		return letterWorkbook(view, acceptanceContent(view), "Acceptance Letter")
	}
}

type workbookStyles struct {
	title    int
	subtitle int
	header   int
	cell     int
	bold     int
	approval int
}

func newWorkbook(sheetName string) (*excelize.File, workbookStyles, error) {
	f := excelize.NewFile()
	var st workbookStyles

	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return nil, st, fmt.Errorf("set sheet name: %w", err)
	}

	var err error
	st.title, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, st, fmt.Errorf("create title style: %w", err)
	}
	st.subtitle, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 12},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, st, fmt.Errorf("create subtitle style: %w", err)
	}
	st.header, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 10},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#333333"}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
			WrapText:   true,
		},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, st, fmt.Errorf("create header style: %w", err)
	}
	st.cell, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Size: 10},
		Alignment: &excelize.Alignment{Vertical: "top", WrapText: true},
		Border:    thinBorders(),
	})
	if err != nil {
		return nil, st, fmt.Errorf("create cell style: %w", err)
	}
	st.bold, err = f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true, Size: 10},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, st, fmt.Errorf("create bold style: %w", err)
	}
	st.approval, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Alignment: &excelize.Alignment{Horizontal: "center"},
		Border:    mediumBorders(),
	})
	if err != nil {
		return nil, st, fmt.Errorf("create approval style: %w", err)
	}

	return f, st, nil
}

// comparativeWorkbook lays out the comparative statement: office header,
// bidder table, bordered lowest-bidder approval block and the four-column
// signature row.
func comparativeWorkbook(view TenderDocumentView) ([]byte, error) {
	f, st, err := newWorkbook("Comparative Statement")
	if err != nil {
		return nil, err
	}
	defer f.Close()
	sheet := f.GetSheetName(0)

	widths := []float64{6, 46, 18, 18, 18}
	cols := []string{"A", "B", "C", "D", "E"}
	for i, c := range cols {
		if err := f.SetColWidth(sheet, c, c, widths[i]); err != nil {
			return nil, fmt.Errorf("set col width %s: %w", c, err)
		}
	}

	if err := f.MergeCell(sheet, "A1", "E1"); err != nil {
		return nil, fmt.Errorf("merge title: %w", err)
	}
	f.SetCellValue(sheet, "A1", sanitizeExcelCell(view.Office.OfficeName))
	f.SetCellStyle(sheet, "A1", "E1", st.title)

	if err := f.MergeCell(sheet, "A2", "E2"); err != nil {
		return nil, fmt.Errorf("merge subtitle: %w", err)
	}
	f.SetCellValue(sheet, "A2", "COMPARATIVE STATEMENT OF TENDERS")
	f.SetCellStyle(sheet, "A2", "E2", st.subtitle)

	f.SetCellValue(sheet, "A4", sanitizeExcelCell("Name of Work: "+view.WorkName))
	f.SetCellValue(sheet, "A5", sanitizeExcelCell(fmt.Sprintf(
		"NIT No.: %s     Date: %s     ITEM-1", view.NITNumber, orDash(view.NITDate))))

	headers := []string{"S.No", "Bidder Name", "Estimated Cost Rs.", "Quoted Percentage", "Quoted Amount Rs."}
	for i, h := range headers {
		f.SetCellValue(sheet, fmt.Sprintf("%s7", cols[i]), h)
	}
	f.SetCellStyle(sheet, "A7", "E7", st.header)

	row := 8
	for _, b := range view.Bidders {
		ref := fmt.Sprintf("%d", row)
		f.SetCellValue(sheet, "A"+ref, b.SNo)
		f.SetCellValue(sheet, "B"+ref, sanitizeExcelCell(b.Name))
		f.SetCellValue(sheet, "C"+ref, b.EstimatedCost)
		f.SetCellValue(sheet, "D"+ref, b.PercentLabel)
		f.SetCellValue(sheet, "E"+ref, b.QuotedAmount)
		style := st.cell
		if b.IsL1 {
			style = st.bold
		}
		f.SetCellStyle(sheet, "A"+ref, "E"+ref, style)
		row++
	}

	// Approval block for the lowest bidder, distinctly bordered.
	row += 2
	top := row
	if err := f.MergeCell(sheet, fmt.Sprintf("B%d", row), fmt.Sprintf("E%d", row)); err != nil {
		return nil, fmt.Errorf("merge approval: %w", err)
	}
	f.SetCellValue(sheet, fmt.Sprintf("B%d", row), view.LowestTag+" - Lowest Amount Quoted BY:")
	row++
	if err := f.MergeCell(sheet, fmt.Sprintf("B%d", row), fmt.Sprintf("E%d", row)); err != nil {
		return nil, fmt.Errorf("merge approval name: %w", err)
	}
	f.SetCellValue(sheet, fmt.Sprintf("B%d", row), sanitizeExcelCell(view.LowestName))
	row++
	if err := f.MergeCell(sheet, fmt.Sprintf("B%d", row), fmt.Sprintf("E%d", row)); err != nil {
		return nil, fmt.Errorf("merge approval amount: %w", err)
	}
	f.SetCellValue(sheet, fmt.Sprintf("B%d", row),
		fmt.Sprintf("%s - Rs. %s", view.LowestLabel, view.LowestAmount))
	f.SetCellStyle(sheet, fmt.Sprintf("B%d", top), fmt.Sprintf("E%d", row), st.approval)

	// Signature row: Auditor / Divisional Accountant / TA / EE.
	row += 3
	initials := []string{"AR", "DA", "TA", "EE"}
	labels := []string{"Auditor", "Divisional Accountant", "Technical Assistant", "Executive Engineer"}
	for i, c := range []string{"B", "C", "D", "E"} {
		f.SetCellValue(sheet, fmt.Sprintf("%s%d", c, row), initials[i])
		f.SetCellValue(sheet, fmt.Sprintf("%s%d", c, row+2), labels[i])
	}
	f.SetCellStyle(sheet, fmt.Sprintf("B%d", row), fmt.Sprintf("E%d", row), st.header)
	f.SetCellStyle(sheet, fmt.Sprintf("B%d", row+1), fmt.Sprintf("E%d", row+1), st.cell)

	return workbookBytes(f)
}

// scrutinyWorkbook lays out the fixed statutory checklist. The row order
// comes from scrutinyRows and is shared with the paginated back-end.
func scrutinyWorkbook(view TenderDocumentView) ([]byte, error) {
	f, st, err := newWorkbook("Scrutiny Sheet")
	if err != nil {
		return nil, err
	}
	defer f.Close()
	sheet := f.GetSheetName(0)

	widths := []float64{6, 48, 40}
	for i, c := range []string{"A", "B", "C"} {
		if err := f.SetColWidth(sheet, c, c, widths[i]); err != nil {
			return nil, fmt.Errorf("set col width %s: %w", c, err)
		}
	}

	if err := f.MergeCell(sheet, "A1", "C1"); err != nil {
		return nil, fmt.Errorf("merge title: %w", err)
	}
	f.SetCellValue(sheet, "A1", "Scrutiny Sheet of Tender")
	f.SetCellStyle(sheet, "A1", "C1", st.title)

	row := 3
	for _, r := range scrutinyRows(view) {
		ref := fmt.Sprintf("%d", row)
		f.SetCellValue(sheet, "A"+ref, r.Num)
		f.SetCellValue(sheet, "B"+ref, sanitizeExcelCell(r.Label))
		f.SetCellValue(sheet, "C"+ref, sanitizeExcelCell(r.Value))
		f.SetCellStyle(sheet, "A"+ref, "C"+ref, st.cell)
		row++
	}

	row += 2
	f.SetCellValue(sheet, fmt.Sprintf("A%d", row), "AUDITOR")
	f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("A%d", row), st.bold)

	return workbookBytes(f)
}

// letterWorkbook lays out an addressed letter (work order or acceptance) as
// one paragraph per merged row.
func letterWorkbook(view TenderDocumentView, content letterContent, sheetName string) ([]byte, error) {
	f, st, err := newWorkbook(sheetName)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	sheet := f.GetSheetName(0)

	if err := f.SetColWidth(sheet, "A", "A", 100); err != nil {
		return nil, fmt.Errorf("set col width: %w", err)
	}

	row := 1
	putLine := func(text string, style int) {
		ref := fmt.Sprintf("A%d", row)
		f.SetCellValue(sheet, ref, sanitizeExcelCell(text))
		if style != 0 {
			f.SetCellStyle(sheet, ref, ref, style)
		}
		row++
	}

	for _, h := range content.HeaderLines {
		putLine(h, st.title)
	}
	putLine(content.Title, st.subtitle)
	row++

	putLine("To,", 0)
	putLine(view.LowestName, 0)
	row++

	for _, line := range content.InfoLines {
		putLine(line, 0)
	}
	row++

	putLine("Dear Sir,", 0)
	row++
	for _, p := range content.Body {
		if err := f.SetRowHeight(sheet, row, 70); err != nil {
			return nil, fmt.Errorf("set row height: %w", err)
		}
		putLine(p, st.cell)
	}
	row++

	for _, line := range content.Closing {
		putLine(line, 0)
	}

	return workbookBytes(f)
}

func workbookBytes(f *excelize.File) ([]byte, error) {
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// sanitizeExcelCell prevents formula injection by prefixing dangerous leading
// characters with a single quote. Excel interprets cells starting with =, +,
// -, @, \t or \r as formulas.
func sanitizeExcelCell(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r', '|':
		return "'" + s
	}
	return s
}

func thinBorders() []excelize.Border {
	return borders(1)
}

func mediumBorders() []excelize.Border {
	return borders(2)
}

func borders(style int) []excelize.Border {
	sides := []string{"left", "top", "bottom", "right"}
	out := make([]excelize.Border, len(sides))
	for i, side := range sides {
		out[i] = excelize.Border{Type: side, Color: "#000000", Style: style}
	}
	return out
}
