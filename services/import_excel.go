package services

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ImportedWork is the normalized output of the spreadsheet importer: a work
// record shape with raw (unranked) bids.
type ImportedWork struct {
	WorkName         string
	NITNumber        string
	NITDate          string
	EstimatedAmount  float64
	EarnestMoney     float64
	CompletionMonths int
	TendersSold      int
	TendersReceived  int
	ReceiptDate      string
	Bids             []RawBid
	LineItems        []LineItem
	Warnings         []string
}

// ParseWorkbook reads an uploaded NIT workbook and extracts the work facts,
// bidder rows and optional G-Schedule lines from its first sheet. Fields the
// documents cannot do without (work name, NIT number, estimated amount,
// bidders) are hard errors; the importer never fabricates data for them.
func ParseWorkbook(r io.Reader) (*ImportedWork, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheetName, err)
	}
	if len(rows) == 0 {
		return nil, &ValidationError{Field: "workbook", Message: "first sheet is empty"}
	}

	work := &ImportedWork{
		WorkName:    findLabelledValue(rows, "name of work"),
		NITNumber:   findLabelledValue(rows, "nit no"),
		NITDate:     findLabelledValue(rows, "nit date"),
		ReceiptDate: findLabelledValue(rows, "receipt of tender"),
	}
	if work.NITDate == "" {
		work.NITDate = findLabelledValue(rows, "date of calling nit")
	}
	if work.ReceiptDate == "" {
		// The field label on circulating statutory sheets is misspelled;
		// accept it as-is.
		work.ReceiptDate = findLabelledValue(rows, "reciept of tender")
	}

	work.EstimatedAmount = parseAmount(findLabelledValue(rows, "estimated amount"))
	work.EarnestMoney = parseAmount(findLabelledValue(rows, "earnest money"))
	work.CompletionMonths = int(parseAmount(findLabelledValue(rows, "time for completion")))
	work.TendersSold = int(parseAmount(findLabelledValue(rows, "tender sold")))
	work.TendersReceived = int(parseAmount(findLabelledValue(rows, "tender received")))

	if work.WorkName == "" {
		return nil, &ValidationError{Field: "work_name", Message: "workbook has no \"Name of Work\" cell"}
	}
	if work.NITNumber == "" {
		return nil, &ValidationError{Field: "nit_number", Message: "workbook has no \"NIT No\" cell"}
	}
	if work.EstimatedAmount <= 0 {
		return nil, &ValidationError{Field: "estimated_amount", Message: "workbook has no positive \"Estimated amount\" cell"}
	}

	work.Bids, err = parseBidderRows(rows)
	if err != nil {
		return nil, err
	}
	if len(work.Bids) == 0 {
		return nil, &ValidationError{Field: "bidders", Message: "workbook has no bidder rows"}
	}

	work.LineItems = parseLineItemRows(rows)

	check := WorkRecord{EstimatedAmount: work.EstimatedAmount, LineItems: work.LineItems}
	if warning := check.ReconcileLineItems(); warning != "" {
		work.Warnings = append(work.Warnings, warning)
	}

	return work, nil
}

// parseBidderRows reads the rows following the "Bidder Name" header. Columns
// follow the circulating sheet layout: serial, name, estimated cost, quoted
// percentage, BELOW/ABOVE direction, quoted amount. A signed percentage in
// the percentage column is also accepted.
func parseBidderRows(rows [][]string) ([]RawBid, error) {
	start := findRowContaining(rows, "bidder name")
	if start < 0 {
		return nil, nil
	}

	var bids []RawBid
	sno := 1
	for i := start + 1; i < len(rows); i++ {
		row := rows[i]
		if len(row) < 2 || strings.TrimSpace(row[1]) == "" {
			break
		}

		pctText := cellAt(row, 3)
		if dir := cellAt(row, 4); dir != "" {
			pctText = pctText + " " + dir
		}
		pct, err := ParseQuotedPercentage(pctText)
		if err != nil {
			return nil, &ValidationError{
				Field:   "quoted_percentage",
				Message: fmt.Sprintf("row %d: %v", i+1, err),
			}
		}

		bids = append(bids, RawBid{
			SNo:              sno,
			Name:             strings.TrimSpace(row[1]),
			QuotedPercentage: pct,
		})
		sno++
	}
	return bids, nil
}

// parseLineItemRows reads the optional G-Schedule block: rows following a
// header that carries both "description" and "rate" columns.
func parseLineItemRows(rows [][]string) []LineItem {
	start := -1
	for i, row := range rows {
		joined := strings.ToLower(strings.Join(row, "|"))
		if strings.Contains(joined, "description") && strings.Contains(joined, "rate") {
			start = i
			break
		}
	}
	if start < 0 {
		return nil
	}

	var items []LineItem
	for i := start + 1; i < len(rows); i++ {
		row := rows[i]
		if len(row) < 2 || strings.TrimSpace(row[1]) == "" {
			break
		}
		srNo := len(items) + 1
		if n := int(parseAmount(cellAt(row, 0))); n > 0 {
			srNo = n
		}
		items = append(items, LineItem{
			SrNo:        srNo,
			Description: strings.TrimSpace(row[1]),
			Quantity:    parseAmount(cellAt(row, 2)),
			Unit:        cellAt(row, 3),
			Rate:        parseAmount(cellAt(row, 4)),
			Amount:      parseAmount(cellAt(row, 5)),
		})
	}
	return items
}

// ParseQuotedPercentage reads a quoted percentage as it appears on tender
// sheets: "2.00 BELOW", "1.5 ABOVE", "AT PAR" or a plain signed number.
// BELOW maps to a negative deviation.
func ParseQuotedPercentage(s string) (float64, error) {
	cleaned := strings.ToUpper(strings.TrimSpace(s))
	if cleaned == "" {
		return 0, fmt.Errorf("empty percentage")
	}
	if cleaned == "AT PAR" || cleaned == "PAR" {
		return 0, nil
	}

	sign := 1.0
	switch {
	case strings.Contains(cleaned, "BELOW"):
		sign = -1
		cleaned = strings.ReplaceAll(cleaned, "BELOW", "")
	case strings.Contains(cleaned, "ABOVE"):
		cleaned = strings.ReplaceAll(cleaned, "ABOVE", "")
	}
	cleaned = strings.TrimSuffix(strings.TrimSpace(cleaned), "%")

	v, err := strconv.ParseFloat(strings.TrimSpace(cleaned), 64)
	if err != nil {
		return 0, fmt.Errorf("unreadable percentage %q", s)
	}
	v *= sign
	if err := CheckQuotedPercentage(v); err != nil {
		return 0, err
	}
	return v, nil
}

// findLabelledValue scans for a cell containing the label and returns its
// value: the text after a colon in the same cell, the next cell in the row,
// or the cell below.
func findLabelledValue(rows [][]string, label string) string {
	needle := strings.ToLower(label)
	for i, row := range rows {
		for j, cell := range row {
			if !strings.Contains(strings.ToLower(cell), needle) {
				continue
			}
			if idx := strings.Index(cell, ":"); idx >= 0 {
				if v := strings.TrimSpace(cell[idx+1:]); v != "" {
					return v
				}
			}
			if v := cellAt(row, j+1); v != "" {
				return v
			}
			if i+1 < len(rows) {
				if v := cellAt(rows[i+1], j); v != "" {
					return v
				}
			}
		}
	}
	return ""
}

func findRowContaining(rows [][]string, needle string) int {
	for i, row := range rows {
		for _, cell := range row {
			if strings.Contains(strings.ToLower(cell), needle) {
				return i
			}
		}
	}
	return -1
}

func cellAt(row []string, idx int) string {
	if idx < len(row) {
		return strings.TrimSpace(row[idx])
	}
	return ""
}

// parseAmount reads a numeric cell, tolerating currency prefixes and digit
// grouping. Unreadable cells come back as 0.
func parseAmount(s string) float64 {
	trimmed := strings.TrimSpace(s)
	// A "Rs." prefix must go before the character filter; its dot would
	// otherwise survive and corrupt the number.
	lower := strings.ToLower(trimmed)
	for _, prefix := range []string{"rs.", "rs", "₹"} {
		if strings.HasPrefix(lower, prefix) {
			trimmed = strings.TrimSpace(trimmed[len(prefix):])
			break
		}
	}
	cleaned := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' || r == '.' || r == '-' {
			return r
		}
		return -1
	}, trimmed)
	if cleaned == "" {
		return 0
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return v
}
