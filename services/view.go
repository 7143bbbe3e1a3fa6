package services

import (
	"fmt"
	"time"
)

// dateLayout is the short day-month-year form used throughout tender
// paperwork, e.g. "24-03-25".
const dateLayout = "02-01-06"

// OfficeMetadata carries the static facts of the issuing office that every
// document shares. Values come from the office_settings collection.
type OfficeMetadata struct {
	OfficeName     string
	AuthorityTitle string
	GovernmentLine string
	HeadOfAccount  string
	ValidityDays   int
	StampDutyRs    float64
}

// DefaultOfficeMetadata returns the seeded office configuration.
func DefaultOfficeMetadata() OfficeMetadata {
	return OfficeMetadata{
		OfficeName:     "OFFICE OF THE EXECUTIVE ENGINEER PWD ELECTRIC DIVISION, UDAIPUR",
		AuthorityTitle: "Executive Engineer",
		GovernmentLine: "On behalf of the Governor of State of Rajasthan",
		HeadOfAccount:  "8443",
		ValidityDays:   20,
		StampDutyRs:    1000,
	}
}

// BidderRow is one bidder line on the comparative statement, pre-formatted so
// both renderer back-ends print identical figures.
type BidderRow struct {
	SNo            int
	Name           string
	EstimatedCost  string
	PercentLabel   string
	QuotedAmount   string
	Rank           int
	RankPercentile string
	IsL1           bool
}

// LineItemRow is one pre-formatted G-Schedule line.
type LineItemRow struct {
	SrNo        int
	Description string
	Quantity    string
	Unit        string
	Rate        string
	Amount      string
}

// TenderDocumentView is the single read-only projection every renderer
// consumes. All monetary figures are formatted exactly once here; renderers
// must not re-derive them, which keeps the structured and paginated outputs
// of each document numerically identical.
type TenderDocumentView struct {
	WorkID           string
	NITNumber        string
	NITDate          string
	WorkName         string
	ReceiptDate      string
	EstimatedAmount  string
	EarnestMoney     string
	CompletionMonths int
	TendersSold      int
	TendersReceived  int

	Bidders          []BidderRow
	LineItems        []LineItemRow
	ParticipantCount int
	Mode             ParticipationMode

	// Lowest-bidder block. In single-participant mode LowestTag reads
	// "Single Participant" instead of the L1 wording.
	LowestName   string
	LowestAmount string
	LowestLabel  string
	LowestWords  string
	LowestTag    string

	// Derived statutory dates. Empty when the receipt date cannot be parsed.
	ValidUpto        string
	CommencementDate string
	CompletionDate   string
	AgreementYear    string

	Office OfficeMetadata
}

// BuildView assembles the document view for a ranked work. It fails with a
// *PreconditionError when the work has no bids or any bid lacks a rank.
func BuildView(work WorkRecord, office OfficeMetadata) (TenderDocumentView, error) {
	if len(work.Bidders) == 0 {
		return TenderDocumentView{}, &PreconditionError{
			Message: fmt.Sprintf("work %s has no bids; documents cannot be generated", work.ID),
		}
	}

	mode := ParticipationCompetitive
	if len(work.Bidders) == 1 {
		mode = ParticipationSingle
	}

	var lowest *BidEntry
	rows := make([]BidderRow, len(work.Bidders))
	for i, b := range work.Bidders {
		if b.Rank == 0 {
			return TenderDocumentView{}, &PreconditionError{
				Message: fmt.Sprintf("bid %q has not been ranked", b.Name),
			}
		}
		rows[i] = BidderRow{
			SNo:            b.SNo,
			Name:           b.Name,
			EstimatedCost:  FormatRupees(work.EstimatedAmount),
			PercentLabel:   PercentLabel(b.QuotedPercentage),
			QuotedAmount:   FormatRupees(b.QuotedAmount),
			Rank:           b.Rank,
			RankPercentile: fmt.Sprintf("%.2f", b.RankPercentile),
			IsL1:           b.IsL1,
		}
		if b.Rank == 1 {
			e := work.Bidders[i]
			lowest = &e
		}
	}
	if lowest == nil {
		return TenderDocumentView{}, &PreconditionError{
			Message: fmt.Sprintf("work %s has no rank-1 bid", work.ID),
		}
	}

	items := make([]LineItemRow, len(work.LineItems))
	for i, li := range work.LineItems {
		items[i] = LineItemRow{
			SrNo:        li.SrNo,
			Description: li.Description,
			Quantity:    FormatQty(li.Quantity),
			Unit:        li.Unit,
			Rate:        FormatRupees(li.Rate),
			Amount:      FormatRupees(li.EffectiveAmount()),
		}
	}

	lowestTag := "Lowest (L1) Bidder"
	if mode == ParticipationSingle {
		lowestTag = "Single Participant"
	}

	view := TenderDocumentView{
		WorkID:           work.ID,
		NITNumber:        work.NITNumber,
		NITDate:          work.NITDate,
		WorkName:         work.WorkName,
		ReceiptDate:      work.ReceiptDate,
		EstimatedAmount:  FormatRupees(work.EstimatedAmount),
		EarnestMoney:     FormatRupees(work.EarnestMoney),
		CompletionMonths: work.CompletionMonths,
		TendersSold:      work.TendersSold,
		TendersReceived:  work.TendersReceived,
		Bidders:          rows,
		LineItems:        items,
		ParticipantCount: len(rows),
		Mode:             mode,
		LowestName:       lowest.Name,
		LowestAmount:     FormatRupees(lowest.QuotedAmount),
		LowestLabel:      PercentLabel(lowest.QuotedPercentage),
		LowestWords:      AmountToWords(lowest.QuotedAmount),
		LowestTag:        lowestTag,
		Office:           office,
	}

	if receipt, err := time.Parse(dateLayout, work.ReceiptDate); err == nil {
		commencement := receipt.AddDate(0, 0, 1)
		view.ValidUpto = receipt.AddDate(0, 0, office.ValidityDays).Format(dateLayout)
		view.CommencementDate = commencement.Format(dateLayout)
		if work.CompletionMonths > 0 {
			view.CompletionDate = commencement.AddDate(0, work.CompletionMonths, -1).Format(dateLayout)
		}
		view.AgreementYear = fiscalYearLabel(commencement)
	}

	return view, nil
}

// fiscalYearLabel returns the Indian financial-year label for a date, e.g.
// "2024-25" for any day between 01-04-2024 and 31-03-2025.
func fiscalYearLabel(t time.Time) string {
	start := t.Year()
	if t.Month() < time.April {
		start--
	}
	return fmt.Sprintf("%d-%02d", start, (start+1)%100)
}
