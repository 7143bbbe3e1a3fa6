// Package services holds the tender domain logic: bid ranking, document view
// building, document rendering (Excel and PDF), and package assembly. All
// functions here are pure over their inputs; persistence lives in handlers.
package services

import (
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"
)

// LineItem is one G-Schedule row of a tendered work.
type LineItem struct {
	SrNo        int     `json:"sr_no"`
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	Unit        string  `json:"unit"`
	Rate        float64 `json:"rate"`
	Amount      float64 `json:"amount"`
}

// EffectiveAmount returns the item amount, defaulting to quantity x rate when
// no explicit amount was supplied.
func (li LineItem) EffectiveAmount() float64 {
	if li.Amount != 0 {
		return li.Amount
	}
	return Round2(li.Quantity * li.Rate)
}

// RawBid is one bidder's submission before ranking.
type RawBid struct {
	SNo              int     `json:"sno"`
	Name             string  `json:"name" validate:"required"`
	Address          string  `json:"address"`
	Contact          string  `json:"contact"`
	QuotedPercentage float64 `json:"quoted_percentage"`
}

// ParticipationMode distinguishes a lone bidder from a competitive field.
// A single participant is never labelled L1; there is no competition to win.
type ParticipationMode string

const (
	ParticipationSingle      ParticipationMode = "single"
	ParticipationCompetitive ParticipationMode = "competitive"
)

// BidEntry is a ranked bid. QuotedAmount, Rank, RankPercentile and IsL1 are
// derived by Rank and never entered by hand.
type BidEntry struct {
	SNo              int     `json:"sno"`
	Name             string  `json:"name"`
	Address          string  `json:"address"`
	Contact          string  `json:"contact"`
	QuotedPercentage float64 `json:"quoted_percentage"`
	QuotedAmount     float64 `json:"quoted_amount"`
	Rank             int     `json:"rank"`
	RankPercentile   float64 `json:"rank_percentile"`
	IsL1             bool    `json:"is_l1"`
}

// WorkRecord is one tendered work item: NIT identity, amounts, counts,
// G-Schedule line items and the bids received against it.
type WorkRecord struct {
	ID               string     `json:"id"`
	NITNumber        string     `json:"nit_number" validate:"required"`
	NITDate          string     `json:"nit_date"`
	WorkName         string     `json:"work_name" validate:"required"`
	EstimatedAmount  float64    `json:"estimated_amount" validate:"gte=0"`
	EarnestMoney     float64    `json:"earnest_money" validate:"gte=0"`
	CompletionMonths int        `json:"completion_months" validate:"gte=0"`
	TendersSold      int        `json:"tenders_sold" validate:"gte=0"`
	TendersReceived  int        `json:"tenders_received" validate:"gte=0"`
	ReceiptDate      string     `json:"receipt_date"`
	LineItems        []LineItem `json:"line_items,omitempty"`
	Bidders          []BidEntry `json:"bidders,omitempty"`
}

var validate = validator.New()

// Validate checks the structural constraints on a work record. It returns a
// *ValidationError naming the first offending field.
func (w *WorkRecord) Validate() error {
	if err := validate.Struct(w); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
			fe := errs[0]
			return &ValidationError{
				Field:   fe.Field(),
				Message: fmt.Sprintf("failed %q constraint", fe.Tag()),
			}
		}
		return &ValidationError{Field: "work", Message: err.Error()}
	}
	return nil
}

// ReconcileLineItems compares the G-Schedule total against the estimated
// amount. Spreadsheet quality varies, so a mismatch is a warning string for
// the caller to surface, not an error. Returns "" when there is nothing to
// report.
func (w *WorkRecord) ReconcileLineItems() string {
	if len(w.LineItems) == 0 {
		return ""
	}
	var total float64
	for _, li := range w.LineItems {
		total += li.EffectiveAmount()
	}
	total = Round2(total)
	if math.Abs(total-w.EstimatedAmount) > 0.5 {
		return fmt.Sprintf("G-Schedule total %s does not match estimated amount %s",
			FormatRupees(total), FormatRupees(w.EstimatedAmount))
	}
	return ""
}
