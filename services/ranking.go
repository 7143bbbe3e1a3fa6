package services

import (
	"fmt"
	"math"
	"sort"
)

// Quoted percentages are deviations from the estimated cost and are bounded
// by the statutory tender form.
const (
	MinQuotedPercentage = -99.99
	MaxQuotedPercentage = 99.99
)

// Round2 rounds to two decimal places, the fixed precision of all monetary
// values in the system.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// QuotedAmount derives a bidder's offer from the estimate and the signed
// percentage deviation, rounded to two decimals.
func QuotedAmount(estimatedAmount, quotedPercentage float64) float64 {
	return Round2(estimatedAmount * (1 + quotedPercentage/100))
}

// Rank computes quoted amounts, ranks and percentiles for a set of bids
// against an estimated amount. Bids are sorted ascending by quoted amount
// with ties broken by input order; rank 1 is the most favorable offer.
//
// The rank-1 bid is flagged L1 only in competitive mode (two or more bids).
// A lone bid keeps IsL1 false and the mode reports ParticipationSingle so
// callers can label it "Single Participant" instead.
//
// Out-of-range or over-precise percentages are rejected, never clamped.
func Rank(estimatedAmount float64, bids []RawBid) ([]BidEntry, ParticipationMode, error) {
	if len(bids) == 0 {
		return nil, "", &ValidationError{Field: "bids", Message: "at least one bid is required"}
	}
	if estimatedAmount < 0 {
		return nil, "", &ValidationError{Field: "estimated_amount", Message: "must not be negative"}
	}
	for _, b := range bids {
		if b.Name == "" {
			return nil, "", &ValidationError{Field: "name", Message: "bidder name is required"}
		}
		if err := CheckQuotedPercentage(b.QuotedPercentage); err != nil {
			return nil, "", err
		}
	}

	entries := make([]BidEntry, len(bids))
	for i, b := range bids {
		entries[i] = BidEntry{
			SNo:              b.SNo,
			Name:             b.Name,
			Address:          b.Address,
			Contact:          b.Contact,
			QuotedPercentage: b.QuotedPercentage,
			QuotedAmount:     QuotedAmount(estimatedAmount, b.QuotedPercentage),
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].QuotedAmount < entries[j].QuotedAmount
	})

	mode := ParticipationCompetitive
	if len(entries) == 1 {
		mode = ParticipationSingle
	}

	n := len(entries)
	for i := range entries {
		entries[i].Rank = i + 1
		entries[i].IsL1 = i == 0 && mode == ParticipationCompetitive
		if n < 2 {
			entries[i].RankPercentile = 100
		} else {
			entries[i].RankPercentile = Round2(float64(i) / float64(n-1) * 100)
		}
	}

	return entries, mode, nil
}

// CheckQuotedPercentage validates the statutory bounds and the two-decimal
// precision of a quoted percentage.
func CheckQuotedPercentage(pct float64) error {
	if pct < MinQuotedPercentage || pct > MaxQuotedPercentage {
		return &ValidationError{
			Field: "quoted_percentage",
			Message: fmt.Sprintf("%.4g is outside [%0.2f, %0.2f]",
				pct, MinQuotedPercentage, MaxQuotedPercentage),
		}
	}
	if math.Abs(pct-Round2(pct)) > 1e-9 {
		return &ValidationError{
			Field:   "quoted_percentage",
			Message: fmt.Sprintf("%v has more than two decimal places", pct),
		}
	}
	return nil
}
