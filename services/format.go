package services

import (
	"fmt"
	"math"
	"strings"
)

// FormatINR formats an amount in Indian Rupee notation with the currency
// symbol, e.g. ₹1,23,45,678.90. Used on JSON display fields.
func FormatINR(amount float64) string {
	if amount < 0 {
		return "-₹" + FormatRupees(-amount)
	}
	return "₹" + FormatRupees(amount)
}

// FormatRupees formats an amount with Indian digit grouping and exactly two
// decimal places, without a currency symbol. Document columns carry their own
// "Rs." label, so this is the form that appears on every rendered document.
func FormatRupees(amount float64) string {
	negative := false
	if amount < 0 {
		negative = true
		amount = -amount
	}

	raw := fmt.Sprintf("%.2f", amount)
	parts := strings.SplitN(raw, ".", 2)
	result := applyIndianGrouping(parts[0]) + "." + parts[1]
	if negative {
		result = "-" + result
	}
	return result
}

// applyIndianGrouping inserts commas using the Indian numbering system: the
// rightmost 3 digits form the first group, then every 2 digits after that.
func applyIndianGrouping(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}

	result := s[n-3:]
	remaining := s[:n-3]

	for len(remaining) > 2 {
		result = remaining[len(remaining)-2:] + "," + result
		remaining = remaining[:len(remaining)-2]
	}
	if len(remaining) > 0 {
		result = remaining + "," + result
	}

	return result
}

// PercentLabel renders a quoted percentage the way tender documents expect
// it: "5.50% BELOW" for negative deviations, "2.10% ABOVE" for positive ones
// and "AT PAR" at exactly zero.
func PercentLabel(pct float64) string {
	switch {
	case pct == 0:
		return "AT PAR"
	case pct < 0:
		return fmt.Sprintf("%.2f%% BELOW", -pct)
	default:
		return fmt.Sprintf("%.2f%% ABOVE", pct)
	}
}

// FormatQty formats a quantity: whole numbers without decimals, fractional
// values with two decimal places.
func FormatQty(qty float64) string {
	if qty == math.Trunc(qty) {
		return fmt.Sprintf("%.0f", qty)
	}
	return fmt.Sprintf("%.2f", qty)
}
