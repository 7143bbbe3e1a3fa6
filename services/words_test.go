package services

import "testing"

func TestAmountToWords(t *testing.T) {
	cases := []struct {
		amount float64
		want   string
	}{
		{0, "Zero Rupees Only/-"},
		{5, "Five Rupees Only/-"},
		{19, "Nineteen Rupees Only/-"},
		{42, "Forty Two Rupees Only/-"},
		{100, "One Hundred Rupees Only/-"},
		{101, "One Hundred and One Rupees Only/-"},
		{1000, "One Thousand Rupees Only/-"},
		{13000, "Thirteen Thousand Rupees Only/-"},
		{100000, "One Lakhs Rupees Only/-"},
		{628796, "Six Lakhs Twenty Eight Thousand Seven Hundred and Ninety Six Rupees Only/-"},
		{10000000, "One Crores Rupees Only/-"},
		{12345678, "One Crores Twenty Three Lakhs Forty Five Thousand Six Hundred and Seventy Eight Rupees Only/-"},
	}
	for _, tc := range cases {
		if got := AmountToWords(tc.amount); got != tc.want {
			t.Errorf("AmountToWords(%v) = %q, want %q", tc.amount, got, tc.want)
		}
	}
}

func TestAmountToWordsRoundsPaise(t *testing.T) {
	if got := AmountToWords(99.6); got != "One Hundred Rupees Only/-" {
		t.Errorf("expected paise to round to the nearest rupee, got %q", got)
	}
}
