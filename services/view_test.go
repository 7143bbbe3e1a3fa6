package services

import (
	"strings"
	"testing"
	"time"
)

func parseTestDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}

func rankedWork(t *testing.T) WorkRecord {
	t.Helper()
	work := WorkRecord{
		ID:               "w1",
		NITNumber:        "27/2024-25",
		NITDate:          "12-03-25",
		WorkName:         "Providing and fixing of street light poles",
		EstimatedAmount:  641694,
		EarnestMoney:     13000,
		CompletionMonths: 9,
		TendersSold:      4,
		TendersReceived:  4,
		ReceiptDate:      "24-03-25",
	}
	raw := []RawBid{
		{SNo: 1, Name: "M/s Shree Balaji Electricals", QuotedPercentage: -2.00},
		{SNo: 2, Name: "M/s Mewar Electric Works", QuotedPercentage: -2.01},
		{SNo: 3, Name: "M/s Aravalli Power Solutions", QuotedPercentage: -1.00},
		{SNo: 4, Name: "M/s Rajdeep Electric Co.", QuotedPercentage: -0.10},
	}
	ranked, _, err := Rank(work.EstimatedAmount, raw)
	if err != nil {
		t.Fatalf("Rank returned error: %v", err)
	}
	work.Bidders = ranked
	return work
}

func TestBuildView_LowestBlock(t *testing.T) {
	view, err := BuildView(rankedWork(t), DefaultOfficeMetadata())
	if err != nil {
		t.Fatalf("BuildView returned error: %v", err)
	}

	if view.LowestName != "M/s Mewar Electric Works" {
		t.Errorf("expected Mewar as lowest, got %q", view.LowestName)
	}
	if view.LowestLabel != "2.01% BELOW" {
		t.Errorf("expected label %q, got %q", "2.01% BELOW", view.LowestLabel)
	}
	if view.LowestAmount != "6,28,795.95" {
		t.Errorf("expected lowest amount 6,28,795.95, got %q", view.LowestAmount)
	}
	if view.LowestTag != "Lowest (L1) Bidder" {
		t.Errorf("unexpected lowest tag %q", view.LowestTag)
	}
	if !strings.HasSuffix(view.LowestWords, "Rupees Only/-") {
		t.Errorf("amount in words missing statutory suffix: %q", view.LowestWords)
	}
}

func TestBuildView_DerivedDates(t *testing.T) {
	view, err := BuildView(rankedWork(t), DefaultOfficeMetadata())
	if err != nil {
		t.Fatalf("BuildView returned error: %v", err)
	}

	// Receipt 24-03-25, validity 20 days, commencement next day, completion
	// nine months less a day.
	if view.ValidUpto != "13-04-25" {
		t.Errorf("expected valid upto 13-04-25, got %q", view.ValidUpto)
	}
	if view.CommencementDate != "25-03-25" {
		t.Errorf("expected commencement 25-03-25, got %q", view.CommencementDate)
	}
	if view.CompletionDate != "24-12-25" {
		t.Errorf("expected completion 24-12-25, got %q", view.CompletionDate)
	}
	if view.AgreementYear != "2024-25" {
		t.Errorf("expected agreement year 2024-25, got %q", view.AgreementYear)
	}
}

func TestBuildView_SingleParticipant(t *testing.T) {
	work := rankedWork(t)
	ranked, mode, err := Rank(work.EstimatedAmount, []RawBid{
		{SNo: 1, Name: "M/s Solo Contractor", QuotedPercentage: 0},
	})
	if err != nil {
		t.Fatalf("Rank returned error: %v", err)
	}
	if mode != ParticipationSingle {
		t.Fatalf("expected single mode, got %q", mode)
	}
	work.Bidders = ranked

	view, err := BuildView(work, DefaultOfficeMetadata())
	if err != nil {
		t.Fatalf("BuildView returned error: %v", err)
	}
	if view.Mode != ParticipationSingle {
		t.Errorf("expected single mode in view, got %q", view.Mode)
	}
	if view.LowestTag != "Single Participant" {
		t.Errorf("expected Single Participant tag, got %q", view.LowestTag)
	}
	if view.LowestName != "M/s Solo Contractor" {
		t.Errorf("unexpected lowest name %q", view.LowestName)
	}
}

func TestBuildView_Preconditions(t *testing.T) {
	work := rankedWork(t)
	work.Bidders = nil
	if _, err := BuildView(work, DefaultOfficeMetadata()); err == nil {
		t.Fatal("expected error for work without bids")
	} else if _, ok := err.(*PreconditionError); !ok {
		t.Errorf("expected *PreconditionError, got %T", err)
	}

	work = rankedWork(t)
	work.Bidders[2].Rank = 0
	if _, err := BuildView(work, DefaultOfficeMetadata()); err == nil {
		t.Fatal("expected error for unranked bid")
	} else if _, ok := err.(*PreconditionError); !ok {
		t.Errorf("expected *PreconditionError, got %T", err)
	}
}

func TestBuildView_UnparseableReceiptDateLeavesDatesEmpty(t *testing.T) {
	work := rankedWork(t)
	work.ReceiptDate = "sometime in March"
	view, err := BuildView(work, DefaultOfficeMetadata())
	if err != nil {
		t.Fatalf("BuildView returned error: %v", err)
	}
	if view.ValidUpto != "" || view.CommencementDate != "" || view.CompletionDate != "" {
		t.Errorf("derived dates must stay empty for unparseable receipt date, got %q %q %q",
			view.ValidUpto, view.CommencementDate, view.CompletionDate)
	}
}

func TestFiscalYearLabel(t *testing.T) {
	cases := []struct {
		date string
		want string
	}{
		{"25-03-25", "2024-25"},
		{"01-04-25", "2025-26"},
		{"31-12-24", "2024-25"},
	}
	for _, tc := range cases {
		d, err := parseTestDate(tc.date)
		if err != nil {
			t.Fatalf("parse %q: %v", tc.date, err)
		}
		if got := fiscalYearLabel(d); got != tc.want {
			t.Errorf("fiscalYearLabel(%s) = %q, want %q", tc.date, got, tc.want)
		}
	}
}
