package services

import (
	"strings"
	"testing"
)

func TestWorkRecordValidate(t *testing.T) {
	work := WorkRecord{
		NITNumber:       "15/2024-25",
		WorkName:        "Some work",
		EstimatedAmount: 100000,
	}
	if err := work.Validate(); err != nil {
		t.Errorf("expected valid work, got %v", err)
	}

	work.WorkName = ""
	err := work.Validate()
	if err == nil {
		t.Fatal("expected error for missing work name")
	}
	ve, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if ve.Field != "WorkName" {
		t.Errorf("expected WorkName field, got %q", ve.Field)
	}

	work.WorkName = "Some work"
	work.EstimatedAmount = -5
	if err := work.Validate(); err == nil {
		t.Error("expected error for negative estimate")
	}
}

func TestLineItemEffectiveAmount(t *testing.T) {
	li := LineItem{Quantity: 350, Rate: 1200}
	if got := li.EffectiveAmount(); got != 420000 {
		t.Errorf("expected 420000, got %v", got)
	}
	li.Amount = 419999.5
	if got := li.EffectiveAmount(); got != 419999.5 {
		t.Errorf("explicit amount must win, got %v", got)
	}
}

func TestReconcileLineItems(t *testing.T) {
	work := WorkRecord{
		EstimatedAmount: 641694,
		LineItems: []LineItem{
			{SrNo: 1, Quantity: 350, Rate: 1200},
			{SrNo: 2, Quantity: 180, Rate: 950},
			{SrNo: 3, Quantity: 1, Rate: 50694},
		},
	}
	if warning := work.ReconcileLineItems(); warning != "" {
		t.Errorf("expected no warning for matching schedule, got %q", warning)
	}

	work.LineItems = work.LineItems[:2]
	warning := work.ReconcileLineItems()
	if warning == "" {
		t.Fatal("expected mismatch warning")
	}
	if !strings.Contains(warning, "does not match") {
		t.Errorf("unexpected warning wording %q", warning)
	}

	work.LineItems = nil
	if warning := work.ReconcileLineItems(); warning != "" {
		t.Errorf("expected no warning without a schedule, got %q", warning)
	}
}
