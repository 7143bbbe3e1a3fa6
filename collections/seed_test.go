package collections_test

import (
	"testing"

	"tendergen/collections"
	"tendergen/testhelpers"
)

func TestSeed_CreatesOfficeSettingsAndDemoWork(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	if err := collections.Seed(app); err != nil {
		t.Fatalf("Seed returned error: %v", err)
	}

	settings, err := app.FindAllRecords("office_settings")
	if err != nil || len(settings) != 1 {
		t.Fatalf("expected exactly one office_settings record, got %d (err %v)", len(settings), err)
	}
	if settings[0].GetString("office_name") == "" {
		t.Error("office settings must carry an office name")
	}

	works, err := app.FindAllRecords("works")
	if err != nil || len(works) != 1 {
		t.Fatalf("expected exactly one demo work, got %d (err %v)", len(works), err)
	}
	work := works[0]
	if work.GetFloat("estimated_amount") != 641694 {
		t.Errorf("unexpected demo estimate %v", work.GetFloat("estimated_amount"))
	}

	bids, err := app.FindRecordsByFilter("bids", "work = {:workId}", "rank", 0, 0,
		map[string]any{"workId": work.Id})
	if err != nil {
		t.Fatalf("load demo bids: %v", err)
	}
	if len(bids) != 4 {
		t.Fatalf("expected 4 demo bids, got %d", len(bids))
	}

	// The 2.01% BELOW offer must come out ranked first and flagged L1.
	first := bids[0]
	if first.GetFloat("quoted_percentage") != -2.01 {
		t.Errorf("expected -2.01 as lowest offer, got %v", first.GetFloat("quoted_percentage"))
	}
	if !first.GetBool("is_l1") {
		t.Error("rank-1 demo bid must be flagged L1")
	}
	for i, b := range bids {
		if b.GetInt("rank") != i+1 {
			t.Errorf("bid %d: expected rank %d, got %d", i, i+1, b.GetInt("rank"))
		}
	}
}

func TestSeed_Idempotent(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	if err := collections.Seed(app); err != nil {
		t.Fatalf("first Seed returned error: %v", err)
	}
	if err := collections.Seed(app); err != nil {
		t.Fatalf("second Seed returned error: %v", err)
	}

	works, _ := app.FindAllRecords("works")
	if len(works) != 1 {
		t.Errorf("expected 1 work after double seed, got %d", len(works))
	}
	settings, _ := app.FindAllRecords("office_settings")
	if len(settings) != 1 {
		t.Errorf("expected 1 office_settings record after double seed, got %d", len(settings))
	}
}
