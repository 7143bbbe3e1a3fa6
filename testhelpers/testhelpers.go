// Package testhelpers provides utilities for testing PocketBase-based applications.
package testhelpers

import (
	"strings"
	"testing"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"tendergen/collections"
)

// NewTestApp creates a PocketBase instance backed by a temporary directory.
// It bootstraps the app and runs collections.Setup to create all tables.
// The temporary directory is cleaned up automatically when the test finishes.
func NewTestApp(t *testing.T) *pocketbase.PocketBase {
	t.Helper()

	tmpDir := t.TempDir()
	app := pocketbase.NewWithConfig(pocketbase.Config{
		DefaultDataDir: tmpDir,
	})

	if err := app.Bootstrap(); err != nil {
		t.Fatalf("failed to bootstrap test app: %v", err)
	}

	collections.Setup(app)

	return app
}

// CreateTestWork creates a work record with sensible tender defaults and
// returns it.
func CreateTestWork(t *testing.T, app *pocketbase.PocketBase, workName string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("works")
	if err != nil {
		t.Fatalf("failed to find works collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("nit_number", "15/2024-25")
	record.Set("nit_date", "12-03-25")
	record.Set("work_name", workName)
	record.Set("estimated_amount", 1000000.0)
	record.Set("earnest_money", 20000.0)
	record.Set("completion_months", 6)
	record.Set("tenders_sold", 3)
	record.Set("tenders_received", 3)
	record.Set("receipt_date", "24-03-25")

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test work: %v", err)
	}

	return record
}

// CreateTestBid creates a bid record linked to a work. Only the raw fields
// are set; the derived ranking columns stay zero until a re-rank runs.
func CreateTestBid(t *testing.T, app *pocketbase.PocketBase, workID, name string, quotedPercentage float64) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("bids")
	if err != nil {
		t.Fatalf("failed to find bids collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("work", workID)
	record.Set("sno", 1)
	record.Set("name", name)
	record.Set("quoted_percentage", quotedPercentage)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test bid: %v", err)
	}

	return record
}

// CreateTestWorkItem creates a G-Schedule line item linked to a work.
func CreateTestWorkItem(t *testing.T, app *pocketbase.PocketBase, workID, description string, qty, rate float64) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("work_items")
	if err != nil {
		t.Fatalf("failed to find work_items collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("work", workID)
	record.Set("sr_no", 1)
	record.Set("description", description)
	record.Set("quantity", qty)
	record.Set("unit", "Nos")
	record.Set("rate", rate)
	record.Set("amount", qty*rate)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test work item: %v", err)
	}

	return record
}

// AssertJSONContains checks that body contains all specified fragments.
func AssertJSONContains(t *testing.T, body string, fragments ...string) {
	t.Helper()

	for _, frag := range fragments {
		if !strings.Contains(body, frag) {
			t.Errorf("expected response to contain %q, but it was not found\nbody (first 500 chars): %s",
				frag, truncate(body, 500))
		}
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
