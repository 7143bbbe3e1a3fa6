package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"tendergen/services"
)

// ── Definition structs ───────────────────────────────────────────────────

type bidDef struct {
	name             string
	address          string
	contact          string
	quotedPercentage float64
}

type itemDef struct {
	srNo        int
	description string
	quantity    float64
	unit        string
	rate        float64
}

// Seed populates the office settings and a realistic demo work with a
// ranked bidder set. It is safe to call on every startup because each part
// returns early if records already exist.
func Seed(app *pocketbase.PocketBase) error {
	if err := seedOfficeSettings(app); err != nil {
		return err
	}
	return seedDemoWork(app)
}

// seedOfficeSettings inserts the default office letterhead values used on
// every generated document. Admins edit the single record afterwards.
func seedOfficeSettings(app *pocketbase.PocketBase) error {
	col, err := app.FindCollectionByNameOrId("office_settings")
	if err != nil {
		return fmt.Errorf("seed: could not find office_settings collection: %w", err)
	}
	existing, err := app.FindAllRecords(col)
	if err != nil {
		return fmt.Errorf("seed: could not query office_settings: %w", err)
	}
	if len(existing) > 0 {
		return nil // already seeded
	}

	office := services.DefaultOfficeMetadata()
	r := core.NewRecord(col)
	r.Set("office_name", office.OfficeName)
	r.Set("authority_title", office.AuthorityTitle)
	r.Set("government_line", office.GovernmentLine)
	r.Set("head_of_account", office.HeadOfAccount)
	r.Set("validity_days", office.ValidityDays)
	r.Set("stamp_duty", office.StampDutyRs)
	if err := app.Save(r); err != nil {
		return fmt.Errorf("seed: save office_settings: %w", err)
	}
	log.Println("seed: inserted default office settings")
	return nil
}

// seedDemoWork inserts one complete tender work: facts, a small G-Schedule
// and four bidders ranked through the ranking engine.
func seedDemoWork(app *pocketbase.PocketBase) error {
	worksCol, err := app.FindCollectionByNameOrId("works")
	if err != nil {
		return fmt.Errorf("seed: could not find works collection: %w", err)
	}
	existing, err := app.FindAllRecords(worksCol)
	if err != nil {
		return fmt.Errorf("seed: could not query works: %w", err)
	}
	if len(existing) > 0 {
		return nil // already seeded
	}

	log.Println("seed: works collection is empty – inserting demo work …")

	itemsCol, err := app.FindCollectionByNameOrId("work_items")
	if err != nil {
		return fmt.Errorf("seed: could not find work_items collection: %w", err)
	}
	bidsCol, err := app.FindCollectionByNameOrId("bids")
	if err != nil {
		return fmt.Errorf("seed: could not find bids collection: %w", err)
	}

	const estimatedAmount = 641694.0

	work := core.NewRecord(worksCol)
	work.Set("nit_number", "27/2024-25")
	work.Set("nit_date", "12-03-25")
	work.Set("work_name", "Providing and fixing of street light poles and LED fittings in Division Campus, Udaipur")
	work.Set("estimated_amount", estimatedAmount)
	work.Set("earnest_money", 13000.0)
	work.Set("completion_months", 9)
	work.Set("tenders_sold", 4)
	work.Set("tenders_received", 4)
	work.Set("receipt_date", "24-03-25")
	if err := app.Save(work); err != nil {
		return fmt.Errorf("seed: save work: %w", err)
	}

	items := []itemDef{
		{1, "Providing and erection of 9m octagonal street light pole with foundation", 350, "Nos", 1200},
		{2, "Supply and fixing of 70W LED street light fitting", 180, "Nos", 950},
		{3, "Cabling, earthing and commissioning charges (lumpsum)", 1, "LS", 50694},
	}
	for _, d := range items {
		r := core.NewRecord(itemsCol)
		r.Set("work", work.Id)
		r.Set("sr_no", d.srNo)
		r.Set("description", d.description)
		r.Set("quantity", d.quantity)
		r.Set("unit", d.unit)
		r.Set("rate", d.rate)
		r.Set("amount", services.Round2(d.quantity*d.rate))
		if err := app.Save(r); err != nil {
			return fmt.Errorf("seed: save work_item %q: %w", d.description, err)
		}
	}

	bidDefs := []bidDef{
		{"M/s Shree Balaji Electricals, Udaipur", "Sector 4, Hiran Magri, Udaipur", "9414100001", -2.00},
		{"M/s Mewar Electric Works", "Chetak Circle, Udaipur", "9414100002", -2.01},
		{"M/s Aravalli Power Solutions", "Bhuwana, Udaipur", "9414100003", -1.00},
		{"M/s Rajdeep Electric Co.", "Suraj Pole, Udaipur", "9414100004", -0.10},
	}
	raw := make([]services.RawBid, len(bidDefs))
	for i, d := range bidDefs {
		raw[i] = services.RawBid{
			SNo:              i + 1,
			Name:             d.name,
			Address:          d.address,
			Contact:          d.contact,
			QuotedPercentage: d.quotedPercentage,
		}
	}
	ranked, _, err := services.Rank(estimatedAmount, raw)
	if err != nil {
		return fmt.Errorf("seed: rank demo bids: %w", err)
	}

	for _, b := range ranked {
		r := core.NewRecord(bidsCol)
		r.Set("work", work.Id)
		r.Set("sno", b.SNo)
		r.Set("name", b.Name)
		r.Set("address", b.Address)
		r.Set("contact", b.Contact)
		r.Set("quoted_percentage", b.QuotedPercentage)
		r.Set("quoted_amount", b.QuotedAmount)
		r.Set("rank", b.Rank)
		r.Set("rank_percentile", b.RankPercentile)
		r.Set("is_l1", b.IsL1)
		if err := app.Save(r); err != nil {
			return fmt.Errorf("seed: save bid %q: %w", b.Name, err)
		}
	}

	log.Printf("seed: inserted demo work %s with %d bids", work.Id, len(ranked))
	return nil
}
