package handlers

import (
	"fmt"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"tendergen/services"
)

// workSummary is the list-view shape: raw numbers plus display strings so
// clients never re-format money.
type workSummary struct {
	ID               string `json:"id"`
	NITNumber        string `json:"nit_number"`
	NITDate          string `json:"nit_date"`
	WorkName         string `json:"work_name"`
	EstimatedAmount  string `json:"estimated_amount"`
	EarnestMoney     string `json:"earnest_money"`
	CompletionMonths int    `json:"completion_months"`
	BidderCount      int    `json:"bidder_count"`
	LowestBidder     string `json:"lowest_bidder,omitempty"`
}

// HandleWorkList returns every work with its bidder count and L1 name.
// Route: GET /api/works
func HandleWorkList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		records, err := app.FindRecordsByFilter("works", "id != ''", "-created", 0, 0, nil)
		if err != nil {
			return e.JSON(http.StatusInternalServerError, map[string]any{"error": "could not list works"})
		}

		summaries := make([]workSummary, 0, len(records))
		for _, r := range records {
			s := workSummary{
				ID:               r.Id,
				NITNumber:        r.GetString("nit_number"),
				NITDate:          r.GetString("nit_date"),
				WorkName:         r.GetString("work_name"),
				EstimatedAmount:  services.FormatINR(r.GetFloat("estimated_amount")),
				EarnestMoney:     services.FormatINR(r.GetFloat("earnest_money")),
				CompletionMonths: r.GetInt("completion_months"),
			}
			bids, err := app.FindRecordsByFilter("bids", "work = {:workId}", "rank", 0, 0,
				map[string]any{"workId": r.Id})
			if err == nil {
				s.BidderCount = len(bids)
				for _, b := range bids {
					if b.GetInt("rank") == 1 {
						s.LowestBidder = b.GetString("name")
						break
					}
				}
			}
			summaries = append(summaries, s)
		}

		return e.JSON(http.StatusOK, map[string]any{"works": summaries})
	}
}

// HandleWorkView returns one work with its full bid table and G-Schedule.
// Route: GET /api/works/{id}
func HandleWorkView(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		work, err := loadWork(app, e.Request.PathValue("id"))
		if err != nil {
			return e.JSON(http.StatusNotFound, map[string]any{"error": "work not found"})
		}

		return e.JSON(http.StatusOK, map[string]any{
			"work":              work,
			"estimated_display": services.FormatINR(work.EstimatedAmount),
			"earnest_display":   services.FormatINR(work.EarnestMoney),
		})
	}
}

// workInput is the JSON body accepted by HandleWorkSave.
type workInput struct {
	NITNumber        string              `json:"nit_number"`
	NITDate          string              `json:"nit_date"`
	WorkName         string              `json:"work_name"`
	EstimatedAmount  float64             `json:"estimated_amount"`
	EarnestMoney     float64             `json:"earnest_money"`
	CompletionMonths int                 `json:"completion_months"`
	TendersSold      int                 `json:"tenders_sold"`
	TendersReceived  int                 `json:"tenders_received"`
	ReceiptDate      string              `json:"receipt_date"`
	LineItems        []services.LineItem `json:"line_items"`
	Bids             []services.RawBid   `json:"bids"`
}

// HandleWorkSave creates a work from a JSON body, validates it, ranks any
// bids supplied inline and persists everything in one transaction.
// Route: POST /api/works
func HandleWorkSave(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var input workInput
		if err := e.BindBody(&input); err != nil {
			return e.JSON(http.StatusBadRequest, map[string]any{"error": "invalid JSON body"})
		}

		work := services.WorkRecord{
			NITNumber:        input.NITNumber,
			NITDate:          input.NITDate,
			WorkName:         input.WorkName,
			EstimatedAmount:  input.EstimatedAmount,
			EarnestMoney:     input.EarnestMoney,
			CompletionMonths: input.CompletionMonths,
			TendersSold:      input.TendersSold,
			TendersReceived:  input.TendersReceived,
			ReceiptDate:      input.ReceiptDate,
			LineItems:        input.LineItems,
		}
		if err := work.Validate(); err != nil {
			return writeServiceError(e, err)
		}

		var ranked []services.BidEntry
		if len(input.Bids) > 0 {
			var err error
			ranked, _, err = services.Rank(input.EstimatedAmount, input.Bids)
			if err != nil {
				return writeServiceError(e, err)
			}
		}

		var workID string
		err := app.RunInTransaction(func(txApp core.App) error {
			id, err := persistWork(txApp, work, ranked)
			workID = id
			return err
		})
		if err != nil {
			return e.JSON(http.StatusInternalServerError, map[string]any{"error": err.Error()})
		}

		saved, err := loadWork(app, workID)
		if err != nil {
			return e.JSON(http.StatusInternalServerError, map[string]any{"error": err.Error()})
		}

		resp := map[string]any{"work": saved}
		if warning := work.ReconcileLineItems(); warning != "" {
			resp["warnings"] = []string{warning}
		}
		return e.JSON(http.StatusCreated, resp)
	}
}

// persistWork writes a work with its line items and already-ranked bids.
// Used by both the JSON create route and the workbook upload route.
func persistWork(txApp core.App, work services.WorkRecord, ranked []services.BidEntry) (string, error) {
	worksCol, err := txApp.FindCollectionByNameOrId("works")
	if err != nil {
		return "", fmt.Errorf("works collection: %w", err)
	}
	record := core.NewRecord(worksCol)
	record.Set("nit_number", work.NITNumber)
	record.Set("nit_date", work.NITDate)
	record.Set("work_name", work.WorkName)
	record.Set("estimated_amount", work.EstimatedAmount)
	record.Set("earnest_money", work.EarnestMoney)
	record.Set("completion_months", work.CompletionMonths)
	record.Set("tenders_sold", work.TendersSold)
	record.Set("tenders_received", work.TendersReceived)
	record.Set("receipt_date", work.ReceiptDate)
	if err := txApp.Save(record); err != nil {
		return "", fmt.Errorf("save work: %w", err)
	}

	if len(work.LineItems) > 0 {
		itemsCol, err := txApp.FindCollectionByNameOrId("work_items")
		if err != nil {
			return "", fmt.Errorf("work_items collection: %w", err)
		}
		for _, li := range work.LineItems {
			r := core.NewRecord(itemsCol)
			r.Set("work", record.Id)
			r.Set("sr_no", li.SrNo)
			r.Set("description", li.Description)
			r.Set("quantity", li.Quantity)
			r.Set("unit", li.Unit)
			r.Set("rate", li.Rate)
			r.Set("amount", li.EffectiveAmount())
			if err := txApp.Save(r); err != nil {
				return "", fmt.Errorf("save work item %d: %w", li.SrNo, err)
			}
		}
	}

	if len(ranked) > 0 {
		bidsCol, err := txApp.FindCollectionByNameOrId("bids")
		if err != nil {
			return "", fmt.Errorf("bids collection: %w", err)
		}
		for _, b := range ranked {
			r := core.NewRecord(bidsCol)
			r.Set("work", record.Id)
			r.Set("sno", b.Rank)
			r.Set("name", b.Name)
			r.Set("address", b.Address)
			r.Set("contact", b.Contact)
			r.Set("quoted_percentage", b.QuotedPercentage)
			r.Set("quoted_amount", b.QuotedAmount)
			r.Set("rank", b.Rank)
			r.Set("rank_percentile", b.RankPercentile)
			r.Set("is_l1", b.IsL1)
			if err := txApp.Save(r); err != nil {
				return "", fmt.Errorf("save bid %q: %w", b.Name, err)
			}
		}
	}

	return record.Id, nil
}

// HandleWorkDelete removes a work; its items, bids and generated-document
// records cascade.
// Route: DELETE /api/works/{id}
func HandleWorkDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		record, err := app.FindRecordById("works", e.Request.PathValue("id"))
		if err != nil {
			return e.JSON(http.StatusNotFound, map[string]any{"error": "work not found"})
		}
		if err := app.Delete(record); err != nil {
			return e.JSON(http.StatusInternalServerError, map[string]any{"error": err.Error()})
		}
		return e.JSON(http.StatusOK, map[string]any{"deleted": record.Id})
	}
}
