package handlers

import (
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"tendergen/services"
)

// bidInput is the JSON body for adding one bid. The quoted percentage can be
// a number or the sheet wording ("2.00 BELOW", "AT PAR") in percentage_text.
type bidInput struct {
	Name             string   `json:"name"`
	Address          string   `json:"address"`
	Contact          string   `json:"contact"`
	QuotedPercentage *float64 `json:"quoted_percentage"`
	PercentageText   string   `json:"percentage_text"`
}

// HandleBidAdd appends a bid to a work and re-ranks the whole set in one
// transaction, so two simultaneous additions cannot interleave their rank
// writes.
// Route: POST /api/works/{id}/bids
func HandleBidAdd(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		workID := e.Request.PathValue("id")
		workRecord, err := app.FindRecordById("works", workID)
		if err != nil {
			return e.JSON(http.StatusNotFound, map[string]any{"error": "work not found"})
		}

		var input bidInput
		if err := e.BindBody(&input); err != nil {
			return e.JSON(http.StatusBadRequest, map[string]any{"error": "invalid JSON body"})
		}
		if strings.TrimSpace(input.Name) == "" {
			return writeServiceError(e, &services.ValidationError{Field: "name", Message: "bidder name is required"})
		}

		var pct float64
		switch {
		case input.QuotedPercentage != nil:
			pct = *input.QuotedPercentage
			if err := services.CheckQuotedPercentage(pct); err != nil {
				return writeServiceError(e, err)
			}
		case input.PercentageText != "":
			pct, err = services.ParseQuotedPercentage(input.PercentageText)
			if err != nil {
				return writeServiceError(e, err)
			}
		default:
			return writeServiceError(e, &services.ValidationError{
				Field:   "quoted_percentage",
				Message: "either quoted_percentage or percentage_text is required",
			})
		}

		err = app.RunInTransaction(func(txApp core.App) error {
			bidsCol, err := txApp.FindCollectionByNameOrId("bids")
			if err != nil {
				return err
			}
			existing, err := txApp.FindRecordsByFilter("bids", "work = {:workId}", "", 0, 0,
				map[string]any{"workId": workID})
			if err != nil {
				return err
			}
			r := core.NewRecord(bidsCol)
			r.Set("work", workID)
			// The serial must never be zero; PocketBase treats a zero in a
			// required number field as blank. rerankWork rewrites it anyway.
			r.Set("sno", len(existing)+1)
			r.Set("name", strings.TrimSpace(input.Name))
			r.Set("address", input.Address)
			r.Set("contact", input.Contact)
			r.Set("quoted_percentage", pct)
			if err := txApp.Save(r); err != nil {
				return err
			}
			return rerankWork(txApp, workID, workRecord.GetFloat("estimated_amount"))
		})
		if err != nil {
			return writeServiceError(e, err)
		}

		work, err := loadWork(app, workID)
		if err != nil {
			return e.JSON(http.StatusInternalServerError, map[string]any{"error": err.Error()})
		}
		return e.JSON(http.StatusCreated, map[string]any{"bidders": work.Bidders})
	}
}

// HandleBidDelete removes a bid and re-ranks the remaining set.
// Route: DELETE /api/works/{id}/bids/{bidId}
func HandleBidDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		workID := e.Request.PathValue("id")
		workRecord, err := app.FindRecordById("works", workID)
		if err != nil {
			return e.JSON(http.StatusNotFound, map[string]any{"error": "work not found"})
		}

		bid, err := app.FindRecordById("bids", e.Request.PathValue("bidId"))
		if err != nil || bid.GetString("work") != workID {
			return e.JSON(http.StatusNotFound, map[string]any{"error": "bid not found"})
		}

		err = app.RunInTransaction(func(txApp core.App) error {
			if err := txApp.Delete(bid); err != nil {
				return err
			}
			return rerankWork(txApp, workID, workRecord.GetFloat("estimated_amount"))
		})
		if err != nil {
			return writeServiceError(e, err)
		}

		work, err := loadWork(app, workID)
		if err != nil {
			return e.JSON(http.StatusInternalServerError, map[string]any{"error": err.Error()})
		}
		return e.JSON(http.StatusOK, map[string]any{"bidders": work.Bidders})
	}
}
