package handlers

import (
	"log"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"tendergen/services"
)

// HandleWorkUpload ingests an NIT workbook: it parses the first sheet into a
// work record with bidders, validates and ranks it, and persists everything
// in one transaction. Parse warnings (for instance a G-Schedule that does
// not add up) come back alongside the created work.
// Route: POST /api/works/upload
func HandleWorkUpload(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		// Parse multipart form (max 10MB)
		if err := e.Request.ParseMultipartForm(10 << 20); err != nil {
			return e.JSON(http.StatusBadRequest, map[string]any{"error": "file too large or invalid form data"})
		}

		file, header, err := e.Request.FormFile("excelFile")
		if err != nil {
			return e.JSON(http.StatusBadRequest, map[string]any{"error": "please attach a spreadsheet as \"excelFile\""})
		}
		defer file.Close()

		ext := strings.ToLower(filepath.Ext(header.Filename))
		if ext != ".xlsx" && ext != ".xls" {
			return e.JSON(http.StatusBadRequest, map[string]any{"error": "only .xlsx and .xls files are accepted"})
		}

		imported, err := services.ParseWorkbook(file)
		if err != nil {
			log.Printf("work_upload: parse %q: %v", header.Filename, err)
			return writeServiceError(e, err)
		}

		work := services.WorkRecord{
			NITNumber:        imported.NITNumber,
			NITDate:          imported.NITDate,
			WorkName:         imported.WorkName,
			EstimatedAmount:  imported.EstimatedAmount,
			EarnestMoney:     imported.EarnestMoney,
			CompletionMonths: imported.CompletionMonths,
			TendersSold:      imported.TendersSold,
			TendersReceived:  imported.TendersReceived,
			ReceiptDate:      imported.ReceiptDate,
			LineItems:        imported.LineItems,
		}
		if err := work.Validate(); err != nil {
			return writeServiceError(e, err)
		}

		ranked, mode, err := services.Rank(work.EstimatedAmount, imported.Bids)
		if err != nil {
			return writeServiceError(e, err)
		}

		var workID string
		err = app.RunInTransaction(func(txApp core.App) error {
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

		resp := map[string]any{
			"work":          saved,
			"participation": mode,
		}
		if len(imported.Warnings) > 0 {
			resp["warnings"] = imported.Warnings
		}
		return e.JSON(http.StatusCreated, resp)
	}
}
