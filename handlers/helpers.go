// Package handlers wires the tender JSON API onto the PocketBase router:
// work CRUD, bid entry with re-ranking, NIT workbook upload and document
// package downloads.
package handlers

import (
	"fmt"
	"net/http"

	"github.com/pocketbase/pocketbase/core"

	"tendergen/services"
)

// loadWork assembles a full services.WorkRecord from the works record and its
// related work_items and bids rows. Bids come back in rank order.
func loadWork(app core.App, workID string) (services.WorkRecord, error) {
	record, err := app.FindRecordById("works", workID)
	if err != nil {
		return services.WorkRecord{}, fmt.Errorf("work not found: %w", err)
	}
	return workFromRecord(app, record)
}

func workFromRecord(app core.App, record *core.Record) (services.WorkRecord, error) {
	work := services.WorkRecord{
		ID:               record.Id,
		NITNumber:        record.GetString("nit_number"),
		NITDate:          record.GetString("nit_date"),
		WorkName:         record.GetString("work_name"),
		EstimatedAmount:  record.GetFloat("estimated_amount"),
		EarnestMoney:     record.GetFloat("earnest_money"),
		CompletionMonths: record.GetInt("completion_months"),
		TendersSold:      record.GetInt("tenders_sold"),
		TendersReceived:  record.GetInt("tenders_received"),
		ReceiptDate:      record.GetString("receipt_date"),
	}

	items, err := app.FindRecordsByFilter("work_items", "work = {:workId}", "sr_no", 0, 0,
		map[string]any{"workId": record.Id})
	if err == nil {
		for _, it := range items {
			work.LineItems = append(work.LineItems, services.LineItem{
				SrNo:        it.GetInt("sr_no"),
				Description: it.GetString("description"),
				Quantity:    it.GetFloat("quantity"),
				Unit:        it.GetString("unit"),
				Rate:        it.GetFloat("rate"),
				Amount:      it.GetFloat("amount"),
			})
		}
	}

	bids, err := app.FindRecordsByFilter("bids", "work = {:workId}", "rank", 0, 0,
		map[string]any{"workId": record.Id})
	if err == nil {
		for _, b := range bids {
			work.Bidders = append(work.Bidders, services.BidEntry{
				SNo:              b.GetInt("sno"),
				Name:             b.GetString("name"),
				Address:          b.GetString("address"),
				Contact:          b.GetString("contact"),
				QuotedPercentage: b.GetFloat("quoted_percentage"),
				QuotedAmount:     b.GetFloat("quoted_amount"),
				Rank:             b.GetInt("rank"),
				RankPercentile:   b.GetFloat("rank_percentile"),
				IsL1:             b.GetBool("is_l1"),
			})
		}
	}

	return work, nil
}

// officeMetadata reads the single office_settings record, falling back to the
// built-in defaults when none exists yet.
func officeMetadata(app core.App) services.OfficeMetadata {
	office := services.DefaultOfficeMetadata()
	records, err := app.FindRecordsByFilter("office_settings", "id != ''", "", 1, 0, nil)
	if err != nil || len(records) == 0 {
		return office
	}
	r := records[0]
	if v := r.GetString("office_name"); v != "" {
		office.OfficeName = v
	}
	if v := r.GetString("authority_title"); v != "" {
		office.AuthorityTitle = v
	}
	if v := r.GetString("government_line"); v != "" {
		office.GovernmentLine = v
	}
	if v := r.GetString("head_of_account"); v != "" {
		office.HeadOfAccount = v
	}
	if v := r.GetInt("validity_days"); v > 0 {
		office.ValidityDays = v
	}
	if v := r.GetFloat("stamp_duty"); v > 0 {
		office.StampDutyRs = v
	}
	return office
}

// rerankWork recomputes quoted amounts, ranks, percentiles and the L1 flag
// for every bid of a work and writes them back. Must run inside a
// transaction so concurrent bid entry never leaves a half-ranked set.
func rerankWork(txApp core.App, workID string, estimatedAmount float64) error {
	bids, err := txApp.FindRecordsByFilter("bids", "work = {:workId}", "created", 0, 0,
		map[string]any{"workId": workID})
	if err != nil {
		return fmt.Errorf("load bids: %w", err)
	}
	if len(bids) == 0 {
		return nil
	}

	raw := make([]services.RawBid, len(bids))
	for i, b := range bids {
		raw[i] = services.RawBid{
			SNo:              i + 1,
			Name:             b.GetString("name"),
			Address:          b.GetString("address"),
			Contact:          b.GetString("contact"),
			QuotedPercentage: b.GetFloat("quoted_percentage"),
		}
	}

	ranked, _, err := services.Rank(estimatedAmount, raw)
	if err != nil {
		return err
	}

	// Rank returns entries sorted by quoted amount; map them back to their
	// source records by submission index.
	byIndex := make(map[int]services.BidEntry, len(ranked))
	for _, entry := range ranked {
		byIndex[entry.SNo-1] = entry
	}

	for i, b := range bids {
		entry := byIndex[i]
		b.Set("sno", entry.Rank)
		b.Set("quoted_amount", entry.QuotedAmount)
		b.Set("rank", entry.Rank)
		b.Set("rank_percentile", entry.RankPercentile)
		b.Set("is_l1", entry.IsL1)
		if err := txApp.Save(b); err != nil {
			return fmt.Errorf("save bid %s: %w", b.Id, err)
		}
	}
	return nil
}

// writeServiceError maps the typed domain errors onto HTTP statuses.
// Validation problems are the client's fault, missing preconditions mean the
// work is not ready, an assembly failure means nothing rendered at all.
func writeServiceError(e *core.RequestEvent, err error) error {
	switch typed := err.(type) {
	case *services.ValidationError:
		return e.JSON(http.StatusBadRequest, map[string]any{
			"error": typed.Error(),
			"field": typed.Field,
		})
	case *services.PreconditionError:
		return e.JSON(http.StatusUnprocessableEntity, map[string]any{
			"error": typed.Error(),
		})
	case *services.AssemblyError:
		return e.JSON(http.StatusUnprocessableEntity, map[string]any{
			"error": typed.Error(),
		})
	default:
		return e.JSON(http.StatusInternalServerError, map[string]any{
			"error": err.Error(),
		})
	}
}
