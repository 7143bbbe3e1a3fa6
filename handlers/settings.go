package handlers

import (
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"tendergen/services"
)

// HandleSettingsView returns the office letterhead configuration.
// Route: GET /api/settings
func HandleSettingsView(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		office := officeMetadata(app)
		return e.JSON(http.StatusOK, map[string]any{
			"office_name":     office.OfficeName,
			"authority_title": office.AuthorityTitle,
			"government_line": office.GovernmentLine,
			"head_of_account": office.HeadOfAccount,
			"validity_days":   office.ValidityDays,
			"stamp_duty":      office.StampDutyRs,
		})
	}
}

type settingsInput struct {
	OfficeName     string  `json:"office_name"`
	AuthorityTitle string  `json:"authority_title"`
	GovernmentLine string  `json:"government_line"`
	HeadOfAccount  string  `json:"head_of_account"`
	ValidityDays   int     `json:"validity_days"`
	StampDuty      float64 `json:"stamp_duty"`
}

// HandleSettingsSave updates the single office_settings record, creating it
// when missing.
// Route: PUT /api/settings
func HandleSettingsSave(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var input settingsInput
		if err := e.BindBody(&input); err != nil {
			return e.JSON(http.StatusBadRequest, map[string]any{"error": "invalid JSON body"})
		}
		if strings.TrimSpace(input.OfficeName) == "" {
			return writeServiceError(e, &services.ValidationError{Field: "office_name", Message: "office name is required"})
		}
		if strings.TrimSpace(input.AuthorityTitle) == "" {
			return writeServiceError(e, &services.ValidationError{Field: "authority_title", Message: "authority title is required"})
		}
		if input.ValidityDays < 0 {
			return writeServiceError(e, &services.ValidationError{Field: "validity_days", Message: "validity days cannot be negative"})
		}

		col, err := app.FindCollectionByNameOrId("office_settings")
		if err != nil {
			return e.JSON(http.StatusInternalServerError, map[string]any{"error": err.Error()})
		}

		var record *core.Record
		existing, err := app.FindRecordsByFilter(col, "id != ''", "", 1, 0, nil)
		if err == nil && len(existing) > 0 {
			record = existing[0]
		} else {
			record = core.NewRecord(col)
		}

		record.Set("office_name", input.OfficeName)
		record.Set("authority_title", input.AuthorityTitle)
		record.Set("government_line", input.GovernmentLine)
		record.Set("head_of_account", input.HeadOfAccount)
		record.Set("validity_days", input.ValidityDays)
		record.Set("stamp_duty", input.StampDuty)
		if err := app.Save(record); err != nil {
			return e.JSON(http.StatusInternalServerError, map[string]any{"error": err.Error()})
		}

		return e.JSON(http.StatusOK, map[string]any{"updated": record.Id})
	}
}
