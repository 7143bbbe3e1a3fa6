package handlers

import (
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"tendergen/services"
)

// HandleDocumentPackage renders all four tender documents in both formats,
// records what was produced and streams the zip archive. Documents that fail
// their own field checks are listed in the manifest instead of failing the
// batch; the request errors only when nothing rendered at all.
// Route: POST /api/works/{id}/documents
func HandleDocumentPackage(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		work, err := loadWork(app, e.Request.PathValue("id"))
		if err != nil {
			return e.JSON(http.StatusNotFound, map[string]any{"error": "work not found"})
		}

		pkg, err := services.GeneratePackage(e.Request.Context(), work, officeMetadata(app))
		if err != nil {
			return writeServiceError(e, err)
		}

		if err := recordGeneration(app, work.ID, pkg); err != nil {
			// The archive is already built; a bookkeeping failure should not
			// cost the caller their download.
			log.Printf("documents: record generation for work %s: %v", work.ID, err)
		}

		e.Response.Header().Set("Content-Type", "application/zip")
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, pkg.FileName))
		e.Response.Header().Set("X-Generation-Id", pkg.Manifest.GenerationID)
		_, err = e.Response.Write(pkg.Bytes)
		return err
	}
}

// recordGeneration appends one generated_documents row per archive entry.
func recordGeneration(app *pocketbase.PocketBase, workID string, pkg *services.Package) error {
	col, err := app.FindCollectionByNameOrId("generated_documents")
	if err != nil {
		return err
	}
	return app.RunInTransaction(func(txApp core.App) error {
		for _, f := range pkg.Manifest.Files {
			r := core.NewRecord(col)
			r.Set("work", workID)
			r.Set("doc_type", docTypeForFile(f))
			r.Set("format", formatForFile(f))
			r.Set("file_name", f)
			r.Set("generation_id", pkg.Manifest.GenerationID)
			if err := txApp.Save(r); err != nil {
				return err
			}
		}
		return nil
	})
}

func docTypeForFile(fileName string) string {
	for _, dt := range services.DocumentTypes {
		if strings.HasPrefix(fileName, dt.FileStem()) {
			return string(dt)
		}
	}
	return ""
}

func formatForFile(fileName string) string {
	for _, f := range services.Formats {
		if strings.HasSuffix(fileName, "."+f.Ext()) {
			return string(f)
		}
	}
	return ""
}

// HandleDocumentSingle renders one document in one format and streams it
// directly, for previewing without downloading the whole package.
// Route: GET /api/works/{id}/documents/{docType}/{format}
func HandleDocumentSingle(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		docType := services.DocumentType(e.Request.PathValue("docType"))
		if !docType.Valid() {
			return e.JSON(http.StatusBadRequest, map[string]any{"error": fmt.Sprintf("unknown document type %q", docType)})
		}
		format := services.Format(e.Request.PathValue("format"))
		if !format.Valid() {
			return e.JSON(http.StatusBadRequest, map[string]any{"error": fmt.Sprintf("unknown format %q", format)})
		}

		work, err := loadWork(app, e.Request.PathValue("id"))
		if err != nil {
			return e.JSON(http.StatusNotFound, map[string]any{"error": "work not found"})
		}

		view, err := services.BuildView(work, officeMetadata(app))
		if err != nil {
			return writeServiceError(e, err)
		}

		data, err := services.Render(view, docType, format)
		if err != nil {
			if re, ok := err.(*services.RenderError); ok {
				return e.JSON(http.StatusUnprocessableEntity, map[string]any{
					"error": re.Error(),
					"field": re.Field,
				})
			}
			return writeServiceError(e, err)
		}

		fileName := services.ArtifactFileName(docType, view.NITNumber, format)
		e.Response.Header().Set("Content-Type", format.ContentType())
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, fileName))
		_, err = e.Response.Write(data)
		return err
	}
}

// HandleDocumentHistory lists past generations for a work, newest first.
// Route: GET /api/works/{id}/documents
func HandleDocumentHistory(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		workID := e.Request.PathValue("id")
		if _, err := app.FindRecordById("works", workID); err != nil {
			return e.JSON(http.StatusNotFound, map[string]any{"error": "work not found"})
		}

		records, err := app.FindRecordsByFilter("generated_documents", "work = {:workId}", "-created", 0, 0,
			map[string]any{"workId": workID})
		if err != nil {
			return e.JSON(http.StatusInternalServerError, map[string]any{"error": err.Error()})
		}

		type entry struct {
			DocType      string `json:"doc_type"`
			Format       string `json:"format"`
			FileName     string `json:"file_name"`
			GenerationID string `json:"generation_id"`
			Created      string `json:"created"`
		}
		entries := make([]entry, 0, len(records))
		for _, r := range records {
			entries = append(entries, entry{
				DocType:      r.GetString("doc_type"),
				Format:       r.GetString("format"),
				FileName:     r.GetString("file_name"),
				GenerationID: r.GetString("generation_id"),
				Created:      r.GetString("created"),
			})
		}
		return e.JSON(http.StatusOK, map[string]any{"documents": entries})
	}
}
