package handlers

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pocketbase/pocketbase"

	"tendergen/services"
	"tendergen/testhelpers"
)

// rankedTestWork creates a work with two ranked bids via the bid handler so
// the derived columns are populated the same way production writes them.
func rankedTestWork(t *testing.T, app *pocketbase.PocketBase) string {
	t.Helper()
	work := testhelpers.CreateTestWork(t, app, "Electrification of district library")
	postBid(t, app, work.Id, `{"name": "M/s Lowest Electricals", "quoted_percentage": -2.5}`)
	rec := postBid(t, app, work.Id, `{"name": "M/s Runner Up", "quoted_percentage": -1}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("bid setup failed: %d %s", rec.Code, rec.Body.String())
	}
	return work.Id
}

func TestHandleDocumentPackage_FullArchive(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	workID := rankedTestWork(t, app)

	handler := HandleDocumentPackage(app)
	req := httptest.NewRequest(http.MethodPost, "/api/works/"+workID+"/documents", nil)
	req.SetPathValue("id", workID)
	rec := httptest.NewRecorder()

	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/zip" {
		t.Errorf("expected zip content type, got %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "_documents.zip") {
		t.Errorf("unexpected content disposition %q", cd)
	}
	if rec.Header().Get("X-Generation-Id") == "" {
		t.Error("response must carry the generation id")
	}

	data := rec.Body.Bytes()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	if len(zr.File) != 9 {
		t.Errorf("expected 8 documents plus manifest, got %d entries", len(zr.File))
	}

	var manifest services.Manifest
	for _, zf := range zr.File {
		if zf.Name != services.ManifestName {
			continue
		}
		rc, err := zf.Open()
		if err != nil {
			t.Fatalf("open manifest: %v", err)
		}
		raw, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("read manifest: %v", err)
		}
		if err := json.Unmarshal(raw, &manifest); err != nil {
			t.Fatalf("unmarshal manifest: %v", err)
		}
	}
	if manifest.WorkID != workID {
		t.Errorf("manifest work id mismatch: %q", manifest.WorkID)
	}
	if len(manifest.Files) != 8 || len(manifest.Omitted) != 0 {
		t.Errorf("expected 8 files and no omissions, got %d/%d", len(manifest.Files), len(manifest.Omitted))
	}

	// Every archive entry must be recorded for the history endpoint.
	history, err := app.FindRecordsByFilter("generated_documents", "work = {:workId}", "", 0, 0,
		map[string]any{"workId": workID})
	if err != nil {
		t.Fatalf("load generated_documents: %v", err)
	}
	if len(history) != 8 {
		t.Errorf("expected 8 generated_documents rows, got %d", len(history))
	}
}

func TestHandleDocumentPackage_PartialWhenNITDateMissing(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	workID := rankedTestWork(t, app)

	work, err := app.FindRecordById("works", workID)
	if err != nil {
		t.Fatalf("reload work: %v", err)
	}
	work.Set("nit_date", "")
	if err := app.Save(work); err != nil {
		t.Fatalf("clear nit date: %v", err)
	}

	handler := HandleDocumentPackage(app)
	req := httptest.NewRequest(http.MethodPost, "/api/works/"+workID+"/documents", nil)
	req.SetPathValue("id", workID)
	rec := httptest.NewRecorder()

	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	data := rec.Body.Bytes()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}

	var manifest services.Manifest
	for _, zf := range zr.File {
		if zf.Name == services.ManifestName {
			rc, _ := zf.Open()
			raw, _ := io.ReadAll(rc)
			rc.Close()
			if err := json.Unmarshal(raw, &manifest); err != nil {
				t.Fatalf("unmarshal manifest: %v", err)
			}
		}
	}

	// Both scrutiny sheet renditions are omitted, everything else ships.
	if len(manifest.Files) != 6 {
		t.Errorf("expected 6 files, got %v", manifest.Files)
	}
	if len(manifest.Omitted) != 2 {
		t.Fatalf("expected 2 omissions, got %+v", manifest.Omitted)
	}
	for _, o := range manifest.Omitted {
		if o.DocumentType != services.DocScrutiny || o.Reason == "" {
			t.Errorf("unexpected omission %+v", o)
		}
	}
}

func TestHandleDocumentPackage_NoBids(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	work := testhelpers.CreateTestWork(t, app, "Bidless Work")

	handler := HandleDocumentPackage(app)
	req := httptest.NewRequest(http.MethodPost, "/api/works/"+work.Id+"/documents", nil)
	req.SetPathValue("id", work.Id)
	rec := httptest.NewRecorder()

	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestHandleDocumentSingle(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	workID := rankedTestWork(t, app)

	handler := HandleDocumentSingle(app)
	req := httptest.NewRequest(http.MethodGet, "/api/works/"+workID+"/documents/comparative/paginated", nil)
	req.SetPathValue("id", workID)
	req.SetPathValue("docType", "comparative")
	req.SetPathValue("format", "paginated")
	rec := httptest.NewRecorder()

	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("expected pdf content type, got %q", ct)
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-")) {
		t.Error("response is not a PDF")
	}
}

func TestHandleDocumentSingle_UnknownType(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	workID := rankedTestWork(t, app)

	handler := HandleDocumentSingle(app)
	req := httptest.NewRequest(http.MethodGet, "/api/works/"+workID+"/documents/invoice/paginated", nil)
	req.SetPathValue("id", workID)
	req.SetPathValue("docType", "invoice")
	req.SetPathValue("format", "paginated")
	rec := httptest.NewRecorder()

	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestHandleDocumentHistory(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	workID := rankedTestWork(t, app)

	// Generate once so there is history to list.
	gen := HandleDocumentPackage(app)
	genReq := httptest.NewRequest(http.MethodPost, "/api/works/"+workID+"/documents", nil)
	genReq.SetPathValue("id", workID)
	if err := gen(newTestRequestEvent(app, genReq, httptest.NewRecorder())); err != nil {
		t.Fatalf("generation failed: %v", err)
	}

	handler := HandleDocumentHistory(app)
	req := httptest.NewRequest(http.MethodGet, "/api/works/"+workID+"/documents", nil)
	req.SetPathValue("id", workID)
	rec := httptest.NewRecorder()

	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		Documents []struct {
			DocType      string `json:"doc_type"`
			Format       string `json:"format"`
			FileName     string `json:"file_name"`
			GenerationID string `json:"generation_id"`
		} `json:"documents"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if len(resp.Documents) != 8 {
		t.Fatalf("expected 8 history entries, got %d", len(resp.Documents))
	}
	for _, d := range resp.Documents {
		if d.DocType == "" || d.Format == "" || d.FileName == "" || d.GenerationID == "" {
			t.Errorf("incomplete history entry %+v", d)
		}
	}
}
