package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pocketbase/pocketbase"

	"tendergen/testhelpers"
)

type biddersResponse struct {
	Bidders []struct {
		Name           string  `json:"name"`
		QuotedAmount   float64 `json:"quoted_amount"`
		Rank           int     `json:"rank"`
		RankPercentile float64 `json:"rank_percentile"`
		IsL1           bool    `json:"is_l1"`
	} `json:"bidders"`
}

func postBid(t *testing.T, app *pocketbase.PocketBase, workID, body string) *httptest.ResponseRecorder {
	t.Helper()
	handler := HandleBidAdd(app)
	req := httptest.NewRequest(http.MethodPost, "/api/works/"+workID+"/bids", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.SetPathValue("id", workID)
	rec := httptest.NewRecorder()
	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("bid handler returned error: %v", err)
	}
	return rec
}

func TestHandleBidAdd_ReRanksWholeSet(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	work := testhelpers.CreateTestWork(t, app, "Re-rank Work")

	rec := postBid(t, app, work.Id, `{"name": "M/s High Quote", "quoted_percentage": 3}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp biddersResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	// A lone bidder is never L1.
	if len(resp.Bidders) != 1 || resp.Bidders[0].IsL1 {
		t.Fatalf("unexpected bidders after first add: %+v", resp.Bidders)
	}
	if resp.Bidders[0].RankPercentile != 100 {
		t.Errorf("lone bidder percentile should be 100, got %v", resp.Bidders[0].RankPercentile)
	}

	rec = postBid(t, app, work.Id, `{"name": "M/s Low Quote", "quoted_percentage": -4}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if len(resp.Bidders) != 2 {
		t.Fatalf("expected 2 bidders, got %d", len(resp.Bidders))
	}
	if resp.Bidders[0].Name != "M/s Low Quote" || !resp.Bidders[0].IsL1 {
		t.Errorf("expected the new low quote to become L1, got %+v", resp.Bidders[0])
	}
	if resp.Bidders[1].Name != "M/s High Quote" || resp.Bidders[1].IsL1 {
		t.Errorf("expected the earlier bid to drop to rank 2, got %+v", resp.Bidders[1])
	}
	if resp.Bidders[0].QuotedAmount != 960000 {
		t.Errorf("expected quoted amount 960000, got %v", resp.Bidders[0].QuotedAmount)
	}
}

func TestHandleBidAdd_FirstBidPersistsWithSerial(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	work := testhelpers.CreateTestWork(t, app, "Serial Work")

	// The first insert must already carry a non-zero serial; the bids
	// collection requires one and PocketBase rejects 0 as blank.
	rec := postBid(t, app, work.Id, `{"name": "M/s First In", "quoted_percentage": -1}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	bids, err := app.FindAllRecords("bids")
	if err != nil || len(bids) != 1 {
		t.Fatalf("expected 1 persisted bid, got %d (err %v)", len(bids), err)
	}
	if bids[0].GetInt("sno") == 0 {
		t.Error("persisted bid must carry a non-zero serial")
	}
}

func TestHandleBidAdd_AcceptsSheetWording(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	work := testhelpers.CreateTestWork(t, app, "Sheet Wording Work")

	rec := postBid(t, app, work.Id, `{"name": "M/s Below Quote", "percentage_text": "2.00 BELOW"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp biddersResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Bidders[0].QuotedAmount != 980000 {
		t.Errorf("expected quoted amount 980000, got %v", resp.Bidders[0].QuotedAmount)
	}
}

func TestHandleBidAdd_RejectsOutOfRange(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	work := testhelpers.CreateTestWork(t, app, "Range Work")

	rec := postBid(t, app, work.Id, `{"name": "M/s Wild Quote", "quoted_percentage": -150}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}

	bids, _ := app.FindAllRecords("bids")
	if len(bids) != 0 {
		t.Errorf("rejected bid must not be persisted, found %d records", len(bids))
	}
}

func TestHandleBidDelete_ReRanksRemainder(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	work := testhelpers.CreateTestWork(t, app, "Delete Bid Work")
	postBid(t, app, work.Id, `{"name": "M/s Keeper", "quoted_percentage": -1}`)
	rec := postBid(t, app, work.Id, `{"name": "M/s Leaver", "quoted_percentage": -2}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("setup failed: %d", rec.Code)
	}

	// Find the L1 bid to delete.
	bids, err := app.FindRecordsByFilter("bids", "work = {:workId} && rank = 1", "", 1, 0,
		map[string]any{"workId": work.Id})
	if err != nil || len(bids) != 1 {
		t.Fatalf("could not locate L1 bid: %v", err)
	}

	handler := HandleBidDelete(app)
	req := httptest.NewRequest(http.MethodDelete, "/api/works/"+work.Id+"/bids/"+bids[0].Id, nil)
	req.SetPathValue("id", work.Id)
	req.SetPathValue("bidId", bids[0].Id)
	recorder := httptest.NewRecorder()
	if err := handler(newTestRequestEvent(app, req, recorder)); err != nil {
		t.Fatalf("delete handler returned error: %v", err)
	}
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", recorder.Code, recorder.Body.String())
	}

	var resp biddersResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if len(resp.Bidders) != 1 {
		t.Fatalf("expected 1 remaining bidder, got %d", len(resp.Bidders))
	}
	remaining := resp.Bidders[0]
	if remaining.Name != "M/s Keeper" || remaining.Rank != 1 {
		t.Errorf("remaining bid should hold rank 1, got %+v", remaining)
	}
	if remaining.IsL1 {
		t.Error("a lone remaining bidder must not stay flagged L1")
	}
}

func TestHandleBidDelete_WrongWork(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	work1 := testhelpers.CreateTestWork(t, app, "Work One")
	work2 := testhelpers.CreateTestWork(t, app, "Work Two")
	bid := testhelpers.CreateTestBid(t, app, work1.Id, "M/s Misdirected", 0)

	handler := HandleBidDelete(app)
	req := httptest.NewRequest(http.MethodDelete, "/api/works/"+work2.Id+"/bids/"+bid.Id, nil)
	req.SetPathValue("id", work2.Id)
	req.SetPathValue("bidId", bid.Id)
	rec := httptest.NewRecorder()
	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}
