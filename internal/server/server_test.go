package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"momentum-trading-bot/internal/journal"
	"momentum-trading-bot/internal/types"
)

// stubEngine records calls and returns a canned decision.
type stubEngine struct {
	decision    *types.Decision
	lastSnap    *types.Snapshot
	resetCalled float64
}

func (s *stubEngine) Decide(_ context.Context, snap *types.Snapshot) *types.Decision {
	s.lastSnap = snap
	if s.decision != nil {
		return s.decision
	}
	return &types.Decision{Action: types.ActionHold, Reason: "stub"}
}

func (s *stubEngine) Reset(initialBalance float64) { s.resetCalled = initialBalance }

func (s *stubEngine) State() types.SessionSummary {
	return types.SessionSummary{Day: "2026-01-05", TradesToday: 3}
}

func newTestServer(eng *stubEngine, jrn *journal.Journal) *Server {
	return New(eng, jrn, "secret", 0)
}

func do(s *Server, method, path, key, body string) *httptest.ResponseRecorder {
	var rdr *strings.Reader
	if body == "" {
		rdr = strings.NewReader("")
	} else {
		rdr = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rdr)
	if key != "" {
		req.Header.Set("X-API-Key", key)
	}
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func TestAuthRequired(t *testing.T) {
	s := newTestServer(&stubEngine{}, nil)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/health"},
		{http.MethodPost, "/tick"},
		{http.MethodPost, "/reset"},
	} {
		if w := do(s, tc.method, tc.path, "", ""); w.Code != http.StatusUnauthorized {
			t.Errorf("%s %s without key: expected 401, got %d", tc.method, tc.path, w.Code)
		}
		if w := do(s, tc.method, tc.path, "wrong", ""); w.Code != http.StatusUnauthorized {
			t.Errorf("%s %s with bad key: expected 401, got %d", tc.method, tc.path, w.Code)
		}
	}
}

func TestMetricsUnauthenticated(t *testing.T) {
	s := newTestServer(&stubEngine{}, nil)
	if w := do(s, http.MethodGet, "/metrics", "", ""); w.Code != http.StatusOK {
		t.Errorf("Expected /metrics without a key to return 200, got %d", w.Code)
	}
}

func TestHealth(t *testing.T) {
	s := newTestServer(&stubEngine{}, nil)
	w := do(s, http.MethodGet, "/health", "secret", "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	var body struct {
		Status  string               `json:"status"`
		Session types.SessionSummary `json:"session"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to decode: %v", err)
	}
	if body.Status != "ok" || body.Session.TradesToday != 3 {
		t.Errorf("Unexpected health body: %+v", body)
	}
}

func TestTickReturnsDecision(t *testing.T) {
	eng := &stubEngine{decision: &types.Decision{
		Action: types.ActionOpenLong, Ticker: "AAA", Leverage: 4, SizePct: 40, Reason: "Momentum entry LONG",
	}}
	s := newTestServer(eng, nil)

	payload := `{"day":"2026-01-05","minute_of_day":100,"minutes_remaining":200,"account":{"balance":1000}}`
	w := do(s, http.MethodPost, "/tick", "secret", payload)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var dec types.Decision
	if err := json.Unmarshal(w.Body.Bytes(), &dec); err != nil {
		t.Fatalf("Failed to decode: %v", err)
	}
	if dec.Action != types.ActionOpenLong || dec.Ticker != "AAA" || dec.Leverage != 4 {
		t.Errorf("Unexpected decision: %+v", dec)
	}
	if eng.lastSnap == nil || eng.lastSnap.MinuteOfDay != 100 || eng.lastSnap.Account.Balance != 1000 {
		t.Errorf("Snapshot did not reach the engine: %+v", eng.lastSnap)
	}
}

func TestTickRejectsMalformedBody(t *testing.T) {
	s := newTestServer(&stubEngine{}, nil)
	if w := do(s, http.MethodPost, "/tick", "secret", `{"minute_of_day": "ten"}`); w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for an unparseable snapshot, got %d", w.Code)
	}
}

func TestTickJournalsDecision(t *testing.T) {
	jrn, err := journal.Open(filepath.Join(t.TempDir(), "decisions.db"))
	if err != nil {
		t.Fatalf("Failed to open journal: %v", err)
	}
	defer jrn.Close()

	s := newTestServer(&stubEngine{}, jrn)
	payload := `{"day":"2026-01-05","minute_of_day":100,"account":{"balance":1000}}`
	if w := do(s, http.MethodPost, "/tick", "secret", payload); w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	recs, err := jrn.LastN(context.Background(), 1)
	if err != nil || len(recs) != 1 {
		t.Fatalf("Expected 1 journaled record, got %d (%v)", len(recs), err)
	}
	if recs[0].Day != "2026-01-05" || recs[0].Minute != 100 || recs[0].Action != types.ActionHold {
		t.Errorf("Unexpected record: %+v", recs[0])
	}
}

func TestResetDefaultsBalance(t *testing.T) {
	eng := &stubEngine{}
	s := newTestServer(eng, nil)

	if w := do(s, http.MethodPost, "/reset", "secret", `{}`); w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	if eng.resetCalled != 1000 {
		t.Errorf("Expected the default balance 1000, got %f", eng.resetCalled)
	}

	if w := do(s, http.MethodPost, "/reset", "secret", `{"initial_balance": 2500}`); w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	if eng.resetCalled != 2500 {
		t.Errorf("Expected the requested balance 2500, got %f", eng.resetCalled)
	}
}

func TestLifecycleEndpoints(t *testing.T) {
	s := newTestServer(&stubEngine{}, nil)

	w := do(s, http.MethodPost, "/start", "secret", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "ready") {
		t.Errorf("Unexpected /start response: %d %s", w.Code, w.Body.String())
	}

	w = do(s, http.MethodPost, "/end", "secret", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "done") {
		t.Errorf("Unexpected /end response: %d %s", w.Code, w.Body.String())
	}

	if w := do(s, http.MethodGet, "/nothing-here", "secret", ""); w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown route, got %d", w.Code)
	}
}
