package server

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/claude/liftcycle/internal/engine"
)

// fakeStore is an in-memory engine.AnchorStore for handler tests.
type fakeStore struct {
	anchor engine.Anchor
	ok     bool
}

func (f *fakeStore) Load() (engine.Anchor, bool, error) { return f.anchor, f.ok, nil }

func (f *fakeStore) Save(a engine.Anchor) error {
	f.anchor = a
	f.ok = true
	return nil
}

func newTestServer() *Server {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(nil, engine.NewTracker(&fakeStore{}), "test-key", log)
}

func doJSON(t *testing.T, s *Server, method, path, body string, auth bool) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if auth {
		req.Header.Set("X-API-Key", "test-key")
	}
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

// TestLabelFallback verifies an unanchored tracker serves the
// documented W1D1 fallback instead of an error.
func TestLabelFallback(t *testing.T) {
	s := newTestServer()
	rec := doJSON(t, s, http.MethodGet, "/api/v1/label?date=2026-03-14", "", false)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp struct {
		Week  int    `json:"week"`
		Day   int    `json:"day"`
		Label string `json:"label"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Label != "W1D1" || resp.Week != 1 || resp.Day != 1 {
		t.Errorf("resp = %+v, want W1D1", resp)
	}
}

// TestSetAnchorThenLabel verifies the anchor round trip through the
// API: POST the anchor, then read the label for the anchor date.
func TestSetAnchorThenLabel(t *testing.T) {
	s := newTestServer()
	rec := doJSON(t, s, http.MethodPost, "/api/v1/anchor",
		`{"week":2,"day":2,"date":"2026-01-05"}`, true)
	if rec.Code != http.StatusOK {
		t.Fatalf("anchor status = %d, body %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, s, http.MethodGet, "/api/v1/label?date=2026-01-05", "", false)
	var resp struct {
		Label string `json:"label"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Label != "W2D2" {
		t.Errorf("label = %q, want W2D2", resp.Label)
	}
}

// TestEnsureAnchorKeepsExisting verifies the ensure endpoint never
// overwrites an anchor that is already set.
func TestEnsureAnchorKeepsExisting(t *testing.T) {
	s := newTestServer()
	doJSON(t, s, http.MethodPost, "/api/v1/anchor",
		`{"week":1,"day":1,"date":"2026-01-05"}`, true)
	doJSON(t, s, http.MethodPost, "/api/v1/anchor/ensure",
		`{"week":3,"day":3,"date":"2026-01-20"}`, true)

	rec := doJSON(t, s, http.MethodGet, "/api/v1/label?date=2026-01-05", "", false)
	var resp struct {
		Label string `json:"label"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Label != "W1D1" {
		t.Errorf("label = %q, want original W1D1", resp.Label)
	}
}

// TestAnchorRequiresAPIKey verifies mutating routes sit behind the
// API key middleware.
func TestAnchorRequiresAPIKey(t *testing.T) {
	s := newTestServer()
	rec := doJSON(t, s, http.MethodPost, "/api/v1/anchor",
		`{"week":1,"day":1,"date":"2026-01-05"}`, false)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

// TestGetAnchorUnanchored verifies the anchor read endpoint reports
// anchored=false on a fresh store.
func TestGetAnchorUnanchored(t *testing.T) {
	s := newTestServer()
	rec := doJSON(t, s, http.MethodGet, "/api/v1/anchor", "", false)
	var resp struct {
		Anchored bool `json:"anchored"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Anchored {
		t.Error("anchored = true on a fresh store")
	}
}

// TestAdjustmentDryRun verifies the adjustment endpoint computes the
// decision, readiness modifier, and test-set gate without touching
// storage when dry_run is set.
func TestAdjustmentDryRun(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantAction string
		wantPct    float64
		wantMod    float64
		wantTest   bool
	}{
		{
			name:       "all sets at top increases",
			body:       `{"reps":[12,12,12],"target_upper":12,"rep_drop":0,"dry_run":true}`,
			wantAction: "increase", wantPct: 0.05,
		},
		{
			name:       "major drop decreases",
			body:       `{"reps":[8,6,5],"target_upper":12,"rep_drop":2,"dry_run":true}`,
			wantAction: "decrease", wantPct: 0.05,
		},
		{
			name:       "intermediate holds",
			body:       `{"reps":[10,10,9],"target_upper":12,"rep_drop":1,"dry_run":true}`,
			wantAction: "hold",
		},
		{
			name:       "low readiness suppresses load",
			body:       `{"reps":[10,10,9],"target_upper":12,"readiness":1,"dry_run":true}`,
			wantAction: "hold", wantMod: -0.10,
		},
		{
			name:       "peak readiness allows test set",
			body:       `{"reps":[12,12,12],"target_upper":12,"readiness":5,"dry_run":true}`,
			wantAction: "increase", wantPct: 0.05, wantTest: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer()
			rec := doJSON(t, s, http.MethodPost, "/api/v1/adjustment", tt.body, true)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
			}
			var resp adjustmentResponse
			if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
				t.Fatal(err)
			}
			if resp.Decision.Action.String() != tt.wantAction {
				t.Errorf("action = %q, want %q", resp.Decision.Action, tt.wantAction)
			}
			if resp.Decision.Percent != tt.wantPct {
				t.Errorf("percent = %v, want %v", resp.Decision.Percent, tt.wantPct)
			}
			if resp.LoadModifier != tt.wantMod {
				t.Errorf("load_modifier = %v, want %v", resp.LoadModifier, tt.wantMod)
			}
			if resp.AllowTestSet != tt.wantTest {
				t.Errorf("allow_test_set = %v, want %v", resp.AllowTestSet, tt.wantTest)
			}
			if resp.Logged || resp.ID != nil {
				t.Error("dry run must not log a session")
			}
		})
	}
}

// TestAdjustmentDefaultsRepDrop verifies rep_drop defaults to first
// minus last set when omitted.
func TestAdjustmentDefaultsRepDrop(t *testing.T) {
	s := newTestServer()
	// [10,8,7]: implied drop 3, mean 8.33 under target 12 → decrease.
	rec := doJSON(t, s, http.MethodPost, "/api/v1/adjustment",
		`{"reps":[10,8,7],"target_upper":12,"dry_run":true}`, true)
	var resp adjustmentResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Decision.Action != engine.ActionDecrease {
		t.Errorf("action = %v, want decrease from implied rep drop", resp.Decision.Action)
	}
}

// TestAdjustmentValidation verifies malformed adjustment requests get
// 400s rather than reaching the engine.
func TestAdjustmentValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty reps", `{"reps":[],"target_upper":12,"dry_run":true}`},
		{"missing target", `{"reps":[10,10],"dry_run":true}`},
		{"readiness too high", `{"reps":[10,10],"target_upper":12,"readiness":6,"dry_run":true}`},
		{"readiness too low", `{"reps":[10,10],"target_upper":12,"readiness":0,"dry_run":true}`},
		{"bad date", `{"reps":[10,10],"target_upper":12,"date":"yesterday","dry_run":true}`},
		{"not json", `reps=10`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer()
			rec := doJSON(t, s, http.MethodPost, "/api/v1/adjustment", tt.body, true)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}

// TestWarmupEndpoint verifies ramp planning over HTTP, both with and
// without a known top load.
func TestWarmupEndpoint(t *testing.T) {
	s := newTestServer()
	rec := doJSON(t, s, http.MethodPost, "/api/v1/warmup",
		`{"top_load":100,"policy":"barbell","cranky_joints":true}`, false)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp struct {
		Steps []engine.RampStep `json:"steps"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Steps) != 4 {
		t.Fatalf("got %d steps, want 4", len(resp.Steps))
	}
	if resp.Steps[0].Load != "40" || resp.Steps[3].Load != "85" {
		t.Errorf("steps = %+v", resp.Steps)
	}

	rec = doJSON(t, s, http.MethodPost, "/api/v1/warmup", `{}`, false)
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Steps) != 3 || resp.Steps[0].Load != "50%" {
		t.Errorf("percentage steps = %+v", resp.Steps)
	}
}

// TestWarmupUnknownPolicy verifies unknown rounding policies are
// rejected.
func TestWarmupUnknownPolicy(t *testing.T) {
	s := newTestServer()
	rec := doJSON(t, s, http.MethodPost, "/api/v1/warmup",
		`{"top_load":100,"policy":"kettlebell"}`, false)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
