package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/claude/liftcycle/internal/engine"
	"github.com/claude/liftcycle/internal/storage"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// defaultUserID covers the single-lifter deployment; multi-user
// identity would arrive through middleware the way the API key does.
const defaultUserID = 1

type anchorRequest struct {
	Week int    `json:"week"`
	Day  int    `json:"day"`
	Date string `json:"date"` // optional; defaults to today
}

func (s *Server) handleSetAnchor(w http.ResponseWriter, r *http.Request) {
	s.anchorHandler(w, r, s.tracker.SetAnchor)
}

func (s *Server) handleEnsureAnchor(w http.ResponseWriter, r *http.Request) {
	s.anchorHandler(w, r, s.tracker.EnsureAnchor)
}

func (s *Server) anchorHandler(w http.ResponseWriter, r *http.Request, set func(int, int, time.Time) error) {
	var req anchorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	date, err := dateOrNow(req.Date)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid date: " + err.Error()})
		return
	}

	if err := set(req.Week, req.Day, date); err != nil {
		s.log.Error("anchor update failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	s.writeAnchor(w, r)
}

func (s *Server) handleGetAnchor(w http.ResponseWriter, r *http.Request) {
	s.writeAnchor(w, r)
}

func (s *Server) writeAnchor(w http.ResponseWriter, r *http.Request) {
	a, ok, err := s.tracker.Anchor()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if !ok {
		writeJSON(w, http.StatusOK, map[string]any{"anchored": false})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"anchored":   true,
		"date":       a.Date.Format("2006-01-02"),
		"day_number": a.DayNumber,
	})
}

func (s *Server) handleLabel(w http.ResponseWriter, r *http.Request) {
	date, err := dateOrNow(r.URL.Query().Get("date"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid date: " + err.Error()})
		return
	}

	week, day, err := s.tracker.WeekDay(date)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"date":  date.Format("2006-01-02"),
		"week":  week,
		"day":   day,
		"label": engine.FormatLabel(week, day),
	})
}

type adjustmentRequest struct {
	Exercise    string `json:"exercise"`
	Reps        []int  `json:"reps"`
	TargetUpper int    `json:"target_upper"`
	RepDrop     *int   `json:"rep_drop"`   // optional; defaults to first minus last set
	Readiness   *int   `json:"readiness"`  // optional star rating [1,5]
	Date        string `json:"date"`       // optional; defaults to today
	DryRun      bool   `json:"dry_run"`    // compute without persisting
}

type adjustmentResponse struct {
	Decision     engine.Decision `json:"decision"`
	LoadModifier float64         `json:"load_modifier"`
	AllowTestSet bool            `json:"allow_test_set"`
	DayLabel     string          `json:"day_label"`
	Logged       bool            `json:"logged"`
	ID           *uuid.UUID      `json:"id,omitempty"`
}

func (s *Server) handleAdjustment(w http.ResponseWriter, r *http.Request) {
	var req adjustmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if len(req.Reps) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "reps is required"})
		return
	}
	if req.TargetUpper < 1 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "target_upper must be >= 1"})
		return
	}
	if req.Readiness != nil && (*req.Readiness < 1 || *req.Readiness > 5) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "readiness must be in [1,5]"})
		return
	}
	date, err := dateOrNow(req.Date)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid date: " + err.Error()})
		return
	}

	repDrop := req.Reps[0] - req.Reps[len(req.Reps)-1]
	if req.RepDrop != nil {
		repDrop = *req.RepDrop
	}

	decision := engine.DecideAdjustment(req.Reps, req.TargetUpper, repDrop)

	// Readiness modifier is reported alongside the decision, never
	// folded into it: how the two compose is the caller's policy.
	var modifier float64
	allowTest := false
	if req.Readiness != nil {
		modifier = engine.LoadModifier(*req.Readiness)
		allowTest = engine.AllowTestSet(*req.Readiness)
	}

	label, err := s.tracker.Label(date)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	resp := adjustmentResponse{
		Decision:     decision,
		LoadModifier: modifier,
		AllowTestSet: allowTest,
		DayLabel:     label,
	}

	if !req.DryRun {
		row := storage.SessionLog{
			ID:           uuid.New(),
			UserID:       defaultUserID,
			Exercise:     req.Exercise,
			PerformedAt:  date,
			DayLabel:     label,
			Reps:         toInt32(req.Reps),
			TargetUpper:  req.TargetUpper,
			RepDrop:      repDrop,
			Readiness:    req.Readiness,
			Action:       decision.Action.String(),
			Percent:      decision.Percent,
			LoadModifier: modifier,
		}
		inserted, err := s.db.InsertSessionLog(r.Context(), row)
		if err != nil {
			s.log.Error("session log insert failed", "exercise", req.Exercise, "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		resp.Logged = inserted
		resp.ID = &row.ID
	}

	writeJSON(w, http.StatusOK, resp)
}

type warmupRequest struct {
	TopLoad      *float64 `json:"top_load"`
	Policy       string   `json:"policy"` // barbell (default), dumbbell, machine
	CrankyJoints bool     `json:"cranky_joints"`
}

func (s *Server) handleWarmup(w http.ResponseWriter, r *http.Request) {
	var req warmupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	policy := engine.RoundBarbell
	if req.Policy != "" {
		var err error
		policy, err = engine.ParseRoundingPolicy(req.Policy)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
	}

	steps := engine.PlanRamp(req.TopLoad, policy, req.CrankyJoints)
	writeJSON(w, http.StatusOK, map[string]any{"steps": steps})
}

func (s *Server) handleQuerySessions(w http.ResponseWriter, r *http.Request) {
	start, end, err := parseTimeRange(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	logs, err := s.db.QuerySessionLogs(r.Context(), start, end, defaultUserID, r.URL.Query().Get("exercise"))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, logs)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid session ID"})
		return
	}

	log, err := s.db.GetSessionLog(r.Context(), id, defaultUserID)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "session not found"})
		return
	}
	writeJSON(w, http.StatusOK, log)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.db.GetAdjustmentStats(r.Context(), defaultUserID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleProgression(w http.ResponseWriter, r *http.Request) {
	exercise := r.URL.Query().Get("exercise")
	if exercise == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "exercise parameter required"})
		return
	}
	limit := 50
	if l := r.URL.Query().Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	points, err := s.db.GetExerciseProgression(r.Context(), exercise, defaultUserID, limit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, points)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func toInt32(reps []int) []int32 {
	out := make([]int32, len(reps))
	for i, r := range reps {
		out[i] = int32(r)
	}
	return out
}

// dateOrNow parses an RFC 3339 or YYYY-MM-DD date, defaulting to the
// current time when empty. The engine itself never samples the clock;
// the default happens here, at the host boundary.
func dateOrNow(s string) (time.Time, error) {
	if s == "" {
		return time.Now(), nil
	}
	return parseFlexTime(s)
}

func parseFlexTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

func parseTimeRange(r *http.Request) (start, end time.Time, err error) {
	startStr := r.URL.Query().Get("start")
	endStr := r.URL.Query().Get("end")

	if startStr == "" {
		// Default: last 30 days, roughly one mesocycle.
		end = time.Now()
		start = end.AddDate(0, 0, -30)
		return
	}

	start, err = parseFlexTime(startStr)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	if endStr == "" {
		end = time.Now()
	} else {
		end, err = parseFlexTime(endStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		if len(endStr) == len("2006-01-02") {
			// End of day for date-only
			end = end.Add(24 * time.Hour)
		}
	}
	return
}
