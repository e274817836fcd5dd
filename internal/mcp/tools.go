package mcp

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/claude/liftcycle/internal/engine"
	"github.com/mark3labs/mcp-go/mcp"
)

// defaultTimeRange returns start/end defaulting to the last 30 days.
func defaultTimeRange(startStr, endStr string) (time.Time, time.Time, error) {
	var start, end time.Time
	var err error

	if endStr != "" {
		end, err = parseFlexTime(endStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	} else {
		end = time.Now()
	}

	if startStr != "" {
		start, err = parseFlexTime(startStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	} else {
		start = end.AddDate(0, 0, -30)
	}

	return start, end, nil
}

func parseFlexTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

// parseReps parses a comma-separated rep list like "12,10,9".
func parseReps(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	reps := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, err
		}
		reps = append(reps, n)
	}
	return reps, nil
}

// --- Tool definitions ---

var toolGetDayLabel = mcp.NewTool("get_day_label",
	mcp.WithDescription("Map a calendar date to its mesocycle training label (e.g. W2D5). Thursdays are rest days and repeat the previous label. Without a stored anchor the fallback is W1D1."),
	mcp.WithString("date", mcp.Description("Date (ISO 8601 or YYYY-MM-DD). Defaults to today.")),
)

var toolDecideAdjustment = mcp.NewTool("decide_adjustment",
	mcp.WithDescription("Compute the load adjustment for a completed exercise: increase/decrease/hold plus a percentage, the readiness load modifier, and whether a test set is allowed."),
	mcp.WithString("reps", mcp.Required(), mcp.Description("Comma-separated rep counts per working set, in order (e.g. '12,10,9')")),
	mcp.WithNumber("target_upper", mcp.Required(), mcp.Description("Top of the programmed rep range")),
	mcp.WithNumber("rep_drop", mcp.Description("First-to-last set rep falloff. Defaults to first minus last rep count.")),
	mcp.WithNumber("readiness", mcp.Description("Readiness star rating 1-5. Omit if not rated.")),
)

var toolPlanWarmup = mcp.NewTool("plan_warmup",
	mcp.WithDescription("Build warm-up ramp sets at 50/70/85% of a planned top load, rounded to the equipment's load increment. Without a top load, returns percentage-only guidance."),
	mcp.WithNumber("top_load", mcp.Description("Planned top working load. Omit for percentage-only guidance.")),
	mcp.WithString("policy", mcp.Description("Rounding policy. Defaults to barbell (nearest 5); dumbbell and machine round to nearest 2.5."), mcp.Enum("barbell", "dumbbell", "machine")),
	mcp.WithBoolean("cranky_joints", mcp.Description("Prepend an extra very-light step for aggravated joints.")),
)

var toolGetSessions = mcp.NewTool("get_sessions",
	mcp.WithDescription("Query logged exercise sessions with their adjustment decisions."),
	mcp.WithString("start", mcp.Description("Start date. Defaults to 30 days ago.")),
	mcp.WithString("end", mcp.Description("End date. Defaults to now.")),
	mcp.WithString("exercise", mcp.Description("Filter by exercise name (partial match, e.g. 'bench press')")),
)

var toolGetAdjustmentStats = mcp.NewTool("get_adjustment_stats",
	mcp.WithDescription("Aggregate decision statistics: increase/decrease/hold counts and rates overall and per exercise, plus average rep drop per exercise."),
)

var toolGetProgression = mcp.NewTool("get_exercise_progression",
	mcp.WithDescription("Session-by-session adjustment history for one exercise, oldest first."),
	mcp.WithString("exercise", mcp.Required(), mcp.Description("Exercise name (partial match)")),
	mcp.WithNumber("limit", mcp.Description("Maximum sessions to return. Defaults to 50.")),
)

// --- Tool handlers ---

func (h *handlers) getDayLabel(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	date := time.Now()
	if s := req.GetString("date", ""); s != "" {
		var err error
		date, err = parseFlexTime(s)
		if err != nil {
			return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
		}
	}

	week, day, label, err := h.labels.DayLabel(ctx, date)
	if err != nil {
		h.log.Error("mcp get_day_label", "error", err)
		return mcp.NewToolResultError("label lookup failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(map[string]any{
		"date":  date.Format("2006-01-02"),
		"week":  week,
		"day":   day,
		"label": label,
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) decideAdjustment(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	repsStr, err := req.RequireString("reps")
	if err != nil {
		return mcp.NewToolResultError("reps parameter is required"), nil
	}
	reps, err := parseReps(repsStr)
	if err != nil || len(reps) == 0 {
		return mcp.NewToolResultError("reps must be comma-separated integers"), nil
	}

	targetUpper := req.GetInt("target_upper", 0)
	if targetUpper < 1 {
		return mcp.NewToolResultError("target_upper must be >= 1"), nil
	}

	repDrop := req.GetInt("rep_drop", reps[0]-reps[len(reps)-1])

	out := map[string]any{
		"decision": engine.DecideAdjustment(reps, targetUpper, repDrop),
	}
	if stars := req.GetInt("readiness", 0); stars != 0 {
		if stars < 1 || stars > 5 {
			return mcp.NewToolResultError("readiness must be in [1,5]"), nil
		}
		out["load_modifier"] = engine.LoadModifier(stars)
		out["allow_test_set"] = engine.AllowTestSet(stars)
	}

	result, err := mcp.NewToolResultJSON(out)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) planWarmup(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	policy := engine.RoundBarbell
	if s := req.GetString("policy", ""); s != "" {
		var err error
		policy, err = engine.ParseRoundingPolicy(s)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}

	var top *float64
	if v := req.GetFloat("top_load", 0); v > 0 {
		top = &v
	}

	steps := engine.PlanRamp(top, policy, req.GetBool("cranky_joints", false))
	result, err := mcp.NewToolResultJSON(map[string]any{"steps": steps})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getSessions(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start, end, err := defaultTimeRange(req.GetString("start", ""), req.GetString("end", ""))
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}

	uid := UserIDFromContext(ctx)
	logs, err := h.ds.QuerySessionLogs(ctx, start, end, uid, req.GetString("exercise", ""))
	if err != nil {
		h.log.Error("mcp get_sessions", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(logs)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getAdjustmentStats(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uid := UserIDFromContext(ctx)
	stats, err := h.ds.GetAdjustmentStats(ctx, uid)
	if err != nil {
		h.log.Error("mcp get_adjustment_stats", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(stats)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getProgression(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	exercise, err := req.RequireString("exercise")
	if err != nil {
		return mcp.NewToolResultError("exercise parameter is required"), nil
	}

	uid := UserIDFromContext(ctx)
	points, err := h.ds.GetExerciseProgression(ctx, exercise, uid, req.GetInt("limit", 50))
	if err != nil {
		h.log.Error("mcp get_exercise_progression", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(points)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
