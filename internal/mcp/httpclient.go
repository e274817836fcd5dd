package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/claude/liftcycle/internal/storage"
)

// HTTPClient implements DataSource and LabelSource by calling the
// LiftCycle REST API. Used for remote MCP mode where the binary runs
// locally (stdio) but the anchor and history live on the server
// (accessed over Tailscale).
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// Compile-time checks: HTTPClient satisfies both source interfaces.
var (
	_ DataSource  = (*HTTPClient)(nil)
	_ LabelSource = (*HTTPClient)(nil)
)

// NewHTTPClient creates an HTTPClient targeting the given base URL.
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPClient) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("httpclient: create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("httpclient: read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("httpclient: %s returned %d: %s", path, resp.StatusCode, body)
	}

	return body, nil
}

func timeParams(start, end time.Time) url.Values {
	v := url.Values{}
	v.Set("start", start.Format(time.RFC3339))
	v.Set("end", end.Format(time.RFC3339))
	return v
}

func (c *HTTPClient) QuerySessionLogs(ctx context.Context, start, end time.Time, _ int, exerciseFilter string) ([]storage.SessionLog, error) {
	params := timeParams(start, end)
	if exerciseFilter != "" {
		params.Set("exercise", exerciseFilter)
	}

	body, err := c.get(ctx, "/api/v1/sessions", params)
	if err != nil {
		return nil, err
	}

	var logs []storage.SessionLog
	if err := json.Unmarshal(body, &logs); err != nil {
		return nil, fmt.Errorf("httpclient: decode sessions: %w", err)
	}
	return logs, nil
}

func (c *HTTPClient) GetAdjustmentStats(ctx context.Context, _ int) (*storage.AdjustmentStats, error) {
	body, err := c.get(ctx, "/api/v1/stats", nil)
	if err != nil {
		return nil, err
	}

	var stats storage.AdjustmentStats
	if err := json.Unmarshal(body, &stats); err != nil {
		return nil, fmt.Errorf("httpclient: decode stats: %w", err)
	}
	return &stats, nil
}

func (c *HTTPClient) GetExerciseProgression(ctx context.Context, exercise string, _ int, limit int) ([]storage.ProgressionPoint, error) {
	params := url.Values{}
	params.Set("exercise", exercise)
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}

	body, err := c.get(ctx, "/api/v1/progression", params)
	if err != nil {
		return nil, err
	}

	var points []storage.ProgressionPoint
	if err := json.Unmarshal(body, &points); err != nil {
		return nil, fmt.Errorf("httpclient: decode progression: %w", err)
	}
	return points, nil
}

func (c *HTTPClient) DayLabel(ctx context.Context, date time.Time) (int, int, string, error) {
	params := url.Values{}
	params.Set("date", date.Format("2006-01-02"))

	body, err := c.get(ctx, "/api/v1/label", params)
	if err != nil {
		return 0, 0, "", err
	}

	var resp struct {
		Week  int    `json:"week"`
		Day   int    `json:"day"`
		Label string `json:"label"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return 0, 0, "", fmt.Errorf("httpclient: decode label: %w", err)
	}
	return resp.Week, resp.Day, resp.Label, nil
}

func (c *HTTPClient) AnchorStatus(ctx context.Context) (AnchorStatus, error) {
	body, err := c.get(ctx, "/api/v1/anchor", nil)
	if err != nil {
		return AnchorStatus{}, err
	}

	var status AnchorStatus
	if err := json.Unmarshal(body, &status); err != nil {
		return AnchorStatus{}, fmt.Errorf("httpclient: decode anchor: %w", err)
	}
	return status, nil
}
