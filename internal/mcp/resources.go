package mcp

import (
	"context"
	"encoding/json"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
)

func (h *handlers) anchorResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	status, err := h.labels.AnchorStatus(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	week, day, label, err := h.labels.DayLabel(ctx, now)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(map[string]any{
		"anchor": status,
		"today": map[string]any{
			"date":  now.Format("2006-01-02"),
			"week":  week,
			"day":   day,
			"label": label,
		},
	})
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func (h *handlers) recentSessions(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uid := UserIDFromContext(ctx)
	end := time.Now()
	start := end.AddDate(0, 0, -14)

	logs, err := h.ds.QuerySessionLogs(ctx, start, end, uid, "")
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(logs)
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
