package mcp

import (
	"context"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

type contextKey int

const userIDKey contextKey = iota

// UserIDFromContext extracts the user ID injected by the transport layer.
func UserIDFromContext(ctx context.Context) int {
	if id, ok := ctx.Value(userIDKey).(int); ok {
		return id
	}
	return 1
}

// WithUserID returns a context with the given user ID.
func WithUserID(ctx context.Context, userID int) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// New creates an MCP server with all tools and resources registered.
func New(ds DataSource, labels LabelSource, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("LiftCycle", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("LiftCycle training adaptation server. Map dates to mesocycle week/day labels, compute load adjustment decisions from set performance and readiness, plan warm-up ramps, and query adjustment history."),
	)

	h := &handlers{ds: ds, labels: labels, log: log}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolGetDayLabel, Handler: h.getDayLabel},
		server.ServerTool{Tool: toolDecideAdjustment, Handler: h.decideAdjustment},
		server.ServerTool{Tool: toolPlanWarmup, Handler: h.planWarmup},
		server.ServerTool{Tool: toolGetSessions, Handler: h.getSessions},
		server.ServerTool{Tool: toolGetAdjustmentStats, Handler: h.getAdjustmentStats},
		server.ServerTool{Tool: toolGetProgression, Handler: h.getProgression},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resAnchor, Handler: h.anchorResource},
		server.ServerResource{Resource: resRecentSessions, Handler: h.recentSessions},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds     DataSource
	labels LabelSource
	log    *slog.Logger
}

// --- Resource definitions ---

var resAnchor = mcp.NewResource(
	"liftcycle://anchor",
	"Training Anchor",
	mcp.WithResourceDescription("The stored mesocycle anchor (date and training day number) plus today's week/day label"),
	mcp.WithMIMEType("application/json"),
)

var resRecentSessions = mcp.NewResource(
	"liftcycle://recent_sessions",
	"Recent Sessions",
	mcp.WithResourceDescription("Session logs with adjustment decisions from the last 14 days"),
	mcp.WithMIMEType("application/json"),
)
