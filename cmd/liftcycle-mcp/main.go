// Liftcycle-mcp bridges an MCP client (stdio) to a remote LiftCycle
// server: the binary runs next to the assistant while the anchor and
// session history live on the server, reached over its REST API
// (typically across Tailscale).
package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/claude/liftcycle/internal/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	serverURL := flag.String("server", "", "base URL of the LiftCycle server (required)")
	flag.Parse()

	// stdout carries the MCP protocol; logs go to stderr.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *serverURL == "" {
		log.Error("missing required -server flag")
		os.Exit(1)
	}

	client := mcp.NewHTTPClient(*serverURL)
	srv := mcp.New(client, client, Version, log)

	log.Info("liftcycle-mcp starting", "server", *serverURL, "version", Version)
	if err := server.ServeStdio(srv); err != nil {
		log.Error("mcp server error", "error", err)
		os.Exit(1)
	}
}
