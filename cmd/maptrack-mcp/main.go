// maptrack-mcp serves the workout store over MCP stdio, sharing the same
// blob substrate as the HTTP server.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"

	"github.com/claude/maptrack/internal/config"
	"github.com/claude/maptrack/internal/mcp"
	"github.com/claude/maptrack/internal/persist"
	"github.com/claude/maptrack/internal/store"
	"github.com/mark3labs/mcp-go/server"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	// stdout carries the MCP protocol; log to stderr
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	var blob persist.Blob
	switch cfg.Storage.Backend {
	case "postgres":
		blob, err = persist.OpenPostgres(ctx, cfg.Storage.DSN())
	default:
		blob, err = persist.OpenSQLite(cfg.Storage.Path)
	}
	if err != nil {
		log.Error("failed to open blob store", "error", err)
		os.Exit(1)
	}
	defer blob.Close()

	bridge := persist.NewBridge(blob)
	records, err := bridge.Load(ctx)
	if err != nil {
		if errors.Is(err, persist.ErrCorrupt) {
			log.Error("persisted workout data is corrupt, refusing to start", "error", err)
		} else {
			log.Error("failed to load workouts", "error", err)
		}
		os.Exit(1)
	}
	st := store.FromRecords(records)

	mcpServer := mcp.New(st, bridge, Version, log)
	log.Info("maptrack MCP server starting", "workouts", st.Len())

	if err := server.ServeStdio(mcpServer); err != nil {
		log.Error("mcp server error", "error", err)
		os.Exit(1)
	}
}
