package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/claude/maptrack/internal/config"
	"github.com/claude/maptrack/internal/geo"
	"github.com/claude/maptrack/internal/models"
	"github.com/claude/maptrack/internal/persist"
	"github.com/claude/maptrack/internal/server"
	"github.com/claude/maptrack/internal/store"
	"tailscale.com/tsnet"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	migrateOnly := flag.Bool("migrate-only", false, "run migrations and exit (postgres backend)")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	log.Info("Maptrack starting", "version", Version)

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	// Open blob substrate
	var blob persist.Blob
	switch cfg.Storage.Backend {
	case "postgres":
		dsn := cfg.Storage.DSN()
		if err := persist.RunMigrations(dsn, "migrations"); err != nil {
			log.Error("migration failed", "error", err)
			os.Exit(1)
		}
		log.Info("migrations applied")
		if *migrateOnly {
			log.Info("migrate-only: exiting")
			return
		}
		blob, err = persist.OpenPostgres(ctx, dsn)
		if err != nil {
			log.Error("failed to connect database", "error", err)
			os.Exit(1)
		}
	default:
		if *migrateOnly {
			log.Info("migrate-only: sqlite backend migrates on open, exiting")
			return
		}
		blob, err = persist.OpenSQLite(cfg.Storage.Path)
		if err != nil {
			log.Error("failed to open blob store", "error", err)
			os.Exit(1)
		}
	}
	defer blob.Close()
	log.Info("blob store opened", "backend", cfg.Storage.Backend)

	// Load persisted workouts. A corrupt blob is fatal: the store's state
	// would be unknown, so there is no sane recovery path.
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
	log.Info("workouts loaded", "count", st.Len())

	locator := geo.Static{Coords: models.Coords{cfg.Map.HomeLat, cfg.Map.HomeLng}}
	srv := server.New(st, bridge, locator, cfg.Auth.APIKey, cfg.Map.Zoom, log)

	// Start server — tsnet or plain HTTP
	var listener net.Listener
	var tsServer *tsnet.Server

	if cfg.Tailscale.Enabled {
		tsServer = &tsnet.Server{
			Hostname: cfg.Tailscale.Hostname,
			Dir:      cfg.Tailscale.StateDir,
		}
		if err := tsServer.Start(); err != nil {
			log.Error("tsnet start failed", "error", err)
			os.Exit(1)
		}
		defer tsServer.Close()

		listener, err = tsServer.Listen("tcp", ":80")
		if err != nil {
			log.Error("tsnet listen failed", "error", err)
			os.Exit(1)
		}
		log.Info("tsnet server starting", "hostname", cfg.Tailscale.Hostname)
	} else {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		listener, err = net.Listen("tcp", addr)
		if err != nil {
			log.Error("listen failed", "addr", addr, "error", err)
			os.Exit(1)
		}
		log.Info("server starting", "addr", addr, "mode", "dev (no tailscale)")
	}

	httpSrv := &http.Server{Handler: srv}

	go func() {
		if err := httpSrv.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("shutting down", "signal", sig)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", "error", err)
	}
	log.Info("server stopped")
}
