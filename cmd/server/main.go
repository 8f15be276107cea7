/*
main.go - Server entrypoint

PURPOSE:
  Wires the pieces together and runs the HTTP server:
  config -> logging -> sqlite store -> drag coordinator -> router ->
  maintenance scheduler -> graceful shutdown.

FLAGS:
  -config  Path to the YAML config file (default config.yaml)
  -port    Override the configured HTTP port
  -db      Override the configured SQLite path

SHUTDOWN:
  SIGINT/SIGTERM drains in-flight requests for up to 10 seconds, stops the
  maintenance scheduler, then closes the database.
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/warp/timeline-engine/api"
	"github.com/warp/timeline-engine/config"
	"github.com/warp/timeline-engine/drag"
	"github.com/warp/timeline-engine/store/sqlite"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	port := flag.Int("port", 0, "override HTTP port")
	dbPath := flag.String("db", "", "override SQLite database path")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *dbPath != "" {
		cfg.Database.Path = *dbPath
	}

	log := newLogger(cfg.Logging)

	store, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.Database.Path).Msg("failed to open store")
	}
	defer store.Close()

	overrides := drag.NewOverrideStore()
	coordinator := drag.New(store, overrides, log, drag.Config{
		DayWidthPx:   float64(cfg.Drag.DayWidthPx),
		FramesPerSec: float64(cfg.Drag.FramesPerSec),
		PersistEvery: cfg.Drag.PersistEvery.Std(),
	})

	handler := api.NewHandler(store, coordinator, log)
	router := api.NewRouter(handler)

	maintenance := api.NewMaintenanceScheduler(store, store, overrides,
		cfg.Maintenance.OverrideRetainDays, log)
	if err := maintenance.Start(cfg.Maintenance.Schedule); err != nil {
		log.Fatal().Err(err).Str("schedule", cfg.Maintenance.Schedule).Msg("failed to start maintenance")
	}
	defer maintenance.Stop()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Int("port", cfg.Server.Port).Str("db", cfg.Database.Path).Msg("server listening")
		errCh <- srv.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		log.Fatal().Err(err).Msg("server failed")
	case sig := <-sigCh:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("shutdown did not complete cleanly")
	}
}

func newLogger(cfg config.LoggingConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	var log zerolog.Logger
	if cfg.Pretty {
		log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	} else {
		log = zerolog.New(os.Stderr)
	}
	return log.Level(level).With().Timestamp().Logger()
}
