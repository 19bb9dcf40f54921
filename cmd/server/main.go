// Moodreel - Playlist-Driven Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodreel

// Package main is the entry point for the Moodreel server application.
//
// Moodreel turns a public Spotify playlist into movie recommendations. It
// resolves the playlist, assembles a candidate pool from the TMDB catalog
// filtered by the caller's genre, age-rating, runtime, and rating
// selections, and asks a generative model to pick from the pool. Results
// stream back to the browser as server-sent events.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: Load settings from environment variables and config file (Koanf v2)
//  2. Upstream clients: TMDB (behind a circuit breaker), Spotify, and the LLM provider
//  3. Recommendation pipeline: candidate resolver, engine, and orchestrator
//  4. HTTP Server: Chi router with SSE streaming, rate limiting, and Prometheus metrics
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest
// priority wins):
//   - Environment variables (MOODREEL_ prefix, plus provider credentials)
//   - Config file (config.yaml)
//   - Built-in defaults
//
// Required credentials:
//   - TMDB_API_KEY: TMDB API key
//   - SPOTIFY_CLIENT_ID / SPOTIFY_CLIENT_SECRET: Spotify client credentials
//   - OPENAI_API_KEY: LLM provider API key
//
// # Signal Handling
//
// The server handles graceful shutdown on SIGINT and SIGTERM:
//   - Stops accepting new connections
//   - Waits for in-flight requests to complete (10s timeout)
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/moodreel/internal/api"
	"github.com/tomtom215/moodreel/internal/cache"
	"github.com/tomtom215/moodreel/internal/config"
	"github.com/tomtom215/moodreel/internal/llm"
	"github.com/tomtom215/moodreel/internal/logging"
	"github.com/tomtom215/moodreel/internal/recommend"
	"github.com/tomtom215/moodreel/internal/spotify"
	"github.com/tomtom215/moodreel/internal/tmdb"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		// Use default logger for config errors (config not yet available)
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize zerolog with configuration
	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("version", version).
		Str("environment", cfg.Server.Environment).
		Str("mode", cfg.Recommend.Mode).
		Msg("Starting Moodreel")

	// Upstream clients, each behind a circuit breaker so a provider outage
	// fails requests fast instead of stacking timeouts.
	catalog := tmdb.NewCircuitBreakerClient(&cfg.TMDB)
	playlists := spotify.NewCircuitBreakerClient(&cfg.Spotify)
	model := llm.NewCircuitBreakerClient(&cfg.LLM)

	// Recommendation pipeline
	detailCache := cache.New(cfg.Recommend.DetailCacheTTL)
	resolver := recommend.NewResolver(catalog, detailCache, &cfg.TMDB, &cfg.Recommend)
	engine := recommend.NewEngine(model, catalog, &cfg.TMDB, &cfg.Recommend)
	pipeline := recommend.NewPipeline(playlists, resolver, engine, cfg.Recommend.DefaultNumRecs)

	router := api.NewRouter(cfg, pipeline, catalog, version)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.SetupChi(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	// Setup signal handling
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	serveErr := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		serveErr <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigCh:
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal().Err(err).Msg("HTTP server failed")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("Graceful shutdown failed")
	}

	logging.Info().Msg("Application stopped gracefully")
}
