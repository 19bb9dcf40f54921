// Moodreel - Playlist-Driven Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodreel

package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/moodreel/internal/config"
	"github.com/tomtom215/moodreel/internal/recommend"
	"github.com/tomtom215/moodreel/internal/tmdb"
)

// chiTestRouter mounts the handler on the same route shapes the real
// router uses, without the middleware stack.
func chiTestRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()
	r.Post("/api/v1/playlist", handler.Playlist)
	r.Get("/api/v1/genres", handler.Genres)
	r.Get("/api/v1/movies/proxy/poster/*", handler.PosterProxy)
	return r
}

func routerConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Environment: "development",
			CORSOrigins: []string{"http://localhost:3000"},
		},
		TMDB: config.TMDBConfig{
			ImageURL: "https://image.example.com/t/p/w500",
		},
		Recommend: config.RecommendConfig{
			DefaultNumRecs: 5,
		},
	}
}

func TestSetupChiRoutes(t *testing.T) {
	cfg := routerConfig()
	pipeline := recommend.NewPipeline(nil, nil, nil, cfg.Recommend.DefaultNumRecs)
	router := NewRouter(cfg, pipeline, &fakeGenreCatalog{genres: []tmdb.Genre{{ID: 28, Name: "Action"}}}, "test")
	mux := router.SetupChi()

	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
	}{
		{"health live", http.MethodGet, "/api/v1/health/live", http.StatusOK},
		{"health ready", http.MethodGet, "/api/v1/health/ready", http.StatusOK},
		{"health full", http.MethodGet, "/api/v1/health", http.StatusOK},
		{"genres", http.MethodGet, "/api/v1/genres", http.StatusOK},
		{"metrics", http.MethodGet, "/metrics", http.StatusOK},
		{"unknown route", http.MethodGet, "/api/v1/nope", http.StatusNotFound},
		{"wrong method", http.MethodGet, "/api/v1/playlist", http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			req.RemoteAddr = "10.0.0.1:1234"
			rec := httptest.NewRecorder()

			mux.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("%s %s = %d, want %d", tt.method, tt.path, rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestSetupChiRequestID(t *testing.T) {
	cfg := routerConfig()
	pipeline := recommend.NewPipeline(nil, nil, nil, cfg.Recommend.DefaultNumRecs)
	router := NewRouter(cfg, pipeline, &fakeGenreCatalog{}, "test")
	mux := router.SetupChi()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health/live", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	rec := httptest.NewRecorder()

	mux.ServeHTTP(rec, req)

	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("X-Request-ID header missing from response")
	}
}

func TestCORSPreflightDevelopment(t *testing.T) {
	cfg := routerConfig()
	pipeline := recommend.NewPipeline(nil, nil, nil, cfg.Recommend.DefaultNumRecs)
	router := NewRouter(cfg, pipeline, &fakeGenreCatalog{}, "test")
	mux := router.SetupChi()

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/genres", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "GET")
	rec := httptest.NewRecorder()

	mux.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q, want *", got)
	}
}

func TestNewChiMiddlewareForEnvironment(t *testing.T) {
	tests := []struct {
		name        string
		environment string
		corsOrigins []string
		wantOrigins []string
	}{
		{"development opens CORS", "development", []string{"https://app.example.com"}, []string{"*"}},
		{"production uses allow-list", "production", []string{"https://app.example.com"}, []string{"https://app.example.com"}},
		{"production without origins stays closed", "production", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewChiMiddlewareForEnvironment(&config.ServerConfig{
				Environment: tt.environment,
				CORSOrigins: tt.corsOrigins,
			})

			if len(m.config.CORSAllowedOrigins) != len(tt.wantOrigins) {
				t.Fatalf("origins = %v, want %v", m.config.CORSAllowedOrigins, tt.wantOrigins)
			}
			for i, origin := range tt.wantOrigins {
				if m.config.CORSAllowedOrigins[i] != origin {
					t.Errorf("origins[%d] = %q, want %q", i, m.config.CORSAllowedOrigins[i], origin)
				}
			}
		})
	}
}

func TestRateLimitDisabledPassesThrough(t *testing.T) {
	config := DefaultChiMiddlewareConfig()
	config.RateLimitDisabled = true
	m := NewChiMiddleware(config)

	handler := m.RateLimit()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	for i := 0; i < 200; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("request %d = %d, want 204", i, rec.Code)
		}
	}
}
