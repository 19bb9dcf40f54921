// Moodreel - Playlist-Driven Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodreel

package api

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/tomtom215/moodreel/internal/logging"
	"github.com/tomtom215/moodreel/internal/models"
	"github.com/tomtom215/moodreel/internal/recommend"
	"github.com/tomtom215/moodreel/internal/tmdb"
)

// Recommender runs one recommendation request end to end. Implemented by
// recommend.Pipeline; substituted with a fake in handler tests.
type Recommender interface {
	Run(ctx context.Context, req *models.PlaylistRequest, progress recommend.ProgressFunc) (*models.RecommendationResponse, error)
}

// Handler holds the dependencies for the HTTP handlers.
type Handler struct {
	pipeline     Recommender
	catalog      tmdb.ClientInterface
	imageBaseURL string
	posterClient *http.Client
	version      string
	startTime    time.Time
}

// NewHandler creates the handler set.
func NewHandler(pipeline Recommender, catalog tmdb.ClientInterface, imageBaseURL, version string) *Handler {
	return &Handler{
		pipeline:     pipeline,
		catalog:      catalog,
		imageBaseURL: strings.TrimSuffix(imageBaseURL, "/"),
		posterClient: &http.Client{Timeout: 15 * time.Second},
		version:      version,
		startTime:    time.Now(),
	}
}

// Playlist handles POST /api/v1/playlist. The response is a server-sent
// event stream: numbered stage events while the pipeline runs, then either
// a final payload event or an error event. Errors after the stream has
// started cannot change the HTTP status, so they travel as events too.
func (h *Handler) Playlist(w http.ResponseWriter, r *http.Request) {
	var req models.PlaylistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_BODY", "Request body is not valid JSON.", err)
		return
	}

	if req.SpotifyLink == "" {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Spotify link is required.", nil)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		respondError(w, http.StatusInternalServerError, "STREAMING_UNSUPPORTED", "Streaming is not supported.", nil)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	logging.Ctx(r.Context()).Info().
		Str("playlist_link", sanitizeLogValue(req.SpotifyLink)).
		Int("num_recs", req.NumRecs).
		Msg("Recommendation request started")

	progress := func(stage int) {
		writeSSE(w, flusher, map[string]int{"stage": stage})
	}

	response, err := h.pipeline.Run(r.Context(), &req, progress)
	if err != nil {
		httpErr := mapError(err)
		logging.Ctx(r.Context()).Error().
			Err(err).
			Str("code", httpErr.Code).
			Msg("Recommendation request failed")
		writeSSE(w, flusher, map[string]string{"error": httpErr.Message})
		return
	}

	logging.Ctx(r.Context()).Info().
		Int("recommendations", len(response.Recommendations)).
		Msg("Recommendation request complete")

	writeSSE(w, flusher, response)
}

// writeSSE writes one server-sent event and flushes it to the client.
func writeSSE(w http.ResponseWriter, flusher http.Flusher, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal SSE payload")
		return
	}
	if _, err := w.Write(append(append([]byte("data: "), data...), '\n', '\n')); err != nil {
		logging.Error().Err(err).Msg("Failed to write SSE event")
		return
	}
	flusher.Flush()
}

// Genres handles GET /api/v1/genres: the catalog's genre vocabulary for
// populating the filter UI.
func (h *Handler) Genres(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	genres, err := h.catalog.GetGenreList(r.Context())
	if err != nil {
		httpErr := mapError(err)
		respondError(w, httpErr.Status, httpErr.Code, httpErr.Message, err)
		return
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   genres,
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: time.Since(start).Milliseconds(),
		},
	})
}

// PosterProxy handles GET /api/v1/movies/proxy/poster/*. It streams poster
// images through the backend so browser clients never talk to the image
// CDN directly (the share-as-image feature requires same-origin pixels).
func (h *Handler) PosterProxy(w http.ResponseWriter, r *http.Request) {
	posterPath := chi.URLParam(r, "*")
	if posterPath == "" || strings.Contains(posterPath, "..") || strings.Contains(posterPath, "://") {
		respondError(w, http.StatusBadRequest, "INVALID_POSTER_PATH", "Poster path is not valid.", nil)
		return
	}

	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, h.imageBaseURL+"/"+posterPath, nil)
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_POSTER_PATH", "Poster path is not valid.", err)
		return
	}

	resp, err := h.posterClient.Do(req)
	if err != nil {
		respondError(w, http.StatusBadGateway, "POSTER_FETCH_FAILED", "Could not fetch the poster image.", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respondError(w, http.StatusNotFound, "POSTER_NOT_FOUND", "Poster image not found.", nil)
		return
	}

	if contentType := resp.Header.Get("Content-Type"); contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}
	// Posters are immutable per path; let browsers cache aggressively.
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, resp.Body); err != nil {
		logging.Ctx(r.Context()).Debug().Err(err).Msg("Poster stream interrupted")
	}
}

// healthData is the payload of the health endpoints.
type healthData struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`
}

// Health handles GET /api/v1/health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: healthData{
			Status:  "healthy",
			Version: h.version,
			Uptime:  time.Since(h.startTime).Round(time.Second).String(),
		},
		Metadata: models.Metadata{Timestamp: time.Now()},
	})
}

// HealthLive handles GET /api/v1/health/live, the liveness probe.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// HealthReady handles GET /api/v1/health/ready, the readiness probe. The
// service holds no local state, so readiness equals liveness.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}
