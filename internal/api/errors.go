// Moodreel - Playlist-Driven Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodreel

package api

import (
	"errors"
	"net/http"

	"github.com/tomtom215/moodreel/internal/recommend"
	"github.com/tomtom215/moodreel/internal/spotify"
	"github.com/tomtom215/moodreel/internal/tmdb"
)

// httpError is the user-facing shape of a pipeline failure. Message is
// short and actionable; the underlying error stays in logs only.
type httpError struct {
	Status  int
	Code    string
	Message string
}

// mapError classifies a pipeline failure. Grounding failures deliberately
// share one generic message: the user cannot act on parse details, and the
// diagnostics land in the logs.
func mapError(err error) httpError {
	var validationErr *recommend.ValidationError
	var parseErr *recommend.ParseError
	var ungroundedErr *recommend.UngroundedError
	var countErr *recommend.CountMismatchError
	var upstreamErr *tmdb.UpstreamError

	switch {
	case errors.Is(err, spotify.ErrInvalidLink):
		return httpError{http.StatusBadRequest, "INVALID_LINK", "That link does not look like a playlist link. Please paste a full playlist URL."}

	case errors.As(err, &validationErr):
		return httpError{http.StatusBadRequest, "VALIDATION_ERROR", "Please select at least one option in every filter category."}

	case errors.Is(err, spotify.ErrNotFound):
		return httpError{http.StatusNotFound, "PLAYLIST_NOT_FOUND", "Playlist not found. Please check if the link is correct and the playlist is public."}

	case errors.Is(err, spotify.ErrAuth):
		return httpError{http.StatusBadGateway, "PLAYLIST_AUTH_FAILED", "Spotify authentication failed. Please try again in a few moments."}

	case errors.Is(err, spotify.ErrPrivatePlaylist):
		return httpError{http.StatusForbidden, "PRIVATE_PLAYLIST", "This playlist is private. Please make it public or share a different playlist."}

	case errors.Is(err, spotify.ErrEmptyPlaylist):
		return httpError{http.StatusBadRequest, "EMPTY_PLAYLIST", "The playlist is empty. Add some tracks and try again."}

	case errors.Is(err, recommend.ErrNoCandidates), errors.Is(err, recommend.ErrNoValidCandidates):
		return httpError{http.StatusNotFound, "NO_MATCHES", "No movies matched your preferences. Try broadening your filters."}

	case errors.As(err, &parseErr), errors.As(err, &ungroundedErr), errors.As(err, &countErr):
		return httpError{http.StatusBadGateway, "RECOMMENDATION_FAILED", "Failed to generate recommendations. Please try again in a few moments."}

	case errors.As(err, &upstreamErr):
		return httpError{http.StatusBadGateway, "UPSTREAM_ERROR", "The movie catalog is temporarily unavailable. Please try again in a few moments."}
	}

	return httpError{http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred."}
}
