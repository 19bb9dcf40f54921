// Moodreel - Playlist-Driven Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodreel

// Package models defines the domain and API types shared across Moodreel:
// playlist summaries, candidate movies, recommendation results, and the
// standard API response envelope.
package models

// TrackRef identifies a single track in a playlist.
type TrackRef struct {
	Title       string   `json:"title"`
	ArtistNames []string `json:"artistNames"`
}

// PlaylistSummary is the resolved view of a music playlist.
// Immutable once fetched; it lives only for the duration of one
// recommendation request.
type PlaylistSummary struct {
	Name       string     `json:"name"`
	TrackCount int        `json:"trackCount"`
	Tracks     []TrackRef `json:"tracks"`
}

// Genre is a catalog genre with its provider-assigned ID.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// CandidateMovie is a movie that passed catalog lookup and detail
// annotation, eligible for presentation to the generative model.
// Immutable after creation; not cached across requests.
type CandidateMovie struct {
	ID             int     `json:"id"`
	Title          string  `json:"title"`
	Year           int     `json:"year"`
	VoteAverage    float64 `json:"voteAverage"`
	Genres         []Genre `json:"genres"`
	RuntimeMinutes int     `json:"runtimeMinutes"` // 0 when unknown
	AgeRating      string  `json:"ageRating"`      // empty when no US certification
	OverviewText   string  `json:"overviewText"`
	PosterPath     string  `json:"posterPath"` // empty when absent
}

// RecommendationResult joins a model-selected candidate with the model's
// natural-language justification. Transient; never persisted.
type RecommendationResult struct {
	ID             int     `json:"id"`
	Title          string  `json:"title"`
	Year           int     `json:"year"`
	Reason         string  `json:"reason"`
	PosterURL      string  `json:"posterUrl,omitempty"`
	VoteAverage    float64 `json:"voteAverage"`
	Genres         []Genre `json:"genres"`
	RuntimeMinutes int     `json:"runtimeMinutes"`
	AgeRating      string  `json:"ageRating"`
}

// FilterSelection holds the four independent selection sets supplied by the
// user. Validation tags enforce the fixed vocabularies; the engine
// additionally rejects any empty dimension before network I/O.
type FilterSelection struct {
	SelectedGenres     []int    `json:"selectedGenres" validate:"dive,gt=0"`
	SelectedAgeRatings []string `json:"selectedAgeRatings" validate:"dive,age_rating"`
	SelectedRuntime    []string `json:"selectedRuntime" validate:"dive,runtime_bucket"`
	SelectedRatings    []string `json:"selectedRatings" validate:"dive,rating_bucket"`
}

// PlaylistRequest is the body of POST /api/v1/playlist.
type PlaylistRequest struct {
	SpotifyLink string `json:"spotifyLink" validate:"required"`
	NumRecs     int    `json:"numRecs" validate:"omitempty,min=1"`
	FilterSelection
}

// RecommendationResponse is the final payload of a recommendation request.
type RecommendationResponse struct {
	Playlist        *PlaylistSummary       `json:"playlist"`
	Recommendations []RecommendationResult `json:"recommendations"`
}
