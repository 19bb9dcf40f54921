// Moodreel - Playlist-Driven Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodreel

package recommend

import (
	"context"
	"errors"
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/moodreel/internal/config"
	"github.com/tomtom215/moodreel/internal/llm"
	"github.com/tomtom215/moodreel/internal/logging"
	"github.com/tomtom215/moodreel/internal/metrics"
	"github.com/tomtom215/moodreel/internal/models"
	"github.com/tomtom215/moodreel/internal/tmdb"
)

// Recommendation modes.
const (
	// ModeGrounded constrains the model to a numbered candidate list and
	// rejects any response that strays from it.
	ModeGrounded = "grounded"

	// ModeFreeform lets the model answer openly, then reconciles each
	// pick against the catalog with bounded correction re-prompts.
	ModeFreeform = "freeform"
)

// Engine selects N recommendations from the resolver's candidate set,
// grounded in the playlist. Safe for concurrent use; all per-request state
// lives on the stack.
type Engine struct {
	model   llm.Client
	catalog tmdb.ClientInterface

	imageBaseURL      string
	region            string
	mode              string
	correctionRetries int

	logger zerolog.Logger
}

// NewEngine creates a recommendation engine. The catalog client is only
// consulted in freeform mode, for reconciling open-answer picks.
func NewEngine(model llm.Client, catalog tmdb.ClientInterface, tmdbCfg *config.TMDBConfig, recCfg *config.RecommendConfig) *Engine {
	return &Engine{
		model:             model,
		catalog:           catalog,
		imageBaseURL:      tmdbCfg.ImageURL,
		region:            tmdbCfg.Region,
		mode:              recCfg.Mode,
		correctionRetries: recCfg.CorrectionRetries,
		logger:            logging.With().Str("component", "engine").Logger(),
	}
}

// groundedPick is one entry of the model's grounded response.
type groundedPick struct {
	Number int    `json:"number"`
	Title  string `json:"title"`
	Year   int    `json:"year"`
	Reason string `json:"reason"`
}

// Recommend produces exactly numRecs recommendations or fails. It never
// pads, truncates, or partially accepts a response.
func (e *Engine) Recommend(ctx context.Context, playlist *models.PlaylistSummary, candidates []models.CandidateMovie, numRecs int) ([]models.RecommendationResult, error) {
	var results []models.RecommendationResult
	var err error
	if e.mode == ModeFreeform {
		// Freeform answers openly and reconciles against the catalog by
		// search; it never consults the candidate set.
		results, err = e.recommendFreeform(ctx, playlist, numRecs)
	} else {
		if len(candidates) == 0 {
			metrics.RecordEngineOutcome(e.mode, "no_candidates")
			return nil, ErrNoCandidates
		}
		results, err = e.recommendGrounded(ctx, playlist, candidates, numRecs)
	}

	if err != nil {
		metrics.RecordEngineOutcome(e.mode, outcomeLabel(err))
		return nil, err
	}
	metrics.RecordEngineOutcome(e.mode, "success")
	return results, nil
}

// recommendGrounded runs the constrained-choice flow: number the complete
// candidates, prompt once, parse strictly, and refuse anything the model
// invented.
func (e *Engine) recommendGrounded(ctx context.Context, playlist *models.PlaylistSummary, candidates []models.CandidateMovie, numRecs int) ([]models.RecommendationResult, error) {
	complete := completeCandidates(candidates)
	if len(complete) == 0 {
		return nil, ErrNoValidCandidates
	}

	prompt := buildGroundedPrompt(playlist, complete, numRecs)

	response, err := e.model.Complete(ctx, systemPrompt, prompt)
	if err != nil {
		return nil, fmt.Errorf("model completion failed: %w", err)
	}

	picks, err := parseGroundedResponse(response)
	if err != nil {
		return nil, err
	}

	// Grounding is all-or-nothing. Titles must match exactly; the display
	// number alone is not trusted because a model that miscounts the list
	// would silently return the wrong movie.
	byTitle := make(map[string][]models.CandidateMovie, len(complete))
	for _, c := range complete {
		byTitle[c.Title] = append(byTitle[c.Title], c)
	}

	var ungrounded []string
	results := make([]models.RecommendationResult, 0, len(picks))
	for _, pick := range picks {
		candidate, ok := resolvePick(complete, byTitle, pick)
		if !ok {
			ungrounded = append(ungrounded, pick.Title)
			continue
		}
		results = append(results, e.toResult(candidate, pick.Reason))
	}
	if len(ungrounded) > 0 {
		return nil, &UngroundedError{Titles: ungrounded}
	}

	if len(results) != numRecs {
		return nil, &CountMismatchError{Want: numRecs, Got: len(results)}
	}

	e.logger.Debug().Int("candidates", len(complete)).Int("results", len(results)).Msg("Grounded recommendation complete")
	return results, nil
}

// resolvePick maps one model pick back to a candidate. The title must
// match exactly to count as grounded; the display number and year only
// disambiguate candidates that share a title across release years.
func resolvePick(complete []models.CandidateMovie, byTitle map[string][]models.CandidateMovie, pick groundedPick) (models.CandidateMovie, bool) {
	if pick.Number >= 1 && pick.Number <= len(complete) && complete[pick.Number-1].Title == pick.Title {
		return complete[pick.Number-1], true
	}

	matches := byTitle[pick.Title]
	if len(matches) == 0 {
		return models.CandidateMovie{}, false
	}
	for _, c := range matches {
		if c.Year == pick.Year {
			return c, true
		}
	}
	return matches[0], true
}

// parseGroundedResponse extracts and decodes the JSON array from free-text
// model output. No repair is attempted; malformed output fails the request.
func parseGroundedResponse(response string) ([]groundedPick, error) {
	arrayText, found := extractJSONArray(response)
	if !found {
		return nil, &ParseError{Reason: "no JSON array in response"}
	}

	var picks []groundedPick
	if err := json.Unmarshal([]byte(arrayText), &picks); err != nil {
		return nil, &ParseError{Reason: "JSON array does not decode", Err: err}
	}
	return picks, nil
}

// completeCandidates keeps only candidates with every attribute the prompt
// needs. Incomplete records cannot be safely presented to the model.
func completeCandidates(candidates []models.CandidateMovie) []models.CandidateMovie {
	complete := make([]models.CandidateMovie, 0, len(candidates))
	for _, c := range candidates {
		if c.Title == "" || c.Year == 0 || len(c.Genres) == 0 {
			continue
		}
		if c.VoteAverage <= 0 || c.RuntimeMinutes <= 0 {
			continue
		}
		if c.AgeRating == "" || c.OverviewText == "" {
			continue
		}
		complete = append(complete, c)
	}
	return complete
}

// toResult joins a candidate with the model's justification and assembles
// the poster URL.
func (e *Engine) toResult(c models.CandidateMovie, reason string) models.RecommendationResult {
	posterURL := ""
	if c.PosterPath != "" {
		posterURL = e.imageBaseURL + c.PosterPath
	}
	return models.RecommendationResult{
		ID:             c.ID,
		Title:          c.Title,
		Year:           c.Year,
		Reason:         reason,
		PosterURL:      posterURL,
		VoteAverage:    c.VoteAverage,
		Genres:         c.Genres,
		RuntimeMinutes: c.RuntimeMinutes,
		AgeRating:      c.AgeRating,
	}
}

// outcomeLabel maps an engine failure to a bounded metric label.
func outcomeLabel(err error) string {
	var parseErr *ParseError
	var ungroundedErr *UngroundedError
	var countErr *CountMismatchError
	switch {
	case errors.As(err, &parseErr):
		return "parse_error"
	case errors.As(err, &ungroundedErr):
		return "ungrounded"
	case errors.As(err, &countErr):
		return "count_mismatch"
	case errors.Is(err, ErrNoCandidates):
		return "no_candidates"
	case errors.Is(err, ErrNoValidCandidates):
		return "no_valid_candidates"
	}
	return "upstream_error"
}
