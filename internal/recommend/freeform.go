// Moodreel - Playlist-Driven Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodreel

package recommend

import (
	"context"
	"fmt"

	json "github.com/goccy/go-json"

	"github.com/tomtom215/moodreel/internal/models"
)

// freeformPick is one entry of the model's open-answer response.
type freeformPick struct {
	Title  string `json:"title"`
	Year   int    `json:"year"`
	Reason string `json:"reason"`
}

// recommendFreeform runs the open-answer flow: the model suggests any
// movies, and each suggestion is reconciled against the catalog by title
// search. A pick the catalog cannot verify triggers a bounded per-miss
// correction loop asking the model for one replacement. The exact-count
// contract still holds; a shortfall after corrections fails the request.
func (e *Engine) recommendFreeform(ctx context.Context, playlist *models.PlaylistSummary, numRecs int) ([]models.RecommendationResult, error) {
	prompt := buildFreeformPrompt(playlist, numRecs)

	response, err := e.model.Complete(ctx, systemPrompt, prompt)
	if err != nil {
		return nil, fmt.Errorf("model completion failed: %w", err)
	}

	picks, err := parseFreeformResponse(response)
	if err != nil {
		return nil, err
	}

	seen := make(map[int]bool)
	excluded := make([]string, 0, len(picks))
	results := make([]models.RecommendationResult, 0, numRecs)

	for _, pick := range picks {
		if len(results) == numRecs {
			break
		}

		resolved, ok := e.reconcile(ctx, pick, seen)
		for attempt := 0; !ok && attempt < e.correctionRetries; attempt++ {
			excluded = append(excluded, pick.Title)
			replacement, replErr := e.requestCorrection(ctx, playlist, pick.Title, excluded)
			if replErr != nil {
				e.logger.Debug().Err(replErr).Str("rejected", pick.Title).Msg("Correction re-prompt failed")
				break
			}
			pick = replacement
			resolved, ok = e.reconcile(ctx, pick, seen)
		}
		if !ok {
			continue
		}

		seen[resolved.ID] = true
		results = append(results, *resolved)
	}

	if len(results) != numRecs {
		return nil, &CountMismatchError{Want: numRecs, Got: len(results)}
	}
	return results, nil
}

// reconcile verifies a pick against the catalog and builds its result.
// The provider's first search hit is taken as the best match. Returns
// false when the title cannot be found, has no detail record, or repeats
// an already-accepted movie.
func (e *Engine) reconcile(ctx context.Context, pick freeformPick, seen map[int]bool) (*models.RecommendationResult, bool) {
	matches, err := e.catalog.SearchByTitle(ctx, pick.Title, pick.Year)
	if err != nil || len(matches) == 0 {
		return nil, false
	}

	best := matches[0]
	if seen[best.ID] {
		return nil, false
	}

	detail, err := e.catalog.GetDetails(ctx, best.ID)
	if err != nil {
		return nil, false
	}

	genres := make([]models.Genre, 0, len(detail.Genres))
	for _, g := range detail.Genres {
		genres = append(genres, models.Genre{ID: g.ID, Name: g.Name})
	}

	result := e.toResult(models.CandidateMovie{
		ID:             detail.ID,
		Title:          detail.Title,
		Year:           detail.Year(),
		VoteAverage:    detail.VoteAverage,
		Genres:         genres,
		RuntimeMinutes: detail.Runtime,
		AgeRating:      detail.Certification(e.region),
		OverviewText:   detail.Overview,
		PosterPath:     detail.PosterPath,
	}, pick.Reason)
	return &result, true
}

// requestCorrection asks the model for a single replacement pick.
func (e *Engine) requestCorrection(ctx context.Context, playlist *models.PlaylistSummary, rejected string, excluded []string) (freeformPick, error) {
	response, err := e.model.Complete(ctx, systemPrompt, buildCorrectionPrompt(playlist, rejected, excluded))
	if err != nil {
		return freeformPick{}, err
	}

	picks, err := parseFreeformResponse(response)
	if err != nil {
		return freeformPick{}, err
	}
	if len(picks) == 0 {
		return freeformPick{}, &ParseError{Reason: "correction returned empty array"}
	}
	return picks[0], nil
}

func parseFreeformResponse(response string) ([]freeformPick, error) {
	arrayText, found := extractJSONArray(response)
	if !found {
		return nil, &ParseError{Reason: "no JSON array in response"}
	}

	var picks []freeformPick
	if err := json.Unmarshal([]byte(arrayText), &picks); err != nil {
		return nil, &ParseError{Reason: "JSON array does not decode", Err: err}
	}
	return picks, nil
}
