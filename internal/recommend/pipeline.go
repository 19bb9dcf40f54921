// Moodreel - Playlist-Driven Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodreel

package recommend

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/moodreel/internal/logging"
	"github.com/tomtom215/moodreel/internal/metrics"
	"github.com/tomtom215/moodreel/internal/models"
	"github.com/tomtom215/moodreel/internal/spotify"
)

// Progress stages emitted while a request is in flight.
const (
	StageFindingMovies    = 0
	StageAnalyzing        = 1
	StageReceivingResults = 2
)

// ProgressFunc receives stage notifications. Implementations must be fast;
// the pipeline calls them inline between stages.
type ProgressFunc func(stage int)

// Pipeline sequences playlist resolution, candidate resolution, and the
// recommendation engine for one request. No state survives between runs;
// every request re-derives everything from upstream.
type Pipeline struct {
	playlists      spotify.ClientInterface
	resolver       *Resolver
	engine         *Engine
	defaultNumRecs int
	logger         zerolog.Logger
}

// NewPipeline creates a request pipeline.
func NewPipeline(playlists spotify.ClientInterface, resolver *Resolver, engine *Engine, defaultNumRecs int) *Pipeline {
	return &Pipeline{
		playlists:      playlists,
		resolver:       resolver,
		engine:         engine,
		defaultNumRecs: defaultNumRecs,
		logger:         logging.With().Str("component", "pipeline").Logger(),
	}
}

// Run executes one recommendation request end to end. Filter validation
// happens before any network call; progress may be nil. Cancellation
// propagates through every fan-out stage via ctx.
func (p *Pipeline) Run(ctx context.Context, req *models.PlaylistRequest, progress ProgressFunc) (*models.RecommendationResponse, error) {
	if err := ValidateSelection(req.FilterSelection); err != nil {
		return nil, err
	}

	numRecs := req.NumRecs
	if numRecs == 0 {
		numRecs = p.defaultNumRecs
	}

	p.logger.Debug().
		Str("filters", FilterDisplayText(req.FilterSelection)).
		Int("num_recs", numRecs).
		Msg("Request accepted")

	start := time.Now()
	playlist, err := p.playlists.Resolve(ctx, req.SpotifyLink)
	metrics.RecordPipelineStage("playlist", time.Since(start))
	if err != nil {
		return nil, err
	}
	p.logger.Debug().Str("playlist", playlist.Name).Int("tracks", len(playlist.Tracks)).Msg("Playlist resolved")

	notify(progress, StageFindingMovies)

	// Freeform mode never consults the candidate set, so the discover
	// fan-out is skipped entirely.
	var candidates []models.CandidateMovie
	if p.engine.mode != ModeFreeform {
		start = time.Now()
		candidates, err = p.resolver.Resolve(ctx, req.FilterSelection)
		metrics.RecordPipelineStage("resolve", time.Since(start))
		if err != nil {
			return nil, err
		}
	}

	notify(progress, StageAnalyzing)

	start = time.Now()
	recommendations, err := p.engine.Recommend(ctx, playlist, candidates, numRecs)
	metrics.RecordPipelineStage("recommend", time.Since(start))
	if err != nil {
		return nil, err
	}

	notify(progress, StageReceivingResults)

	return &models.RecommendationResponse{
		Playlist:        playlist,
		Recommendations: recommendations,
	}, nil
}

func notify(progress ProgressFunc, stage int) {
	if progress != nil {
		progress(stage)
	}
}
