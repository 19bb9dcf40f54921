// Moodreel - Playlist-Driven Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodreel

package recommend

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/tomtom215/moodreel/internal/cache"
	"github.com/tomtom215/moodreel/internal/config"
	"github.com/tomtom215/moodreel/internal/logging"
	"github.com/tomtom215/moodreel/internal/metrics"
	"github.com/tomtom215/moodreel/internal/models"
	"github.com/tomtom215/moodreel/internal/tmdb"
)

// Resolver produces the authoritative candidate set for a filter selection.
// Candidate gathering is best-effort: individual page or detail fetches
// that fail are dropped, never escalated. Only total emptiness reaches the
// caller, and as ErrNoCandidates from the engine, not from here.
type Resolver struct {
	catalog     tmdb.ClientInterface
	detailCache *cache.Cache
	region      string

	pagesAllSelected int
	pagesFiltered    int

	logger zerolog.Logger
}

// NewResolver creates a candidate resolver. detailCache may be nil to
// disable cross-request detail caching.
func NewResolver(catalog tmdb.ClientInterface, detailCache *cache.Cache, tmdbCfg *config.TMDBConfig, recCfg *config.RecommendConfig) *Resolver {
	return &Resolver{
		catalog:          catalog,
		detailCache:      detailCache,
		region:           tmdbCfg.Region,
		pagesAllSelected: recCfg.PagesAllSelected,
		pagesFiltered:    recCfg.PagesFiltered,
		logger:           logging.With().Str("component", "resolver").Logger(),
	}
}

// Resolve builds the deduplicated, filtered candidate set.
//
// Discovery fans out one call per page when the genre selection covers the
// full vocabulary (the genre filter is omitted and the global popularity
// list is paged), otherwise one call per selected genre and page pair. The
// same movie can appear under multiple genre calls; dedup by catalog ID
// makes that harmless. Page counts are fixed ceilings keyed to whether
// every dimension is fully selected, so total API spend is predictable
// regardless of catalog size.
func (r *Resolver) Resolve(ctx context.Context, sel models.FilterSelection) ([]models.CandidateMovie, error) {
	allSelected := IsAllSelected(sel)

	pages := r.pagesFiltered
	if allSelected {
		pages = r.pagesAllSelected
	}

	genreIDs := sel.SelectedGenres
	if coversAllGenres(sel.SelectedGenres) {
		// Genre 0 omits the genre filter entirely. This keys on the genre
		// dimension alone: a narrowed runtime or rating still pages the
		// global list once instead of per genre.
		genreIDs = []int{0}
	}

	raw := r.fetchPages(ctx, genreIDs, pages)
	if len(raw) == 0 {
		return nil, nil
	}

	// Dedup by catalog ID, last occurrence wins.
	unique := make(map[int]tmdb.RawMovie, len(raw))
	order := make([]int, 0, len(raw))
	for _, movie := range raw {
		if _, seen := unique[movie.ID]; !seen {
			order = append(order, movie.ID)
		}
		unique[movie.ID] = movie
	}

	candidates := r.fetchDetails(ctx, unique, order)

	if !allSelected {
		candidates = r.filter(candidates, sel)
	}

	metrics.ResolverCandidates.Observe(float64(len(candidates)))
	r.logger.Debug().
		Int("raw", len(raw)).
		Int("unique", len(unique)).
		Int("candidates", len(candidates)).
		Bool("all_selected", allSelected).
		Msg("Candidate resolution complete")

	return candidates, nil
}

// fetchPages fans out discovery calls and flattens every page's results.
// Failed pages are logged and skipped.
func (r *Resolver) fetchPages(ctx context.Context, genreIDs []int, pages int) []tmdb.RawMovie {
	type pageResult struct {
		movies []tmdb.RawMovie
		order  int
	}

	total := len(genreIDs) * pages
	results := make(chan pageResult, total)

	var wg sync.WaitGroup
	for gi, genreID := range genreIDs {
		for page := 1; page <= pages; page++ {
			wg.Add(1)
			go func(genreID, page, order int) {
				defer wg.Done()

				discovered, err := r.catalog.DiscoverByGenre(ctx, genreID, page)
				if err != nil {
					r.logger.Debug().Err(err).Int("genre", genreID).Int("page", page).Msg("Page fetch failed, skipping")
					return
				}
				metrics.ResolverPagesFetched.Inc()
				results <- pageResult{movies: discovered.Results, order: order}
			}(genreID, page, gi*pages+page)
		}
	}
	wg.Wait()
	close(results)

	// Re-impose deterministic order so last-wins dedup is reproducible
	// regardless of goroutine completion order.
	ordered := make([]pageResult, 0, total)
	for res := range results {
		ordered = append(ordered, res)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].order < ordered[j].order })

	var flat []tmdb.RawMovie
	for _, res := range ordered {
		flat = append(flat, res.movies...)
	}
	return flat
}

// fetchDetails annotates each unique movie with runtime, vote average, and
// certification, fully in parallel. Movies whose detail fetch fails are
// dropped silently.
func (r *Resolver) fetchDetails(ctx context.Context, unique map[int]tmdb.RawMovie, order []int) []models.CandidateMovie {
	results := make([]*models.CandidateMovie, len(order))

	var wg sync.WaitGroup
	for i, id := range order {
		wg.Add(1)
		go func(i, id int) {
			defer wg.Done()

			detail, err := r.movieDetail(ctx, id)
			if err != nil {
				metrics.ResolverDroppedDetails.Inc()
				r.logger.Debug().Err(err).Int("movie_id", id).Msg("Detail fetch failed, dropping candidate")
				return
			}

			raw := unique[id]
			genres := make([]models.Genre, 0, len(detail.Genres))
			for _, g := range detail.Genres {
				genres = append(genres, models.Genre{ID: g.ID, Name: g.Name})
			}

			results[i] = &models.CandidateMovie{
				ID:             detail.ID,
				Title:          detail.Title,
				Year:           detail.Year(),
				VoteAverage:    detail.VoteAverage,
				Genres:         genres,
				RuntimeMinutes: detail.Runtime,
				AgeRating:      detail.Certification(r.region),
				OverviewText:   detail.Overview,
				PosterPath:     firstNonEmpty(detail.PosterPath, raw.PosterPath),
			}
		}(i, id)
	}
	wg.Wait()

	candidates := make([]models.CandidateMovie, 0, len(order))
	for _, c := range results {
		if c != nil {
			candidates = append(candidates, *c)
		}
	}
	return candidates
}

// movieDetail fetches a detail record through the cross-request cache.
func (r *Resolver) movieDetail(ctx context.Context, id int) (*tmdb.MovieDetail, error) {
	key := fmt.Sprintf("movie:%d", id)

	if r.detailCache != nil {
		if cached, ok := r.detailCache.Get(key); ok {
			if detail, ok := cached.(*tmdb.MovieDetail); ok {
				metrics.DetailCacheHits.Inc()
				return detail, nil
			}
		}
		metrics.DetailCacheMisses.Inc()
	}

	detail, err := r.catalog.GetDetails(ctx, id)
	if err != nil {
		return nil, err
	}

	if r.detailCache != nil {
		r.detailCache.Set(key, detail)
	}
	return detail, nil
}

// filter keeps candidates that satisfy at least one selected bucket in
// every dimension. Genre is honored by construction: either only selected
// genres were queried, or the selection covers every genre.
func (r *Resolver) filter(candidates []models.CandidateMovie, sel models.FilterSelection) []models.CandidateMovie {
	runtimes := stringSet(sel.SelectedRuntime)
	ratings := stringSet(sel.SelectedRatings)
	ageRatings := stringSet(sel.SelectedAgeRatings)

	survivors := make([]models.CandidateMovie, 0, len(candidates))
	for _, c := range candidates {
		if !matchesRuntime(c.RuntimeMinutes, runtimes) {
			continue
		}
		if !matchesRating(c.VoteAverage, ratings) {
			continue
		}
		if !matchesAgeRating(c.AgeRating, ageRatings) {
			continue
		}
		survivors = append(survivors, c)
	}
	return survivors
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
