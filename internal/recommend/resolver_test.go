// Moodreel - Playlist-Driven Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodreel

package recommend

import (
	"context"
	"testing"
	"time"

	"github.com/tomtom215/moodreel/internal/cache"
	"github.com/tomtom215/moodreel/internal/tmdb"
)

func raw(id int, title string) tmdb.RawMovie {
	return tmdb.RawMovie{ID: id, Title: title}
}

func TestResolveDeduplicatesAcrossGenres(t *testing.T) {
	// Movie 100 appears under both selected genres and on both pages.
	catalog := &fakeCatalog{
		pages: map[int][][]tmdb.RawMovie{
			28: {{raw(100, "Heat"), raw(101, "Ronin")}, {raw(100, "Heat")}},
			53: {{raw(100, "Heat"), raw(102, "Collateral")}, {}},
		},
		details: map[int]*tmdb.MovieDetail{
			100: detail(100, "Heat", 1995, 170, 8.3, "R"),
			101: detail(101, "Ronin", 1998, 122, 7.0, "R"),
			102: detail(102, "Collateral", 2004, 120, 7.6, "R"),
		},
	}

	sel := fullSelection()
	sel.SelectedGenres = []int{28, 53}

	resolver := NewResolver(catalog, nil, testTMDBConfig(), testRecommendConfig())
	candidates, err := resolver.Resolve(context.Background(), sel)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	seen := make(map[int]int)
	for _, c := range candidates {
		seen[c.ID]++
	}
	for id, count := range seen {
		if count > 1 {
			t.Errorf("movie %d appears %d times, want 1", id, count)
		}
	}
	if len(candidates) != 3 {
		t.Errorf("len(candidates) = %d, want 3", len(candidates))
	}
	// Heat appeared three times but must cost one detail fetch.
	if catalog.detailCalls != 3 {
		t.Errorf("detailCalls = %d, want 3", catalog.detailCalls)
	}
}

func TestResolveAllGenresOmitsGenreFilter(t *testing.T) {
	// All genres selected with a narrowed runtime: discovery must page the
	// unfiltered global list, not fan out one query per genre, and the
	// runtime filter still applies afterwards.
	catalog := &fakeCatalog{
		pages: map[int][][]tmdb.RawMovie{
			0: {{raw(1, "Keeper"), raw(2, "Too Long")}, {}},
		},
		details: map[int]*tmdb.MovieDetail{
			1: detail(1, "Keeper", 2020, 100, 7.5, "PG-13"),
			2: detail(2, "Too Long", 2020, 190, 7.5, "PG-13"),
		},
	}

	sel := fullSelection()
	sel.SelectedRuntime = []string{RuntimeMedium}

	// Distinct ceilings so the assertion can tell which one was used.
	cfg := testRecommendConfig()
	cfg.PagesAllSelected = 3
	cfg.PagesFiltered = 2

	resolver := NewResolver(catalog, nil, testTMDBConfig(), cfg)
	candidates, err := resolver.Resolve(context.Background(), sel)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	if len(candidates) != 1 || candidates[0].Title != "Keeper" {
		t.Fatalf("candidates = %+v, want only Keeper", candidates)
	}

	for genreID, calls := range catalog.discoverCalls {
		if genreID != 0 {
			t.Errorf("discover queried genre %d %d times, want unfiltered queries only", genreID, calls)
		}
	}
	if got := catalog.discoverCalls[0]; got != cfg.PagesFiltered {
		t.Errorf("unfiltered discover calls = %d, want %d (filtered page ceiling)", got, cfg.PagesFiltered)
	}
}

func TestResolveFilterSoundness(t *testing.T) {
	catalog := &fakeCatalog{
		pages: map[int][][]tmdb.RawMovie{
			18: {{raw(1, "Drama Short"), raw(2, "Drama Epic"), raw(3, "Low Rated"), raw(4, "Unrated"), raw(5, "Keeper")}},
		},
		details: map[int]*tmdb.MovieDetail{
			1: detail(1, "Drama Short", 2020, 45, 7.5, "PG-13"), // fails runtime
			2: detail(2, "Drama Epic", 2020, 180, 7.5, "PG-13"), // fails runtime
			3: detail(3, "Low Rated", 2020, 100, 4.0, "PG-13"),  // fails rating
			4: detail(4, "Unrated", 2020, 100, 7.5, ""),         // missing certification
			5: detail(5, "Keeper", 2020, 100, 7.5, "PG-13"),     // passes all three
		},
	}

	sel := fullSelection()
	sel.SelectedGenres = []int{18}
	sel.SelectedRuntime = []string{RuntimeMedium}
	sel.SelectedRatings = []string{RatingHigh}
	sel.SelectedAgeRatings = []string{"PG-13"}

	resolver := NewResolver(catalog, nil, testTMDBConfig(), testRecommendConfig())
	candidates, err := resolver.Resolve(context.Background(), sel)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	if len(candidates) != 1 {
		t.Fatalf("len(candidates) = %d, want 1: %+v", len(candidates), candidates)
	}
	if candidates[0].Title != "Keeper" {
		t.Errorf("survivor = %q, want Keeper", candidates[0].Title)
	}
}

func TestResolveFastPathSkipsFiltering(t *testing.T) {
	// With everything selected, movies that would fail every dimension
	// check still survive; only dedup and detail failure can remove one.
	catalog := &fakeCatalog{
		pages: map[int][][]tmdb.RawMovie{
			0: {{raw(1, "Unrated Oddity"), raw(2, "Broken")}},
		},
		details: map[int]*tmdb.MovieDetail{
			1: detail(1, "Unrated Oddity", 2020, 30, 2.0, ""),
		},
		failDetails: map[int]bool{2: true},
	}

	resolver := NewResolver(catalog, nil, testTMDBConfig(), testRecommendConfig())
	candidates, err := resolver.Resolve(context.Background(), fullSelection())
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	if len(candidates) != 1 {
		t.Fatalf("len(candidates) = %d, want 1", len(candidates))
	}
	if candidates[0].Title != "Unrated Oddity" {
		t.Errorf("survivor = %q, want Unrated Oddity", candidates[0].Title)
	}
}

func TestResolveAnnotatesCandidates(t *testing.T) {
	catalog := &fakeCatalog{
		pages: map[int][][]tmdb.RawMovie{
			0: {{raw(603, "The Matrix")}},
		},
		details: map[int]*tmdb.MovieDetail{
			603: detail(603, "The Matrix", 1999, 136, 8.2, "R"),
		},
	}

	resolver := NewResolver(catalog, nil, testTMDBConfig(), testRecommendConfig())
	candidates, err := resolver.Resolve(context.Background(), fullSelection())
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if len(candidates) != 1 {
		t.Fatalf("len(candidates) = %d, want 1", len(candidates))
	}

	c := candidates[0]
	if c.Year != 1999 {
		t.Errorf("Year = %d, want 1999", c.Year)
	}
	if c.RuntimeMinutes != 136 {
		t.Errorf("RuntimeMinutes = %d, want 136", c.RuntimeMinutes)
	}
	if c.AgeRating != "R" {
		t.Errorf("AgeRating = %q, want R", c.AgeRating)
	}
	if c.PosterPath != "/poster603.jpg" {
		t.Errorf("PosterPath = %q, want /poster603.jpg", c.PosterPath)
	}
}

func TestResolveEmptyCatalog(t *testing.T) {
	catalog := &fakeCatalog{pages: map[int][][]tmdb.RawMovie{}}

	resolver := NewResolver(catalog, nil, testTMDBConfig(), testRecommendConfig())
	candidates, err := resolver.Resolve(context.Background(), fullSelection())
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	// Emptiness is not an error here; the engine escalates it.
	if len(candidates) != 0 {
		t.Errorf("len(candidates) = %d, want 0", len(candidates))
	}
}

func TestResolveUsesDetailCache(t *testing.T) {
	catalog := &fakeCatalog{
		pages: map[int][][]tmdb.RawMovie{
			0: {{raw(603, "The Matrix")}},
		},
		details: map[int]*tmdb.MovieDetail{
			603: detail(603, "The Matrix", 1999, 136, 8.2, "R"),
		},
	}

	detailCache := cache.New(15 * time.Minute)
	resolver := NewResolver(catalog, detailCache, testTMDBConfig(), testRecommendConfig())

	for i := 0; i < 3; i++ {
		if _, err := resolver.Resolve(context.Background(), fullSelection()); err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
	}

	if catalog.detailCalls != 1 {
		t.Errorf("detailCalls = %d, want 1 (subsequent resolutions served from cache)", catalog.detailCalls)
	}
}
