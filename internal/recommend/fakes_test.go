// Moodreel - Playlist-Driven Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodreel

package recommend

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/tomtom215/moodreel/internal/config"
	"github.com/tomtom215/moodreel/internal/models"
	"github.com/tomtom215/moodreel/internal/tmdb"
)

// fakeCatalog is an in-memory tmdb.ClientInterface. Discover pages are
// keyed by genre ID; genre 0 serves the unfiltered page set.
type fakeCatalog struct {
	mu sync.Mutex

	pages       map[int][][]tmdb.RawMovie // genreID -> pages of results
	details     map[int]*tmdb.MovieDetail
	failDetails map[int]bool
	searchHits  map[string][]tmdb.RawMovie

	detailCalls   int
	discoverCalls map[int]int // genreID -> discover call count
}

var _ tmdb.ClientInterface = (*fakeCatalog)(nil)

func (f *fakeCatalog) DiscoverByGenre(ctx context.Context, genreID, page int) (*tmdb.DiscoverPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.discoverCalls == nil {
		f.discoverCalls = make(map[int]int)
	}
	f.discoverCalls[genreID]++

	pages := f.pages[genreID]
	result := &tmdb.DiscoverPage{Page: page, TotalPages: len(pages)}
	if page >= 1 && page <= len(pages) {
		result.Results = pages[page-1]
	}
	return result, nil
}

func (f *fakeCatalog) GetDetails(ctx context.Context, movieID int) (*tmdb.MovieDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.detailCalls++
	if f.failDetails[movieID] {
		return nil, &tmdb.UpstreamError{Provider: "tmdb", Operation: "details", StatusCode: 500}
	}
	detail, ok := f.details[movieID]
	if !ok {
		return nil, &tmdb.UpstreamError{Provider: "tmdb", Operation: "details", StatusCode: 404}
	}
	return detail, nil
}

func (f *fakeCatalog) GetGenreList(ctx context.Context) ([]tmdb.Genre, error) {
	genres := make([]tmdb.Genre, 0, len(GenreNames))
	for id, name := range GenreNames {
		genres = append(genres, tmdb.Genre{ID: id, Name: name})
	}
	return genres, nil
}

func (f *fakeCatalog) SearchByTitle(ctx context.Context, query string, year int) ([]tmdb.RawMovie, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.searchHits[query], nil
}

// detail builds a complete MovieDetail with a US certification.
func detail(id int, title string, year, runtime int, voteAverage float64, certification string) *tmdb.MovieDetail {
	d := &tmdb.MovieDetail{
		ID:          id,
		Title:       title,
		ReleaseDate: fmt.Sprintf("%04d-06-01", year),
		Runtime:     runtime,
		VoteAverage: voteAverage,
		Overview:    "A movie about " + title + ".",
		PosterPath:  fmt.Sprintf("/poster%d.jpg", id),
		Genres:      []tmdb.Genre{{ID: 18, Name: "Drama"}},
	}
	if certification != "" {
		d.ReleaseDates.Results = []tmdb.CountryReleaseDates{
			{
				CountryCode:  "US",
				ReleaseDates: []tmdb.ReleaseDateEntry{{Certification: certification}},
			},
		}
	}
	return d
}

// fakeModel is a scripted llm.Client. Responses are returned in order; the
// last response repeats once the script is exhausted.
type fakeModel struct {
	mu        sync.Mutex
	responses []string
	err       error
	prompts   []string
}

func (f *fakeModel) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.prompts = append(f.prompts, userPrompt)
	if f.err != nil {
		return "", f.err
	}
	if len(f.responses) == 0 {
		return "", errors.New("fakeModel: no scripted response")
	}
	response := f.responses[0]
	if len(f.responses) > 1 {
		f.responses = f.responses[1:]
	}
	return response, nil
}

// fakePlaylists returns a fixed playlist or error.
type fakePlaylists struct {
	summary *models.PlaylistSummary
	err     error
}

func (f *fakePlaylists) Resolve(ctx context.Context, link string) (*models.PlaylistSummary, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.summary, nil
}

func testPlaylist() *models.PlaylistSummary {
	return &models.PlaylistSummary{
		Name:       "Midnight Drive",
		TrackCount: 2,
		Tracks: []models.TrackRef{
			{Title: "Nightcall", ArtistNames: []string{"Kavinsky"}},
			{Title: "A Real Hero", ArtistNames: []string{"College", "Electric Youth"}},
		},
	}
}

func testRecommendConfig() *config.RecommendConfig {
	return &config.RecommendConfig{
		DefaultNumRecs:    5,
		PagesAllSelected:  2,
		PagesFiltered:     2,
		Mode:              ModeGrounded,
		CorrectionRetries: 2,
	}
}

func testTMDBConfig() *config.TMDBConfig {
	return &config.TMDBConfig{
		ImageURL: "https://image.example.com/t/p/w500",
		Region:   "US",
	}
}
