// Moodreel - Playlist-Driven Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodreel

/*
client.go - TMDB REST API Client

This file implements a REST API client for The Movie Database (TMDB).
It provides paginated discovery, per-movie detail with certifications,
the genre list, and relevance-ordered title search.

API Reference: https://developer.themoviedb.org/reference
*/

package tmdb

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/tomtom215/moodreel/internal/config"
	"github.com/tomtom215/moodreel/internal/metrics"
)

// ClientInterface defines the interface for TMDB catalog operations.
// Both Client and CircuitBreakerClient implement this interface.
type ClientInterface interface {
	DiscoverByGenre(ctx context.Context, genreID, page int) (*DiscoverPage, error)
	GetDetails(ctx context.Context, movieID int) (*MovieDetail, error)
	GetGenreList(ctx context.Context) ([]Genre, error)
	SearchByTitle(ctx context.Context, query string, year int) ([]RawMovie, error)
}

// Ensure Client implements ClientInterface
var _ ClientInterface = (*Client)(nil)

// Client provides access to the TMDB REST API.
// Outbound calls are paced by a shared rate limiter; the client is safe for
// concurrent use and holds no per-request state.
type Client struct {
	baseURL    string
	apiKey     string
	region     string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// UpstreamError describes a non-2xx response from an upstream provider.
type UpstreamError struct {
	Provider   string
	Operation  string
	StatusCode int
	Body       string
}

// Error implements the error interface.
func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s %s returned status %d: %s", e.Provider, e.Operation, e.StatusCode, e.Body)
}

// RawMovie is a single entry in a discover or search result page.
type RawMovie struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	ReleaseDate string  `json:"release_date"`
	PosterPath  string  `json:"poster_path"`
	VoteAverage float64 `json:"vote_average"`
	Overview    string  `json:"overview"`
	GenreIDs    []int   `json:"genre_ids"`
}

// Year parses the release year from the provider's date string.
// Returns 0 when the date is missing or malformed.
func (m *RawMovie) Year() int {
	if len(m.ReleaseDate) < 4 {
		return 0
	}
	year, err := strconv.Atoi(m.ReleaseDate[:4])
	if err != nil {
		return 0
	}
	return year
}

// DiscoverPage is one page of a paginated discover response.
type DiscoverPage struct {
	Page       int        `json:"page"`
	Results    []RawMovie `json:"results"`
	TotalPages int        `json:"total_pages"`
}

// Genre is a catalog genre.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// ReleaseDateEntry is a single certification entry inside a country's
// release date list.
type ReleaseDateEntry struct {
	Certification string `json:"certification"`
	ReleaseDate   string `json:"release_date"`
}

// CountryReleaseDates groups certifications by country.
type CountryReleaseDates struct {
	CountryCode  string             `json:"iso_3166_1"`
	ReleaseDates []ReleaseDateEntry `json:"release_dates"`
}

// MovieDetail is the response from GET /movie/{id} with release dates
// appended.
type MovieDetail struct {
	ID           int     `json:"id"`
	Title        string  `json:"title"`
	ReleaseDate  string  `json:"release_date"`
	Runtime      int     `json:"runtime"`
	VoteAverage  float64 `json:"vote_average"`
	Overview     string  `json:"overview"`
	PosterPath   string  `json:"poster_path"`
	Genres       []Genre `json:"genres"`
	ReleaseDates struct {
		Results []CountryReleaseDates `json:"results"`
	} `json:"release_dates"`
}

// Year parses the release year from the provider's date string.
func (d *MovieDetail) Year() int {
	if len(d.ReleaseDate) < 4 {
		return 0
	}
	year, err := strconv.Atoi(d.ReleaseDate[:4])
	if err != nil {
		return 0
	}
	return year
}

// Certification returns the most-recently-listed non-empty certification for
// the given country code, or empty string when the country has none.
func (d *MovieDetail) Certification(countryCode string) string {
	for _, country := range d.ReleaseDates.Results {
		if country.CountryCode != countryCode {
			continue
		}
		// Last non-empty entry wins; providers append newer entries.
		cert := ""
		for _, entry := range country.ReleaseDates {
			if entry.Certification != "" {
				cert = entry.Certification
			}
		}
		return cert
	}
	return ""
}

// NewClient creates a TMDB API client from configuration.
func NewClient(cfg *config.TMDBConfig) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		region:  cfg.Region,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), int(cfg.RequestsPerSecond)),
	}
}

// DiscoverByGenre retrieves one page of movies, optionally filtered to a
// single genre. A genreID of 0 omits the genre filter entirely. Empty
// results mean zero matches, not an error.
func (c *Client) DiscoverByGenre(ctx context.Context, genreID, page int) (*DiscoverPage, error) {
	params := url.Values{}
	params.Set("sort_by", "popularity.desc")
	params.Set("page", strconv.Itoa(page))
	if genreID != 0 {
		params.Set("with_genres", strconv.Itoa(genreID))
	}

	var discoverPage DiscoverPage
	if err := c.get(ctx, "discover", "/discover/movie", params, &discoverPage); err != nil {
		return nil, err
	}
	return &discoverPage, nil
}

// GetDetails retrieves full detail for a movie, including runtime, vote
// average, genre objects, and the per-country certification list.
func (c *Client) GetDetails(ctx context.Context, movieID int) (*MovieDetail, error) {
	params := url.Values{}
	params.Set("append_to_response", "release_dates")

	var detail MovieDetail
	endpoint := fmt.Sprintf("/movie/%d", movieID)
	if err := c.get(ctx, "details", endpoint, params, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// GetGenreList retrieves the catalog's movie genre vocabulary.
func (c *Client) GetGenreList(ctx context.Context) ([]Genre, error) {
	var response struct {
		Genres []Genre `json:"genres"`
	}
	if err := c.get(ctx, "genres", "/genre/movie/list", url.Values{}, &response); err != nil {
		return nil, err
	}
	return response.Genres, nil
}

// SearchByTitle searches movies by title, ordered by provider relevance.
// A year of 0 omits the year filter. Callers typically use only the first
// element as the best match.
func (c *Client) SearchByTitle(ctx context.Context, query string, year int) ([]RawMovie, error) {
	params := url.Values{}
	params.Set("query", query)
	if year != 0 {
		params.Set("year", strconv.Itoa(year))
	}

	var page DiscoverPage
	if err := c.get(ctx, "search", "/search/movie", params, &page); err != nil {
		return nil, err
	}
	return page.Results, nil
}

// get performs a rate-limited GET against the TMDB API and decodes the JSON
// response into out. The API key travels as a query parameter, never logged.
func (c *Client) get(ctx context.Context, operation, endpoint string, params url.Values, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("tmdb %s rate limit wait: %w", operation, err)
	}

	params.Set("api_key", c.apiKey)
	reqURL := c.baseURL + endpoint + "?" + params.Encode()

	start := time.Now()
	err := c.doGet(ctx, operation, reqURL, out)
	metrics.RecordUpstreamRequest("tmdb", operation, time.Since(start), err)
	return err
}

func (c *Client) doGet(ctx context.Context, operation, reqURL string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("tmdb %s request creation failed: %w", operation, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("tmdb %s request failed: %w", operation, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, readErr := io.ReadAll(io.LimitReader(resp.Body, 512))
		if readErr != nil {
			body = []byte("(failed to read body)")
		}
		return &UpstreamError{
			Provider:   "tmdb",
			Operation:  operation,
			StatusCode: resp.StatusCode,
			Body:       string(body),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode tmdb %s response: %w", operation, err)
	}

	return nil
}
