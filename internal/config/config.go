// Moodreel - Playlist-Driven Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodreel

// Package config loads and validates Moodreel configuration using Koanf v2
// with layered sources (highest priority wins):
//
//  1. Built-in defaults
//  2. Config file (config.yaml)
//  3. Environment variables
//
// Provider credentials (TMDB_API_KEY, SPOTIFY_CLIENT_ID, SPOTIFY_CLIENT_SECRET,
// OPENAI_API_KEY) are required and validated at startup; they are never logged.
package config

import "time"

// Config is the root configuration for the Moodreel server.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	TMDB      TMDBConfig      `koanf:"tmdb"`
	Spotify   SpotifyConfig   `koanf:"spotify"`
	LLM       LLMConfig       `koanf:"llm"`
	Recommend RecommendConfig `koanf:"recommend"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host    string        `koanf:"host"`
	Port    int           `koanf:"port"`
	Timeout time.Duration `koanf:"timeout"`

	// Environment is "development" or "production". Development relaxes
	// CORS to allow any origin, matching local frontend workflows.
	Environment string `koanf:"environment"`

	CORSOrigins []string `koanf:"cors_origins"`

	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// TMDBConfig holds movie catalog provider settings.
type TMDBConfig struct {
	APIKey   string `koanf:"api_key"`
	BaseURL  string `koanf:"base_url"`
	ImageURL string `koanf:"image_url"`

	// Region selects which country's certifications map to age ratings.
	Region string `koanf:"region"`

	// RequestsPerSecond bounds outbound call rate. TMDB tolerates ~50 rps.
	RequestsPerSecond float64       `koanf:"requests_per_second"`
	Timeout           time.Duration `koanf:"timeout"`
}

// SpotifyConfig holds playlist provider settings.
type SpotifyConfig struct {
	ClientID     string        `koanf:"client_id"`
	ClientSecret string        `koanf:"client_secret"`
	TokenURL     string        `koanf:"token_url"`
	APIURL       string        `koanf:"api_url"`
	Timeout      time.Duration `koanf:"timeout"`
}

// LLMConfig holds generative model provider settings.
type LLMConfig struct {
	APIKey      string        `koanf:"api_key"`
	Endpoint    string        `koanf:"endpoint"`
	Model       string        `koanf:"model"`
	MaxTokens   int           `koanf:"max_tokens"`
	Temperature float64       `koanf:"temperature"`
	Timeout     time.Duration `koanf:"timeout"`
}

// RecommendConfig holds recommendation pipeline settings.
type RecommendConfig struct {
	// DefaultNumRecs applies when a request omits numRecs.
	DefaultNumRecs int `koanf:"default_num_recs"`

	// PagesAllSelected / PagesFiltered bound the catalog fan-out.
	// Total API calls stay at a predictable ceiling instead of paginating
	// until exhaustion.
	PagesAllSelected int `koanf:"pages_all_selected"`
	PagesFiltered    int `koanf:"pages_filtered"`

	// Mode selects the recommendation strategy: "grounded" (constrained
	// choice from a numbered candidate list) or "freeform" (open answer
	// reconciled against the catalog with bounded correction re-prompts).
	Mode string `koanf:"mode"`

	// CorrectionRetries bounds per-miss re-prompts in freeform mode.
	CorrectionRetries int `koanf:"correction_retries"`

	// DetailCacheTTL is how long catalog detail lookups are cached.
	DetailCacheTTL time.Duration `koanf:"detail_cache_ttl"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// defaultConfig returns a Config with all sensible default values.
// Defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:              "0.0.0.0",
			Port:              5170,
			Timeout:           120 * time.Second, // recommendation requests span many upstream calls
			Environment:       "development",
			CORSOrigins:       []string{"http://localhost:3000", "http://127.0.0.1:3000"},
			RateLimitReqs:     60,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
		},
		TMDB: TMDBConfig{
			APIKey:            "",
			BaseURL:           "https://api.themoviedb.org/3",
			ImageURL:          "https://image.tmdb.org/t/p/w500",
			Region:            "US",
			RequestsPerSecond: 40,
			Timeout:           10 * time.Second,
		},
		Spotify: SpotifyConfig{
			ClientID:     "",
			ClientSecret: "",
			TokenURL:     "https://accounts.spotify.com/api/token",
			APIURL:       "https://api.spotify.com/v1",
			Timeout:      15 * time.Second,
		},
		LLM: LLMConfig{
			APIKey:      "",
			Endpoint:    "https://api.openai.com/v1/chat/completions",
			Model:       "gpt-4o-mini",
			MaxTokens:   2000,
			Temperature: 0.7,
			Timeout:     60 * time.Second,
		},
		Recommend: RecommendConfig{
			DefaultNumRecs:    5,
			PagesAllSelected:  25,
			PagesFiltered:     20,
			Mode:              "grounded",
			CorrectionRetries: 2,
			DetailCacheTTL:    15 * time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}
