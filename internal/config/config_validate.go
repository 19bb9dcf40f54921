// Moodreel - Playlist-Driven Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodreel

package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Validate checks that required configuration is present and valid.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}

	if err := c.validateTMDB(); err != nil {
		return err
	}

	if err := c.validateSpotify(); err != nil {
		return err
	}

	if err := c.validateLLM(); err != nil {
		return err
	}

	if err := c.validateRecommend(); err != nil {
		return err
	}

	return c.validateLogging()
}

// validateServer validates HTTP server configuration.
func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Environment != "development" && c.Server.Environment != "production" {
		return fmt.Errorf("ENVIRONMENT must be development or production, got %q", c.Server.Environment)
	}
	if c.Server.Environment == "production" && len(c.Server.CORSOrigins) == 0 {
		return fmt.Errorf("SERVER_CORS_ORIGINS is required in production")
	}
	return nil
}

// validateTMDB validates movie catalog provider configuration.
func (c *Config) validateTMDB() error {
	if c.TMDB.APIKey == "" {
		return fmt.Errorf("TMDB_API_KEY is required")
	}
	if err := validateHTTPURL(c.TMDB.BaseURL, "TMDB_BASE_URL"); err != nil {
		return err
	}
	if err := validateHTTPURL(c.TMDB.ImageURL, "TMDB_IMAGE_URL"); err != nil {
		return err
	}
	if c.TMDB.RequestsPerSecond <= 0 {
		return fmt.Errorf("TMDB_REQUESTS_PER_SECOND must be positive, got %f", c.TMDB.RequestsPerSecond)
	}
	return nil
}

// validateSpotify validates playlist provider configuration.
func (c *Config) validateSpotify() error {
	if c.Spotify.ClientID == "" {
		return fmt.Errorf("SPOTIFY_CLIENT_ID is required")
	}
	if c.Spotify.ClientSecret == "" {
		return fmt.Errorf("SPOTIFY_CLIENT_SECRET is required")
	}
	if err := validateHTTPURL(c.Spotify.TokenURL, "SPOTIFY_TOKEN_URL"); err != nil {
		return err
	}
	return validateHTTPURL(c.Spotify.APIURL, "SPOTIFY_API_URL")
}

// validateLLM validates generative model provider configuration.
func (c *Config) validateLLM() error {
	if c.LLM.APIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required")
	}
	if c.LLM.Model == "" {
		return fmt.Errorf("OPENAI_MODEL must not be empty")
	}
	if c.LLM.MaxTokens < 1 {
		return fmt.Errorf("OPENAI_MAX_TOKENS must be positive, got %d", c.LLM.MaxTokens)
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return fmt.Errorf("OPENAI_TEMPERATURE must be between 0 and 2, got %f", c.LLM.Temperature)
	}
	return validateHTTPURL(c.LLM.Endpoint, "OPENAI_ENDPOINT")
}

// validateRecommend validates recommendation pipeline configuration.
func (c *Config) validateRecommend() error {
	if c.Recommend.DefaultNumRecs < 1 {
		return fmt.Errorf("RECOMMEND_DEFAULT_NUM_RECS must be positive, got %d", c.Recommend.DefaultNumRecs)
	}
	if c.Recommend.PagesAllSelected < 1 || c.Recommend.PagesFiltered < 1 {
		return fmt.Errorf("page ceilings must be positive, got all=%d filtered=%d",
			c.Recommend.PagesAllSelected, c.Recommend.PagesFiltered)
	}
	if c.Recommend.Mode != "grounded" && c.Recommend.Mode != "freeform" {
		return fmt.Errorf("RECOMMEND_MODE must be grounded or freeform, got %q", c.Recommend.Mode)
	}
	if c.Recommend.CorrectionRetries < 0 {
		return fmt.Errorf("RECOMMEND_CORRECTION_RETRIES must not be negative, got %d", c.Recommend.CorrectionRetries)
	}
	if c.Recommend.DetailCacheTTL < 0 {
		return fmt.Errorf("RECOMMEND_DETAIL_CACHE_TTL must not be negative, got %s", c.Recommend.DetailCacheTTL)
	}
	return nil
}

// validateLogging validates logging configuration.
func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal", "disabled":
	default:
		return fmt.Errorf("LOG_LEVEL must be a valid level, got %q", c.Logging.Level)
	}

	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}

	return nil
}

// validateHTTPURL checks that a value parses as an absolute http(s) URL.
func validateHTTPURL(raw, name string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s is invalid: %w", name, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s must use http or https scheme, got %q", name, raw)
	}
	if u.Host == "" {
		return fmt.Errorf("%s must include a host, got %q", name, raw)
	}
	return nil
}
