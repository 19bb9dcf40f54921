// Moodreel - Playlist-Driven Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodreel

// Package spotify resolves shared playlist links into track listings via the
// Spotify Web API using the client-credentials flow. Only public playlists
// are reachable with app-level credentials; private playlists surface as a
// dedicated error so the API layer can explain the fix to the user.
package spotify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"github.com/tomtom215/moodreel/internal/config"
	"github.com/tomtom215/moodreel/internal/metrics"
	"github.com/tomtom215/moodreel/internal/models"
)

// Sentinel errors for the failure modes a caller is expected to branch on.
var (
	// ErrInvalidLink means the link does not contain a playlist ID.
	ErrInvalidLink = errors.New("invalid playlist link")

	// ErrNotFound means the playlist does not exist or is not visible to
	// app-level credentials.
	ErrNotFound = errors.New("playlist not found")

	// ErrAuth means the provider rejected our credentials.
	ErrAuth = errors.New("playlist provider authentication failed")

	// ErrPrivatePlaylist means the playlist exists but access is forbidden.
	ErrPrivatePlaylist = errors.New("playlist is private")

	// ErrEmptyPlaylist means the playlist resolved but contains no tracks.
	ErrEmptyPlaylist = errors.New("playlist is empty")
)

// playlistIDPattern matches the ID segment of any playlist link variant:
// full web URLs, links with locale prefixes, and links with query strings.
var playlistIDPattern = regexp.MustCompile(`playlist/([a-zA-Z0-9]+)`)

// ClientInterface defines playlist resolution for the pipeline.
type ClientInterface interface {
	Resolve(ctx context.Context, link string) (*models.PlaylistSummary, error)
}

// Ensure Client implements ClientInterface
var _ ClientInterface = (*Client)(nil)

// Client talks to the Spotify Web API. It fetches a fresh client-credentials
// token per resolution; tokens live an hour but resolutions are rare enough
// that caching them buys little.
type Client struct {
	clientID     string
	clientSecret string
	tokenURL     string
	apiURL       string
	httpClient   *http.Client
}

// NewClient creates a Spotify API client from configuration.
func NewClient(cfg *config.SpotifyConfig) *Client {
	return &Client{
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		tokenURL:     cfg.TokenURL,
		apiURL:       strings.TrimSuffix(cfg.APIURL, "/"),
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// ExtractPlaylistID pulls the playlist ID out of a shared link.
// Returns ErrInvalidLink when no ID segment is present.
func ExtractPlaylistID(link string) (string, error) {
	match := playlistIDPattern.FindStringSubmatch(link)
	if match == nil {
		return "", ErrInvalidLink
	}
	return match[1], nil
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
}

type playlistResponse struct {
	Name   string `json:"name"`
	Tracks struct {
		Items []struct {
			Track struct {
				Name    string `json:"name"`
				Artists []struct {
					Name string `json:"name"`
				} `json:"artists"`
			} `json:"track"`
		} `json:"items"`
		Total int `json:"total"`
	} `json:"tracks"`
}

// Resolve fetches the playlist behind a shared link and returns its name and
// track listing. Entries with no track payload (removed or region-blocked
// items) are skipped; a playlist with nothing left returns ErrEmptyPlaylist.
func (c *Client) Resolve(ctx context.Context, link string) (*models.PlaylistSummary, error) {
	playlistID, err := ExtractPlaylistID(link)
	if err != nil {
		return nil, err
	}

	token, err := c.accessToken(ctx)
	if err != nil {
		return nil, err
	}

	playlist, err := c.fetchPlaylist(ctx, playlistID, token)
	if err != nil {
		return nil, err
	}

	tracks := make([]models.TrackRef, 0, len(playlist.Tracks.Items))
	for _, item := range playlist.Tracks.Items {
		if item.Track.Name == "" {
			continue
		}
		artists := make([]string, 0, len(item.Track.Artists))
		for _, artist := range item.Track.Artists {
			artists = append(artists, artist.Name)
		}
		tracks = append(tracks, models.TrackRef{
			Title:       item.Track.Name,
			ArtistNames: artists,
		})
	}

	if len(tracks) == 0 {
		return nil, ErrEmptyPlaylist
	}

	return &models.PlaylistSummary{
		Name:       playlist.Name,
		TrackCount: playlist.Tracks.Total,
		Tracks:     tracks,
	}, nil
}

// accessToken performs the client-credentials exchange. The Basic auth
// header carries the credentials; neither it nor the token is ever logged.
func (c *Client) accessToken(ctx context.Context) (string, error) {
	form := url.Values{}
	form.Set("grant_type", "client_credentials")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("spotify token request creation failed: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(c.clientID, c.clientSecret)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	metrics.RecordUpstreamRequest("spotify", "token", time.Since(start), err)
	if err != nil {
		return "", fmt.Errorf("spotify token request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return "", fmt.Errorf("%w: token endpoint returned status %d", ErrAuth, resp.StatusCode)
	}

	var token tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return "", fmt.Errorf("spotify token response decode failed: %w", err)
	}
	if token.AccessToken == "" {
		return "", fmt.Errorf("%w: token response missing access_token", ErrAuth)
	}
	return token.AccessToken, nil
}

func (c *Client) fetchPlaylist(ctx context.Context, playlistID, token string) (*playlistResponse, error) {
	reqURL := fmt.Sprintf("%s/playlists/%s", c.apiURL, playlistID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("spotify playlist request creation failed: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	metrics.RecordUpstreamRequest("spotify", "playlist", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("spotify playlist request failed: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// fall through to decode
	case http.StatusNotFound:
		io.Copy(io.Discard, resp.Body)
		return nil, ErrNotFound
	case http.StatusUnauthorized:
		io.Copy(io.Discard, resp.Body)
		return nil, ErrAuth
	case http.StatusForbidden:
		io.Copy(io.Discard, resp.Body)
		return nil, ErrPrivatePlaylist
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("spotify playlist fetch returned status %d: %s", resp.StatusCode, string(body))
	}

	var playlist playlistResponse
	if err := json.NewDecoder(resp.Body).Decode(&playlist); err != nil {
		return nil, fmt.Errorf("spotify playlist response decode failed: %w", err)
	}
	return &playlist, nil
}
