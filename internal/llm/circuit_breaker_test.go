// Moodreel - Playlist-Driven Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodreel

package llm

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/moodreel/internal/config"
)

func TestCircuitBreakerClientPassesThrough(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices": [{"message": {"role": "assistant", "content": "here are some movies"}}]}`))
	}))
	defer server.Close()

	cbc := NewCircuitBreakerClient(&config.LLMConfig{
		APIKey:      "test-key",
		Endpoint:    server.URL,
		Model:       "gpt-4o-mini",
		MaxTokens:   2000,
		Temperature: 0.7,
		Timeout:     5 * time.Second,
	})

	text, err := cbc.Complete(context.Background(), "system", "user")
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if text != "here are some movies" {
		t.Errorf("text = %q, want completion content", text)
	}
}

func TestCircuitBreakerClientPropagatesErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	cbc := NewCircuitBreakerClient(&config.LLMConfig{
		APIKey:   "test-key",
		Endpoint: server.URL,
		Model:    "gpt-4o-mini",
		Timeout:  5 * time.Second,
	})

	if _, err := cbc.Complete(context.Background(), "system", "user"); err == nil {
		t.Error("error = nil, want upstream failure")
	}
}

func TestLLMStateConversions(t *testing.T) {
	states := []struct {
		state     gobreaker.State
		wantFloat float64
		wantStr   string
	}{
		{gobreaker.StateClosed, 0, "closed"},
		{gobreaker.StateHalfOpen, 1, "half-open"},
		{gobreaker.StateOpen, 2, "open"},
	}

	for _, tt := range states {
		if got := stateToFloat(tt.state); got != tt.wantFloat {
			t.Errorf("stateToFloat(%v) = %v, want %v", tt.state, got, tt.wantFloat)
		}
		if got := stateToString(tt.state); got != tt.wantStr {
			t.Errorf("stateToString(%v) = %q, want %q", tt.state, got, tt.wantStr)
		}
	}
}
