// Moodreel - Playlist-Driven Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodreel

/*
Package api provides the HTTP layer for Moodreel.

It exposes a small surface: one streaming recommendation endpoint, the
genre vocabulary, a poster image proxy, health probes, and Prometheus
metrics.

Key Components:

  - Router: Chi route configuration and middleware stack integration
  - Handler: request handlers for all endpoints
  - SSE streaming: POST /api/v1/playlist emits stage events while the
    pipeline runs, then a final payload or error event
  - Error handling: domain errors mapped to stable machine-readable codes
  - Rate limiting and CORS via the go-chi ecosystem

Endpoints:

  - POST /api/v1/playlist - run a recommendation request (SSE stream)
  - GET  /api/v1/genres - catalog genre vocabulary for the filter UI
  - GET  /api/v1/movies/proxy/poster/* - same-origin poster images
  - GET  /api/v1/health, /health/live, /health/ready - health probes
  - GET  /metrics - Prometheus metrics

Errors never change HTTP status once the SSE stream has started; they are
delivered as {"error": message} events instead.
*/
package api
