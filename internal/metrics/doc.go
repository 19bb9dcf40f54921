// Moodreel - Playlist-Driven Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodreel

// Package metrics provides Prometheus instrumentation for Moodreel.
//
// All metrics are registered via promauto at package load and exposed on the
// /metrics endpoint. Helper functions (RecordAPIRequest, RecordUpstreamRequest,
// RecordPipelineStage) keep label cardinality under control; callers never
// construct label values from unbounded user input.
package metrics
