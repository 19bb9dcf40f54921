// Moodreel - Playlist-Driven Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodreel

// Package recommend implements the recommendation pipeline: candidate
// resolution against the movie catalog, grounded prompt construction,
// model output parsing and validation, and the orchestration that ties
// playlist resolution to the final recommendation list.
//
// The pipeline is strict about model output. Every returned title must map
// back to a candidate the model was shown, and the result count must match
// the requested count exactly. Grounding failures are all-or-nothing; the
// engine never pads, truncates, or silently drops invalid picks.
package recommend
