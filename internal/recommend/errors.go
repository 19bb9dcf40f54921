// Moodreel - Playlist-Driven Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodreel

package recommend

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the candidate-set failure modes. Both surface to the
// user as "no movies matched your preferences", distinct from upstream
// failure.
var (
	// ErrNoCandidates means the resolver produced an empty candidate set.
	ErrNoCandidates = errors.New("no movies matched the selected filters")

	// ErrNoValidCandidates means candidates existed but none had the
	// complete attribute set required for prompting.
	ErrNoValidCandidates = errors.New("no complete candidates available for recommendation")
)

// ValidationError reports an empty filter dimension. Raised before any
// network call is made.
type ValidationError struct {
	Dimension string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("filter dimension %q has no selections", e.Dimension)
}

// ParseError means the model's response did not contain a decodable JSON
// array. The raw cause is kept for diagnostics but never shown to users.
type ParseError struct {
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("model response unparsable: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("model response unparsable: %s", e.Reason)
}

func (e *ParseError) Unwrap() error { return e.Err }

// UngroundedError means the model returned one or more titles that are not
// in the candidate list it was shown. Partial acceptance is not permitted,
// so the whole request fails even when other entries were valid.
type UngroundedError struct {
	Titles []string
}

func (e *UngroundedError) Error() string {
	return fmt.Sprintf("model selected titles outside the candidate list: %s", strings.Join(e.Titles, ", "))
}

// CountMismatchError means the validated result count differs from the
// requested count. The engine never pads or truncates to compensate.
type CountMismatchError struct {
	Want int
	Got  int
}

func (e *CountMismatchError) Error() string {
	return fmt.Sprintf("expected %d recommendations, model produced %d", e.Want, e.Got)
}
