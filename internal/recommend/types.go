// Moodreel - Playlist-Driven Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodreel

package recommend

import "github.com/tomtom215/moodreel/internal/models"

// GenreNames maps catalog genre IDs to display names. The vocabulary is
// fixed by the catalog provider; unrecognized IDs are still queryable but
// dropped from human-readable filter text.
var GenreNames = map[int]string{
	28:    "Action",
	12:    "Adventure",
	16:    "Animation",
	35:    "Comedy",
	80:    "Crime",
	99:    "Documentary",
	18:    "Drama",
	10751: "Family",
	14:    "Fantasy",
	36:    "History",
	27:    "Horror",
	10402: "Music",
	9648:  "Mystery",
	10749: "Romance",
	878:   "Science Fiction",
	10770: "TV Movie",
	53:    "Thriller",
	10752: "War",
	37:    "Western",
}

// Runtime bucket names.
const (
	RuntimeShort  = "short"
	RuntimeMedium = "medium"
	RuntimeLong   = "long"
)

// Rating bucket names.
const (
	RatingLow       = "low"
	RatingMedium    = "medium"
	RatingHigh      = "high"
	RatingExcellent = "excellent"
)

// AgeRatings is the full age-rating vocabulary, in display order.
var AgeRatings = []string{"G", "PG", "PG-13", "R"}

// RuntimeBuckets is the full runtime vocabulary, in display order.
var RuntimeBuckets = []string{RuntimeShort, RuntimeMedium, RuntimeLong}

// RatingBuckets is the full rating vocabulary, in display order.
var RatingBuckets = []string{RatingLow, RatingMedium, RatingHigh, RatingExcellent}

// stringSet builds a membership set from a slice.
func stringSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}

// intSet builds a membership set from a slice.
func intSet(values []int) map[int]bool {
	set := make(map[int]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}

// coversVocabulary reports whether the selection includes every value of
// the vocabulary. Extra unknown selections do not disqualify coverage.
func coversVocabulary(selected map[string]bool, vocabulary []string) bool {
	for _, v := range vocabulary {
		if !selected[v] {
			return false
		}
	}
	return true
}

// coversAllGenres reports whether the genre selection includes every known
// genre ID. Extra unknown IDs do not disqualify coverage.
func coversAllGenres(selected []int) bool {
	genres := intSet(selected)
	for id := range GenreNames {
		if !genres[id] {
			return false
		}
	}
	return true
}

// IsAllSelected reports whether every dimension's selection covers its full
// known vocabulary. When true, the resolver skips predicate filtering
// entirely and accepts every detailed candidate.
func IsAllSelected(sel models.FilterSelection) bool {
	return coversAllGenres(sel.SelectedGenres) &&
		coversVocabulary(stringSet(sel.SelectedAgeRatings), AgeRatings) &&
		coversVocabulary(stringSet(sel.SelectedRuntime), RuntimeBuckets) &&
		coversVocabulary(stringSet(sel.SelectedRatings), RatingBuckets)
}

// ValidateSelection fails fast when any filter dimension is empty, before
// any network I/O happens.
func ValidateSelection(sel models.FilterSelection) error {
	if len(sel.SelectedGenres) == 0 {
		return &ValidationError{Dimension: "genres"}
	}
	if len(sel.SelectedAgeRatings) == 0 {
		return &ValidationError{Dimension: "ageRatings"}
	}
	if len(sel.SelectedRuntime) == 0 {
		return &ValidationError{Dimension: "runtime"}
	}
	if len(sel.SelectedRatings) == 0 {
		return &ValidationError{Dimension: "ratings"}
	}
	return nil
}
