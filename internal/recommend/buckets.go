// Moodreel - Playlist-Driven Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodreel

package recommend

// RuntimeBucketFor classifies a runtime in minutes. Boundaries are
// user-visible filter semantics: exactly 60 is medium, exactly 120 is
// medium.
func RuntimeBucketFor(minutes int) string {
	switch {
	case minutes < 60:
		return RuntimeShort
	case minutes <= 120:
		return RuntimeMedium
	default:
		return RuntimeLong
	}
}

// RatingBucketFor classifies a vote average. Buckets are inclusive on the
// upper edge: exactly 5.0 is low, 7.0 is medium, 8.0 is high.
func RatingBucketFor(voteAverage float64) string {
	switch {
	case voteAverage <= 5:
		return RatingLow
	case voteAverage <= 7:
		return RatingMedium
	case voteAverage <= 8:
		return RatingHigh
	default:
		return RatingExcellent
	}
}

// matchesRuntime reports whether the runtime falls in any selected bucket.
func matchesRuntime(minutes int, selected map[string]bool) bool {
	return selected[RuntimeBucketFor(minutes)]
}

// matchesRating reports whether the vote average falls in any selected
// bucket.
func matchesRating(voteAverage float64, selected map[string]bool) bool {
	return selected[RatingBucketFor(voteAverage)]
}

// matchesAgeRating reports whether the certification is a selected age
// rating. A missing certification never matches; unrated movies are
// excluded rather than treated as wildcards.
func matchesAgeRating(certification string, selected map[string]bool) bool {
	if certification == "" {
		return false
	}
	return selected[certification]
}
