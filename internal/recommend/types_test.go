// Moodreel - Playlist-Driven Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodreel

package recommend

import (
	"errors"
	"testing"

	"github.com/tomtom215/moodreel/internal/models"
)

func allGenreIDs() []int {
	ids := make([]int, 0, len(GenreNames))
	for id := range GenreNames {
		ids = append(ids, id)
	}
	return ids
}

func fullSelection() models.FilterSelection {
	return models.FilterSelection{
		SelectedGenres:     allGenreIDs(),
		SelectedAgeRatings: append([]string(nil), AgeRatings...),
		SelectedRuntime:    append([]string(nil), RuntimeBuckets...),
		SelectedRatings:    append([]string(nil), RatingBuckets...),
	}
}

func TestIsAllSelected(t *testing.T) {
	t.Run("full vocabulary", func(t *testing.T) {
		if !IsAllSelected(fullSelection()) {
			t.Error("IsAllSelected(full) = false, want true")
		}
	})

	t.Run("one genre missing", func(t *testing.T) {
		sel := fullSelection()
		trimmed := make([]int, 0, len(sel.SelectedGenres)-1)
		for _, id := range sel.SelectedGenres {
			if id != 27 {
				trimmed = append(trimmed, id)
			}
		}
		sel.SelectedGenres = trimmed

		if IsAllSelected(sel) {
			t.Error("IsAllSelected(missing Horror) = true, want false")
		}
	})

	t.Run("one rating bucket missing", func(t *testing.T) {
		sel := fullSelection()
		sel.SelectedRatings = []string{RatingLow, RatingMedium, RatingHigh}

		if IsAllSelected(sel) {
			t.Error("IsAllSelected(missing excellent) = true, want false")
		}
	})
}

func TestValidateSelection(t *testing.T) {
	tests := []struct {
		name          string
		mutate        func(*models.FilterSelection)
		wantDimension string
	}{
		{
			name:   "complete selection passes",
			mutate: func(sel *models.FilterSelection) {},
		},
		{
			name:          "empty genres",
			mutate:        func(sel *models.FilterSelection) { sel.SelectedGenres = nil },
			wantDimension: "genres",
		},
		{
			name:          "empty age ratings",
			mutate:        func(sel *models.FilterSelection) { sel.SelectedAgeRatings = nil },
			wantDimension: "ageRatings",
		},
		{
			name:          "empty runtime",
			mutate:        func(sel *models.FilterSelection) { sel.SelectedRuntime = nil },
			wantDimension: "runtime",
		},
		{
			name:          "empty ratings",
			mutate:        func(sel *models.FilterSelection) { sel.SelectedRatings = nil },
			wantDimension: "ratings",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel := fullSelection()
			tt.mutate(&sel)

			err := ValidateSelection(sel)
			if tt.wantDimension == "" {
				if err != nil {
					t.Errorf("ValidateSelection() error = %v, want nil", err)
				}
				return
			}

			var validationErr *ValidationError
			if !errors.As(err, &validationErr) {
				t.Fatalf("error type = %T, want *ValidationError", err)
			}
			if validationErr.Dimension != tt.wantDimension {
				t.Errorf("Dimension = %q, want %q", validationErr.Dimension, tt.wantDimension)
			}
		})
	}
}
