// Moodreel - Playlist-Driven Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodreel

package recommend

import "testing"

func TestExtractJSONArray(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		want      string
		wantFound bool
	}{
		{
			name:      "pure array",
			text:      `[{"title": "Heat"}]`,
			want:      `[{"title": "Heat"}]`,
			wantFound: true,
		},
		{
			name:      "array with leading prose",
			text:      "Here are my picks:\n[1, 2, 3]\nEnjoy!",
			want:      "[1, 2, 3]",
			wantFound: true,
		},
		{
			name:      "markdown fenced array",
			text:      "```json\n[{\"title\": \"Heat\"}]\n```",
			want:      `[{"title": "Heat"}]`,
			wantFound: true,
		},
		{
			name:      "nested arrays stay balanced",
			text:      `result: [[1, 2], [3, 4]] end`,
			want:      `[[1, 2], [3, 4]]`,
			wantFound: true,
		},
		{
			name:      "brackets inside strings ignored",
			text:      `[{"reason": "the track [live] fits ]["}]`,
			want:      `[{"reason": "the track [live] fits ]["}]`,
			wantFound: true,
		},
		{
			name:      "escaped quote inside string",
			text:      `[{"reason": "she said \"go\" ]"}]`,
			want:      `[{"reason": "she said \"go\" ]"}]`,
			wantFound: true,
		},
		{
			name:      "only first top-level array returned",
			text:      `[1] and [2]`,
			want:      `[1]`,
			wantFound: true,
		},
		{
			name:      "prose without array",
			text:      "I recommend watching Heat and Collateral.",
			wantFound: false,
		},
		{
			name:      "unbalanced open bracket",
			text:      `[{"title": "Heat"`,
			wantFound: false,
		},
		{
			name:      "empty input",
			text:      "",
			wantFound: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := extractJSONArray(tt.text)
			if found != tt.wantFound {
				t.Fatalf("found = %v, want %v", found, tt.wantFound)
			}
			if got != tt.want {
				t.Errorf("extractJSONArray() = %q, want %q", got, tt.want)
			}
		})
	}
}
