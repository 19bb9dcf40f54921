// Moodreel - Playlist-Driven Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodreel

package recommend

import (
	"fmt"
	"strings"

	"github.com/tomtom215/moodreel/internal/models"
)

// systemPrompt frames the model's role for both recommendation modes.
const systemPrompt = "You are a movie recommendation expert. Provide thoughtful, well-reasoned movie suggestions based on music playlists."

// maxReasonLength bounds the per-movie justification the model is asked
// to produce.
const maxReasonLength = 700

// buildGroundedPrompt constructs the constrained-choice prompt: the
// playlist's full track list plus a numbered candidate list the model must
// pick from. The 1-based display number is the model's handle; catalog IDs
// mean nothing to it and titles may collide across years.
func buildGroundedPrompt(playlist *models.PlaylistSummary, candidates []models.CandidateMovie, numRecs int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Spotify playlist: %q (%d songs)\n\nTracks:\n", playlist.Name, playlist.TrackCount)
	for _, track := range playlist.Tracks {
		fmt.Fprintf(&b, "- %s by %s\n", track.Title, strings.Join(track.ArtistNames, ", "))
	}

	b.WriteString("\nCandidate movies (you may ONLY choose from this list):\n")
	for i, c := range candidates {
		fmt.Fprintf(&b, "%d. %s (%d) - %s | %d min | rated %s | %.1f/10 | %s\n",
			i+1, c.Title, c.Year, genreNameList(c.Genres), c.RuntimeMinutes, c.AgeRating, c.VoteAverage, c.OverviewText)
	}

	fmt.Fprintf(&b, `
Choose exactly %d movies from the numbered list above that best match the playlist's mood and themes. Do not invent titles; do not choose anything outside the list.

Respond with a JSON array of objects, each with "number" (the list number), "title" (copied exactly from the list), "year", and "reason" properties. Each reason must be under %d characters and must explicitly tie the choice to specific tracks or themes from the playlist.
`, numRecs, maxReasonLength)

	return b.String()
}

// buildFreeformPrompt mirrors the open-answer strategy: the model may
// suggest any movie, and the engine reconciles picks against the catalog
// afterwards.
func buildFreeformPrompt(playlist *models.PlaylistSummary, numRecs int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Based on this Spotify playlist: %q with %d songs, recommend %d movies that match the mood and themes.\n\nTracks:\n",
		playlist.Name, playlist.TrackCount, numRecs)
	for _, track := range playlist.Tracks {
		fmt.Fprintf(&b, "- %s by %s\n", track.Title, strings.Join(track.ArtistNames, ", "))
	}

	fmt.Fprintf(&b, `
For each movie, provide the title, release year, and a brief explanation of why it matches the playlist's vibe.

Format the response as a JSON array of objects with "title", "year", and "reason" properties. Each reason must be under %d characters.
`, maxReasonLength)

	return b.String()
}

// buildCorrectionPrompt asks for a single replacement pick after a
// freeform suggestion could not be found in the catalog.
func buildCorrectionPrompt(playlist *models.PlaylistSummary, rejected string, excluded []string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Your earlier suggestion %q for the playlist %q could not be verified against the movie catalog.\n", rejected, playlist.Name)
	fmt.Fprintf(&b, "Suggest exactly one different, well-known movie that matches the playlist's mood.")
	if len(excluded) > 0 {
		fmt.Fprintf(&b, " Do not suggest any of: %s.", strings.Join(excluded, ", "))
	}
	fmt.Fprintf(&b, "\n\nRespond with a JSON array containing a single object with \"title\", \"year\", and \"reason\" properties.\n")

	return b.String()
}

// genreNameList renders a candidate's genres as comma-joined names.
func genreNameList(genres []models.Genre) string {
	names := make([]string, 0, len(genres))
	for _, g := range genres {
		names = append(names, g.Name)
	}
	return strings.Join(names, ", ")
}

// FilterDisplayText renders a selection as human-readable filter text.
// Unrecognized genre IDs are silently dropped.
func FilterDisplayText(sel models.FilterSelection) string {
	genres := make([]string, 0, len(sel.SelectedGenres))
	for _, id := range sel.SelectedGenres {
		if name, ok := GenreNames[id]; ok {
			genres = append(genres, name)
		}
	}

	parts := []string{
		"genres: " + strings.Join(genres, ", "),
		"age ratings: " + strings.Join(sel.SelectedAgeRatings, ", "),
		"runtime: " + strings.Join(sel.SelectedRuntime, ", "),
		"ratings: " + strings.Join(sel.SelectedRatings, ", "),
	}
	return strings.Join(parts, "; ")
}
