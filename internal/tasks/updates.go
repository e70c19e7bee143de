package tasks

import (
	"fmt"

	"github.com/desertthunder/spotimport/internal/services"
)

// ProgressUpdate represents a progress event during an import run.
//
// Used to send real-time updates to the CLI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data
}

// Operation phase enumeration
type Phase int

const (
	SearchTracks Phase = iota
	MatchFailed
	CreatePlaylist
	SubmitBatch
	Summary
)

func (p Phase) String() string {
	switch p {
	case SearchTracks:
		return "search_tracks"
	case MatchFailed:
		return "match_failed"
	case CreatePlaylist:
		return "create_playlist"
	case SubmitBatch:
		return "submit_batch"
	case Summary:
		return "summary"
	default:
		return ""
	}
}

func searchTrackUpdate(step, total int, query string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SearchTracks,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Searching for %q...", query),
	}
}

func matchedUpdate(step, total int, query, trackID string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SearchTracks,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Matched %q", query),
		Data:    trackID,
	}
}

func matchFailedUpdate(step, total int, query string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   MatchFailed,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Couldn't find anything for %q", query),
		Data:    query,
	}
}

func createPlaylistUpdate(pl *services.Playlist) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CreatePlaylist,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Playlist created: %s (ID: %s)", pl.Name, pl.ID),
		Data:    pl,
	}
}

func submitBatchUpdate(count int, dest Destination) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SubmitBatch,
		Message: fmt.Sprintf("Added %d tracks to %s", count, dest),
		Data:    count,
	}
}

func summaryUpdate(saved, failed int, dest Destination) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Summary,
		Message: fmt.Sprintf("Saved a total of %d tracks to %s, failed to add %d songs", saved, dest, failed),
	}
}
