// package services defines interface Service for the remote music-service
// boundary consumed by the import pipeline.
package services

import (
	"context"
)

// Submission limits imposed by the remote service, per destination.
const (
	PlaylistAddLimit = 100 // max track IDs per playlist-add call
	LibraryAddLimit  = 50  // max track IDs per library-add call
)

// Service defines the operations the importer needs from a music service:
// an authenticated session, track search, and the two batch submission calls.
type Service interface {
	// Authenticate establishes an authenticated session.
	// Expects either an "access_token" or "auth_code" in credentials.
	Authenticate(ctx context.Context, credentials map[string]string) error

	// CurrentUserID returns the authenticated user's ID.
	CurrentUserID(ctx context.Context) (string, error)

	// Search queries the service for tracks matching query.
	// A non-positive limit uses the service default result count.
	Search(ctx context.Context, query string, limit int) ([]Candidate, error)

	// CreatePlaylist creates a playlist owned by userID.
	CreatePlaylist(ctx context.Context, userID, name string, public bool) (*Playlist, error)

	// AddToPlaylist appends up to [PlaylistAddLimit] track IDs to a playlist.
	AddToPlaylist(ctx context.Context, playlistID string, trackIDs []string) error

	// AddToLibrary saves up to [LibraryAddLimit] track IDs to the user's library.
	AddToLibrary(ctx context.Context, trackIDs []string) error

	// Name returns the name of the service (e.g., "Spotify")
	Name() string
}

// Candidate is one track returned by a search, in result order.
type Candidate struct {
	ID      string   // opaque track identifier
	Title   string   // display name
	Artists []string // artist names, in service order
	Album   string   // album name
}

// Playlist represents a playlist handle on the remote service.
type Playlist struct {
	ID     string
	Name   string
	Public bool
}
