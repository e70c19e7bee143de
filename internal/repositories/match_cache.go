package repositories

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/desertthunder/spotimport/internal/services"
	"github.com/desertthunder/spotimport/internal/shared"
)

// MatchCacheRepository stores resolved query → track matches in SQLite.
//
// Queries are cached post-normalization, so the key is exactly the string
// sent to the remote search. Duplicate inserts are silently ignored
// (UNIQUE constraint on query).
type MatchCacheRepository struct {
	db *sql.DB
}

// NewMatchCacheRepository creates a repository over an open database.
func NewMatchCacheRepository(db *sql.DB) *MatchCacheRepository {
	return &MatchCacheRepository{db: db}
}

// Get returns the cached candidate for query, or ok=false on a miss.
func (r *MatchCacheRepository) Get(query string) (services.Candidate, bool, error) {
	row := r.db.QueryRow(`
		SELECT track_id, title, artists, album
		FROM match_cache
		WHERE query = ?
	`, query)

	var c services.Candidate
	var artists string
	err := row.Scan(&c.ID, &c.Title, &artists, &c.Album)
	if err == sql.ErrNoRows {
		return services.Candidate{}, false, nil
	}
	if err != nil {
		return services.Candidate{}, false, fmt.Errorf("failed to read match cache: %w", err)
	}

	if artists != "" {
		c.Artists = strings.Split(artists, ", ")
	}
	return c, true, nil
}

// Put records a resolved match. Returns nil if the query is already cached.
func (r *MatchCacheRepository) Put(query string, c services.Candidate) error {
	_, err := r.db.Exec(`
		INSERT INTO match_cache (id, query, track_id, title, artists, album)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		shared.GenerateID(),
		query,
		c.ID,
		c.Title,
		strings.Join(c.Artists, ", "),
		c.Album,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return nil
		}
		return fmt.Errorf("failed to cache match: %w", err)
	}

	return nil
}

// Count returns the number of cached matches.
func (r *MatchCacheRepository) Count() (int, error) {
	var count int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM match_cache").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count match cache: %w", err)
	}
	return count, nil
}

// Clear removes every cached match.
func (r *MatchCacheRepository) Clear() error {
	if _, err := r.db.Exec("DELETE FROM match_cache"); err != nil {
		return fmt.Errorf("failed to clear match cache: %w", err)
	}
	return nil
}
