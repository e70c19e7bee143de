package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/spotimport/internal/repositories"
	"github.com/desertthunder/spotimport/internal/shared"
	"github.com/urfave/cli/v3"
)

// CacheStats reports the number of cached query → track matches.
func (r *Runner) CacheStats(ctx context.Context, cmd *cli.Command) error {
	repo, closeDB, err := r.cacheRepo()
	if err != nil {
		return err
	}
	defer closeDB()

	count, err := repo.Count()
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(map[string]any{
			"entries": count,
			"path":    r.config.Database.Path,
		}, true)
	}

	r.writePlain("Match cache: %d entries (%s)\n", count, r.config.Database.Path)
	return nil
}

// CacheClear removes every cached match.
func (r *Runner) CacheClear(ctx context.Context, cmd *cli.Command) error {
	repo, closeDB, err := r.cacheRepo()
	if err != nil {
		return err
	}
	defer closeDB()

	if err := repo.Clear(); err != nil {
		return err
	}

	r.logger.Info("match cache cleared", "path", r.config.Database.Path)
	r.writePlain("✓ Match cache cleared\n")
	return nil
}

func (r *Runner) cacheRepo() (*repositories.MatchCacheRepository, func(), error) {
	if r.config.Database.Path == "" {
		return nil, nil, fmt.Errorf("%w: no database path configured", shared.ErrInvalidConfig)
	}

	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database (run 'spotimport setup' first): %w", err)
	}

	return repositories.NewMatchCacheRepository(db), func() { db.Close() }, nil
}
