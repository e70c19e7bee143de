package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/desertthunder/spotimport/internal/match"
	"github.com/desertthunder/spotimport/internal/repositories"
	"github.com/desertthunder/spotimport/internal/shared"
	"github.com/desertthunder/spotimport/internal/songlist"
	"github.com/desertthunder/spotimport/internal/tasks"
	"github.com/urfave/cli/v3"
)

// ImportLibrary imports a songs file into the user's saved tracks.
func (r *Runner) ImportLibrary(ctx context.Context, cmd *cli.Command) error {
	return r.runImport(ctx, cmd, tasks.DestLibrary, "")
}

// ImportPlaylist imports a songs file into a newly created playlist.
//
// The playlist name defaults to "Imported Playlist on <timestamp>" when the
// optional name argument is omitted.
func (r *Runner) ImportPlaylist(ctx context.Context, cmd *cli.Command) error {
	name := cmd.StringArg("name")
	if name == "" {
		name = fmt.Sprintf("Imported Playlist on %s", time.Now().Format(time.RFC3339))
	}
	return r.runImport(ctx, cmd, tasks.DestPlaylist, name)
}

// runImport drives one import run: configuration checks first, then input
// parsing, then authentication, then the pipeline.
func (r *Runner) runImport(ctx context.Context, cmd *cli.Command, dest tasks.Destination, playlistName string) error {
	username := cmd.StringArg("username")
	songsPath := cmd.StringArg("songs")

	if username == "" || songsPath == "" {
		return fmt.Errorf("%w: usage: spotimport %s <username> <songs file>", shared.ErrMissingArgument, dest)
	}

	// Input is read and validated in full before any remote call, so an
	// unsupported extension or a malformed CSV header fails fast.
	source, err := songlist.Read(songsPath)
	if err != nil {
		return err
	}

	if r.spotify == nil {
		return fmt.Errorf("%w: Spotify service not initialized (set credentials in config.toml or .env)", shared.ErrServiceUnavailable)
	}

	if err := r.spotify.Authenticate(ctx, r.config.Credentials.Spotify.Map()); err != nil {
		return fmt.Errorf("%w: run 'spotimport auth' first: %v", shared.ErrNotAuthenticated, err)
	}

	failedPath := cmd.String("failed")
	if failedPath == "" {
		failedPath = r.config.Importer.FailureLog
	}
	if failedPath == "" {
		failedPath = "failed.txt"
	}
	failures, err := tasks.OpenFailureLog(failedPath)
	if err != nil {
		return err
	}
	defer failures.Close()

	cache, closeCache := r.openCache(cmd)
	if closeCache != nil {
		defer closeCache()
	}

	r.logger.Info("starting import",
		"user", username,
		"songs", songsPath,
		"format", source.Format,
		"destination", dest,
		"requests", len(source.Requests),
	)

	engine := tasks.NewImportEngine(tasks.EngineOpts{
		Service:      r.spotify,
		Normalizer:   match.NewNormalizer(r.config.Importer.BadWords),
		Cache:        cache,
		Destination:  dest,
		PlaylistName: playlistName,
		SearchLimit:  r.config.Importer.SearchLimit,
	})

	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			switch update.Phase {
			case tasks.SearchTracks:
				r.writePlain("   %s\n", update.Message)
			case tasks.MatchFailed:
				r.writePlain(" ✗ %s\n", update.Message)
			case tasks.CreatePlaylist:
				r.writePlain("\n📝 %s\n", update.Message)
			case tasks.SubmitBatch:
				r.writePlain("✓ %s\n", update.Message)
			}
		}
	}()

	result, err := engine.Run(ctx, source, failures, progressCh)
	close(progressCh)
	<-done

	if err != nil {
		return err
	}

	r.writePlain("\n")
	r.writePlainHeader("Import Complete")
	r.writePlain("Saved a total of %d tracks to %s, failed to add %d songs (see %s)\n",
		result.Saved, dest, result.Failed, failures.Path())
	if result.Skipped > 0 {
		r.writePlain("Skipped %d blank lines\n", result.Skipped)
	}
	if result.Playlist != nil {
		r.writePlain("Playlist: %s (ID: %s)\n", result.Playlist.Name, result.Playlist.ID)
	}

	r.logger.Info("import finished", "saved", result.Saved, "failed", result.Failed, "batches", result.Batches)
	return nil
}

// openCache opens the match cache when configured and not disabled.
// Returns a nil cache when unavailable; imports proceed without it.
func (r *Runner) openCache(cmd *cli.Command) (tasks.TrackCacher, func()) {
	if cmd.Bool("no-cache") || r.config.Database.Path == "" {
		return nil, nil
	}

	if _, err := os.Stat(r.config.Database.Path); err != nil {
		r.logger.Debug("match cache database not found, continuing without cache", "path", r.config.Database.Path)
		return nil, nil
	}

	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		r.logger.Warn("failed to open match cache, continuing without cache", "error", err)
		return nil, nil
	}

	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)
	return repositories.NewMatchCacheRepository(db), func() { db.Close() }
}
