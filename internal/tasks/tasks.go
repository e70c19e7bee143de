// package tasks implements the song import pipeline.
//
// The core abstraction is ImportEngine, which walks an input source once:
// normalize → search → select → accumulate, submitting full batches as they
// fill and recording per-item failures without aborting the run. Operations
// emit progress updates via channels for non-blocking status reporting to
// the CLI layer.
package tasks

import (
	"context"
	"fmt"

	"github.com/desertthunder/spotimport/internal/match"
	"github.com/desertthunder/spotimport/internal/services"
	"github.com/desertthunder/spotimport/internal/shared"
	"github.com/desertthunder/spotimport/internal/songlist"
)

// Destination is where matched tracks are saved, chosen once per run.
type Destination int

const (
	DestLibrary Destination = iota
	DestPlaylist
)

func (d Destination) String() string {
	switch d {
	case DestLibrary:
		return "library"
	case DestPlaylist:
		return "playlist"
	default:
		return ""
	}
}

// BatchLimit returns the maximum identifiers per submission call for this
// destination. The early-flush threshold equals this hard limit.
func (d Destination) BatchLimit() int {
	if d == DestPlaylist {
		return services.PlaylistAddLimit
	}
	return services.LibraryAddLimit
}

// Chunk splits items into consecutive groups of at most size elements.
// The last group may be smaller; an empty input yields no groups.
func Chunk[T any](items []T, size int) [][]T {
	if size <= 0 {
		return nil
	}

	var chunks [][]T
	for start := 0; start < len(items); start += size {
		end := start + size
		if end > len(items) {
			end = len(items)
		}
		chunks = append(chunks, items[start:end:end])
	}
	return chunks
}

// TrackCacher is consulted before a remote search and populated after a
// successful match. Implemented by repositories.MatchCacheRepository.
type TrackCacher interface {
	Get(query string) (services.Candidate, bool, error)
	Put(query string, c services.Candidate) error
}

// ImportResult summarizes one pipeline run.
type ImportResult struct {
	Saved    int                // identifiers submitted successfully
	Failed   int                // requests with no usable identifier
	Skipped  int                // plain-text lines empty after normalization
	Batches  int                // submission calls made
	Playlist *services.Playlist // created playlist handle, nil for library runs
}

// EngineOpts contains configuration for creating an ImportEngine.
type EngineOpts struct {
	Service      services.Service
	Normalizer   *match.Normalizer
	Cache        TrackCacher // optional, nil disables caching
	Destination  Destination
	PlaylistName string // required for DestPlaylist
	SearchLimit  int    // structured-mode result count, 0 = service default
}

// ImportEngine orchestrates a single-pass, strictly sequential import run.
// All mutable state (accumulator, counters, playlist handle) is owned by the
// engine and touched only by Run's goroutine.
type ImportEngine struct {
	svc          services.Service
	norm         *match.Normalizer
	cache        TrackCacher
	dest         Destination
	playlistName string
	searchLimit  int

	playlist *services.Playlist
}

// NewImportEngine creates an engine for one run.
func NewImportEngine(opts EngineOpts) *ImportEngine {
	if opts.Normalizer == nil {
		opts.Normalizer = match.NewNormalizer(nil)
	}
	return &ImportEngine{
		svc:          opts.Service,
		norm:         opts.Normalizer,
		cache:        opts.Cache,
		dest:         opts.Destination,
		playlistName: opts.PlaylistName,
		searchLimit:  opts.SearchLimit,
	}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default so progress reporting never stalls the pipeline.
func (e *ImportEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Run executes the import pipeline over source.
//
// Each request yields at most one accepted identifier and contributes to
// exactly one batch or exactly one failure record, never both. Batches are
// submitted in accumulation order; the remainder is flushed when input is
// exhausted. Item-level match failures are recovered locally; submission
// failures abort the run.
func (e *ImportEngine) Run(ctx context.Context, source *songlist.Source, failures *FailureLog, progress chan<- ProgressUpdate) (*ImportResult, error) {
	if e.svc == nil {
		return nil, fmt.Errorf("%w: service not initialized", shared.ErrServiceUnavailable)
	}
	if source == nil {
		return nil, fmt.Errorf("%w: nil source", shared.ErrInvalidArgument)
	}
	if e.dest == DestPlaylist && e.playlistName == "" {
		return nil, fmt.Errorf("%w: playlist name required", shared.ErrMissingArgument)
	}

	result := &ImportResult{}
	total := len(source.Requests)
	limit := e.dest.BatchLimit()

	var pending []string

	for i, req := range source.Requests {
		query := e.norm.Normalize(req.Query())

		if source.Format == songlist.FormatText && query == "" {
			result.Skipped++
			continue
		}

		e.sendProgress(progress, searchTrackUpdate(i+1, total, query))

		trackID, err := e.resolve(ctx, source.Format, query)
		if err != nil {
			return result, err
		}

		if trackID == "" {
			result.Failed++
			if logErr := failures.Add(query); logErr != nil {
				return result, logErr
			}
			e.sendProgress(progress, matchFailedUpdate(i+1, total, query))
			continue
		}

		e.sendProgress(progress, matchedUpdate(i+1, total, query, trackID))
		pending = append(pending, trackID)

		if len(pending) == limit {
			if err := e.submit(ctx, pending, progress); err != nil {
				return result, err
			}
			result.Saved += len(pending)
			result.Batches++
			pending = nil
		}
	}

	if len(pending) > 0 {
		if err := e.submit(ctx, pending, progress); err != nil {
			return result, err
		}
		result.Saved += len(pending)
		result.Batches++
	}

	result.Playlist = e.playlist
	e.sendProgress(progress, summaryUpdate(result.Saved, result.Failed, e.dest))
	return result, nil
}

// resolve turns a normalized query into a track identifier, or "" when the
// request is a failure.
//
// The two matching policies are deliberately distinct. Plain-text rows use a
// limit-1 search and take the sole result verbatim, with transport errors
// swallowed as item failures. Structured rows search with the default result
// count and rank every candidate; a transport error there propagates and
// aborts the run.
func (e *ImportEngine) resolve(ctx context.Context, format songlist.Format, query string) (string, error) {
	if e.cache != nil {
		if cached, ok, err := e.cache.Get(query); err == nil && ok {
			return cached.ID, nil
		}
	}

	var chosen *services.Candidate

	switch format {
	case songlist.FormatText:
		candidates, err := e.svc.Search(ctx, query, 1)
		if err != nil {
			return "", nil
		}
		if len(candidates) > 0 {
			chosen = &candidates[0]
		}
	case songlist.FormatCSV:
		candidates, err := e.svc.Search(ctx, query, e.searchLimit)
		if err != nil {
			return "", fmt.Errorf("%w: search %q: %v", shared.ErrAPIRequest, query, err)
		}
		if ranked := match.Rank(query, candidates); len(ranked) > 0 {
			chosen = &ranked[0].Candidate
		}
	}

	if chosen == nil {
		return "", nil
	}

	if e.cache != nil {
		if err := e.cache.Put(query, *chosen); err != nil {
			// cache is best-effort; a write failure never fails the item
			return chosen.ID, nil
		}
	}

	return chosen.ID, nil
}

// submit sends accumulated identifiers to the destination, creating the
// target playlist exactly once on the first playlist submission.
func (e *ImportEngine) submit(ctx context.Context, trackIDs []string, progress chan<- ProgressUpdate) error {
	switch e.dest {
	case DestPlaylist:
		if e.playlist == nil {
			userID, err := e.svc.CurrentUserID(ctx)
			if err != nil {
				return fmt.Errorf("%w: failed to resolve user: %v", shared.ErrAPIRequest, err)
			}

			playlist, err := e.svc.CreatePlaylist(ctx, userID, e.playlistName, false)
			if err != nil {
				return fmt.Errorf("%w: failed to create playlist: %v", shared.ErrAPIRequest, err)
			}

			e.playlist = playlist
			e.sendProgress(progress, createPlaylistUpdate(playlist))
		}

		for _, batch := range Chunk(trackIDs, services.PlaylistAddLimit) {
			if err := e.svc.AddToPlaylist(ctx, e.playlist.ID, batch); err != nil {
				return fmt.Errorf("%w: failed to add tracks to playlist: %v", shared.ErrAPIRequest, err)
			}
			e.sendProgress(progress, submitBatchUpdate(len(batch), e.dest))
		}

	case DestLibrary:
		for _, batch := range Chunk(trackIDs, services.LibraryAddLimit) {
			if err := e.svc.AddToLibrary(ctx, batch); err != nil {
				return fmt.Errorf("%w: failed to add tracks to library: %v", shared.ErrAPIRequest, err)
			}
			e.sendProgress(progress, submitBatchUpdate(len(batch), e.dest))
		}
	}

	return nil
}
