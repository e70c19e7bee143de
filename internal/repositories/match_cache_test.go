package repositories

import (
	"testing"

	"github.com/desertthunder/spotimport/internal/services"
	"github.com/desertthunder/spotimport/internal/shared"
	"github.com/desertthunder/spotimport/internal/tasks"
)

func testRepository(t *testing.T) *MatchCacheRepository {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	// a pooled connection would get its own in-memory database
	shared.ConfigureDatabase(db, 1, 1)
	t.Cleanup(func() { db.Close() })

	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	return NewMatchCacheRepository(db)
}

func TestMatchCacheRepository(t *testing.T) {
	candidate := services.Candidate{
		ID:      "track1",
		Title:   "Wild Thoughts",
		Artists: []string{"DJ Khaled", "Rihanna", "Bryson Tiller"},
		Album:   "Grateful",
	}

	t.Run("Get Miss", func(t *testing.T) {
		repo := testRepository(t)

		_, ok, err := repo.Get("never cached")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if ok {
			t.Error("expected a miss")
		}
	})

	t.Run("Put Then Get", func(t *testing.T) {
		repo := testRepository(t)

		if err := repo.Put("Wild Thoughts", candidate); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		cached, ok, err := repo.Get("Wild Thoughts")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !ok {
			t.Fatal("expected a hit")
		}
		if cached.ID != candidate.ID || cached.Title != candidate.Title || cached.Album != candidate.Album {
			t.Errorf("unexpected candidate %+v", cached)
		}
		if len(cached.Artists) != 3 || cached.Artists[1] != "Rihanna" {
			t.Errorf("unexpected artists %v", cached.Artists)
		}
	})

	t.Run("Duplicate Put Is A Noop", func(t *testing.T) {
		repo := testRepository(t)

		if err := repo.Put("query", candidate); err != nil {
			t.Fatalf("first put failed: %v", err)
		}
		other := candidate
		other.ID = "track2"
		if err := repo.Put("query", other); err != nil {
			t.Fatalf("expected duplicate ignored, got %v", err)
		}

		cached, _, err := repo.Get("query")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if cached.ID != "track1" {
			t.Errorf("expected first entry kept, got %q", cached.ID)
		}
	})

	t.Run("No Artists", func(t *testing.T) {
		repo := testRepository(t)

		if err := repo.Put("bare", services.Candidate{ID: "track3", Title: "Bare"}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		cached, ok, err := repo.Get("bare")
		if err != nil || !ok {
			t.Fatalf("expected a hit, got ok=%v err=%v", ok, err)
		}
		if cached.Artists != nil {
			t.Errorf("expected nil artists, got %v", cached.Artists)
		}
	})

	t.Run("Count And Clear", func(t *testing.T) {
		repo := testRepository(t)

		for _, q := range []string{"one", "two", "three"} {
			if err := repo.Put(q, candidate); err != nil {
				t.Fatalf("put failed: %v", err)
			}
		}

		count, err := repo.Count()
		if err != nil {
			t.Fatalf("count failed: %v", err)
		}
		if count != 3 {
			t.Errorf("expected 3 entries, got %d", count)
		}

		if err := repo.Clear(); err != nil {
			t.Fatalf("clear failed: %v", err)
		}
		count, err = repo.Count()
		if err != nil {
			t.Fatalf("count failed: %v", err)
		}
		if count != 0 {
			t.Errorf("expected empty cache, got %d", count)
		}
	})

	t.Run("Implements TrackCacher", func(t *testing.T) {
		var _ tasks.TrackCacher = (*MatchCacheRepository)(nil)
	})
}
