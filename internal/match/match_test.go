package match

import (
	"strings"
	"testing"

	"github.com/desertthunder/spotimport/internal/services"
)

func TestNormalizer(t *testing.T) {
	norm := NewNormalizer(nil)

	t.Run("Strips Bad Words", func(t *testing.T) {
		pairs := []struct{ in, want string }{
			{"Rodeo - feat. Nas", "Rodeo - Nas"},
			{"INDUSTRY BABY (feat. Jack Harlow)", "INDUSTRY BABY (Jack Harlow)"},
			{"Wild Thoughts (feat. Rihanna & Bryson Tiller)", "Wild Thoughts (Rihanna Bryson Tiller)"},
			{"Ray Ban Vision ft. Cyhi Da Prynce", "Ray Ban Vision Cyhi Da Prynce"},
			{"This Nation (Original Mix)", "This Nation"},
			{"This Nation (original mix)", "This Nation"},
		}

		for _, pair := range pairs {
			if got := norm.Normalize(pair.in); got != pair.want {
				t.Errorf("Normalize(%q) = %q, want %q", pair.in, got, pair.want)
			}
		}
	})

	t.Run("Removes Every Default Word", func(t *testing.T) {
		for _, word := range DefaultBadWords {
			got := norm.Normalize("prefix" + word + "suffix")
			if strings.Contains(got, word) {
				t.Errorf("Normalize left %q in %q", word, got)
			}
		}
	})

	t.Run("Idempotent On Clean Strings", func(t *testing.T) {
		clean := []string{"", "Delta", "Some Song - Some Artist", "Taylor Swift - Style - 1989"}
		for _, s := range clean {
			if got := norm.Normalize(s); got != s {
				t.Errorf("Normalize(%q) = %q, want unchanged", s, got)
			}
		}
	})

	t.Run("Case Sensitive", func(t *testing.T) {
		// "FEAT. " is not in the list and must survive
		if got := norm.Normalize("Song FEAT. Artist"); got != "Song FEAT. Artist" {
			t.Errorf("Normalize should be case-sensitive, got %q", got)
		}
	})

	t.Run("Custom Word List", func(t *testing.T) {
		custom := NewNormalizer([]string{" [Live]"})
		if got := custom.Normalize("Anthem [Live]"); got != "Anthem" {
			t.Errorf("expected custom list to apply, got %q", got)
		}
		// default words are not active with a custom list
		if got := custom.Normalize("Rodeo - feat. Nas"); got != "Rodeo - feat. Nas" {
			t.Errorf("expected default list to be replaced, got %q", got)
		}
	})

	t.Run("May Produce Empty String", func(t *testing.T) {
		if got := norm.Normalize("ft. "); got != "" {
			t.Errorf("expected empty result, got %q", got)
		}
	})
}

func TestSimilarity(t *testing.T) {
	t.Run("Identical Strings Score One", func(t *testing.T) {
		if got := Similarity("abc", "abc"); got != 1.0 {
			t.Errorf("Similarity(identical) = %f, want 1.0", got)
		}
	})

	t.Run("Disjoint Strings Score Zero", func(t *testing.T) {
		if got := Similarity("abc", "xyz"); got != 0.0 {
			t.Errorf("Similarity(disjoint) = %f, want 0.0", got)
		}
	})

	t.Run("Range And Determinism", func(t *testing.T) {
		a, b := "Kendrick Lamar - HUMBLE. - DAMN.", "Kendrick Lamar - DNA. - DAMN."
		first := Similarity(a, b)
		if first <= 0.0 || first >= 1.0 {
			t.Errorf("expected score in (0,1), got %f", first)
		}
		if second := Similarity(a, b); second != first {
			t.Errorf("expected deterministic score, got %f then %f", first, second)
		}
	})
}

func TestRank(t *testing.T) {
	t.Run("Exact Comparison String Ranks First", func(t *testing.T) {
		candidates := []services.Candidate{
			{ID: "1", Title: "Wrong Song", Artists: []string{"Somebody Else"}, Album: "Another Album"},
			{ID: "2", Title: "Style", Artists: []string{"Taylor Swift"}, Album: "1989"},
			{ID: "3", Title: "Stylo", Artists: []string{"Gorillaz"}, Album: "Plastic Beach"},
		}

		ranked := Rank("Taylor Swift - Style - 1989", candidates)
		if len(ranked) != 3 {
			t.Fatalf("expected 3 ranked candidates, got %d", len(ranked))
		}
		if ranked[0].Candidate.ID != "2" {
			t.Errorf("expected exact match first, got %s", ranked[0].Candidate.ID)
		}
		if ranked[0].Score != 1.0 {
			t.Errorf("expected score 1.0 for exact match, got %f", ranked[0].Score)
		}
	})

	t.Run("Stable For Equal Scores", func(t *testing.T) {
		// identical candidates tie exactly; original order must hold
		same := services.Candidate{Title: "Song", Artists: []string{"Artist"}, Album: "Album"}
		a, b := same, same
		a.ID, b.ID = "first", "second"

		ranked := Rank("Artist - Song - Album", []services.Candidate{a, b})
		if ranked[0].Candidate.ID != "first" || ranked[1].Candidate.ID != "second" {
			t.Errorf("expected stable order for ties, got %s then %s",
				ranked[0].Candidate.ID, ranked[1].Candidate.ID)
		}
	})

	t.Run("Descending Order", func(t *testing.T) {
		candidates := []services.Candidate{
			{ID: "bad", Title: "zzz", Artists: []string{"qqq"}, Album: "vvv"},
			{ID: "good", Title: "Style", Artists: []string{"Taylor Swift"}, Album: "1989"},
		}

		ranked := Rank("Taylor Swift - Style - 1989", candidates)
		for i := 1; i < len(ranked); i++ {
			if ranked[i].Score > ranked[i-1].Score {
				t.Errorf("scores not descending at %d: %f > %f", i, ranked[i].Score, ranked[i-1].Score)
			}
		}
		if ranked[0].Candidate.ID != "good" {
			t.Errorf("expected best candidate first, got %s", ranked[0].Candidate.ID)
		}
	})

	t.Run("Empty Candidates", func(t *testing.T) {
		if ranked := Rank("anything", nil); ranked != nil {
			t.Errorf("expected nil ranking for no candidates, got %v", ranked)
		}
	})
}

func TestComparisonString(t *testing.T) {
	c := services.Candidate{
		Title:   "Wild Thoughts",
		Artists: []string{"DJ Khaled", "Rihanna", "Bryson Tiller"},
		Album:   "Grateful",
	}

	want := "DJ Khaled, Rihanna, Bryson Tiller - Wild Thoughts - Grateful"
	if got := ComparisonString(c); got != want {
		t.Errorf("ComparisonString = %q, want %q", got, want)
	}
}
