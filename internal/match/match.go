// package match turns loosely-formatted song descriptors into confident
// track choices: query normalization and similarity ranking of search
// candidates.
package match

import (
	"sort"
	"strings"

	"github.com/desertthunder/spotimport/internal/services"
	"github.com/pmezard/go-difflib/difflib"
)

// DefaultBadWords is the ordered list of noise substrings stripped from
// queries. Order matters; each word is removed in a single pass with no
// re-scan afterwards.
var DefaultBadWords = []string{
	"feat. ",
	"ft. ",
	" (Original Mix)",
	" (Original mix)",
	" (original mix)",
	" &",
}

// Normalizer strips a fixed ordered list of noise substrings from a raw
// song descriptor before it is used as a search query.
type Normalizer struct {
	badWords []string
}

// NewNormalizer creates a Normalizer with the given ordered word list.
// A nil or empty list falls back to [DefaultBadWords].
func NewNormalizer(badWords []string) *Normalizer {
	if len(badWords) == 0 {
		badWords = DefaultBadWords
	}
	return &Normalizer{badWords: badWords}
}

// Normalize applies each removal in list order. Case-sensitive, pure, and
// deliberately not a fixed-point iteration: text produced by one removal is
// not re-scanned for earlier words.
func (n *Normalizer) Normalize(text string) string {
	for _, word := range n.badWords {
		text = strings.ReplaceAll(text, word, "")
	}
	return text
}

// ScoredCandidate pairs a search candidate with its similarity to the query.
type ScoredCandidate struct {
	Candidate services.Candidate
	Score     float64
}

// ComparisonString builds the string a candidate is scored against:
// "<artists joined by ', '> - <track name> - <album name>".
func ComparisonString(c services.Candidate) string {
	return strings.Join([]string{strings.Join(c.Artists, ", "), c.Title, c.Album}, " - ")
}

// Similarity returns a longest-matching-block similarity ratio between a and
// b in [0,1], 1.0 for identical strings. Character-level sequence matching
// via difflib, symmetric in its treatment of matching blocks and
// deterministic for identical inputs.
func Similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	matcher := difflib.NewMatcher(strings.Split(a, ""), strings.Split(b, ""))
	return matcher.Ratio()
}

// Rank scores every candidate against query and sorts descending by score.
// The sort is stable, so equal scores keep the original result order.
// Empty input yields nil; the caller treats that request as a failure.
func Rank(query string, candidates []services.Candidate) []ScoredCandidate {
	if len(candidates) == 0 {
		return nil
	}

	scored := make([]ScoredCandidate, 0, len(candidates))
	for _, c := range candidates {
		scored = append(scored, ScoredCandidate{
			Candidate: c,
			Score:     Similarity(query, ComparisonString(c)),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	return scored
}
