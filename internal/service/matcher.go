package service

import (
	"sort"
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/guttosm/loan-request-service/internal/domain/model"
)

const (
	// DefaultFuzzyThreshold is the highest score still offered as a suggestion.
	DefaultFuzzyThreshold = 0.4
	// DefaultFuzzyLimit caps the number of suggestions.
	DefaultFuzzyLimit = 5
)

// Suggestion is a fuzzy search hit. Score is in [0,1]; 0 is an exact hit.
type Suggestion struct {
	Product model.Product
	Score   float64
}

// Normalize folds s for comparison: diacritics removed, lower-cased, trimmed.
func Normalize(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(strings.TrimSpace(folded))
}

// MatchExact returns the first product whose normalized name equals the
// normalized text.
func MatchExact(products []model.Product, text string) (*model.Product, bool) {
	needle := Normalize(text)
	if needle == "" {
		return nil, false
	}
	for i := range products {
		if Normalize(products[i].Name) == needle {
			p := products[i]
			return &p, true
		}
	}
	return nil, false
}

// FuzzySearch ranks products by how closely their names contain query.
// Results are ascending by score; ties keep catalog order.
func FuzzySearch(products []model.Product, query string, limit int) []Suggestion {
	q := []rune(Normalize(query))
	if len(q) == 0 {
		return nil
	}
	if limit <= 0 {
		limit = DefaultFuzzyLimit
	}

	hits := make([]Suggestion, 0, limit)
	for _, p := range products {
		score := fuzzyScore(q, []rune(Normalize(p.Name)))
		if score <= DefaultFuzzyThreshold {
			hits = append(hits, Suggestion{Product: p, Score: score})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Score < hits[j].Score
	})
	if len(hits) > limit {
		hits = hits[:limit]
	}
	return hits
}

// fuzzyScore is the smallest edit distance between q and any window of name
// close to q's length, divided by len(q).
func fuzzyScore(q, name []rune) float64 {
	if len(name) == 0 {
		return 1
	}
	query := string(q)
	best := levenshtein.ComputeDistance(query, string(name))

	for size := len(q) - 1; size <= len(q)+1; size++ {
		if size < 1 || size > len(name) {
			continue
		}
		for start := 0; start+size <= len(name); start++ {
			d := levenshtein.ComputeDistance(query, string(name[start:start+size]))
			if d < best {
				best = d
			}
			if best == 0 {
				return 0
			}
		}
	}

	score := float64(best) / float64(len(q))
	if score > 1 {
		return 1
	}
	return score
}
