package dict

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Score bands. Lower is better; a band's fraction never reaches the next band.
const (
	bandExact      = 0.0
	bandPrefix     = 1.0
	bandSubstring  = 2.0
	bandDefinition = 3.0
)

// Rank scores an entry against a lowercased query and its plain reading form.
func Rank(query, plain string, e Entry) float64 {
	hw := strings.ToLower(e.Headword)

	if hw == query || (plain != "" && e.ReadingPlain == plain) {
		return bandExact
	}

	if strings.HasPrefix(hw, query) {
		return bandPrefix + fraction(len([]rune(hw))-len([]rune(query)))
	}
	if plain != "" && e.ReadingPlain != "" && strings.HasPrefix(e.ReadingPlain, plain) {
		return bandPrefix + fraction(len(e.ReadingPlain)-len(plain))
	}

	if strings.Contains(hw, query) {
		return bandSubstring + fraction(levenshtein.ComputeDistance(query, hw))
	}
	if plain != "" && e.ReadingPlain != "" && strings.Contains(e.ReadingPlain, plain) {
		return bandSubstring + fraction(levenshtein.ComputeDistance(plain, e.ReadingPlain))
	}

	return bandDefinition + fraction(definitionDistance(query, e.Definition))
}

// definitionDistance returns the smallest edit distance between the query and
// any sense of a definition. Senses are separated by ';' or '/'.
func definitionDistance(query, definition string) int {
	best := -1
	senses := strings.FieldsFunc(strings.ToLower(definition), func(r rune) bool {
		return r == ';' || r == '/'
	})
	for _, s := range senses {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		d := levenshtein.ComputeDistance(query, s)
		if best < 0 || d < best {
			best = d
		}
	}
	if best < 0 {
		return len(query)
	}
	return best
}

func fraction(d int) float64 {
	if d < 0 {
		d = -d
	}
	return float64(d) / float64(d+1)
}

// SortResults orders results by score, then headword, then insertion order.
func SortResults(results []Result) {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score < results[j].Score
		}
		if results[i].Headword != results[j].Headword {
			return results[i].Headword < results[j].Headword
		}
		return results[i].ID < results[j].ID
	})
}
