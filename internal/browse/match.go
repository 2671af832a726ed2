package browse

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Match filters cards by a loose query against title, file ID and tags.
//
// Substring hits rank first; otherwise a word within maxDistance edits of the query counts.
// Results are ordered by distance, ties kept in listing order.
func Match(cards []Card, query string, maxDistance int) []Card {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return cards
	}

	type scored struct {
		card Card
		dist int
	}

	var hits []scored
	for _, c := range cards {
		if d, ok := distance(c, query, maxDistance); ok {
			hits = append(hits, scored{c, d})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].dist < hits[j].dist })

	out := make([]Card, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.card)
	}
	return out
}

func distance(c Card, query string, maxDistance int) (int, bool) {
	best := -1
	fields := append([]string{c.Title, c.FileID}, c.Tags...)
	for _, f := range fields {
		f = strings.ToLower(f)
		if strings.Contains(f, query) {
			return 0, true
		}
		for _, word := range strings.FieldsFunc(f, func(r rune) bool {
			return r == ' ' || r == '_' || r == '-' || r == '.'
		}) {
			d := levenshtein.ComputeDistance(word, query)
			if d <= maxDistance && (best < 0 || d < best) {
				best = d
			}
		}
	}
	return best, best >= 0
}
