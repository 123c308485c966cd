package booking

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/arjun/clinicbook/internal/api"
)

// FilterRoster narrows the roster to doctors matching the query by name or
// specialty. Substring hits rank first; near-misses within a small edit
// distance are kept so typos still find the right doctor.
func FilterRoster(roster []api.User, query string) []api.User {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return roster
	}

	type scored struct {
		doc   api.User
		score int
	}
	matches := make([]scored, 0, len(roster))
	for _, doc := range roster {
		s := rosterScore(doc, q)
		if s < 0 {
			continue
		}
		matches = append(matches, scored{doc: doc, score: s})
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].score > matches[j].score })

	out := make([]api.User, len(matches))
	for i, m := range matches {
		out[i] = m.doc
	}
	return out
}

// rosterScore returns a relevance score, or -1 for no match.
func rosterScore(doc api.User, q string) int {
	name := strings.ToLower(doc.Name)
	specialty := strings.ToLower(doc.Specialty)

	switch {
	case strings.HasPrefix(name, q):
		return 100
	case strings.Contains(name, q):
		return 80
	case specialty != "" && strings.Contains(specialty, q):
		return 60
	}

	budget := len(q) / 3
	if budget == 0 {
		return -1
	}
	for _, token := range strings.Fields(name) {
		if levenshtein.ComputeDistance(token, q) <= budget {
			return 40
		}
	}
	if specialty != "" && levenshtein.ComputeDistance(specialty, q) <= budget {
		return 20
	}
	return -1
}
