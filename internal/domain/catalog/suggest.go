package catalog

import (
	"sort"

	"github.com/agnivade/levenshtein"
)

// Suggest returns up to limit names closest to query by edit distance.
// Names further away than the length-scaled limit are ignored.
func Suggest(query string, names []string, limit int) []string {
	q := Fold(query)
	if q == "" || limit <= 0 {
		return nil
	}
	type scored struct {
		name string
		dist int
	}
	results := make([]scored, 0, limit)
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		if _, ok := seen[name]; ok || name == "" {
			continue
		}
		seen[name] = struct{}{}
		cand := Fold(name)
		dist := levenshtein.ComputeDistance(q, cand)
		if dist > distanceLimit(len([]rune(cand))) {
			continue
		}
		results = append(results, scored{name: name, dist: dist})
	}
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].dist == results[j].dist {
			return results[i].name < results[j].name
		}
		return results[i].dist < results[j].dist
	})
	if len(results) > limit {
		results = results[:limit]
	}
	out := make([]string, 0, len(results))
	for _, r := range results {
		out = append(out, r.name)
	}
	return out
}

func distanceLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}
