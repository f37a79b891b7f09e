package catalog

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/jask/jaskmods/internal/database/repository"
)

// Matches reports whether an addon should stay visible for the search text.
// Substring hits on name, summary, author or category count, plus near-miss
// name matches so small typos still land.
func Matches(a repository.Addon, query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	for _, field := range []string{a.Name, a.Summary, a.Author, a.Category} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return nameSimilarity(a.Name, q) >= 0.6
}

func nameSimilarity(name, q string) float64 {
	n := strings.ToLower(name)
	longest := len(n)
	if len(q) > longest {
		longest = len(q)
	}
	if longest == 0 {
		return 1
	}
	dist := levenshtein.ComputeDistance(n, q)
	return 1 - float64(dist)/float64(longest)
}

// RankBySearch orders addons by how well they match the search text,
// best first. Ties keep the incoming order.
func RankBySearch(addons []repository.Addon, query string) []repository.Addon {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return addons
	}
	out := make([]repository.Addon, len(addons))
	copy(out, addons)
	score := func(a repository.Addon) float64 {
		s := nameSimilarity(a.Name, q)
		if strings.Contains(strings.ToLower(a.Name), q) {
			s += 1
		}
		return s
	}
	sort.SliceStable(out, func(i, j int) bool {
		return score(out[i]) > score(out[j])
	})
	return out
}

// scopeFilters translates a source's filter keyword into repository filters.
func scopeFilters(s Source) repository.AddonFilters {
	t := true
	switch s.Filter {
	case "installed":
		return repository.AddonFilters{Installed: &t}
	case "featured":
		return repository.AddonFilters{Featured: &t}
	default:
		return repository.AddonFilters{}
	}
}
