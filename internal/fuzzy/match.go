// Package fuzzy matches user-typed names against a fixed candidate list.
package fuzzy

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

type scored struct {
	val   string
	score float64
}

// confident is the lowest score Lookup accepts without a typo allowance
const confident = 0.85

// Match returns the candidate that best matches input.
// Exact (case-insensitive) matches win, then prefix matches, then a single
// word of a multi-word candidate ("pagos" for "Eureka Pagos"), then the
// closest candidate within a small edit distance.
func Match(input string, candidates []string) (string, bool) {
	token := normalize(input)
	if token == "" {
		return "", false
	}

	results := make([]scored, 0, len(candidates))
	for _, cand := range candidates {
		if s, ok := score(token, normalize(cand)); ok {
			results = append(results, scored{val: cand, score: s})
		}
	}
	if len(results) == 0 {
		return "", false
	}
	return rank(results).val, true
}

// Lookup is Match without typo tolerance: input must equal a candidate,
// prefix it, or equal one of its words.
func Lookup(input string, candidates []string) (string, bool) {
	token := normalize(input)
	if token == "" {
		return "", false
	}

	results := make([]scored, 0, len(candidates))
	for _, cand := range candidates {
		if s, ok := score(token, normalize(cand)); ok && s >= confident {
			results = append(results, scored{val: cand, score: s})
		}
	}
	if len(results) == 0 {
		return "", false
	}
	return rank(results).val, true
}

func rank(results []scored) scored {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].score == results[j].score {
			return results[i].val < results[j].val
		}
		return results[i].score > results[j].score
	})
	return results[0]
}

func score(token, cand string) (float64, bool) {
	switch {
	case token == cand:
		return 1.0, true
	case strings.HasPrefix(cand, token) && len(token) >= 2:
		return 0.9, true
	}

	for _, word := range strings.Fields(cand) {
		if word == token {
			return confident, true
		}
	}

	best := -1
	for _, compare := range append([]string{cand}, strings.Fields(cand)...) {
		dist := levenshtein.ComputeDistance(token, compare)
		if dist > limit(len(compare)) {
			continue
		}
		if best < 0 || dist < best {
			best = dist
		}
	}
	if best < 0 {
		return 0, false
	}
	return 0.72 - (0.08 * float64(best)), true
}

func limit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}

func normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
