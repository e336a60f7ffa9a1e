package entities

import "strings"

const wildcard = '*'

// MatchPattern reports whether name matches the glob pattern. Matching is
// case-insensitive and '*' matches zero or more characters; there is no other
// wildcard syntax, so a pattern without '*' requires exact equality.
func MatchPattern(pattern, name string) bool {
	p := []rune(strings.ToLower(pattern))
	n := []rune(strings.ToLower(name))

	pi, ni := 0, 0
	starIdx, matchIdx := -1, 0

	for ni < len(n) {
		switch {
		case pi < len(p) && p[pi] == wildcard:
			starIdx = pi
			matchIdx = ni
			pi++
		case pi < len(p) && p[pi] == n[ni]:
			pi++
			ni++
		case starIdx >= 0:
			// backtrack: let the last '*' swallow one more character
			pi = starIdx + 1
			matchIdx++
			ni = matchIdx
		default:
			return false
		}
	}

	for pi < len(p) && p[pi] == wildcard {
		pi++
	}
	return pi == len(p)
}

// MatchAnyPattern reports whether name matches at least one of the patterns.
func MatchAnyPattern(patterns []string, name string) bool {
	for _, pattern := range patterns {
		if MatchPattern(pattern, name) {
			return true
		}
	}
	return false
}

// CountWildcards returns the number of '*' characters in a pattern.
func CountWildcards(pattern string) int {
	return strings.Count(pattern, string(wildcard))
}

// LiteralLength returns the number of non-wildcard characters in a pattern.
func LiteralLength(pattern string) int {
	return len([]rune(pattern)) - CountWildcards(pattern)
}
