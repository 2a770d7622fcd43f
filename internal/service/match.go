package service

import "strings"

// Match reports whether query matches name: empty query always matches, then a
// case-insensitive substring match, then an in-order subsequence match.
func Match(name, query string) bool {
	if query == "" {
		return true
	}
	n := strings.ToLower(name)
	q := []rune(strings.ToLower(query))
	if strings.Contains(n, string(q)) {
		return true
	}

	qi := 0
	for _, r := range n {
		if qi == len(q) {
			break
		}
		if r == q[qi] {
			qi++
		}
	}
	return qi == len(q)
}
