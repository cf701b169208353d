// Package strings holds small helpers for string-set attributes such as
// conference topics and session types.
package strings

import (
	"strings"
)

// NormalizeSet trims each value, drops empties and duplicates, and keeps the
// first-seen order. When nothing survives, a copy of fallback is returned.
//
//	NormalizeSet([]string{" Go ", "", "Go", "Cloud"}, nil)  // []string{"Go", "Cloud"}
//	NormalizeSet(nil, []string{"Default"})                 // []string{"Default"}
func NormalizeSet(values []string, fallback []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	if len(out) == 0 {
		return append([]string(nil), fallback...)
	}
	return out
}

// Contains reports whether values holds v exactly.
func Contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
