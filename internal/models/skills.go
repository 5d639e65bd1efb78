package models

import "strings"

// UnionSkills appends the incoming skills that are not yet in current,
// keeping current's order first. Entries are trimmed, blanks are dropped
// and the result never holds duplicates. Comparison is case-sensitive.
func UnionSkills(current, incoming []string) []string {
	out := make([]string, 0, len(current)+len(incoming))
	seen := make(map[string]struct{}, len(current)+len(incoming))
	for _, list := range [][]string{current, incoming} {
		for _, s := range list {
			s = strings.TrimSpace(s)
			if s == "" {
				continue
			}
			if _, ok := seen[s]; ok {
				continue
			}
			seen[s] = struct{}{}
			out = append(out, s)
		}
	}
	return out
}
