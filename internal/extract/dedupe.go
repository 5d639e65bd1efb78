package extract

import (
	"encoding/json"
	"iter"
)

// Dedupe drops records structurally equal to one already emitted,
// keeping first-seen order.
func Dedupe(seq iter.Seq[Record]) iter.Seq[Record] {
	return func(yield func(Record) bool) {
		seen := make(map[string]struct{})
		for rec := range seq {
			key := identity(rec)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			if !yield(rec) {
				return
			}
		}
	}
}

// identity is the canonical encoding of (kind, data). Struct fields marshal
// in declaration order, so equal records always encode identically.
func identity(rec Record) string {
	b, _ := json.Marshal(rec)
	return string(rec.Kind()) + "\x00" + string(b)
}
