package extract

import (
	"iter"
	"slices"
)

// Classified parses every block body and yields the ones that classify.
func Classified(blocks iter.Seq[string]) iter.Seq[Record] {
	return func(yield func(Record) bool) {
		for raw := range blocks {
			rec, ok := Parse(raw)
			if !ok {
				continue
			}
			if !yield(rec) {
				return
			}
		}
	}
}

// Extract runs one full pass over an assistant reply: scan, classify,
// dedupe.
func Extract(text string) iter.Seq[Record] {
	return Dedupe(Classified(Blocks(text)))
}

// All collects Extract into a slice.
func All(text string) []Record {
	return slices.Collect(Extract(text))
}
