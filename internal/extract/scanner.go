package extract

import (
	"iter"
	"regexp"
	"sort"
)

// Fence markers. The primary fence is the one the system prompt asks for;
// the generic one catches models that fall back to a plain json fence.
const (
	PrimaryFence  = "```resume-json"
	FallbackFence = "```json"
)

var fenceRes = []*regexp.Regexp{
	fenceRe(PrimaryFence),
	fenceRe(FallbackFence),
}

func fenceRe(open string) *regexp.Regexp {
	return regexp.MustCompile("(?s)" + regexp.QuoteMeta(open) + `\s*(.*?)` + "```")
}

// Blocks yields the body of every fenced block in text, in order of
// position. Each fence is scanned on its own so an unclosed fence of one
// kind never swallows a block of the other.
func Blocks(text string) iter.Seq[string] {
	return func(yield func(string) bool) {
		type hit struct{ start, end int }

		var hits []hit
		for _, re := range fenceRes {
			for _, m := range re.FindAllStringSubmatchIndex(text, -1) {
				hits = append(hits, hit{start: m[2], end: m[3]})
			}
		}
		sort.SliceStable(hits, func(i, j int) bool { return hits[i].start < hits[j].start })

		for _, h := range hits {
			if !yield(text[h.start:h.end]) {
				return
			}
		}
	}
}
