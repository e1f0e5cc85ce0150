package segmentor

import (
	"regexp"

	"github.com/rimecore/rimecore/pkg/core"
)

// MatcherPattern pairs a tag with the regex that selects it.
type MatcherPattern struct {
	Tag     string
	Pattern *regexp.Regexp
}

// Matcher runs custom regexes over the input tail from the frontier,
// segmenting the longest match found (spec.md §4.4).
type Matcher struct {
	Patterns []MatcherPattern
}

func (s *Matcher) Name() string { return "matcher" }

func (s *Matcher) Segment(input string, seg *core.Segmentation) bool {
	start := frontier(seg)
	if start >= len(input) {
		return true
	}
	tail := input[start:]

	bestLen := 0
	bestTag := ""
	for _, mp := range s.Patterns {
		loc := mp.Pattern.FindStringIndex(tail)
		if loc == nil || loc[0] != 0 {
			continue
		}
		if loc[1] > bestLen {
			bestLen = loc[1]
			bestTag = mp.Tag
		}
	}
	if bestLen == 0 {
		return true
	}
	seg.AddSegment(core.NewSegment(start, start+bestLen, bestTag))
	return true
}
