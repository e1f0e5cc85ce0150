package segmentor

import "github.com/rimecore/rimecore/pkg/core"

// AbcSegmentor scans from the current frontier while the next byte is
// in Alphabet, splitting off a maximal letter run tagged "abc"
// (spec.md §4.4).
type AbcSegmentor struct {
	Alphabet map[byte]bool
}

func (s *AbcSegmentor) Name() string { return "abc_segmentor" }

func (s *AbcSegmentor) Segment(input string, seg *core.Segmentation) bool {
	start := frontier(seg)
	end := start
	for end < len(input) && s.Alphabet[input[end]] {
		end++
	}
	if end == start {
		return true
	}
	seg.AddSegment(core.NewSegment(start, end, "abc"))
	return true
}
