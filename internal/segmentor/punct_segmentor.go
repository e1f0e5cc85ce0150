package segmentor

import "github.com/rimecore/rimecore/pkg/core"

// PunctSegmentor recognizes a single registered punctuation byte at
// the frontier and segments it alone, tagged "punct" (spec.md §4.4).
type PunctSegmentor struct {
	Keys map[byte]bool
}

func (s *PunctSegmentor) Name() string { return "punct_segmentor" }

func (s *PunctSegmentor) Segment(input string, seg *core.Segmentation) bool {
	start := frontier(seg)
	if start >= len(input) || !s.Keys[input[start]] {
		return true
	}
	seg.AddSegment(core.NewSegment(start, start+1, "punct"))
	return false
}
