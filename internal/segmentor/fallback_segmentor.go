package segmentor

import "github.com/rimecore/rimecore/pkg/core"

// FallbackSegmentor appends one raw byte when nothing else matched,
// extending an existing trailing "raw" segment by one byte instead of
// creating a new one-byte segment per call (spec.md §4.4). It always
// ends the round and is never itself subject to proceed=false.
type FallbackSegmentor struct{}

func (s *FallbackSegmentor) Name() string { return "fallback_segmentor" }

func (s *FallbackSegmentor) Segment(input string, seg *core.Segmentation) bool {
	start := frontier(seg)
	if start >= len(input) {
		return false
	}
	if last := seg.Last(); last != nil && last.HasTag("raw") && last.End == start {
		last.End = start + 1
		return false
	}
	seg.AddSegment(core.NewSegment(start, start+1, "raw"))
	return false
}
