package segmentor

import "github.com/rimecore/rimecore/pkg/core"

// AsciiSegmentor consumes the rest of the input as a single "raw"
// segment while AsciiMode reports true (spec.md §4.4).
type AsciiSegmentor struct {
	AsciiMode func() bool
}

func (s *AsciiSegmentor) Name() string { return "ascii_segmentor" }

func (s *AsciiSegmentor) Segment(input string, seg *core.Segmentation) bool {
	if s.AsciiMode == nil || !s.AsciiMode() {
		return true
	}
	start := frontier(seg)
	if start >= len(input) {
		return true
	}
	seg.AddSegment(core.NewSegment(start, len(input), "raw"))
	return false
}
