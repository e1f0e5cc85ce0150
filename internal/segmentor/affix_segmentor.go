package segmentor

import (
	"strings"

	"github.com/rimecore/rimecore/pkg/core"
)

// AffixSegmentor recognizes a Prefix/Suffix pair wrapped around an
// "abc" segment, e.g. "~pinyin~" for reverse-lookup input, and splits
// it into three segments: raw prefix, inner region tagged Tag, raw
// suffix (spec.md §4.4). Splitting rather than shrinking in place
// keeps every byte of input covered by some segment.
type AffixSegmentor struct {
	Prefix, Suffix string
	Tag            string
}

func (s *AffixSegmentor) Name() string { return "affix_segmentor" }

func (s *AffixSegmentor) Segment(input string, seg *core.Segmentation) bool {
	segs := seg.Segments
	if len(segs) == 0 {
		return true
	}
	last := segs[len(segs)-1]
	if !last.HasTag("abc") {
		return true
	}
	text := input[last.Start:last.End]
	if s.Prefix != "" && !strings.HasPrefix(text, s.Prefix) {
		return true
	}
	if s.Suffix != "" && !strings.HasSuffix(text, s.Suffix) {
		return true
	}
	if len(text) < len(s.Prefix)+len(s.Suffix) {
		return true
	}

	start, end := last.Start, last.End
	innerStart := start + len(s.Prefix)
	innerEnd := end - len(s.Suffix)

	segs = segs[:len(segs)-1]
	if len(s.Prefix) > 0 {
		segs = append(segs, core.NewSegment(start, innerStart, "raw"))
	}
	segs = append(segs, core.NewSegment(innerStart, innerEnd, s.Tag))
	if len(s.Suffix) > 0 {
		segs = append(segs, core.NewSegment(innerEnd, end, "raw"))
	}
	seg.Segments = segs
	return true
}
