package core

import "sort"

// Segment is a tagged byte range of the input under construction
// (spec.md §3 "Segment"). Segments never overlap and together cover a
// prefix of the input.
type Segment struct {
	Start, End int
	Tags       map[string]struct{}
	Status     CandidateStatus
	Prompt     string

	// Menu is nil until the pipeline has run translators/filters for
	// this segment (spec.md §4.2 step 3).
	Menu SegmentMenu

	// Selected is the index of the highlighted candidate within Menu's
	// materialised candidates, or -1 if none has been highlighted yet.
	Selected int
}

// SegmentMenu is the minimal view of a menu a Segment needs; the full
// lazy/paginated machinery lives in package menu, which implements
// this interface to avoid an import cycle (internal/menu depends on
// pkg/core, not the reverse).
type SegmentMenu interface {
	CandidateAt(i int) (*Candidate, bool)
	Count() int
	IsExhausted() bool
}

// NewSegment creates a void segment over [start,end) with the given tags.
func NewSegment(start, end int, tags ...string) *Segment {
	s := &Segment{Start: start, End: end, Tags: make(map[string]struct{}, len(tags)), Selected: -1}
	for _, t := range tags {
		s.Tags[t] = struct{}{}
	}
	return s
}

// HasTag reports whether the segment carries the given symbolic tag.
func (s *Segment) HasTag(tag string) bool {
	_, ok := s.Tags[tag]
	return ok
}

// AddTag adds a symbolic tag to the segment.
func (s *Segment) AddTag(tag string) {
	if s.Tags == nil {
		s.Tags = make(map[string]struct{})
	}
	s.Tags[tag] = struct{}{}
}

// Len returns the byte length of the segment.
func (s *Segment) Len() int { return s.End - s.Start }

// SelectedCandidate returns the candidate currently highlighted in the
// segment's menu. A segment whose Selected is still -1 defaults to the
// menu's top-ranked candidate, so confirming a segment the user never
// explicitly paged through still picks the best guess rather than the
// raw input.
func (s *Segment) SelectedCandidate() (*Candidate, bool) {
	if s.Menu == nil {
		return nil, false
	}
	idx := s.Selected
	if idx < 0 {
		idx = 0
	}
	return s.Menu.CandidateAt(idx)
}

// Segmentation is an ordered sequence of segments plus a cursor that
// distinguishes committed/forwarded segments from the current one under
// construction (spec.md §3 "Segmentation").
type Segmentation struct {
	Input    string
	Segments []*Segment
	// Cursor is the index of the first segment still under
	// construction; segments before it are confirmed/forwarded.
	Cursor int
}

// NewSegmentation creates an empty segmentation over the given input.
func NewSegmentation(input string) *Segmentation {
	return &Segmentation{Input: input}
}

// Reset clears all segments, keeping the segmentation's input.
func (sg *Segmentation) Reset(input string) {
	sg.Input = input
	sg.Segments = nil
	sg.Cursor = 0
}

// AddSegment appends a segment, preserving the strictly-increasing
// start-order invariant from spec.md §3.
func (sg *Segmentation) AddSegment(s *Segment) {
	sg.Segments = append(sg.Segments, s)
}

// Last returns the last segment, or nil if there are none.
func (sg *Segmentation) Last() *Segment {
	if len(sg.Segments) == 0 {
		return nil
	}
	return sg.Segments[len(sg.Segments)-1]
}

// GetCurrentSegment returns the segment under construction, i.e. the
// one at or after Cursor. It is the last segment by construction: the
// pipeline only ever grows one open segment at a time.
func (sg *Segmentation) GetCurrentSegment() *Segment {
	return sg.Last()
}

// CheckCoverage verifies the testable property from spec.md §8.1: for
// adjacent segments s_i, s_{i+1}, s_i.End <= s_{i+1}.Start, and the
// first segment starts at 0 when any segment exists.
func (sg *Segmentation) CheckCoverage() bool {
	if len(sg.Segments) == 0 {
		return true
	}
	if sg.Segments[0].Start != 0 {
		return false
	}
	for i := 1; i < len(sg.Segments); i++ {
		if sg.Segments[i-1].End > sg.Segments[i].Start {
			return false
		}
	}
	return true
}

// SortByStart sorts segments by start position; used defensively after
// segmentors run, since spec.md only requires they append in order but
// a misbehaving custom segmentor should not corrupt the invariant.
func (sg *Segmentation) SortByStart() {
	sort.SliceStable(sg.Segments, func(i, j int) bool {
		return sg.Segments[i].Start < sg.Segments[j].Start
	})
}
