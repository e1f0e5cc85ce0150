// Package segmentor implements the chain of segmentation handlers
// that, given the current input, rebuild a context's segmentation
// (spec.md §4.2 step 2, §4.4).
package segmentor

import "github.com/rimecore/rimecore/pkg/core"

// Segmentor extends or passes on the current segmentation built over
// input, starting at the byte offset its predecessor left off at.
// It returns proceed=true to let the next segmentor see the same
// state, false to end the round for this key event.
type Segmentor interface {
	Name() string
	Segment(input string, seg *core.Segmentation) (proceed bool)
}

// Chain runs segmentors in registered order, always finishing with a
// fallback appended by the caller (spec.md §4.2 step 2).
type Chain struct {
	segmentors []Segmentor
	fallback   Segmentor
}

// NewChain builds a segmentor chain; fallback is always run last and
// unconditionally ends the round.
func NewChain(fallback Segmentor, segmentors ...Segmentor) *Chain {
	return &Chain{segmentors: segmentors, fallback: fallback}
}

// Run rebuilds seg's segments for input, from the current frontier
// (the end of the last segment, or 0) to the end of input, repeating
// rounds until input is fully covered.
func (c *Chain) Run(input string, seg *core.Segmentation) {
	for frontier(seg) < len(input) {
		c.round(input, seg)
	}
}

func (c *Chain) round(input string, seg *core.Segmentation) {
	for _, s := range c.segmentors {
		if !s.Segment(input, seg) {
			return
		}
	}
	c.fallback.Segment(input, seg)
}

func frontier(seg *core.Segmentation) int {
	last := seg.Last()
	if last == nil {
		return 0
	}
	return last.End
}
