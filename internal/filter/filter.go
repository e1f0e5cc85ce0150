// Package filter implements the chain of menu-shaping filters applied
// after translation, in schema-configured order (spec.md §4.2 step 3,
// §4.9).
package filter

import (
	"github.com/rimecore/rimecore/internal/menu"
	"github.com/rimecore/rimecore/pkg/core"
)

// Filter transforms one translation into another, lazily where
// possible (spec.md §4.9: "Filters are functions Translation ->
// Translation that may also read the already-materialised list").
type Filter interface {
	Name() string
	Apply(src menu.Translation) menu.Translation
}

// Chain runs filters in schema-configured order.
type Chain struct {
	filters []Filter
}

// NewChain builds a filter chain.
func NewChain(filters ...Filter) *Chain {
	return &Chain{filters: filters}
}

// Apply runs every filter over src in order.
func (c *Chain) Apply(src menu.Translation) menu.Translation {
	cur := src
	for _, f := range c.filters {
		cur = f.Apply(cur)
	}
	return cur
}

// drain exhausts src into a materialized candidate slice. Several
// filters here need lookahead (uniquify, char-first reorder) that a
// purely lazy stream can't give cheaply, so they trade laziness for
// simplicity by draining up front; this is acceptable since a
// segment's candidate count is always small relative to a dictionary
// (spec.md §4.9 caps pagination, not total candidates).
func drain(src menu.Translation) []*core.Candidate {
	var out []*core.Candidate
	for {
		c, ok := src.Next()
		if !ok {
			return out
		}
		out = append(out, c)
	}
}
