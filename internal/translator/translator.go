// Package translator implements the chain of translators that query
// a segment for candidates (spec.md §4.2 step 3, §4.6, §4.8, §2).
package translator

import (
	"github.com/rimecore/rimecore/internal/context"
	"github.com/rimecore/rimecore/internal/menu"
	"github.com/rimecore/rimecore/pkg/core"
)

// Translator queries one segment of input for candidates, returning a
// lazy stream and false if it has nothing to contribute.
type Translator interface {
	Name() string
	Query(input string, seg *core.Segment, ctx *context.Context) (menu.Translation, bool)
}

// Chain runs every registered translator against a segment and merges
// their results into one translation, the menu's source before
// filters run (spec.md §4.2 step 3).
type Chain struct {
	translators []Translator
}

// NewChain builds a translator chain in schema-configured order.
func NewChain(translators ...Translator) *Chain {
	return &Chain{translators: translators}
}

// Query runs every translator over seg and merges their results.
func (c *Chain) Query(input string, seg *core.Segment, ctx *context.Context) *menu.Merged {
	subs := make([]menu.Translation, 0, len(c.translators))
	for _, t := range c.translators {
		if tr, ok := t.Query(input, seg, ctx); ok {
			subs = append(subs, tr)
		}
	}
	return menu.NewMerged(subs...)
}
