package filter

import (
	"github.com/rimecore/rimecore/internal/menu"
	"github.com/rimecore/rimecore/internal/reverse"
	"github.com/rimecore/rimecore/pkg/core"
)

// ReverseLookupFilter amends a candidate's comment with a code string
// read from a reverse DB, unless a comment is already set (spec.md
// §4.9).
type ReverseLookupFilter struct {
	DB *reverse.DB
}

func (f *ReverseLookupFilter) Name() string { return "reverse_lookup_filter" }

func (f *ReverseLookupFilter) Apply(src menu.Translation) menu.Translation {
	if f.DB == nil {
		return src
	}
	return mapTranslation{src: src, fn: f.amend}
}

func (f *ReverseLookupFilter) amend(c *core.Candidate) *core.Candidate {
	if c.Comment != "" {
		return c
	}
	comment, ok := f.DB.Comment(c.Text)
	if !ok {
		return c
	}
	shadow := c.Shadow(c.Text, comment, c.Preedit)
	return shadow
}

// mapTranslation applies fn to every candidate a wrapped translation
// yields, lazily.
type mapTranslation struct {
	src menu.Translation
	fn  func(*core.Candidate) *core.Candidate
}

func (m mapTranslation) Peek() (*core.Candidate, bool) {
	c, ok := m.src.Peek()
	if !ok {
		return nil, false
	}
	return m.fn(c), true
}

func (m mapTranslation) Next() (*core.Candidate, bool) {
	c, ok := m.src.Next()
	if !ok {
		return nil, false
	}
	return m.fn(c), true
}

func (m mapTranslation) Exhausted() bool { return m.src.Exhausted() }
