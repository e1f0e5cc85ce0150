package filter

import (
	"unicode"

	"golang.org/x/text/runes"

	"github.com/rimecore/rimecore/internal/menu"
	"github.com/rimecore/rimecore/pkg/core"
)

// CharsetFilter drops candidates whose text contains any rune outside
// the configured script range, iterating lazily so it never blocks on
// an empty sub-stream (spec.md §4.9).
type CharsetFilter struct {
	set runes.Set
}

// NewCharsetFilter builds a filter admitting only runes in the union
// of the given Unicode range tables (e.g. unicode.Han, unicode.Latin).
func NewCharsetFilter(tables ...*unicode.RangeTable) *CharsetFilter {
	return &CharsetFilter{set: runes.In(mergeTables(tables))}
}

func (f *CharsetFilter) Name() string { return "charset_filter" }

func (f *CharsetFilter) Apply(src menu.Translation) menu.Translation {
	return &lazyFilterTranslation{src: src, keep: func(c *core.Candidate) bool {
		for _, r := range c.Text {
			if !f.set.Contains(r) {
				return false
			}
		}
		return true
	}}
}

// lazyFilterTranslation wraps a Translation, skipping candidates that
// fail keep without materializing the rest of the stream.
type lazyFilterTranslation struct {
	src  menu.Translation
	keep func(*core.Candidate) bool

	buffered   *core.Candidate
	haveBuffer bool
}

func (l *lazyFilterTranslation) fill() {
	if l.haveBuffer {
		return
	}
	for {
		c, ok := l.src.Next()
		if !ok {
			return
		}
		if l.keep(c) {
			l.buffered = c
			l.haveBuffer = true
			return
		}
	}
}

func (l *lazyFilterTranslation) Peek() (*core.Candidate, bool) {
	l.fill()
	return l.buffered, l.haveBuffer
}

func (l *lazyFilterTranslation) Next() (*core.Candidate, bool) {
	l.fill()
	if !l.haveBuffer {
		return nil, false
	}
	c := l.buffered
	l.haveBuffer = false
	l.buffered = nil
	return c, true
}

func (l *lazyFilterTranslation) Exhausted() bool {
	l.fill()
	return !l.haveBuffer
}
