package processor

import (
	"github.com/rimecore/rimecore/internal/context"
	"github.com/rimecore/rimecore/pkg/core"
)

// Selector maps digit keys and space to a selection within the current
// page of the current segment's menu (spec.md §4.3, §4.9).
type Selector struct {
	PageSize int
}

func (p *Selector) Name() string { return "selector" }

func (p *Selector) Process(ctx *context.Context, key core.KeyEvent) Result {
	if key.Release || ctx.Options["ascii_mode"] {
		return Noop
	}
	seg := ctx.Composition.GetCurrentSegment()
	if seg == nil || seg.Menu == nil {
		return Noop
	}

	pageSize := p.pageSize()
	page := 0
	if seg.Selected >= 0 {
		page = seg.Selected / pageSize
	}

	idx, ok := p.indexFor(key)
	if !ok {
		if r, isRune := key.Rune(); !isRune || r != ' ' {
			return Noop
		}
		// space confirms whatever is already highlighted on the
		// current page, defaulting to its first candidate (spec.md
		// §4.3 "selector ... maps digit/space/select-keys").
		idx = 0
		if seg.Selected >= 0 {
			idx = seg.Selected % pageSize
		}
	}
	if err := ctx.Select(page*pageSize + idx); err != nil {
		return Noop
	}
	if r, isRune := key.Rune(); isRune && r == ' ' {
		// space both selects and confirms, committing outright when
		// the confirmed segment is also the last (spec.md §4.1
		// ConfirmCurrentSelection); digits only highlight, leaving a
		// later editor "confirm" key (or another selection) to settle
		// a multi-segment phrase.
		ctx.ConfirmCurrentSelection()
	}
	return Accepted
}

func (p *Selector) pageSize() int {
	if p.PageSize > 0 {
		return p.PageSize
	}
	return 9
}

// indexFor maps "1".."9" to 0..8 and "0" to 9, the conventional
// candidate-page layout; space selects the currently highlighted entry.
func (p *Selector) indexFor(key core.KeyEvent) (int, bool) {
	r, ok := key.Rune()
	if !ok {
		return 0, false
	}
	switch {
	case r >= '1' && r <= '9':
		return int(r - '1'), true
	case r == '0':
		return 9, true
	}
	return 0, false
}
