package filter

import (
	"golang.org/x/text/runes"

	"github.com/rimecore/rimecore/internal/menu"
	"github.com/rimecore/rimecore/pkg/core"
)

// CjkMinifier drops candidates containing codepoints outside Basic
// CJK when ExtendedCharset reports false (spec.md §4.9).
type CjkMinifier struct {
	ExtendedCharset func() bool

	set runes.Set
}

func (f *CjkMinifier) Name() string { return "cjk_minifier" }

func (f *CjkMinifier) Apply(src menu.Translation) menu.Translation {
	if f.ExtendedCharset != nil && f.ExtendedCharset() {
		return src
	}
	if f.set == nil {
		f.set = runes.In(basicCJKTable)
	}
	return &lazyFilterTranslation{src: src, keep: func(c *core.Candidate) bool {
		for _, r := range c.Text {
			if r < 0x80 {
				continue // ASCII punctuation/digits pass through untouched
			}
			if !f.set.Contains(r) {
				return false
			}
		}
		return true
	}}
}
