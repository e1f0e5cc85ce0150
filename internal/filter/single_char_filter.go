package filter

import (
	"sort"
	"unicode/utf8"

	"github.com/rimecore/rimecore/internal/menu"
	"github.com/rimecore/rimecore/pkg/core"
)

// SingleCharMode selects single_char_filter's behavior (spec.md §4.9).
type SingleCharMode int

const (
	// CharFirst moves single-character table/user_table candidates
	// ahead of multi-character ones within a run of those types,
	// stable otherwise.
	CharFirst SingleCharMode = iota
	// CharOnly drops any candidate longer than one character.
	CharOnly
)

// SingleCharFilter reorders or restricts candidates by character
// count (spec.md §4.9).
type SingleCharFilter struct {
	Mode SingleCharMode
}

func (f *SingleCharFilter) Name() string { return "single_char_filter" }

func (f *SingleCharFilter) Apply(src menu.Translation) menu.Translation {
	cands := drain(src)

	if f.Mode == CharOnly {
		out := cands[:0]
		for _, c := range cands {
			if utf8.RuneCountInString(c.Text) <= 1 {
				out = append(out, c)
			}
		}
		return menu.NewSliceTranslation(out)
	}

	out := make([]*core.Candidate, len(cands))
	copy(out, cands)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if !isTableType(a) || !isTableType(b) {
			return false
		}
		aSingle := utf8.RuneCountInString(a.Text) == 1
		bSingle := utf8.RuneCountInString(b.Text) == 1
		return aSingle && !bSingle
	})
	return menu.NewSliceTranslation(out)
}

func isTableType(c *core.Candidate) bool {
	return c.Type == "table" || c.Type == "user_table"
}
