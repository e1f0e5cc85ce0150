package filter

import (
	"github.com/rimecore/rimecore/internal/menu"
	"github.com/rimecore/rimecore/pkg/core"
)

// Uniquifier collapses duplicate candidates by text into one
// UniquifiedCandidate, preserving the first occurrence's position and
// merging learning-weights (spec.md §4.9). It must see the whole
// stream to detect duplicates, so it drains eagerly.
type Uniquifier struct{}

func (f *Uniquifier) Name() string { return "uniquifier" }

func (f *Uniquifier) Apply(src menu.Translation) menu.Translation {
	cands := drain(src)

	order := make([]string, 0, len(cands))
	byText := make(map[string]*core.UniquifiedCandidate, len(cands))
	for _, c := range cands {
		if u, ok := byText[c.Text]; ok {
			u.Merge(c)
			continue
		}
		u := &core.UniquifiedCandidate{Candidate: c}
		byText[c.Text] = u
		order = append(order, c.Text)
	}

	out := make([]*core.Candidate, len(order))
	for i, text := range order {
		out[i] = byText[text].Candidate
	}
	return menu.NewSliceTranslation(out)
}
