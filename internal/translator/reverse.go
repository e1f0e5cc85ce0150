package translator

import (
	"github.com/rimecore/rimecore/internal/context"
	"github.com/rimecore/rimecore/internal/menu"
	"github.com/rimecore/rimecore/internal/reverse"
	"github.com/rimecore/rimecore/pkg/core"
)

// ReverseTranslator serves a tagged reverse-lookup segment (produced
// by affix_segmentor, e.g. "~中国~") by looking up candidate texts
// whose code starts with the inner spelling (spec.md §4.4
// "affix_segmentor", §2).
type ReverseTranslator struct {
	Tag string
	DB  *reverse.DB
}

func (t *ReverseTranslator) Name() string { return "reverse" }

func (t *ReverseTranslator) Query(input string, seg *core.Segment, ctx *context.Context) (menu.Translation, bool) {
	if !seg.HasTag(t.Tag) || t.DB == nil {
		return nil, false
	}
	spelling := input[seg.Start:seg.End]
	texts := t.DB.TextsForPrefix(spelling)
	if len(texts) == 0 {
		return nil, false
	}
	cands := make([]*core.Candidate, len(texts))
	for i, text := range texts {
		cands[i] = core.NewSimpleCandidate("reverse", seg.Start, seg.End, text, spelling, "", float64(len(texts)-i))
	}
	return menu.NewSliceTranslation(cands), true
}
