package translator

import (
	"github.com/rimecore/rimecore/internal/context"
	"github.com/rimecore/rimecore/internal/menu"
	"github.com/rimecore/rimecore/pkg/core"
)

// PunctTranslator maps a "punct"-tagged segment to its configured
// replacement candidates (spec.md §4.3 "punctuator", §2).
type PunctTranslator struct {
	Mappings map[string][]string
}

func (t *PunctTranslator) Name() string { return "punct" }

func (t *PunctTranslator) Query(input string, seg *core.Segment, ctx *context.Context) (menu.Translation, bool) {
	if !seg.HasTag("punct") {
		return nil, false
	}
	alts, ok := t.Mappings[input[seg.Start:seg.End]]
	if !ok || len(alts) == 0 {
		return nil, false
	}
	cands := make([]*core.Candidate, len(alts))
	for i, alt := range alts {
		cands[i] = core.NewSimpleCandidate("punct", seg.Start, seg.End, alt, "", "", float64(len(alts)-i))
	}
	return menu.NewSliceTranslation(cands), true
}
