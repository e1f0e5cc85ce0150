package translator

import (
	"github.com/rimecore/rimecore/internal/context"
	"github.com/rimecore/rimecore/internal/menu"
	"github.com/rimecore/rimecore/internal/processor"
	"github.com/rimecore/rimecore/pkg/core"
)

// RecognizerTranslator surfaces a templated replacement candidate for
// a segment the recognizer processor tagged, re-running the
// recognizer's own pattern to recover its named capture groups and
// rendering them through the pattern's Template (spec.md §4.3
// "recognizer").
type RecognizerTranslator struct {
	Patterns []processor.RecognizerPattern
}

func (t *RecognizerTranslator) Name() string { return "recognizer" }

func (t *RecognizerTranslator) Query(input string, seg *core.Segment, ctx *context.Context) (menu.Translation, bool) {
	for _, rp := range t.Patterns {
		if rp.Template == nil || !seg.HasTag(rp.Tag) {
			continue
		}
		text := input[seg.Start:seg.End]
		match := rp.Pattern.FindStringSubmatch(text)
		if match == nil {
			continue
		}
		groups := make(map[string]string, len(match))
		for i, name := range rp.Pattern.SubexpNames() {
			if name != "" && i < len(match) {
				groups[name] = match[i]
			}
		}
		rendered, err := rp.Template.Render(groups)
		if err != nil || rendered == "" {
			continue
		}
		cand := core.NewSimpleCandidate(rp.Tag, seg.Start, seg.End, rendered, "", "", 0)
		return menu.NewSliceTranslation([]*core.Candidate{cand}), true
	}
	return nil, false
}
