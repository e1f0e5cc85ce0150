package translator

import (
	"github.com/rimecore/rimecore/internal/context"
	"github.com/rimecore/rimecore/internal/menu"
	"github.com/rimecore/rimecore/pkg/core"
)

// EchoTranslator surfaces the raw input text as a fallback candidate
// for "raw" segments, so unrecognized keystrokes still have something
// committable (spec.md §4.4 "fallback_segmentor", §2).
type EchoTranslator struct{}

func (t *EchoTranslator) Name() string { return "echo" }

func (t *EchoTranslator) Query(input string, seg *core.Segment, ctx *context.Context) (menu.Translation, bool) {
	if !seg.HasTag("raw") {
		return nil, false
	}
	text := input[seg.Start:seg.End]
	if text == "" {
		return nil, false
	}
	cand := core.NewSimpleCandidate("raw", seg.Start, seg.End, text, "", "", 0)
	return menu.NewSliceTranslation([]*core.Candidate{cand}), true
}
