package translator

import (
	"strconv"
	"strings"

	"github.com/rimecore/rimecore/internal/context"
	"github.com/rimecore/rimecore/internal/menu"
	"github.com/rimecore/rimecore/pkg/core"
)

// CodepointTranslator decodes a "U+XXXX"-style escape (trigger
// prefix + hex digits) into the literal rune it names, for entering
// characters with no dictionary entry (spec.md §2 translator table).
type CodepointTranslator struct {
	Trigger string // defaults to "U+"
}

func (t *CodepointTranslator) Name() string { return "codepoint" }

func (t *CodepointTranslator) trigger() string {
	if t.Trigger != "" {
		return t.Trigger
	}
	return "U+"
}

func (t *CodepointTranslator) Query(input string, seg *core.Segment, ctx *context.Context) (menu.Translation, bool) {
	text := input[seg.Start:seg.End]
	trigger := t.trigger()
	if !strings.HasPrefix(text, trigger) {
		return nil, false
	}
	hex := text[len(trigger):]
	if hex == "" {
		return nil, false
	}
	cp, err := strconv.ParseInt(hex, 16, 32)
	if err != nil || cp < 0 || cp > 0x10FFFF {
		return nil, false
	}
	cand := core.NewSimpleCandidate("codepoint", seg.Start, seg.End, string(rune(cp)), hex, "", 1)
	return menu.NewSliceTranslation([]*core.Candidate{cand}), true
}
