package processor

import (
	"github.com/rimecore/rimecore/internal/context"
	"github.com/rimecore/rimecore/pkg/core"
)

// Speller admits letters in Alphabet and Delimiters and auto-selects on
// max code length (spec.md §4.3). Every alphabet or delimiter character
// is accepted; whether it extends a valid spelling of the current
// segment is not checked.
type Speller struct {
	Alphabet      map[rune]bool
	Delimiters    map[rune]bool
	MaxCodeLength int
}

func (p *Speller) Name() string { return "speller" }

func (p *Speller) Process(ctx *context.Context, key core.KeyEvent) Result {
	if ctx.Options["ascii_mode"] {
		return Noop
	}
	r, ok := key.Rune()
	if !ok || key.Release {
		return Noop
	}
	if !p.Alphabet[r] && !p.Delimiters[r] {
		return Noop
	}
	ctx.PushInput(string(r))
	if p.MaxCodeLength > 0 && ctx.CaretPos-currentSegmentStart(ctx) >= p.MaxCodeLength {
		ctx.ConfirmCurrentSelection()
	}
	return Accepted
}

func currentSegmentStart(ctx *context.Context) int {
	seg := ctx.Composition.GetCurrentSegment()
	if seg == nil {
		return 0
	}
	return seg.Start
}
