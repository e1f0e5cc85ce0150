package processor

import (
	"github.com/rimecore/rimecore/internal/context"
	"github.com/rimecore/rimecore/pkg/core"
)

// AsciiComposer toggles the ascii_mode option on ToggleKey; while
// ascii_mode is set it commits every printable key raw and bypasses
// the rest of the chain (spec.md §4.3).
type AsciiComposer struct {
	ToggleKey string
}

func (p *AsciiComposer) Name() string { return "ascii_composer" }

func (p *AsciiComposer) Process(ctx *context.Context, key core.KeyEvent) Result {
	if key.Code == p.ToggleKey && !key.Release {
		ctx.Options["ascii_mode"] = !ctx.Options["ascii_mode"]
		ctx.OptionUpdateNotifier.Broadcast()
		return Accepted
	}
	if ctx.Options["ascii_mode"] {
		if r, ok := key.Rune(); ok {
			ctx.CommitRaw(string(r))
			return Accepted
		}
	}
	return Noop
}
