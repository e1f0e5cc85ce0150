package processor

import (
	"github.com/rimecore/rimecore/internal/context"
	"github.com/rimecore/rimecore/pkg/core"
)

// Navigator moves the caret within the uncommitted input, wrapping
// around at either end (spec.md §4.3).
type Navigator struct{}

func (p *Navigator) Name() string { return "navigator" }

func (p *Navigator) Process(ctx *context.Context, key core.KeyEvent) Result {
	if key.Release || ctx.Options["ascii_mode"] || len(ctx.Input) == 0 {
		return Noop
	}
	switch key.Code {
	case "Left":
		if ctx.CaretPos == 0 {
			ctx.CaretPos = len(ctx.Input)
		} else {
			ctx.CaretPos--
		}
	case "Right":
		if ctx.CaretPos >= len(ctx.Input) {
			ctx.CaretPos = 0
		} else {
			ctx.CaretPos++
		}
	case "Home":
		ctx.CaretPos = 0
	case "End":
		ctx.CaretPos = len(ctx.Input)
	default:
		return Noop
	}
	ctx.UpdateNotifier.Broadcast()
	return Accepted
}
