package processor

import (
	"time"

	"github.com/rimecore/rimecore/internal/context"
	"github.com/rimecore/rimecore/pkg/core"
)

// defaultRevertWindow is how long after a commit a BackSpace still
// reverts it rather than being a no-op, per the table/user dictionary's
// 2-second revert_recent_transaction window (spec.md §4.7).
const defaultRevertWindow = 2 * time.Second

// Editor handles the composition's control keys: confirm, delete,
// and cancel (spec.md §4.3 "editor").
type Editor struct {
	// RevertWindow overrides defaultRevertWindow; zero means use the
	// default.
	RevertWindow time.Duration
}

func (p *Editor) Name() string { return "editor" }

func (p *Editor) revertWindow() time.Duration {
	if p.RevertWindow > 0 {
		return p.RevertWindow
	}
	return defaultRevertWindow
}

func (p *Editor) Process(ctx *context.Context, key core.KeyEvent) Result {
	if key.Release || ctx.Options["ascii_mode"] {
		return Noop
	}
	if len(ctx.Input) == 0 {
		if key.Code != "BackSpace" || !ctx.RevertLastCommit(p.revertWindow()) {
			return Noop
		}
		return Accepted
	}
	switch key.Code {
	case "Return":
		ctx.ConfirmCurrentSelection()
		if len(ctx.Input) > 0 {
			ctx.Commit()
		}
	case "BackSpace":
		if ctx.CaretPos == 0 {
			if !ctx.ReopenPreviousSegment() {
				return Noop
			}
			return Accepted
		}
		ctx.PopInput(1)
	case "Delete":
		if ctx.CaretPos >= len(ctx.Input) {
			return Noop
		}
		ctx.CaretPos++
		ctx.PopInput(1)
	case "Escape":
		ctx.ClearNonConfirmedComposition()
	default:
		return Noop
	}
	return Accepted
}
