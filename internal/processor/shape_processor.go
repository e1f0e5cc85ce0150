package processor

import (
	"golang.org/x/text/width"

	"github.com/rimecore/rimecore/internal/context"
	"github.com/rimecore/rimecore/pkg/core"
)

// ShapeProcessor commits full-width equivalents of printable ASCII
// keys when the full_shape option is set, bypassing composition
// entirely (spec.md §4.3, §4.9 DOMAIN STACK shape conversion).
type ShapeProcessor struct {
	Option string // defaults to "full_shape"
}

func (p *ShapeProcessor) Name() string { return "shape_processor" }

func (p *ShapeProcessor) option() string {
	if p.Option != "" {
		return p.Option
	}
	return "full_shape"
}

func (p *ShapeProcessor) Process(ctx *context.Context, key core.KeyEvent) Result {
	if key.Release || !ctx.Options[p.option()] {
		return Noop
	}
	r, ok := key.Rune()
	if !ok || r > 0x7e || r < 0x20 {
		return Noop
	}
	ctx.CommitRaw(width.Widen.String(string(r)))
	return Accepted
}
