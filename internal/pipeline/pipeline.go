// Package pipeline wires the processor, segmentor, translator and
// filter chains into the per-key-event algorithm a session drives
// (spec.md §4.2).
package pipeline

import (
	"fmt"
	"log/slog"

	"github.com/rimecore/rimecore/internal/context"
	"github.com/rimecore/rimecore/internal/filter"
	"github.com/rimecore/rimecore/internal/menu"
	"github.com/rimecore/rimecore/internal/processor"
	"github.com/rimecore/rimecore/internal/segmentor"
	"github.com/rimecore/rimecore/internal/translator"
	"github.com/rimecore/rimecore/pkg/core"
)

// Pipeline holds one schema's ordered chains, built once at attach
// time and shared by every session running that schema (spec.md
// §4.2's "constructed from the schema at attach time").
type Pipeline struct {
	Processors  *processor.Chain
	Segmentors  *segmentor.Chain
	Translators *translator.Chain
	Filters     *filter.Chain
	Logger      *slog.Logger
}

func (p *Pipeline) logger() *slog.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return slog.New(slog.DiscardHandler)
}

// ProcessKey runs one key event through the pipeline's four steps
// (spec.md §4.2). It reports whether the key was handled at all
// (accepted by a processor, or consumed by the raw-commit fallback);
// false means the caller should treat the key as entirely unhandled
// (spec.md §6's unhandled-key notifier).
//
// Invariant violations (spec.md §7: "offset out of mapped range, cycle
// in segmentation, non-monotonic segments") are recovered here rather
// than left to crash the host: the panic is logged, the segmentation
// is cleared, and ProcessKey returns handled=false so the caller's
// preedit still echoes the raw input.
func (p *Pipeline) ProcessKey(ctx *context.Context, key core.KeyEvent) (handled bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			p.logger().Error("pipeline: invariant violation recovered", "panic", r)
			ctx.Composition.Reset(ctx.Input)
			handled, err = false, fmt.Errorf("pipeline: invariant violation: %v", r)
		}
	}()

	inputBefore := ctx.Input
	accepted, rejected := p.Processors.Run(ctx, key)
	if kb, ok := accepted.(*processor.KeyBinder); ok {
		// A SendKey binding re-enters the chain once with its substitute;
		// a substitution queued during that second pass is dropped.
		if sub, queued := kb.Pending(); queued {
			key = sub
			accepted, rejected = p.Processors.Run(ctx, key)
			if again, ok := accepted.(*processor.KeyBinder); ok {
				_, _ = again.Pending()
			}
		}
	}

	switch {
	case accepted != nil:
		// handled below
	case rejected:
		return p.commitRawKey(ctx, key), nil
	default:
		return p.commitRawKey(ctx, key), nil
	}

	if ctx.Input != inputBefore {
		p.Segmentors.Run(ctx.Input, ctx.Composition)
		if !ctx.Composition.CheckCoverage() {
			panic("non-monotonic segmentation")
		}
	}

	for _, seg := range ctx.Composition.Segments {
		if seg.Menu != nil {
			continue
		}
		merged := p.Translators.Query(ctx.Input, seg, ctx)
		filtered := p.Filters.Apply(merged)
		seg.Menu = drainToMenu(filtered)
	}

	ctx.UpdateNotifier.Broadcast()
	return true, nil
}

// commitRawKey implements spec.md §4.2 step 1's "engine commits the
// raw key" path: a rejected or universally-noop'd key is committed
// outright as a single-byte string. It reports whether anything was
// committed; a key with no printable rune commits nothing.
func (p *Pipeline) commitRawKey(ctx *context.Context, key core.KeyEvent) bool {
	r, ok := key.Rune()
	if !ok {
		return false
	}
	ctx.CommitRaw(string(r))
	return true
}

// drainToMenu materializes a filtered translation into a
// pkg/core.SegmentMenu. Filters already trade laziness for lookahead
// (internal/filter's own drain rationale), so a segment's final menu
// is always a fully materialized candidate list; wrapping it back
// through menu.Merged gives the segment the same pagination surface
// (CandidateAt/Count/IsExhausted) a live translation would have.
func drainToMenu(src menu.Translation) core.SegmentMenu {
	var out []*core.Candidate
	for {
		c, ok := src.Next()
		if !ok {
			break
		}
		out = append(out, c)
	}
	return menu.NewMerged(menu.NewSliceTranslation(out))
}
