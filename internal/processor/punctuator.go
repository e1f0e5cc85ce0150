package processor

import (
	"github.com/rimecore/rimecore/internal/context"
	"github.com/rimecore/rimecore/pkg/core"
)

// Punctuator commits a mapped punctuation replacement directly,
// cycling through alternatives on repeated presses of the same key
// (spec.md §4.3, §4.6 "punct").
type Punctuator struct {
	// Mappings maps a trigger rune to its ordered list of replacement
	// strings; pressing the trigger repeatedly cycles through them.
	Mappings map[rune][]string

	oddness map[rune]int
}

func (p *Punctuator) Name() string { return "punctuator" }

func (p *Punctuator) Process(ctx *context.Context, key core.KeyEvent) Result {
	if key.Release || ctx.Options["ascii_mode"] {
		return Noop
	}
	r, ok := key.Rune()
	if !ok {
		return Noop
	}
	alts, ok := p.Mappings[r]
	if !ok || len(alts) == 0 {
		return Noop
	}
	if p.oddness == nil {
		p.oddness = make(map[rune]int)
	}
	i := p.oddness[r] % len(alts)
	p.oddness[r] = i + 1
	ctx.CommitRaw(alts[i])
	return Accepted
}
