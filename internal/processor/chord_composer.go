package processor

import (
	"sort"

	"github.com/rimecore/rimecore/internal/context"
	"github.com/rimecore/rimecore/pkg/core"
)

// ChordComposer accumulates keys held down simultaneously and, on
// release of the last held key, serializes the chord into the input
// as a single spelling unit (spec.md §4.3).
type ChordComposer struct {
	// Keys is the set of key codes eligible to participate in a chord;
	// any key outside this set passes through untouched.
	Keys map[string]bool

	held    map[string]bool // currently pressed
	pressed map[string]bool // everything pressed since the chord began
}

func (p *ChordComposer) Name() string { return "chord_composer" }

func (p *ChordComposer) Process(ctx *context.Context, key core.KeyEvent) Result {
	if !p.Keys[key.Code] {
		return Noop
	}
	if p.held == nil {
		p.held = make(map[string]bool)
		p.pressed = make(map[string]bool)
	}
	if !key.Release {
		p.held[key.Code] = true
		p.pressed[key.Code] = true
		return Accepted
	}

	delete(p.held, key.Code)
	if len(p.held) > 0 {
		return Accepted
	}

	codes := make([]string, 0, len(p.pressed))
	for code := range p.pressed {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	p.pressed = make(map[string]bool)

	chord := ""
	for _, c := range codes {
		chord += c
	}
	ctx.PushInput(chord)
	return Accepted
}
