package processor

import (
	"github.com/rimecore/rimecore/internal/context"
	"github.com/rimecore/rimecore/internal/keybind"
	"github.com/rimecore/rimecore/pkg/core"
)

// Action is one effect a key binding triggers.
type Action interface {
	Apply(ctx *context.Context)
}

// ToggleOption flips a boolean option.
type ToggleOption struct{ Option string }

func (a ToggleOption) Apply(ctx *context.Context) {
	ctx.Options[a.Option] = !ctx.Options[a.Option]
	ctx.OptionUpdateNotifier.Broadcast()
}

// SetProperty assigns a session property.
type SetProperty struct{ Key, Value string }

func (a SetProperty) Apply(ctx *context.Context) {
	ctx.Properties[a.Key] = a.Value
	ctx.PropertyUpdateNotifier.Broadcast()
}

// SendKey substitutes the bound key with another, which the pipeline
// redispatches through the chain from the top (spec.md §4.3
// "key_binder").
type SendKey struct{ Key core.KeyEvent }

func (a SendKey) Apply(*context.Context) {}

// Binding is a single configured key-to-action mapping keyed by the
// event's symbolic Code, gated by modifier state.
type Binding struct {
	Code           string
	Shift          bool
	Control        bool
	Alt            bool
	RequireShift   bool
	RequireControl bool
	RequireAlt     bool
	Action         Action

	// When, if set, is a Starlark "when" predicate that gates the
	// binding on session state beyond the key event itself (e.g.
	// `option_ascii_mode == False`).
	When *keybind.Predicate
}

func (b Binding) matches(key core.KeyEvent, ctx *context.Context) bool {
	if key.Code != b.Code {
		return false
	}
	if b.RequireShift && key.Shift != b.Shift {
		return false
	}
	if b.RequireControl && key.Control != b.Control {
		return false
	}
	if b.RequireAlt && key.Alt != b.Alt {
		return false
	}
	if b.When != nil && !b.When.Eval(whenVars(ctx)) {
		return false
	}
	return true
}

// whenVars exposes session option/property state to a binding's When
// predicate, named option_<name>/prop_<name>.
func whenVars(ctx *context.Context) map[string]any {
	vars := make(map[string]any, len(ctx.Options)+len(ctx.Properties))
	for k, v := range ctx.Options {
		vars["option_"+k] = v
	}
	for k, v := range ctx.Properties {
		vars["prop_"+k] = v
	}
	return vars
}

// KeyBinder dispatches configured key combinations to actions; a
// SendKey action is exposed via Pending for the pipeline to
// redispatch, since Result alone cannot carry a substitute event
// (spec.md §4.3).
type KeyBinder struct {
	Bindings []Binding

	pending *core.KeyEvent
}

func (p *KeyBinder) Name() string { return "key_binder" }

// Pending returns and clears any key substitution queued by the last
// Process call.
func (p *KeyBinder) Pending() (core.KeyEvent, bool) {
	if p.pending == nil {
		return core.KeyEvent{}, false
	}
	k := *p.pending
	p.pending = nil
	return k, true
}

func (p *KeyBinder) Process(ctx *context.Context, key core.KeyEvent) Result {
	if key.Release {
		return Noop
	}
	for _, b := range p.Bindings {
		if !b.matches(key, ctx) {
			continue
		}
		if sk, ok := b.Action.(SendKey); ok {
			k := sk.Key
			p.pending = &k
			return Accepted
		}
		b.Action.Apply(ctx)
		return Accepted
	}
	return Noop
}
