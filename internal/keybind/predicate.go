package keybind

import (
	"fmt"

	"go.starlark.net/starlark"

	rlstarlark "github.com/rimecore/rimecore/internal/starlark"
)

// Predicate is a compiled "when" expression attached to a key_binder
// binding. It is evaluated against the current processor context's
// variables each time the binding's key matches (spec.md §4.2
// key_binder).
type Predicate struct {
	name string
	expr string
}

// NewPredicate stores expr for later evaluation; it is parsed and
// evaluated anew on every Eval call. name is used only for Starlark
// error messages.
func NewPredicate(name, expr string) *Predicate {
	return &Predicate{name: name, expr: expr}
}

// Eval runs the predicate against vars and reports whether it held.
// A Starlark error, or a result that isn't truthy in the Starlark
// sense, makes Eval report false rather than propagate into the
// processor chain.
func (p *Predicate) Eval(vars map[string]any) bool {
	if p == nil || p.expr == "" {
		return true
	}
	globals := starlark.StringDict{}
	for k, v := range vars {
		sv, err := rlstarlark.GoToStarlark(v)
		if err != nil {
			return false
		}
		globals[k] = sv
	}
	thread := &starlark.Thread{Name: p.name}
	result, err := starlark.Eval(thread, p.name, p.expr, globals) //nolint:staticcheck // SA1019: mirrors internal/starlark's ParallelExecutor
	if err != nil {
		return false
	}
	return bool(starlark.Truth(result))
}

// Template renders a recognizer's replacement text from a Starlark
// expression, with the regex match's named groups bound as string
// globals (spec.md §4.2 recognizer).
type Template struct {
	name string
	expr string
}

// NewTemplate stores expr for later rendering; it is parsed and
// evaluated anew on every Render call.
func NewTemplate(name, expr string) *Template {
	return &Template{name: name, expr: expr}
}

// Render evaluates the template against groups and returns the
// resulting string.
func (t *Template) Render(groups map[string]string) (string, error) {
	if t == nil {
		return "", fmt.Errorf("keybind: nil template")
	}
	globals := starlark.StringDict{}
	for k, v := range groups {
		globals[k] = starlark.String(v)
	}
	thread := &starlark.Thread{Name: t.name}
	result, err := starlark.Eval(thread, t.name, t.expr, globals) //nolint:staticcheck // SA1019: mirrors internal/starlark's ParallelExecutor
	if err != nil {
		return "", err
	}
	s, ok := starlark.AsString(result)
	if !ok {
		return "", fmt.Errorf("keybind: template %q did not evaluate to a string", t.name)
	}
	return s, nil
}
