// Package processor implements the chain of key handlers that consume
// a KeyEvent and mutate a session's context (spec.md §4.2 step 1,
// §4.3).
package processor

import (
	"github.com/rimecore/rimecore/internal/context"
	"github.com/rimecore/rimecore/pkg/core"
)

// Result is a processor's verdict for one key event (spec.md §4.2).
type Result int

const (
	Noop Result = iota
	Accepted
	Rejected
)

// Processor consumes a key event against a session's context.
type Processor interface {
	Name() string
	Process(ctx *context.Context, key core.KeyEvent) Result
}

// Chain runs processors in order per spec.md §4.2 step 1: the first
// Accepted stops the chain; Rejected commits the raw key and stops;
// if every processor returns Noop, the engine also commits the raw
// key.
type Chain struct {
	processors []Processor
}

// NewChain builds a processor chain in the given, schema-determined
// order.
func NewChain(processors ...Processor) *Chain {
	return &Chain{processors: processors}
}

// Run feeds key through the chain and returns the processor that
// accepted it (nil if none did).
func (c *Chain) Run(ctx *context.Context, key core.KeyEvent) (accepted Processor, rejected bool) {
	for _, p := range c.processors {
		switch p.Process(ctx, key) {
		case Accepted:
			return p, false
		case Rejected:
			return nil, true
		case Noop:
			continue
		}
	}
	return nil, false
}
