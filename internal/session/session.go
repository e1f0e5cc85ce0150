// Package session implements the public session API spec.md §6
// abstracts from the C ABI: a process-wide map of sessions, each
// pairing a context.Context with the schema's prebuilt pipeline, plus
// staleness cleanup and the host-facing read operations.
package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	rimectx "github.com/rimecore/rimecore/internal/context"
	"github.com/rimecore/rimecore/internal/filter"
	"github.com/rimecore/rimecore/internal/keybind"
	"github.com/rimecore/rimecore/internal/pipeline"
	"github.com/rimecore/rimecore/internal/translator"
	"github.com/rimecore/rimecore/pkg/core"
)

// staleAfter is spec.md §6's cleanup_stale_sessions threshold.
const staleAfter = 5 * time.Minute

// MaintenanceGate reports whether a maintenance task is holding a
// schema's data busy. internal/deploy.Worker implements it.
type MaintenanceGate interface {
	MaintenanceMode() bool
}

// SchemaBinding is everything a schema contributes to a session: its
// prebuilt pipeline plus the schema-level options get_status reports.
// It is built once at schema-attach time (spec.md §4.2) by a loader
// outside this package and handed to Engine.RegisterSchema.
type SchemaBinding struct {
	ID, Name string
	Pipeline *pipeline.Pipeline
	PageSize int

	// SimplifiedFilters and TraditionalFilters, when both set, let
	// ProcessKey pick the filter chain by the session's "simplification"
	// option without rebuilding the rest of the pipeline (spec.md §8
	// scenario S7: simplifier on/off must be switchable per session,
	// but internal/filter.Filter.Apply has no per-call context
	// parameter to branch on internally, so the choice is made here,
	// one level up, instead).
	SimplifiedFilters  *filter.Chain
	TraditionalFilters *filter.Chain
}

func (b *SchemaBinding) pipelineFor(ctx *rimectx.Context) *pipeline.Pipeline {
	if b.SimplifiedFilters == nil && b.TraditionalFilters == nil {
		return b.Pipeline
	}
	p := *b.Pipeline
	if ctx.Options["simplification"] && b.SimplifiedFilters != nil {
		p.Filters = b.SimplifiedFilters
	} else if !ctx.Options["simplification"] && b.TraditionalFilters != nil {
		p.Filters = b.TraditionalFilters
	}
	return &p
}

// Session is one client's live composition state.
type Session struct {
	ID      string
	Schema  *SchemaBinding
	Context *rimectx.Context

	lastActive time.Time
	commitBuf  string

	prevOptions    map[string]bool
	prevProperties map[string]string
}

func newSession(id string, schema *SchemaBinding) *Session {
	return &Session{
		ID:             id,
		Schema:         schema,
		Context:        rimectx.New(),
		lastActive:     time.Time{},
		prevOptions:    make(map[string]bool),
		prevProperties: make(map[string]string),
	}
}

// Engine holds the process-wide session map (spec.md §6). It is the
// host-facing surface: a host binding wraps Engine 1:1 behind the C
// ABI's initialize/process_key/... functions.
type Engine struct {
	mu       sync.Mutex
	sessions map[string]*Session
	schemas  map[string]*SchemaBinding

	// Deploy gates create_session while a schema rebuild or user-db
	// recovery is in flight (spec.md §5). internal/deploy.Worker
	// satisfies this; an interface keeps this package from depending on
	// the deploy package's fsnotify machinery.
	Deploy MaintenanceGate

	// Notify delivers host notifier messages (spec.md §6 "Notifier
	// messages"): "option:<name>"/"!<name>", "property:<name>=<value>",
	// "schema:<id>/<name>". Nil disables delivery.
	Notify func(sessionID, message string)

	now func() time.Time
}

// NewEngine creates an empty engine. now defaults to time.Now; tests
// may override it via WithClock to make staleness deterministic.
func NewEngine() *Engine {
	return &Engine{
		sessions: make(map[string]*Session),
		schemas:  make(map[string]*SchemaBinding),
		now:      time.Now,
	}
}

// WithClock overrides the engine's time source (for cleanup tests).
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// RegisterSchema makes a schema available to CreateSession.
func (e *Engine) RegisterSchema(b *SchemaBinding) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.schemas[b.ID] = b
}

// Schemas implements internal/translator.SchemaRegistry, letting
// SchemaListTranslator enumerate every schema this engine knows about.
func (e *Engine) Schemas() []translator.SchemaInfo {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]translator.SchemaInfo, 0, len(e.schemas))
	for _, b := range e.schemas {
		out = append(out, translator.SchemaInfo{ID: b.ID, Name: b.Name})
	}
	return out
}

// CreateSession opens a new session against schemaID (spec.md §6).
// It refuses while the schema's data is under maintenance.
func (e *Engine) CreateSession(schemaID string) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.Deploy != nil && e.Deploy.MaintenanceMode() {
		return "", fmt.Errorf("session: schema %q is under maintenance", schemaID)
	}
	binding, ok := e.schemas[schemaID]
	if !ok {
		return "", fmt.Errorf("session: unknown schema %q", schemaID)
	}

	id := uuid.NewString()
	s := newSession(id, binding)
	s.lastActive = e.now()
	e.sessions[id] = s
	return id, nil
}

// DestroySession drops a session immediately.
func (e *Engine) DestroySession(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.sessions, id)
}

// CleanupStaleSessions drops sessions idle longer than 5 minutes,
// returning how many were dropped (spec.md §6).
func (e *Engine) CleanupStaleSessions() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	cutoff := e.now().Add(-staleAfter)
	n := 0
	for id, s := range e.sessions {
		if s.lastActive.Before(cutoff) {
			delete(e.sessions, id)
			n++
		}
	}
	return n
}

// CleanupAllSessions drops every session.
func (e *Engine) CleanupAllSessions() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sessions = make(map[string]*Session)
}

func (e *Engine) session(id string) (*Session, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	s, ok := e.sessions[id]
	if ok {
		s.lastActive = e.now()
	}
	return s, ok
}

// ProcessKey feeds one key event through the session's pipeline
// (spec.md §6 process_key).
func (e *Engine) ProcessKey(id string, key core.KeyEvent) (bool, error) {
	s, ok := e.session(id)
	if !ok {
		return false, fmt.Errorf("session: unknown session %q", id)
	}
	p := s.Schema.pipelineFor(s.Context)
	historyBefore := len(s.Context.CommitHistory())
	handled, err := p.ProcessKey(s.Context, key)
	s.collectCommits(historyBefore)
	e.notifyDeltas(s)
	return handled, err
}

// SimulateKeySequence parses repr per spec.md §6's key sequence
// grammar and feeds each resulting event through ProcessKey in order.
// A parse error empties the sequence (internal/keybind.ParseSequence),
// so it simply processes nothing and returns false.
func (e *Engine) SimulateKeySequence(id, repr string) (bool, error) {
	events := keybind.ParseSequence(repr)
	handledAny := false
	for _, ev := range events {
		handled, err := e.ProcessKey(id, ev)
		if err != nil {
			return handledAny, err
		}
		handledAny = handledAny || handled
	}
	return handledAny, nil
}

// GetCommit is a one-shot read of accumulated commit text; it clears
// the buffer (spec.md §6).
func (e *Engine) GetCommit(id string) (string, bool) {
	s, ok := e.session(id)
	if !ok || s.commitBuf == "" {
		return "", false
	}
	text := s.commitBuf
	s.commitBuf = ""
	return text, true
}

// SelectCandidate picks a candidate by index within the current
// segment's menu and confirms it outright (spec.md §6). This is a
// stronger action than the digit-key path through
// internal/processor.Selector, which only marks a tentative selection
// and leaves confirming to a later key: the public API call represents
// a host's complete "choose this candidate" gesture, so it also runs
// internal/context.Context.ConfirmCurrentSelection (committing the
// whole composition when this is the last segment), matching spec.md
// §8 scenario S6.
func (e *Engine) SelectCandidate(id string, index int) error {
	s, ok := e.session(id)
	if !ok {
		return fmt.Errorf("session: unknown session %q", id)
	}
	if err := s.Context.Select(index); err != nil {
		return err
	}
	historyBefore := len(s.Context.CommitHistory())
	s.Context.ConfirmCurrentSelection()
	s.collectCommits(historyBefore)
	e.notifyDeltas(s)
	return nil
}

// HighlightCandidate moves the segment's highlighted index without
// confirming it, a lighter preview-only operation than SelectCandidate
// (spec.md §6 distinguishes select_candidate from highlight_candidate;
// SPEC_FULL.md §4 resolves the distinction this way since neither
// spec.md nor original_source spells out the difference explicitly).
func (e *Engine) HighlightCandidate(id string, index int) error {
	s, ok := e.session(id)
	if !ok {
		return fmt.Errorf("session: unknown session %q", id)
	}
	seg := s.Context.Composition.Last()
	if seg == nil || seg.Menu == nil {
		return fmt.Errorf("session: highlight: no active menu")
	}
	if _, ok := seg.Menu.CandidateAt(index); !ok {
		return fmt.Errorf("session: highlight: index %d out of range", index)
	}
	seg.Selected = index
	s.Context.UpdateNotifier.Broadcast()
	return nil
}

// CommitComposition confirms the current selection and commits the
// whole composition outright (spec.md §6), mirroring
// internal/processor.Editor's Return handling.
func (e *Engine) CommitComposition(id string) error {
	s, ok := e.session(id)
	if !ok {
		return fmt.Errorf("session: unknown session %q", id)
	}
	historyBefore := len(s.Context.CommitHistory())
	s.Context.ConfirmCurrentSelection()
	if len(s.Context.Input) > 0 {
		s.Context.Commit()
	}
	s.collectCommits(historyBefore)
	e.notifyDeltas(s)
	return nil
}

// ClearComposition truncates non-confirmed composition (spec.md §6),
// mirroring internal/processor.Editor's Escape handling.
func (e *Engine) ClearComposition(id string) error {
	s, ok := e.session(id)
	if !ok {
		return fmt.Errorf("session: unknown session %q", id)
	}
	s.Context.ClearNonConfirmedComposition()
	e.notifyDeltas(s)
	return nil
}

// collectCommits appends every CommitRecord added since historyBefore
// to the session's one-shot commit buffer (spec.md §6 get_commit).
func (s *Session) collectCommits(historyBefore int) {
	history := s.Context.CommitHistory()
	for _, rec := range history[historyBefore:] {
		s.commitBuf += rec.Text
	}
}

// notifyDeltas diffs the session's option/property snapshots against
// its live context and emits spec.md §6 notifier messages for
// whatever changed, plus a schema notification on first use.
func (e *Engine) notifyDeltas(s *Session) {
	if e.Notify == nil {
		return
	}
	for name, now := range s.Context.Options {
		prev, seen := s.prevOptions[name]
		if !seen || prev != now {
			if now {
				e.Notify(s.ID, "option:"+name)
			} else {
				e.Notify(s.ID, "option:!"+name)
			}
		}
	}
	for name, now := range s.Context.Properties {
		if prev, seen := s.prevProperties[name]; !seen || prev != now {
			e.Notify(s.ID, fmt.Sprintf("property:%s=%s", name, now))
		}
	}
	s.prevOptions = snapshotBools(s.Context.Options)
	s.prevProperties = snapshotStrings(s.Context.Properties)
}

func snapshotBools(m map[string]bool) map[string]bool {
	out := make(map[string]bool, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func snapshotStrings(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
