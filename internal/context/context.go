// Package context owns one session's mutable engine state: the input
// buffer, caret, composition (segmentation), commit history, option
// and property maps, and the notifier channels the pipeline and
// session layers observe (spec.md §4.1).
package context

import (
	"fmt"
	"time"

	"github.com/rimecore/rimecore/pkg/core"
)

// commitHistoryCap bounds the ring buffer backing reopen_previous_*
// (spec.md §4.1, supplemented per SPEC_FULL.md §4 from
// original_source/'s commit_history.cc).
const commitHistoryCap = 20

// CommitRecord is one entry of the commit history ring buffer.
type CommitRecord struct {
	Type        string // "commit" or "raw"
	Text        string
	SourceInput string // the Input that produced this commit, for RevertLastCommit
	At          time.Time
}

// Context is one session's composition state.
type Context struct {
	Input    string
	CaretPos int

	Composition *core.Segmentation

	commitHistory []CommitRecord

	Options    map[string]bool
	Properties map[string]string

	InputChangeNotifier    *Notifier
	CommitNotifier         *Notifier
	SelectNotifier         *Notifier
	UpdateNotifier         *Notifier
	DeleteNotifier         *Notifier
	OptionUpdateNotifier   *Notifier
	PropertyUpdateNotifier *Notifier
	UnhandledKeyNotifier   *Notifier

	// Clock is overridable in tests; it defaults to time.Now and backs
	// RevertLastCommit's window check.
	Clock func() time.Time
}

// New creates an empty context with all notifiers wired up.
func New() *Context {
	return &Context{
		Composition:            core.NewSegmentation(""),
		Options:                make(map[string]bool),
		Properties:             make(map[string]string),
		InputChangeNotifier:    NewNotifier(),
		CommitNotifier:         NewNotifier(),
		SelectNotifier:         NewNotifier(),
		UpdateNotifier:         NewNotifier(),
		DeleteNotifier:         NewNotifier(),
		OptionUpdateNotifier:   NewNotifier(),
		PropertyUpdateNotifier: NewNotifier(),
		UnhandledKeyNotifier:   NewNotifier(),
		Clock:                  time.Now,
	}
}

func (c *Context) now() time.Time {
	if c.Clock != nil {
		return c.Clock()
	}
	return time.Now()
}

// PushInput appends str to the input at the caret and fires
// input-change (spec.md §4.1).
func (c *Context) PushInput(str string) {
	c.Input = c.Input[:c.CaretPos] + str + c.Input[c.CaretPos:]
	c.CaretPos += len(str)
	c.Composition.Reset(c.Input)
	c.InputChangeNotifier.Broadcast()
}

// PopInput removes n bytes before the caret and fires input-change
// (spec.md §4.1).
func (c *Context) PopInput(n int) {
	if n <= 0 {
		return
	}
	if n > c.CaretPos {
		n = c.CaretPos
	}
	c.Input = c.Input[:c.CaretPos-n] + c.Input[c.CaretPos:]
	c.CaretPos -= n
	c.Composition.Reset(c.Input)
	c.InputChangeNotifier.Broadcast()
}

// Select marks the highlighted candidate of the last segment as
// selected and fires select then update (spec.md §4.1).
func (c *Context) Select(index int) error {
	seg := c.Composition.Last()
	if seg == nil {
		return fmt.Errorf("context: select: no active segment")
	}
	if seg.Menu == nil || index < 0 || index >= seg.Menu.Count() {
		return fmt.Errorf("context: select: index %d out of range", index)
	}
	seg.Selected = index
	seg.Status = core.StatusSelected
	c.SelectNotifier.Broadcast()
	c.UpdateNotifier.Broadcast()
	return nil
}

// ConfirmCurrentSelection promotes the last segment's status to
// confirmed; if it is also the final segment, Commit is called
// (spec.md §4.1).
func (c *Context) ConfirmCurrentSelection() {
	seg := c.Composition.Last()
	if seg == nil {
		return
	}
	seg.Status = core.StatusConfirmed
	if seg == c.Composition.Segments[len(c.Composition.Segments)-1] && seg.End >= len(c.Input) {
		c.Commit()
	}
}

// Commit assembles the commit string from the segmentation, fires
// commit-notifier exactly once, pushes a history record, and clears
// the context (spec.md §4.1).
func (c *Context) Commit() string {
	var text string
	for _, seg := range c.Composition.Segments {
		if cand, ok := seg.SelectedCandidate(); ok {
			text += cand.Text
		} else if seg.End <= len(c.Input) {
			text += c.Input[seg.Start:seg.End]
		}
	}
	c.pushHistory(CommitRecord{Type: "commit", Text: text, SourceInput: c.Input, At: c.now()})
	c.CommitNotifier.Broadcast()
	c.reset()
	return text
}

// CommitRaw commits a single raw key outright, per spec.md §4.2 step
// 1's "engine also commits the raw key" path, recording it in history
// as a distinct record type so reopen_previous_* can tell the
// difference (SPEC_FULL.md §4).
func (c *Context) CommitRaw(text string) {
	c.pushHistory(CommitRecord{Type: "raw", Text: text, SourceInput: c.Input, At: c.now()})
	c.CommitNotifier.Broadcast()
	c.reset()
}

func (c *Context) reset() {
	c.Input = ""
	c.CaretPos = 0
	c.Composition = core.NewSegmentation("")
}

// ClearNonConfirmedComposition truncates input at the end of the last
// confirmed segment (spec.md §4.1).
func (c *Context) ClearNonConfirmedComposition() {
	cut := 0
	for _, seg := range c.Composition.Segments {
		if seg.Status == core.StatusConfirmed {
			cut = seg.End
		} else {
			break
		}
	}
	c.Input = c.Input[:cut]
	if c.CaretPos > len(c.Input) {
		c.CaretPos = len(c.Input)
	}
	c.Composition.Reset(c.Input)
	c.InputChangeNotifier.Broadcast()
}

// ReopenPreviousSegment demotes the last confirmed/selected segment
// back to guess, re-enabling navigation without losing user context
// (spec.md §4.1).
func (c *Context) ReopenPreviousSegment() bool {
	for i := len(c.Composition.Segments) - 1; i >= 0; i-- {
		seg := c.Composition.Segments[i]
		if seg.Status == core.StatusConfirmed || seg.Status == core.StatusSelected {
			seg.Status = core.StatusGuess
			return true
		}
	}
	return false
}

// RevertLastCommit undoes the most recent commit if it happened within
// window, restoring Input to what produced it and re-deriving the
// segmentation from it (spec.md §9 "Some translators..."; supplemented
// per SPEC_FULL.md §4 from original_source/'s commit_history.cc-backed
// reopen behavior). It reports whether a commit was reverted.
func (c *Context) RevertLastCommit(window time.Duration) bool {
	if len(c.commitHistory) == 0 {
		return false
	}
	last := c.commitHistory[len(c.commitHistory)-1]
	if last.Type != "commit" {
		return false
	}
	if c.now().Sub(last.At) > window {
		return false
	}
	c.commitHistory = c.commitHistory[:len(c.commitHistory)-1]
	c.Input = last.SourceInput
	c.CaretPos = len(c.Input)
	c.Composition.Reset(c.Input)
	c.InputChangeNotifier.Broadcast()
	return true
}

// ReopenPreviousSelection is an alias for ReopenPreviousSegment kept
// distinct because the pipeline's editor handler names them
// separately (spec.md §4.1, §4.3 "editor").
func (c *Context) ReopenPreviousSelection() bool {
	return c.ReopenPreviousSegment()
}

func (c *Context) pushHistory(rec CommitRecord) {
	c.commitHistory = append(c.commitHistory, rec)
	if len(c.commitHistory) > commitHistoryCap {
		c.commitHistory = c.commitHistory[len(c.commitHistory)-commitHistoryCap:]
	}
}

// CommitHistory returns the bounded commit history, oldest first.
func (c *Context) CommitHistory() []CommitRecord {
	out := make([]CommitRecord, len(c.commitHistory))
	copy(out, c.commitHistory)
	return out
}
