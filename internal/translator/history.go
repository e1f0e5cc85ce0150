package translator

import (
	"github.com/rimecore/rimecore/internal/context"
	"github.com/rimecore/rimecore/internal/menu"
	"github.com/rimecore/rimecore/internal/reverse"
	"github.com/rimecore/rimecore/pkg/core"
)

// HistoryTranslator resurfaces a past commit whose reverse-lookup
// code matches the segment's spelling as a high-priority candidate,
// letting a user re-select a recent commit instead of retyping its
// full phrase (spec.md §4.1 commit history, §2).
type HistoryTranslator struct {
	DB      *reverse.DB
	Quality float64
}

func (t *HistoryTranslator) Name() string { return "history" }

func (t *HistoryTranslator) Query(input string, seg *core.Segment, ctx *context.Context) (menu.Translation, bool) {
	if !seg.HasTag("abc") || t.DB == nil {
		return nil, false
	}
	spelling := input[seg.Start:seg.End]
	recent := make(map[string]bool)
	for _, rec := range ctx.CommitHistory() {
		if rec.Type == "commit" {
			recent[rec.Text] = true
		}
	}

	var cands []*core.Candidate
	for _, text := range t.DB.TextsForPrefix(spelling) {
		if recent[text] {
			cands = append(cands, core.NewSimpleCandidate("history", seg.Start, seg.End, text, "", "", t.quality()))
		}
	}
	if len(cands) == 0 {
		return nil, false
	}
	return menu.NewSliceTranslation(cands), true
}

func (t *HistoryTranslator) quality() float64 {
	if t.Quality != 0 {
		return t.Quality
	}
	return 1e6
}
