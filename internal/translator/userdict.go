package translator

import (
	stdcontext "context"
	"sort"

	"github.com/rimecore/rimecore/internal/context"
	"github.com/rimecore/rimecore/internal/menu"
	"github.com/rimecore/rimecore/internal/syllabifier"
	"github.com/rimecore/rimecore/internal/userdb"
	"github.com/rimecore/rimecore/pkg/core"
)

// UserDictTranslator walks a segment's syllable graph against the
// user dictionary, the learned half of spec.md §4.6's "stacked
// dictionary" (internal/dict.Dictionary covers the static tables;
// this covers internal/userdb, which is queried separately since it
// is a SQLite-backed KV store rather than a mmap'd table.Table).
//
// Tombstoned records (negative CommitCount, spec.md §4.7's
// "learning-aware delete") never produce their own candidate here;
// Bias shifts every surviving entry's weight the same way
// ScriptTranslator's does.
type UserDictTranslator struct {
	Prism syllabifier.PrismIndex
	Store *userdb.Store
	Bias  float64
}

func (t *UserDictTranslator) Name() string { return "user_dict" }

func (t *UserDictTranslator) Query(input string, seg *core.Segment, ctx *context.Context) (menu.Translation, bool) {
	if !seg.HasTag("abc") || t.Prism == nil || t.Store == nil {
		return nil, false
	}
	text := input[seg.Start:seg.End]
	if text == "" {
		return nil, false
	}

	graph := syllabifier.Build(text, t.Prism)
	buckets, err := t.Store.Lookup(stdcontext.Background(), graph, 0, 1.0)
	if err != nil {
		return nil, false
	}

	var cands []*core.Candidate
	for length, entries := range buckets {
		live := entries[:0]
		for _, e := range entries {
			if e.CommitCount < 0 {
				continue
			}
			e.Weight += t.Bias
			live = append(live, e)
		}
		cands = append(cands, phraseCandidates(seg, length, live)...)
	}
	if len(cands) == 0 {
		return nil, false
	}
	sort.SliceStable(cands, func(i, j int) bool { return core.Less(cands[i], cands[j]) })
	return menu.NewSliceTranslation(cands), true
}
