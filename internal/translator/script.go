package translator

import (
	"sort"

	"github.com/rimecore/rimecore/internal/context"
	"github.com/rimecore/rimecore/internal/dict"
	"github.com/rimecore/rimecore/internal/menu"
	"github.com/rimecore/rimecore/internal/syllabifier"
	"github.com/rimecore/rimecore/pkg/core"
)

// ScriptTranslator builds a syllable graph over the segment's text and
// looks it up against the stacked dictionary, never invoking poet
// (spec.md §4.5, §4.6, SPEC_FULL.md §5 Open Question 3).
type ScriptTranslator struct {
	Prism      syllabifier.PrismIndex
	Dictionary *dict.Dictionary
	Bias       float64
}

func (t *ScriptTranslator) Name() string { return "script" }

func (t *ScriptTranslator) Query(input string, seg *core.Segment, ctx *context.Context) (menu.Translation, bool) {
	if !seg.HasTag("abc") || t.Prism == nil || t.Dictionary == nil {
		return nil, false
	}
	text := input[seg.Start:seg.End]
	if text == "" {
		return nil, false
	}

	graph := syllabifier.Build(text, t.Prism)
	buckets, err := t.Dictionary.Lookup(graph, 0, 1.0)
	if err != nil {
		return nil, false
	}

	var cands []*core.Candidate
	for length, it := range buckets {
		cands = append(cands, phraseCandidates(seg, length, drain(it, t.Bias))...)
	}
	if len(cands) == 0 {
		return nil, false
	}
	sort.SliceStable(cands, func(i, j int) bool { return core.Less(cands[i], cands[j]) })
	return menu.NewSliceTranslation(cands), true
}

// drain fully consumes a dictionary bucket's iterator, applying bias
// to each entry's weight.
func drain(it *dict.DictEntryIterator, bias float64) []*core.DictEntry {
	var entries []*core.DictEntry
	for !it.Exhausted() {
		entry, ok := it.Next()
		if !ok {
			break
		}
		entry.Weight += bias
		entries = append(entries, entry)
	}
	return entries
}

// phraseCandidates turns a length-bucket of dictionary entries into
// candidates spanning seg.Start to seg.Start+length, tagging
// completion entries distinctly (spec.md §4.6).
func phraseCandidates(seg *core.Segment, length int, entries []*core.DictEntry) []*core.Candidate {
	cands := make([]*core.Candidate, len(entries))
	for i, entry := range entries {
		typ := "table"
		if entry.RemainingCodeLength > 0 {
			typ = "completion"
		}
		cands[i] = core.NewPhraseCandidate(typ, seg.Start, seg.Start+length, entry, "")
	}
	return cands
}
