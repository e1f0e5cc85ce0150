package translator

import (
	"sort"

	"github.com/rimecore/rimecore/internal/context"
	"github.com/rimecore/rimecore/internal/dict"
	"github.com/rimecore/rimecore/internal/menu"
	"github.com/rimecore/rimecore/internal/poet"
	"github.com/rimecore/rimecore/internal/syllabifier"
	"github.com/rimecore/rimecore/pkg/core"
)

// TableTranslator is ScriptTranslator plus an optional poet pass that
// composes a single full-span sentence candidate out of the segment's
// word graph (spec.md §4.6, §4.8; SPEC_FULL.md §5 Open Question 3:
// Poet is an explicit, inspectable field rather than a hidden flag).
type TableTranslator struct {
	Prism            syllabifier.PrismIndex
	Dictionary       *dict.Dictionary
	Bias             float64
	Poet             bool
	ShortWordPenalty float64
}

func (t *TableTranslator) Name() string { return "table" }

func (t *TableTranslator) Query(input string, seg *core.Segment, ctx *context.Context) (menu.Translation, bool) {
	if !seg.HasTag("abc") || t.Prism == nil || t.Dictionary == nil {
		return nil, false
	}
	text := input[seg.Start:seg.End]
	if text == "" {
		return nil, false
	}

	graph := syllabifier.Build(text, t.Prism)

	var cands []*core.Candidate
	wordGraph := make(poet.WordGraph)
	if t.Poet {
		// Sentence composition needs a full multi-hop word graph: every
		// reachable vertex as a possible word boundary, not just the
		// entries reachable directly from position 0.
		for start := range graph.Vertices {
			buckets, err := t.Dictionary.Lookup(graph, start, 1.0)
			if err != nil {
				continue
			}
			for length, it := range buckets {
				entries := drain(it, t.Bias)
				if len(entries) == 0 {
					continue
				}
				if wordGraph[start] == nil {
					wordGraph[start] = make(map[int][]*core.DictEntry)
				}
				wordGraph[start][start+length] = entries
			}
		}
		for length, entries := range wordGraph[0] {
			cands = append(cands, phraseCandidates(seg, length, entries)...)
		}
		if sentence, ok := poet.Compose(wordGraph, len(text), t.shortWordPenalty()); ok {
			cands = append(cands, t.sentenceCandidate(seg, sentence))
		}
	} else {
		buckets, err := t.Dictionary.Lookup(graph, 0, 1.0)
		if err != nil {
			return nil, false
		}
		for length, it := range buckets {
			cands = append(cands, phraseCandidates(seg, length, drain(it, t.Bias))...)
		}
	}

	if len(cands) == 0 {
		return nil, false
	}
	sort.SliceStable(cands, func(i, j int) bool { return core.Less(cands[i], cands[j]) })
	return menu.NewSliceTranslation(cands), true
}

func (t *TableTranslator) shortWordPenalty() float64 {
	if t.ShortWordPenalty > 0 {
		return t.ShortWordPenalty
	}
	return 1e-8
}

func (t *TableTranslator) sentenceCandidate(seg *core.Segment, s poet.Sentence) *core.Candidate {
	text, syllables := "", make([]int, 0, len(s.Words))
	for _, w := range s.Words {
		text += w.Text
		syllables = append(syllables, len(w.Code))
	}
	cand := core.NewSimpleCandidate("sentence", seg.Start, seg.End, text, "", "", s.Weight)
	cand.Syllables = syllables
	return cand
}
