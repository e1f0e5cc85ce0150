// Package poet composes dictionary entries covering a word graph into
// a single best sentence via dynamic programming (spec.md §4.8).
package poet

import (
	"sort"

	"github.com/rimecore/rimecore/pkg/core"
)

// WordGraph maps a start position to the end positions reachable from
// it, each carrying the dictionary entries available for that span
// (spec.md §4.8).
type WordGraph map[int]map[int][]*core.DictEntry

// Sentence is one candidate sentence assembled by the DP: the words
// chosen, in order, and the accumulated weight product used to rank
// alternatives at each DP step.
type Sentence struct {
	Words  []*core.DictEntry
	Weight float64
}

func (s Sentence) extend(entry *core.DictEntry, penalty float64) Sentence {
	words := make([]*core.DictEntry, len(s.Words), len(s.Words)+1)
	copy(words, s.Words)
	words = append(words, entry)

	w := entry.Weight
	if w < 1e-200 {
		w = 1e-200
	}
	return Sentence{Words: words, Weight: s.Weight * w * penalty}
}

// Compose runs spec.md §4.8's DP over graph spanning [0,totalLength).
// shortWordPenalty is the per-step multiplier discouraging short-word
// chains (SPEC_FULL's schema-configurable default is 1e-8). It returns
// false if no full-length sentence longer than a single word exists.
func Compose(graph WordGraph, totalLength int, shortWordPenalty float64) (Sentence, bool) {
	best := map[int]Sentence{0: {Weight: 1.0}}

	starts := make([]int, 0, len(graph))
	for start := range graph {
		starts = append(starts, start)
	}
	sort.Ints(starts)

	for _, start := range starts {
		cur, ok := best[start]
		if !ok {
			continue
		}
		ends := make([]int, 0, len(graph[start]))
		for end := range graph[start] {
			ends = append(ends, end)
		}
		sort.Ints(ends)

		for _, end := range ends {
			if start == 0 && end == totalLength {
				// A single word spanning the whole input is not a
				// sentence (spec.md §4.8).
				continue
			}
			entries := topByWeight(graph[start][end], 1)
			for _, entry := range entries {
				candidate := cur.extend(entry, shortWordPenalty)
				if prev, ok := best[end]; !ok || candidate.Weight > prev.Weight {
					best[end] = candidate
				}
			}
		}
	}

	result, ok := best[totalLength]
	if !ok || len(result.Words) == 0 {
		return Sentence{}, false
	}
	return result, true
}

// topByWeight returns the k entries with the highest Weight, per
// spec.md §4.8's "top K=1 entries by weight" (kept general so a
// schema could raise K without changing the DP shape).
func topByWeight(entries []*core.DictEntry, k int) []*core.DictEntry {
	if len(entries) <= k {
		sorted := make([]*core.DictEntry, len(entries))
		copy(sorted, entries)
		sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Less(sorted[j]) })
		return sorted
	}
	sorted := make([]*core.DictEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Less(sorted[j]) })
	return sorted[:k]
}
