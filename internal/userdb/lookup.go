package userdb

import (
	"context"
	"sort"

	"github.com/rimecore/rimecore/internal/syllabifier"
	"github.com/rimecore/rimecore/pkg/core"
)

// Lookup performs spec.md §4.7's DFS over the syllable graph: at each
// position, for each outgoing edge, it builds a prefix key from the
// accumulated code and prefix-scans the store; every matching record
// becomes a DictEntry weighted by its decayed exposure. Entries whose
// stored code extends past the graph's interpreted length are tagged
// predictive via RemainingCodeLength.
func (s *Store) Lookup(ctx context.Context, g *syllabifier.SyllableGraph, startPos int, bias float64) (map[int][]*core.DictEntry, error) {
	results := make(map[int][]*core.DictEntry)

	var walk func(pos int, code core.Code) error
	walk = func(pos int, code core.Code) error {
		if len(code) > 0 {
			length := pos - startPos
			entries, err := s.entriesForCode(ctx, g, pos, code, bias)
			if err != nil {
				return err
			}
			results[length] = append(results[length], entries...)
		}
		for _, end := range g.EdgesFrom(pos) {
			for _, e := range g.Edges[pos][end] {
				if err := walk(end, append(code.Clone(), e.SyllableId)); err != nil {
					return err
				}
			}
		}
		return nil
	}
	if err := walk(startPos, nil); err != nil {
		return nil, err
	}

	for length := range results {
		sort.SliceStable(results[length], func(i, j int) bool {
			return results[length][i].Weight > results[length][j].Weight
		})
	}
	return results, nil
}

func (s *Store) entriesForCode(ctx context.Context, g *syllabifier.SyllableGraph, pos int, code core.Code, bias float64) ([]*core.DictEntry, error) {
	prefix := codePrefix(code)
	records, err := s.PrefixScan(ctx, prefix+"\t")
	if err != nil {
		return nil, err
	}

	var predictive []Record
	if pos == g.InterpretedLength {
		longer, err := s.PrefixScan(ctx, prefix+" ")
		if err != nil {
			return nil, err
		}
		predictive = longer
	}

	// Tombstoned (commits < 0) records are returned here with their
	// negative CommitCount (spec.md §4.7 "learning-aware delete").
	// UserDictTranslator drops them; a static-dictionary candidate with
	// the same text is not suppressed.
	out := make([]*core.DictEntry, 0, len(records)+len(predictive))
	for _, r := range records {
		out = append(out, &core.DictEntry{
			Text:        r.Text,
			Code:        r.Code,
			Weight:      r.Weight(bias),
			CommitCount: r.Commits,
		})
	}
	for _, r := range predictive {
		out = append(out, &core.DictEntry{
			Text:                r.Text,
			Code:                r.Code,
			Weight:              r.Weight(bias),
			CommitCount:         r.Commits,
			RemainingCodeLength: int32(len(r.Code) - len(code)),
		})
	}
	return out, nil
}
