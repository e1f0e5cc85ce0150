// Package dict implements the walk of a syllable graph against one or
// more stacked tables, producing per-length buckets of lazily merged
// dictionary entries (spec.md §4.6).
package dict

import (
	"fmt"
	"math"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/rimecore/rimecore/internal/syllabifier"
	"github.com/rimecore/rimecore/internal/table"
	"github.com/rimecore/rimecore/pkg/core"
)

// Dictionary stacks one or more tables, primary first (spec.md §4.6).
type Dictionary struct {
	tables []*table.Table
}

// New stacks tables in lookup priority order, primary table first.
func New(tables ...*table.Table) *Dictionary {
	return &Dictionary{tables: tables}
}

// Chunk wraps a TableAccessor with the path credibility accumulated to
// reach it, per spec.md §4.6 step 2.
type Chunk struct {
	IndexCode     core.Code
	Entries       []table.Entry
	Cursor        int
	RemainingCode core.Code // non-nil for a predictive/completion chunk
	Credibility   float64
}

func (c *Chunk) exhausted() bool { return c.Cursor >= len(c.Entries) }

// effectiveWeight is entry.weight + ln(credibility) (spec.md §4.6 step 2).
func (c *Chunk) effectiveWeight() float64 {
	return float64(c.Entries[c.Cursor].Weight) + math.Log(c.Credibility)
}

// DictEntryIterator is a k-way ordered merge of chunks by the head
// entry's effective weight, descending (spec.md §4.6).
type DictEntryIterator struct {
	chunks []*Chunk
}

func newDictEntryIterator(chunks []*Chunk) *DictEntryIterator {
	alive := chunks[:0]
	for _, c := range chunks {
		if !c.exhausted() {
			alive = append(alive, c)
		}
	}
	return &DictEntryIterator{chunks: alive}
}

// Exhausted reports whether every chunk has been fully consumed.
func (it *DictEntryIterator) Exhausted() bool {
	return len(it.chunks) == 0
}

func (it *DictEntryIterator) bestIndex() int {
	best := -1
	var bestWeight float64
	for i, c := range it.chunks {
		if c.exhausted() {
			continue
		}
		w := c.effectiveWeight()
		if best == -1 || w > bestWeight {
			best = i
			bestWeight = w
		}
	}
	return best
}

// Peek lazily materializes the current best DictEntry without
// advancing the iterator.
func (it *DictEntryIterator) Peek() (*core.DictEntry, bool) {
	i := it.bestIndex()
	if i < 0 {
		return nil, false
	}
	return materialize(it.chunks[i]), true
}

// Next advances the currently-best chunk's cursor and returns the
// entry that was current before advancing.
func (it *DictEntryIterator) Next() (*core.DictEntry, bool) {
	i := it.bestIndex()
	if i < 0 {
		return nil, false
	}
	c := it.chunks[i]
	entry := materialize(c)
	c.Cursor++
	if c.exhausted() {
		it.chunks = append(it.chunks[:i], it.chunks[i+1:]...)
	}
	return entry, true
}

func materialize(c *Chunk) *core.DictEntry {
	e := c.Entries[c.Cursor]
	code := c.IndexCode.Clone()
	return &core.DictEntry{
		Text:                e.Text,
		Code:                code,
		Weight:              c.effectiveWeight(),
		RemainingCodeLength: int32(len(c.RemainingCode)),
	}
}

// pathAccum is one (code, credibility) pair reachable from a lookup's
// start position.
type pathAccum struct {
	code core.Code
	cred float64
}

// collectPaths enumerates every code path from start to each reachable
// vertex >= start in the graph, accumulating the product of edge
// credibilities along the way (spec.md §4.5's "credibility ... is
// multiplied along the path", applied here to the lookup's own
// traversal of the graph rather than the syllabifier's).
func collectPaths(g *syllabifier.SyllableGraph, start int) map[int][]pathAccum {
	positions := make([]int, 0, len(g.Vertices))
	for pos := range g.Vertices {
		if pos >= start {
			positions = append(positions, pos)
		}
	}
	sort.Ints(positions)

	result := map[int][]pathAccum{start: {{code: nil, cred: 1.0}}}
	for _, pos := range positions {
		paths, ok := result[pos]
		if !ok {
			continue
		}
		for _, end := range g.EdgesFrom(pos) {
			for _, e := range g.Edges[pos][end] {
				for _, pa := range paths {
					newCode := append(pa.code.Clone(), e.SyllableId)
					result[end] = append(result[end], pathAccum{code: newCode, cred: pa.cred * e.Credibility})
				}
			}
		}
	}
	return result
}

// Lookup walks graph from startPos against every stacked table,
// producing one merged iterator per reachable length (spec.md §4.6).
// Each table is walked concurrently via errgroup, since the tables are
// independent mmap-backed stacks and a lookup commonly spans several
// of them (user table over the primary table, plus any schema
// dependencies).
func (d *Dictionary) Lookup(g *syllabifier.SyllableGraph, startPos int, initialCredibility float64) (map[int]*DictEntryIterator, error) {
	paths := collectPaths(g, startPos)

	var (
		mu     sync.Mutex
		merged = make(map[int][]*Chunk)
	)

	grp := new(errgroup.Group)
	for _, tbl := range d.tables {
		tbl := tbl
		grp.Go(func() error {
			local, err := walkTable(tbl, g, paths, startPos, initialCredibility)
			if err != nil {
				return err
			}
			mu.Lock()
			for length, chunks := range local {
				merged[length] = append(merged[length], chunks...)
			}
			mu.Unlock()
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		return nil, fmt.Errorf("dict: lookup: %w", err)
	}

	buckets := make(map[int]*DictEntryIterator, len(merged))
	for length, chunks := range merged {
		if len(chunks) > 0 {
			buckets[length] = newDictEntryIterator(chunks)
		}
	}
	return buckets, nil
}

func walkTable(tbl *table.Table, g *syllabifier.SyllableGraph, paths map[int][]pathAccum, startPos int, initialCredibility float64) (map[int][]*Chunk, error) {
	local := make(map[int][]*Chunk)
	for v, accums := range paths {
		if v <= startPos {
			continue
		}
		length := v - startPos
		for _, pa := range accums {
			cred := initialCredibility * pa.cred
			accessors, err := tbl.WalkPath(pa.code)
			if err != nil {
				return nil, fmt.Errorf("walk path: %w", err)
			}
			local[length] = append(local[length], toChunks(accessors, cred)...)

			if v == g.InterpretedLength && len(pa.code) <= core.IndexCodeMaxLength {
				completions, err := tbl.CompletionAccessors(pa.code)
				if err != nil {
					return nil, fmt.Errorf("completion accessors: %w", err)
				}
				local[length] = append(local[length], toChunks(completions, cred)...)
			}
		}
	}
	return local, nil
}

func toChunks(accessors []table.Accessor, credibility float64) []*Chunk {
	out := make([]*Chunk, 0, len(accessors))
	for _, a := range accessors {
		if len(a.Entries) == 0 {
			continue
		}
		out = append(out, &Chunk{
			IndexCode:     a.IndexCode,
			Entries:       a.Entries,
			RemainingCode: a.RemainingCode,
			Credibility:   credibility,
		})
	}
	return out
}
