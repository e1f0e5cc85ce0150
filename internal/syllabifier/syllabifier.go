// Package syllabifier turns an input string into a syllable graph by
// walking a prism's common-prefix search from every reachable position
// (spec.md §4.5).
package syllabifier

import (
	"container/heap"

	"github.com/rimecore/rimecore/internal/prism"
	"github.com/rimecore/rimecore/pkg/core"
)

// PrismIndex is the subset of *prism.Prism the syllabifier needs,
// narrowed to an interface so tests can substitute a fake spelling
// table without building a real trie.
type PrismIndex interface {
	CommonPrefixSearch(s string) []prism.Match
	QuerySpelling(id int) ([]prism.SpellingDescriptor, error)
}

// Edge is one (syllable, properties) pair attached to a span
// [start,end) in the graph, with the accumulated path credibility
// (spec.md §4.5's "credibility of a spelling is multiplied along the
// path").
type Edge struct {
	SyllableId  core.SyllableId
	Properties  core.SpellingProperties
	Credibility float64
}

// SyllableGraph is the DAG produced by Build (spec.md §4.5).
type SyllableGraph struct {
	InputLength       int
	InterpretedLength int
	Vertices          map[int]bool
	Edges             map[int]map[int][]Edge
}

// EdgesFrom returns the end positions reachable directly from pos, in
// ascending order.
func (g *SyllableGraph) EdgesFrom(pos int) []int {
	ends := make([]int, 0, len(g.Edges[pos]))
	for end := range g.Edges[pos] {
		ends = append(ends, end)
	}
	insertionSortInts(ends)
	return ends
}

func insertionSortInts(xs []int) {
	for i := 1; i < len(xs); i++ {
		for j := i; j > 0 && xs[j-1] > xs[j]; j-- {
			xs[j-1], xs[j] = xs[j], xs[j-1]
		}
	}
}

type queueItem struct {
	pos         int
	typ         core.SpellingType
	credibility float64
}

// priorityQueue orders by (pos asc, spelling type asc) so normal
// spellings expand a position before fuzzy/abbreviation ones reach it
// (spec.md §4.5).
type priorityQueue []queueItem

func (q priorityQueue) Len() int { return len(q) }
func (q priorityQueue) Less(i, j int) bool {
	if q[i].pos != q[j].pos {
		return q[i].pos < q[j].pos
	}
	return q[i].typ < q[j].typ
}
func (q priorityQueue) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }
func (q *priorityQueue) Push(x any)        { *q = append(*q, x.(queueItem)) }
func (q *priorityQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}

// Build runs the syllabifier over s using p for spelling lookups
// (spec.md §4.5).
func Build(s string, p PrismIndex) *SyllableGraph {
	g := &SyllableGraph{
		InputLength: len(s),
		Vertices:    map[int]bool{0: true},
		Edges:       make(map[int]map[int][]Edge),
	}

	pq := &priorityQueue{{pos: 0, typ: core.SpellingNormal, credibility: 1.0}}
	heap.Init(pq)
	expanded := make(map[int]bool)

	for pq.Len() > 0 {
		item := heap.Pop(pq).(queueItem)
		if expanded[item.pos] {
			continue
		}
		expanded[item.pos] = true
		if item.pos > g.InterpretedLength {
			g.InterpretedLength = item.pos
		}

		if item.pos >= len(s) {
			continue
		}
		for _, m := range p.CommonPrefixSearch(s[item.pos:]) {
			descs, err := p.QuerySpelling(m.SpellingId)
			if err != nil {
				continue
			}
			end := item.pos + m.Length
			for _, d := range descs {
				cred := item.credibility * d.Properties.Credibility
				mergeEdge(g, item.pos, end, d.SyllableId, d.Properties, cred)
				g.Vertices[end] = true
				heap.Push(pq, queueItem{pos: end, typ: d.Properties.Type, credibility: cred})
			}
		}
	}

	if g.InterpretedLength < 0 {
		g.InterpretedLength = 0
	}
	return g
}

// mergeEdge inserts or merges an edge per spec.md §4.5's duplicate
// resolution: the stronger (smaller enum value) spelling type wins;
// equal types keep the higher credibility; tips is cleared on merge.
func mergeEdge(g *SyllableGraph, pos, end int, syll core.SyllableId, props core.SpellingProperties, cred float64) {
	if g.Edges[pos] == nil {
		g.Edges[pos] = make(map[int][]Edge)
	}
	edges := g.Edges[pos][end]
	for i, e := range edges {
		if e.SyllableId != syll {
			continue
		}
		switch {
		case props.Type < e.Properties.Type:
			props.Tips = ""
			edges[i] = Edge{SyllableId: syll, Properties: props, Credibility: cred}
		case props.Type == e.Properties.Type:
			if cred > e.Credibility {
				merged := e.Properties
				merged.Tips = ""
				edges[i] = Edge{SyllableId: syll, Properties: merged, Credibility: cred}
			} else {
				edges[i].Properties.Tips = ""
			}
		}
		g.Edges[pos][end] = edges
		return
	}
	g.Edges[pos][end] = append(edges, Edge{SyllableId: syll, Properties: props, Credibility: cred})
}
