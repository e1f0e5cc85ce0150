// Package menu implements the lazy candidate stream and merged,
// paginated menu atop it (spec.md §4.9).
package menu

import "github.com/rimecore/rimecore/pkg/core"

// Translation is a lazy, forward-only candidate stream (spec.md §4.9).
type Translation interface {
	Peek() (*core.Candidate, bool)
	Next() (*core.Candidate, bool)
	Exhausted() bool
}

// SliceTranslation adapts a pre-materialized slice of candidates to
// Translation, the shape most translators actually produce (spec.md
// §4.6's table lookup already returns entries in ranked order).
type SliceTranslation struct {
	candidates []*core.Candidate
	cursor     int
}

// NewSliceTranslation wraps a slice of candidates as a Translation.
func NewSliceTranslation(candidates []*core.Candidate) *SliceTranslation {
	return &SliceTranslation{candidates: candidates}
}

func (s *SliceTranslation) Peek() (*core.Candidate, bool) {
	if s.cursor >= len(s.candidates) {
		return nil, false
	}
	return s.candidates[s.cursor], true
}

func (s *SliceTranslation) Next() (*core.Candidate, bool) {
	c, ok := s.Peek()
	if ok {
		s.cursor++
	}
	return c, ok
}

func (s *SliceTranslation) Exhausted() bool { return s.cursor >= len(s.candidates) }

// less implements spec.md §4.9's candidate compare order used by the
// merge: smaller start first; then larger end (longer first); then
// higher quality. This mirrors pkg/core.Less but operates on the
// Translation interface's head candidates rather than a materialised
// slice, so it stays private to avoid a second canonical definition.
func less(a, b *core.Candidate) bool {
	return core.Less(a, b)
}

// Merged repeatedly picks, across its alive sub-translations, the one
// whose head candidate ranks highest by spec.md §4.9's compare order,
// advances it, and materializes the result (spec.md §4.9).
type Merged struct {
	subs       []Translation
	alive      []Translation
	materialized []*core.Candidate
}

// NewMerged builds a merged translation over subs, in the order they
// were registered; order only matters for deterministic tie-breaking
// since ties are otherwise unresolved per spec.md §4.9.
func NewMerged(subs ...Translation) *Merged {
	alive := make([]Translation, 0, len(subs))
	for _, s := range subs {
		if s != nil && !s.Exhausted() {
			alive = append(alive, s)
		}
	}
	return &Merged{subs: subs, alive: alive}
}

func (m *Merged) bestIndex() int {
	best := -1
	var bestCand *core.Candidate
	for i, s := range m.alive {
		cand, ok := s.Peek()
		if !ok {
			continue
		}
		if best == -1 || less(cand, bestCand) {
			best = i
			bestCand = cand
		}
	}
	return best
}

// advance pulls one more candidate into the materialized list,
// reporting whether it succeeded.
func (m *Merged) advance() bool {
	i := m.bestIndex()
	if i < 0 {
		return false
	}
	cand, ok := m.alive[i].Next()
	if !ok {
		return false
	}
	m.materialized = append(m.materialized, cand)
	if m.alive[i].Exhausted() {
		m.alive = append(m.alive[:i], m.alive[i+1:]...)
	}
	return true
}

// Exhausted reports whether every sub-translation has been drained.
func (m *Merged) Exhausted() bool {
	return len(m.alive) == 0
}

// Prepare drives the merge far enough to have n candidates
// materialised, bounded by exhaustion (spec.md §4.9: "menu.prepare(n)").
func (m *Merged) Prepare(n int) {
	for len(m.materialized) < n {
		if !m.advance() {
			return
		}
	}
}

// CandidateAt returns the nth materialised candidate, preparing more
// if necessary. It implements pkg/core.SegmentMenu.
func (m *Merged) CandidateAt(i int) (*core.Candidate, bool) {
	m.Prepare(i + 1)
	if i < 0 || i >= len(m.materialized) {
		return nil, false
	}
	return m.materialized[i], true
}

// Count returns how many candidates have been materialised so far
// (not the eventual total, which may be unknown until exhaustion).
func (m *Merged) Count() int { return len(m.materialized) }

// IsExhausted implements pkg/core.SegmentMenu.
func (m *Merged) IsExhausted() bool { return m.Exhausted() }

// Page is a slice of materialised candidates with pagination metadata
// (spec.md §4.9 "create_page").
type Page struct {
	Candidates []*core.Candidate
	PageNo     int
	IsLastPage bool
}

// CreatePage slices the materialised list into the requested page,
// preparing enough candidates first (spec.md §4.9).
func (m *Merged) CreatePage(pageSize, pageNo int) Page {
	start := pageNo * pageSize
	m.Prepare(start + pageSize)

	end := start + pageSize
	if end > len(m.materialized) {
		end = len(m.materialized)
	}
	if start > end {
		start = end
	}

	page := Page{PageNo: pageNo}
	page.Candidates = append(page.Candidates, m.materialized[start:end]...)
	page.IsLastPage = m.Exhausted() && end == len(m.materialized)
	return page
}
