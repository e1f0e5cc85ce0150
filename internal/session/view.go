package session

import "fmt"

// Composition is the preedit view of spec.md §6's get_context.
type Composition struct {
	Preedit     string
	CursorPos   int
	SelStart    int
	SelEnd      int
	IsComposing bool
}

// CandidateView is the host-facing slice of a Candidate's fields
// (spec.md §6's menu.candidates[].{text, comment}).
type CandidateView struct {
	Text    string
	Comment string
}

// Menu is the paginated view of the current segment's menu (spec.md
// §6 get_context).
type Menu struct {
	PageSize         int
	PageNo           int
	IsLastPage       bool
	HighlightedIndex int
	Candidates       []CandidateView
}

// Context is spec.md §6's get_context return value.
type Context struct {
	Composition Composition
	Menu        Menu
}

// Status is spec.md §6's get_status return value.
type Status struct {
	SchemaID      string
	SchemaName    string
	IsDisabled    bool
	IsAsciiMode   bool
	IsSimplified  bool
	IsComposing   bool
	IsFullShape   bool
	IsTraditional bool
}

// GetContext reports the session's current preedit and menu page
// (spec.md §6).
func (e *Engine) GetContext(id string) (Context, error) {
	s, ok := e.session(id)
	if !ok {
		return Context{}, fmt.Errorf("session: unknown session %q", id)
	}

	comp := Composition{
		Preedit:     s.Context.Input,
		CursorPos:   s.Context.CaretPos,
		IsComposing: len(s.Context.Input) > 0,
	}
	seg := s.Context.Composition.Last()
	if seg != nil {
		comp.SelStart, comp.SelEnd = seg.Start, seg.End
	}

	return Context{Composition: comp, Menu: pageFor(s)}, nil
}

// GetStatus reports the session's schema and mode flags (spec.md §6).
func (e *Engine) GetStatus(id string) (Status, error) {
	s, ok := e.session(id)
	if !ok {
		return Status{}, fmt.Errorf("session: unknown session %q", id)
	}
	simplified := s.Context.Options["simplification"]
	disabled := false
	if e.Deploy != nil {
		disabled = e.Deploy.MaintenanceMode()
	}
	return Status{
		SchemaID:      s.Schema.ID,
		SchemaName:    s.Schema.Name,
		IsDisabled:    disabled,
		IsAsciiMode:   s.Context.Options["ascii_mode"],
		IsSimplified:  simplified,
		IsComposing:   len(s.Context.Input) > 0,
		IsFullShape:   s.Context.Options["full_shape"],
		IsTraditional: !simplified,
	}, nil
}

func pageSize(s *Session) int {
	if s.Schema.PageSize > 0 {
		return s.Schema.PageSize
	}
	return 9
}

// pageFor builds the candidate page containing the current segment's
// highlighted index, or page 0 if nothing is highlighted yet.
func pageFor(s *Session) Menu {
	size := pageSize(s)
	m := Menu{PageSize: size, HighlightedIndex: -1}

	seg := s.Context.Composition.Last()
	if seg == nil || seg.Menu == nil {
		m.IsLastPage = true
		return m
	}

	pageNo := 0
	if seg.Selected >= 0 {
		pageNo = seg.Selected / size
		m.HighlightedIndex = seg.Selected - pageNo*size
	}
	m.PageNo = pageNo

	start := pageNo * size
	for i := start; i < start+size; i++ {
		cand, ok := seg.Menu.CandidateAt(i)
		if !ok {
			break
		}
		m.Candidates = append(m.Candidates, CandidateView{Text: cand.Text, Comment: cand.Comment})
	}
	m.IsLastPage = seg.Menu.IsExhausted() && start+len(m.Candidates) == seg.Menu.Count()
	return m
}
