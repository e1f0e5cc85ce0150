package core

// CandidateStatus is the lifecycle state of a segment's selection
// (spec.md §3 "Segment").
type CandidateStatus int

const (
	StatusVoid CandidateStatus = iota
	StatusGuess
	StatusSelected
	StatusConfirmed
)

func (s CandidateStatus) String() string {
	switch s {
	case StatusVoid:
		return "void"
	case StatusGuess:
		return "guess"
	case StatusSelected:
		return "selected"
	case StatusConfirmed:
		return "confirmed"
	default:
		return "unknown"
	}
}

// Candidate is the immutable record produced by translators and
// consumed by filters, the menu, and finally the commit sink
// (spec.md §3 "Candidate").
type Candidate struct {
	// Type is a short tag used by memorization policy, e.g. "table",
	// "user_table", "punct", "completion".
	Type string

	Start, End int
	Quality    float64
	Text       string
	Comment    string
	Preedit    string

	// Entry is non-nil for phrase/sentence candidates; it carries the
	// DictEntry this candidate was built from.
	Entry *DictEntry
	// Language tags the dictionary/schema a phrase candidate came from.
	Language string

	// Syllables records the per-component syllable lengths that make
	// up a sentence candidate (spec.md §3 "sentence" sub-variant),
	// empty for simple/phrase candidates. Used by the navigator
	// processor to jump the caret by syllable stops.
	Syllables []int

	// shadowOf is non-nil when this candidate overrides the text,
	// comment, or preedit of another candidate (spec.md's "shadow"
	// sub-variant) while keeping its position/quality.
	shadowOf *Candidate
}

// NewSimpleCandidate builds a literal text/comment/preedit candidate.
func NewSimpleCandidate(typ string, start, end int, text, comment, preedit string, quality float64) *Candidate {
	return &Candidate{
		Type: typ, Start: start, End: end,
		Text: text, Comment: comment, Preedit: preedit, Quality: quality,
	}
}

// NewPhraseCandidate builds a candidate backed by a dictionary entry.
func NewPhraseCandidate(typ string, start, end int, entry *DictEntry, language string) *Candidate {
	return &Candidate{
		Type: typ, Start: start, End: end,
		Text: entry.Text, Comment: entry.Comment, Preedit: entry.Preedit,
		Quality: entry.Weight, Entry: entry, Language: language,
	}
}

// Shadow returns a copy of the candidate with text/comment/preedit
// overridden, keeping the original's position and quality and
// remembering the candidate it shadows (spec.md's "shadow" variant).
func (c *Candidate) Shadow(text, comment, preedit string) *Candidate {
	shadow := *c
	shadow.Text = text
	shadow.Comment = comment
	shadow.Preedit = preedit
	shadow.shadowOf = c
	return &shadow
}

// Unshadow returns the candidate this one shadows, or the candidate
// itself if it is not a shadow.
func (c *Candidate) Unshadow() *Candidate {
	if c.shadowOf != nil {
		return c.shadowOf
	}
	return c
}

// UniquifiedCandidate wraps a representative candidate and the
// duplicates the uniquifier filter collapsed into it, so that learning
// (commit-count bumps) can still apply to every surface form
// (spec.md §4.9 "uniquifier").
type UniquifiedCandidate struct {
	*Candidate
	Duplicates []*Candidate
}

// Merge folds another candidate with the same text into this one,
// preserving the first occurrence's position.
func (u *UniquifiedCandidate) Merge(dup *Candidate) {
	u.Duplicates = append(u.Duplicates, dup)
	if dup.Quality > u.Quality {
		u.Quality = dup.Quality
	}
}

// Less implements the menu merge compare order from spec.md §4.9:
// smaller start first; then larger end (longer first); then higher
// quality. Ties are not broken further.
func Less(a, b *Candidate) bool {
	if a.Start != b.Start {
		return a.Start < b.Start
	}
	if a.End != b.End {
		return a.End > b.End
	}
	return a.Quality > b.Quality
}
