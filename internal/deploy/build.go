package deploy

import (
	"fmt"

	"github.com/rimecore/rimecore/internal/prism"
	"github.com/rimecore/rimecore/internal/table"
	"github.com/rimecore/rimecore/pkg/core"
)

// BuildTable compiles source entries into a Table, resolving each
// entry's spelling tokens to syllable ids via p (spec.md §4.5's
// CommonPrefixSearch, applied here syllable-by-syllable rather than
// against a whole input string).
func BuildTable(entries []SourceEntry, p *prism.Prism, syllabary []string) (*table.Table, error) {
	t := table.New(syllabary)
	for _, e := range entries {
		code, err := resolveCode(e.Code, p)
		if err != nil {
			return nil, fmt.Errorf("deploy: line %d: %w", e.Line, err)
		}
		t.Insert(code, table.Entry{Text: e.Text, Weight: e.Weight})
	}
	return t, nil
}

// resolveCode resolves a source entry's spelling tokens to the
// syllable ids indexing the compiled table, taking the first (highest
// priority) syllable a spelling resolves to when it's ambiguous.
func resolveCode(tokens []string, p *prism.Prism) (core.Code, error) {
	code := make(core.Code, 0, len(tokens))
	for _, tok := range tokens {
		id, err := resolveSyllable(tok, p)
		if err != nil {
			return nil, err
		}
		code = append(code, id)
	}
	return code, nil
}

func resolveSyllable(spelling string, p *prism.Prism) (core.SyllableId, error) {
	for _, m := range p.CommonPrefixSearch(spelling) {
		if m.Length != len(spelling) {
			continue
		}
		descs, err := p.QuerySpelling(m.SpellingId)
		if err != nil || len(descs) == 0 {
			continue
		}
		return descs[0].SyllableId, nil
	}
	return 0, fmt.Errorf("deploy: unknown spelling %q", spelling)
}
