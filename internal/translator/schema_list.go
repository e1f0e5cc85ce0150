package translator

import (
	"github.com/rimecore/rimecore/internal/context"
	"github.com/rimecore/rimecore/internal/menu"
	"github.com/rimecore/rimecore/pkg/core"
)

// SchemaInfo is one entry of a schema registry's listing.
type SchemaInfo struct {
	ID   string
	Name string
}

// SchemaRegistry is the minimal view of the session layer's schema
// registry this translator needs; defined here rather than imported
// to avoid internal/translator depending on internal/session (spec.md
// §2 names "schema_list" without a contract; supplemented per
// SPEC_FULL.md §4).
type SchemaRegistry interface {
	Schemas() []SchemaInfo
}

// SchemaListTranslator surfaces every available schema as a candidate
// when the segment's text matches Trigger exactly.
type SchemaListTranslator struct {
	Trigger  string
	Registry SchemaRegistry
}

func (t *SchemaListTranslator) Name() string { return "schema_list" }

func (t *SchemaListTranslator) Query(input string, seg *core.Segment, ctx *context.Context) (menu.Translation, bool) {
	if t.Registry == nil || t.Trigger == "" {
		return nil, false
	}
	if input[seg.Start:seg.End] != t.Trigger {
		return nil, false
	}
	schemas := t.Registry.Schemas()
	if len(schemas) == 0 {
		return nil, false
	}
	cands := make([]*core.Candidate, len(schemas))
	for i, s := range schemas {
		cands[i] = core.NewSimpleCandidate("schema_list", seg.Start, seg.End, s.Name, s.ID, "", float64(len(schemas)-i))
	}
	return menu.NewSliceTranslation(cands), true
}
