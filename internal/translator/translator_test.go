package translator

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rimecore/rimecore/internal/context"
	"github.com/rimecore/rimecore/internal/dict"
	"github.com/rimecore/rimecore/internal/prism"
	"github.com/rimecore/rimecore/internal/reverse"
	"github.com/rimecore/rimecore/internal/table"
	"github.com/rimecore/rimecore/pkg/core"
)

func buildDict(t *testing.T) (*prism.Prism, *dict.Dictionary) {
	t.Helper()
	p := prism.New(map[string]core.SyllableId{"zhong": 1, "guo": 2})
	tbl := table.New([]string{"zhong", "guo"})
	tbl.Insert(core.Code{1}, table.Entry{Text: "中", Weight: 10})
	tbl.Insert(core.Code{2}, table.Entry{Text: "国", Weight: 8})
	tbl.Insert(core.Code{1, 2}, table.Entry{Text: "中国", Weight: 20})
	return p, dict.New(tbl)
}

func TestScriptTranslatorProducesCandidatesAcrossLengths(t *testing.T) {
	p, d := buildDict(t)
	tr := &ScriptTranslator{Prism: p, Dictionary: d}

	input := "zhongguo"
	seg := core.NewSegment(0, len(input), "abc")
	ctx := context.New()

	translation, ok := tr.Query(input, seg, ctx)
	require.True(t, ok)

	var texts []string
	for {
		c, ok := translation.Next()
		if !ok {
			break
		}
		texts = append(texts, c.Text)
	}
	require.Contains(t, texts, "中")
	require.Contains(t, texts, "中国")
}

func TestTableTranslatorComposesSentenceWhenPoetEnabled(t *testing.T) {
	p, d := buildDict(t)
	tr := &TableTranslator{Prism: p, Dictionary: d, Poet: true}

	input := "zhongguo"
	seg := core.NewSegment(0, len(input), "abc")
	ctx := context.New()

	translation, ok := tr.Query(input, seg, ctx)
	require.True(t, ok)

	var sawSentence bool
	for {
		c, ok := translation.Next()
		if !ok {
			break
		}
		if c.Type == "sentence" {
			sawSentence = true
		}
	}
	require.True(t, sawSentence)
}

func TestPunctTranslatorMapsRegisteredKey(t *testing.T) {
	tr := &PunctTranslator{Mappings: map[string][]string{",": {"，"}}}
	seg := core.NewSegment(0, 1, "punct")
	ctx := context.New()

	translation, ok := tr.Query(",", seg, ctx)
	require.True(t, ok)
	c, ok := translation.Next()
	require.True(t, ok)
	require.Equal(t, "，", c.Text)
}

func TestEchoTranslatorSurfacesRawSegment(t *testing.T) {
	tr := &EchoTranslator{}
	seg := core.NewSegment(0, 1, "raw")
	ctx := context.New()

	translation, ok := tr.Query("@", seg, ctx)
	require.True(t, ok)
	c, ok := translation.Next()
	require.True(t, ok)
	require.Equal(t, "@", c.Text)
}

func TestReverseTranslatorLooksUpByCodePrefix(t *testing.T) {
	db := reverse.Build(map[string][]string{"中": {"zhong1"}})
	tr := &ReverseTranslator{Tag: "rev", DB: db}
	seg := core.NewSegment(0, 5, "rev")
	ctx := context.New()

	translation, ok := tr.Query("zhong", seg, ctx)
	require.True(t, ok)
	c, ok := translation.Next()
	require.True(t, ok)
	require.Equal(t, "中", c.Text)
}

func TestCodepointTranslatorDecodesHex(t *testing.T) {
	tr := &CodepointTranslator{}
	input := "U+4E2D"
	seg := core.NewSegment(0, len(input), "abc")
	ctx := context.New()

	translation, ok := tr.Query(input, seg, ctx)
	require.True(t, ok)
	c, ok := translation.Next()
	require.True(t, ok)
	require.Equal(t, "中", c.Text)
}

func TestHistoryTranslatorOnlyResurfacesCommittedText(t *testing.T) {
	db := reverse.Build(map[string][]string{"中": {"zhong1"}, "忠": {"zhong2"}})
	tr := &HistoryTranslator{DB: db}
	seg := core.NewSegment(0, 5, "abc")
	ctx := context.New()
	ctx.PushInput("x")
	ctx.Composition.AddSegment(core.NewSegment(0, 1))
	ctx.Commit() // records "x" as commit, unrelated text

	translation, ok := tr.Query("zhong", seg, ctx)
	require.False(t, ok)

	// simulate "中" having actually been committed before
	ctx2 := context.New()
	ctx2.PushInput("中")
	s := core.NewSegment(0, len("中"))
	s.Selected = 0
	menuStub := &stubMenu{cand: core.NewSimpleCandidate("table", 0, len("中"), "中", "", "", 1)}
	var sm core.SegmentMenu = menuStub
	s.Menu = sm
	ctx2.Composition.AddSegment(s)
	ctx2.Commit()

	translation, ok = tr.Query("zhong", seg, ctx2)
	require.True(t, ok)
	c, ok := translation.Next()
	require.True(t, ok)
	require.Equal(t, "中", c.Text)
}

type stubMenu struct{ cand *core.Candidate }

func (s *stubMenu) CandidateAt(i int) (*core.Candidate, bool) {
	if i == 0 {
		return s.cand, true
	}
	return nil, false
}
func (s *stubMenu) Count() int        { return 1 }
func (s *stubMenu) IsExhausted() bool { return true }

type fakeRegistry struct{ schemas []SchemaInfo }

func (f fakeRegistry) Schemas() []SchemaInfo { return f.schemas }

func TestSchemaListTranslatorOnlyFiresOnTrigger(t *testing.T) {
	tr := &SchemaListTranslator{Trigger: "schema", Registry: fakeRegistry{
		schemas: []SchemaInfo{{ID: "pinyin", Name: "Pinyin"}},
	}}
	ctx := context.New()

	seg := core.NewSegment(0, 6, "abc")
	translation, ok := tr.Query("schema", seg, ctx)
	require.True(t, ok)
	c, _ := translation.Next()
	require.Equal(t, "Pinyin", c.Text)

	_, ok = tr.Query("other", seg, ctx)
	require.False(t, ok)
}
