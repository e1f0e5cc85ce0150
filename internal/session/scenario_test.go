package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rimecore/rimecore/internal/dict"
	"github.com/rimecore/rimecore/internal/filter"
	"github.com/rimecore/rimecore/internal/pipeline"
	"github.com/rimecore/rimecore/internal/prism"
	"github.com/rimecore/rimecore/internal/processor"
	"github.com/rimecore/rimecore/internal/segmentor"
	"github.com/rimecore/rimecore/internal/table"
	"github.com/rimecore/rimecore/internal/translator"
	"github.com/rimecore/rimecore/pkg/core"
)

// scenarioDict builds a small, literal dictionary covering every
// end-to-end scenario in spec.md §8: zhong/guo for S1/S2/S5, yi for
// S6's paged menu, and hanzi/han/zi for S7's simplifier toggle.
func scenarioDict(t *testing.T) (*prism.Prism, *dict.Dictionary) {
	t.Helper()
	p := prism.New(map[string]core.SyllableId{
		"zhong": 1, "guo": 2, "yi": 3, "han": 4, "zi": 5, "hanzi": 6,
	})
	tbl := table.New([]string{"zhong", "guo", "yi", "han", "zi", "hanzi"})
	tbl.Insert(core.Code{1}, table.Entry{Text: "中", Weight: 10})
	tbl.Insert(core.Code{2}, table.Entry{Text: "国", Weight: 8})
	tbl.Insert(core.Code{1, 2}, table.Entry{Text: "中国", Weight: 20})
	tbl.Insert(core.Code{6}, table.Entry{Text: "漢字", Weight: 9})
	tbl.Insert(core.Code{4, 5}, table.Entry{Text: "漢字", Weight: 7})

	// ten ranked entries under "yi" so a full page (pageSize 9) plus an
	// overflow entry exist, for S6's digit-key paging.
	yiTexts := []string{"一", "衣", "医", "依", "壹", "伊", "仪", "夷", "移", "疑"}
	for i, txt := range yiTexts {
		tbl.Insert(core.Code{3}, table.Entry{Text: txt, Weight: float32(100 - i)})
	}
	return p, dict.New(tbl)
}

// simpConverter is a trivial simplified->traditional converter for
// S7, standing in for the external OpenCC-style collaborator spec.md
// §1 scopes out of this repo (internal/filter.Converter).
type simpConverter struct{ table map[string]string }

func (c simpConverter) Convert(text string) (string, bool) {
	out, ok := c.table[text]
	return out, ok
}

// scenarioBinding assembles one schema binding exercising every
// processor/segmentor/translator named in spec.md §4.3/§4.4, wired the
// way internal/cli/wiring.attachSchema wires a real schema.
func scenarioBinding(t *testing.T, withSimplifier bool) *SchemaBinding {
	t.Helper()
	p, d := scenarioDict(t)

	alphabet := make(map[rune]bool)
	byteAlphabet := make(map[byte]bool)
	for r := 'a'; r <= 'z'; r++ {
		alphabet[r] = true
		byteAlphabet[byte(r)] = true
	}

	procs := processor.NewChain(
		&processor.AsciiComposer{ToggleKey: "Control+grave"},
		&processor.Speller{Alphabet: alphabet},
		&processor.Punctuator{Mappings: map[rune][]string{',': {"，"}}},
		&processor.Editor{},
		&processor.Navigator{},
		&processor.Selector{PageSize: 9},
	)
	segs := segmentor.NewChain(
		&segmentor.FallbackSegmentor{},
		&segmentor.AbcSegmentor{Alphabet: byteAlphabet},
		&segmentor.PunctSegmentor{Keys: map[byte]bool{',': true}},
	)
	trs := translator.NewChain(
		&translator.ScriptTranslator{Prism: p, Dictionary: d},
		&translator.PunctTranslator{Mappings: map[string][]string{",": {"，"}}},
	)

	var filters *filter.Chain
	if withSimplifier {
		filters = filter.NewChain(&filter.Simplifier{
			Converter: simpConverter{table: map[string]string{"漢字": "汉字"}},
		})
	} else {
		filters = filter.NewChain()
	}

	return &SchemaBinding{
		ID:   "pinyin",
		Name: "Pinyin",
		Pipeline: &pipeline.Pipeline{
			Processors:  procs,
			Segmentors:  segs,
			Translators: trs,
			Filters:     filters,
		},
		PageSize: 9,
	}
}

func newScenarioEngine(t *testing.T, withSimplifier bool) (*Engine, string) {
	t.Helper()
	e := NewEngine()
	e.RegisterSchema(scenarioBinding(t, withSimplifier))
	id, err := e.CreateSession("pinyin")
	require.NoError(t, err)
	return e, id
}

// S1: keys "zhong " -> commit "中".
func TestScenarioS1SpaceCommitsTopCandidate(t *testing.T) {
	e, id := newScenarioEngine(t, false)

	handled, err := e.SimulateKeySequence(id, "zhong ")
	require.NoError(t, err)
	require.True(t, handled)

	text, ok := e.GetCommit(id)
	require.True(t, ok)
	require.Equal(t, "中", text)
}

// S2: keys "zhongguo" then Return -> commit "中国".
func TestScenarioS2ReturnCommitsLongestPhrase(t *testing.T) {
	e, id := newScenarioEngine(t, false)

	handled, err := e.SimulateKeySequence(id, "zhongguo{Return}")
	require.NoError(t, err)
	require.True(t, handled)

	text, ok := e.GetCommit(id)
	require.True(t, ok)
	require.Equal(t, "中国", text)
}

// S3: keys "abc" then Escape -> no commit, context cleared.
func TestScenarioS3EscapeClearsWithoutCommit(t *testing.T) {
	e, id := newScenarioEngine(t, false)

	_, err := e.SimulateKeySequence(id, "abc{Escape}")
	require.NoError(t, err)

	_, ok := e.GetCommit(id)
	require.False(t, ok, "escape must not commit")

	ctxView, err := e.GetContext(id)
	require.NoError(t, err)
	require.False(t, ctxView.Composition.IsComposing)
}

// S4: keys "h," in ascii_mode on -> commit "h" then commit ",".
func TestScenarioS4AsciiModeCommitsRawKeys(t *testing.T) {
	e, id := newScenarioEngine(t, false)

	s, ok := e.session(id)
	require.True(t, ok)
	s.Context.Options["ascii_mode"] = true

	handled, err := e.ProcessKey(id, core.KeyEvent{Code: "h"})
	require.NoError(t, err)
	require.True(t, handled)
	text, ok := e.GetCommit(id)
	require.True(t, ok)
	require.Equal(t, "h", text)

	handled, err = e.ProcessKey(id, core.KeyEvent{Code: ","})
	require.NoError(t, err)
	require.True(t, handled)
	text, ok = e.GetCommit(id)
	require.True(t, ok)
	require.Equal(t, ",", text)
}

// S5: keys "zhong " commit "中", then BackSpace within 2s reopens
// "zhong"; a second BackSpace pops the last letter.
func TestScenarioS5BackSpaceRevertsRecentCommit(t *testing.T) {
	e, id := newScenarioEngine(t, false)

	s, ok := e.session(id)
	require.True(t, ok)
	now := time.Now()
	s.Context.Clock = func() time.Time { return now }

	_, err := e.SimulateKeySequence(id, "zhong ")
	require.NoError(t, err)
	_, ok = e.GetCommit(id)
	require.True(t, ok)

	now = now.Add(500 * time.Millisecond)
	_, err = e.ProcessKey(id, core.KeyEvent{Code: "BackSpace"})
	require.NoError(t, err)

	ctxView, err := e.GetContext(id)
	require.NoError(t, err)
	require.Equal(t, "zhong", ctxView.Composition.Preedit)

	_, err = e.ProcessKey(id, core.KeyEvent{Code: "BackSpace"})
	require.NoError(t, err)
	ctxView, err = e.GetContext(id)
	require.NoError(t, err)
	require.Equal(t, "zhon", ctxView.Composition.Preedit)
}

// S5 continued: past the revert window, BackSpace does not resurrect
// the commit.
func TestScenarioS5BackSpaceDoesNotRevertAfterWindow(t *testing.T) {
	e, id := newScenarioEngine(t, false)

	s, ok := e.session(id)
	require.True(t, ok)
	now := time.Now()
	s.Context.Clock = func() time.Time { return now }

	_, err := e.SimulateKeySequence(id, "zhong ")
	require.NoError(t, err)
	_, _ = e.GetCommit(id)

	now = now.Add(3 * time.Second)
	_, err = e.ProcessKey(id, core.KeyEvent{Code: "BackSpace"})
	require.NoError(t, err)

	ctxView, err := e.GetContext(id)
	require.NoError(t, err)
	require.Empty(t, ctxView.Composition.Preedit, "revert window elapsed, BackSpace should be a no-op")
}

// S6: digit keys page/select a menu whose first candidate is "一" ->
// commit "一".
func TestScenarioS6DigitSelectsFromFirstPage(t *testing.T) {
	e, id := newScenarioEngine(t, false)

	ctxView, err := func() (Context, error) {
		_, err := e.SimulateKeySequence(id, "yi")
		require.NoError(t, err)
		return e.GetContext(id)
	}()
	require.NoError(t, err)
	require.Equal(t, "一", ctxView.Menu.Candidates[0].Text)

	handled, err := e.SimulateKeySequence(id, "1")
	require.NoError(t, err)
	require.True(t, handled)

	require.NoError(t, e.CommitComposition(id))
	text, ok := e.GetCommit(id)
	require.True(t, ok)
	require.Equal(t, "一", text)
}

// S7: with simplifier on, "hanzi " -> commit "汉字"; with simplifier
// off, same input -> commit "漢字".
func TestScenarioS7SimplifierTogglesOutputScript(t *testing.T) {
	eOn, idOn := newScenarioEngine(t, true)
	_, err := eOn.SimulateKeySequence(idOn, "hanzi ")
	require.NoError(t, err)
	text, ok := eOn.GetCommit(idOn)
	require.True(t, ok)
	require.Equal(t, "汉字", text)

	eOff, idOff := newScenarioEngine(t, false)
	_, err = eOff.SimulateKeySequence(idOff, "hanzi ")
	require.NoError(t, err)
	text, ok = eOff.GetCommit(idOff)
	require.True(t, ok)
	require.Equal(t, "漢字", text)
}
