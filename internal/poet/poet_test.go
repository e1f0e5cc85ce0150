package poet

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rimecore/rimecore/pkg/core"
)

func entry(text string, weight float64) *core.DictEntry {
	return &core.DictEntry{Text: text, Weight: weight}
}

func TestComposePrefersHigherWeightSentence(t *testing.T) {
	graph := WordGraph{
		0: {1: {entry("中", 10)}, 2: {entry("中国", 5)}},
		1: {2: {entry("国", 10)}},
	}
	s, ok := Compose(graph, 2, 1e-8)
	require.True(t, ok)
	require.Len(t, s.Words, 2)
	require.Equal(t, "中", s.Words[0].Text)
	require.Equal(t, "国", s.Words[1].Text)
}

func TestComposeExcludesSingleWordSpanningWholeInput(t *testing.T) {
	graph := WordGraph{
		0: {2: {entry("中国", 1000)}},
	}
	_, ok := Compose(graph, 2, 1e-8)
	require.False(t, ok)
}

func TestComposeNoPathReturnsFalse(t *testing.T) {
	graph := WordGraph{
		0: {1: {entry("中", 10)}},
	}
	_, ok := Compose(graph, 3, 1e-8)
	require.False(t, ok)
}

func TestComposePicksTopEntryWhenMultipleAtSameSpan(t *testing.T) {
	graph := WordGraph{
		0: {1: {entry("低", 1), entry("高", 100)}},
		1: {2: {entry("国", 10)}},
	}
	s, ok := Compose(graph, 2, 1e-8)
	require.True(t, ok)
	require.Equal(t, "高", s.Words[0].Text)
}
