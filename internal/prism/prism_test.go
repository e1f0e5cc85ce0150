package prism

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rimecore/rimecore/pkg/core"
)

func sampleSyllabary() map[string]core.SyllableId {
	return map[string]core.SyllableId{
		"zhong": 1,
		"guo":   2,
		"zhi":   3,
		"z":     4, // abbreviation-shaped entry to exercise prefix overlap
	}
}

// TestRoundTrip verifies spec.md §8.3: CommonPrefixSearch(s, s) for
// every s in the syllabary yields a match of length |s| whose
// syllable id equals the syllabary's canonical id for s.
func TestRoundTrip(t *testing.T) {
	syllabary := sampleSyllabary()
	p := New(syllabary)

	for spelling, wantID := range syllabary {
		matches := p.CommonPrefixSearch(spelling)
		require.NotEmpty(t, matches)
		last := matches[len(matches)-1]
		require.Equal(t, len(spelling), last.Length)

		descs, err := p.QuerySpelling(last.SpellingId)
		require.NoError(t, err)
		require.Len(t, descs, 1)
		require.Equal(t, wantID, descs[0].SyllableId)
	}
}

func TestCommonPrefixSearchOrder(t *testing.T) {
	p := New(sampleSyllabary())
	matches := p.CommonPrefixSearch("zhongguo")
	require.Len(t, matches, 1)
	require.Equal(t, 5, matches[0].Length) // only "zhong" is a prefix
}

func TestSaveAndOpenRoundTrip(t *testing.T) {
	syllabary := sampleSyllabary()
	p := New(syllabary)

	dir := t.TempDir()
	path := filepath.Join(dir, "test.prism.bin")
	require.NoError(t, p.Save(path))

	loaded, err := Open(path)
	require.NoError(t, err)
	defer func() { _ = loaded.Close() }()

	require.Equal(t, p.NumSyllables(), loaded.NumSyllables())
	for spelling, wantID := range syllabary {
		matches := loaded.CommonPrefixSearch(spelling)
		require.NotEmpty(t, matches)
		last := matches[len(matches)-1]
		descs, err := loaded.QuerySpelling(last.SpellingId)
		require.NoError(t, err)
		require.Equal(t, wantID, descs[0].SyllableId)
	}
}

func TestAddFuzzySpelling(t *testing.T) {
	p := New(sampleSyllabary())
	p.AddFuzzySpelling("zhung", 1, core.SpellingFuzzy, 0.8)

	matches := p.CommonPrefixSearch("zhung")
	require.NotEmpty(t, matches)
	descs, err := p.QuerySpelling(matches[len(matches)-1].SpellingId)
	require.NoError(t, err)
	require.Equal(t, core.SpellingFuzzy, descs[0].Properties.Type)
	require.InDelta(t, 0.8, descs[0].Properties.Credibility, 1e-9)
}
