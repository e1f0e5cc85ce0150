package table

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rimecore/rimecore/pkg/core"
)

func sampleTable() *Table {
	tbl := New([]string{"zhong", "guo", "zhi", "z", "hong"})
	tbl.Insert(core.Code{1}, Entry{Text: "中", Weight: 10})
	tbl.Insert(core.Code{1}, Entry{Text: "忠", Weight: 5})
	tbl.Insert(core.Code{1, 2}, Entry{Text: "中国", Weight: 20})
	tbl.Insert(core.Code{1, 2, 3, 5}, Entry{Text: "中国之红", Weight: 3}) // beyond IndexCodeMaxLength -> tail
	return tbl
}

func TestWalkPathTrunk(t *testing.T) {
	tbl := sampleTable()

	accessors, err := tbl.WalkPath(core.Code{1})
	require.NoError(t, err)
	require.Len(t, accessors, 1)
	require.Equal(t, []Entry{{Text: "中", Weight: 10}, {Text: "忠", Weight: 5}}, accessors[0].Entries)

	accessors, err = tbl.WalkPath(core.Code{1, 2})
	require.NoError(t, err)
	require.Len(t, accessors, 1)
	require.Equal(t, "中国", accessors[0].Entries[0].Text)
}

func TestWalkPathTail(t *testing.T) {
	tbl := sampleTable()

	accessors, err := tbl.WalkPath(core.Code{1, 2, 3, 5})
	require.NoError(t, err)
	require.Len(t, accessors, 1)
	require.Equal(t, "中国之红", accessors[0].Entries[0].Text)

	// A different tail beyond the same trunk level does not match.
	accessors, err = tbl.WalkPath(core.Code{1, 2, 3, 9})
	require.NoError(t, err)
	require.Empty(t, accessors)
}

func TestCompletionAccessors(t *testing.T) {
	tbl := sampleTable()

	accessors, err := tbl.CompletionAccessors(core.Code{1})
	require.NoError(t, err)

	var texts []string
	for _, a := range accessors {
		for _, e := range a.Entries {
			texts = append(texts, e.Text)
		}
	}
	require.Contains(t, texts, "中")
	require.Contains(t, texts, "忠")
	require.Contains(t, texts, "中国")
	require.Contains(t, texts, "中国之红")

	for _, a := range accessors {
		for _, e := range a.Entries {
			if e.Text == "中国" {
				require.Equal(t, core.Code{2}, a.RemainingCode)
			}
		}
	}
}

func TestCompletionAccessorsBeyondIndexDepthIsEmpty(t *testing.T) {
	tbl := sampleTable()
	accessors, err := tbl.CompletionAccessors(core.Code{1, 2, 3})
	require.NoError(t, err)
	require.Nil(t, accessors)
}

func TestEntriesSortedByWeightDescending(t *testing.T) {
	tbl := New([]string{"a"})
	tbl.Insert(core.Code{1}, Entry{Text: "low", Weight: 1})
	tbl.Insert(core.Code{1}, Entry{Text: "high", Weight: 100})
	tbl.Insert(core.Code{1}, Entry{Text: "mid", Weight: 50})

	accessors, err := tbl.WalkPath(core.Code{1})
	require.NoError(t, err)
	require.Len(t, accessors, 1)
	entries := accessors[0].Entries
	require.Equal(t, "high", entries[0].Text)
	require.Equal(t, "mid", entries[1].Text)
	require.Equal(t, "low", entries[2].Text)
}

func TestSaveAndOpenRoundTrip(t *testing.T) {
	tbl := sampleTable()

	dir := t.TempDir()
	path := filepath.Join(dir, "test.table.bin")
	require.NoError(t, tbl.Save(path))

	loaded, err := Open(path)
	require.NoError(t, err)
	defer func() { _ = loaded.Close() }()

	require.Equal(t, tbl.NumEntries(), loaded.NumEntries())

	accessors, err := loaded.WalkPath(core.Code{1, 2})
	require.NoError(t, err)
	require.Len(t, accessors, 1)
	require.Equal(t, "中国", accessors[0].Entries[0].Text)

	accessors, err = loaded.WalkPath(core.Code{1, 2, 3, 5})
	require.NoError(t, err)
	require.Len(t, accessors, 1)
	require.Equal(t, "中国之红", accessors[0].Entries[0].Text)
}
