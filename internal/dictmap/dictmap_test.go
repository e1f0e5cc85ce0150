package dictmap

import (
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rimecore/rimecore/internal/prism"
	"github.com/rimecore/rimecore/internal/table"
	"github.com/rimecore/rimecore/pkg/core"
)

func writeSampleSchema(t *testing.T) Paths {
	t.Helper()
	dir := t.TempDir()

	p := prism.New(map[string]core.SyllableId{"zhong": 1})
	prismPath := filepath.Join(dir, "pinyin.prism.bin")
	require.NoError(t, p.Save(prismPath))

	tbl := table.New([]string{"zhong"})
	tbl.Insert(core.Code{1}, table.Entry{Text: "中", Weight: 10})
	tablePath := filepath.Join(dir, "pinyin.table.bin")
	require.NoError(t, tbl.Save(tablePath))

	return Paths{SchemaID: "pinyin", PrismPath: prismPath, TablePaths: []string{tablePath}}
}

func TestOpenSharesInstanceAcrossHandles(t *testing.T) {
	r := NewRegistry()
	paths := writeSampleSchema(t)

	h1, err := r.Open(paths)
	require.NoError(t, err)
	h2, err := r.Open(paths)
	require.NoError(t, err)

	require.Same(t, h1.Prism, h2.Prism)
	require.Equal(t, 2, r.RefCount("pinyin"))

	require.NoError(t, h1.Close())
	require.Equal(t, 1, r.RefCount("pinyin"))
	require.NoError(t, h2.Close())
	require.Equal(t, 0, r.RefCount("pinyin"))
}

func TestOpenConcurrentCallersCollapseIntoOneLoad(t *testing.T) {
	r := NewRegistry()
	paths := writeSampleSchema(t)

	const n = 16
	handles := make([]*Handle, n)
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			h, err := r.Open(paths)
			require.NoError(t, err)
			handles[i] = h
		}(i)
	}
	wg.Wait()

	for i := 1; i < n; i++ {
		require.Same(t, handles[0].Prism, handles[i].Prism)
	}
	require.Equal(t, n, r.RefCount("pinyin"))

	for _, h := range handles {
		require.NoError(t, h.Close())
	}
	require.Equal(t, 0, r.RefCount("pinyin"))
}
