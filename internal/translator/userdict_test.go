package translator

import (
	stdcontext "context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rimecore/rimecore/internal/context"
	"github.com/rimecore/rimecore/internal/prism"
	"github.com/rimecore/rimecore/internal/userdb"
	"github.com/rimecore/rimecore/pkg/core"
)

func TestUserDictTranslatorSurfacesLearnedEntries(t *testing.T) {
	p := prism.New(map[string]core.SyllableId{"zhong": 1, "guo": 2})
	store, err := userdb.Open(":memory:", nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.UpdateEntry(stdcontext.Background(), core.Code{1, 2}, "中国", 1, 240))

	tr := &UserDictTranslator{Prism: p, Store: store}
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
	require.Contains(t, texts, "中国")
}

func TestUserDictTranslatorSuppressesTombstonedEntries(t *testing.T) {
	p := prism.New(map[string]core.SyllableId{"zhong": 1, "guo": 2})
	store, err := userdb.Open(":memory:", nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.UpdateEntry(stdcontext.Background(), core.Code{1, 2}, "中国", 1, 240))
	require.NoError(t, store.UpdateEntry(stdcontext.Background(), core.Code{1, 2}, "中国", -1, 240))

	tr := &UserDictTranslator{Prism: p, Store: store}
	input := "zhongguo"
	seg := core.NewSegment(0, len(input), "abc")
	ctx := context.New()

	_, ok := tr.Query(input, seg, ctx)
	require.False(t, ok, "tombstoned entry should not surface a candidate")
}

func TestUserDictTranslatorNoStoreIsNoop(t *testing.T) {
	tr := &UserDictTranslator{}
	ctx := context.New()
	_, ok := tr.Query("zhongguo", core.NewSegment(0, 8, "abc"), ctx)
	require.False(t, ok)
}
