package deploy

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rimecore/rimecore/internal/prism"
	"github.com/rimecore/rimecore/pkg/core"
)

func TestParseSourceDictSkipsBlankAndCommentLines(t *testing.T) {
	src := "# comment\n\nzhong\tzhong\t10\nguo\tguo\n"
	entries, err := ParseSourceDict(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, "zhong", entries[0].Text)
	require.Equal(t, []string{"zhong"}, entries[0].Code)
	require.InDelta(t, 10.0, entries[0].Weight, 1e-9)
	require.Equal(t, 0.0, entries[1].Weight)
}

func TestParseSourceDictRejectsMissingCodeColumn(t *testing.T) {
	_, err := ParseSourceDict(strings.NewReader("zhong\n"))
	require.Error(t, err)
}

func TestBuildTableResolvesSpellingsAndInserts(t *testing.T) {
	p := prism.New(map[string]core.SyllableId{"zhong": 1, "guo": 2})
	entries := []SourceEntry{
		{Text: "中", Code: []string{"zhong"}, Weight: 10, Line: 1},
		{Text: "中国", Code: []string{"zhong", "guo"}, Weight: 20, Line: 2},
	}
	tbl, err := BuildTable(entries, p, []string{"zhong", "guo"})
	require.NoError(t, err)

	accessors, err := tbl.WalkPath(core.Code{1})
	require.NoError(t, err)
	require.NotEmpty(t, accessors)
}

func TestBuildTableRejectsUnknownSpelling(t *testing.T) {
	p := prism.New(map[string]core.SyllableId{"zhong": 1})
	entries := []SourceEntry{{Text: "国", Code: []string{"guo"}, Line: 1}}
	_, err := BuildTable(entries, p, []string{"zhong"})
	require.Error(t, err)
}

func TestSchemaIDFromPathRecognizedSuffixes(t *testing.T) {
	require.Equal(t, "pinyin", schemaIDFromPath("/data/pinyin.schema.yaml"))
	require.Equal(t, "pinyin", schemaIDFromPath("pinyin.prism.bin"))
	require.Equal(t, "", schemaIDFromPath("readme.md"))
}

func TestWorkerRebuildRunsOnFileWrite(t *testing.T) {
	dir := t.TempDir()
	var calls int32
	w := &Worker{
		DataDir: dir,
		Rebuild: func(schemaID string) error {
			if schemaID == "pinyin" {
				atomic.AddInt32(&calls, 1)
			}
			return nil
		},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pinyin.schema.yaml"), []byte("schema_id: pinyin\n"), 0o644))

	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&calls) > 0
	}, time.Second, 20*time.Millisecond)

	cancel()
	<-done
}

func TestWorkerScheduleRecoveryDrainsQueue(t *testing.T) {
	dir := t.TempDir()
	recovered := make(chan string, 1)
	w := &Worker{
		DataDir: dir,
		Recover: func(task RecoveryTask) error {
			recovered <- task.SchemaID
			return nil
		},
	}
	w.ScheduleRecovery("pinyin", context.DeadlineExceeded)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	go func() { _ = w.Run(ctx) }()

	select {
	case id := <-recovered:
		require.Equal(t, "pinyin", id)
	case <-time.After(time.Second):
		t.Fatal("recovery task was not drained")
	}
	cancel()
}
