package pipeline

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rimecore/rimecore/internal/context"
	"github.com/rimecore/rimecore/internal/filter"
	"github.com/rimecore/rimecore/internal/processor"
	"github.com/rimecore/rimecore/internal/segmentor"
	"github.com/rimecore/rimecore/internal/translator"
	"github.com/rimecore/rimecore/pkg/core"
)

func newTestPipeline() *Pipeline {
	return &Pipeline{
		Processors:  processor.NewChain(&processor.Speller{Alphabet: map[rune]bool{'a': true, 'b': true}}),
		Segmentors:  segmentor.NewChain(&segmentor.FallbackSegmentor{}),
		Translators: translator.NewChain(&translator.EchoTranslator{}),
		Filters:     filter.NewChain(),
	}
}

func keyRune(r rune) core.KeyEvent { return core.KeyEvent{Code: string(r)} }

func TestProcessKeyBuildsSegmentationAndMenu(t *testing.T) {
	p := newTestPipeline()
	ctx := context.New()

	handled, err := p.ProcessKey(ctx, keyRune('a'))
	require.NoError(t, err)
	require.True(t, handled)
	require.Equal(t, "a", ctx.Input)
	require.Len(t, ctx.Composition.Segments, 1)
	require.NotNil(t, ctx.Composition.Segments[0].Menu)

	cand, ok := ctx.Composition.Segments[0].Menu.CandidateAt(0)
	require.True(t, ok)
	require.Equal(t, "a", cand.Text)
}

func TestProcessKeyGrowsSegmentationAcrossKeys(t *testing.T) {
	p := newTestPipeline()
	ctx := context.New()

	_, err := p.ProcessKey(ctx, keyRune('a'))
	require.NoError(t, err)
	_, err = p.ProcessKey(ctx, keyRune('b'))
	require.NoError(t, err)

	require.Equal(t, "ab", ctx.Input)
	require.True(t, ctx.Composition.CheckCoverage())
	require.Equal(t, 0, ctx.Composition.Segments[0].Start)
	require.Equal(t, 2, ctx.Composition.Segments[len(ctx.Composition.Segments)-1].End)
}

func TestProcessKeyCommitsRawOnUniversalNoop(t *testing.T) {
	p := newTestPipeline()
	ctx := context.New()

	ch := ctx.CommitNotifier.Subscribe()
	handled, err := p.ProcessKey(ctx, keyRune('z'))
	require.NoError(t, err)
	require.True(t, handled)
	require.Equal(t, "", ctx.Input)

	select {
	case <-ch:
	default:
		t.Fatal("expected commit notifier to fire for raw-committed key")
	}
	require.Equal(t, "z", ctx.CommitHistory()[0].Text)
	require.Equal(t, "raw", ctx.CommitHistory()[0].Type)
}

func TestProcessKeyFiresUpdateNotifier(t *testing.T) {
	p := newTestPipeline()
	ctx := context.New()
	ch := ctx.UpdateNotifier.Subscribe()

	_, err := p.ProcessKey(ctx, keyRune('a'))
	require.NoError(t, err)

	select {
	case <-ch:
	default:
		t.Fatal("expected update notifier to fire")
	}
}

// misorderedSegmentor appends a segment that does not start at 0, an
// out-of-order result CheckCoverage rejects.
type misorderedSegmentor struct{}

func (misorderedSegmentor) Name() string { return "misordered" }

func (misorderedSegmentor) Segment(_ string, seg *core.Segmentation) bool {
	seg.AddSegment(core.NewSegment(5, 6, "raw"))
	return false
}

func TestProcessKeyRecoversInvariantViolation(t *testing.T) {
	p := newTestPipeline()
	ctx := context.New()

	// PushInput resets the segmentation, so the out-of-order segment has
	// to come from the segmentor chain itself to make CheckCoverage fail
	// after the rebuild.
	p.Segmentors = segmentor.NewChain(&segmentor.FallbackSegmentor{}, misorderedSegmentor{})

	handled, err := p.ProcessKey(ctx, keyRune('a'))
	require.Error(t, err)
	require.False(t, handled)
	require.Empty(t, ctx.Composition.Segments)
}
