package context

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rimecore/rimecore/pkg/core"
)

func TestPushAndPopInputFiresInputChange(t *testing.T) {
	c := New()
	ch := c.InputChangeNotifier.Subscribe()

	c.PushInput("ni")
	require.Equal(t, "ni", c.Input)
	require.Equal(t, 2, c.CaretPos)
	select {
	case <-ch:
	default:
		t.Fatal("expected input-change notification")
	}

	c.PopInput(1)
	require.Equal(t, "n", c.Input)
	require.Equal(t, 1, c.CaretPos)
}

func TestCommitAssemblesTextAndResets(t *testing.T) {
	c := New()
	c.PushInput("ni")
	c.Composition.AddSegment(core.NewSegment(0, 2))

	commitCh := c.CommitNotifier.Subscribe()
	text := c.Commit()

	require.Equal(t, "ni", text)
	require.Equal(t, "", c.Input)
	require.Equal(t, 0, c.CaretPos)
	require.Len(t, c.CommitHistory(), 1)
	require.Equal(t, "ni", c.CommitHistory()[0].Text)
	select {
	case <-commitCh:
	default:
		t.Fatal("expected commit notification")
	}
}

func TestCommitHistoryCapsAtTwenty(t *testing.T) {
	c := New()
	for i := 0; i < 25; i++ {
		c.PushInput("a")
		c.Composition.AddSegment(core.NewSegment(0, len(c.Input)))
		c.Commit()
	}
	require.Len(t, c.CommitHistory(), commitHistoryCap)
}

func TestReopenPreviousSegmentDemotesConfirmed(t *testing.T) {
	c := New()
	c.PushInput("ni")
	seg := core.NewSegment(0, 2)
	seg.Status = core.StatusConfirmed
	c.Composition.AddSegment(seg)

	require.True(t, c.ReopenPreviousSegment())
	require.Equal(t, core.StatusGuess, seg.Status)
}

func TestClearNonConfirmedCompositionTruncatesAtLastConfirmed(t *testing.T) {
	c := New()
	c.PushInput("nihao")
	confirmed := core.NewSegment(0, 2)
	confirmed.Status = core.StatusConfirmed
	pending := core.NewSegment(2, 5)
	c.Composition.AddSegment(confirmed)
	c.Composition.AddSegment(pending)

	c.ClearNonConfirmedComposition()
	require.Equal(t, "ni", c.Input)
}
