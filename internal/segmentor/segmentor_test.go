package segmentor

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rimecore/rimecore/pkg/core"
)

func alphabetOf(letters string) map[byte]bool {
	m := make(map[byte]bool, len(letters))
	for i := 0; i < len(letters); i++ {
		m[letters[i]] = true
	}
	return m
}

func TestAbcSegmentorSplitsMaximalRun(t *testing.T) {
	input := "zhong1"
	seg := core.NewSegmentation(input)
	chain := NewChain(&FallbackSegmentor{}, &AbcSegmentor{Alphabet: alphabetOf("abcdefghijklmnopqrstuvwxyz")})
	chain.Run(input, seg)

	require.Len(t, seg.Segments, 2)
	require.Equal(t, 0, seg.Segments[0].Start)
	require.Equal(t, 5, seg.Segments[0].End)
	require.True(t, seg.Segments[0].HasTag("abc"))
	require.True(t, seg.Segments[1].HasTag("raw"))
}

func TestPunctSegmentorEndsRoundWithoutFallingThrough(t *testing.T) {
	input := ","
	seg := core.NewSegmentation(input)
	chain := NewChain(&FallbackSegmentor{}, &PunctSegmentor{Keys: map[byte]bool{',': true}})
	chain.Run(input, seg)

	require.Len(t, seg.Segments, 1)
	require.True(t, seg.Segments[0].HasTag("punct"))
}

func TestAsciiSegmentorConsumesRestWhileAsciiMode(t *testing.T) {
	input := "hello"
	seg := core.NewSegmentation(input)
	on := true
	chain := NewChain(&FallbackSegmentor{}, &AsciiSegmentor{AsciiMode: func() bool { return on }})
	chain.Run(input, seg)

	require.Len(t, seg.Segments, 1)
	require.Equal(t, 5, seg.Segments[0].End)
	require.True(t, seg.Segments[0].HasTag("raw"))
}

func TestFallbackSegmentorExtendsTrailingRawSegment(t *testing.T) {
	input := "ab"
	seg := core.NewSegmentation(input)
	chain := NewChain(&FallbackSegmentor{})
	chain.Run(input, seg)

	require.Len(t, seg.Segments, 1)
	require.Equal(t, 0, seg.Segments[0].Start)
	require.Equal(t, 2, seg.Segments[0].End)
}

func TestMatcherPicksLongestMatch(t *testing.T) {
	input := "http://x"
	seg := core.NewSegmentation(input)
	chain := NewChain(&FallbackSegmentor{}, &Matcher{Patterns: []MatcherPattern{
		{Tag: "url", Pattern: regexp.MustCompile(`^https?://\S+`)},
		{Tag: "scheme", Pattern: regexp.MustCompile(`^https?`)},
	}})
	chain.Run(input, seg)

	require.True(t, seg.Segments[0].HasTag("url"))
	require.Equal(t, len(input), seg.Segments[0].End)
}

func TestAffixSegmentorSplitsPrefixInnerSuffix(t *testing.T) {
	input := "~abc~"
	seg := core.NewSegmentation(input)
	chain := NewChain(&FallbackSegmentor{},
		&AbcSegmentor{Alphabet: alphabetOf("~abcdefghijklmnopqrstuvwxyz")},
		&AffixSegmentor{Prefix: "~", Suffix: "~", Tag: "reverse"},
	)
	chain.Run(input, seg)

	require.Len(t, seg.Segments, 3)
	require.True(t, seg.Segments[0].HasTag("raw"))
	require.True(t, seg.Segments[1].HasTag("reverse"))
	require.Equal(t, "abc", input[seg.Segments[1].Start:seg.Segments[1].End])
	require.True(t, seg.Segments[2].HasTag("raw"))
}
