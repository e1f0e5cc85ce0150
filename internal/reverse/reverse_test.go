package reverse

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildAndLookup(t *testing.T) {
	db := Build(map[string][]string{
		"中": {"zhong1", "zhong"},
		"国": {"guo2"},
	})

	require.Equal(t, []string{"zhong", "zhong1"}, db.Lookup("中"))
	require.Equal(t, []string{"guo2"}, db.Lookup("国"))
	require.Nil(t, db.Lookup("missing"))
}

func TestCommentUsesFirstCode(t *testing.T) {
	db := Build(map[string][]string{"中": {"zhong1", "zhong"}})
	comment, ok := db.Comment("中")
	require.True(t, ok)
	require.Equal(t, "zhong", comment)

	_, ok = db.Comment("missing")
	require.False(t, ok)
}

func TestBuildDedupesCodes(t *testing.T) {
	db := Build(map[string][]string{"中": {"zhong", "zhong", "zhong"}})
	require.Equal(t, []string{"zhong"}, db.Lookup("中"))
}

func TestTextsForPrefixFindsAllMatchingCodes(t *testing.T) {
	db := Build(map[string][]string{
		"中": {"zhong1"},
		"忠": {"zhong2"},
		"国": {"guo2"},
	})
	texts := db.TextsForPrefix("zhong")
	require.ElementsMatch(t, []string{"中", "忠"}, texts)
	require.Empty(t, db.TextsForPrefix("shu"))
}
