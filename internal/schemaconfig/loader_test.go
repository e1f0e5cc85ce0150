package schemaconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

func writeSchemaFile(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "pinyin.schema.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadAppliesDefaultsWhenFieldAbsent(t *testing.T) {
	path := writeSchemaFile(t, "schema_id: pinyin\nname: Pinyin\n")
	cfg, err := Load(path, nil)
	require.NoError(t, err)
	require.Equal(t, "pinyin", cfg.SchemaID)
	require.Equal(t, 9, cfg.PageSize)
	require.Equal(t, 240, cfg.UserDictDecayHalfLifeTicks)
	require.InDelta(t, 1e-8, cfg.PoetShortWordPenalty, 1e-12)
}

func TestLoadSchemaFileOverridesDefault(t *testing.T) {
	path := writeSchemaFile(t, "schema_id: pinyin\npage_size: 5\n")
	cfg, err := Load(path, nil)
	require.NoError(t, err)
	require.Equal(t, 5, cfg.PageSize)
}

func TestLoadFlagOverridesSchemaFile(t *testing.T) {
	path := writeSchemaFile(t, "schema_id: pinyin\npage_size: 5\n")
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Int("page_size", 9, "")
	require.NoError(t, flags.Set("page_size", "7"))

	cfg, err := Load(path, flags)
	require.NoError(t, err)
	require.Equal(t, 7, cfg.PageSize)
}

func TestLoadEnvOverridesSchemaFile(t *testing.T) {
	path := writeSchemaFile(t, "schema_id: pinyin\npage_size: 5\n")
	t.Setenv("RIMECORE_PAGE_SIZE", "6")

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	require.Equal(t, 6, cfg.PageSize)
}

func TestLoadMissingPathStillAppliesDefaults(t *testing.T) {
	cfg, err := Load("", nil)
	require.NoError(t, err)
	require.Equal(t, 9, cfg.PageSize)
}
