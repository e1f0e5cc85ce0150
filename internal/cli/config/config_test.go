package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("", nil)
	require.NoError(t, err)
	require.Equal(t, DefaultDataDir, cfg.DataDir)
	require.Equal(t, DefaultLogLevel, cfg.LogLevel)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rimecore.yaml")
	require.NoError(t, os.WriteFile(path, []byte("data_dir: /srv/rime\nlog_level: debug\n"), 0o644))

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	require.Equal(t, "/srv/rime", cfg.DataDir)
	require.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadFlagsOverrideFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rimecore.yaml")
	require.NoError(t, os.WriteFile(path, []byte("data_dir: /srv/rime\n"), 0o644))

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("data_dir", "", "")
	require.NoError(t, flags.Set("data_dir", "/tmp/override"))

	cfg, err := Load(path, flags)
	require.NoError(t, err)
	require.Equal(t, "/tmp/override", cfg.DataDir)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rimecore.yaml")
	require.NoError(t, os.WriteFile(path, []byte("data_dir: /srv/rime\n"), 0o644))

	t.Setenv("RIMECORE_DATA_DIR", "/var/rime")
	cfg, err := Load(path, nil)
	require.NoError(t, err)
	require.Equal(t, "/var/rime", cfg.DataDir)
}

func TestValidateRequiresDataDir(t *testing.T) {
	cfg := &Config{}
	require.Error(t, cfg.Validate())
}
