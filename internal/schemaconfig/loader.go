package schemaconfig

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// EnvPrefix is the environment variable prefix schema config overrides
// are read from, e.g. RIMECORE_PAGE_SIZE.
const EnvPrefix = "RIMECORE_"

// Load reads path (a `<name>.schema.yaml` file) layered over this
// package's defaults, then applies environment and flag overrides.
// Precedence (highest to lowest): flags > env vars > schema file >
// defaults, mirroring internal/cli/config.Load.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	defaults := Defaults()
	if err := k.Load(confmap.Provider(map[string]any{
		"page_size":                       defaults.PageSize,
		"user_dict_decay_half_life_ticks": defaults.UserDictDecayHalfLifeTicks,
		"poet_short_word_penalty":         defaults.PoetShortWordPenalty,
		"log_level":                       defaults.LogLevel,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("schemaconfig: load defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("schemaconfig: read %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("schemaconfig: load env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			if !f.Changed {
				return "", nil
			}
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("schemaconfig: load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("schemaconfig: decode: %w", err)
	}
	return &cfg, nil
}
