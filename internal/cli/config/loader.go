package config

import (
	"fmt"
	"os"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// EnvPrefix is the environment variable prefix rimecore.yaml overrides
// are read from, e.g. RIMECORE_DATA_DIR.
const EnvPrefix = "RIMECORE_"

var configFileUsed string

// GetConfigFileUsed returns the path to the config file that was
// loaded, if any.
func GetConfigFileUsed() string { return configFileUsed }

// findConfigFile resolves the config file to read: an explicit path,
// or the first of ./rimecore.yaml, ./rimecore.yml, ~/.rimecore/rimecore.yaml
// that exists.
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	candidates := []string{"rimecore.yaml", "rimecore.yml"}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, home+"/.rimecore/rimecore.yaml", home+"/.rimecore/rimecore.yml")
	}
	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c
		}
	}
	return ""
}

// Load reads rimecore's CLI configuration, layering (highest to
// lowest precedence) flags > environment variables > config file >
// defaults, mirroring the teacher's internal/cli/config.LoadConfig.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(map[string]any{
		"data_dir":      DefaultDataDir,
		"user_data_dir": DefaultUserDataDir,
		"log_level":     DefaultLogLevel,
		"output":        DefaultOutput,
		"verbose":       false,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("config: load defaults: %w", err)
	}

	configFileUsed = findConfigFile(cfgFile)
	if configFileUsed != "" {
		if err := k.Load(file.Provider(configFileUsed), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", configFileUsed, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKeyReplacer), nil); err != nil {
		return nil, fmt.Errorf("config: load env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			if !f.Changed {
				return "", nil
			}
			return f.Name, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("config: load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	return &cfg, nil
}

func envKeyReplacer(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'A' && c <= 'Z' {
			c = c - 'A' + 'a'
		}
		out = append(out, c)
	}
	return string(out)[len(EnvPrefix):]
}
