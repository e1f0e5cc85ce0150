// Package schemaconfig loads a schema's `<name>.schema.yaml` (koanf,
// yaml + file providers) into a typed Config, the way the teacher's
// internal/config/internal/cli/config pair loads leapsql.yaml.
package schemaconfig

// Config is a single input schema's resolved configuration: alphabet,
// punctuation, and the tunables spec.md §9 leaves
// implementation-defined. Key bindings are not part of it.
type Config struct {
	SchemaID string `koanf:"schema_id"`
	Name     string `koanf:"name"`

	Alphabet      string   `koanf:"alphabet"`
	Delimiters    string   `koanf:"delimiters"`
	MaxCodeLength int      `koanf:"max_code_length"`
	InitialFull   bool     `koanf:"initial_full_shape"`
	PageSize      int      `koanf:"page_size"`
	AffixPrefixes []string `koanf:"affix_prefixes"`
	AffixSuffixes []string `koanf:"affix_suffixes"`

	Punctuation map[string][]string `koanf:"punctuation"`

	// UserDictDecayHalfLifeTicks and PoetShortWordPenalty are schema
	// config, not compiled constants (spec.md §9 Open Question 2).
	UserDictDecayHalfLifeTicks int     `koanf:"user_dict_decay_half_life_ticks"`
	PoetShortWordPenalty       float64 `koanf:"poet_short_word_penalty"`

	// TablePoet enables multi-hop sentence composition in the table
	// translator (spec.md §9 Open Question 3).
	TablePoet bool `koanf:"table_poet"`

	DataDir     string `koanf:"data_dir"`
	UserDataDir string `koanf:"user_data_dir"`
	LogLevel    string `koanf:"log_level"`
}

// Defaults returns a Config populated with this package's defaults,
// ready for a loader to overlay a schema file and overrides on top of.
func Defaults() Config {
	return Config{
		PageSize:                   9,
		UserDictDecayHalfLifeTicks: 240,
		PoetShortWordPenalty:       1e-8,
		LogLevel:                   "info",
	}
}
