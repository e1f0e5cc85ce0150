// Package config loads rimecore's process-wide CLI configuration
// (data directories, default schema, log level, output mode), the way
// the teacher's internal/cli/config loads leapsql.yaml — generalized
// here to a single flat document instead of a multi-target project
// config, since rimecore has no per-environment database targets.
package config

// Config holds the CLI's process-wide configuration.
type Config struct {
	// DataDir holds every schema's compiled resources: <id>.schema.yaml,
	// <id>.prism.bin, <id>.table.bin, source dictionaries. internal/deploy
	// watches this directory (spec.md §5).
	DataDir string `koanf:"data_dir"`
	// UserDataDir holds each schema's user dictionary
	// (<id>.userdb.sqlite3), kept separate from DataDir so a schema
	// redeploy never touches learned data.
	UserDataDir string `koanf:"user_data_dir"`
	// DefaultSchema is the schema `simulate`/`session` attach to when
	// --schema isn't given.
	DefaultSchema string `koanf:"default_schema"`
	LogLevel      string `koanf:"log_level"`
	Verbose       bool   `koanf:"verbose"`
	// OutputFormat is auto|text|json (output.Mode).
	OutputFormat string `koanf:"output"`
}

// Default configuration values.
const (
	DefaultDataDir     = "data"
	DefaultUserDataDir = ".rimecore/userdb"
	DefaultLogLevel    = "info"
	DefaultOutput      = "auto"
)
