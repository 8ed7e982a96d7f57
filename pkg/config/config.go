// Package config provides configuration management for GNharmony.
//
// This package has no I/O dependencies (no file operations, no network calls).
// Validation functions may write user-facing warnings via gn.Warn().
//
// # Configuration Sources
//
// Precedence (highest to lowest): CLI flags > env vars > config.yaml > defaults
//
// # Design Principles
//
// - Default config (from New()) is always valid - no validation needed
// - All mutations go through Option functions - the only way to modify Config
// - Invalid options are rejected with gn.Warn() - config remains in valid state
// - ToOptions() converts persistent fields (those in config.yaml)
// - Environment variables match ToOptions() fields exactly
//
// # Persistent vs Runtime Fields
//
// Persistent fields (in ToOptions, config.yaml, and env vars):
//   - Database: host, port, user, password, database, ssl_mode, batch_size
//   - Harmonize: polyphyly_filter, carryover, rank_check, export
//   - Log: level, format, destination
//   - General: jobs_number
//
// Runtime-only fields (CLI flags only):
//   - Input.* paths of the taxonomy tables, tips, metadata and tax IDs
//   - Input.OutputPath, Input.RulesPath
//   - HomeDir (set once at startup)
//
// # Environment Variables
//
// Use GNHARMONY_ prefix with underscores for nesting:
//
//	GNHARMONY_DATABASE_HOST=localhost
//	GNHARMONY_HARMONIZE_POLYPHYLY_FILTER=false
//	GNHARMONY_LOG_LEVEL=info
//	GNHARMONY_JOBS_NUMBER=8
package config

import (
	"runtime"
)

// Config represents the complete GNharmony configuration.
type Config struct {
	// Database contains PostgreSQL connection settings used by the
	// optional export of harmonized lineages.
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`

	// Harmonize contains settings of the taxonomy-merge engine.
	Harmonize HarmonizeConfig `mapstructure:"harmonize" yaml:"harmonize"`

	// Input contains locations of input and output files.
	// These fields are set from CLI flags only.
	Input InputConfig `mapstructure:"input" yaml:"input"`

	Log LogConfig `mapstructure:"log" yaml:"log"`

	// JobsNumber is the number of concurrent workers used while species
	// names of the secondary taxonomy are normalized.
	// Default value is set accoring to the number of available threads.
	JobsNumber int `mapstructure:"jobs_number" yaml:"jobs_number"`

	// HomeDir determines where config, cache and logs directories reside.
	// It must be set by CLI during init, there is no default value for it.
	HomeDir string
}

// DatabaseConfig contains PostgreSQL connection parameters.
type DatabaseConfig struct {
	// Host is the PostgreSQL server hostname or IP address.
	Host string `mapstructure:"host" yaml:"host"`

	// Port is the PostgreSQL server port number.
	Port int `mapstructure:"port" yaml:"port"`

	// User is the PostgreSQL database username.
	User string `mapstructure:"user" yaml:"user"`

	// Password is the PostgreSQL database password.
	Password string `mapstructure:"password" yaml:"password"`

	// Database is the PostgreSQL database name to connect to.
	Database string `mapstructure:"database" yaml:"database"`

	// SSLMode specifies the SSL connection mode.
	// Valid values: "disable", "require", "verify-ca", "verify-full"
	SSLMode string `mapstructure:"ssl_mode" yaml:"ssl_mode"`

	// BatchSize defines the number of rows sent per CopyFrom call during
	// export.
	BatchSize int `mapstructure:"batch_size" yaml:"batch_size"`
}

// HarmonizeConfig contains settings of the merge engine.
type HarmonizeConfig struct {
	// PolyphylyFilter forces nodes with polyphyletic labels to be
	// non-keepable during grafting and forbids carryover under them.
	PolyphylyFilter bool `mapstructure:"polyphyly_filter" yaml:"polyphyly_filter"`

	// Carryover enables attaching records under coarser matching nodes
	// of the primary tree after grafting.
	Carryover bool `mapstructure:"carryover" yaml:"carryover"`

	// RankCheck enables the rank-depth check while the primary
	// consensus tree is built.
	RankCheck bool `mapstructure:"rank_check" yaml:"rank_check"`

	// RequireTaxIDs routes secondary records without a numeric taxonomic
	// identifier to the unintegrated output.
	RequireTaxIDs bool `mapstructure:"require_tax_ids" yaml:"require_tax_ids"`

	// Export selects an additional output for harmonized lineages.
	// Valid values: "none", "sqlite", "postgres".
	Export string `mapstructure:"export" yaml:"export"`

	// RunID is the UUID of an exported run. Empty means a new random
	// UUID. Exporting with an existing RunID replaces rows of that run.
	// Runtime-only field - not in ToOptions().
	RunID string `mapstructure:"-" yaml:"-"`
}

// InputConfig contains runtime paths for the harmonize command.
type InputConfig struct {
	// PrimaryPath is a TSV file with rank-prefixed reference lineages.
	PrimaryPath string `mapstructure:"primary_path" yaml:"primary_path"`

	// SecondaryPath is a TSV file with the type-strain taxonomy.
	SecondaryPath string `mapstructure:"secondary_path" yaml:"secondary_path"`

	// TipsPath is a file with names of the reference tree tips,
	// one per line. Empty means no restriction.
	TipsPath string `mapstructure:"tips_path" yaml:"tips_path"`

	// MetadataPaths are TSV files with genome metadata (usually one for
	// archaea and one for bacteria). Trusted records provide both
	// vocabularies for automatic rewrite rules.
	MetadataPaths []string `mapstructure:"metadata_paths" yaml:"metadata_paths"`

	// TaxIDsPath is a TSV file with externally resolved numeric
	// taxonomic identifiers.
	TaxIDsPath string `mapstructure:"tax_ids_path" yaml:"tax_ids_path"`

	// RulesPath overrides the location of curated rules file.
	RulesPath string `mapstructure:"rules_path" yaml:"rules_path"`

	// OutputPath is the base path of all output files.
	OutputPath string `mapstructure:"output_path" yaml:"output_path"`
}

// LogConfig provides typical settings for application logs.
type LogConfig struct {
	// Format can be 'json', 'text' or 'tint' (user-facing and colored).
	Format string `mapstructure:"format"      yaml:"format"`
	// Level of logging -- 'error', 'warn', 'info', 'debug'
	Level string `mapstructure:"level"       yaml:"level"`
	// Destination can be a log file (to default place), STDERR or STDOUT
	Destination string `mapstructure:"destination" yaml:"destination"`
}

// New creates a Config with sensible default values.
// The returned config is always valid and ready to use.
// Default values can be overridden using Option functions via Update().
func New() *Config {
	res := &Config{
		Database: DatabaseConfig{
			Host:      "localhost",
			Port:      5432,
			User:      "postgres",
			Password:  "postgres",
			Database:  "gnharmony",
			SSLMode:   "disable",
			BatchSize: 50_000,
		},
		Harmonize: HarmonizeConfig{
			PolyphylyFilter: true,
			Carryover:       true,
			RankCheck:       true,
			Export:          "none",
		},
		Log: LogConfig{
			Format: "json",
			Level:  "info",
			// for now file is rewritten every time the log starts
			Destination: "file",
		},
		JobsNumber: runtime.NumCPU(),
	}

	return res
}
