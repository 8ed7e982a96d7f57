package config

import (
	"strings"

	"github.com/gnames/gn"
	"github.com/google/uuid"
)

// Option is a function that modifies a Config.
// Options validate inputs and reject invalid values with warnings.
type Option func(*Config)

// OptDatabaseHost sets the PostgreSQL server hostname or IP address.
func OptDatabaseHost(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Host", s) {
			c.Database.Host = s
		}
	}
}

// OptDatabasePort sets the PostgreSQL server port number.
func OptDatabasePort(i int) Option {
	return func(c *Config) {
		if isValidInt("Database Port", i) {
			c.Database.Port = i
		}
	}
}

// OptDatabaseUser sets the PostgreSQL database username.
func OptDatabaseUser(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database User", s) {
			c.Database.User = s
		}
	}
}

// OptDatabasePassword sets the PostgreSQL database password.
func OptDatabasePassword(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Password", s) {
			c.Database.Password = s
		}
	}
}

// OptDatabaseDatabase sets the PostgreSQL database name to connect to.
func OptDatabaseDatabase(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Name", s) {
			c.Database.Database = s
		}
	}
}

// OptDatabaseSSLMode sets the SSL connection mode.
// Valid values: "disable", "require", "verify-ca", "verify-full".
func OptDatabaseSSLMode(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Database.SSLMode", s) {
			c.Database.SSLMode = s
		}
	}
}

// OptDatabaseBatchSize sets the number of rows per bulk export batch.
func OptDatabaseBatchSize(i int) Option {
	return func(c *Config) {
		if isValidInt("Batch Size", i) {
			c.Database.BatchSize = i
		}
	}
}

// OptHarmonizePolyphylyFilter turns filtering of polyphyletic nodes
// during graft and carryover on or off.
func OptHarmonizePolyphylyFilter(b bool) Option {
	return func(c *Config) {
		c.Harmonize.PolyphylyFilter = b
	}
}

// OptHarmonizeCarryover turns the carryover pass on or off.
func OptHarmonizeCarryover(b bool) Option {
	return func(c *Config) {
		c.Harmonize.Carryover = b
	}
}

// OptHarmonizeRankCheck turns rank-depth checking of the primary
// consensus tree on or off.
func OptHarmonizeRankCheck(b bool) Option {
	return func(c *Config) {
		c.Harmonize.RankCheck = b
	}
}

// OptHarmonizeRequireTaxIDs makes records without numeric taxonomic
// identifiers unintegrated.
func OptHarmonizeRequireTaxIDs(b bool) Option {
	return func(c *Config) {
		c.Harmonize.RequireTaxIDs = b
	}
}

// OptHarmonizeExport sets an additional export target.
// Valid values: "none", "sqlite", "postgres".
func OptHarmonizeExport(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Harmonize.Export", s) {
			c.Harmonize.Export = s
		}
	}
}

// OptHarmonizeRunID sets the UUID of the exported run.
// Runtime-only field - not in ToOptions().
func OptHarmonizeRunID(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		id, err := uuid.Parse(s)
		if err != nil {
			gn.Warn("<em>Harmonize.RunID</em> is not a UUID, ignoring '%s'", s)
			return
		}
		c.Harmonize.RunID = id.String()
	}
}

// OptInputPrimaryPath sets the path to the primary taxonomy table.
// Runtime-only field - not in ToOptions().
func OptInputPrimaryPath(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Primary Taxonomy", s) {
			c.Input.PrimaryPath = s
		}
	}
}

// OptInputSecondaryPath sets the path to the secondary taxonomy table.
// Runtime-only field - not in ToOptions().
func OptInputSecondaryPath(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Secondary Taxonomy", s) {
			c.Input.SecondaryPath = s
		}
	}
}

// OptInputTipsPath sets the path to the list of reference tree tips.
// Runtime-only field - not in ToOptions().
func OptInputTipsPath(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Tips File", s) {
			c.Input.TipsPath = s
		}
	}
}

// OptInputMetadataPaths sets paths to genome metadata files. Empty
// paths are ignored.
// Runtime-only field - not in ToOptions().
func OptInputMetadataPaths(ss []string) Option {
	var paths []string
	for _, v := range ss {
		if v = strings.TrimSpace(v); v != "" {
			paths = append(paths, v)
		}
	}
	return func(c *Config) {
		if len(paths) > 0 {
			c.Input.MetadataPaths = paths
		}
	}
}

// OptInputTaxIDsPath sets the path to externally resolved taxonomic IDs.
// Runtime-only field - not in ToOptions().
func OptInputTaxIDsPath(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Tax IDs File", s) {
			c.Input.TaxIDsPath = s
		}
	}
}

// OptInputRulesPath overrides the location of the curated rules.
// Runtime-only field - not in ToOptions().
func OptInputRulesPath(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Rules File", s) {
			c.Input.RulesPath = s
		}
	}
}

// OptInputOutputPath sets the base path for output files.
// Runtime-only field - not in ToOptions().
func OptInputOutputPath(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Output", s) {
			c.Input.OutputPath = s
		}
	}
}

// OptLogLevel sets the logging level.
// Valid values: "debug", "info", "warn", "error".
func OptLogLevel(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Level", s) {
			c.Log.Level = s
		}
	}
}

// OptLogFormat sets the log output format.
// Valid values: "json", "text", "tint".
func OptLogFormat(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Format", s) {
			c.Log.Format = s
		}
	}
}

// OptLogDestination sets where logs are written.
// Valid values: "file", "stderr", "stdout".
func OptLogDestination(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Destination", s) {
			c.Log.Destination = s
		}
	}
}

// OptJobsNumber sets the number of concurrent workers.
// Default is runtime.NumCPU().
func OptJobsNumber(i int) Option {
	return func(c *Config) {
		if isValidInt("Jobs Number", i) {
			c.JobsNumber = i
		}
	}
}

// OptHomeDir sets the home directory for config, cache, and log locations.
// Set once at startup from os.UserHomeDir().
// Runtime-only field - not in ToOptions().
func OptHomeDir(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Home Directory", s) {
			c.HomeDir = s
		}
	}
}
