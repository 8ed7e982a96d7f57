package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/gnames/gn"
)

// enums are allowed values of configuration fields with a fixed set of
// choices.
var enums = map[string][]string{
	"Database.SSLMode": {"disable", "require", "verify-ca", "verify-full"},
	"Harmonize.Export": {"none", "postgres", "sqlite"},
	"Log.Destination":  {"file", "stderr", "stdout"},
	"Log.Format":       {"json", "text", "tint"},
	"Log.Level":        {"debug", "error", "info", "warn"},
}

// Update applies a slice of Option functions to the Config.
// This is the only way to modify a Config after creation.
// Invalid options are rejected with warnings, so the config stays valid.
func (c *Config) Update(opts []Option) {
	for _, opt := range opts {
		opt(c)
	}
}

// ToOptions converts the Config to a slice of Option functions.
// Only persistent fields that belong to config.yaml are included, input
// paths and HomeDir are runtime-only. Empty values are skipped, so
// defaults survive a partial config file. Harmonization switches are
// always included because false is a meaningful value for them.
func (c *Config) ToOptions() []Option {
	db := c.Database
	res := appendSet(nil, db.Host, OptDatabaseHost)
	res = appendSet(res, db.Port, OptDatabasePort)
	res = appendSet(res, db.User, OptDatabaseUser)
	res = appendSet(res, db.Password, OptDatabasePassword)
	res = appendSet(res, db.Database, OptDatabaseDatabase)
	res = appendSet(res, db.SSLMode, OptDatabaseSSLMode)
	res = appendSet(res, db.BatchSize, OptDatabaseBatchSize)

	h := c.Harmonize
	res = append(res,
		OptHarmonizePolyphylyFilter(h.PolyphylyFilter),
		OptHarmonizeCarryover(h.Carryover),
		OptHarmonizeRankCheck(h.RankCheck),
		OptHarmonizeRequireTaxIDs(h.RequireTaxIDs),
	)
	res = appendSet(res, h.Export, OptHarmonizeExport)

	res = appendSet(res, c.Log.Format, OptLogFormat)
	res = appendSet(res, c.Log.Level, OptLogLevel)
	res = appendSet(res, c.Log.Destination, OptLogDestination)

	return appendSet(res, c.JobsNumber, OptJobsNumber)
}

func appendSet[T comparable](res []Option, val T, opt func(T) Option) []Option {
	var zero T
	if val == zero {
		return res
	}
	return append(res, opt(val))
}

func isValidString(name, s string) bool {
	res := s != ""
	if !res {
		gn.Warn("<em>%s</em> cannot be empty, ignoring", name)
	}
	return res
}

func isValidInt(name string, i int) bool {
	res := i > 0
	if !res {
		gn.Warn("<em>%s</em> has to be positive number, ignoring %d", name, i)
	}
	return res
}

func isValidEnum(name, val string) bool {
	vals := enums[name]
	if slices.Contains(vals, val) {
		return true
	}
	lines := make([]string, len(vals))
	for i, v := range vals {
		lines[i] = fmt.Sprintf("  * %s", v)
	}
	gn.Warn(
		"<em>%s</em> does not support '%s' as a value. "+
			"Valid values are: \n%s\nIgnoring...",
		name, val, strings.Join(lines, "\n"),
	)
	return false
}
