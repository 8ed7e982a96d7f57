// Package iotesting provides shared test utilities: configuration of
// integration tests and small input files of a harmonization run.
// This is an internal package for test infrastructure only.
package iotesting

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/gnames/gnharmony/pkg/config"
)

const (
	// TestDatabaseName is the database name used for all integration tests.
	// This ensures tests never accidentally run against production databases.
	TestDatabaseName = "gnharmony_test"
)

// GetTestConfig returns a configuration suitable for integration tests.
// Database credentials are taken from GNHARMONY_DATABASE_* environment
// variables when they are set. The database name is always
// TestDatabaseName.
func GetTestConfig() *config.Config {
	cfg := config.New()

	var opts []config.Option
	if s := os.Getenv("GNHARMONY_DATABASE_HOST"); s != "" {
		opts = append(opts, config.OptDatabaseHost(s))
	}
	if s := os.Getenv("GNHARMONY_DATABASE_PORT"); s != "" {
		if port, err := strconv.Atoi(s); err == nil {
			opts = append(opts, config.OptDatabasePort(port))
		}
	}
	if s := os.Getenv("GNHARMONY_DATABASE_USER"); s != "" {
		opts = append(opts, config.OptDatabaseUser(s))
	}
	if s := os.Getenv("GNHARMONY_DATABASE_PASSWORD"); s != "" {
		opts = append(opts, config.OptDatabasePassword(s))
	}
	opts = append(opts, config.OptDatabaseDatabase(TestDatabaseName))
	cfg.Update(opts)

	return cfg
}

// GetTestDatabaseConfig returns only the database configuration for tests.
func GetTestDatabaseConfig() *config.DatabaseConfig {
	cfg := GetTestConfig()
	return &cfg.Database
}

// Input tables of a small harmonization run.
var (
	PrimaryTSV = []string{
		"p1\td__Bacteria; p__Bacillota; c__Bacilli; o__Bacillales; " +
			"f__Bacillaceae; g__Bacillus; s__Bacillus subtilis",
		"p2\td__Bacteria; p__Bacillota; c__Bacilli; o__Bacillales; " +
			"f__Bacillaceae; g__Priestia_A; s__Priestia_A megaterium",
		"p3\td__Bacteria; p__Bacillota; c__Bacilli; o__Bacillales; " +
			"f__Bacillaceae; g__Priestia_B; s__Priestia_B aryabhattai",
		"p4\td__Bacteria; p__Bacillota; c__Bacilli; o__Bacillales; " +
			"f__Listeriaceae; g__Listeria; s__Listeria monocytogenes",
	}

	SecondaryTSV = []string{
		"s1\tBacillus cereus Frankland & Frankland 1887\t" +
			"Bacteria;Firmicutes;Bacilli;Bacillales;Bacillaceae;Bacillus\t\tT\t\t",
		"s2\tPriestia flexa\t" +
			"Bacteria;Firmicutes;Bacilli;Bacillales;Bacillaceae;Priestia\t\tT\t\t",
		"s3\tBrochothrix thermosphacta\t" +
			"Bacteria;Firmicutes;Bacilli;Bacillales;Listeriaceae;Brochothrix" +
			"\t\tT\t\t",
		"s4\tListeria monocytogenes\t" +
			"Bacteria;Firmicutes;Bacilli;Bacillales;Listeriaceae;Listeria\t\tT\t\t",
		"s5\tHaloferax volcanii\tArchaea;Halobacteriota\t\tT\t\t",
		"s6\tPriestia megaterium subsp. megaterium\t" +
			"Bacteria;Firmicutes;Bacilli;Bacillales;Bacillaceae;Priestia\t\tT\t\t",
	}

	TaxIDsTSV = []string{
		"Feature ID\tncbi_tax_id",
		"p1\t1423",
		"s1\t1396",
		"Priestia megaterium\t1404",
	}

	RulesYAML = []string{
		"renames:",
		"  - old: 'Bacteria;Firmicutes;'",
		"    new: 'Bacteria;Bacillota;'",
		"overrides:",
		"  s6: 'Bacteria;Bacillota;Bacilli;Bacillales;Bacillaceae;" +
			"Priestia_A;Priestia_A megaterium'",
		"drop:",
		"  - s4",
		"tax_ids:",
		"  s3:",
		"    name: Brochothrix campestris",
		"    tax_id: 2756",
	}
)

// WriteInput saves input files of a small harmonization run to a
// temporary directory and returns their locations. Output path is set to
// a file in the same directory.
func WriteInput(t *testing.T) config.InputConfig {
	t.Helper()
	dir := t.TempDir()
	return config.InputConfig{
		PrimaryPath:   WriteLines(t, dir, "primary.tsv", PrimaryTSV),
		SecondaryPath: WriteLines(t, dir, "secondary.tsv", SecondaryTSV),
		TaxIDsPath:    WriteLines(t, dir, "tax_ids.tsv", TaxIDsTSV),
		RulesPath:     WriteLines(t, dir, "rules.yaml", RulesYAML),
		OutputPath:    filepath.Join(dir, "out", "lineages.tsv"),
	}
}

// WriteLines saves lines to dir/name and returns the path of the file.
func WriteLines(t *testing.T, dir, name string, lines []string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	data := strings.Join(lines, "\n") + "\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
	return path
}
