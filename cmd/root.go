/*
Copyright © 2025 Dmitry Mozzherin <dmozzherin@gmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/gnames/gn"
	"github.com/gnames/gnharmony/internal/iofs"
	"github.com/gnames/gnharmony/internal/iologger"
	gnharmony "github.com/gnames/gnharmony/pkg"
	"github.com/gnames/gnharmony/pkg/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	homeDir string
	opts    []config.Option
	cfg     *config.Config
)

// getRootCmd returns the root command with all subcommands attached.
func getRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Version: fmt.Sprintf(
			"version: %s\nbuild:   %s", gnharmony.Version, gnharmony.Build,
		),
		Use:   "gnharmony",
		Short: "Merges a secondary taxonomy into a reference taxonomy",
		Long: `GNharmony merges a type-strain taxonomy (for example LTP) into a
genome-based reference taxonomy (for example GTDB).

Lineages of the secondary taxonomy are rewritten into the vocabulary
of the reference taxonomy, checked for consistency, and grafted into
the reference tree. Records that cannot be placed are reported together
with the reason.

Commands:
  harmonize  merge taxonomies and write harmonized lineages
  validate   check taxonomies for consistency without merging
  rules      show rewrite rules derived from the inputs

Configuration precedence (highest to lowest):
  1. CLI flags
  2. Environment variables (GNHARMONY_*)
  3. Config file (~/.config/gnharmony/config.yaml)
  4. Built-in defaults

Environment Variables:
  Nested fields use underscores (log.level -> GNHARMONY_LOG_LEVEL).

    GNHARMONY_DATABASE_HOST              PostgreSQL host
    GNHARMONY_DATABASE_PORT              PostgreSQL port
    GNHARMONY_HARMONIZE_EXPORT           none, sqlite or postgres
    GNHARMONY_HARMONIZE_CARRYOVER        true or false
    GNHARMONY_LOG_LEVEL                  debug, info, warn, error
    GNHARMONY_JOBS_NUMBER                number of workers`,
		PersistentPreRunE: bootstrap,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	// Remove the automatic "gnharmony version" prefix
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	// Override version flag to use -V (consistent with other gn projects)
	rootCmd.Flags().BoolP("version", "V", false, "version for gnharmony")

	rootCmd.AddCommand(
		getHarmonizeCmd(),
		getValidateCmd(),
		getRulesCmd(),
	)
	return rootCmd
}

func bootstrap(cmd *cobra.Command, args []string) error {
	var err error
	homeDir, err = os.UserHomeDir()
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureDirs(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	// Initialize logging with hardcoded defaults
	// Will be reconfigured later with user's config settings
	defaultLog := config.LogConfig{
		Format:      "json",
		Level:       "info",
		Destination: "file",
	}
	if err = iologger.Init(config.LogDir(homeDir), defaultLog); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureConfigFile(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	if err = iofs.EnsureRulesFile(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	gn.Info(
		"Configuration files are available at <em>%s</em>",
		config.ConfigDir(homeDir),
	)

	var cfgViper *config.Config
	if cfgViper, err = initConfig(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	cfg = config.New()
	opts = cfgViper.ToOptions()
	cfg.Update(opts)

	cfg.Update([]config.Option{config.OptHomeDir(homeDir)})

	if err = reconfigureLogging(cfg); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	slog.Info("Configuration loaded",
		"config_file", config.ConfigFilePath(homeDir),
	)
	return nil
}

// reconfigureLogging reinitializes the logger with the loaded configuration.
func reconfigureLogging(cfg *config.Config) error {
	logDir := config.LogDir(cfg.HomeDir)
	return iologger.Init(logDir, cfg.Log)
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	err := getRootCmd().Execute()
	_ = iologger.Close()
	if err != nil {
		os.Exit(1)
	}
}

func initConfig(home string) (*config.Config, error) {
	var err error
	cfgPath := config.ConfigFilePath(home)
	v := viper.New()
	v.SetConfigFile(cfgPath)

	// Switches that are on by default must stay on when an older
	// config file does not mention them.
	def := config.New()
	v.SetDefault("harmonize.polyphyly_filter", def.Harmonize.PolyphylyFilter)
	v.SetDefault("harmonize.carryover", def.Harmonize.Carryover)
	v.SetDefault("harmonize.rank_check", def.Harmonize.RankCheck)
	v.SetDefault("harmonize.require_tax_ids", def.Harmonize.RequireTaxIDs)

	initEnvVars(v)

	if err = v.ReadInConfig(); err != nil {
		return nil, iofs.ReadFileError(cfgPath, err)
	}

	var res config.Config
	if err = v.Unmarshal(&res); err != nil {
		return nil, iofs.ReadFileError(cfgPath, err)
	}

	return &res, nil
}

func initEnvVars(v *viper.Viper) {
	// Environment variables are bound manually, so it is clear which of
	// them are allowed. They match the fields of config.ToOptions().
	v.SetEnvPrefix("GNHARMONY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Database configuration
	v.BindEnv("database.host", "GNHARMONY_DATABASE_HOST")
	v.BindEnv("database.port", "GNHARMONY_DATABASE_PORT")
	v.BindEnv("database.user", "GNHARMONY_DATABASE_USER")
	v.BindEnv("database.password", "GNHARMONY_DATABASE_PASSWORD")
	v.BindEnv("database.database", "GNHARMONY_DATABASE_DATABASE")
	v.BindEnv("database.ssl_mode", "GNHARMONY_DATABASE_SSL_MODE")
	v.BindEnv("database.batch_size", "GNHARMONY_DATABASE_BATCH_SIZE")

	// Harmonization switches
	v.BindEnv("harmonize.polyphyly_filter", "GNHARMONY_HARMONIZE_POLYPHYLY_FILTER")
	v.BindEnv("harmonize.carryover", "GNHARMONY_HARMONIZE_CARRYOVER")
	v.BindEnv("harmonize.rank_check", "GNHARMONY_HARMONIZE_RANK_CHECK")
	v.BindEnv("harmonize.require_tax_ids", "GNHARMONY_HARMONIZE_REQUIRE_TAX_IDS")
	v.BindEnv("harmonize.export", "GNHARMONY_HARMONIZE_EXPORT")

	// Log configuration
	v.BindEnv("log.level", "GNHARMONY_LOG_LEVEL")
	v.BindEnv("log.format", "GNHARMONY_LOG_FORMAT")
	v.BindEnv("log.destination", "GNHARMONY_LOG_DESTINATION")

	// General configuration
	v.BindEnv("jobs_number", "GNHARMONY_JOBS_NUMBER")

	v.AutomaticEnv()
}
