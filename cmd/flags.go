package cmd

import (
	"github.com/gnames/gnharmony/pkg/config"
	"github.com/spf13/cobra"
)

// inputFlags are locations of input files shared by all commands.
type inputFlags struct {
	primary   string
	secondary string
	tips      string
	metadata  []string
	taxIDs    string
	rules     string
}

func (f *inputFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVarP(&f.primary, "primary", "p", "",
		"reference taxonomy TSV (id, rank-prefixed lineage)")
	fl.StringVarP(&f.secondary, "secondary", "s", "",
		"type-strain taxonomy TSV (id, species, lineage, ...)")
	fl.StringVarP(&f.tips, "tips", "t", "",
		"file with names of reference tree tips, one per line")
	fl.StringSliceVarP(&f.metadata, "metadata", "m", nil,
		"genome metadata TSV files or glob patterns, .gz and .zst are accepted")
	fl.StringVarP(&f.taxIDs, "tax-ids", "i", "",
		"TSV with externally resolved taxonomic identifiers")
	fl.StringVarP(&f.rules, "rules", "r", "",
		"curated rules YAML (default: ~/.config/gnharmony/rules.yaml)")
	_ = cmd.MarkFlagRequired("secondary")
}

// options converts explicitly set flags to config options.
func (f *inputFlags) options(cmd *cobra.Command) []config.Option {
	var res []config.Option
	fl := cmd.Flags()
	if fl.Changed("primary") {
		res = append(res, config.OptInputPrimaryPath(f.primary))
	}
	if fl.Changed("secondary") {
		res = append(res, config.OptInputSecondaryPath(f.secondary))
	}
	if fl.Changed("tips") {
		res = append(res, config.OptInputTipsPath(f.tips))
	}
	if fl.Changed("metadata") {
		res = append(res, config.OptInputMetadataPaths(f.metadata))
	}
	if fl.Changed("tax-ids") {
		res = append(res, config.OptInputTaxIDsPath(f.taxIDs))
	}
	if fl.Changed("rules") {
		res = append(res, config.OptInputRulesPath(f.rules))
	}
	return res
}
