package cmd

import (
	"context"

	"github.com/gnames/gn"
	"github.com/gnames/gnharmony/internal/ioharmonize"
	"github.com/gnames/gnharmony/pkg/config"
	"github.com/spf13/cobra"
)

// getHarmonizeCmd returns the harmonize command.
func getHarmonizeCmd() *cobra.Command {
	var (
		in              inputFlags
		output          string
		export          string
		runID           string
		polyphylyFilter bool
		carryover       bool
		rankCheck       bool
		requireTaxIDs   bool
		jobs            int
	)

	harmonizeCmd := &cobra.Command{
		Use:   "harmonize",
		Short: "Merge secondary taxonomy into reference taxonomy",
		Long: `Merge a type-strain taxonomy into a reference taxonomy.

This command:
  1. Reads the reference (primary) and type-strain (secondary) tables
  2. Restricts both tables to tree tips, if a tips file is given
  3. Derives rewrite rules from metadata and curated rules.yaml
  4. Rewrites secondary lineages into the reference vocabulary
  5. Grafts secondary records into the reference tree
  6. Writes harmonized lineages and side files next to the output:
     <output>                  id and rank-prefixed lineage
     <output>.unintegrated     records that were not placed, with reason
     <output>.tax_ids          numeric taxonomic identifiers
     <output>.rewrite_rules    rewrite rules that were used (YAML)
     <output>.sqlite           results, with --export sqlite

Curated rules are read from ~/.config/gnharmony/rules.yaml unless
--rules is given.

Examples:
  # Merge LTP into GTDB
  gnharmony harmonize -p gtdb.tsv -s ltp.tsv -o merged.tsv

  # Use metadata instead of a primary table, restricted to tree tips
  gnharmony harmonize -s ltp.tsv -t tips.txt \
    -m ar53_metadata.tsv,bac120_metadata.tsv

  # Save results to PostgreSQL as well
  gnharmony harmonize -p gtdb.tsv -s ltp.tsv --export postgres

  # Replace a previously exported run
  gnharmony harmonize -p gtdb.tsv -s ltp.tsv -e postgres \
    --run-id 0b6f3c52-8f1e-4d4b-9a7e-2f1d8f6c1a10`,
		Aliases: []string{"merge"},
		RunE: func(cmd *cobra.Command, args []string) error {
			var hOpts []config.Option
			hOpts = append(hOpts, in.options(cmd)...)
			hOpts = append(hOpts, config.OptInputOutputPath(output))

			fl := cmd.Flags()
			if fl.Changed("export") {
				hOpts = append(hOpts, config.OptHarmonizeExport(export))
			}
			if fl.Changed("run-id") {
				hOpts = append(hOpts, config.OptHarmonizeRunID(runID))
			}
			if fl.Changed("polyphyly-filter") {
				hOpts = append(hOpts,
					config.OptHarmonizePolyphylyFilter(polyphylyFilter))
			}
			if fl.Changed("carryover") {
				hOpts = append(hOpts, config.OptHarmonizeCarryover(carryover))
			}
			if fl.Changed("rank-check") {
				hOpts = append(hOpts, config.OptHarmonizeRankCheck(rankCheck))
			}
			if fl.Changed("require-tax-ids") {
				hOpts = append(hOpts,
					config.OptHarmonizeRequireTaxIDs(requireTaxIDs))
			}
			if fl.Changed("jobs") {
				hOpts = append(hOpts, config.OptJobsNumber(jobs))
			}
			cfg.Update(hOpts)

			_, err := ioharmonize.New(cfg).Run(context.Background())
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	in.register(harmonizeCmd)
	fl := harmonizeCmd.Flags()
	fl.StringVarP(&output, "output", "o", ioharmonize.DefaultOutput,
		"path of harmonized lineages, side files use it as a prefix")
	fl.StringVarP(&export, "export", "e", "none",
		"additional output: none, sqlite, postgres")
	fl.StringVar(&runID, "run-id", "",
		"UUID of the exported run, an existing run is replaced")
	fl.BoolVar(&polyphylyFilter, "polyphyly-filter", true,
		"keep polyphyletic labels out of grafting and carryover")
	fl.BoolVar(&carryover, "carryover", true,
		"attach unmatched records under the deepest matching node")
	fl.BoolVar(&rankCheck, "rank-check", true,
		"check rank depth of reference tree nodes")
	fl.BoolVar(&requireTaxIDs, "require-tax-ids", false,
		"set aside secondary records without taxonomic identifiers")
	fl.IntVarP(&jobs, "jobs", "j", 0,
		"number of workers for species names normalization")

	return harmonizeCmd
}
