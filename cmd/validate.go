package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/gnames/gnharmony/internal/ioharmonize"
	"github.com/spf13/cobra"
)

// getValidateCmd returns the validate command.
func getValidateCmd() *cobra.Command {
	var in inputFlags

	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "Check taxonomies for consistency",
		Long: `Check the reference and type-strain taxonomies without merging them.

Two kinds of problems are reported for each taxonomy:
  - labels that have more than one parent label
  - labels used at more than one rank (placeholder names listed
    in rules.yaml under 'allowed' are ignored)

Secondary lineages are checked as they were read, before rewriting.

Examples:
  gnharmony validate -p gtdb.tsv -s ltp.tsv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.Update(in.options(cmd))
			reports, err := ioharmonize.New(cfg).
				Validate(context.Background())
			if err != nil {
				gn.PrintErrorMessage(err)
				return err
			}
			printReports(cmd.OutOrStdout(), reports)
			return nil
		},
	}

	in.register(validateCmd)
	return validateCmd
}

func printReports(w io.Writer, reports []ioharmonize.Report) {
	for _, rp := range reports {
		fmt.Fprintf(w, "%s: %s records\n",
			rp.Name, humanize.Comma(int64(rp.Records)))
		if rp.OK() {
			fmt.Fprintln(w, "  no problems found")
			continue
		}
		for _, v := range rp.Violations {
			fmt.Fprintf(w, "  %s %q has several parents: %s\n",
				v.Rank, v.Label, strings.Join(v.Parents, ", "))
		}
		for _, v := range rp.Overlaps {
			fmt.Fprintf(w, "  labels used as %s and %s: %s\n",
				v.Rank1, v.Rank2, strings.Join(v.Labels, ", "))
		}
	}
}
