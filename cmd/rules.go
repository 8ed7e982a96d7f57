package cmd

import (
	"context"

	"github.com/gnames/gn"
	"github.com/gnames/gnharmony/internal/ioharmonize"
	"github.com/gnames/gnharmony/internal/iorules"
	"github.com/spf13/cobra"
)

// getRulesCmd returns the rules command.
func getRulesCmd() *cobra.Command {
	var (
		in     inputFlags
		output string
	)

	rulesCmd := &cobra.Command{
		Use:   "rules",
		Short: "Show rewrite rules derived from inputs",
		Long: `Derive rewrite rules without merging taxonomies.

Rules come from trusted metadata records, from the reference taxonomy
and from curated rules.yaml. They are printed in the order they are
applied, the most specific first. The output can be edited and used
as curated renames with --rules.

Examples:
  gnharmony rules -s ltp.tsv -m ar53_metadata.tsv,bac120_metadata.tsv
  gnharmony rules -p gtdb.tsv -s ltp.tsv -o rules.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.Update(in.options(cmd))
			rules, err := ioharmonize.New(cfg).Rules(context.Background())
			if err == nil {
				if output == "" {
					err = iorules.EncodeRules(cmd.OutOrStdout(), rules)
				} else {
					err = iorules.WriteRules(output, rules)
				}
			}
			if err != nil {
				gn.PrintErrorMessage(err)
				return err
			}
			if output != "" {
				gn.Info("Saved %d rewrite rules to <em>%s</em>",
					len(rules), output)
			}
			return nil
		},
	}

	in.register(rulesCmd)
	rulesCmd.Flags().StringVarP(&output, "output", "o", "",
		"save rules to a file instead of printing them")
	return rulesCmd
}
