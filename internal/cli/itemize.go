package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/insightdelivered/statement-parser/internal/config"
	"github.com/insightdelivered/statement-parser/internal/statement"
)

func newItemizeCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "itemize",
		Short: "Parse every configured statement folder and write the search exports",
		Long: `Itemize reads each source folder listed in the settings file, combines all
transactions into all_transactions.csv and writes one CSV per configured
search into the output folder. Existing exports are replaced.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p := statement.NewProcessor(a.source(), a.log)
			p.FirstPage = a.cfg.Extraction.FirstPage
			p.LastPage = a.cfg.Extraction.LastPage

			report, err := p.Itemize(cmd.Context(), a.cfg)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Parsed %d transaction(s)\n", report.Transactions)
			for _, s := range a.cfg.Searches {
				fmt.Fprintf(out, "  %-24s %d\n", s.Name, report.Searches[s.Name])
			}
			fmt.Fprintf(out, "Wrote %d file(s) to %s\n", len(report.Files), a.cfg.Output)
			return nil
		},
	}

	cmd.Flags().String("statements", "", "folder holding the per-source statement folders")
	cmd.Flags().String("output", "", "folder receiving the CSV exports")
	a.v.BindPFlag(config.KeyStatements, cmd.Flags().Lookup("statements"))
	a.v.BindPFlag(config.KeyOutput, cmd.Flags().Lookup("output"))

	return cmd
}
