package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/insightdelivered/statement-parser/internal/config"
	"github.com/insightdelivered/statement-parser/internal/models"
	"github.com/insightdelivered/statement-parser/internal/parser"
	"github.com/insightdelivered/statement-parser/internal/search"
	"github.com/insightdelivered/statement-parser/internal/statement"
	"github.com/insightdelivered/statement-parser/internal/writer"
)

type parseOptions struct {
	bank   string
	output string
	search []string
}

func newParseCommand(a *app) *cobra.Command {
	opts := &parseOptions{}

	cmd := &cobra.Command{
		Use:   "parse <statement>...",
		Short: "Parse statements and write their transactions as CSV",
		Long: `Parse one or more statements. Each input is written to <name>.csv next to
it unless --output is given, in which case all transactions go to that file.

Layouts:
  checking   checking account: date, description, amount, running balance
  revolving  revolving-credit card: date, description, amount
  travel     travel-rewards card: two dates, description, miles, amount

The layout is detected from the statement text when --bank is omitted.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runParse(cmd, opts, args)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.bank, "bank", "b", "", "statement layout: checking, revolving or travel (auto-detected if omitted)")
	flags.StringVarP(&opts.output, "output", "o", "", "write all transactions to this CSV file")
	flags.StringSliceVarP(&opts.search, "search", "s", nil, "keep only transactions whose description matches any of these patterns")
	flags.Int("start-page", 1, "first page to read")
	flags.Int("end-page", 0, "last page to read (0 reads to the end)")
	flags.StringSlice("columns", nil, "preferred CSV column order")
	flags.Bool("keep-text", false, "save extracted text next to each PDF as <name>.txt")
	flags.String("pdftotext", "", "path to the pdftotext binary")
	a.v.BindPFlag(config.KeyFirstPage, flags.Lookup("start-page"))
	a.v.BindPFlag(config.KeyLastPage, flags.Lookup("end-page"))
	a.v.BindPFlag(config.KeyColumns, flags.Lookup("columns"))
	a.v.BindPFlag(config.KeyKeepText, flags.Lookup("keep-text"))
	a.v.BindPFlag(config.KeyPdftotext, flags.Lookup("pdftotext"))

	return cmd
}

func (a *app) runParse(cmd *cobra.Command, opts *parseOptions, inputs []string) error {
	var kind models.BankType
	if opts.bank != "" {
		k, err := parser.ParseBankType(opts.bank)
		if err != nil {
			return err
		}
		kind = k
	}

	var matcher *search.Matcher
	if len(opts.search) > 0 {
		m, err := search.Compile(opts.search...)
		if err != nil {
			return err
		}
		matcher = m
	}

	p := statement.NewProcessor(a.source(), a.log)
	p.FirstPage = a.cfg.Extraction.FirstPage
	p.LastPage = a.cfg.Extraction.LastPage

	out := cmd.OutOrStdout()
	w := &writer.CSVWriter{}
	var combined []models.Transaction

	for _, input := range inputs {
		fmt.Fprintf(out, "Processing: %s\n", input)

		stmt, err := p.ParseFile(cmd.Context(), kind, input)
		if err != nil {
			return fmt.Errorf("%s: %w", input, err)
		}
		txns := stmt.Transactions
		if matcher != nil {
			txns = matcher.Filter(txns)
		}

		fmt.Fprintf(out, "  Layout: %s\n", stmt.Bank)
		fmt.Fprintf(out, "  Found %d transaction(s) on %d page(s)\n", len(txns), stmt.PageCount)
		if len(stmt.Transactions) == 0 {
			fmt.Fprintln(out, "  Warning: no transactions found. The statement may not match the layout; try --bank.")
		}

		if opts.output != "" {
			combined = append(combined, txns...)
			continue
		}
		dest := strings.TrimSuffix(input, filepath.Ext(input)) + ".csv"
		if err := w.WriteTransactions(dest, txns, a.cfg.Columns); err != nil {
			return err
		}
		fmt.Fprintf(out, "  Output: %s\n", dest)
	}

	if opts.output != "" {
		if err := w.WriteTransactions(opts.output, combined, a.cfg.Columns); err != nil {
			return err
		}
		fmt.Fprintf(out, "Wrote %d transaction(s) to %s\n", len(combined), opts.output)
	}
	return nil
}
