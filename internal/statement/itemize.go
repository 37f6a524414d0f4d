package statement

import (
	"context"
	"path/filepath"

	"github.com/insightdelivered/statement-parser/internal/config"
	"github.com/insightdelivered/statement-parser/internal/logger"
	"github.com/insightdelivered/statement-parser/internal/models"
	"github.com/insightdelivered/statement-parser/internal/search"
	"github.com/insightdelivered/statement-parser/internal/writer"
)

// AllTransactionsFile is the export holding every parsed transaction.
const AllTransactionsFile = "all_transactions.csv"

// Report summarizes an Itemize run.
type Report struct {
	Transactions int
	// Searches maps each search name to its match count.
	Searches map[string]int
	// Files lists the CSV files written, in write order.
	Files []string
}

// Itemize parses every configured source folder, then writes all
// transactions and one file per configured search into the output folder.
// Searches are compiled before any statement is read so a bad pattern fails
// fast.
func (p *Processor) Itemize(ctx context.Context, cfg *config.Config) (*Report, error) {
	matchers := make([]*search.Matcher, len(cfg.Searches))
	for i, s := range cfg.Searches {
		m, err := search.Compile(s.Wildcards...)
		if err != nil {
			return nil, err
		}
		matchers[i] = m
	}

	var all []models.Transaction
	for _, src := range cfg.Sources {
		txns, err := p.ParseFolder(ctx, src.Bank, cfg.SourceFolder(src))
		if err != nil {
			return nil, err
		}
		all = append(all, txns...)
	}

	w := &writer.CSVWriter{}
	report := &Report{Transactions: len(all), Searches: make(map[string]int)}

	write := func(name string, txns []models.Transaction) error {
		path := filepath.Join(cfg.Output.String(), name)
		if err := w.WriteTransactions(path, txns, cfg.Columns); err != nil {
			return err
		}
		report.Files = append(report.Files, path)
		p.log().WithField("file", path).Infof("wrote %d transactions", len(txns))
		return nil
	}

	if err := write(AllTransactionsFile, all); err != nil {
		return nil, err
	}
	for i, s := range cfg.Searches {
		matched := matchers[i].Filter(all)
		report.Searches[s.Name] = len(matched)
		p.log().WithFields(logger.Fields{
			"search":    s.Name,
			"wildcards": matchers[i].Wildcards(),
		}).Debugf("matched %d of %d transactions", len(matched), len(all))
		if err := write(s.Name+".csv", matched); err != nil {
			return nil, err
		}
	}
	return report, nil
}
