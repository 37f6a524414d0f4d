// Package statement runs the parsing pipeline over files and folders of
// statements and writes the itemized exports.
package statement

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/insightdelivered/statement-parser/internal/extractor"
	"github.com/insightdelivered/statement-parser/internal/logger"
	"github.com/insightdelivered/statement-parser/internal/models"
	"github.com/insightdelivered/statement-parser/internal/parser"
)

// Processor turns statement documents into transactions.
type Processor struct {
	Source    extractor.Source
	Logger    logger.Logger
	FirstPage int
	LastPage  int
}

// NewProcessor returns a Processor reading pages 1 through the end.
func NewProcessor(src extractor.Source, log logger.Logger) *Processor {
	if log == nil {
		log = logger.Nop()
	}
	return &Processor{Source: src, Logger: log, FirstPage: 1}
}

func (p *Processor) log() logger.Logger {
	if p.Logger == nil {
		return logger.Nop()
	}
	return p.Logger
}

// ParseFile extracts and parses one document. An empty kind detects the
// layout from the document text.
func (p *Processor) ParseFile(ctx context.Context, kind models.BankType, path string) (*models.Statement, error) {
	log := p.log().WithField("file", path)

	lines, err := p.Source.Lines(ctx, extractor.Request{
		Path:      path,
		FirstPage: p.FirstPage,
		LastPage:  p.LastPage,
	})
	if err != nil {
		return nil, err
	}
	log.Debugf("extracted %d lines", len(lines))

	if kind == "" {
		kind, err = parser.AutoDetectSource(path, lines)
		if err != nil {
			return nil, err
		}
		log.Debugf("detected %s layout", kind)
	}
	prs, err := parser.New(kind)
	if err != nil {
		return nil, err
	}

	stmt, err := parser.Parse(prs, path, lines)
	if err != nil {
		return nil, err
	}
	log.WithFields(logger.Fields{
		"bank":         prs.BankName(),
		"pages":        stmt.PageCount,
		"transactions": len(stmt.Transactions),
	}).Infof("parsed statement")
	return stmt, nil
}

// ParseFolder parses every statement in dir, in file name order, and
// concatenates their transactions. A missing folder is logged and yields no
// transactions. A document that fails is logged and skipped.
func (p *Processor) ParseFolder(ctx context.Context, kind models.BankType, dir string) ([]models.Transaction, error) {
	log := p.log().WithField("folder", dir)
	out := []models.Transaction{}

	files, err := Documents(dir)
	if err != nil {
		log.WithError(err).Errorf("cannot read statement folder")
		return out, nil
	}
	if len(files) == 0 {
		log.Warnf("no statements found")
	}

	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		stmt, err := p.ParseFile(ctx, kind, f)
		if err != nil {
			log.WithField("file", f).WithError(err).Errorf("skipping statement")
			continue
		}
		out = append(out, stmt.Transactions...)
	}
	return out, nil
}

// Documents lists the statements in dir: every PDF, plus every text dump
// with no PDF of the same name beside it. Names are sorted.
func Documents(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	pdfs := make(map[string]bool)
	for _, e := range entries {
		if !e.IsDir() && extractor.IsPDF(e.Name()) {
			pdfs[stem(e.Name())] = true
		}
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		switch {
		case extractor.IsPDF(name):
		case extractor.IsText(name) && !pdfs[stem(name)]:
		default:
			continue
		}
		files = append(files, filepath.Join(dir, name))
	}
	sort.Strings(files)
	return files, nil
}

func stem(name string) string {
	return strings.ToLower(strings.TrimSuffix(name, filepath.Ext(name)))
}
