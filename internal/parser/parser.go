package parser

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/insightdelivered/statement-parser/internal/document"
	apperrors "github.com/insightdelivered/statement-parser/internal/errors"
	"github.com/insightdelivered/statement-parser/internal/models"
	"github.com/insightdelivered/statement-parser/internal/normalize"
)

// Parser recognizes and extracts transaction lines for one statement layout.
// The set of implementations is closed: Checking, RevolvingCredit and
// TravelRewardsCredit.
type Parser interface {
	// Kind is the variant's BankType.
	Kind() models.BankType
	// Name is the variant's type name, e.g. "RevolvingCredit".
	Name() string
	// BankName is the human-readable name stamped on every record.
	BankName() string
	// PageEndPattern matches the marker line closing each page.
	PageEndPattern() *regexp.Regexp
	// TransactionPattern is anchored at the start of the line and exposes
	// named groups for the variant's fields.
	TransactionPattern() *regexp.Regexp
	IsTransactionLine(line string) bool
	ExtractFields(line string, absolute bool) (Fields, error)
	ToRecord(line string) (models.Transaction, error)

	variant()
}

// Fields are the values pulled off one transaction line.
type Fields struct {
	Date        string
	Description string
	Amount      decimal.Decimal
	Balance     decimal.NullDecimal
	Miles       string
}

// New returns the parser for the given bank type.
func New(bankType models.BankType) (Parser, error) {
	switch bankType {
	case models.BankChecking:
		return NewChecking(), nil
	case models.BankRevolving:
		return NewRevolvingCredit(), nil
	case models.BankTravelReward:
		return NewTravelRewardsCredit(), nil
	default:
		return nil, apperrors.InvalidConfig("bank", fmt.Errorf("unsupported bank type: %q", bankType))
	}
}

// ParseBankType maps user input, including institution aliases, to a BankType.
func ParseBankType(s string) (models.BankType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "checking", "chase", "chase-checking":
		return models.BankChecking, nil
	case "revolving", "credit", "amazon", "chase-amazon":
		return models.BankRevolving, nil
	case "travel", "rewards", "barclays", "arrival", "arrivalplus":
		return models.BankTravelReward, nil
	default:
		return "", apperrors.InvalidConfig("bank", fmt.Errorf("unknown bank type %q; supported: checking, revolving, travel", s))
	}
}

// Kinds lists every supported bank type.
func Kinds() []models.BankType {
	return []models.BankType{models.BankChecking, models.BankRevolving, models.BankTravelReward}
}

// header phrases naming each layout, checked in order. They are matched
// against non-transaction lines only, so merchant names in descriptions
// never decide the layout.
var detectors = []struct {
	bank     models.BankType
	keywords []string
}{
	{models.BankTravelReward, []string{"miles earned", "arrival plus", "arrival premier", "barclaycard"}},
	{models.BankRevolving, []string{"minimum payment due", "credit access line", "rewards visa"}},
	{models.BankChecking, []string{"checking summary", "checking account", "beginning balance"}},
}

// AutoDetect tries to identify the statement layout from its text.
func AutoDetect(lines []string) (models.BankType, error) {
	return AutoDetectSource("statement", lines)
}

// AutoDetectSource is AutoDetect naming the document in the error.
//
// Every layout segments and scans the text; the one recognizing the most
// transaction lines wins. Ties, including statements with no transactions at
// all, are settled by header phrases.
func AutoDetectSource(source string, lines []string) (models.BankType, error) {
	lines = normalize.Lines(lines)
	parsers := []Parser{NewChecking(), NewRevolvingCredit(), NewTravelRewardsCredit()}

	best, candidates := 0, map[models.BankType]bool{}
	for _, p := range parsers {
		n := score(p, lines)
		switch {
		case n > best:
			best = n
			candidates = map[models.BankType]bool{p.Kind(): true}
		case n == best && n > 0:
			candidates[p.Kind()] = true
		}
	}
	if len(candidates) == 1 {
		for kind := range candidates {
			return kind, nil
		}
	}

	header := strings.ToLower(strings.Join(headerLines(parsers, lines), "\n"))
	for _, d := range detectors {
		if (best == 0 || candidates[d.bank]) && containsAny(header, d.keywords) {
			return d.bank, nil
		}
	}
	for _, p := range parsers {
		if candidates[p.Kind()] {
			return p.Kind(), nil
		}
	}
	return "", apperrors.UnknownLayout(source)
}

// score counts the transaction lines p finds on the pages its own page-end
// pattern closes.
func score(p Parser, lines []string) int {
	n := 0
	document.New("", lines, p.PageEndPattern()).Each(func(_ int, line string) error {
		if p.IsTransactionLine(line) {
			n++
		}
		return nil
	})
	return n
}

// headerLines drops every line some layout would read as a transaction.
func headerLines(parsers []Parser, lines []string) []string {
	var out []string
	for _, line := range lines {
		txn := false
		for _, p := range parsers {
			if p.IsTransactionLine(line) {
				txn = true
				break
			}
		}
		if !txn {
			out = append(out, line)
		}
	}
	return out
}

func containsAny(text string, needles []string) bool {
	for _, needle := range needles {
		if strings.Contains(text, needle) {
			return true
		}
	}
	return false
}

// Transactions walks every page of doc and converts each transaction line,
// preserving page order then line order. The first extraction failure is
// returned; lines are never skipped once classified as transactions.
func Transactions(p Parser, doc *document.Document) ([]models.Transaction, error) {
	out := []models.Transaction{}
	err := doc.Each(func(page int, line string) error {
		if !p.IsTransactionLine(line) {
			return nil
		}
		txn, err := p.ToRecord(line)
		if err != nil {
			return fmt.Errorf("%s page %d: %w", p.BankName(), page, err)
		}
		out = append(out, txn)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Parse normalizes raw extracted lines, segments them with the parser's
// page-end pattern and returns the statement's transactions.
func Parse(p Parser, source string, raw []string) (*models.Statement, error) {
	doc := document.New(source, normalize.Lines(raw), p.PageEndPattern())
	txns, err := Transactions(p, doc)
	if err != nil {
		return nil, err
	}
	return &models.Statement{
		Bank:         p.Kind(),
		Source:       doc.Source(),
		PageCount:    doc.PageCount(),
		Transactions: txns,
	}, nil
}
