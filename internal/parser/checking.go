package parser

import (
	"github.com/shopspring/decimal"

	"github.com/insightdelivered/statement-parser/internal/models"
	"github.com/insightdelivered/statement-parser/internal/normalize"
)

// Checking handles checking-account statements. Every transaction line ends
// with the running balance after the transaction:
//
//	03/14   GROCERY STORE #12        45.67     1,204.33
//
// Debits and credits sit in the same column, so the amount's sign carries no
// meaning and is dropped.
type Checking struct {
	base
}

var (
	checkingTxnPattern = pattern(
		`(?P<date>\d+/\d+)\s+`,
		`(?P<desc>.+)\s+`,
		`(?P<amount>.*[\d]+\.[\d]+)\s+`,
		`(?P<balance>[\d\.,\-]+)`,
	)
	checkingPageEnd = pageEndPattern(`Page \d+ of \d+`)
)

// NewChecking returns the checking-account parser.
func NewChecking() *Checking {
	return &Checking{base{
		kind:        models.BankChecking,
		name:        "Checking",
		pageEnd:     checkingPageEnd,
		transaction: checkingTxnPattern,
	}}
}

func (p *Checking) ExtractFields(line string, absolute bool) (Fields, error) {
	g, err := p.groups(line)
	if err != nil {
		return Fields{}, err
	}

	date, err := normalize.SlashDate(g["date"])
	if err != nil {
		return Fields{}, err
	}
	amount, err := normalize.ParseAmount(g["amount"], absolute)
	if err != nil {
		return Fields{}, err
	}
	balance, err := normalize.ParseAmount(g["balance"], false)
	if err != nil {
		return Fields{}, err
	}

	return Fields{
		Date:        date,
		Description: collapse(g["desc"]),
		Amount:      amount,
		Balance:     decimal.NewNullDecimal(balance),
	}, nil
}

func (p *Checking) ToRecord(line string) (models.Transaction, error) {
	f, err := p.ExtractFields(line, true)
	if err != nil {
		return models.Transaction{}, err
	}
	return models.Transaction{
		Bank:        p.BankName(),
		Date:        f.Date,
		Description: f.Description,
		Amount:      f.Amount,
		Balance:     f.Balance,
	}, nil
}
