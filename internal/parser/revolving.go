package parser

import (
	"github.com/insightdelivered/statement-parser/internal/models"
	"github.com/insightdelivered/statement-parser/internal/normalize"
)

// RevolvingCredit handles revolving-credit card statements, which list a date,
// a description and an amount with no balance column:
//
//	02/03   AMAZON.COM*AB12CD34 AMZN.COM/BILL WA     23.99
//
// Pages end with the statement date next to the page counter, e.g.
// "02/28/24   Page 2 of 4".
type RevolvingCredit struct {
	base
}

var (
	revolvingTxnPattern = pattern(
		`(?P<date>\d+/\d+)\s+`,
		`(?P<desc>.+)\s+`,
		`(?P<amount>.*[\d]+\.[\d]+)`,
	)
	revolvingPageEnd = pageEndPattern(`(?P<date>\d+/\d+/\d+)\s+(?P<page>Page \d+ of \d+)`)
)

// NewRevolvingCredit returns the revolving-credit card parser.
func NewRevolvingCredit() *RevolvingCredit {
	return &RevolvingCredit{base{
		kind:        models.BankRevolving,
		name:        "RevolvingCredit",
		pageEnd:     revolvingPageEnd,
		transaction: revolvingTxnPattern,
	}}
}

func (p *RevolvingCredit) ExtractFields(line string, absolute bool) (Fields, error) {
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

	return Fields{
		Date:        date,
		Description: collapse(g["desc"]),
		Amount:      amount,
	}, nil
}

func (p *RevolvingCredit) ToRecord(line string) (models.Transaction, error) {
	f, err := p.ExtractFields(line, true)
	if err != nil {
		return models.Transaction{}, err
	}
	return models.Transaction{
		Bank:        p.BankName(),
		Date:        f.Date,
		Description: f.Description,
		Amount:      f.Amount,
	}, nil
}
