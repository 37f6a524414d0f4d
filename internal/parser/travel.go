package parser

import (
	"github.com/insightdelivered/statement-parser/internal/models"
	"github.com/insightdelivered/statement-parser/internal/normalize"
)

// TravelRewardsCredit handles travel-rewards card statements. Lines carry the
// transaction and posting dates as month names, the miles earned and the
// amount:
//
//	Jan 05   Jan 06   DELTA AIR LINES ATLANTA     1,234     -123.45
//
// The record date is the first (transaction) date. Payments and credits are
// printed with a minus sign, so the amount keeps its sign.
type TravelRewardsCredit struct {
	base
}

var (
	travelTxnPattern = pattern(
		`(?P<dateA>\w+ \d{2})\s+`,
		`(?P<dateB>\w+ \d{2})\s+`,
		`(?P<desc>.+)\s+`,
		`(?P<miles>\d+(?:,\d+)?)\s+`,
		`(?P<amount>.*[\d]+\.[\d]+)`,
	)
	travelPageEnd = pageEndPattern(`Page \d+ of \d+`)
)

// NewTravelRewardsCredit returns the travel-rewards card parser.
func NewTravelRewardsCredit() *TravelRewardsCredit {
	return &TravelRewardsCredit{base{
		kind:        models.BankTravelReward,
		name:        "TravelRewardsCredit",
		pageEnd:     travelPageEnd,
		transaction: travelTxnPattern,
	}}
}

func (p *TravelRewardsCredit) ExtractFields(line string, absolute bool) (Fields, error) {
	g, err := p.groups(line)
	if err != nil {
		return Fields{}, err
	}

	date, err := normalize.MonthDayDate(g["dateA"])
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
		Miles:       g["miles"],
	}, nil
}

func (p *TravelRewardsCredit) ToRecord(line string) (models.Transaction, error) {
	f, err := p.ExtractFields(line, false)
	if err != nil {
		return models.Transaction{}, err
	}
	return models.Transaction{
		Bank:        p.BankName(),
		Date:        f.Date,
		Description: f.Description,
		Amount:      f.Amount,
		Miles:       f.Miles,
	}, nil
}
