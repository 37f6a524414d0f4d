package normalize

import (
	"strings"

	"github.com/shopspring/decimal"

	apperrors "github.com/insightdelivered/statement-parser/internal/errors"
)

// amountNoise holds the characters stripped from money tokens before parsing.
var amountNoise = strings.NewReplacer("$", "", ",", "", " ", "", "_", "", "*", "")

// ParseAmount converts a token such as "$1,234.56" or "-42.00" to a decimal.
// With absolute set the sign is dropped, for layouts where the sign is a
// display artifact rather than data.
func ParseAmount(token string, absolute bool) (decimal.Decimal, error) {
	cleaned := amountNoise.Replace(token)
	if cleaned == "" {
		return decimal.Zero, apperrors.MalformedNumber(token, nil)
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, apperrors.MalformedNumber(token, err)
	}
	if absolute {
		return d.Abs(), nil
	}
	return d, nil
}
