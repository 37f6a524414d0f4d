package models

import (
	"bytes"
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Transaction is the canonical record produced by every statement variant.
// Balance is only set for checking statements and Miles only for
// travel-rewards cards; absent fields are left out of Row entirely.
type Transaction struct {
	Bank        string              `json:"bank"`
	Date        string              `json:"date"` // MM/DD
	Description string              `json:"description"`
	Amount      decimal.Decimal     `json:"amount"`
	Balance     decimal.NullDecimal `json:"balance,omitempty"`
	Miles       string              `json:"miles,omitempty"`
}

// Column names used by Row.
const (
	ColBank        = "bank"
	ColDate        = "date"
	ColDescription = "description"
	ColAmount      = "amount"
	ColBalance     = "balance"
	ColMiles       = "miles"
)

// BaseColumns are the keys every Row carries, in Row order.
var BaseColumns = []string{ColBank, ColDate, ColDescription, ColAmount}

// Field is one key/value cell of an exported record.
type Field struct {
	Key   string
	Value string
}

// Row is an ordered set of fields. Rows from different variants carry
// different keys.
type Row []Field

// Get returns the value for key and whether it is present.
func (r Row) Get(key string) (string, bool) {
	for _, f := range r {
		if f.Key == key {
			return f.Value, true
		}
	}
	return "", false
}

// Row returns the transaction as ordered fields. Travel-rewards records emit
// miles ahead of the amount.
func (t Transaction) Row() Row {
	row := Row{
		{ColBank, t.Bank},
		{ColDate, t.Date},
		{ColDescription, t.Description},
	}
	if t.Miles != "" {
		row = append(row, Field{ColMiles, t.Miles})
	}
	row = append(row, Field{ColAmount, FormatAmount(t.Amount)})
	if t.Balance.Valid {
		row = append(row, Field{ColBalance, FormatAmount(t.Balance.Decimal)})
	}
	return row
}

// MarshalJSON writes the fields of Row in order, with money as JSON numbers.
func (t Transaction) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range t.Row() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		if f.Key == ColAmount || f.Key == ColBalance {
			buf.WriteString(f.Value)
			continue
		}
		val, err := json.Marshal(f.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Rows converts a slice of transactions for export.
func Rows(txns []Transaction) []Row {
	rows := make([]Row, 0, len(txns))
	for _, t := range txns {
		rows = append(rows, t.Row())
	}
	return rows
}

// FormatAmount renders money with two decimals.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// BankType names a supported statement variant.
type BankType string

const (
	BankChecking     BankType = "checking"
	BankRevolving    BankType = "revolving"
	BankTravelReward BankType = "travel"
)

// Statement is the result of parsing one document.
type Statement struct {
	Bank         BankType
	Source       string
	PageCount    int
	Transactions []Transaction
}
