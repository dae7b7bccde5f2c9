package models

import (
	"github.com/shopspring/decimal"
)

// Record is one (category, amount) pair of the ledger. Category is either a
// ticker symbol copied verbatim from the OCR text or a canonical payment
// type label.
type Record struct {
	Category string          `json:"category" yaml:"category"`
	Amount   decimal.Decimal `json:"amount" yaml:"amount"`
}

// NewRecord builds a Record.
func NewRecord(category string, amount decimal.Decimal) Record {
	return Record{Category: category, Amount: amount}
}

// Equal compares category and numeric amount, so 100.00 equals 100.0.
func (r Record) Equal(other Record) bool {
	return r.Category == other.Category && r.Amount.Equal(other.Amount)
}

// key is the set identity of a record. decimal's String trims trailing
// zeros, which makes numerically equal amounts collide.
func (r Record) key() string {
	return r.Category + "\x00" + r.Amount.String()
}
