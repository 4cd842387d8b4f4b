package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LedgerBalance aggregates the ledger movements of a single account
type LedgerBalance struct {
	AccountID      uuid.UUID       `json:"accountId" db:"id"`
	AccountNumber  string          `json:"accountNumber" db:"account_number"`
	OpeningBalance decimal.Decimal `json:"openingBalance" db:"opening_balance"`
	CurrentBalance decimal.Decimal `json:"currentBalance" db:"current_balance"`
	Debits         decimal.Decimal `json:"debits" db:"debits"`
	Credits        decimal.Decimal `json:"credits" db:"credits"`
}

// Expected returns the balance implied by the ledger: opening - debits + credits
func (b LedgerBalance) Expected() decimal.Decimal {
	return b.OpeningBalance.Sub(b.Debits).Add(b.Credits)
}

// LedgerDiscrepancy represents an account whose stored balance disagrees with its ledger
type LedgerDiscrepancy struct {
	LedgerBalance
	ExpectedBalance decimal.Decimal `json:"expectedBalance"`
	Difference      decimal.Decimal `json:"difference"` // current - expected
}
