package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountType is the kind of a bank account. Transfers only move money between
// accounts of the same type.
type AccountType string

const (
	Checking AccountType = "checking"
	Saving   AccountType = "saving"
)

// Valid reports whether t is one of the supported account types.
func (t AccountType) Valid() bool {
	return t == Checking || t == Saving
}

type Account struct {
	ID             uuid.UUID       `json:"id" db:"id"`
	Owner          uuid.UUID       `json:"owner" db:"owner"`
	AccountNumber  string          `json:"accountNumber" db:"account_number"`
	AccountType    AccountType     `json:"accountType" db:"account_type"`
	CurrentBalance decimal.Decimal `json:"currentBalance" db:"current_balance"`
	OpeningBalance decimal.Decimal `json:"-" db:"opening_balance"`
	Active         bool            `json:"active" db:"active"`
	CreatedAt      time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt      *time.Time      `json:"updatedAt" db:"updated_at"`
}
