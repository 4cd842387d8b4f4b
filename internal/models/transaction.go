package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Transaction is an immutable ledger entry moving Amount from the Transmitter
// account number to the Receiver account number.
type Transaction struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	Transmitter string          `json:"transmitter" db:"transmitter"`
	Receiver    string          `json:"receiver" db:"receiver"`
	Amount      decimal.Decimal `json:"amount" db:"amount"`
	CreatedAt   time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt   *time.Time      `json:"updatedAt" db:"updated_at"`
}
