package repository

import (
	"context"
	"errors"

	"github.com/Dan9191/bank-ledger/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	// ErrNotFound is returned when a lookup or conditional update matches no row,
	// or when a write references a row that does not exist
	ErrNotFound = errors.New("record not found")
	// ErrConflict is returned when a write violates a uniqueness constraint
	ErrConflict = errors.New("record already exists")
)

// Queries are the data-access operations available both on the pooled store
// and inside a unit of work.
type Queries interface {
	CreateUser(ctx context.Context, user *models.User) error
	ActiveUserExists(ctx context.Context, username, email string) (bool, error)
	FindActiveUserByEmail(ctx context.Context, email string) (*models.User, error)
	FindActiveUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	ListActiveUsers(ctx context.Context) ([]models.User, error)
	DeactivateUser(ctx context.Context, id uuid.UUID) (*models.User, error)

	CreateAccount(ctx context.Context, account *models.Account) error
	ListActiveAccountsByOwner(ctx context.Context, owner uuid.UUID) ([]models.Account, error)
	ListActiveAccountsByOwners(ctx context.Context, owners []uuid.UUID) ([]models.Account, error)
	FindActiveAccountByNumber(ctx context.Context, number string) (*models.Account, error)
	FindOwnedActiveAccount(ctx context.Context, id, owner uuid.UUID) (*models.Account, error)
	DeactivateAccount(ctx context.Context, id, owner uuid.UUID) (*models.Account, error)
	// DebitAccount subtracts amount from an active account only if the
	// balance covers it; otherwise it returns ErrNotFound and changes nothing.
	DebitAccount(ctx context.Context, id uuid.UUID, amount decimal.Decimal) (*models.Account, error)
	CreditAccount(ctx context.Context, id uuid.UUID, amount decimal.Decimal) (*models.Account, error)

	CreateTransaction(ctx context.Context, tx *models.Transaction) error
	ListTransactionsByTransmitter(ctx context.Context, accountNumber string) ([]models.Transaction, error)

	LedgerBalances(ctx context.Context) ([]models.LedgerBalance, error)
}

// Store is the process-wide handle to persisted state.
type Store interface {
	Queries
	// WithTransaction runs fn inside a single unit of work. Changes made
	// through q are committed only if fn returns nil and are rolled back
	// otherwise, including when fn panics.
	WithTransaction(ctx context.Context, fn func(q Queries) error) error
	Ping(ctx context.Context) error
}

var (
	_ Store = (*Repository)(nil)
	_ Store = (*MemoryRepository)(nil)
)
