package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Dan9191/bank-ledger/internal/models"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

const (
	userColumns    = `id, username, email, password, name, lastname, active, created_at, updated_at`
	accountColumns = `id, owner, account_number, account_type, current_balance, opening_balance, active, created_at, updated_at`
	txColumns      = `id, transmitter, receiver, amount, created_at, updated_at`

	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// Repository provides database operations on PostgreSQL
type Repository struct {
	db  *sqlx.DB
	ext sqlx.ExtContext
	now func() time.Time
}

// NewRepository initializes a new repository on a shared connection pool
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db, ext: db, now: func() time.Time { return time.Now().UTC() }}
}

// Ping checks the database connection
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// WithTransaction runs fn in a database transaction using the driver's default isolation level
func (r *Repository) WithTransaction(ctx context.Context, fn func(q Queries) error) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(&Repository{db: r.db, ext: tx, now: r.now}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// CreateUser creates a new user in the database
func (r *Repository) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.Active = true
	user.CreatedAt = r.now()
	user.UpdatedAt = nil

	query := `
		INSERT INTO users (id, username, email, password, name, lastname, active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.ext.ExecContext(ctx, query,
		user.ID, user.Username, user.Email, user.Password, user.Name, user.Lastname, user.Active, user.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", translate(err))
	}
	return nil
}

// ActiveUserExists reports whether an active user already holds username or email
func (r *Repository) ActiveUserExists(ctx context.Context, username, email string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM users WHERE active AND (username = $1 OR email = $2))`
	if err := sqlx.GetContext(ctx, r.ext, &exists, query, username, email); err != nil {
		return false, fmt.Errorf("failed to check user identity: %w", err)
	}
	return exists, nil
}

// FindActiveUserByEmail retrieves an active user by email
func (r *Repository) FindActiveUserByEmail(ctx context.Context, email string) (*models.User, error) {
	user := &models.User{}
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1 AND active`
	if err := sqlx.GetContext(ctx, r.ext, user, query, email); err != nil {
		return nil, fmt.Errorf("failed to find user: %w", translate(err))
	}
	return user, nil
}

// FindActiveUserByID retrieves an active user by id
func (r *Repository) FindActiveUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user := &models.User{}
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 AND active`
	if err := sqlx.GetContext(ctx, r.ext, user, query, id); err != nil {
		return nil, fmt.Errorf("failed to find user: %w", translate(err))
	}
	return user, nil
}

// ListActiveUsers returns all active users ordered by creation time
func (r *Repository) ListActiveUsers(ctx context.Context) ([]models.User, error) {
	users := []models.User{}
	query := `SELECT ` + userColumns + ` FROM users WHERE active ORDER BY created_at`
	if err := sqlx.SelectContext(ctx, r.ext, &users, query); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// DeactivateUser soft-deletes an active user
func (r *Repository) DeactivateUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user := &models.User{}
	query := `
		UPDATE users SET active = FALSE, updated_at = $2
		WHERE id = $1 AND active
		RETURNING ` + userColumns
	if err := sqlx.GetContext(ctx, r.ext, user, query, id, r.now()); err != nil {
		return nil, fmt.Errorf("failed to deactivate user: %w", translate(err))
	}
	return user, nil
}

// CreateAccount creates a new account in the database
func (r *Repository) CreateAccount(ctx context.Context, account *models.Account) error {
	if account.ID == uuid.Nil {
		account.ID = uuid.New()
	}
	account.Active = true
	account.CreatedAt = r.now()
	account.UpdatedAt = nil

	query := `
		INSERT INTO accounts (id, owner, account_number, account_type, current_balance, opening_balance, active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.ext.ExecContext(ctx, query,
		account.ID, account.Owner, account.AccountNumber, account.AccountType,
		account.CurrentBalance, account.OpeningBalance, account.Active, account.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create account: %w", translate(err))
	}
	return nil
}

// ListActiveAccountsByOwner returns the active accounts of an active user
func (r *Repository) ListActiveAccountsByOwner(ctx context.Context, owner uuid.UUID) ([]models.Account, error) {
	accounts := []models.Account{}
	query := `
		SELECT a.id, a.owner, a.account_number, a.account_type, a.current_balance, a.opening_balance,
		       a.active, a.created_at, a.updated_at
		FROM accounts a
		JOIN users u ON u.id = a.owner
		WHERE a.owner = $1 AND a.active AND u.active
		ORDER BY a.created_at`
	if err := sqlx.SelectContext(ctx, r.ext, &accounts, query, owner); err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}

// ListActiveAccountsByOwners returns the active accounts belonging to any of owners
func (r *Repository) ListActiveAccountsByOwners(ctx context.Context, owners []uuid.UUID) ([]models.Account, error) {
	accounts := []models.Account{}
	if len(owners) == 0 {
		return accounts, nil
	}

	ids := make([]string, len(owners))
	for i, id := range owners {
		ids[i] = id.String()
	}

	query := `SELECT ` + accountColumns + ` FROM accounts WHERE owner = ANY($1::uuid[]) AND active ORDER BY created_at`
	if err := sqlx.SelectContext(ctx, r.ext, &accounts, query, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}

// FindActiveAccountByNumber retrieves an active account by its account number
func (r *Repository) FindActiveAccountByNumber(ctx context.Context, number string) (*models.Account, error) {
	account := &models.Account{}
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_number = $1 AND active`
	if err := sqlx.GetContext(ctx, r.ext, account, query, number); err != nil {
		return nil, fmt.Errorf("failed to find account: %w", translate(err))
	}
	return account, nil
}

// FindOwnedActiveAccount retrieves an active account by id when it belongs to owner
func (r *Repository) FindOwnedActiveAccount(ctx context.Context, id, owner uuid.UUID) (*models.Account, error) {
	account := &models.Account{}
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1 AND owner = $2 AND active`
	if err := sqlx.GetContext(ctx, r.ext, account, query, id, owner); err != nil {
		return nil, fmt.Errorf("failed to find account: %w", translate(err))
	}
	return account, nil
}

// DeactivateAccount soft-deletes an active account owned by owner
func (r *Repository) DeactivateAccount(ctx context.Context, id, owner uuid.UUID) (*models.Account, error) {
	account := &models.Account{}
	query := `
		UPDATE accounts SET active = FALSE, updated_at = $3
		WHERE id = $1 AND owner = $2 AND active
		RETURNING ` + accountColumns
	if err := sqlx.GetContext(ctx, r.ext, account, query, id, owner, r.now()); err != nil {
		return nil, fmt.Errorf("failed to deactivate account: %w", translate(err))
	}
	return account, nil
}

// DebitAccount subtracts amount from the balance when it is covered
func (r *Repository) DebitAccount(ctx context.Context, id uuid.UUID, amount decimal.Decimal) (*models.Account, error) {
	account := &models.Account{}
	query := `
		UPDATE accounts SET current_balance = current_balance - $2, updated_at = $3
		WHERE id = $1 AND active AND current_balance >= $2
		RETURNING ` + accountColumns
	if err := sqlx.GetContext(ctx, r.ext, account, query, id, amount, r.now()); err != nil {
		return nil, fmt.Errorf("failed to debit account: %w", translate(err))
	}
	return account, nil
}

// CreditAccount adds amount to the balance of an active account
func (r *Repository) CreditAccount(ctx context.Context, id uuid.UUID, amount decimal.Decimal) (*models.Account, error) {
	account := &models.Account{}
	query := `
		UPDATE accounts SET current_balance = current_balance + $2, updated_at = $3
		WHERE id = $1 AND active
		RETURNING ` + accountColumns
	if err := sqlx.GetContext(ctx, r.ext, account, query, id, amount, r.now()); err != nil {
		return nil, fmt.Errorf("failed to credit account: %w", translate(err))
	}
	return account, nil
}

// CreateTransaction appends a ledger entry
func (r *Repository) CreateTransaction(ctx context.Context, tx *models.Transaction) error {
	if tx.ID == uuid.Nil {
		tx.ID = uuid.New()
	}
	tx.CreatedAt = r.now()
	tx.UpdatedAt = nil

	query := `
		INSERT INTO transactions (id, transmitter, receiver, amount, created_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.ext.ExecContext(ctx, query, tx.ID, tx.Transmitter, tx.Receiver, tx.Amount, tx.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", translate(err))
	}
	return nil
}

// ListTransactionsByTransmitter returns the ledger entries debiting accountNumber
func (r *Repository) ListTransactionsByTransmitter(ctx context.Context, accountNumber string) ([]models.Transaction, error) {
	txs := []models.Transaction{}
	query := `SELECT ` + txColumns + ` FROM transactions WHERE transmitter = $1 ORDER BY created_at`
	if err := sqlx.SelectContext(ctx, r.ext, &txs, query, accountNumber); err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return txs, nil
}

// LedgerBalances returns, for every account, its balances and ledger totals
func (r *Repository) LedgerBalances(ctx context.Context) ([]models.LedgerBalance, error) {
	balances := []models.LedgerBalance{}
	query := `
		SELECT a.id, a.account_number, a.opening_balance, a.current_balance,
		       COALESCE((SELECT SUM(t.amount) FROM transactions t WHERE t.transmitter = a.account_number), 0) AS debits,
		       COALESCE((SELECT SUM(t.amount) FROM transactions t WHERE t.receiver = a.account_number), 0) AS credits
		FROM accounts a
		ORDER BY a.created_at`
	if err := sqlx.SelectContext(ctx, r.ext, &balances, query); err != nil {
		return nil, fmt.Errorf("failed to load ledger balances: %w", err)
	}
	return balances, nil
}

// translate maps driver errors onto the repository sentinels
func translate(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case uniqueViolation:
			return ErrConflict
		case foreignKeyViolation:
			return ErrNotFound
		}
	}
	return err
}
