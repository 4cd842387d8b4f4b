package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Dan9191/bank-ledger/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MemoryRepository keeps all state in process memory. It backs demo runs
// without PostgreSQL and the HTTP tests. Units of work are serialized and
// operate on a copy of the state that replaces the live one on success.
type MemoryRepository struct {
	mu    sync.Mutex
	state *memState
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{state: newMemState()}
}

func (r *MemoryRepository) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (r *MemoryRepository) WithTransaction(ctx context.Context, fn func(q Queries) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	work := r.state.clone()
	if err := fn(work); err != nil {
		return err
	}
	r.state = work
	return nil
}

func (r *MemoryRepository) CreateUser(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state.CreateUser(ctx, user)
}

func (r *MemoryRepository) ActiveUserExists(ctx context.Context, username, email string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state.ActiveUserExists(ctx, username, email)
}

func (r *MemoryRepository) FindActiveUserByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state.FindActiveUserByEmail(ctx, email)
}

func (r *MemoryRepository) FindActiveUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state.FindActiveUserByID(ctx, id)
}

func (r *MemoryRepository) ListActiveUsers(ctx context.Context) ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state.ListActiveUsers(ctx)
}

func (r *MemoryRepository) DeactivateUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state.DeactivateUser(ctx, id)
}

func (r *MemoryRepository) CreateAccount(ctx context.Context, account *models.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state.CreateAccount(ctx, account)
}

func (r *MemoryRepository) ListActiveAccountsByOwner(ctx context.Context, owner uuid.UUID) ([]models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state.ListActiveAccountsByOwner(ctx, owner)
}

func (r *MemoryRepository) ListActiveAccountsByOwners(ctx context.Context, owners []uuid.UUID) ([]models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state.ListActiveAccountsByOwners(ctx, owners)
}

func (r *MemoryRepository) FindActiveAccountByNumber(ctx context.Context, number string) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state.FindActiveAccountByNumber(ctx, number)
}

func (r *MemoryRepository) FindOwnedActiveAccount(ctx context.Context, id, owner uuid.UUID) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state.FindOwnedActiveAccount(ctx, id, owner)
}

func (r *MemoryRepository) DeactivateAccount(ctx context.Context, id, owner uuid.UUID) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state.DeactivateAccount(ctx, id, owner)
}

func (r *MemoryRepository) DebitAccount(ctx context.Context, id uuid.UUID, amount decimal.Decimal) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state.DebitAccount(ctx, id, amount)
}

func (r *MemoryRepository) CreditAccount(ctx context.Context, id uuid.UUID, amount decimal.Decimal) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state.CreditAccount(ctx, id, amount)
}

func (r *MemoryRepository) CreateTransaction(ctx context.Context, tx *models.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state.CreateTransaction(ctx, tx)
}

func (r *MemoryRepository) ListTransactionsByTransmitter(ctx context.Context, accountNumber string) ([]models.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state.ListTransactionsByTransmitter(ctx, accountNumber)
}

func (r *MemoryRepository) LedgerBalances(ctx context.Context) ([]models.LedgerBalance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state.LedgerBalances(ctx)
}

// memState implements Queries without locking; callers hold MemoryRepository.mu.
type memState struct {
	users        map[uuid.UUID]models.User
	accounts     map[uuid.UUID]models.Account
	transactions []models.Transaction
}

func newMemState() *memState {
	return &memState{
		users:    make(map[uuid.UUID]models.User),
		accounts: make(map[uuid.UUID]models.Account),
	}
}

func (s *memState) clone() *memState {
	c := &memState{
		users:        make(map[uuid.UUID]models.User, len(s.users)),
		accounts:     make(map[uuid.UUID]models.Account, len(s.accounts)),
		transactions: make([]models.Transaction, len(s.transactions)),
	}
	for id, u := range s.users {
		c.users[id] = u
	}
	for id, a := range s.accounts {
		c.accounts[id] = a
	}
	copy(c.transactions, s.transactions)
	return c
}

func memNow() time.Time {
	return time.Now().UTC()
}

func (s *memState) CreateUser(_ context.Context, user *models.User) error {
	for _, u := range s.users {
		if u.Username == user.Username || u.Email == user.Email {
			return ErrConflict
		}
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.Active = true
	user.CreatedAt = memNow()
	user.UpdatedAt = nil

	s.users[user.ID] = *user
	return nil
}

func (s *memState) ActiveUserExists(_ context.Context, username, email string) (bool, error) {
	for _, u := range s.users {
		if u.Active && (u.Username == username || u.Email == email) {
			return true, nil
		}
	}
	return false, nil
}

func (s *memState) FindActiveUserByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range s.users {
		if u.Active && u.Email == email {
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (s *memState) FindActiveUserByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	u, ok := s.users[id]
	if !ok || !u.Active {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (s *memState) ListActiveUsers(_ context.Context) ([]models.User, error) {
	users := []models.User{}
	for _, u := range s.users {
		if u.Active {
			users = append(users, u)
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].CreatedAt.Before(users[j].CreatedAt) })
	return users, nil
}

func (s *memState) DeactivateUser(_ context.Context, id uuid.UUID) (*models.User, error) {
	u, ok := s.users[id]
	if !ok || !u.Active {
		return nil, ErrNotFound
	}
	now := memNow()
	u.Active = false
	u.UpdatedAt = &now
	s.users[id] = u
	return &u, nil
}

func (s *memState) CreateAccount(_ context.Context, account *models.Account) error {
	if _, ok := s.users[account.Owner]; !ok {
		return ErrNotFound
	}
	for _, a := range s.accounts {
		if a.AccountNumber == account.AccountNumber {
			return ErrConflict
		}
	}
	if account.ID == uuid.Nil {
		account.ID = uuid.New()
	}
	account.Active = true
	account.CreatedAt = memNow()
	account.UpdatedAt = nil
	s.accounts[account.ID] = *account
	return nil
}

func (s *memState) ListActiveAccountsByOwner(ctx context.Context, owner uuid.UUID) ([]models.Account, error) {
	if u, ok := s.users[owner]; !ok || !u.Active {
		return []models.Account{}, nil
	}
	return s.ListActiveAccountsByOwners(ctx, []uuid.UUID{owner})
}

func (s *memState) ListActiveAccountsByOwners(_ context.Context, owners []uuid.UUID) ([]models.Account, error) {
	wanted := make(map[uuid.UUID]bool, len(owners))
	for _, id := range owners {
		wanted[id] = true
	}
	accounts := []models.Account{}
	for _, a := range s.accounts {
		if a.Active && wanted[a.Owner] {
			accounts = append(accounts, a)
		}
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].CreatedAt.Before(accounts[j].CreatedAt) })
	return accounts, nil
}

func (s *memState) FindActiveAccountByNumber(_ context.Context, number string) (*models.Account, error) {
	for _, a := range s.accounts {
		if a.Active && a.AccountNumber == number {
			return &a, nil
		}
	}
	return nil, ErrNotFound
}

func (s *memState) FindOwnedActiveAccount(_ context.Context, id, owner uuid.UUID) (*models.Account, error) {
	a, ok := s.accounts[id]
	if !ok || !a.Active || a.Owner != owner {
		return nil, ErrNotFound
	}
	return &a, nil
}

func (s *memState) DeactivateAccount(ctx context.Context, id, owner uuid.UUID) (*models.Account, error) {
	a, err := s.FindOwnedActiveAccount(ctx, id, owner)
	if err != nil {
		return nil, err
	}
	now := memNow()
	a.Active = false
	a.UpdatedAt = &now
	s.accounts[id] = *a
	return a, nil
}

func (s *memState) DebitAccount(_ context.Context, id uuid.UUID, amount decimal.Decimal) (*models.Account, error) {
	a, ok := s.accounts[id]
	if !ok || !a.Active || a.CurrentBalance.LessThan(amount) {
		return nil, ErrNotFound
	}
	now := memNow()
	a.CurrentBalance = a.CurrentBalance.Sub(amount)
	a.UpdatedAt = &now
	s.accounts[id] = a
	return &a, nil
}

func (s *memState) CreditAccount(_ context.Context, id uuid.UUID, amount decimal.Decimal) (*models.Account, error) {
	a, ok := s.accounts[id]
	if !ok || !a.Active {
		return nil, ErrNotFound
	}
	now := memNow()
	a.CurrentBalance = a.CurrentBalance.Add(amount)
	a.UpdatedAt = &now
	s.accounts[id] = a
	return &a, nil
}

func (s *memState) CreateTransaction(_ context.Context, tx *models.Transaction) error {
	if tx.ID == uuid.Nil {
		tx.ID = uuid.New()
	}
	tx.CreatedAt = memNow()
	tx.UpdatedAt = nil
	s.transactions = append(s.transactions, *tx)
	return nil
}

func (s *memState) ListTransactionsByTransmitter(_ context.Context, accountNumber string) ([]models.Transaction, error) {
	txs := []models.Transaction{}
	for _, t := range s.transactions {
		if t.Transmitter == accountNumber {
			txs = append(txs, t)
		}
	}
	return txs, nil
}

func (s *memState) LedgerBalances(_ context.Context) ([]models.LedgerBalance, error) {
	balances := make([]models.LedgerBalance, 0, len(s.accounts))
	for _, a := range s.accounts {
		b := models.LedgerBalance{
			AccountID:      a.ID,
			AccountNumber:  a.AccountNumber,
			OpeningBalance: a.OpeningBalance,
			CurrentBalance: a.CurrentBalance,
			Debits:         decimal.Zero,
			Credits:        decimal.Zero,
		}
		for _, t := range s.transactions {
			if t.Transmitter == a.AccountNumber {
				b.Debits = b.Debits.Add(t.Amount)
			}
			if t.Receiver == a.AccountNumber {
				b.Credits = b.Credits.Add(t.Amount)
			}
		}
		balances = append(balances, b)
	}
	sort.Slice(balances, func(i, j int) bool { return balances[i].AccountNumber < balances[j].AccountNumber })
	return balances, nil
}
