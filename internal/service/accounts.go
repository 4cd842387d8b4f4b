package service

import (
	"context"
	"errors"

	"github.com/Dan9191/bank-ledger/internal/models"
	"github.com/Dan9191/bank-ledger/internal/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateAccountInput carries the account creation fields; a nil
// CurrentBalance opens the account empty.
type CreateAccountInput struct {
	AccountType    models.AccountType
	CurrentBalance *decimal.Decimal
}

// ListAccounts returns the caller's active accounts
func (s *Service) ListAccounts(ctx context.Context, callerID uuid.UUID) ([]models.Account, error) {
	return s.repo.ListActiveAccountsByOwner(ctx, callerID)
}

// CreateAccount opens an account for the caller with a freshly generated account number
func (s *Service) CreateAccount(ctx context.Context, callerID uuid.UUID, in CreateAccountInput) (*models.Account, error) {
	if !in.AccountType.Valid() {
		return nil, ErrInvalidAccountType
	}

	balance := decimal.Zero
	if in.CurrentBalance != nil {
		balance = *in.CurrentBalance
	}
	if balance.IsNegative() {
		return nil, ErrNegativeBalance
	}
	if !hasScale(balance, 2) {
		return nil, validation("Balance must have at most 2 decimals")
	}

	account := &models.Account{
		Owner:          callerID,
		AccountNumber:  s.newAccountNumber(),
		AccountType:    in.AccountType,
		CurrentBalance: balance,
		OpeningBalance: balance,
	}
	if err := s.repo.CreateAccount(ctx, account); err != nil {
		// The owner row is gone even though the caller's token is still valid.
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	s.log.Infof("Account created for user %s: %s (%s)", callerID, account.AccountNumber, account.AccountType)
	return account, nil
}

// DeactivateAccount soft-deletes one of the caller's active accounts
func (s *Service) DeactivateAccount(ctx context.Context, callerID, accountID uuid.UUID) (*models.Account, error) {
	account, err := s.repo.DeactivateAccount(ctx, accountID, callerID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}

	s.log.Infof("Account deactivated for user %s: %s", callerID, account.AccountNumber)
	return account, nil
}

// ListTransactions returns the ledger entries in which the caller's account is
// the transmitter. Entries where it only receives are not included.
func (s *Service) ListTransactions(ctx context.Context, callerID, accountID uuid.UUID) ([]models.Transaction, error) {
	account, err := s.repo.FindOwnedActiveAccount(ctx, accountID, callerID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	return s.repo.ListTransactionsByTransmitter(ctx, account.AccountNumber)
}
