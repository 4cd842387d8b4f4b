package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Dan9191/bank-ledger/internal/models"
	"github.com/Dan9191/bank-ledger/internal/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// TransferInput carries a transfer request
type TransferInput struct {
	Transmitter string
	Receiver    string
	Amount      decimal.Decimal
}

// Transfer moves Amount from the caller's transmitter account to the receiver
// account and appends a ledger entry. The debit, the credit and the entry are
// committed together or not at all.
func (s *Service) Transfer(ctx context.Context, callerID uuid.UUID, in TransferInput) (*models.Transaction, error) {
	amount := in.Amount
	if !amount.IsPositive() || !hasScale(amount, 2) {
		return nil, validation("Amount must be a positive number with at most 2 decimals")
	}

	transmitter, err := s.findTransferAccount(ctx, in.Transmitter)
	if err != nil {
		return nil, err
	}
	receiver, err := s.findTransferAccount(ctx, in.Receiver)
	if err != nil {
		return nil, err
	}
	if transmitter.Owner != callerID {
		return nil, ErrInvalidAccount
	}
	if transmitter.AccountNumber == receiver.AccountNumber {
		return nil, ErrSameAccount
	}
	if transmitter.AccountType != receiver.AccountType {
		return nil, ErrAccountTypeMismatch
	}
	if transmitter.CurrentBalance.LessThan(amount) {
		return nil, ErrInsufficientFunds
	}

	entry := &models.Transaction{
		Transmitter: transmitter.AccountNumber,
		Receiver:    receiver.AccountNumber,
		Amount:      amount,
	}
	var debited, credited *models.Account
	err = s.repo.WithTransaction(ctx, func(q repository.Queries) error {
		var err error
		// The debit re-checks the balance so a concurrent transfer cannot overdraw.
		debited, err = q.DebitAccount(ctx, transmitter.ID, amount)
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInsufficientFunds
		}
		if err != nil {
			return err
		}

		credited, err = q.CreditAccount(ctx, receiver.ID, amount)
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidAccount
		}
		if err != nil {
			return err
		}

		return q.CreateTransaction(ctx, entry)
	})
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"transmitter": entry.Transmitter,
			"receiver":    entry.Receiver,
			"amount":      amount.String(),
		}).Warnf("Transfer rolled back: %v", err)
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"transaction": entry.ID,
		"transmitter": entry.Transmitter,
		"receiver":    entry.Receiver,
		"amount":      amount.String(),
	}).Info("Transfer committed")

	if len(s.notifiers) > 0 {
		notified := *entry
		s.notifications.Add(1)
		go func() {
			defer s.notifications.Done()
			s.notifyTransfer(ctx, notified, *debited, *credited)
		}()
	}
	return entry, nil
}

func (s *Service) findTransferAccount(ctx context.Context, number string) (*models.Account, error) {
	if number == "" {
		return nil, ErrInvalidAccount
	}
	account, err := s.repo.FindActiveAccountByNumber(ctx, number)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidAccount
	}
	return account, err
}

func (s *Service) notifyTransfer(ctx context.Context, entry models.Transaction, transmitter, receiver models.Account) {
	// Runs after the response is sent, so only the request values are kept.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	defer cancel()

	notice := TransferNotice{Transaction: entry, Transmitter: transmitter, Receiver: receiver}
	if err := s.loadOwners(ctx, &notice); err != nil {
		s.log.Warnf("Skipping notifications for transaction %s: %v", entry.ID, err)
		return
	}

	for _, n := range s.notifiers {
		if err := n.NotifyTransfer(ctx, notice); err != nil {
			s.log.Errorf("Failed to notify transaction %s: %v", entry.ID, err)
		}
	}
}

func (s *Service) loadOwners(ctx context.Context, notice *TransferNotice) error {
	owner, err := s.repo.FindActiveUserByID(ctx, notice.Transmitter.Owner)
	if err != nil {
		return fmt.Errorf("transmitter owner: %w", err)
	}
	notice.TransmitterOwner = *owner

	owner, err = s.repo.FindActiveUserByID(ctx, notice.Receiver.Owner)
	if err != nil {
		return fmt.Errorf("receiver owner: %w", err)
	}
	notice.ReceiverOwner = *owner
	return nil
}
