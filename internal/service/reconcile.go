package service

import (
	"context"

	"github.com/Dan9191/bank-ledger/internal/models"
)

// ReconcileLedger compares every account balance with the balance implied by
// its opening balance and the ledger, and returns the accounts that disagree.
func (s *Service) ReconcileLedger(ctx context.Context) ([]models.LedgerDiscrepancy, error) {
	balances, err := s.repo.LedgerBalances(ctx)
	if err != nil {
		return nil, err
	}

	var out []models.LedgerDiscrepancy
	for _, b := range balances {
		expected := b.Expected()
		if expected.Equal(b.CurrentBalance) {
			continue
		}
		out = append(out, models.LedgerDiscrepancy{
			LedgerBalance:   b,
			ExpectedBalance: expected,
			Difference:      b.CurrentBalance.Sub(expected),
		})
	}

	s.log.Debugf("Ledger reconciled: %d accounts, %d discrepancies", len(balances), len(out))
	return out, nil
}
