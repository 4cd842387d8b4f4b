package jobs

import (
	"context"
	"errors"
	"testing"

	"github.com/Dan9191/bank-ledger/internal/models"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubReconciler struct {
	discrepancies []models.LedgerDiscrepancy
	err           error
	calls         int
}

func (s *stubReconciler) ReconcileLedger(context.Context) ([]models.LedgerDiscrepancy, error) {
	s.calls++
	return s.discrepancies, s.err
}

func TestReconcileJobClean(t *testing.T) {
	logger, hook := test.NewNullLogger()
	stub := &stubReconciler{}

	NewReconcileJob(stub, logger).Run()

	assert.Equal(t, 1, stub.calls)
	require.Len(t, hook.AllEntries(), 1)
	assert.Equal(t, logrus.InfoLevel, hook.LastEntry().Level)
}

func TestReconcileJobLogsDiscrepancies(t *testing.T) {
	logger, hook := test.NewNullLogger()
	stub := &stubReconciler{discrepancies: []models.LedgerDiscrepancy{{
		LedgerBalance: models.LedgerBalance{
			AccountNumber:  "aaa-111",
			OpeningBalance: decimal.NewFromInt(100),
			CurrentBalance: decimal.NewFromInt(125),
			Debits:         decimal.Zero,
			Credits:        decimal.Zero,
		},
		ExpectedBalance: decimal.NewFromInt(100),
		Difference:      decimal.NewFromInt(25),
	}}}

	NewReconcileJob(stub, logger).Run()

	entries := hook.AllEntries()
	require.Len(t, entries, 2)
	assert.Equal(t, logrus.ErrorLevel, entries[0].Level)
	assert.Equal(t, "aaa-111", entries[0].Data["account"])
	assert.Equal(t, "100", entries[0].Data["expected"])
	assert.Equal(t, "125", entries[0].Data["current"])
	assert.Equal(t, "Ledger reconciliation found 1 discrepancies", entries[1].Message)
}

func TestReconcileJobLogsFailure(t *testing.T) {
	logger, hook := test.NewNullLogger()

	NewReconcileJob(&stubReconciler{err: errors.New("db down")}, logger).Run()

	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
	assert.Equal(t, "Ledger reconciliation failed: db down", hook.LastEntry().Message)
}

func TestNewScheduler(t *testing.T) {
	logger, _ := test.NewNullLogger()
	job := NewReconcileJob(&stubReconciler{}, logger)

	c, err := NewScheduler("@every 1h", job, logger)
	require.NoError(t, err)
	assert.Len(t, c.Entries(), 1)

	_, err = NewScheduler("not a schedule", job, logger)
	assert.Error(t, err)
}
