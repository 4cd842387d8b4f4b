package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/Dan9191/bank-ledger/internal/models"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

const reconcileTimeout = 5 * time.Minute

// Reconciler checks account balances against the ledger
type Reconciler interface {
	ReconcileLedger(ctx context.Context) ([]models.LedgerDiscrepancy, error)
}

// ReconcileJob runs a ledger reconciliation and logs the outcome
type ReconcileJob struct {
	svc    Reconciler
	logger *logrus.Logger
}

func NewReconcileJob(svc Reconciler, logger *logrus.Logger) *ReconcileJob {
	return &ReconcileJob{svc: svc, logger: logger}
}

// Run implements cron.Job
func (j *ReconcileJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), reconcileTimeout)
	defer cancel()

	discrepancies, err := j.svc.ReconcileLedger(ctx)
	if err != nil {
		j.logger.Errorf("Ledger reconciliation failed: %v", err)
		return
	}
	if len(discrepancies) == 0 {
		j.logger.Info("Ledger reconciliation finished without discrepancies")
		return
	}

	for _, d := range discrepancies {
		j.logger.WithFields(logrus.Fields{
			"account":  d.AccountNumber,
			"opening":  d.OpeningBalance.String(),
			"debits":   d.Debits.String(),
			"credits":  d.Credits.String(),
			"expected": d.ExpectedBalance.String(),
			"current":  d.CurrentBalance.String(),
		}).Error("Ledger discrepancy")
	}
	j.logger.Errorf("Ledger reconciliation found %d discrepancies", len(discrepancies))
}

// NewScheduler registers job under schedule. An overlapping run is skipped and a panicking run is recovered.
// The returned scheduler is not started.
func NewScheduler(schedule string, job cron.Job, logger *logrus.Logger) (*cron.Cron, error) {
	cronLogger := cron.PrintfLogger(logger)
	c := cron.New(cron.WithLogger(cronLogger), cron.WithChain(
		cron.Recover(cronLogger),
		cron.SkipIfStillRunning(cronLogger),
	))
	if _, err := c.AddJob(schedule, job); err != nil {
		return nil, fmt.Errorf("invalid schedule %q: %w", schedule, err)
	}
	return c, nil
}
