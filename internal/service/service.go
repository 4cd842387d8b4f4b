package service

import (
	"context"
	"sync"
	"time"

	"github.com/Dan9191/bank-ledger/internal/auth"
	"github.com/Dan9191/bank-ledger/internal/models"
	"github.com/Dan9191/bank-ledger/internal/repository"
	"github.com/Dan9191/bank-ledger/internal/utils"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const notifyTimeout = 10 * time.Second

// TransferNotice describes a committed transfer for notifiers
type TransferNotice struct {
	Transaction      models.Transaction `json:"transaction"`
	Transmitter      models.Account     `json:"transmitter"`
	Receiver         models.Account     `json:"receiver"`
	TransmitterOwner models.User        `json:"-"`
	ReceiverOwner    models.User        `json:"-"`
}

// Notifier is told about every committed transfer. Failures are logged and
// never undo the transfer.
type Notifier interface {
	NotifyTransfer(ctx context.Context, n TransferNotice) error
}

// Service handles business logic
type Service struct {
	repo             repository.Store
	log              *logrus.Logger
	tokens           *auth.TokenIssuer
	notifiers        []Notifier
	newAccountNumber func() string

	notifications sync.WaitGroup
}

// NewService initializes a new service
func NewService(repo repository.Store, log *logrus.Logger, tokens *auth.TokenIssuer, notifiers ...Notifier) *Service {
	return &Service{
		repo:             repo,
		log:              log,
		tokens:           tokens,
		notifiers:        notifiers,
		newAccountNumber: utils.GenerateAccountNumber,
	}
}

// Wait blocks until every in-flight transfer notification has finished
func (s *Service) Wait() {
	s.notifications.Wait()
}

// Ping checks that the store is reachable
func (s *Service) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

// hasScale reports whether d has at most places fractional digits
func hasScale(d decimal.Decimal, places int32) bool {
	return d.Equal(d.Truncate(places))
}
