package email

import (
	"context"
	"errors"
	"net/smtp"
	"testing"
	"time"

	"github.com/Dan9191/bank-ledger/internal/config"
	"github.com/Dan9191/bank-ledger/internal/models"
	"github.com/Dan9191/bank-ledger/internal/service"
	"github.com/jordan-wright/email"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sent struct {
	msg  *email.Email
	addr string
	auth smtp.Auth
}

func newTestSender(cfg *config.Config, err error) (*Sender, *[]sent, *test.Hook) {
	logger, hook := test.NewNullLogger()
	var out []sent
	s := NewSender(cfg, logger)
	s.send = func(e *email.Email, addr string, auth smtp.Auth) error {
		out = append(out, sent{msg: e, addr: addr, auth: auth})
		return err
	}
	return s, &out, hook
}

func testConfig() *config.Config {
	return &config.Config{
		SMTPHost:    "smtp.example.com",
		SMTPPort:    "587",
		SenderEmail: "bank@example.com",
	}
}

func TestNotifyTransfer(t *testing.T) {
	s, out, _ := newTestSender(testConfig(), nil)
	at := time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)

	err := s.NotifyTransfer(context.Background(), service.TransferNotice{
		Transaction:      models.Transaction{Amount: decimal.NewFromInt(500), CreatedAt: at},
		Transmitter:      models.Account{AccountNumber: "aaa-111", CurrentBalance: decimal.NewFromInt(400)},
		Receiver:         models.Account{AccountNumber: "bbb-222", CurrentBalance: decimal.NewFromInt(600)},
		TransmitterOwner: models.User{Username: "jane", Email: "jane@example.com"},
		ReceiverOwner:    models.User{Username: "john", Email: "john@example.com"},
	})
	require.NoError(t, err)
	require.Len(t, *out, 2)

	withdrawal := (*out)[0]
	assert.Equal(t, "smtp.example.com:587", withdrawal.addr)
	assert.Nil(t, withdrawal.auth)
	assert.Equal(t, "bank@example.com", withdrawal.msg.From)
	assert.Equal(t, []string{"jane@example.com"}, withdrawal.msg.To)
	assert.Equal(t, "Withdrawal Notification", withdrawal.msg.Subject)
	assert.Contains(t, string(withdrawal.msg.Text), "An amount of 500.00 has been withdrawn from your account aaa-111.")
	assert.Contains(t, string(withdrawal.msg.Text), "Current balance: 400.00")
	assert.Contains(t, string(withdrawal.msg.Text), "Transaction time: 2024-05-01 12:30:00")

	deposit := (*out)[1]
	assert.Equal(t, []string{"john@example.com"}, deposit.msg.To)
	assert.Equal(t, "Deposit Notification", deposit.msg.Subject)
	assert.Contains(t, string(deposit.msg.Text), "Dear john,")
	assert.Contains(t, string(deposit.msg.Text), "Your account bbb-222 has been credited with 500.00.")
	assert.Contains(t, string(deposit.msg.Text), "Current balance: 600.00")
}

func TestSendTransactionNotificationUsesAuth(t *testing.T) {
	cfg := testConfig()
	cfg.SMTPUsername = "mailer"
	cfg.SMTPPassword = "secret"
	s, out, _ := newTestSender(cfg, nil)

	err := s.SendTransactionNotification("jane@example.com", "jane", "aaa-111",
		decimal.NewFromInt(1), transactionDeposit, decimal.NewFromInt(1), time.Now())
	require.NoError(t, err)
	require.Len(t, *out, 1)
	assert.NotNil(t, (*out)[0].auth)
}

func TestNotifyTransferStopsOnSendFailure(t *testing.T) {
	s, out, hook := newTestSender(testConfig(), errors.New("connection refused"))

	err := s.NotifyTransfer(context.Background(), service.TransferNotice{
		TransmitterOwner: models.User{Email: "jane@example.com"},
		ReceiverOwner:    models.User{Email: "john@example.com"},
	})
	assert.EqualError(t, err, "failed to send Withdrawal notification: connection refused")
	assert.Len(t, *out, 1)
	// The caller logs the returned error.
	for _, entry := range hook.AllEntries() {
		assert.NotEqual(t, logrus.ErrorLevel, entry.Level, entry.Message)
	}
}
