package email

import (
	"context"
	"fmt"
	"net/smtp"
	"time"

	"github.com/Dan9191/bank-ledger/internal/config"
	"github.com/Dan9191/bank-ledger/internal/service"
	"github.com/jordan-wright/email"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const (
	transactionDeposit    = "Deposit"
	transactionWithdrawal = "Withdrawal"
)

// Sender handles sending emails via SMTP
type Sender struct {
	cfg    *config.Config
	logger *logrus.Logger
	send   func(e *email.Email, addr string, auth smtp.Auth) error
}

// NewSender creates a new email sender
func NewSender(cfg *config.Config, logger *logrus.Logger) *Sender {
	return &Sender{
		cfg:    cfg,
		logger: logger,
		send: func(e *email.Email, addr string, auth smtp.Auth) error {
			return e.Send(addr, auth)
		},
	}
}

// NotifyTransfer e-mails the transmitter's owner about the withdrawal and the
// receiver's owner about the deposit.
func (s *Sender) NotifyTransfer(_ context.Context, n service.TransferNotice) error {
	at := n.Transaction.CreatedAt
	err := s.SendTransactionNotification(n.TransmitterOwner.Email, n.TransmitterOwner.Username,
		n.Transmitter.AccountNumber, n.Transaction.Amount, transactionWithdrawal, n.Transmitter.CurrentBalance, at)
	if err != nil {
		return err
	}
	return s.SendTransactionNotification(n.ReceiverOwner.Email, n.ReceiverOwner.Username,
		n.Receiver.AccountNumber, n.Transaction.Amount, transactionDeposit, n.Receiver.CurrentBalance, at)
}

// SendTransactionNotification sends a notification email for deposit or withdrawal
func (s *Sender) SendTransactionNotification(to, username, accountNumber string, amount decimal.Decimal, transactionType string, balance decimal.Decimal, at time.Time) error {
	e := s.buildTransactionNotification(to, username, accountNumber, amount, transactionType, balance, at)

	// Send email
	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	var auth smtp.Auth
	if s.cfg.SMTPUsername != "" {
		auth = smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	}
	if err := s.send(e, addr, auth); err != nil {
		return fmt.Errorf("failed to send %s notification: %w", transactionType, err)
	}

	s.logger.Infof("Email sent to %s: %s", to, e.Subject)
	return nil
}

func (s *Sender) buildTransactionNotification(to, username, accountNumber string, amount decimal.Decimal, transactionType string, balance decimal.Decimal, at time.Time) *email.Email {
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{to}
	e.Subject = fmt.Sprintf("%s Notification", transactionType)

	// Format email body
	body := fmt.Sprintf("Dear %s,\n\n", username)
	if transactionType == transactionDeposit {
		body += fmt.Sprintf(
			"Your account %s has been credited with %s.\n"+
				"Transaction time: %s\n"+
				"Current balance: %s\n",
			accountNumber, amount.StringFixed(2), at.Format("2006-01-02 15:04:05"), balance.StringFixed(2),
		)
	} else {
		body += fmt.Sprintf(
			"An amount of %s has been withdrawn from your account %s.\n"+
				"Transaction time: %s\n"+
				"Current balance: %s\n",
			amount.StringFixed(2), accountNumber, at.Format("2006-01-02 15:04:05"), balance.StringFixed(2),
		)
	}
	body += "\nBest regards,\nBank Service"
	e.Text = []byte(body)
	return e
}
