package ledgerevents

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Dan9191/bank-ledger/internal/service"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// EventTransactionCreated is the type of the event published for every committed transfer
const EventTransactionCreated = "transaction.created"

// TransactionEvent is the message value written to the ledger topic
type TransactionEvent struct {
	Type               string          `json:"type"`
	TransactionID      uuid.UUID       `json:"transactionId"`
	Transmitter        string          `json:"transmitter"`
	Receiver           string          `json:"receiver"`
	Amount             decimal.Decimal `json:"amount"`
	TransmitterBalance decimal.Decimal `json:"transmitterBalance"`
	ReceiverBalance    decimal.Decimal `json:"receiverBalance"`
	OccurredAt         time.Time       `json:"occurredAt"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher writes ledger events to Kafka
type Publisher struct {
	writer messageWriter
	logger *logrus.Logger
}

// NewPublisher creates a publisher for the given brokers and topic
func NewPublisher(brokers []string, topic string, logger *logrus.Logger) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			RequiredAcks: kafka.RequireAll,
			BatchTimeout: 10 * time.Millisecond,
			WriteTimeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// NotifyTransfer publishes a transaction.created event keyed by the transmitter account number,
// so events for one account stay ordered within a partition.
func (p *Publisher) NotifyTransfer(ctx context.Context, n service.TransferNotice) error {
	msg, err := newMessage(n)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish %s event: %w", EventTransactionCreated, err)
	}

	p.logger.Debugf("Published %s event for transaction %s", EventTransactionCreated, n.Transaction.ID)
	return nil
}

// Close flushes pending messages and closes the writer
func (p *Publisher) Close() error {
	return p.writer.Close()
}

func newMessage(n service.TransferNotice) (kafka.Message, error) {
	event := TransactionEvent{
		Type:               EventTransactionCreated,
		TransactionID:      n.Transaction.ID,
		Transmitter:        n.Transaction.Transmitter,
		Receiver:           n.Transaction.Receiver,
		Amount:             n.Transaction.Amount,
		TransmitterBalance: n.Transmitter.CurrentBalance,
		ReceiverBalance:    n.Receiver.CurrentBalance,
		OccurredAt:         n.Transaction.CreatedAt,
	}
	value, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("failed to encode event: %w", err)
	}
	return kafka.Message{
		Key:   []byte(n.Transaction.Transmitter),
		Value: value,
		Time:  n.Transaction.CreatedAt,
	}, nil
}
