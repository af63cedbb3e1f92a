package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/segmentio/kafka-go"

	"voting-service/internal/models"
)

// KafkaAlertPublisher pushes integrity alerts to the operator topic. A nil
// publisher (no brokers configured) degrades to log-only so integrity
// faults are still visible.
type KafkaAlertPublisher struct {
	writer *kafka.Writer
}

func NewKafkaAlertPublisher(brokers []string, topic string) *KafkaAlertPublisher {
	if len(brokers) == 0 {
		return nil
	}
	return &KafkaAlertPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			MaxAttempts:  5,
		},
	}
}

// PublishIntegrityAlert is fire-and-forget for the caller: a broken broker
// must never mask the fault being reported, so failures are logged and
// swallowed here.
func (p *KafkaAlertPublisher) PublishIntegrityAlert(ctx context.Context, alert models.IntegrityAlert) {
	slog.Error("integrity alert",
		"kind", alert.Kind,
		"session_id", alert.SessionID,
		"receipt_id", alert.ReceiptID,
		"detail", alert.Detail,
	)
	if p == nil {
		return
	}
	payload, err := json.Marshal(alert)
	if err != nil {
		slog.Error("failed to marshal integrity alert", "error", err)
		return
	}
	msg := kafka.Message{
		Key:   []byte(fmt.Sprintf("%d", alert.SessionID)),
		Value: payload,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		slog.Error("failed to publish integrity alert", "error", err)
	}
}

func (p *KafkaAlertPublisher) Close() error {
	if p == nil {
		return nil
	}
	return p.writer.Close()
}
