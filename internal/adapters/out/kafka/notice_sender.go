// Package kafka publishes notification requests to a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"notice/internal/core/domain/model/notice"

	"github.com/segmentio/kafka-go"
)

// MessageWriter is the part of *kafka.Writer the sender uses.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// NoticeSender writes each request as one JSON message keyed by order id, so
// all notifications of an order land on the same partition.
type NoticeSender struct {
	writer MessageWriter
	topic  string
	logger *slog.Logger
}

func NewNoticeSender(brokers []string, topic string, logger *slog.Logger) *NoticeSender {
	logger = logger.With("component", "kafka_notice_sender")

	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		BatchTimeout: 50 * time.Millisecond,
		Logger: kafka.LoggerFunc(func(msg string, args ...any) {
			logger.Debug(fmt.Sprintf(msg, args...))
		}),
		ErrorLogger: kafka.LoggerFunc(func(msg string, args ...any) {
			logger.Error(fmt.Sprintf(msg, args...))
		}),
	}

	logger.Info("Kafka notice sender initialized", "brokers", brokers, "topic", topic)
	return NewNoticeSenderWithWriter(writer, topic, logger)
}

// NewNoticeSenderWithWriter uses a caller-supplied writer whose topic is
// already configured; topic is only used for logging.
func NewNoticeSenderWithWriter(writer MessageWriter, topic string, logger *slog.Logger) *NoticeSender {
	return &NoticeSender{
		writer: writer,
		topic:  topic,
		logger: logger,
	}
}

func (s *NoticeSender) Send(ctx context.Context, request notice.Request) error {
	payload, err := json.Marshal(request)
	if err != nil {
		return fmt.Errorf("encode notice request: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(request.OrderID.String()),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event", Value: []byte(request.Event)},
			{Key: "content-type", Value: []byte("application/json")},
		},
	}

	if err = s.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to produce notice to %s: %w", s.topic, err)
	}

	s.logger.DebugContext(ctx, "Produced notice",
		"topic", s.topic,
		"order_id", request.OrderID.String(),
		"event", string(request.Event),
	)
	return nil
}

func (s *NoticeSender) Close() error {
	if err := s.writer.Close(); err != nil {
		return fmt.Errorf("failed to close Kafka writer: %w", err)
	}
	return nil
}
