package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"innkeeper/pkg/config"
	"innkeeper/pkg/logger"
	"innkeeper/pkg/model"
)

const (
	TypeBookingCreated        = "booking.created"
	TypeBookingCancelled      = "booking.cancelled"
	TypeBookingCompleted      = "booking.completed"
	TypeBookingStatusChanged  = "booking.status_changed"
	TypeBookingPaymentUpdated = "booking.payment_updated"
)

// BookingEvent is the wire payload published on every booking lifecycle
// change. Messages are keyed by booking ID so all events for one booking
// land on the same partition, in order.
type BookingEvent struct {
	EventID       string              `json:"eventId"`
	Type          string              `json:"type"`
	BookingID     string              `json:"bookingId"`
	RoomID        string              `json:"roomId"`
	UserID        string              `json:"userId"`
	Status        model.BookingStatus `json:"status"`
	PaymentStatus model.PaymentStatus `json:"paymentStatus"`
	OccurredAt    time.Time           `json:"occurredAt"`
}

// Publisher emits booking lifecycle events. Publishing is best effort:
// callers log failures but never fail the request over them.
type Publisher interface {
	Publish(ctx context.Context, eventType string, booking *model.Booking) error
	Close() error
}

type kafkaPublisher struct {
	writer *kafka.Writer
	logger *logger.Logger
}

// NewPublisher returns a Kafka-backed publisher, or a no-op one when no
// brokers are configured.
func NewPublisher(cfg *config.Config, log *logger.Logger) Publisher {
	if len(cfg.KafkaBrokers) == 0 {
		log.Info("No Kafka brokers configured, booking events disabled")
		return nopPublisher{}
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaBookingTopic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 10 * time.Millisecond,
		Logger:       kafka.LoggerFunc(func(string, ...any) {}),
		ErrorLogger: kafka.LoggerFunc(func(msg string, args ...any) {
			log.Error("Kafka producer error", "message", fmt.Sprintf(msg, args...))
		}),
	}

	log.Info("Booking event publisher initialized",
		"brokers", cfg.KafkaBrokers,
		"topic", cfg.KafkaBookingTopic,
	)

	return &kafkaPublisher{writer: writer, logger: log}
}

func (p *kafkaPublisher) Publish(ctx context.Context, eventType string, booking *model.Booking) error {
	event := BookingEvent{
		EventID:       uuid.NewString(),
		Type:          eventType,
		BookingID:     booking.ID,
		RoomID:        booking.RoomID,
		UserID:        booking.UserID,
		Status:        booking.Status,
		PaymentStatus: booking.PaymentStatus,
		OccurredAt:    time.Now().UTC(),
	}

	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal booking event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(booking.ID),
		Value: value,
		Time:  event.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(eventType)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish booking event: %w", err)
	}

	return nil
}

func (p *kafkaPublisher) Close() error {
	return p.writer.Close()
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, string, *model.Booking) error { return nil }
func (nopPublisher) Close() error                                          { return nil }
