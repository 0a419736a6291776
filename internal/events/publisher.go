package events

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/Profanor/micro-commerce-app/internal/domain"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Publisher emits order events to Kafka after the placing transaction
// has committed. Publishing is best effort: a failed write is logged
// and dropped, never propagated back to the caller, because the order
// is already durable by the time an event is produced.
type Publisher struct {
	writer   *kafka.Writer
	producer string
	log      *zap.Logger
}

func NewPublisher(brokers []string, topic, producer string, log *zap.Logger) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
		},
		producer: producer,
		log:      log,
	}
}

func (p *Publisher) OrderCreated(ctx context.Context, order domain.Order) {
	payload, err := json.Marshal(newOrderCreatedPayload(order))
	if err != nil {
		p.log.Warn("marshal order created payload", zap.Error(err))
		return
	}
	env := Envelope{
		EventType:    EventOrderCreated,
		EventVersion: 1,
		OccurredAt:   time.Now().UTC(),
		Producer:     p.producer,
		Payload:      payload,
	}
	value, err := json.Marshal(env)
	if err != nil {
		p.log.Warn("marshal order created envelope", zap.Error(err))
		return
	}

	msg := kafka.Message{
		// Keyed by order id so events for one order stay in partition order.
		Key:   []byte(strconv.FormatInt(order.ID, 10)),
		Value: value,
		Time:  env.OccurredAt,
		Headers: []kafka.Header{
			{Key: "x-event-type", Value: []byte(EventOrderCreated)},
			{Key: "x-event-version", Value: []byte("1")},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.log.Warn("publish order created",
			zap.Int64("order_id", order.ID),
			zap.Error(err),
		)
	}
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}
