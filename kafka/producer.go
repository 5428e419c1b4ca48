package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"bakery-service/models"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// messageWriter is satisfied by *kafka.Writer.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer publishes order lifecycle events keyed by order id, so every event
// for one order lands on the same partition in order.
type Producer struct {
	writer messageWriter
	topic  string
	logger *zap.Logger
}

func NewProducer(brokers []string, topic string, logger *zap.Logger) *Producer {
	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		WriteTimeout: 5 * time.Second,
	}
	logger.Info("Kafka producer initialized", zap.String("topic", topic), zap.Strings("brokers", brokers))
	return &Producer{writer: w, topic: topic, logger: logger}
}

// newProducerWithWriter lets tests swap the transport.
func newProducerWithWriter(w messageWriter, topic string, logger *zap.Logger) *Producer {
	return &Producer{writer: w, topic: topic, logger: logger}
}

func (p *Producer) PublishOrderPlaced(ctx context.Context, evt models.OrderPlacedEvent) error {
	return p.publish(ctx, evt.OrderID, evt.Event, evt)
}

func (p *Producer) PublishOrderStatusChanged(ctx context.Context, evt models.OrderStatusChangedEvent) error {
	return p.publish(ctx, evt.OrderID, evt.Event, evt)
}

func (p *Producer) publish(ctx context.Context, key, eventType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", eventType, err)
	}
	msg := kafka.Message{
		Key:     []byte(key),
		Value:   data,
		Headers: []kafka.Header{{Key: "event_type", Value: []byte(eventType)}},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish %s to %s: %w", eventType, p.topic, err)
	}
	p.logger.Debug("Event published", zap.String("event", eventType), zap.String("key", key), zap.String("topic", p.topic))
	return nil
}

func (p *Producer) Close() error {
	return p.writer.Close()
}
