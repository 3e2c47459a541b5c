package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

const (
	TopicProductEvents = "product_events"
	TopicCartEvents    = "cart_events"
	TopicUserEvents    = "user_events"
)

// Producer publishes domain events. Handlers treat publish failures as
// non-fatal: the write already committed, the event is best effort.
type Producer interface {
	PublishEvent(ctx context.Context, topic, key string, event any) error
	Close() error
}

type KafkaProducer struct {
	writer *kafka.Writer
}

func NewKafkaProducer(address string) *KafkaProducer {
	return &KafkaProducer{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(address),
			Balancer:               &kafka.Hash{},
			AllowAutoTopicCreation: true,
			WriteTimeout:           5 * time.Second,
		},
	}
}

func (p *KafkaProducer) PublishEvent(ctx context.Context, topic, key string, event any) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("kafka: marshal event: %w", err)
	}

	msg := kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: data,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka: write message: %w", err)
	}
	return nil
}

func (p *KafkaProducer) Close() error {
	return p.writer.Close()
}

// Nop is used when KAFKA_ADDRESS is not configured, and in tests.
type Nop struct{}

func (Nop) PublishEvent(ctx context.Context, topic, key string, event any) error { return nil }
func (Nop) Close() error                                                         { return nil }
