package kafka

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/Domenick1991/sejour/internal/domain"
	"github.com/segmentio/kafka-go"
)

type messageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

type Consumer struct {
	reader messageReader
}

func NewConsumer(brokers []string, groupID, topic string) *Consumer {
	return &Consumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:           brokers,
			GroupID:           groupID,
			Topic:             topic,
			HeartbeatInterval: 3 * time.Second,
			SessionTimeout:    30 * time.Second,
		}),
	}
}

func (c *Consumer) Close() error {
	if c == nil || c.reader == nil {
		return nil
	}
	return c.reader.Close()
}

// Consume decodes each message into a domain.Event and hands it to handler
// until ctx ends or reading fails. Undecodable messages are logged and
// skipped; a handler error stops consumption.
func (c *Consumer) Consume(ctx context.Context, handler func(context.Context, domain.Event) error) error {
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			return err
		}

		var ev domain.Event
		if err := json.Unmarshal(msg.Value, &ev); err != nil {
			log.Printf("kafka: skip malformed message at offset %d: %v", msg.Offset, err)
			continue
		}

		if err := handler(ctx, ev); err != nil {
			return err
		}
	}
}
