package messaging

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
)

// Producer publishes keyed messages to a single topic.
// Messages with the same key land on the same partition (Hash balancer).
type Producer struct {
	w *kafka.Writer
}

func NewProducer(brokers []string, topic string) *Producer {
	return &Producer{
		w: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			BatchTimeout: 50 * time.Millisecond,
			WriteTimeout: 5 * time.Second,
			Async:        true,
			Completion: func(messages []kafka.Message, err error) {
				if err != nil {
					log.Error().Err(err).Int("count", len(messages)).Str("topic", topic).Msg("[KAFKA] write failed")
				}
			},
		},
	}
}

// Publish hands the message to the writer. With Async enabled delivery errors
// are reported through the Completion callback, not here.
func (p *Producer) Publish(ctx context.Context, key, value []byte, headers ...kafka.Header) error {
	err := p.w.WriteMessages(ctx, kafka.Message{
		Key:     key,
		Value:   value,
		Time:    time.Now(),
		Headers: headers,
	})
	if err != nil {
		return fmt.Errorf("kafka publish: %w", err)
	}
	return nil
}

// Close flushes pending messages
func (p *Producer) Close() error {
	return p.w.Close()
}
