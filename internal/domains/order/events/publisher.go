package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"book-marketplace/internal/domains/order/model"
	"book-marketplace/internal/infrastructure/messaging"
	"book-marketplace/internal/shared"
)

// Publisher announces order lifecycle events to other systems
type Publisher interface {
	PublishOrderCompleted(ctx context.Context, order *model.Order) error
}

// MessageWriter is the subset of messaging.Producer used here
type MessageWriter interface {
	Publish(ctx context.Context, key, value []byte, headers ...kafka.Header) error
}

var _ MessageWriter = (*messaging.Producer)(nil)

// KafkaPublisher writes events keyed by order id, so all events of one order
// stay ordered on one partition
type KafkaPublisher struct {
	writer MessageWriter
	now    func() time.Time
}

func NewKafkaPublisher(writer MessageWriter) *KafkaPublisher {
	return &KafkaPublisher{writer: writer, now: time.Now}
}

func (p *KafkaPublisher) PublishOrderCompleted(ctx context.Context, order *model.Order) error {
	event := model.OrderCompletedEvent{
		EventID:    uuid.NewString(),
		EventType:  shared.EventOrderCompleted,
		OccurredAt: p.now().UTC().Format(time.RFC3339Nano),
		Order:      *order,
	}

	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", shared.EventOrderCompleted, err)
	}

	key := []byte(strconv.FormatInt(order.ID, 10))
	return p.writer.Publish(ctx, key, value,
		kafka.Header{Key: "event_type", Value: []byte(shared.EventOrderCompleted)},
		kafka.Header{Key: "event_id", Value: []byte(event.EventID)},
	)
}

// NoopPublisher is used when no brokers are configured
type NoopPublisher struct{}

func (NoopPublisher) PublishOrderCompleted(context.Context, *model.Order) error { return nil }
