package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/diamondnunstraw/kartcentral/internal/domain"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Publisher receives order lifecycle notifications. Publishing is
// fire-and-forget: a failed publish is logged and never blocks or fails
// the ledger mutation that triggered it.
type Publisher interface {
	OrderCreated(ctx context.Context, order *domain.Order)
	OrderStatusChanged(ctx context.Context, order *domain.Order, event domain.StatusEvent)
}

type NoopPublisher struct{}

func (NoopPublisher) OrderCreated(context.Context, *domain.Order) {}

func (NoopPublisher) OrderStatusChanged(context.Context, *domain.Order, domain.StatusEvent) {}

type KafkaPublisher struct {
	writer *kafka.Writer
	logger *zap.Logger
}

func NewKafkaPublisher(logger *zap.Logger, brokers ...string) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  "order-events",
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return &KafkaPublisher{writer: w, logger: logger}
}

func (p *KafkaPublisher) OrderCreated(ctx context.Context, order *domain.Order) {
	payload := map[string]interface{}{
		"event_type":   "order_created",
		"order_id":     order.ID,
		"items":        order.Items,
		"total_amount": order.TotalAmount,
		"status":       order.Status,
		"created_at":   order.CreatedAt,
	}
	p.publish(ctx, order.ID, payload)
}

func (p *KafkaPublisher) OrderStatusChanged(ctx context.Context, order *domain.Order, event domain.StatusEvent) {
	payload := map[string]interface{}{
		"event_type":  "order_status_changed",
		"order_id":    order.ID,
		"status":      event.Status,
		"description": event.Description,
		"timestamp":   event.Timestamp,
	}
	p.publish(ctx, order.ID, payload)
}

func (p *KafkaPublisher) publish(ctx context.Context, key string, payload map[string]interface{}) {
	value, err := json.Marshal(payload)
	if err != nil {
		p.logger.Error("failed to marshal order event", zap.Error(err))
		return
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: value,
		Time:  time.Now(),
	})
	if err != nil {
		p.logger.Error("failed to publish order event",
			zap.String("order_id", key),
			zap.Error(err))
	}
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
