// Package events publishes order lifecycle notifications for downstream
// consumers (fulfilment, analytics). Publishing is best-effort: a broker
// outage never fails the order that triggered it.
package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"

	"github.com/acplabs/merchant-core/internal/ledger"
)

const orderPlacedTopic = "orders.placed"

type Publisher interface {
	OrderPlaced(ctx context.Context, order ledger.Order) error
	Close() error
}

// Nop drops all events; used when no broker is configured.
type Nop struct{}

func (Nop) OrderPlaced(context.Context, ledger.Order) error { return nil }
func (Nop) Close() error                                    { return nil }

// Kafka publishes order events to a kafka topic, keyed by order id so all
// events for one order land on the same partition.
type Kafka struct {
	writer *kafka.Writer
}

func NewKafka(brokers ...string) *Kafka {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  orderPlacedTopic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return &Kafka{writer: w}
}

func (k *Kafka) OrderPlaced(ctx context.Context, order ledger.Order) error {
	payload, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("marshal order event: %w", err)
	}
	return k.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(order.ID),
		Value: payload,
	})
}

func (k *Kafka) Close() error {
	return k.writer.Close()
}
