package rabbitmq

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"rating-engine/internal"
)

// Publisher is the subset of *amqp.Channel the messenger needs.
type Publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// Messenger publishes rated records as persistent JSON array messages. Dispatch
// calls go to the dispatch exchange under their routing key, broadcasts to the
// fanout exchange.
type Messenger struct {
	mu                sync.Mutex
	channel           Publisher
	dispatchExchange  string
	broadcastExchange string
}

func NewMessenger(channel Publisher, t Topology) *Messenger {
	return &Messenger{
		channel:           channel,
		dispatchExchange:  t.DispatchExchange,
		broadcastExchange: t.BroadcastExchange,
	}
}

func (m *Messenger) Publish(ctx context.Context, records []*internal.Record, routingKey string) error {
	return m.send(ctx, m.dispatchExchange, routingKey, records)
}

func (m *Messenger) Broadcast(ctx context.Context, records []*internal.Record) error {
	return m.send(ctx, m.broadcastExchange, "", records)
}

func (m *Messenger) send(ctx context.Context, exchange, key string, records []*internal.Record) error {
	body, err := internal.MarshalRecords(records)
	if err != nil {
		return fmt.Errorf("encode records: %w", err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.NewString(),
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	// a channel must not be used for concurrent publishes
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.channel.PublishWithContext(ctx, exchange, key, false, false, msg); err != nil {
		return fmt.Errorf("publish to %q: %w", exchange, err)
	}
	return nil
}
