package kafka

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	skafka "github.com/segmentio/kafka-go"

	"rating-engine/internal"
)

// Writer defines the subset of segmentio kafka.Writer we need. This makes the messenger testable.
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...skafka.Message) error
	Close() error
}

// Messenger writes rated records as JSON array messages. Dispatch calls use the
// routing key as message key so one key always lands on one partition.
type Messenger struct {
	writer         Writer
	dispatchTopic  string
	broadcastTopic string
}

// NewWriter creates a writer without a default topic; every message names its own.
func NewWriter(brokers []string) *skafka.Writer {
	return &skafka.Writer{
		Addr:                   skafka.TCP(brokers...),
		Balancer:               &skafka.Hash{},
		AllowAutoTopicCreation: true,
	}
}

func NewMessenger(writer Writer, dispatchTopic, broadcastTopic string) *Messenger {
	return &Messenger{
		writer:         writer,
		dispatchTopic:  dispatchTopic,
		broadcastTopic: broadcastTopic,
	}
}

func (m *Messenger) Publish(ctx context.Context, records []*internal.Record, routingKey string) error {
	return m.write(ctx, m.dispatchTopic, []byte(routingKey), records)
}

func (m *Messenger) Broadcast(ctx context.Context, records []*internal.Record) error {
	return m.write(ctx, m.broadcastTopic, nil, records)
}

func (m *Messenger) write(ctx context.Context, topic string, key []byte, records []*internal.Record) error {
	body, err := internal.MarshalRecords(records)
	if err != nil {
		return fmt.Errorf("encode records: %w", err)
	}

	msg := skafka.Message{
		Topic: topic,
		Key:   key,
		Value: body,
		Time:  time.Now().UTC(),
		Headers: []skafka.Header{
			{Key: "message-id", Value: []byte(uuid.NewString())},
			{Key: "content-type", Value: []byte("application/json")},
		},
	}
	if err := m.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write to %q: %w", topic, err)
	}
	return nil
}

func (m *Messenger) Close() error {
	return m.writer.Close()
}
