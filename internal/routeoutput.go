package internal

import (
	"context"

	"go.uber.org/zap"
)

// Messenger is the outbound transport. Both calls are fire-and-forget from the
// engine's point of view: a returned error is logged, never retried.
type Messenger interface {
	Publish(ctx context.Context, records []*Record, routingKey string) error
	Broadcast(ctx context.Context, records []*Record) error
}

// DispatchBatch is the group of records sent with one routing key.
type DispatchBatch struct {
	RoutingKey string
	Records    []*Record
}

// GroupByRoutingKey partitions records by the string value of categoryField,
// using defaultKey when the value is missing, empty, or not a string. Batches
// come out in the order their key was first seen and keep record order.
func GroupByRoutingKey(records []*Record, categoryField FieldName, defaultKey RoutingKey) []DispatchBatch {
	batches := make([]DispatchBatch, 0)
	index := make(map[string]int)

	for _, record := range records {
		key, ok := record.GetString(categoryField.ToString())
		if !ok || key == "" {
			key = defaultKey.ToString()
		}

		i, seen := index[key]
		if !seen {
			i = len(batches)
			index[key] = i
			batches = append(batches, DispatchBatch{RoutingKey: key})
		}
		batches[i].Records = append(batches[i].Records, record)
	}

	return batches
}

// OutputRouter hands rated records to the Messenger, partitioned or broadcast
// according to the publisher credentials.
type OutputRouter struct {
	credentials   PublisherCredentials
	categoryField FieldName
	messenger     Messenger
	logger        *zap.Logger
}

func NewOutputRouter(credentials PublisherCredentials, categoryField FieldName, messenger Messenger, logger *zap.Logger) OutputRouter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return OutputRouter{
		credentials:   credentials,
		categoryField: categoryField,
		messenger:     messenger,
		logger:        logger,
	}
}

// Route issues one Publish per routing key in dispatch mode, or a single
// Broadcast otherwise, and returns the number of calls made.
func (o OutputRouter) Route(ctx context.Context, records []*Record) int {
	if len(records) == 0 {
		return 0
	}

	if !o.credentials.DispatchInsteadOfBroadcast() {
		if err := o.messenger.Broadcast(ctx, records); err != nil {
			o.logger.Error("broadcast failed", zap.Int("records", len(records)), zap.Error(err))
		}
		return 1
	}

	batches := GroupByRoutingKey(records, o.categoryField, o.credentials.DefaultRoutingKey())
	for _, batch := range batches {
		if err := o.messenger.Publish(ctx, batch.Records, batch.RoutingKey); err != nil {
			o.logger.Error("publish failed",
				zap.String("routing_key", batch.RoutingKey),
				zap.Int("records", len(batch.Records)),
				zap.Error(err),
			)
		}
	}
	return len(batches)
}
