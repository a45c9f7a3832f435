package rabbitmq

import (
	"context"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Handler processes one delivery body. It has no error result: every delivery
// is acknowledged once handled.
type Handler func(ctx context.Context, payload []byte)

// Consumer fans deliveries out to a fixed number of workers.
type Consumer struct {
	deliveries <-chan amqp.Delivery
	workers    int
	logger     *zap.Logger
}

func NewConsumer(deliveries <-chan amqp.Delivery, workers int, logger *zap.Logger) *Consumer {
	if workers < 1 {
		workers = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Consumer{
		deliveries: deliveries,
		workers:    workers,
		logger:     logger,
	}
}

// Run blocks until ctx is cancelled or the delivery channel closes.
//
// A delivery received after cancellation is requeued unhandled. A delivery
// already being handled runs to completion and is acked: its handler sees a
// context detached from cancellation, so a publish in flight is not cut short.
func (c *Consumer) Run(ctx context.Context, handler Handler) error {
	c.logger.Info("rabbitmq consumer started", zap.Int("workers", c.workers))

	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < c.workers; i++ {
		g.Go(func() error {
			for {
				select {
				case <-ctx.Done():
					return nil
				case d, ok := <-c.deliveries:
					if !ok {
						return nil
					}
					if ctx.Err() != nil {
						if err := d.Nack(false, true); err != nil {
							c.logger.Error("requeue failed",
								zap.Int("worker", i),
								zap.Uint64("delivery_tag", d.DeliveryTag),
								zap.Error(err),
							)
						}
						return nil
					}
					handler(context.WithoutCancel(ctx), d.Body)
					if err := d.Ack(false); err != nil {
						c.logger.Error("ack failed",
							zap.Int("worker", i),
							zap.Uint64("delivery_tag", d.DeliveryTag),
							zap.Error(err),
						)
					}
				}
			}
		})
	}
	return g.Wait()
}
