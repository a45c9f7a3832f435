package kafka

import (
	"context"
	"errors"
	"time"

	skafka "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Reader defines the subset of segmentio kafka.Reader we need.
type Reader interface {
	FetchMessage(ctx context.Context) (skafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...skafka.Message) error
	Close() error
}

// Handler processes one message value. Every message is committed once handled.
type Handler func(ctx context.Context, payload []byte)

// NewReader joins groupID on topic. groupID lets several rater instances split
// the partitions instead of each rating every message.
func NewReader(brokers []string, topic, groupID string) *skafka.Reader {
	return skafka.NewReader(skafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MinBytes: 1,
		MaxBytes: 10e6, // 10MB
	})
}

// Consumer fetches on one goroutine and rates on a fixed pool of workers.
// Every partition is pinned to one worker, so offsets of a partition are
// handled and committed in the order they were fetched.
type Consumer struct {
	reader  Reader
	workers int
	backoff time.Duration
	logger  *zap.Logger
}

func NewConsumer(reader Reader, workers int, logger *zap.Logger) *Consumer {
	if workers < 1 {
		workers = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Consumer{
		reader:  reader,
		workers: workers,
		backoff: time.Second,
		logger:  logger,
	}
}

// Run blocks until ctx is cancelled.
//
// A message still queued for a worker at cancellation is neither handled nor
// committed, so the group redelivers it. A message already being handled runs
// to completion and is committed: the handler and the commit see a context
// detached from cancellation.
func (c *Consumer) Run(ctx context.Context, handler Handler) error {
	c.logger.Info("kafka consumer started", zap.Int("workers", c.workers))

	g, ctx := errgroup.WithContext(ctx)
	queues := make([]chan skafka.Message, c.workers)
	for i := range queues {
		queues[i] = make(chan skafka.Message)
	}

	g.Go(func() error {
		defer func() {
			for _, queue := range queues {
				close(queue)
			}
		}()
		for {
			m, err := c.reader.FetchMessage(ctx)
			if err != nil {
				if ctx.Err() != nil || errors.Is(err, context.Canceled) {
					return nil
				}
				c.logger.Warn("fetch failed", zap.Error(err))
				select {
				case <-ctx.Done():
					return nil
				case <-time.After(c.backoff):
				}
				continue
			}

			select {
			case queues[c.workerFor(m.Partition)] <- m:
			case <-ctx.Done():
				return nil
			}
		}
	})

	for _, queue := range queues {
		g.Go(func() error {
			for m := range queue {
				if ctx.Err() != nil {
					continue
				}
				detached := context.WithoutCancel(ctx)
				handler(detached, m.Value)
				if err := c.reader.CommitMessages(detached, m); err != nil {
					c.logger.Error("commit failed",
						zap.Int("partition", m.Partition),
						zap.Int64("offset", m.Offset),
						zap.Error(err),
					)
				}
			}
			return nil
		})
	}

	return g.Wait()
}

func (c *Consumer) workerFor(partition int) int {
	if partition < 0 {
		partition = -partition
	}
	return partition % c.workers
}
