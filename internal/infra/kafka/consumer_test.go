package kafka

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	skafka "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeReader hands out queued messages, then blocks until the context ends.
type fakeReader struct {
	mu        sync.Mutex
	queue     []skafka.Message
	failures  int
	committed []int64
	// commit order of offsets, per partition
	order map[int][]int64
}

func (f *fakeReader) FetchMessage(ctx context.Context) (skafka.Message, error) {
	f.mu.Lock()
	if f.failures > 0 {
		f.failures--
		f.mu.Unlock()
		return skafka.Message{}, errors.New("broker unreachable")
	}
	if len(f.queue) > 0 {
		m := f.queue[0]
		f.queue = f.queue[1:]
		f.mu.Unlock()
		return m, nil
	}
	f.mu.Unlock()

	<-ctx.Done()
	return skafka.Message{}, ctx.Err()
}

func (f *fakeReader) CommitMessages(_ context.Context, msgs ...skafka.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.order == nil {
		f.order = map[int][]int64{}
	}
	for _, m := range msgs {
		f.committed = append(f.committed, m.Offset)
		f.order[m.Partition] = append(f.order[m.Partition], m.Offset)
	}
	return nil
}

func (f *fakeReader) Close() error { return nil }

func (f *fakeReader) Committed() []int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	committed := append([]int64(nil), f.committed...)
	sort.Slice(committed, func(i, j int) bool { return committed[i] < committed[j] })
	return committed
}

func TestConsumerRun(t *testing.T) {
	t.Run("every message is handled and committed", func(t *testing.T) {
		// Arrange
		reader := &fakeReader{}
		for i := int64(0); i < 4; i++ {
			reader.queue = append(reader.queue, skafka.Message{Offset: i, Value: []byte(`{"usage":1}`)})
		}
		consumer := NewConsumer(reader, 2, nil)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		var mu sync.Mutex
		handled := 0
		done := make(chan error, 1)

		// Act
		go func() {
			done <- consumer.Run(ctx, func(_ context.Context, payload []byte) {
				mu.Lock()
				handled++
				mu.Unlock()
			})
		}()

		// Assert
		require.Eventually(t, func() bool {
			return len(reader.Committed()) == 4
		}, time.Second, 10*time.Millisecond)
		cancel()
		require.NoError(t, <-done)
		assert.Equal(t, []int64{0, 1, 2, 3}, reader.Committed())
		mu.Lock()
		assert.Equal(t, 4, handled)
		mu.Unlock()
	})

	t.Run("fetch errors are retried after backoff", func(t *testing.T) {
		reader := &fakeReader{
			failures: 2,
			queue:    []skafka.Message{{Offset: 7}},
		}
		consumer := NewConsumer(reader, 1, nil)
		consumer.backoff = time.Millisecond
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		done := make(chan error, 1)
		go func() {
			done <- consumer.Run(ctx, func(context.Context, []byte) {})
		}()

		require.Eventually(t, func() bool {
			return len(reader.Committed()) == 1
		}, time.Second, 10*time.Millisecond)
		cancel()
		require.NoError(t, <-done)
		assert.Equal(t, []int64{7}, reader.Committed())
	})

	t.Run("message in flight finishes and is committed after cancellation", func(t *testing.T) {
		// Arrange
		reader := &fakeReader{queue: []skafka.Message{{Offset: 3, Value: []byte(`{"usage":1}`)}}}
		consumer := NewConsumer(reader, 1, nil)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		handlerErr := make(chan error, 1)

		// Act
		err := consumer.Run(ctx, func(handlerCtx context.Context, _ []byte) {
			cancel()
			handlerErr <- handlerCtx.Err()
		})

		// Assert
		require.NoError(t, err)
		assert.NoError(t, <-handlerErr)
		assert.Equal(t, []int64{3}, reader.Committed())
	})

	t.Run("message fetched after cancellation is neither handled nor committed", func(t *testing.T) {
		reader := &fakeReader{queue: []skafka.Message{{Offset: 5, Value: []byte(`{"usage":1}`)}}}
		consumer := NewConsumer(reader, 1, nil)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		handled := false
		err := consumer.Run(ctx, func(context.Context, []byte) { handled = true })

		require.NoError(t, err)
		assert.False(t, handled)
		assert.Empty(t, reader.Committed())
	})

	t.Run("offsets of a partition are committed in order", func(t *testing.T) {
		// Arrange
		reader := &fakeReader{}
		for offset := int64(0); offset < 20; offset++ {
			reader.queue = append(reader.queue, skafka.Message{Partition: int(offset % 2), Offset: offset})
		}
		consumer := NewConsumer(reader, 3, nil)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		done := make(chan error, 1)

		// Act
		go func() {
			done <- consumer.Run(ctx, func(_ context.Context, _ []byte) {
				time.Sleep(time.Millisecond)
			})
		}()

		// Assert
		require.Eventually(t, func() bool {
			return len(reader.Committed()) == 20
		}, time.Second, 10*time.Millisecond)
		cancel()
		require.NoError(t, <-done)
		reader.mu.Lock()
		defer reader.mu.Unlock()
		assert.Equal(t, []int64{0, 2, 4, 6, 8, 10, 12, 14, 16, 18}, reader.order[0])
		assert.Equal(t, []int64{1, 3, 5, 7, 9, 11, 13, 15, 17, 19}, reader.order[1])
	})

	t.Run("partitions spread across workers", func(t *testing.T) {
		consumer := NewConsumer(&fakeReader{}, 3, nil)

		assert.Equal(t, 0, consumer.workerFor(0))
		assert.Equal(t, 1, consumer.workerFor(4))
		assert.Equal(t, 2, consumer.workerFor(5))
	})
}
