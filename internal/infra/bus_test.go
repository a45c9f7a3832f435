package infra

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEventTypeEnum(t *testing.T) {
	t.Run("EventType.String() returns correct values", func(t *testing.T) {
		// Arrange & Act & Assert
		assert.Equal(t, "PayloadReceived", PayloadReceived.String())
		assert.Equal(t, "PayloadDropped", PayloadDropped.String())
		assert.Equal(t, "ChargeRecordsPublished", ChargeRecordsPublished.String())
		assert.Equal(t, "ChargeRecordsBroadcast", ChargeRecordsBroadcast.String())
		assert.Equal(t, "Unknown", EventType(999).String())
	})
}

func TestBusWithEnumEventTypes(t *testing.T) {
	t.Run("can subscribe to and publish events using enum types", func(t *testing.T) {
		// Arrange
		bus := NewBus()
		var receivedEvents []Event

		handler := func(e Event) {
			receivedEvents = append(receivedEvents, e)
		}

		bus.Subscribe(PayloadReceived, handler)
		bus.Subscribe(PayloadDropped, handler)

		// Act
		bus.Publish(PayloadReceivedEvent{Payload: []byte(`{}`)})
		bus.Publish(PayloadDroppedEvent{Bytes: 2})

		// Assert
		assert.Len(t, receivedEvents, 2)
		assert.Equal(t, PayloadReceived, receivedEvents[0].EventType())
		assert.Equal(t, PayloadDropped, receivedEvents[1].EventType())
	})

	t.Run("handlers only receive events they subscribed to", func(t *testing.T) {
		// Arrange
		bus := NewBus()
		var publishedEvents []Event
		var broadcastEvents []Event

		bus.Subscribe(ChargeRecordsPublished, func(e Event) {
			publishedEvents = append(publishedEvents, e)
		})
		bus.Subscribe(ChargeRecordsBroadcast, func(e Event) {
			broadcastEvents = append(broadcastEvents, e)
		})

		// Act
		bus.Publish(ChargeRecordsPublishedEvent{RoutingKey: "VoiceCharge"})
		bus.Publish(ChargeRecordsBroadcastEvent{})

		// Assert
		assert.Len(t, publishedEvents, 1)
		assert.Len(t, broadcastEvents, 1)
		assert.Equal(t, "VoiceCharge", publishedEvents[0].(ChargeRecordsPublishedEvent).RoutingKey)
	})

	t.Run("events without subscribers are discarded", func(t *testing.T) {
		bus := NewBus()

		assert.NotPanics(t, func() {
			bus.Publish(PayloadDroppedEvent{})
		})
	})

	t.Run("concurrent publishers reach every handler", func(t *testing.T) {
		// Arrange
		bus := NewBus()
		var mu sync.Mutex
		count := 0
		bus.Subscribe(PayloadReceived, func(Event) {
			mu.Lock()
			count++
			mu.Unlock()
		})

		// Act
		var wg sync.WaitGroup
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				bus.Publish(PayloadReceivedEvent{})
			}()
		}
		wg.Wait()

		// Assert
		assert.Equal(t, 20, count)
	})
}
