package infra

import (
	"context"
	"encoding/json"

	"rating-engine/internal"
)

// PayloadReceivedEvent carries one raw inbound document.
type PayloadReceivedEvent struct {
	Payload []byte
}

func (e PayloadReceivedEvent) EventType() EventType {
	return PayloadReceived
}

// PayloadDroppedEvent records that an inbound document produced nothing.
type PayloadDroppedEvent struct {
	Reason internal.DropReason
	Bytes  int
}

func (e PayloadDroppedEvent) EventType() EventType {
	return PayloadDropped
}

// ChargeRecordsPublishedEvent is one dispatch call: records sharing a routing key.
type ChargeRecordsPublishedEvent struct {
	RoutingKey string
	Records    []json.RawMessage
}

func (e ChargeRecordsPublishedEvent) EventType() EventType {
	return ChargeRecordsPublished
}

// ChargeRecordsBroadcastEvent is one broadcast call carrying every rated record.
type ChargeRecordsBroadcastEvent struct {
	Records []json.RawMessage
}

func (e ChargeRecordsBroadcastEvent) EventType() EventType {
	return ChargeRecordsBroadcast
}

// BusMessenger is an in-process internal.Messenger. Records are encoded when
// published so subscribers never share the rater's mutable records.
type BusMessenger struct {
	bus *Bus
}

func NewBusMessenger(bus *Bus) *BusMessenger {
	return &BusMessenger{bus: bus}
}

func (m *BusMessenger) Publish(_ context.Context, records []*internal.Record, routingKey string) error {
	encoded, err := encodeRecords(records)
	if err != nil {
		return err
	}
	m.bus.Publish(ChargeRecordsPublishedEvent{RoutingKey: routingKey, Records: encoded})
	return nil
}

func (m *BusMessenger) Broadcast(_ context.Context, records []*internal.Record) error {
	encoded, err := encodeRecords(records)
	if err != nil {
		return err
	}
	m.bus.Publish(ChargeRecordsBroadcastEvent{Records: encoded})
	return nil
}

func encodeRecords(records []*internal.Record) ([]json.RawMessage, error) {
	encoded := make([]json.RawMessage, len(records))
	for i, record := range records {
		data, err := record.MarshalJSON()
		if err != nil {
			return nil, err
		}
		encoded[i] = data
	}
	return encoded, nil
}

// RatingHandler subscribes a rater to PayloadReceived events and reports drops
// back onto the bus.
type RatingHandler struct {
	bus   *Bus
	rater *internal.Rater
}

func NewRatingHandler(bus *Bus, rater *internal.Rater) *RatingHandler {
	h := &RatingHandler{bus: bus, rater: rater}
	bus.Subscribe(PayloadReceived, h.Handle)
	return h
}

func (h *RatingHandler) Handle(e Event) {
	payload := e.(PayloadReceivedEvent).Payload
	outcome := h.rater.Consume(context.Background(), payload)
	if outcome.Kind == internal.OutcomeDropped {
		h.bus.Publish(PayloadDroppedEvent{Reason: outcome.Reason, Bytes: len(payload)})
	}
}
