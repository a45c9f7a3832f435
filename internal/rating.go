package internal

import (
	"context"
	"encoding/json"
	"fmt"
	specs "rating-engine/specs"

	"go.uber.org/zap"
)

// Rate implements specs.Rate.
// Converts specs to domain objects, rates, and converts back to specs.
func Rate(payload []byte, preferencesSpec specs.RatingPreferencesSpec, ratesSpec specs.RateTableSpec) ([]json.RawMessage, error) {
	preferences, err := NewRatingPreferences(preferencesSpec)
	if err != nil {
		return nil, fmt.Errorf("invalid preferences: %w", err)
	}

	rates := NewRateTable(ratesSpec, preferences.DefaultRate())
	classifier := NewPayloadClassifier(NewRecordRouter(preferences, rates))
	records, _ := classifier.Classify(payload)

	rated := make([]json.RawMessage, 0, len(records))
	for i, record := range records {
		data, err := record.MarshalJSON()
		if err != nil {
			return nil, fmt.Errorf("failed to encode rated record %d: %w", i, err)
		}
		rated = append(rated, data)
	}

	return rated, nil
}

// Dispatch implements specs.Dispatch.
func Dispatch(recordSpecs []json.RawMessage, credentialsSpec specs.PublisherCredentialsSpec, categoryField string) ([]specs.DispatchBatchSpec, error) {
	credentials, err := NewPublisherCredentials(credentialsSpec)
	if err != nil {
		return nil, fmt.Errorf("invalid credentials: %w", err)
	}

	field, err := NewFieldName(categoryField)
	if err != nil {
		return nil, fmt.Errorf("invalid category field: %w", err)
	}

	records := make([]*Record, len(recordSpecs))
	for i, data := range recordSpecs {
		record, err := ParseRecord(data)
		if err != nil {
			return nil, fmt.Errorf("invalid record at index %d: %w", i, err)
		}
		records[i] = record
	}

	if len(records) == 0 {
		return []specs.DispatchBatchSpec{}, nil
	}

	var batches []DispatchBatch
	if credentials.DispatchInsteadOfBroadcast() {
		batches = GroupByRoutingKey(records, field, credentials.DefaultRoutingKey())
	} else {
		batches = []DispatchBatch{{Records: records}}
	}

	batchSpecs := make([]specs.DispatchBatchSpec, len(batches))
	for i, batch := range batches {
		encoded := make([]json.RawMessage, len(batch.Records))
		for j, record := range batch.Records {
			data, err := record.MarshalJSON()
			if err != nil {
				return nil, fmt.Errorf("failed to encode record %d of batch %q: %w", j, batch.RoutingKey, err)
			}
			encoded[j] = data
		}
		batchSpecs[i] = specs.DispatchBatchSpec{
			RoutingKey: batch.RoutingKey,
			Records:    encoded,
		}
	}

	return batchSpecs, nil
}

// OutcomeKind is the terminal state of one inbound message.
type OutcomeKind int

const (
	OutcomeDropped OutcomeKind = iota
	OutcomeBroadcast
	OutcomeDispatched
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeDropped:
		return "dropped"
	case OutcomeBroadcast:
		return "broadcast"
	case OutcomeDispatched:
		return "dispatched"
	default:
		return "unknown"
	}
}

// Outcome reports what happened to one inbound message.
type Outcome struct {
	Kind    OutcomeKind
	Reason  DropReason
	Records int
	Calls   int
}

// Rater runs the whole pipeline for one inbound message at a time. It holds no
// mutable state, so Consume may be called from many goroutines at once.
type Rater struct {
	classifier PayloadClassifier
	output     OutputRouter
	dispatch   bool
	logger     *zap.Logger
}

type RaterOption func(*Rater)

func WithLogger(logger *zap.Logger) RaterOption {
	return func(r *Rater) {
		r.logger = logger
	}
}

func NewRater(
	preferences RatingPreferences,
	rates RateTable,
	credentials PublisherCredentials,
	messenger Messenger,
	opts ...RaterOption,
) *Rater {
	r := &Rater{
		classifier: NewPayloadClassifier(NewRecordRouter(preferences, rates)),
		dispatch:   credentials.DispatchInsteadOfBroadcast(),
		logger:     zap.NewNop(),
	}

	for _, opt := range opts {
		opt(r)
	}

	r.output = NewOutputRouter(credentials, preferences.CategoryField(), messenger, r.logger)
	return r
}

// Consume rates one raw payload and hands the result to the messenger. Malformed
// or unratable payloads are dropped; nothing is returned as an error.
func (r *Rater) Consume(ctx context.Context, payload []byte) Outcome {
	records, reason := r.classifier.Classify(payload)
	if reason != NotDropped {
		r.logger.Debug("payload dropped",
			zap.Stringer("reason", reason),
			zap.Int("bytes", len(payload)),
		)
		return Outcome{Kind: OutcomeDropped, Reason: reason}
	}

	calls := r.output.Route(ctx, records)

	kind := OutcomeBroadcast
	if r.dispatch {
		kind = OutcomeDispatched
	}
	return Outcome{
		Kind:    kind,
		Records: len(records),
		Calls:   calls,
	}
}
