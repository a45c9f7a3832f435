package internal

// RecordRouter decides how a single record is rated.
type RecordRouter struct {
	preferences RatingPreferences
	items       ItemRater
	envelopes   EnvelopeRater
}

func NewRecordRouter(preferences RatingPreferences, rates RateTable) RecordRouter {
	items := NewItemRater(preferences, rates)
	return RecordRouter{
		preferences: preferences,
		items:       items,
		envelopes:   NewEnvelopeRater(preferences, items),
	}
}

// Route rates record and returns the record to emit, or false when it is not
// ratable.
//
//   - category equals the envelope marker: rated as an envelope
//   - usage field present: rated in place with the category suffix applied
//   - otherwise: excluded
func (r RecordRouter) Route(record *Record) (*Record, bool) {
	if record == nil {
		return nil, false
	}

	if r.preferences.IsEnvelope(record) {
		return r.envelopes.Rate(record)
	}

	if record.Has(r.preferences.UsageField().ToString()) {
		r.items.Rate(record, r.preferences.UsageField(), true)
		return record, true
	}

	return nil, false
}
