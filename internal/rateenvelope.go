package internal

// EnvelopeRater rates the nested usage records of an envelope and rolls their
// charges up onto the envelope itself.
type EnvelopeRater struct {
	preferences RatingPreferences
	items       ItemRater
}

func NewEnvelopeRater(preferences RatingPreferences, items ItemRater) EnvelopeRater {
	return EnvelopeRater{
		preferences: preferences,
		items:       items,
	}
}

// Rate returns the rated envelope, or false when no nested item qualified.
//
// Every list-valued field is scanned. An element qualifies when it is a record
// holding both the category field and the default usage field. It is rated in
// place like a flat record, reading the usage field, but without the category
// suffix, and its charge joins a single running total for the whole envelope.
// A list is rebuilt only when one of its elements
// qualified; all other fields are copied as they are. The envelope then gets the
// total as its charge and the summary marker as its category.
func (r EnvelopeRater) Rate(envelope *Record) (*Record, bool) {
	categoryKey := r.preferences.CategoryField().ToString()
	qualifyField := r.preferences.DefaultUsageField().ToString()
	usageField := r.preferences.UsageField()

	result := NewRecord()
	total := NewDecimalFromInt64(0)
	found := false

	for _, key := range envelope.Keys() {
		value, _ := envelope.Get(key)

		list, isList := value.List()
		if !isList {
			result.Set(key, value)
			continue
		}

		container := make([]Value, 0, len(list))
		updated := false
		for _, element := range list {
			if item, ok := element.Record(); ok && item.Has(categoryKey) && item.Has(qualifyField) {
				total = total.Add(r.items.Rate(item, usageField, false))
				updated = true
			}
			container = append(container, element)
		}

		if updated {
			found = true
			result.Set(key, ListValue(container))
		} else {
			result.Set(key, value)
		}
	}

	if !found {
		return nil, false
	}

	result.Set(r.preferences.ChargeField().ToString(), NumberValue(total))
	result.Set(categoryKey, StringValue(r.preferences.SummaryMarker().ToString()))
	return result, true
}
