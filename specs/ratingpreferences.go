package specs

// RatingPreferencesSpec names the fields and markers the rating engine reads and writes.
//
// Usage records are schema-flexible: the engine never assumes a fixed record layout and
// instead looks fields up by the names configured here. Preferences are loaded once at
// startup and are read-only afterwards, so concurrent rating needs no locking.
type RatingPreferencesSpec struct {
	// Field holding the measured usage of a flat record.
	//
	// Its presence is what makes a flat record ratable. The value may be a JSON number
	// or a numeric string; anything that does not parse counts as zero usage.
	// Example: "usage".
	UsageField string `json:"usageField"`

	// Field the computed charge is written to.
	//
	// Set on every rated record and on every emitted envelope, overwriting any prior
	// value. Example: "charge".
	ChargeField string `json:"chargeField"`

	// Field holding the usage category.
	//
	// Used three ways: as the rate table key, as the envelope discriminator, and as the
	// routing key when dispatching. Example: "_class".
	CategoryField string `json:"categoryField"`

	// Field holding the usage of items nested inside an envelope.
	//
	// A nested item qualifies for rating only when it carries both the category field
	// and this field. Example: "usage".
	DefaultUsageField string `json:"defaultUsageField"`

	// Category value that marks a record as an envelope of nested usage records.
	//
	// Example: "UDR".
	EnvelopeMarker string `json:"envelopeMarker"`

	// Category value written onto an envelope once it has been rated.
	//
	// Example: "CDR".
	SummaryMarker string `json:"summaryMarker"`

	// Suffix appended to the category of a rated flat record.
	//
	// A category "Foo" becomes "FooCharge" with suffix "Charge". May be empty.
	ChargeSuffix string `json:"chargeSuffix"`

	// Rate applied when a category is missing from the rate table, unparsable, or the
	// record has no category at all.
	//
	// Stored as a decimal string. Examples: "1", "0.05", "1.5".
	DefaultRate string `json:"defaultRate"`
}

// DefaultRatingPreferences returns the preferences of a stock deployment.
func DefaultRatingPreferences() RatingPreferencesSpec {
	return RatingPreferencesSpec{
		UsageField:        "usage",
		ChargeField:       "charge",
		CategoryField:     "_class",
		DefaultUsageField: "usage",
		EnvelopeMarker:    "UDR",
		SummaryMarker:     "CDR",
		ChargeSuffix:      "Charge",
		DefaultRate:       "1",
	}
}
