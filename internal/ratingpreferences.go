package internal

import (
	"fmt"
	specs "rating-engine/specs"
)

type RatingPreferences struct {
	usageField        FieldName
	chargeField       FieldName
	categoryField     FieldName
	defaultUsageField FieldName
	envelopeMarker    CategoryMarker
	summaryMarker     CategoryMarker
	chargeSuffix      ChargeSuffix
	defaultRate       Decimal
}

func NewRatingPreferences(spec specs.RatingPreferencesSpec) (RatingPreferences, error) {
	usageField, err := NewFieldName(spec.UsageField)
	if err != nil {
		return RatingPreferences{}, fmt.Errorf("invalid usage field: %w", err)
	}

	chargeField, err := NewFieldName(spec.ChargeField)
	if err != nil {
		return RatingPreferences{}, fmt.Errorf("invalid charge field: %w", err)
	}

	categoryField, err := NewFieldName(spec.CategoryField)
	if err != nil {
		return RatingPreferences{}, fmt.Errorf("invalid category field: %w", err)
	}

	defaultUsageField, err := NewFieldName(spec.DefaultUsageField)
	if err != nil {
		return RatingPreferences{}, fmt.Errorf("invalid default usage field: %w", err)
	}

	envelopeMarker, err := NewCategoryMarker(spec.EnvelopeMarker)
	if err != nil {
		return RatingPreferences{}, fmt.Errorf("invalid envelope marker: %w", err)
	}

	summaryMarker, err := NewCategoryMarker(spec.SummaryMarker)
	if err != nil {
		return RatingPreferences{}, fmt.Errorf("invalid summary marker: %w", err)
	}

	defaultRate, err := NewFiniteDecimal(spec.DefaultRate)
	if err != nil {
		return RatingPreferences{}, fmt.Errorf("invalid default rate: %w", err)
	}

	if chargeField == usageField {
		return RatingPreferences{}, fmt.Errorf("charge field %q must differ from usage field", chargeField.ToString())
	}
	if chargeField == categoryField {
		return RatingPreferences{}, fmt.Errorf("charge field %q must differ from category field", chargeField.ToString())
	}

	return RatingPreferences{
		usageField:        usageField,
		chargeField:       chargeField,
		categoryField:     categoryField,
		defaultUsageField: defaultUsageField,
		envelopeMarker:    envelopeMarker,
		summaryMarker:     summaryMarker,
		chargeSuffix:      NewChargeSuffix(spec.ChargeSuffix),
		defaultRate:       defaultRate,
	}, nil
}

func (p RatingPreferences) UsageField() FieldName {
	return p.usageField
}

func (p RatingPreferences) ChargeField() FieldName {
	return p.chargeField
}

func (p RatingPreferences) CategoryField() FieldName {
	return p.categoryField
}

func (p RatingPreferences) DefaultUsageField() FieldName {
	return p.defaultUsageField
}

func (p RatingPreferences) EnvelopeMarker() CategoryMarker {
	return p.envelopeMarker
}

func (p RatingPreferences) SummaryMarker() CategoryMarker {
	return p.summaryMarker
}

func (p RatingPreferences) ChargeSuffix() ChargeSuffix {
	return p.chargeSuffix
}

func (p RatingPreferences) DefaultRate() Decimal {
	return p.defaultRate
}

// IsEnvelope reports whether the record's category marks it as an envelope.
func (p RatingPreferences) IsEnvelope(record *Record) bool {
	category, ok := record.GetString(p.categoryField.ToString())
	return ok && category == p.envelopeMarker.ToString()
}

type FieldName struct {
	value string
}

func NewFieldName(value string) (FieldName, error) {
	if value == "" {
		return FieldName{}, fmt.Errorf("field name is required")
	}
	return FieldName{value: value}, nil
}

func (f FieldName) ToString() string {
	return f.value
}

type CategoryMarker struct {
	value string
}

func NewCategoryMarker(value string) (CategoryMarker, error) {
	if value == "" {
		return CategoryMarker{}, fmt.Errorf("marker is required")
	}
	return CategoryMarker{value: value}, nil
}

func (m CategoryMarker) ToString() string {
	return m.value
}

type ChargeSuffix struct {
	value string
}

func NewChargeSuffix(value string) ChargeSuffix {
	return ChargeSuffix{value: value}
}

// Apply appends the suffix to a category value.
func (s ChargeSuffix) Apply(category string) string {
	return category + s.value
}

func (s ChargeSuffix) ToString() string {
	return s.value
}
