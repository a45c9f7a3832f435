package internal

// NormalizeUsage coerces a usage value to a number and never fails.
//
// Numbers are used as they are. Strings are parsed after trimming whitespace;
// a string that is not a finite decimal counts as zero. Missing values and
// every other kind count as zero.
func NormalizeUsage(value Value, present bool) Decimal {
	if !present {
		return NewDecimalFromInt64(0)
	}

	switch value.Kind() {
	case KindNumber:
		usage, _ := value.Number()
		return usage
	case KindString:
		text, _ := value.Str()
		usage, err := NewFiniteDecimal(text)
		if err != nil {
			return NewDecimalFromInt64(0)
		}
		return usage
	default:
		return NewDecimalFromInt64(0)
	}
}

// ItemRater computes and attaches the charge of a single usage record.
type ItemRater struct {
	preferences RatingPreferences
	rates       RateTable
}

func NewItemRater(preferences RatingPreferences, rates RateTable) ItemRater {
	return ItemRater{
		preferences: preferences,
		rates:       rates,
	}
}

// Rate sets record[charge] = usage × rate and returns the charge.
//
// Usage is read from usageField. The rate is looked up by the record's category
// when it is a string, otherwise the default rate applies. With suffix set and a
// category present, the category is rewritten with the charge suffix appended.
func (r ItemRater) Rate(record *Record, usageField FieldName, suffix bool) Decimal {
	usageValue, hasUsage := record.Get(usageField.ToString())
	usage := NormalizeUsage(usageValue, hasUsage)

	categoryKey := r.preferences.CategoryField().ToString()
	categoryValue, hasCategory := record.Get(categoryKey)
	category, isString := categoryValue.Str()
	rate := r.rates.Resolve(category, hasCategory && isString)

	charge := usage.Mul(rate)
	record.Set(r.preferences.ChargeField().ToString(), NumberValue(charge))

	if suffix && hasCategory {
		record.Set(categoryKey, StringValue(r.preferences.ChargeSuffix().Apply(categoryValue.Text())))
	}

	return charge
}
