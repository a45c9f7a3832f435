package internal

import (
	"sort"
	specs "rating-engine/specs"
)

// RateTable resolves a usage category to its rate. It is built once and only
// read afterwards, so it is safe for concurrent use without locking.
type RateTable struct {
	rates       map[string]Decimal
	invalid     []string
	defaultRate Decimal
}

// NewRateTable parses every configured rate. Entries that do not parse are left
// out of the table, so their category resolves to the default rate; their keys
// are reported by Invalid.
func NewRateTable(spec specs.RateTableSpec, defaultRate Decimal) RateTable {
	rates := make(map[string]Decimal, len(spec))
	var invalid []string
	for category, text := range spec {
		rate, err := NewFiniteDecimal(text)
		if err != nil {
			invalid = append(invalid, category)
			continue
		}
		rates[category] = rate
	}
	sort.Strings(invalid)

	return RateTable{
		rates:       rates,
		invalid:     invalid,
		defaultRate: defaultRate,
	}
}

// Resolve returns the table rate for category, or the default rate when the
// category is absent, empty, or not in the table.
func (t RateTable) Resolve(category string, present bool) Decimal {
	if !present || category == "" {
		return t.defaultRate
	}
	if rate, ok := t.rates[category]; ok {
		return rate
	}
	return t.defaultRate
}

func (t RateTable) DefaultRate() Decimal {
	return t.defaultRate
}

func (t RateTable) Len() int {
	return len(t.rates)
}

// Invalid lists the configured categories whose rate did not parse.
func (t RateTable) Invalid() []string {
	return t.invalid
}
