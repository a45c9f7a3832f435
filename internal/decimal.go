package internal

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/apd/v3"
)

type Decimal struct {
	value apd.Decimal
}

func NewDecimal(s string) (Decimal, error) {
	var d apd.Decimal
	_, _, err := d.SetString(s)
	if err != nil {
		return Decimal{}, fmt.Errorf("invalid decimal: %w", err)
	}
	return Decimal{value: d}, nil
}

// NewFiniteDecimal parses s after trimming surrounding whitespace and rejects
// NaN and infinities, which apd otherwise accepts.
func NewFiniteDecimal(s string) (Decimal, error) {
	d, err := NewDecimal(strings.TrimSpace(s))
	if err != nil {
		return Decimal{}, err
	}
	if d.value.Form != apd.Finite {
		return Decimal{}, fmt.Errorf("invalid decimal: %q is not finite", s)
	}
	return d, nil
}

func NewDecimalFromInt64(i int64) Decimal {
	var d apd.Decimal
	d.SetInt64(i)
	return Decimal{value: d}
}

func NewDecimalFromFloat64(f float64) (Decimal, error) {
	var d apd.Decimal
	if _, err := d.SetFloat64(f); err != nil {
		return Decimal{}, fmt.Errorf("invalid decimal: %w", err)
	}
	return Decimal{value: d}, nil
}

func (d Decimal) String() string {
	return d.value.String()
}

func (d Decimal) IsZero() bool {
	return d.value.IsZero()
}

func (d Decimal) Cmp(other Decimal) int {
	return d.value.Cmp(&other.value)
}

// Float64 is lossy and only meant for assertions and log fields.
func (d Decimal) Float64() float64 {
	f, _ := d.value.Float64()
	return f
}

// Add returns the sum of d and other.
func (d Decimal) Add(other Decimal) Decimal {
	var result apd.Decimal
	ctx := apd.BaseContext.WithPrecision(34)
	ctx.Add(&result, &d.value, &other.value)
	return Decimal{value: result}
}

// Mul returns the product of d and other.
func (d Decimal) Mul(other Decimal) Decimal {
	var result apd.Decimal
	ctx := apd.BaseContext.WithPrecision(34)
	ctx.Mul(&result, &d.value, &other.value)
	return Decimal{value: result}
}
