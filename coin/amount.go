// Package coin holds the value type custodied by the service: a
// non-negative arbitrary-precision integer amount.
package coin

import (
	"encoding/json"
	"math/big"

	"github.com/custodia-labs/escrowd/errors"
)

// Amount is a non-negative arbitrary-precision integer. The zero value is
// usable and equal to 0.
//
// Amount is persisted and transported as a decimal string so that no
// precision is lost in JSON encoders that use floats for numbers.
type Amount struct {
	value big.Int
}

// NewAmount returns an amount of the given value. Negative input is allowed
// here so that Validate can report it, instead of a silent clamp.
func NewAmount(value int64) *Amount {
	var a Amount
	a.value.SetInt64(value)
	return &a
}

// ParseAmount reads a decimal string representation.
func ParseAmount(s string) (*Amount, error) {
	var a Amount
	if _, ok := a.value.SetString(s, 10); !ok {
		return nil, errors.ErrInput.Newf("amount: %q", s)
	}
	return &a, nil
}

// Validate returns an error on a negative amount. Zero is valid here;
// operations that require a payment must test IsPositive themselves.
func (a *Amount) Validate() error {
	if a == nil {
		return errors.Wrap(errors.ErrEmpty, "amount")
	}
	if a.value.Sign() < 0 {
		return errors.ErrAmount.Newf("negative: %s", a.value.String())
	}
	return nil
}

// IsPositive returns true if the amount is greater than zero.
func (a *Amount) IsPositive() bool {
	return a != nil && a.value.Sign() > 0
}

// IsZero returns true for a nil or zero amount.
func (a *Amount) IsZero() bool {
	return a == nil || a.value.Sign() == 0
}

// Equals compares two amounts by value. A nil amount equals zero.
func (a *Amount) Equals(b *Amount) bool {
	return a.Cmp(b) == 0
}

// Cmp returns -1, 0 or 1 depending on whether a is smaller than, equal to
// or greater than b.
func (a *Amount) Cmp(b *Amount) int {
	var zero big.Int
	av, bv := &zero, &zero
	if a != nil {
		av = &a.value
	}
	if b != nil {
		bv = &b.value
	}
	return av.Cmp(bv)
}

// Add returns the sum of both amounts as a new value.
func (a *Amount) Add(b *Amount) *Amount {
	var sum Amount
	if a != nil {
		sum.value.Set(&a.value)
	}
	if b != nil {
		sum.value.Add(&sum.value, &b.value)
	}
	return &sum
}

// Sub returns a-b as a new value. It fails when the result would be
// negative, which is how an insufficient balance surfaces.
func (a *Amount) Sub(b *Amount) (*Amount, error) {
	var diff Amount
	if a != nil {
		diff.value.Set(&a.value)
	}
	if b != nil {
		diff.value.Sub(&diff.value, &b.value)
	}
	if diff.value.Sign() < 0 {
		return nil, errors.ErrAmount.Newf("insufficient: %s < %s", a, b)
	}
	return &diff, nil
}

// Clone returns an independent copy.
func (a *Amount) Clone() *Amount {
	if a == nil {
		return nil
	}
	var cpy Amount
	cpy.value.Set(&a.value)
	return &cpy
}

// String returns the decimal representation.
func (a *Amount) String() string {
	if a == nil {
		return "0"
	}
	return a.value.String()
}

// MarshalJSON represents the amount as a decimal string.
func (a *Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// UnmarshalJSON accepts both a decimal string and a plain JSON number.
func (a *Amount) UnmarshalJSON(raw []byte) error {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		// Fall back to a bare number, eg. 42.
		s = string(raw)
	}
	if _, ok := a.value.SetString(s, 10); !ok {
		return errors.ErrInput.Newf("amount: %q", s)
	}
	return nil
}
