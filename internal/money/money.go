// Package money wraps shopspring/decimal with the fixed-point conventions
// used for account balances: exact decimal arithmetic, persisted as strings
// with exactly three fraction digits.
package money

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var ErrMalformedAmount = errors.New("malformed decimal amount")

// StoredScale is the number of fraction digits in the persisted representation.
const StoredScale = 3

// DefaultBalance is the opening balance of a newly created account.
const DefaultBalance = "50.000"

// Amount is an exact decimal monetary value. The zero value is 0.
type Amount struct {
	d decimal.Decimal
}

var Zero = Amount{}

// FromStored parses a decimal string as produced by Stored (or any valid
// decimal literal). Malformed input returns ErrMalformedAmount.
func FromStored(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, fmt.Errorf("%w: %q", ErrMalformedAmount, s)
	}
	return Amount{d: d}, nil
}

func (a Amount) Add(b Amount) Amount {
	return Amount{d: a.d.Add(b.d)}
}

func (a Amount) Sub(b Amount) Amount {
	return Amount{d: a.d.Sub(b.d)}
}

// Cmp returns -1 if a < b, 0 if a == b, +1 if a > b.
func (a Amount) Cmp(b Amount) int {
	return a.d.Cmp(b.d)
}

func (a Amount) IsPositive() bool {
	return a.d.IsPositive()
}

func (a Amount) IsNegative() bool {
	return a.d.IsNegative()
}

func (a Amount) Neg() Amount {
	return Amount{d: a.d.Neg()}
}

// Stored renders the amount in its persisted form: fixed-point with exactly
// three fraction digits.
func (a Amount) Stored() string {
	return a.d.StringFixed(StoredScale)
}

func (a Amount) String() string {
	return a.Stored()
}
