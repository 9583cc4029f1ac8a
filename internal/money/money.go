// Package money represents USDC amounts as integer micro-units.
//
// All arithmetic inside the service happens on Amount values. Decimal
// strings only appear at the edges (RPC messages, snapshot files, logs),
// where they are converted with shopspring/decimal.
package money

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Decimals is the number of fractional digits of USDC.
const Decimals = 6

// Currency is the only currency groups can use.
const Currency = "USDC"

const (
	// Micro is the smallest representable amount (0.000001 USDC).
	Micro Amount = 1
	// Cent is 0.01 USDC.
	Cent Amount = 10_000
	// One is 1 USDC.
	One Amount = 1_000_000
)

// ErrInvalidAmount is returned when a string cannot be parsed as an amount.
var ErrInvalidAmount = errors.New("invalid amount")

var maxAmount = decimal.New(math.MaxInt64, -Decimals)

// Amount is a signed quantity of USDC micro-units.
type Amount int64

// Parse converts a decimal string such as "12.5" or "0.000001" to an Amount.
// Digits beyond the sixth fractional place are rounded half away from zero.
func Parse(s string) (Amount, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty string", ErrInvalidAmount)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return FromDecimal(d)
}

// MustParse is like Parse but panics on error. Intended for tests and constants.
func MustParse(s string) Amount {
	a, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return a
}

// FromDecimal converts d to an Amount, rounding to micro-units.
func FromDecimal(d decimal.Decimal) (Amount, error) {
	d = d.Round(Decimals)
	if d.Abs().GreaterThan(maxAmount) {
		return 0, fmt.Errorf("%w: %s out of range", ErrInvalidAmount, d.String())
	}
	return Amount(d.Shift(Decimals).IntPart()), nil
}

// Decimal returns a as a decimal number of USDC.
func (a Amount) Decimal() decimal.Decimal {
	return decimal.New(int64(a), -Decimals)
}

// String renders a with the minimum number of fractional digits ("50", "0.5").
func (a Amount) String() string {
	return a.Decimal().String()
}

// Display renders a with exactly two fractional digits, the way amounts are
// shown to people.
func (a Amount) Display() string {
	return a.Decimal().StringFixed(2)
}

// Abs returns the absolute value of a.
func (a Amount) Abs() Amount {
	if a < 0 {
		return -a
	}
	return a
}

// IsPositive reports whether a > 0.
func (a Amount) IsPositive() bool { return a > 0 }

// MarshalText encodes a as a decimal string, so JSON carries "12.5" rather
// than a binary float.
func (a Amount) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText parses a decimal string.
func (a *Amount) UnmarshalText(text []byte) error {
	v, err := Parse(string(text))
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// UnmarshalJSON accepts both JSON strings and JSON numbers.
func (a *Amount) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" {
		return nil
	}
	return a.UnmarshalText([]byte(s))
}

// Sum adds up amounts.
func Sum(amounts ...Amount) Amount {
	var total Amount
	for _, a := range amounts {
		total += a
	}
	return total
}
