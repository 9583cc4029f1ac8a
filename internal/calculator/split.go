package calculator

import (
	"fmt"

	"github.com/mmynk/splitpay/internal/money"
)

// SplitEvenly divides amount into n shares that differ by at most one
// micro-unit and sum to amount exactly. The amount%n leftover micro-units
// go one each to the first shares, so callers decide who absorbs the
// remainder by the order of their participant list.
func SplitEvenly(amount money.Amount, n int) ([]money.Amount, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: must have at least one participant", ErrInvalidInput)
	}
	if amount < 0 {
		return nil, fmt.Errorf("%w: cannot split negative amount %s", ErrInvalidInput, amount)
	}

	base := amount / money.Amount(n)
	remainder := int(amount % money.Amount(n))

	shares := make([]money.Amount, n)
	for i := range shares {
		shares[i] = base
		if i < remainder {
			shares[i]++
		}
	}
	return shares, nil
}
