package calculator

import "errors"

var (
	// ErrInvalidInput reports a malformed snapshot: no participants, a
	// non-positive amount, or an address outside the participant list.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnbalanced reports balances that do not net to zero. It always
	// points at a defect in the calculation, never at user input.
	ErrUnbalanced = errors.New("balances do not sum to zero")
)
