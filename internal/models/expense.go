package models

import (
	"fmt"

	"github.com/mmynk/splitpay/internal/money"
)

// ExpenseStatus is the state of an expense. Only active expenses count
// towards balances.
type ExpenseStatus string

const (
	ExpenseActive    ExpenseStatus = "active"
	ExpenseCancelled ExpenseStatus = "cancelled"
)

// Valid reports whether s is a known expense status.
func (s ExpenseStatus) Valid() bool {
	return s == ExpenseActive || s == ExpenseCancelled
}

// ParseExpenseStatus converts a wire value to an ExpenseStatus.
func ParseExpenseStatus(s string) (ExpenseStatus, error) {
	status := ExpenseStatus(s)
	if !status.Valid() {
		return "", fmt.Errorf("unknown expense status %q", s)
	}
	return status, nil
}

// Expense is an amount one participant paid on behalf of the whole group.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	// GroupID is the group this expense belongs to.
	GroupID string

	// Description is a human-readable label (e.g., "Dinner", "Taxi").
	Description string

	// Amount is the total paid, always positive.
	Amount money.Amount

	// PaidBy is the normalized address of the participant who paid.
	PaidBy string

	Status ExpenseStatus

	// CreatedAt is the Unix timestamp when the expense was recorded.
	CreatedAt int64
}
