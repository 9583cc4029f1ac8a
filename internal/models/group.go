package models

import (
	"fmt"

	"github.com/mmynk/splitpay/internal/money"
)

// GroupStatus is the lifecycle state of a group.
type GroupStatus string

const (
	GroupActive    GroupStatus = "active"
	GroupCompleted GroupStatus = "completed"
	GroupArchived  GroupStatus = "archived"
)

// Valid reports whether s is a known group status.
func (s GroupStatus) Valid() bool {
	switch s {
	case GroupActive, GroupCompleted, GroupArchived:
		return true
	}
	return false
}

// ParseGroupStatus converts a wire value to a GroupStatus.
func ParseGroupStatus(s string) (GroupStatus, error) {
	status := GroupStatus(s)
	if !status.Valid() {
		return "", fmt.Errorf("unknown group status %q", s)
	}
	return status, nil
}

// DivisionEqual is the only division method: every active expense is split
// evenly across all participants.
const DivisionEqual = "equal"

// Group is a reusable participant list that owns expenses and payments.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string

	// Name is the display name of the group (e.g., "Lisbon trip").
	Name string

	Description string
	Category    string

	// Currency is always money.Currency.
	Currency string

	// DivisionMethod is always DivisionEqual.
	DivisionMethod string

	// Participants are normalized wallet addresses in join order. The order
	// matters: it decides who absorbs split remainders.
	Participants []string

	// ParticipantNames maps a normalized address to a custom display name.
	ParticipantNames map[string]string

	Status GroupStatus

	// StartDate and EndDate are Unix timestamps; EndDate is 0 when open-ended.
	StartDate int64
	EndDate   int64

	// CreatedBy is the address of the account that created the group.
	CreatedBy string

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64

	// TotalAmount and ExpenseCount cover active expenses. They are derived
	// by the store when the group is read and ignored on writes.
	TotalAmount  money.Amount
	ExpenseCount int
}

// HasParticipant reports whether the normalized address belongs to the group.
func (g *Group) HasParticipant(address string) bool {
	for _, p := range g.Participants {
		if p == address {
			return true
		}
	}
	return false
}

// DisplayName returns the custom name for address, if any.
func (g *Group) DisplayName(address string) string {
	if g.ParticipantNames == nil {
		return ""
	}
	return g.ParticipantNames[address]
}

// GroupSnapshot is a consistent, read-only view of a group and its records,
// loaded in a single read by the store.
type GroupSnapshot struct {
	Group    Group
	Expenses []Expense
	Payments []Payment
}

// TotalSpent sums the group's active expenses.
func (s *GroupSnapshot) TotalSpent() money.Amount {
	var total money.Amount
	for _, e := range s.Expenses {
		if e.Status == ExpenseActive {
			total += e.Amount
		}
	}
	return total
}
