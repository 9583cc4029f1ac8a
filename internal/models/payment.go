package models

import (
	"errors"
	"fmt"

	"github.com/mmynk/splitpay/internal/money"
)

// ErrInvalidTransition is returned when a payment is moved to a status its
// current status does not allow.
var ErrInvalidTransition = errors.New("invalid payment status transition")

// PaymentStatus is the lifecycle state of a payment. Only completed
// payments count towards balances.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentDisputed  PaymentStatus = "disputed"
	PaymentCancelled PaymentStatus = "cancelled"
)

// Valid reports whether s is a known payment status.
func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentCompleted, PaymentDisputed, PaymentCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transition is possible from s.
func (s PaymentStatus) Terminal() bool {
	return s != PaymentPending
}

// ParsePaymentStatus converts a wire value to a PaymentStatus.
func ParsePaymentStatus(s string) (PaymentStatus, error) {
	status := PaymentStatus(s)
	if !status.Valid() {
		return "", fmt.Errorf("unknown payment status %q", s)
	}
	return status, nil
}

// CanTransition reports whether a payment may move from one status to another.
// A payment starts pending and moves exactly once, to a terminal status.
func CanTransition(from, to PaymentStatus) bool {
	return from == PaymentPending && to.Valid() && to != PaymentPending
}

// Payment is a transfer between two participants of a group.
type Payment struct {
	// ID is the unique identifier for the payment (UUID format).
	ID string

	// GroupID is the group this payment belongs to.
	GroupID string

	// From is the normalized address of the participant paying (the debtor).
	From string

	// To is the normalized address of the participant being paid (the creditor).
	To string

	// Amount is the payment amount, always positive.
	Amount money.Amount

	Status PaymentStatus

	// TransactionHash proves an on-chain transfer. Empty for pending payments
	// and for forgiven debts.
	TransactionHash string

	// CreatedAt is the Unix timestamp when the payment was recorded.
	CreatedAt int64

	// CreatedBy is the address that recorded the payment.
	CreatedBy string

	// CompletedAt and CompletedBy are set when the payment leaves pending.
	CompletedAt int64
	CompletedBy string

	// Notes is an optional free-text note (dispute reason, forgiveness reason).
	Notes string
}

// Transition moves p to status, stamping who did it and when.
func (p *Payment) Transition(to PaymentStatus, by string, at int64) error {
	if !CanTransition(p.Status, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, p.Status, to)
	}
	p.Status = to
	p.CompletedAt = at
	p.CompletedBy = by
	return nil
}
