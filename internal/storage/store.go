// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/splitpay/internal/models"
)

// ErrNotFound is returned (wrapped) when a record does not exist.
var ErrNotFound = errors.New("not found")

// Store defines the interface for SplitPay storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
//
// All addresses passed in must already be normalized.
type Store interface {
	// UpsertAccount creates the account or refreshes its display name and
	// LastSeenAt. CreatedAt is preserved for existing accounts.
	UpsertAccount(ctx context.Context, account *models.Account) error

	// GetAccount retrieves an account by address.
	GetAccount(ctx context.Context, address string) (*models.Account, error)

	// CreateGroup persists a new group with its participants.
	// The group.ID and group.CreatedAt fields are populated when empty.
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetGroup retrieves a group with participants in join order.
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)

	// ListGroups retrieves all groups, newest first.
	ListGroups(ctx context.Context) ([]*models.Group, error)

	// ListGroupsByParticipant retrieves the groups address belongs to, newest first.
	ListGroupsByParticipant(ctx context.Context, address string) ([]*models.Group, error)

	// UpdateGroup updates the group's descriptive fields, status, end date
	// and participant display names. Participants themselves are only added
	// through AddParticipant.
	UpdateGroup(ctx context.Context, group *models.Group) error

	// DeleteGroup removes a group and everything it owns.
	DeleteGroup(ctx context.Context, groupID string) error

	// AddParticipant appends address to the group. Adding an existing
	// participant only updates a non-empty display name.
	AddParticipant(ctx context.Context, groupID, address, displayName string) error

	// CreateExpense persists a new expense.
	CreateExpense(ctx context.Context, expense *models.Expense) error

	// GetExpense retrieves an expense by ID.
	GetExpense(ctx context.Context, expenseID string) (*models.Expense, error)

	// ListExpensesByGroup retrieves a group's expenses in creation order.
	ListExpensesByGroup(ctx context.Context, groupID string) ([]*models.Expense, error)

	// SetExpenseStatus changes the status of an expense.
	SetExpenseStatus(ctx context.Context, expenseID string, status models.ExpenseStatus) error

	// CreatePayment persists a new payment.
	CreatePayment(ctx context.Context, payment *models.Payment) error

	// GetPayment retrieves a payment by ID.
	GetPayment(ctx context.Context, paymentID string) (*models.Payment, error)

	// ListPaymentsByGroup retrieves a group's payments in creation order.
	ListPaymentsByGroup(ctx context.Context, groupID string) ([]*models.Payment, error)

	// UpdatePayment stores the lifecycle fields of a payment: status,
	// transaction hash, completion stamp and notes. Only a pending payment
	// can be updated; any other stored status yields models.ErrInvalidTransition.
	UpdatePayment(ctx context.Context, payment *models.Payment) error

	// Snapshot reads a group with all its expenses and payments in a single
	// transaction, so balance calculations see a consistent view.
	Snapshot(ctx context.Context, groupID string) (*models.GroupSnapshot, error)

	// Close releases any resources held by the store.
	Close() error
}
