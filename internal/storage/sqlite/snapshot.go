package sqlite

import (
	"context"
	"fmt"

	"github.com/mmynk/splitpay/internal/models"
)

// Snapshot reads a group with all its expenses and payments inside one
// transaction. Nothing is written; the transaction is always rolled back.
func (s *SQLiteStore) Snapshot(ctx context.Context, groupID string) (*models.GroupSnapshot, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	group, err := getGroup(ctx, tx, groupID)
	if err != nil {
		return nil, err
	}
	expenses, err := listExpenses(ctx, tx, groupID)
	if err != nil {
		return nil, err
	}
	payments, err := listPayments(ctx, tx, groupID)
	if err != nil {
		return nil, err
	}

	snapshot := &models.GroupSnapshot{
		Group:    *group,
		Expenses: make([]models.Expense, 0, len(expenses)),
		Payments: make([]models.Payment, 0, len(payments)),
	}
	for _, e := range expenses {
		snapshot.Expenses = append(snapshot.Expenses, *e)
	}
	for _, p := range payments {
		snapshot.Payments = append(snapshot.Payments, *p)
	}
	return snapshot, nil
}
