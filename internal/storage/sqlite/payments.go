package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/splitpay/internal/models"
	"github.com/mmynk/splitpay/internal/storage"
)

const paymentColumns = `id, group_id, from_address, to_address, amount, status, transaction_hash,
	created_at, created_by, completed_at, completed_by, notes`

// CreatePayment persists a new payment.
func (s *SQLiteStore) CreatePayment(ctx context.Context, payment *models.Payment) error {
	if payment.ID == "" {
		payment.ID = uuid.New().String()
	}
	if payment.CreatedAt == 0 {
		payment.CreatedAt = time.Now().Unix()
	}
	if payment.Status == "" {
		payment.Status = models.PaymentPending
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO payments ("+paymentColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		payment.ID, payment.GroupID, payment.From, payment.To, int64(payment.Amount),
		string(payment.Status), nullable(payment.TransactionHash), payment.CreatedAt,
		payment.CreatedBy, payment.CompletedAt, nullable(payment.CompletedBy), nullable(payment.Notes),
	)
	if err != nil {
		return fmt.Errorf("failed to insert payment: %w", err)
	}
	return nil
}

func scanPayment(row scanner) (*models.Payment, error) {
	payment := &models.Payment{}
	var status string
	var txHash, completedBy, notes sql.NullString
	err := row.Scan(&payment.ID, &payment.GroupID, &payment.From, &payment.To, &payment.Amount,
		&status, &txHash, &payment.CreatedAt, &payment.CreatedBy, &payment.CompletedAt,
		&completedBy, &notes)
	if err != nil {
		return nil, err
	}
	payment.Status = models.PaymentStatus(status)
	payment.TransactionHash = txHash.String
	payment.CompletedBy = completedBy.String
	payment.Notes = notes.String
	return payment, nil
}

// GetPayment retrieves a payment by ID.
func (s *SQLiteStore) GetPayment(ctx context.Context, paymentID string) (*models.Payment, error) {
	payment, err := scanPayment(s.db.QueryRowContext(ctx,
		"SELECT "+paymentColumns+" FROM payments WHERE id = ?", paymentID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("payment %s: %w", paymentID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}
	return payment, nil
}

func listPayments(ctx context.Context, q querier, groupID string) ([]*models.Payment, error) {
	rows, err := q.QueryContext(ctx,
		"SELECT "+paymentColumns+" FROM payments WHERE group_id = ? ORDER BY created_at, rowid",
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	var payments []*models.Payment
	for rows.Next() {
		payment, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, payment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payments: %w", err)
	}
	return payments, nil
}

// ListPaymentsByGroup retrieves a group's payments in creation order.
func (s *SQLiteStore) ListPaymentsByGroup(ctx context.Context, groupID string) ([]*models.Payment, error) {
	return listPayments(ctx, s.db, groupID)
}

// UpdatePayment stores the lifecycle fields of a payment. The row is only
// written while it is still pending, so a terminal status is never replaced.
func (s *SQLiteStore) UpdatePayment(ctx context.Context, payment *models.Payment) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE payments
		 SET status = ?, transaction_hash = ?, completed_at = ?, completed_by = ?, notes = ?
		 WHERE id = ? AND status = ?`,
		string(payment.Status), nullable(payment.TransactionHash), payment.CompletedAt,
		nullable(payment.CompletedBy), nullable(payment.Notes), payment.ID,
		string(models.PaymentPending),
	)
	if err != nil {
		return fmt.Errorf("failed to update payment: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected > 0 {
		return nil
	}

	var current string
	err = s.db.QueryRowContext(ctx, "SELECT status FROM payments WHERE id = ?", payment.ID).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("payment %s: %w", payment.ID, storage.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to get payment status: %w", err)
	}
	return fmt.Errorf("payment %s: %w: %s -> %s", payment.ID, models.ErrInvalidTransition, current, payment.Status)
}
