package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mmynk/splitpay/internal/models"
	"github.com/mmynk/splitpay/internal/storage"
)

// UpsertAccount inserts the account or refreshes display name and last-seen time.
func (s *SQLiteStore) UpsertAccount(ctx context.Context, account *models.Account) error {
	now := time.Now().Unix()
	if account.CreatedAt == 0 {
		account.CreatedAt = now
	}
	if account.LastSeenAt == 0 {
		account.LastSeenAt = now
	}

	query := `
		INSERT INTO accounts (address, display_name, created_at, last_seen_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (address) DO UPDATE SET
			display_name = CASE WHEN excluded.display_name = '' THEN accounts.display_name ELSE excluded.display_name END,
			last_seen_at = excluded.last_seen_at
	`
	if _, err := s.db.ExecContext(ctx, query,
		account.Address, account.DisplayName, account.CreatedAt, account.LastSeenAt,
	); err != nil {
		return fmt.Errorf("failed to upsert account: %w", err)
	}

	// Reload so the caller sees the stored CreatedAt and display name
	stored, err := s.GetAccount(ctx, account.Address)
	if err != nil {
		return err
	}
	*account = *stored
	return nil
}

// GetAccount retrieves an account by its normalized address.
func (s *SQLiteStore) GetAccount(ctx context.Context, address string) (*models.Account, error) {
	query := `
		SELECT address, display_name, created_at, last_seen_at
		FROM accounts
		WHERE address = ?
	`

	account := &models.Account{}
	err := s.db.QueryRowContext(ctx, query, address).Scan(
		&account.Address,
		&account.DisplayName,
		&account.CreatedAt,
		&account.LastSeenAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("account %s: %w", address, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	return account, nil
}
