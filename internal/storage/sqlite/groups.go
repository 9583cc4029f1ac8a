package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/splitpay/internal/models"
	"github.com/mmynk/splitpay/internal/money"
	"github.com/mmynk/splitpay/internal/storage"
)

const groupColumns = `id, name, description, category, currency, division_method, status,
	start_date, end_date, created_by, created_at`

// groupSelect adds the derived totals over active expenses to groupColumns.
const groupSelect = groupColumns + `,
	(SELECT COALESCE(SUM(e.amount), 0) FROM expenses e WHERE e.group_id = groups.id AND e.status = 'active'),
	(SELECT COUNT(*) FROM expenses e WHERE e.group_id = groups.id AND e.status = 'active')`

// CreateGroup persists a new group and its participants in one transaction.
func (s *SQLiteStore) CreateGroup(ctx context.Context, group *models.Group) error {
	// Generate ID if not set
	if group.ID == "" {
		group.ID = uuid.New().String()
	}
	if group.CreatedAt == 0 {
		group.CreatedAt = time.Now().Unix()
	}
	if group.StartDate == 0 {
		group.StartDate = group.CreatedAt
	}
	if group.Currency == "" {
		group.Currency = money.Currency
	}
	if group.DivisionMethod == "" {
		group.DivisionMethod = models.DivisionEqual
	}
	if group.Status == "" {
		group.Status = models.GroupActive
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO groups (`+groupColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		group.ID, group.Name, group.Description, group.Category, group.Currency, group.DivisionMethod,
		string(group.Status), group.StartDate, group.EndDate, group.CreatedBy, group.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert group: %w", err)
	}

	for i, address := range group.Participants {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO group_participants (group_id, address, display_name, position) VALUES (?, ?, ?, ?)",
			group.ID, address, group.DisplayName(address), i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert participant: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func scanGroup(row scanner) (*models.Group, error) {
	group := &models.Group{}
	var status string
	err := row.Scan(&group.ID, &group.Name, &group.Description, &group.Category, &group.Currency,
		&group.DivisionMethod, &status, &group.StartDate, &group.EndDate, &group.CreatedBy, &group.CreatedAt,
		&group.TotalAmount, &group.ExpenseCount)
	if err != nil {
		return nil, err
	}
	group.Status = models.GroupStatus(status)
	return group, nil
}

// getGroup reads a group and its participants through q.
func getGroup(ctx context.Context, q querier, groupID string) (*models.Group, error) {
	group, err := scanGroup(q.QueryRowContext(ctx,
		"SELECT "+groupSelect+" FROM groups WHERE id = ?", groupID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("group %s: %w", groupID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}

	if err := loadParticipants(ctx, q, group); err != nil {
		return nil, err
	}
	return group, nil
}

func loadParticipants(ctx context.Context, q querier, group *models.Group) error {
	rows, err := q.QueryContext(ctx,
		"SELECT address, display_name FROM group_participants WHERE group_id = ? ORDER BY position",
		group.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get participants: %w", err)
	}
	defer rows.Close()

	group.Participants = nil
	group.ParticipantNames = make(map[string]string)
	for rows.Next() {
		var address, name string
		if err := rows.Scan(&address, &name); err != nil {
			return fmt.Errorf("failed to scan participant: %w", err)
		}
		group.Participants = append(group.Participants, address)
		if name != "" {
			group.ParticipantNames[address] = name
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate participants: %w", err)
	}
	return nil
}

// GetGroup retrieves a group by ID, including its participants.
func (s *SQLiteStore) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	return getGroup(ctx, s.db, groupID)
}

// listGroups runs a group query, then loads participants once the rows are closed.
func (s *SQLiteStore) listGroups(ctx context.Context, query string, args ...any) ([]*models.Group, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}

	var groups []*models.Group
	for rows.Next() {
		group, err := scanGroup(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, group)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate groups: %w", err)
	}

	for _, group := range groups {
		if err := loadParticipants(ctx, s.db, group); err != nil {
			return nil, err
		}
	}
	return groups, nil
}

// ListGroups retrieves all groups, newest first.
func (s *SQLiteStore) ListGroups(ctx context.Context) ([]*models.Group, error) {
	return s.listGroups(ctx, "SELECT "+groupSelect+" FROM groups ORDER BY created_at DESC, id")
}

// ListGroupsByParticipant retrieves the groups an address participates in, newest first.
func (s *SQLiteStore) ListGroupsByParticipant(ctx context.Context, address string) ([]*models.Group, error) {
	return s.listGroups(ctx,
		`SELECT `+groupSelect+` FROM groups
		 WHERE id IN (SELECT group_id FROM group_participants WHERE address = ?)
		 ORDER BY created_at DESC, id`,
		address,
	)
}

// UpdateGroup updates descriptive fields and participant display names.
func (s *SQLiteStore) UpdateGroup(ctx context.Context, group *models.Group) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`UPDATE groups SET name = ?, description = ?, category = ?, status = ?, end_date = ? WHERE id = ?`,
		group.Name, group.Description, group.Category, string(group.Status), group.EndDate, group.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update group: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("group %s: %w", group.ID, storage.ErrNotFound)
	}

	for address, name := range group.ParticipantNames {
		if _, err := tx.ExecContext(ctx,
			"UPDATE group_participants SET display_name = ? WHERE group_id = ? AND address = ?",
			name, group.ID, address,
		); err != nil {
			return fmt.Errorf("failed to update participant name: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// DeleteGroup removes a group by ID. Participants, expenses and payments
// are removed by cascade.
func (s *SQLiteStore) DeleteGroup(ctx context.Context, groupID string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM groups WHERE id = ?", groupID)
	if err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("group %s: %w", groupID, storage.ErrNotFound)
	}
	return nil
}

// AddParticipant appends a participant at the end of the join order.
func (s *SQLiteStore) AddParticipant(ctx context.Context, groupID, address, displayName string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx, "SELECT 1 FROM groups WHERE id = ?", groupID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("group %s: %w", groupID, storage.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to check group existence: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO group_participants (group_id, address, display_name, position)
		 VALUES (?, ?, ?, (SELECT COALESCE(MAX(position), -1) + 1 FROM group_participants WHERE group_id = ?))
		 ON CONFLICT (group_id, address) DO UPDATE SET
			display_name = CASE WHEN excluded.display_name = '' THEN group_participants.display_name ELSE excluded.display_name END`,
		groupID, address, displayName, groupID,
	)
	if err != nil {
		return fmt.Errorf("failed to add participant: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
