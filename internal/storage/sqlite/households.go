package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/homesplit/homesplit/internal/models"
	"github.com/homesplit/homesplit/internal/storage"
)

// CreateHousehold persists a new household along with its initial members.
func (s *SQLiteStore) CreateHousehold(ctx context.Context, h *models.Household) error {
	if h.ID == "" {
		h.ID = uuid.New().String()
	}
	if h.CreatedAt == 0 {
		h.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO households (id, name, created_by, created_at) VALUES (?, ?, ?, ?)",
		h.ID, h.Name, h.CreatedBy, h.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert household: %w", err)
	}

	for _, member := range h.Members {
		_, err = tx.ExecContext(ctx,
			"INSERT OR IGNORE INTO household_members (household_id, user_id) VALUES (?, ?)",
			h.ID, member,
		)
		if err != nil {
			return fmt.Errorf("failed to insert member: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetHousehold retrieves a household by ID, including its member list.
func (s *SQLiteStore) GetHousehold(ctx context.Context, id string) (*models.Household, error) {
	h := &models.Household{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, created_by, created_at FROM households WHERE id = ?", id,
	).Scan(&h.ID, &h.Name, &h.CreatedBy, &h.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("household %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get household: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT user_id FROM household_members WHERE household_id = ? ORDER BY user_id", id)
	if err != nil {
		return nil, fmt.Errorf("failed to get members: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var member string
		if err := rows.Scan(&member); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		h.Members = append(h.Members, member)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate members: %w", err)
	}
	return h, nil
}

// AddHouseholdMembers adds users to a household. Existing memberships are
// left untouched.
func (s *SQLiteStore) AddHouseholdMembers(ctx context.Context, householdID string, memberIDs []string) error {
	if _, err := s.GetHousehold(ctx, householdID); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, member := range memberIDs {
		_, err = tx.ExecContext(ctx,
			"INSERT OR IGNORE INTO household_members (household_id, user_id) VALUES (?, ?)",
			householdID, member,
		)
		if err != nil {
			return fmt.Errorf("failed to add member: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ListHouseholdsByMember retrieves every household the user belongs to.
func (s *SQLiteStore) ListHouseholdsByMember(ctx context.Context, userID string) ([]*models.Household, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT household_id FROM household_members WHERE user_id = ?`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list memberships: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan membership: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate memberships: %w", err)
	}

	households := make([]*models.Household, 0, len(ids))
	for _, id := range ids {
		h, err := s.GetHousehold(ctx, id)
		if err != nil {
			return nil, err
		}
		households = append(households, h)
	}
	return households, nil
}
