package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/homesplit/homesplit/internal/models"
	"github.com/homesplit/homesplit/internal/storage"
)

const itemColumns = "id, household_id, name, category, cost, added_by, purchased, split, pinned, added_at, purchased_at"

// CreateItem persists a new shopping item.
func (s *SQLiteStore) CreateItem(ctx context.Context, item *models.ShoppingItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if item.AddedAt == 0 {
		item.AddedAt = time.Now().Unix()
	}

	var purchasedAt any
	if item.PurchasedAt != nil {
		purchasedAt = *item.PurchasedAt
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO shopping_items ("+itemColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		item.ID, item.HouseholdID, item.Name, item.Category, moneyText(item.Cost),
		item.AddedBy, item.Purchased, item.Split, item.Pinned, item.AddedAt, purchasedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert item: %w", err)
	}
	return nil
}

func scanItem(row interface{ Scan(...any) error }) (*models.ShoppingItem, error) {
	item := &models.ShoppingItem{}
	var cost string
	var purchasedAt sql.NullInt64
	err := row.Scan(&item.ID, &item.HouseholdID, &item.Name, &item.Category, &cost,
		&item.AddedBy, &item.Purchased, &item.Split, &item.Pinned, &item.AddedAt, &purchasedAt)
	if err != nil {
		return nil, err
	}
	if item.Cost, err = moneyValue(cost); err != nil {
		return nil, err
	}
	if purchasedAt.Valid {
		item.PurchasedAt = &purchasedAt.Int64
	}
	return item, nil
}

// GetItem retrieves a shopping item by ID.
func (s *SQLiteStore) GetItem(ctx context.Context, id string) (*models.ShoppingItem, error) {
	item, err := scanItem(s.db.QueryRowContext(ctx,
		"SELECT "+itemColumns+" FROM shopping_items WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("item %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	return item, nil
}

func (s *SQLiteStore) queryItems(ctx context.Context, query string, args ...any) ([]*models.ShoppingItem, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer rows.Close()

	var items []*models.ShoppingItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate items: %w", err)
	}
	return items, nil
}

// ListItems retrieves a household's shopping list, pinned items first,
// newest first within each group.
func (s *SQLiteStore) ListItems(ctx context.Context, householdID string) ([]*models.ShoppingItem, error) {
	return s.queryItems(ctx,
		"SELECT "+itemColumns+" FROM shopping_items WHERE household_id = ? ORDER BY pinned DESC, added_at DESC",
		householdID)
}

// ListSplitCandidates retrieves items eligible for splitting: purchased and
// never split before.
func (s *SQLiteStore) ListSplitCandidates(ctx context.Context, householdID string) ([]*models.ShoppingItem, error) {
	return s.queryItems(ctx,
		"SELECT "+itemColumns+" FROM shopping_items WHERE household_id = ? AND purchased = 1 AND split = 0 ORDER BY purchased_at DESC",
		householdID)
}

// MarkItemPurchased records an item's purchase, setting its cost and
// purchase time.
func (s *SQLiteStore) MarkItemPurchased(ctx context.Context, id string, cost decimal.Decimal, purchasedAt int64) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE shopping_items SET purchased = 1, cost = ?, purchased_at = ? WHERE id = ?",
		moneyText(cost), purchasedAt, id,
	)
	if err != nil {
		return fmt.Errorf("failed to mark item purchased: %w", err)
	}
	return requireRow(res, id)
}

// MarkItemsSplit flags items as split. Already-split items are unaffected,
// so re-running after a partial failure is safe.
func (s *SQLiteStore) MarkItemsSplit(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(ids)), ", ")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	_, err := s.db.ExecContext(ctx,
		"UPDATE shopping_items SET split = 1 WHERE id IN ("+placeholders+")", args...)
	if err != nil {
		return fmt.Errorf("failed to mark items split: %w", err)
	}
	return nil
}

// SetItemPinned pins or unpins an item.
func (s *SQLiteStore) SetItemPinned(ctx context.Context, id string, pinned bool) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE shopping_items SET pinned = ? WHERE id = ?", pinned, id)
	if err != nil {
		return fmt.Errorf("failed to set pinned: %w", err)
	}
	return requireRow(res, id)
}

// requireRow converts a zero-row update into ErrNotFound.
func requireRow(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("item %s: %w", id, storage.ErrNotFound)
	}
	return nil
}
