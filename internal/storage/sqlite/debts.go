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

const debtColumns = "id, household_id, owed_by, owed_to, amount, repayment_amount, status, created_at, last_updated"

// CreateDebtRecord persists a new debt record along with its item breakdown.
func (s *SQLiteStore) CreateDebtRecord(ctx context.Context, rec *models.DebtRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	if rec.CreatedAt == 0 {
		rec.CreatedAt = now
	}
	if rec.LastUpdated == 0 {
		rec.LastUpdated = rec.CreatedAt
	}
	if rec.Status == "" {
		rec.Status = models.DebtActive
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO debt_records ("+debtColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		rec.ID, rec.HouseholdID, rec.OwedBy, rec.OwedTo,
		moneyText(rec.Amount), moneyText(rec.RepaymentAmount), string(rec.Status),
		rec.CreatedAt, rec.LastUpdated,
	)
	if err != nil {
		return fmt.Errorf("failed to insert debt record: %w", err)
	}

	for i, item := range rec.Items {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO debt_record_items (debt_record_id, position, name, cost) VALUES (?, ?, ?, ?)",
			rec.ID, i, item.Name, moneyText(item.Cost),
		)
		if err != nil {
			return fmt.Errorf("failed to insert debt item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func scanDebt(row interface{ Scan(...any) error }) (*models.DebtRecord, error) {
	rec := &models.DebtRecord{}
	var amount, repaid, status string
	err := row.Scan(&rec.ID, &rec.HouseholdID, &rec.OwedBy, &rec.OwedTo,
		&amount, &repaid, &status, &rec.CreatedAt, &rec.LastUpdated)
	if err != nil {
		return nil, err
	}
	if rec.Amount, err = moneyValue(amount); err != nil {
		return nil, err
	}
	if rec.RepaymentAmount, err = moneyValue(repaid); err != nil {
		return nil, err
	}
	rec.Status = models.DebtStatus(status)
	return rec, nil
}

// GetDebtRecord retrieves one debt record with its items and repayment
// history.
func (s *SQLiteStore) GetDebtRecord(ctx context.Context, id string) (*models.DebtRecord, error) {
	rec, err := scanDebt(s.db.QueryRowContext(ctx,
		"SELECT "+debtColumns+" FROM debt_records WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("debt record %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get debt record: %w", err)
	}
	if err := s.attachDetails(ctx, []*models.DebtRecord{rec}); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *SQLiteStore) queryDebts(ctx context.Context, query string, args ...any) ([]*models.DebtRecord, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query debt records: %w", err)
	}
	defer rows.Close()

	var recs []*models.DebtRecord
	for rows.Next() {
		rec, err := scanDebt(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan debt record: %w", err)
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate debt records: %w", err)
	}
	if err := s.attachDetails(ctx, recs); err != nil {
		return nil, err
	}
	return recs, nil
}

// attachDetails loads item breakdowns and repayment histories for each record.
func (s *SQLiteStore) attachDetails(ctx context.Context, recs []*models.DebtRecord) error {
	for _, rec := range recs {
		itemRows, err := s.db.QueryContext(ctx,
			"SELECT name, cost FROM debt_record_items WHERE debt_record_id = ? ORDER BY position", rec.ID)
		if err != nil {
			return fmt.Errorf("failed to get debt items: %w", err)
		}
		for itemRows.Next() {
			var item models.ItemDetail
			var cost string
			if err := itemRows.Scan(&item.Name, &cost); err != nil {
				itemRows.Close()
				return fmt.Errorf("failed to scan debt item: %w", err)
			}
			if item.Cost, err = moneyValue(cost); err != nil {
				itemRows.Close()
				return err
			}
			rec.Items = append(rec.Items, item)
		}
		itemRows.Close()
		if err := itemRows.Err(); err != nil {
			return fmt.Errorf("failed to iterate debt items: %w", err)
		}

		repRows, err := s.db.QueryContext(ctx,
			"SELECT id, amount, method, created_at FROM repayments WHERE debt_record_id = ? ORDER BY created_at, id", rec.ID)
		if err != nil {
			return fmt.Errorf("failed to get repayments: %w", err)
		}
		for repRows.Next() {
			rep := models.Repayment{DebtRecordID: rec.ID}
			var amount, method string
			if err := repRows.Scan(&rep.ID, &amount, &method, &rep.CreatedAt); err != nil {
				repRows.Close()
				return fmt.Errorf("failed to scan repayment: %w", err)
			}
			if rep.Amount, err = moneyValue(amount); err != nil {
				repRows.Close()
				return err
			}
			rep.Method = models.PaymentMethod(method)
			rec.Repayments = append(rec.Repayments, rep)
		}
		repRows.Close()
		if err := repRows.Err(); err != nil {
			return fmt.Errorf("failed to iterate repayments: %w", err)
		}
	}
	return nil
}

// ListDebtsByHousehold retrieves all debt records in a household, newest
// first.
func (s *SQLiteStore) ListDebtsByHousehold(ctx context.Context, householdID string) ([]*models.DebtRecord, error) {
	return s.queryDebts(ctx,
		"SELECT "+debtColumns+" FROM debt_records WHERE household_id = ? ORDER BY created_at DESC",
		householdID)
}

// ListDebtsByPair retrieves records for one ordered debtor/creditor pair in
// creation order.
func (s *SQLiteStore) ListDebtsByPair(ctx context.Context, householdID, owedBy, owedTo string) ([]*models.DebtRecord, error) {
	return s.queryDebts(ctx,
		"SELECT "+debtColumns+" FROM debt_records WHERE household_id = ? AND owed_by = ? AND owed_to = ? ORDER BY created_at, id",
		householdID, owedBy, owedTo)
}

// ApplyAllocations applies a payment plan in one transaction. Each update is
// conditioned on the record's repayment amount still being what the plan was
// computed against; if any record moved, the transaction rolls back and
// ErrStaleAllocation is returned, so concurrent payments can never silently
// overwrite each other.
func (s *SQLiteStore) ApplyAllocations(ctx context.Context, allocs []models.Allocation, method models.PaymentMethod, paidAt int64) error {
	if len(allocs) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, a := range allocs {
		status := models.DebtActive
		if a.Settled {
			status = models.DebtSettled
		}
		res, err := tx.ExecContext(ctx,
			`UPDATE debt_records
			 SET repayment_amount = ?, status = ?, last_updated = ?
			 WHERE id = ? AND repayment_amount = ?`,
			moneyText(a.NewRepayment), string(status), paidAt,
			a.RecordID, moneyText(a.PriorRepayment),
		)
		if err != nil {
			return fmt.Errorf("failed to update debt record: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to read rows affected: %w", err)
		}
		if n == 0 {
			return fmt.Errorf("record %s: %w", a.RecordID, storage.ErrStaleAllocation)
		}

		_, err = tx.ExecContext(ctx,
			"INSERT INTO repayments (id, debt_record_id, amount, method, created_at) VALUES (?, ?, ?, ?, ?)",
			uuid.New().String(), a.RecordID, moneyText(a.Applied), string(method), paidAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert repayment: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
