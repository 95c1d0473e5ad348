// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/homesplit/homesplit/internal/models"
)

// ErrNotFound is returned when a requested entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrStaleAllocation is returned by ApplyAllocations when a debt record's
// repayment amount changed between the read the plan was computed from and
// the write. The caller should re-read and re-plan.
var ErrStaleAllocation = errors.New("debt record changed since allocation was planned")

// Store defines the interface for ledger storage operations. The shape
// mirrors the hosted document store the mobile app talks to: point reads,
// equality-filtered queries, creates, and field-level updates. Implementing
// it behind an interface keeps the service layer free to swap backends.
type Store interface {
	// Users.
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	// GetUsersByIDs returns the users that exist, keyed by ID; missing IDs
	// are omitted.
	GetUsersByIDs(ctx context.Context, ids []string) (map[string]*models.User, error)

	// Households.
	CreateHousehold(ctx context.Context, h *models.Household) error
	GetHousehold(ctx context.Context, id string) (*models.Household, error)
	// AddHouseholdMembers adds the given user IDs; already-present members
	// are a no-op.
	AddHouseholdMembers(ctx context.Context, householdID string, memberIDs []string) error
	ListHouseholdsByMember(ctx context.Context, userID string) ([]*models.Household, error)

	// Shopping items.
	CreateItem(ctx context.Context, item *models.ShoppingItem) error
	GetItem(ctx context.Context, id string) (*models.ShoppingItem, error)
	ListItems(ctx context.Context, householdID string) ([]*models.ShoppingItem, error)
	// ListSplitCandidates returns items that are purchased and not yet
	// split. Items marked split never reappear here.
	ListSplitCandidates(ctx context.Context, householdID string) ([]*models.ShoppingItem, error)
	MarkItemPurchased(ctx context.Context, id string, cost decimal.Decimal, purchasedAt int64) error
	// MarkItemsSplit flags the items as split. Idempotent: re-marking an
	// already-split item is a no-op.
	MarkItemsSplit(ctx context.Context, ids []string) error
	SetItemPinned(ctx context.Context, id string, pinned bool) error

	// Debt records.
	CreateDebtRecord(ctx context.Context, rec *models.DebtRecord) error
	GetDebtRecord(ctx context.Context, id string) (*models.DebtRecord, error)
	ListDebtsByHousehold(ctx context.Context, householdID string) ([]*models.DebtRecord, error)
	// ListDebtsByPair returns records where owedBy owes owedTo, in creation
	// order.
	ListDebtsByPair(ctx context.Context, householdID, owedBy, owedTo string) ([]*models.DebtRecord, error)
	// ApplyAllocations applies a payment plan: advances each record's
	// repayment amount and status, stamps lastUpdated, and appends one
	// repayment row per allocation, all in a single transaction. Each
	// record's stored repayment amount must still equal the plan's
	// PriorRepayment, otherwise the whole call fails with
	// ErrStaleAllocation and nothing is written.
	ApplyAllocations(ctx context.Context, allocs []models.Allocation, method models.PaymentMethod, paidAt int64) error

	// Close releases any resources held by the store.
	Close() error
}
