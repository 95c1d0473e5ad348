package sqlite

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/homesplit/homesplit/internal/models"
	"github.com/homesplit/homesplit/internal/storage"
)

func setupTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	tmpFile, err := os.CreateTemp("", "test-*.db")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	tmpFile.Close()

	store, err := New(tmpFile.Name())
	if err != nil {
		os.Remove(tmpFile.Name())
		t.Fatalf("failed to create store: %v", err)
	}

	t.Cleanup(func() {
		store.Close()
		os.Remove(tmpFile.Name())
	})
	return store
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func seedHousehold(t *testing.T, store *SQLiteStore, members ...string) *models.Household {
	t.Helper()
	h := &models.Household{Name: "Elm Street", CreatedBy: members[0], Members: members}
	if err := store.CreateHousehold(context.Background(), h); err != nil {
		t.Fatalf("CreateHousehold failed: %v", err)
	}
	return h
}

func TestHouseholdRoundTrip(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	h := seedHousehold(t, store, "alice", "bob")

	got, err := store.GetHousehold(ctx, h.ID)
	if err != nil {
		t.Fatalf("GetHousehold failed: %v", err)
	}
	if got.Name != "Elm Street" || len(got.Members) != 2 {
		t.Errorf("got %q with %d members, want Elm Street with 2", got.Name, len(got.Members))
	}

	// Adding an existing member is a no-op; a new one is appended.
	if err := store.AddHouseholdMembers(ctx, h.ID, []string{"bob", "carol"}); err != nil {
		t.Fatalf("AddHouseholdMembers failed: %v", err)
	}
	got, err = store.GetHousehold(ctx, h.ID)
	if err != nil {
		t.Fatalf("GetHousehold failed: %v", err)
	}
	if len(got.Members) != 3 {
		t.Errorf("members = %v, want 3 entries", got.Members)
	}

	if _, err := store.GetHousehold(ctx, "missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSplitCandidatesExcludeSplitItems(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	h := seedHousehold(t, store, "alice", "bob")

	item := &models.ShoppingItem{
		HouseholdID: h.ID,
		Name:        "Milk",
		Category:    "Dairy",
		AddedBy:     "alice",
		Cost:        decimal.Zero,
	}
	if err := store.CreateItem(ctx, item); err != nil {
		t.Fatalf("CreateItem failed: %v", err)
	}

	// Unpurchased items are not candidates.
	candidates, err := store.ListSplitCandidates(ctx, h.ID)
	if err != nil {
		t.Fatalf("ListSplitCandidates failed: %v", err)
	}
	if len(candidates) != 0 {
		t.Fatalf("expected no candidates before purchase, got %d", len(candidates))
	}

	if err := store.MarkItemPurchased(ctx, item.ID, dec("3.49"), time.Now().Unix()); err != nil {
		t.Fatalf("MarkItemPurchased failed: %v", err)
	}
	candidates, err = store.ListSplitCandidates(ctx, h.ID)
	if err != nil {
		t.Fatalf("ListSplitCandidates failed: %v", err)
	}
	if len(candidates) != 1 || !candidates[0].Cost.Equal(dec("3.49")) {
		t.Fatalf("candidates = %+v, want one item costing 3.49", candidates)
	}

	// Once split, the item never reappears, even though still purchased.
	if err := store.MarkItemsSplit(ctx, []string{item.ID}); err != nil {
		t.Fatalf("MarkItemsSplit failed: %v", err)
	}
	if err := store.MarkItemsSplit(ctx, []string{item.ID}); err != nil {
		t.Fatalf("re-marking split item failed: %v", err)
	}
	candidates, err = store.ListSplitCandidates(ctx, h.ID)
	if err != nil {
		t.Fatalf("ListSplitCandidates failed: %v", err)
	}
	if len(candidates) != 0 {
		t.Errorf("expected no candidates after split, got %d", len(candidates))
	}
}

func TestDebtRecordRoundTrip(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	h := seedHousehold(t, store, "alice", "bob")

	rec := &models.DebtRecord{
		HouseholdID:     h.ID,
		OwedBy:          "bob",
		OwedTo:          "alice",
		Amount:          dec("15.00"),
		RepaymentAmount: decimal.Zero,
		Items: []models.ItemDetail{
			{Name: "Groceries", Cost: dec("10.00")},
			{Name: "Soap", Cost: dec("5.00")},
		},
	}
	if err := store.CreateDebtRecord(ctx, rec); err != nil {
		t.Fatalf("CreateDebtRecord failed: %v", err)
	}
	if rec.ID == "" || rec.CreatedAt == 0 {
		t.Fatal("expected generated ID and CreatedAt")
	}

	got, err := store.GetDebtRecord(ctx, rec.ID)
	if err != nil {
		t.Fatalf("GetDebtRecord failed: %v", err)
	}
	if got.Status != models.DebtActive {
		t.Errorf("status = %s, want active", got.Status)
	}
	if !got.Amount.Equal(dec("15.00")) || !got.RepaymentAmount.IsZero() {
		t.Errorf("amounts = %s/%s, want 15.00/0", got.Amount, got.RepaymentAmount)
	}
	if len(got.Items) != 2 || got.Items[0].Name != "Groceries" {
		t.Errorf("items = %+v, want Groceries then Soap", got.Items)
	}

	pair, err := store.ListDebtsByPair(ctx, h.ID, "bob", "alice")
	if err != nil {
		t.Fatalf("ListDebtsByPair failed: %v", err)
	}
	if len(pair) != 1 {
		t.Fatalf("pair query returned %d records, want 1", len(pair))
	}

	// Reverse direction is a different pair.
	reverse, err := store.ListDebtsByPair(ctx, h.ID, "alice", "bob")
	if err != nil {
		t.Fatalf("ListDebtsByPair failed: %v", err)
	}
	if len(reverse) != 0 {
		t.Errorf("reverse pair returned %d records, want 0", len(reverse))
	}
}

func TestApplyAllocations(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	h := seedHousehold(t, store, "alice", "bob")

	rec := &models.DebtRecord{
		HouseholdID: h.ID,
		OwedBy:      "bob",
		OwedTo:      "alice",
		Amount:      dec("20.00"),
	}
	if err := store.CreateDebtRecord(ctx, rec); err != nil {
		t.Fatalf("CreateDebtRecord failed: %v", err)
	}

	paidAt := time.Now().Unix()
	err := store.ApplyAllocations(ctx, []models.Allocation{{
		RecordID:       rec.ID,
		Applied:        dec("7.50"),
		PriorRepayment: decimal.Zero,
		NewRepayment:   dec("7.50"),
		Settled:        false,
	}}, models.MethodCash, paidAt)
	if err != nil {
		t.Fatalf("ApplyAllocations failed: %v", err)
	}

	got, err := store.GetDebtRecord(ctx, rec.ID)
	if err != nil {
		t.Fatalf("GetDebtRecord failed: %v", err)
	}
	if !got.RepaymentAmount.Equal(dec("7.50")) || got.Status != models.DebtActive {
		t.Errorf("record = %s/%s, want 7.50/active", got.RepaymentAmount, got.Status)
	}
	if got.LastUpdated != paidAt {
		t.Errorf("lastUpdated = %d, want %d", got.LastUpdated, paidAt)
	}
	if len(got.Repayments) != 1 || got.Repayments[0].Method != models.MethodCash {
		t.Fatalf("repayments = %+v, want one cash entry", got.Repayments)
	}
	if !got.Repayments[0].Amount.Equal(dec("7.50")) {
		t.Errorf("repayment amount = %s, want 7.50", got.Repayments[0].Amount)
	}
}

func TestApplyAllocationsRejectsStalePlan(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	h := seedHousehold(t, store, "alice", "bob")

	rec := &models.DebtRecord{
		HouseholdID: h.ID,
		OwedBy:      "bob",
		OwedTo:      "alice",
		Amount:      dec("20.00"),
	}
	if err := store.CreateDebtRecord(ctx, rec); err != nil {
		t.Fatalf("CreateDebtRecord failed: %v", err)
	}

	now := time.Now().Unix()
	first := []models.Allocation{{
		RecordID:       rec.ID,
		Applied:        dec("5.00"),
		PriorRepayment: decimal.Zero,
		NewRepayment:   dec("5.00"),
	}}
	if err := store.ApplyAllocations(ctx, first, models.MethodCash, now); err != nil {
		t.Fatalf("first ApplyAllocations failed: %v", err)
	}

	// A second plan computed from the same pre-payment read must fail whole,
	// writing nothing.
	stale := []models.Allocation{{
		RecordID:       rec.ID,
		Applied:        dec("5.00"),
		PriorRepayment: decimal.Zero,
		NewRepayment:   dec("5.00"),
	}}
	err := store.ApplyAllocations(ctx, stale, models.MethodCash, now)
	if !errors.Is(err, storage.ErrStaleAllocation) {
		t.Fatalf("expected ErrStaleAllocation, got %v", err)
	}

	got, err := store.GetDebtRecord(ctx, rec.ID)
	if err != nil {
		t.Fatalf("GetDebtRecord failed: %v", err)
	}
	if !got.RepaymentAmount.Equal(dec("5.00")) {
		t.Errorf("repayment = %s, want 5.00 (stale write must not apply)", got.RepaymentAmount)
	}
	if len(got.Repayments) != 1 {
		t.Errorf("repayments = %d entries, want 1", len(got.Repayments))
	}
}
