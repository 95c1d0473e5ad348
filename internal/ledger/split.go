// Package ledger implements the balance-settlement engine: splitting
// purchased items into debts, netting mutual debts, allocating payments
// across open records, and projecting a transaction feed.
//
// Every function here is pure: inputs in, results out, no storage access.
// The service layer wires the results through the store.
package ledger

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/homesplit/homesplit/internal/models"
	"github.com/homesplit/homesplit/internal/money"
)

var (
	// ErrNoMembers is returned when a split names no member besides the actor.
	ErrNoMembers = errors.New("at least one other member must be selected")
	// ErrNoItems is returned when a split includes no items.
	ErrNoItems = errors.New("at least one item must be selected")
	// ErrAmountMismatch is returned when assigned amounts do not sum to the
	// selected items' total within money.Tolerance.
	ErrAmountMismatch = errors.New("assigned amounts do not match item total")
	// ErrSelfAssignment is returned when the acting member appears among the
	// selected debtors. The actor's own share is implicit and never stored.
	ErrSelfAssignment = errors.New("acting member cannot owe themselves")
	// ErrDuplicateMember is returned when a member is selected more than
	// once. A repeated member would inflate the equal-share divisor while
	// producing a single record, losing part of the total.
	ErrDuplicateMember = errors.New("member selected more than once")
)

// SplitInput describes one settlement of purchased items.
type SplitInput struct {
	// ActorID is the member who paid for the items; the implicit creditor.
	ActorID string

	// Members are the other members sharing the cost, excluding the actor.
	Members []string

	// Amounts optionally assigns each member an owed amount. When empty,
	// every member owes an equal share of the total (the actor's own equal
	// share is accounted for but never recorded).
	Amounts map[string]decimal.Decimal

	// Items are the purchased items being split.
	Items []models.ItemDetail
}

// EqualShare returns the per-person amount when total is divided evenly
// among the selected members plus the acting member.
func EqualShare(total decimal.Decimal, members int) decimal.Decimal {
	return money.Normalize(total.Div(decimal.NewFromInt(int64(members) + 1)))
}

// ComputeSplit validates in and returns the owed amount per member.
// Members with a zero assigned amount are omitted; the actor never appears
// in the result. The amounts sum check is re-validated here even though
// callers validate it first, so the engine stands alone.
func ComputeSplit(in SplitInput) (map[string]decimal.Decimal, error) {
	if len(in.Members) == 0 {
		return nil, ErrNoMembers
	}
	if len(in.Items) == 0 {
		return nil, ErrNoItems
	}
	seen := make(map[string]struct{}, len(in.Members))
	for _, m := range in.Members {
		if m == in.ActorID {
			return nil, ErrSelfAssignment
		}
		if _, ok := seen[m]; ok {
			return nil, ErrDuplicateMember
		}
		seen[m] = struct{}{}
	}

	total := decimal.Zero
	for _, item := range in.Items {
		total = total.Add(item.Cost)
	}
	total = money.Normalize(total)

	shares := make(map[string]decimal.Decimal, len(in.Members))
	if len(in.Amounts) == 0 {
		share := EqualShare(total, len(in.Members))
		for _, m := range in.Members {
			shares[m] = share
		}
		return shares, nil
	}

	// Custom amounts: the members' assignments plus the actor's own (never
	// stored) must sum to the item total.
	assigned := decimal.Zero
	for _, m := range in.Members {
		amt, ok := in.Amounts[m]
		if !ok {
			continue
		}
		if amt.IsNegative() {
			return nil, money.ErrInvalidAmount
		}
		assigned = assigned.Add(amt)
	}
	actorShare, ok := in.Amounts[in.ActorID]
	if ok {
		if actorShare.IsNegative() {
			return nil, money.ErrInvalidAmount
		}
		assigned = assigned.Add(actorShare)
	}
	if !money.WithinTolerance(money.Normalize(assigned), total) {
		return nil, ErrAmountMismatch
	}

	for _, m := range in.Members {
		amt, ok := in.Amounts[m]
		if !ok || amt.IsZero() {
			continue
		}
		shares[m] = money.Normalize(amt)
	}
	return shares, nil
}
