package models

import "github.com/shopspring/decimal"

// ShoppingItem is one line on a household's shared shopping list.
//
// An item transitions unpurchased -> purchased (setting Cost and
// PurchasedAt) and, independently, unsplit -> split once it has been included
// in a settlement. A split item is permanently excluded from future splits so
// it can never be billed twice.
type ShoppingItem struct {
	// ID is the unique identifier for the item (UUID format).
	ID string

	// HouseholdID is the household whose list the item belongs to.
	HouseholdID string

	// Name is the item description (e.g. "Milk", "Dish soap").
	Name string

	// Category groups items on the list (e.g. "Dairy", "Cleaning").
	Category string

	// Cost is the purchase price. Zero until the item is purchased.
	Cost decimal.Decimal

	// AddedBy is the user ID that put the item on the list.
	AddedBy string

	// Purchased is set when a member buys the item and records its cost.
	Purchased bool

	// Split is set once the item has been included in a settlement.
	// Never cleared.
	Split bool

	// Pinned keeps the item at the top of the list.
	Pinned bool

	// AddedAt is the Unix timestamp when the item was added.
	AddedAt int64

	// PurchasedAt is the Unix timestamp of purchase; nil while unpurchased.
	PurchasedAt *int64
}

// ItemDetail is the immutable line-item snapshot captured on a DebtRecord at
// creation time, for display in transaction feeds.
type ItemDetail struct {
	Name string
	Cost decimal.Decimal
}
