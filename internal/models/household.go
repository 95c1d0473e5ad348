package models

// Household represents a group of users sharing a shopping list and a debt
// ledger.
type Household struct {
	// ID is the unique identifier for the household (UUID format).
	ID string

	// Name is the display name (e.g. "Elm Street", "The Flat").
	Name string

	// Members is the set of member user IDs. Unique, order not significant.
	Members []string

	// CreatedBy is the user ID that created the household.
	CreatedBy string

	// CreatedAt is the Unix timestamp when the household was created.
	CreatedAt int64
}

// HasMember reports whether userID belongs to the household.
func (h *Household) HasMember(userID string) bool {
	for _, m := range h.Members {
		if m == userID {
			return true
		}
	}
	return false
}
