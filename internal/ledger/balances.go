package ledger

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/homesplit/homesplit/internal/models"
	"github.com/homesplit/homesplit/internal/money"
)

// NetBalance is a derived, single-direction amount after canceling mutual
// debts between two members. Never persisted; recomputed on every read.
type NetBalance struct {
	OwedBy     string
	OwedTo     string
	OwedByName string
	OwedToName string
	Amount     decimal.Decimal
}

// NetBalances simplifies a household's debt records into net pairwise
// balances. Mutual debts cancel: if A owes B 30 and B owes A 10, the result
// is a single entry "A owes B 20". Pairs that cancel exactly, and pairs with
// no records at all, produce no entry.
//
// names maps member IDs to display names; missing names come through empty.
// Output is sorted by (OwedBy, OwedTo) so results are deterministic.
func NetBalances(records []*models.DebtRecord, names map[string]string) []NetBalance {
	// raw[debtor][creditor] = total remaining debt for that ordered pair
	raw := make(map[string]map[string]decimal.Decimal)
	for _, rec := range records {
		remaining := rec.Remaining()
		if !remaining.IsPositive() {
			continue
		}
		if _, ok := raw[rec.OwedBy]; !ok {
			raw[rec.OwedBy] = make(map[string]decimal.Decimal)
		}
		raw[rec.OwedBy][rec.OwedTo] = raw[rec.OwedBy][rec.OwedTo].Add(remaining)
	}

	var balances []NetBalance
	for _, debtor := range sortedKeys(raw) {
		for _, creditor := range sortedKeys(raw[debtor]) {
			owed := raw[debtor][creditor]
			if !owed.IsPositive() {
				continue
			}
			mutual := decimal.Zero
			if back, ok := raw[creditor]; ok {
				mutual = back[debtor]
			}
			net := money.Normalize(owed.Sub(mutual))
			if !net.IsPositive() {
				// The reverse direction is at least as large; it will be
				// emitted (or cancel out) when its turn comes.
				continue
			}
			balances = append(balances, NetBalance{
				OwedBy:     debtor,
				OwedTo:     creditor,
				OwedByName: names[debtor],
				OwedToName: names[creditor],
				Amount:     net,
			})
		}
	}
	return balances
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
