package ledger

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/homesplit/homesplit/internal/models"
)

// TransactionKind distinguishes entries in the projected feed.
type TransactionKind string

const (
	// TxItem is one originating line item from a debt record.
	TxItem TransactionKind = "item"
	// TxRepayment is one recorded repayment.
	TxRepayment TransactionKind = "repayment"
	// TxBalance summarizes a record's remaining amount.
	TxBalance TransactionKind = "balance"
)

// Transaction is one entry in a household's chronological activity feed.
type Transaction struct {
	Kind        TransactionKind
	RecordID    string
	Description string
	Amount      decimal.Decimal
	Method      models.PaymentMethod // set on repayment entries only
	OwedBy      string
	OwedTo      string
	OwedByName  string
	OwedToName  string
	Date        int64
}

// Project flattens debt records into a single feed: one item entry per
// captured line item, one repayment entry per recorded repayment, and one
// balance entry per record summarizing what remains. The feed is sorted
// newest first; repayments sort by their own date, item and balance entries
// by the record's creation date. Projection is a pure function of its
// inputs, so projecting the same records twice yields an identical feed.
func Project(records []*models.DebtRecord, names map[string]string) []Transaction {
	var feed []Transaction
	for _, rec := range records {
		base := Transaction{
			RecordID:   rec.ID,
			OwedBy:     rec.OwedBy,
			OwedTo:     rec.OwedTo,
			OwedByName: names[rec.OwedBy],
			OwedToName: names[rec.OwedTo],
		}

		for _, item := range rec.Items {
			tx := base
			tx.Kind = TxItem
			tx.Description = item.Name
			tx.Amount = item.Cost
			tx.Date = rec.CreatedAt
			feed = append(feed, tx)
		}

		for _, rep := range rec.Repayments {
			tx := base
			tx.Kind = TxRepayment
			tx.Amount = rep.Amount
			tx.Method = rep.Method
			tx.Date = rep.CreatedAt
			feed = append(feed, tx)
		}

		tx := base
		tx.Kind = TxBalance
		tx.Amount = rec.Remaining()
		tx.Date = rec.CreatedAt
		feed = append(feed, tx)
	}

	sort.SliceStable(feed, func(i, j int) bool {
		return feed[i].Date > feed[j].Date
	})
	return feed
}
