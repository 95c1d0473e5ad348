package ledger

import (
	"reflect"
	"testing"

	"github.com/homesplit/homesplit/internal/models"
)

func TestProject(t *testing.T) {
	names := map[string]string{"alice": "Alice", "bob": "Bob"}

	rec := debt("d1", "alice", "bob", "45", "15")
	rec.CreatedAt = 100
	rec.Items = []models.ItemDetail{
		{Name: "Groceries", Cost: dec("30")},
		{Name: "Cleaning supplies", Cost: dec("15")},
	}
	rec.Repayments = []models.Repayment{
		{ID: "r1", DebtRecordID: "d1", Amount: dec("15"), Method: models.MethodCash, CreatedAt: 150},
	}

	feed := Project([]*models.DebtRecord{rec}, names)

	// Two item entries + one repayment + one balance summary.
	if len(feed) != 4 {
		t.Fatalf("expected 4 transactions, got %d", len(feed))
	}

	// Newest first: the repayment (150) precedes the creation-dated entries.
	if feed[0].Kind != TxRepayment {
		t.Errorf("feed[0].Kind = %s, want repayment", feed[0].Kind)
	}
	if feed[0].Method != models.MethodCash {
		t.Errorf("repayment method = %s, want cash", feed[0].Method)
	}

	var kinds []TransactionKind
	for _, tx := range feed {
		kinds = append(kinds, tx.Kind)
		if tx.OwedByName != "Alice" || tx.OwedToName != "Bob" {
			t.Errorf("names = %q/%q, want Alice/Bob", tx.OwedByName, tx.OwedToName)
		}
	}
	want := []TransactionKind{TxRepayment, TxItem, TxItem, TxBalance}
	if !reflect.DeepEqual(kinds, want) {
		t.Errorf("kinds = %v, want %v", kinds, want)
	}

	// Balance entry carries the remaining amount.
	balance := feed[3]
	if !balance.Amount.Equal(dec("30")) {
		t.Errorf("balance amount = %s, want 30", balance.Amount)
	}
}

func TestProjectIdempotent(t *testing.T) {
	names := map[string]string{"alice": "Alice", "bob": "Bob"}
	rec := debt("d1", "alice", "bob", "45", "0")
	rec.CreatedAt = 100
	rec.Items = []models.ItemDetail{{Name: "Groceries", Cost: dec("45")}}

	first := Project([]*models.DebtRecord{rec}, names)
	second := Project([]*models.DebtRecord{rec}, names)
	if !reflect.DeepEqual(first, second) {
		t.Error("projecting unchanged records twice must yield identical feeds")
	}
}

func TestProjectEmpty(t *testing.T) {
	if feed := Project(nil, nil); len(feed) != 0 {
		t.Errorf("expected empty feed, got %d entries", len(feed))
	}
}
