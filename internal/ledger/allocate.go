package ledger

import (
	"errors"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/homesplit/homesplit/internal/models"
	"github.com/homesplit/homesplit/internal/money"
)

var (
	// ErrNoOutstandingDebt is returned when the payer owes the payee nothing.
	ErrNoOutstandingDebt = errors.New("no outstanding debt for this pair")
	// ErrOverpayment is returned when the payment exceeds the total remaining
	// debt. Overpayments are rejected outright, never partially applied.
	ErrOverpayment = errors.New("payment exceeds outstanding debt")
	// ErrNonPositiveAmount is returned for zero or negative payment amounts.
	ErrNonPositiveAmount = errors.New("payment amount must be positive")
)

// AllocatePayment plans how a payment from one member to another spreads
// across that pair's open debt records.
//
// Records are settled smallest original amount first, so a payment closes as
// many records as it can and leaves at most one partially repaid. The
// returned allocations carry each record's prior repayment amount so the
// store can reject a plan computed against stale state. The sum of Applied
// across the plan always equals amount exactly.
//
// records must all share the same (OwedBy, OwedTo) pair; settled records are
// skipped.
func AllocatePayment(records []*models.DebtRecord, amount decimal.Decimal) ([]models.Allocation, error) {
	amount = money.Normalize(amount)
	if !amount.IsPositive() {
		return nil, ErrNonPositiveAmount
	}

	open := make([]*models.DebtRecord, 0, len(records))
	total := decimal.Zero
	for _, rec := range records {
		remaining := rec.Remaining()
		if rec.Status == models.DebtSettled || !remaining.IsPositive() {
			continue
		}
		open = append(open, rec)
		total = total.Add(remaining)
	}
	if len(open) == 0 {
		return nil, ErrNoOutstandingDebt
	}
	if amount.GreaterThan(money.Normalize(total)) {
		return nil, ErrOverpayment
	}

	// Smallest debts first; ties resolved oldest first.
	sort.SliceStable(open, func(i, j int) bool {
		if c := open[i].Amount.Cmp(open[j].Amount); c != 0 {
			return c < 0
		}
		return open[i].CreatedAt < open[j].CreatedAt
	})

	var plan []models.Allocation
	remaining := amount
	for _, rec := range open {
		if !remaining.IsPositive() {
			break
		}
		newRepayment := money.Normalize(rec.RepaymentAmount.Add(remaining))
		if newRepayment.GreaterThanOrEqual(rec.Amount) {
			applied := rec.Remaining()
			plan = append(plan, models.Allocation{
				RecordID:       rec.ID,
				Applied:        applied,
				PriorRepayment: rec.RepaymentAmount,
				NewRepayment:   rec.Amount,
				Settled:        true,
			})
			remaining = money.Normalize(newRepayment.Sub(rec.Amount))
			continue
		}
		plan = append(plan, models.Allocation{
			RecordID:       rec.ID,
			Applied:        remaining,
			PriorRepayment: rec.RepaymentAmount,
			NewRepayment:   newRepayment,
			Settled:        false,
		})
		remaining = decimal.Zero
	}
	return plan, nil
}
