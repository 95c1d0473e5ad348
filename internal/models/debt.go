package models

import "github.com/shopspring/decimal"

// DebtStatus is the lifecycle state of a DebtRecord.
type DebtStatus string

const (
	// DebtActive means the record still has a remaining amount.
	DebtActive DebtStatus = "active"
	// DebtSettled means repayments equal the original amount. A settled
	// record never becomes active again.
	DebtSettled DebtStatus = "settled"
)

// PaymentMethod identifies how a repayment was made.
type PaymentMethod string

const (
	MethodCash   PaymentMethod = "cash"
	MethodPayPal PaymentMethod = "paypal"
)

// ValidMethod reports whether m is a known payment method.
func ValidMethod(m PaymentMethod) bool {
	return m == MethodCash || m == MethodPayPal
}

// Repayment is one append-only entry recording money applied to a DebtRecord.
type Repayment struct {
	// ID is the unique identifier for the repayment (UUID format).
	ID string

	// DebtRecordID is the record the repayment was applied to.
	DebtRecordID string

	// Amount is the portion of a payment applied to this record.
	Amount decimal.Decimal

	// Method records how the payment was made.
	Method PaymentMethod

	// CreatedAt is the Unix timestamp when the repayment was recorded.
	CreatedAt int64
}

// DebtRecord is one directional ledger entry: OwedBy owes OwedTo.
//
// Amount is fixed at creation. RepaymentAmount starts at zero and only
// advances, never past Amount. Records are created by splitting purchased
// items and mutated only by payment allocation; they are never deleted.
type DebtRecord struct {
	// ID is the unique identifier for the record (UUID format).
	ID string

	// HouseholdID scopes the record to one household's ledger.
	HouseholdID string

	// OwedBy is the debtor's user ID. Always distinct from OwedTo.
	OwedBy string

	// OwedTo is the creditor's user ID.
	OwedTo string

	// Amount is the original debt, non-negative, immutable after creation.
	Amount decimal.Decimal

	// RepaymentAmount is the cumulative amount repaid so far.
	// Invariant: 0 <= RepaymentAmount <= Amount.
	RepaymentAmount decimal.Decimal

	// Status derives from RepaymentAmount: active until it reaches Amount,
	// then settled.
	Status DebtStatus

	// Items is the line-item breakdown captured at creation, for display.
	Items []ItemDetail

	// Repayments is the append-only repayment history, oldest first.
	Repayments []Repayment

	// CreatedAt and LastUpdated are Unix timestamps. LastUpdated advances on
	// every allocation that touches the record.
	CreatedAt   int64
	LastUpdated int64
}

// Remaining returns the unpaid portion of the debt.
func (d *DebtRecord) Remaining() decimal.Decimal {
	return d.Amount.Sub(d.RepaymentAmount)
}

// Allocation is the planned update to one DebtRecord from a single payment.
// PriorRepayment carries the repayment amount the plan was computed against,
// so the store can refuse to apply a plan built on stale reads.
type Allocation struct {
	RecordID       string
	Applied        decimal.Decimal
	PriorRepayment decimal.Decimal
	NewRepayment   decimal.Decimal
	Settled        bool
}
