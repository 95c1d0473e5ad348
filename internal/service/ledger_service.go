package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"

	"github.com/homesplit/homesplit/internal/ledger"
	"github.com/homesplit/homesplit/internal/models"
	"github.com/homesplit/homesplit/internal/money"
	"github.com/homesplit/homesplit/internal/paypal"
	"github.com/homesplit/homesplit/internal/rpc"
	"github.com/homesplit/homesplit/internal/storage"
)

// LedgerService implements the Connect LedgerService: splitting purchased
// items into debt records, reading balances and activity, and recording
// repayments.
type LedgerService struct {
	store storage.Store

	// pairLocks serializes payment application per debtor/creditor pair.
	pairLocks *pairLocks
	// sessions tracks in-flight PayPal checkouts.
	sessions *sessionRegistry
	// returnBase is the base URL PayPal redirects back to after checkout.
	returnBase string
}

// NewLedgerService creates a new LedgerService. returnBase is the base URL
// for PayPal return redirects, e.g. "https://app.example.com".
func NewLedgerService(store storage.Store, returnBase string) *LedgerService {
	return &LedgerService{
		store:      store,
		pairLocks:  newPairLocks(),
		sessions:   newSessionRegistry(),
		returnBase: returnBase,
	}
}

// SplitItems turns purchased items into one debt record per selected member
// and marks the items split so they cannot be split again.
func (s *LedgerService) SplitItems(ctx context.Context, req *connect.Request[rpc.SplitItemsRequest]) (*connect.Response[rpc.SplitItemsResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	slog.Info("SplitItems request received",
		"household_id", req.Msg.HouseholdId,
		"items_count", len(req.Msg.ItemIds),
		"members_count", len(req.Msg.MemberIds),
	)

	household, err := requireMembership(ctx, s.store, req.Msg.HouseholdId, userID)
	if err != nil {
		return nil, err
	}
	if len(req.Msg.ItemIds) == 0 {
		return nil, connect.NewError(connect.CodeInvalidArgument, ledger.ErrNoItems)
	}
	if len(req.Msg.MemberIds) == 0 {
		return nil, connect.NewError(connect.CodeInvalidArgument, ledger.ErrNoMembers)
	}
	for _, id := range req.Msg.MemberIds {
		if !household.HasMember(id) {
			return nil, connect.NewError(connect.CodeInvalidArgument,
				fmt.Errorf("user %s is not a member of this household", id))
		}
	}

	// Only purchased, unsplit items are eligible. Requesting anything else
	// fails the whole split; nothing is written.
	candidates, err := s.store.ListSplitCandidates(ctx, household.ID)
	if err != nil {
		slog.Error("SplitItems candidate load failed", "household_id", household.ID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	byID := make(map[string]*models.ShoppingItem, len(candidates))
	for _, item := range candidates {
		byID[item.ID] = item
	}

	// A repeated item ID would count the same cost twice, billing members
	// for more than was spent.
	var details []models.ItemDetail
	taken := make(map[string]struct{}, len(req.Msg.ItemIds))
	for _, id := range req.Msg.ItemIds {
		if _, dup := taken[id]; dup {
			return nil, connect.NewError(connect.CodeInvalidArgument,
				fmt.Errorf("item %s listed more than once", id))
		}
		taken[id] = struct{}{}
		item, ok := byID[id]
		if !ok {
			return nil, connect.NewError(connect.CodeFailedPrecondition,
				fmt.Errorf("item %s is not available to split", id))
		}
		details = append(details, models.ItemDetail{Name: item.Name, Cost: item.Cost})
	}

	amounts, err := parseAmounts(req.Msg.CustomAmounts)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	shares, err := ledger.ComputeSplit(ledger.SplitInput{
		ActorID: userID,
		Members: req.Msg.MemberIds,
		Amounts: amounts,
		Items:   details,
	})
	if err != nil {
		slog.Warn("SplitItems rejected", "household_id", household.ID, "error", err)
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	members := make([]string, 0, len(shares))
	for id := range shares {
		members = append(members, id)
	}
	sort.Strings(members)

	var records []*rpc.DebtRecord
	for _, memberID := range members {
		rec := &models.DebtRecord{
			HouseholdID: household.ID,
			OwedBy:      memberID,
			OwedTo:      userID,
			Amount:      shares[memberID],
			Items:       details,
		}
		if err := s.store.CreateDebtRecord(ctx, rec); err != nil {
			slog.Error("SplitItems record creation failed",
				"household_id", household.ID, "owed_by", memberID, "error", err)
			return nil, connect.NewError(connect.CodeInternal, err)
		}
		records = append(records, toRPCDebt(rec))
	}

	if err := s.store.MarkItemsSplit(ctx, req.Msg.ItemIds); err != nil {
		slog.Error("SplitItems mark failed", "household_id", household.ID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	slog.Info("Items split",
		"household_id", household.ID,
		"records_count", len(records),
	)

	return connect.NewResponse(&rpc.SplitItemsResponse{
		Records: records,
	}), nil
}

// ListDebts returns a household's debt records, optionally restricted to one
// ordered debtor/creditor pair.
func (s *LedgerService) ListDebts(ctx context.Context, req *connect.Request[rpc.ListDebtsRequest]) (*connect.Response[rpc.ListDebtsResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	household, err := requireMembership(ctx, s.store, req.Msg.HouseholdId, userID)
	if err != nil {
		return nil, err
	}

	var records []*models.DebtRecord
	switch {
	case req.Msg.OwedBy != "" && req.Msg.OwedTo != "":
		records, err = s.store.ListDebtsByPair(ctx, household.ID, req.Msg.OwedBy, req.Msg.OwedTo)
	case req.Msg.OwedBy == "" && req.Msg.OwedTo == "":
		records, err = s.store.ListDebtsByHousehold(ctx, household.ID)
	default:
		return nil, connect.NewError(connect.CodeInvalidArgument,
			fmt.Errorf("owed_by and owed_to must be set together"))
	}
	if err != nil {
		slog.Error("ListDebts failed", "household_id", household.ID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	out := make([]*rpc.DebtRecord, len(records))
	for i, rec := range records {
		out[i] = toRPCDebt(rec)
	}

	return connect.NewResponse(&rpc.ListDebtsResponse{
		Records: out,
	}), nil
}

// GetNetBalances returns the household's simplified pairwise balances.
func (s *LedgerService) GetNetBalances(ctx context.Context, req *connect.Request[rpc.GetNetBalancesRequest]) (*connect.Response[rpc.GetNetBalancesResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	household, records, names, err := s.loadLedger(ctx, req.Msg.HouseholdId, userID)
	if err != nil {
		return nil, err
	}

	balances := ledger.NetBalances(records, names)
	out := make([]*rpc.NetBalance, len(balances))
	for i, bal := range balances {
		out[i] = &rpc.NetBalance{
			OwedBy:         bal.OwedBy,
			OwedTo:         bal.OwedTo,
			OwedByUsername: bal.OwedByName,
			OwedToUsername: bal.OwedToName,
			Amount:         bal.Amount.String(),
		}
	}

	slog.Info("GetNetBalances successful",
		"household_id", household.ID,
		"balances_count", len(out),
	)

	return connect.NewResponse(&rpc.GetNetBalancesResponse{
		Balances: out,
	}), nil
}

// ListTransactions returns the household's projected activity feed.
func (s *LedgerService) ListTransactions(ctx context.Context, req *connect.Request[rpc.ListTransactionsRequest]) (*connect.Response[rpc.ListTransactionsResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	_, records, names, err := s.loadLedger(ctx, req.Msg.HouseholdId, userID)
	if err != nil {
		return nil, err
	}

	feed := ledger.Project(records, names)
	out := make([]*rpc.Transaction, len(feed))
	for i, tx := range feed {
		out[i] = toRPCTransaction(tx)
	}

	return connect.NewResponse(&rpc.ListTransactionsResponse{
		Transactions: out,
	}), nil
}

// RecordCashPayment records an out-of-band payment from the caller to the
// payee and allocates it across outstanding debts, smallest first.
func (s *LedgerService) RecordCashPayment(ctx context.Context, req *connect.Request[rpc.RecordCashPaymentRequest]) (*connect.Response[rpc.RecordCashPaymentResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	slog.Info("RecordCashPayment request received",
		"household_id", req.Msg.HouseholdId,
		"payee_id", req.Msg.PayeeId,
		"amount", req.Msg.Amount,
	)

	household, amount, err := s.validatePayment(ctx, userID, req.Msg.HouseholdId, req.Msg.PayeeId, req.Msg.Amount)
	if err != nil {
		return nil, err
	}

	if err := s.applyPayment(ctx, household.ID, userID, req.Msg.PayeeId, amount, models.MethodCash); err != nil {
		return nil, err
	}

	slog.Info("Cash payment recorded",
		"household_id", household.ID,
		"payer_id", userID,
		"payee_id", req.Msg.PayeeId,
	)

	return connect.NewResponse(&rpc.RecordCashPaymentResponse{}), nil
}

// StartPayPalPayment validates the payment, stashes its details in a
// server-side session, and returns the checkout URL to open. Debts are not
// touched until the checkout completes successfully.
func (s *LedgerService) StartPayPalPayment(ctx context.Context, req *connect.Request[rpc.StartPayPalPaymentRequest]) (*connect.Response[rpc.StartPayPalPaymentResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	slog.Info("StartPayPalPayment request received",
		"household_id", req.Msg.HouseholdId,
		"payee_id", req.Msg.PayeeId,
		"amount", req.Msg.Amount,
	)

	household, amount, err := s.validatePayment(ctx, userID, req.Msg.HouseholdId, req.Msg.PayeeId, req.Msg.Amount)
	if err != nil {
		return nil, err
	}

	payee, err := s.store.GetUserByID(ctx, req.Msg.PayeeId)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, connect.NewError(connect.CodeNotFound, err)
		}
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	if payee.PayPalEmail == "" {
		return nil, connect.NewError(connect.CodeFailedPrecondition,
			fmt.Errorf("payee has no PayPal email configured"))
	}

	// Fail before redirecting if the payment could never apply: no
	// outstanding debt, or more than is owed.
	records, err := s.store.ListDebtsByPair(ctx, household.ID, userID, req.Msg.PayeeId)
	if err != nil {
		slog.Error("StartPayPalPayment debt load failed", "household_id", household.ID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	if _, err := ledger.AllocatePayment(records, amount); err != nil {
		return nil, allocationError(err)
	}

	sess := s.sessions.create(household.ID, userID, req.Msg.PayeeId, amount)
	redirect := paypal.PaymentURL(payee.PayPalEmail, amount, s.returnBase)

	slog.Info("PayPal checkout started", "session_id", sess.ID, "household_id", household.ID)

	return connect.NewResponse(&rpc.StartPayPalPaymentResponse{
		SessionId:   sess.ID,
		RedirectUrl: redirect,
	}), nil
}

// CompletePayPalPayment resolves a checkout from the URL the embedded
// browser finally landed on. Only a success outcome mutates debts; the
// session is consumed either way, so a retry starts a fresh checkout.
func (s *LedgerService) CompletePayPalPayment(ctx context.Context, req *connect.Request[rpc.CompletePayPalPaymentRequest]) (*connect.Response[rpc.CompletePayPalPaymentResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	slog.Info("CompletePayPalPayment request received", "session_id", req.Msg.SessionId)

	sess := s.sessions.take(req.Msg.SessionId)
	if sess == nil {
		return nil, connect.NewError(connect.CodeNotFound,
			fmt.Errorf("payment session not found or expired"))
	}
	if sess.PayerID != userID {
		return nil, connect.NewError(connect.CodePermissionDenied,
			fmt.Errorf("payment session belongs to another user"))
	}

	outcome := paypal.ClassifyReturn(req.Msg.ReturnUrl)
	switch outcome {
	case paypal.OutcomeSuccess:
		if err := s.applyPayment(ctx, sess.HouseholdID, sess.PayerID, sess.PayeeID, sess.Amount, models.MethodPayPal); err != nil {
			return nil, err
		}
		slog.Info("PayPal payment recorded",
			"session_id", sess.ID,
			"household_id", sess.HouseholdID,
		)
		return connect.NewResponse(&rpc.CompletePayPalPaymentResponse{Outcome: "success"}), nil
	case paypal.OutcomeCancel:
		slog.Info("PayPal checkout cancelled", "session_id", sess.ID)
		return connect.NewResponse(&rpc.CompletePayPalPaymentResponse{Outcome: "cancel"}), nil
	default:
		slog.Warn("PayPal checkout ended on unrecognized URL", "session_id", sess.ID)
		return connect.NewResponse(&rpc.CompletePayPalPaymentResponse{Outcome: "error"}), nil
	}
}

// validatePayment checks the common preconditions for both payment methods
// and returns the household and parsed amount.
func (s *LedgerService) validatePayment(ctx context.Context, payerID, householdID, payeeID, rawAmount string) (*models.Household, decimal.Decimal, error) {
	household, err := requireMembership(ctx, s.store, householdID, payerID)
	if err != nil {
		return nil, decimal.Zero, err
	}
	if payeeID == "" || payeeID == payerID {
		return nil, decimal.Zero, connect.NewError(connect.CodeInvalidArgument,
			fmt.Errorf("payee must be another member"))
	}
	if !household.HasMember(payeeID) {
		return nil, decimal.Zero, connect.NewError(connect.CodeInvalidArgument,
			fmt.Errorf("payee is not a member of this household"))
	}
	amount, err := money.Parse(rawAmount)
	if err != nil {
		return nil, decimal.Zero, connect.NewError(connect.CodeInvalidArgument, err)
	}
	if amount.Sign() <= 0 {
		return nil, decimal.Zero, connect.NewError(connect.CodeInvalidArgument,
			ledger.ErrNonPositiveAmount)
	}
	return household, amount, nil
}

// applyPayment plans and applies one payment under the pair lock. The plan
// is computed from a fresh read and applied conditionally, so a plan raced
// out by a concurrent writer aborts instead of double-settling.
func (s *LedgerService) applyPayment(ctx context.Context, householdID, payerID, payeeID string, amount decimal.Decimal, method models.PaymentMethod) error {
	unlock := s.pairLocks.lock(householdID, payerID, payeeID)
	defer unlock()

	records, err := s.store.ListDebtsByPair(ctx, householdID, payerID, payeeID)
	if err != nil {
		slog.Error("Payment debt load failed", "household_id", householdID, "error", err)
		return connect.NewError(connect.CodeInternal, err)
	}

	plan, err := ledger.AllocatePayment(records, amount)
	if err != nil {
		slog.Warn("Payment rejected",
			"household_id", householdID,
			"payer_id", payerID,
			"payee_id", payeeID,
			"error", err,
		)
		return allocationError(err)
	}

	if err := s.store.ApplyAllocations(ctx, plan, method, time.Now().Unix()); err != nil {
		slog.Error("Payment application failed", "household_id", householdID, "error", err)
		if errors.Is(err, storage.ErrStaleAllocation) {
			return connect.NewError(connect.CodeAborted, err)
		}
		return connect.NewError(connect.CodeInternal, err)
	}
	return nil
}

// loadLedger fetches a household's records and member display names after a
// membership check.
func (s *LedgerService) loadLedger(ctx context.Context, householdID, userID string) (*models.Household, []*models.DebtRecord, map[string]string, error) {
	household, err := requireMembership(ctx, s.store, householdID, userID)
	if err != nil {
		return nil, nil, nil, err
	}
	records, err := s.store.ListDebtsByHousehold(ctx, household.ID)
	if err != nil {
		slog.Error("Debt load failed", "household_id", household.ID, "error", err)
		return nil, nil, nil, connect.NewError(connect.CodeInternal, err)
	}
	names, err := displayNames(ctx, s.store, household.Members)
	if err != nil {
		slog.Error("Name resolution failed", "household_id", household.ID, "error", err)
		return nil, nil, nil, connect.NewError(connect.CodeInternal, err)
	}
	return household, records, names, nil
}

func allocationError(err error) error {
	switch {
	case errors.Is(err, ledger.ErrNonPositiveAmount):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, ledger.ErrNoOutstandingDebt), errors.Is(err, ledger.ErrOverpayment):
		return connect.NewError(connect.CodeFailedPrecondition, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}

func parseAmounts(raw map[string]string) (map[string]decimal.Decimal, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	amounts := make(map[string]decimal.Decimal, len(raw))
	for id, v := range raw {
		d, err := money.Parse(v)
		if err != nil {
			return nil, fmt.Errorf("amount for %s: %w", id, err)
		}
		amounts[id] = d
	}
	return amounts, nil
}
