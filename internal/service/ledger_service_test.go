package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"

	"github.com/homesplit/homesplit/internal/middleware"
	"github.com/homesplit/homesplit/internal/models"
	"github.com/homesplit/homesplit/internal/rpc"
	"github.com/homesplit/homesplit/internal/storage/sqlite"
)

// testAuthInterceptor reads the acting user from a test-only header so one
// server can serve requests from several identities.
func testAuthInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if user := req.Header().Get("Test-User"); user != "" {
				ctx = middleware.WithUser(ctx, user, user+"@example.com")
			}
			return next(ctx, req)
		}
	}
}

type testEnv struct {
	ledger    rpc.LedgerServiceClient
	shopping  rpc.ShoppingServiceClient
	household rpc.HouseholdServiceClient
}

// setupTestServer creates a test server over a temp SQLite database, seeded
// with three users: alice, bob, and carol. Only alice has a PayPal email.
func setupTestServer(t *testing.T) (testEnv, func()) {
	t.Helper()

	tmpFile, err := os.CreateTemp("", "test-*.db")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	tmpFile.Close()

	store, err := sqlite.New(tmpFile.Name())
	if err != nil {
		os.Remove(tmpFile.Name())
		t.Fatalf("failed to create store: %v", err)
	}

	for _, u := range []*models.User{
		{ID: "alice", Email: "alice@example.com", DisplayName: "Alice", PayPalEmail: "alice@paypal.example.com"},
		{ID: "bob", Email: "bob@example.com", DisplayName: "Bob"},
		{ID: "carol", Email: "carol@example.com", DisplayName: "Carol"},
	} {
		if err := store.CreateUser(context.Background(), u); err != nil {
			t.Fatalf("failed to seed user %s: %v", u.ID, err)
		}
	}

	interceptor := connect.WithInterceptors(testAuthInterceptor())

	mux := http.NewServeMux()
	ledgerPath, ledgerHandler := rpc.NewLedgerServiceHandler(NewLedgerService(store, "https://app.example.com"), interceptor)
	mux.Handle(ledgerPath, ledgerHandler)
	shoppingPath, shoppingHandler := rpc.NewShoppingServiceHandler(NewShoppingService(store), interceptor)
	mux.Handle(shoppingPath, shoppingHandler)
	householdPath, householdHandler := rpc.NewHouseholdServiceHandler(NewHouseholdService(store), interceptor)
	mux.Handle(householdPath, householdHandler)

	server := httptest.NewServer(mux)

	env := testEnv{
		ledger:    rpc.NewLedgerServiceClient(http.DefaultClient, server.URL),
		shopping:  rpc.NewShoppingServiceClient(http.DefaultClient, server.URL),
		household: rpc.NewHouseholdServiceClient(http.DefaultClient, server.URL),
	}
	cleanup := func() {
		server.Close()
		store.Close()
		os.Remove(tmpFile.Name())
	}
	return env, cleanup
}

// as stamps the test identity header on a request.
func as[T any](req *connect.Request[T], userID string) *connect.Request[T] {
	req.Header().Set("Test-User", userID)
	return req
}

// createHousehold creates a household as alice with bob and carol as members.
func createHousehold(t *testing.T, env testEnv) string {
	t.Helper()
	resp, err := env.household.CreateHousehold(context.Background(),
		as(connect.NewRequest(&rpc.CreateHouseholdRequest{
			Name:      "Flat 12",
			MemberIds: []string{"bob", "carol"},
		}), "alice"))
	if err != nil {
		t.Fatalf("CreateHousehold failed: %v", err)
	}
	return resp.Msg.Household.Id
}

// purchasedItem adds an item as alice and marks it purchased at the given
// cost, returning its ID.
func purchasedItem(t *testing.T, env testEnv, householdID, name, cost string) string {
	t.Helper()
	addResp, err := env.shopping.AddItem(context.Background(),
		as(connect.NewRequest(&rpc.AddItemRequest{
			HouseholdId: householdID,
			Name:        name,
		}), "alice"))
	if err != nil {
		t.Fatalf("AddItem failed: %v", err)
	}
	_, err = env.shopping.MarkPurchased(context.Background(),
		as(connect.NewRequest(&rpc.MarkPurchasedRequest{
			ItemId: addResp.Msg.Item.Id,
			Cost:   cost,
		}), "alice"))
	if err != nil {
		t.Fatalf("MarkPurchased failed: %v", err)
	}
	return addResp.Msg.Item.Id
}

func TestSplitItems_EqualSplit(t *testing.T) {
	env, cleanup := setupTestServer(t)
	defer cleanup()

	householdID := createHousehold(t, env)
	itemID := purchasedItem(t, env, householdID, "Groceries", "45.00")

	resp, err := env.ledger.SplitItems(context.Background(),
		as(connect.NewRequest(&rpc.SplitItemsRequest{
			HouseholdId: householdID,
			ItemIds:     []string{itemID},
			MemberIds:   []string{"bob", "carol"},
		}), "alice"))
	if err != nil {
		t.Fatalf("SplitItems failed: %v", err)
	}

	// 45 split three ways (bob, carol, and alice's implicit share) is 15 each.
	if len(resp.Msg.Records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(resp.Msg.Records))
	}
	for _, rec := range resp.Msg.Records {
		if rec.Amount != "15" {
			t.Errorf("record for %s: expected amount 15, got %s", rec.OwedBy, rec.Amount)
		}
		if rec.OwedTo != "alice" {
			t.Errorf("record for %s: expected owed_to alice, got %s", rec.OwedBy, rec.OwedTo)
		}
		if rec.Status != string(models.DebtActive) {
			t.Errorf("record for %s: expected active, got %s", rec.OwedBy, rec.Status)
		}
		if len(rec.Items) != 1 || rec.Items[0].Name != "Groceries" {
			t.Errorf("record for %s: expected item snapshot, got %+v", rec.OwedBy, rec.Items)
		}
	}

	// The items are consumed: splitting again finds nothing to split.
	_, err = env.ledger.SplitItems(context.Background(),
		as(connect.NewRequest(&rpc.SplitItemsRequest{
			HouseholdId: householdID,
			ItemIds:     []string{itemID},
			MemberIds:   []string{"bob"},
		}), "alice"))
	if connect.CodeOf(err) != connect.CodeFailedPrecondition {
		t.Errorf("expected CodeFailedPrecondition re-splitting, got %v", err)
	}
}

func TestSplitItems_CustomAmountMismatch(t *testing.T) {
	env, cleanup := setupTestServer(t)
	defer cleanup()

	householdID := createHousehold(t, env)
	itemID := purchasedItem(t, env, householdID, "Cleaning supplies", "30.00")

	_, err := env.ledger.SplitItems(context.Background(),
		as(connect.NewRequest(&rpc.SplitItemsRequest{
			HouseholdId:   householdID,
			ItemIds:       []string{itemID},
			MemberIds:     []string{"bob"},
			CustomAmounts: map[string]string{"bob": "10.00", "alice": "10.00"},
		}), "alice"))
	if connect.CodeOf(err) != connect.CodeInvalidArgument {
		t.Errorf("expected CodeInvalidArgument for mismatched amounts, got %v", err)
	}
}

func TestSplitItems_UnpurchasedItemRejected(t *testing.T) {
	env, cleanup := setupTestServer(t)
	defer cleanup()

	householdID := createHousehold(t, env)
	addResp, err := env.shopping.AddItem(context.Background(),
		as(connect.NewRequest(&rpc.AddItemRequest{
			HouseholdId: householdID,
			Name:        "Milk",
		}), "alice"))
	if err != nil {
		t.Fatalf("AddItem failed: %v", err)
	}

	_, err = env.ledger.SplitItems(context.Background(),
		as(connect.NewRequest(&rpc.SplitItemsRequest{
			HouseholdId: householdID,
			ItemIds:     []string{addResp.Msg.Item.Id},
			MemberIds:   []string{"bob"},
		}), "alice"))
	if connect.CodeOf(err) != connect.CodeFailedPrecondition {
		t.Errorf("expected CodeFailedPrecondition for unpurchased item, got %v", err)
	}
}

func TestSplitItems_DuplicateItemRejected(t *testing.T) {
	env, cleanup := setupTestServer(t)
	defer cleanup()

	householdID := createHousehold(t, env)
	itemID := purchasedItem(t, env, householdID, "Groceries", "30.00")

	// Listing the same item twice would double-count its cost: 60 split
	// three ways bills 20 per member for a 30 purchase.
	_, err := env.ledger.SplitItems(context.Background(),
		as(connect.NewRequest(&rpc.SplitItemsRequest{
			HouseholdId: householdID,
			ItemIds:     []string{itemID, itemID},
			MemberIds:   []string{"bob", "carol"},
		}), "alice"))
	if connect.CodeOf(err) != connect.CodeInvalidArgument {
		t.Errorf("expected CodeInvalidArgument for repeated item, got %v", err)
	}

	listResp, err := env.ledger.ListDebts(context.Background(),
		as(connect.NewRequest(&rpc.ListDebtsRequest{
			HouseholdId: householdID,
		}), "alice"))
	if err != nil {
		t.Fatalf("ListDebts failed: %v", err)
	}
	if len(listResp.Msg.Records) != 0 {
		t.Errorf("expected no records after rejected split, got %d", len(listResp.Msg.Records))
	}
}

func TestSplitItems_DuplicateMemberRejected(t *testing.T) {
	env, cleanup := setupTestServer(t)
	defer cleanup()

	householdID := createHousehold(t, env)
	itemID := purchasedItem(t, env, householdID, "Groceries", "30.00")

	// Listing bob twice would divide by three but record a single 10 debt,
	// losing a third of the purchase.
	_, err := env.ledger.SplitItems(context.Background(),
		as(connect.NewRequest(&rpc.SplitItemsRequest{
			HouseholdId: householdID,
			ItemIds:     []string{itemID},
			MemberIds:   []string{"bob", "bob"},
		}), "alice"))
	if connect.CodeOf(err) != connect.CodeInvalidArgument {
		t.Errorf("expected CodeInvalidArgument for repeated member, got %v", err)
	}

	listResp, err := env.ledger.ListDebts(context.Background(),
		as(connect.NewRequest(&rpc.ListDebtsRequest{
			HouseholdId: householdID,
		}), "alice"))
	if err != nil {
		t.Fatalf("ListDebts failed: %v", err)
	}
	if len(listResp.Msg.Records) != 0 {
		t.Errorf("expected no records after rejected split, got %d", len(listResp.Msg.Records))
	}

	// The items stay splittable.
	splitResp, err := env.ledger.SplitItems(context.Background(),
		as(connect.NewRequest(&rpc.SplitItemsRequest{
			HouseholdId: householdID,
			ItemIds:     []string{itemID},
			MemberIds:   []string{"bob", "carol"},
		}), "alice"))
	if err != nil {
		t.Fatalf("SplitItems after rejection failed: %v", err)
	}
	if len(splitResp.Msg.Records) != 2 {
		t.Errorf("expected 2 records, got %d", len(splitResp.Msg.Records))
	}
}

func TestSplitItems_NonMemberRejected(t *testing.T) {
	env, cleanup := setupTestServer(t)
	defer cleanup()

	// A household without carol.
	resp, err := env.household.CreateHousehold(context.Background(),
		as(connect.NewRequest(&rpc.CreateHouseholdRequest{
			Name:      "Flat 13",
			MemberIds: []string{"bob"},
		}), "alice"))
	if err != nil {
		t.Fatalf("CreateHousehold failed: %v", err)
	}
	householdID := resp.Msg.Household.Id
	itemID := purchasedItem(t, env, householdID, "Bread", "4.00")

	_, err = env.ledger.SplitItems(context.Background(),
		as(connect.NewRequest(&rpc.SplitItemsRequest{
			HouseholdId: householdID,
			ItemIds:     []string{itemID},
			MemberIds:   []string{"carol"},
		}), "alice"))
	if connect.CodeOf(err) != connect.CodeInvalidArgument {
		t.Errorf("expected CodeInvalidArgument for non-member debtor, got %v", err)
	}
}

// splitWithAmount creates one debt where bob owes alice exactly owed, using
// an item costing twice that and a custom half-and-half assignment.
func splitWithAmount(t *testing.T, env testEnv, householdID, name, owed string) {
	t.Helper()
	total := decimal.RequireFromString(owed).Mul(decimal.NewFromInt(2))
	itemID := purchasedItem(t, env, householdID, name, total.StringFixed(2))
	_, err := env.ledger.SplitItems(context.Background(),
		as(connect.NewRequest(&rpc.SplitItemsRequest{
			HouseholdId:   householdID,
			ItemIds:       []string{itemID},
			MemberIds:     []string{"bob"},
			CustomAmounts: map[string]string{"bob": owed, "alice": owed},
		}), "alice"))
	if err != nil {
		t.Fatalf("SplitItems for %s failed: %v", name, err)
	}
}

func TestRecordCashPayment_SmallestDebtFirst(t *testing.T) {
	env, cleanup := setupTestServer(t)
	defer cleanup()

	householdID := createHousehold(t, env)
	splitWithAmount(t, env, householdID, "Small run", "10.00")
	splitWithAmount(t, env, householdID, "Big shop", "30.00")

	// Bob pays 15: the 10 debt settles, 5 lands on the 30 debt.
	_, err := env.ledger.RecordCashPayment(context.Background(),
		as(connect.NewRequest(&rpc.RecordCashPaymentRequest{
			HouseholdId: householdID,
			PayeeId:     "alice",
			Amount:      "15.00",
		}), "bob"))
	if err != nil {
		t.Fatalf("RecordCashPayment failed: %v", err)
	}

	listResp, err := env.ledger.ListDebts(context.Background(),
		as(connect.NewRequest(&rpc.ListDebtsRequest{
			HouseholdId: householdID,
			OwedBy:      "bob",
			OwedTo:      "alice",
		}), "bob"))
	if err != nil {
		t.Fatalf("ListDebts failed: %v", err)
	}
	if len(listResp.Msg.Records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(listResp.Msg.Records))
	}

	byAmount := make(map[string]*rpc.DebtRecord)
	for _, rec := range listResp.Msg.Records {
		byAmount[rec.Amount] = rec
	}

	small := byAmount["10"]
	if small == nil {
		t.Fatal("missing 10 record")
	}
	if small.Status != string(models.DebtSettled) || small.RepaymentAmount != "10" {
		t.Errorf("small debt: expected settled/10, got %s/%s", small.Status, small.RepaymentAmount)
	}

	big := byAmount["30"]
	if big == nil {
		t.Fatal("missing 30 record")
	}
	if big.Status != string(models.DebtActive) || big.RepaymentAmount != "5" {
		t.Errorf("big debt: expected active/5, got %s/%s", big.Status, big.RepaymentAmount)
	}
	if len(big.Repayments) != 1 || big.Repayments[0].Method != string(models.MethodCash) {
		t.Errorf("big debt: expected one cash repayment, got %+v", big.Repayments)
	}
}

func TestRecordCashPayment_OverpaymentRejected(t *testing.T) {
	env, cleanup := setupTestServer(t)
	defer cleanup()

	householdID := createHousehold(t, env)
	splitWithAmount(t, env, householdID, "Small run", "10.00")

	_, err := env.ledger.RecordCashPayment(context.Background(),
		as(connect.NewRequest(&rpc.RecordCashPaymentRequest{
			HouseholdId: householdID,
			PayeeId:     "alice",
			Amount:      "10.01",
		}), "bob"))
	if connect.CodeOf(err) != connect.CodeFailedPrecondition {
		t.Errorf("expected CodeFailedPrecondition for overpayment, got %v", err)
	}

	// Nothing was written.
	listResp, err := env.ledger.ListDebts(context.Background(),
		as(connect.NewRequest(&rpc.ListDebtsRequest{
			HouseholdId: householdID,
			OwedBy:      "bob",
			OwedTo:      "alice",
		}), "bob"))
	if err != nil {
		t.Fatalf("ListDebts failed: %v", err)
	}
	if listResp.Msg.Records[0].RepaymentAmount != "0" {
		t.Errorf("expected untouched repayment amount, got %s", listResp.Msg.Records[0].RepaymentAmount)
	}
}

func TestRecordCashPayment_NoOutstandingDebt(t *testing.T) {
	env, cleanup := setupTestServer(t)
	defer cleanup()

	householdID := createHousehold(t, env)

	_, err := env.ledger.RecordCashPayment(context.Background(),
		as(connect.NewRequest(&rpc.RecordCashPaymentRequest{
			HouseholdId: householdID,
			PayeeId:     "alice",
			Amount:      "5.00",
		}), "bob"))
	if connect.CodeOf(err) != connect.CodeFailedPrecondition {
		t.Errorf("expected CodeFailedPrecondition with no debts, got %v", err)
	}
}

func TestRecordCashPayment_SelfPaymentRejected(t *testing.T) {
	env, cleanup := setupTestServer(t)
	defer cleanup()

	householdID := createHousehold(t, env)

	_, err := env.ledger.RecordCashPayment(context.Background(),
		as(connect.NewRequest(&rpc.RecordCashPaymentRequest{
			HouseholdId: householdID,
			PayeeId:     "bob",
			Amount:      "5.00",
		}), "bob"))
	if connect.CodeOf(err) != connect.CodeInvalidArgument {
		t.Errorf("expected CodeInvalidArgument for self payment, got %v", err)
	}
}

func TestGetNetBalances_MutualDebtsCancel(t *testing.T) {
	env, cleanup := setupTestServer(t)
	defer cleanup()

	householdID := createHousehold(t, env)
	// Bob owes alice 30.
	splitWithAmount(t, env, householdID, "Big shop", "30.00")

	// Alice owes bob 10: bob buys and splits with alice.
	addResp, err := env.shopping.AddItem(context.Background(),
		as(connect.NewRequest(&rpc.AddItemRequest{
			HouseholdId: householdID,
			Name:        "Takeaway",
		}), "bob"))
	if err != nil {
		t.Fatalf("AddItem failed: %v", err)
	}
	if _, err := env.shopping.MarkPurchased(context.Background(),
		as(connect.NewRequest(&rpc.MarkPurchasedRequest{
			ItemId: addResp.Msg.Item.Id,
			Cost:   "20.00",
		}), "bob")); err != nil {
		t.Fatalf("MarkPurchased failed: %v", err)
	}
	if _, err := env.ledger.SplitItems(context.Background(),
		as(connect.NewRequest(&rpc.SplitItemsRequest{
			HouseholdId:   householdID,
			ItemIds:       []string{addResp.Msg.Item.Id},
			MemberIds:     []string{"alice"},
			CustomAmounts: map[string]string{"alice": "10.00", "bob": "10.00"},
		}), "bob")); err != nil {
		t.Fatalf("SplitItems as bob failed: %v", err)
	}

	resp, err := env.ledger.GetNetBalances(context.Background(),
		as(connect.NewRequest(&rpc.GetNetBalancesRequest{
			HouseholdId: householdID,
		}), "alice"))
	if err != nil {
		t.Fatalf("GetNetBalances failed: %v", err)
	}

	// 30 against 10 nets to one balance: bob owes alice 20.
	if len(resp.Msg.Balances) != 1 {
		t.Fatalf("expected 1 net balance, got %d", len(resp.Msg.Balances))
	}
	bal := resp.Msg.Balances[0]
	if bal.OwedBy != "bob" || bal.OwedTo != "alice" {
		t.Errorf("expected bob owes alice, got %s owes %s", bal.OwedBy, bal.OwedTo)
	}
	if bal.Amount != "20" {
		t.Errorf("expected net 20, got %s", bal.Amount)
	}
	if bal.OwedByUsername != "Bob" || bal.OwedToUsername != "Alice" {
		t.Errorf("expected resolved names, got %s/%s", bal.OwedByUsername, bal.OwedToUsername)
	}
}

func TestListTransactions_FeedShape(t *testing.T) {
	env, cleanup := setupTestServer(t)
	defer cleanup()

	householdID := createHousehold(t, env)
	splitWithAmount(t, env, householdID, "Weekly shop", "20.00")

	if _, err := env.ledger.RecordCashPayment(context.Background(),
		as(connect.NewRequest(&rpc.RecordCashPaymentRequest{
			HouseholdId: householdID,
			PayeeId:     "alice",
			Amount:      "8.00",
		}), "bob")); err != nil {
		t.Fatalf("RecordCashPayment failed: %v", err)
	}

	resp, err := env.ledger.ListTransactions(context.Background(),
		as(connect.NewRequest(&rpc.ListTransactionsRequest{
			HouseholdId: householdID,
		}), "alice"))
	if err != nil {
		t.Fatalf("ListTransactions failed: %v", err)
	}

	// One item entry, one repayment entry, one balance entry.
	if len(resp.Msg.Transactions) != 3 {
		t.Fatalf("expected 3 feed entries, got %d", len(resp.Msg.Transactions))
	}
	kinds := make(map[string]*rpc.Transaction)
	for _, tx := range resp.Msg.Transactions {
		kinds[tx.Kind] = tx
	}
	if item := kinds["item"]; item == nil || item.Description != "Weekly shop" {
		t.Errorf("expected item entry for Weekly shop, got %+v", item)
	}
	if rep := kinds["repayment"]; rep == nil || rep.Amount != "8" || rep.Method != string(models.MethodCash) {
		t.Errorf("expected cash repayment of 8, got %+v", rep)
	}
	if bal := kinds["balance"]; bal == nil || bal.Amount != "12" {
		t.Errorf("expected balance entry of 12, got %+v", bal)
	}
}

func TestPayPalFlow_Success(t *testing.T) {
	env, cleanup := setupTestServer(t)
	defer cleanup()

	householdID := createHousehold(t, env)
	splitWithAmount(t, env, householdID, "Big shop", "30.00")

	startResp, err := env.ledger.StartPayPalPayment(context.Background(),
		as(connect.NewRequest(&rpc.StartPayPalPaymentRequest{
			HouseholdId: householdID,
			PayeeId:     "alice",
			Amount:      "30.00",
		}), "bob"))
	if err != nil {
		t.Fatalf("StartPayPalPayment failed: %v", err)
	}
	if startResp.Msg.SessionId == "" {
		t.Fatal("expected a session ID")
	}
	if !strings.Contains(startResp.Msg.RedirectUrl, "business=alice%40paypal.example.com") {
		t.Errorf("redirect URL missing recipient: %s", startResp.Msg.RedirectUrl)
	}
	if !strings.Contains(startResp.Msg.RedirectUrl, "amount=30.00") {
		t.Errorf("redirect URL missing amount: %s", startResp.Msg.RedirectUrl)
	}

	completeResp, err := env.ledger.CompletePayPalPayment(context.Background(),
		as(connect.NewRequest(&rpc.CompletePayPalPaymentRequest{
			SessionId: startResp.Msg.SessionId,
			ReturnUrl: "https://app.example.com/paypal/success?st=Completed",
		}), "bob"))
	if err != nil {
		t.Fatalf("CompletePayPalPayment failed: %v", err)
	}
	if completeResp.Msg.Outcome != "success" {
		t.Errorf("expected success outcome, got %s", completeResp.Msg.Outcome)
	}

	listResp, err := env.ledger.ListDebts(context.Background(),
		as(connect.NewRequest(&rpc.ListDebtsRequest{
			HouseholdId: householdID,
			OwedBy:      "bob",
			OwedTo:      "alice",
		}), "bob"))
	if err != nil {
		t.Fatalf("ListDebts failed: %v", err)
	}
	rec := listResp.Msg.Records[0]
	if rec.Status != string(models.DebtSettled) {
		t.Errorf("expected settled debt, got %s", rec.Status)
	}
	if len(rec.Repayments) != 1 || rec.Repayments[0].Method != string(models.MethodPayPal) {
		t.Errorf("expected one paypal repayment, got %+v", rec.Repayments)
	}

	// The session is single-use.
	_, err = env.ledger.CompletePayPalPayment(context.Background(),
		as(connect.NewRequest(&rpc.CompletePayPalPaymentRequest{
			SessionId: startResp.Msg.SessionId,
			ReturnUrl: "https://app.example.com/paypal/success",
		}), "bob"))
	if connect.CodeOf(err) != connect.CodeNotFound {
		t.Errorf("expected CodeNotFound replaying session, got %v", err)
	}
}

func TestPayPalFlow_CancelLeavesDebtsUntouched(t *testing.T) {
	env, cleanup := setupTestServer(t)
	defer cleanup()

	householdID := createHousehold(t, env)
	splitWithAmount(t, env, householdID, "Big shop", "30.00")

	startResp, err := env.ledger.StartPayPalPayment(context.Background(),
		as(connect.NewRequest(&rpc.StartPayPalPaymentRequest{
			HouseholdId: householdID,
			PayeeId:     "alice",
			Amount:      "30.00",
		}), "bob"))
	if err != nil {
		t.Fatalf("StartPayPalPayment failed: %v", err)
	}

	completeResp, err := env.ledger.CompletePayPalPayment(context.Background(),
		as(connect.NewRequest(&rpc.CompletePayPalPaymentRequest{
			SessionId: startResp.Msg.SessionId,
			ReturnUrl: "https://app.example.com/paypal/cancel",
		}), "bob"))
	if err != nil {
		t.Fatalf("CompletePayPalPayment failed: %v", err)
	}
	if completeResp.Msg.Outcome != "cancel" {
		t.Errorf("expected cancel outcome, got %s", completeResp.Msg.Outcome)
	}

	listResp, err := env.ledger.ListDebts(context.Background(),
		as(connect.NewRequest(&rpc.ListDebtsRequest{
			HouseholdId: householdID,
			OwedBy:      "bob",
			OwedTo:      "alice",
		}), "bob"))
	if err != nil {
		t.Fatalf("ListDebts failed: %v", err)
	}
	if listResp.Msg.Records[0].RepaymentAmount != "0" {
		t.Errorf("expected untouched debt after cancel, got repayment %s",
			listResp.Msg.Records[0].RepaymentAmount)
	}
}

func TestStartPayPalPayment_PayeeWithoutPayPal(t *testing.T) {
	env, cleanup := setupTestServer(t)
	defer cleanup()

	householdID := createHousehold(t, env)

	// Alice tries to pay bob via PayPal; bob has no PayPal email. The email
	// check runs before the outstanding-debt check, so no debt is needed.
	_, err := env.ledger.StartPayPalPayment(context.Background(),
		as(connect.NewRequest(&rpc.StartPayPalPaymentRequest{
			HouseholdId: householdID,
			PayeeId:     "bob",
			Amount:      "5.00",
		}), "alice"))
	if connect.CodeOf(err) != connect.CodeFailedPrecondition {
		t.Errorf("expected CodeFailedPrecondition without PayPal email, got %v", err)
	}
}

func TestLedger_RequiresAuthentication(t *testing.T) {
	env, cleanup := setupTestServer(t)
	defer cleanup()

	_, err := env.ledger.GetNetBalances(context.Background(),
		connect.NewRequest(&rpc.GetNetBalancesRequest{HouseholdId: "any"}))
	if connect.CodeOf(err) != connect.CodeUnauthenticated {
		t.Errorf("expected CodeUnauthenticated, got %v", err)
	}
}

func TestLedger_NonMemberDenied(t *testing.T) {
	env, cleanup := setupTestServer(t)
	defer cleanup()

	resp, err := env.household.CreateHousehold(context.Background(),
		as(connect.NewRequest(&rpc.CreateHouseholdRequest{
			Name:      "Flat 14",
			MemberIds: []string{"bob"},
		}), "alice"))
	if err != nil {
		t.Fatalf("CreateHousehold failed: %v", err)
	}

	_, err = env.ledger.GetNetBalances(context.Background(),
		as(connect.NewRequest(&rpc.GetNetBalancesRequest{
			HouseholdId: resp.Msg.Household.Id,
		}), "carol"))
	if connect.CodeOf(err) != connect.CodePermissionDenied {
		t.Errorf("expected CodePermissionDenied for non-member, got %v", err)
	}
}
