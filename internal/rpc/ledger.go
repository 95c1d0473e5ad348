package rpc

import (
	"context"
	"net/http"

	"connectrpc.com/connect"
)

const (
	// LedgerServicePath is the routing prefix for the ledger service.
	LedgerServicePath = "/homesplit.v1.LedgerService/"

	LedgerServiceSplitItemsProcedure            = LedgerServicePath + "SplitItems"
	LedgerServiceListDebtsProcedure             = LedgerServicePath + "ListDebts"
	LedgerServiceGetNetBalancesProcedure        = LedgerServicePath + "GetNetBalances"
	LedgerServiceListTransactionsProcedure      = LedgerServicePath + "ListTransactions"
	LedgerServiceRecordCashPaymentProcedure     = LedgerServicePath + "RecordCashPayment"
	LedgerServiceStartPayPalPaymentProcedure    = LedgerServicePath + "StartPayPalPayment"
	LedgerServiceCompletePayPalPaymentProcedure = LedgerServicePath + "CompletePayPalPayment"
)

// LedgerServiceHandler is the server-side interface for the ledger service.
type LedgerServiceHandler interface {
	SplitItems(context.Context, *connect.Request[SplitItemsRequest]) (*connect.Response[SplitItemsResponse], error)
	ListDebts(context.Context, *connect.Request[ListDebtsRequest]) (*connect.Response[ListDebtsResponse], error)
	GetNetBalances(context.Context, *connect.Request[GetNetBalancesRequest]) (*connect.Response[GetNetBalancesResponse], error)
	ListTransactions(context.Context, *connect.Request[ListTransactionsRequest]) (*connect.Response[ListTransactionsResponse], error)
	RecordCashPayment(context.Context, *connect.Request[RecordCashPaymentRequest]) (*connect.Response[RecordCashPaymentResponse], error)
	StartPayPalPayment(context.Context, *connect.Request[StartPayPalPaymentRequest]) (*connect.Response[StartPayPalPaymentResponse], error)
	CompletePayPalPayment(context.Context, *connect.Request[CompletePayPalPaymentRequest]) (*connect.Response[CompletePayPalPaymentResponse], error)
}

// NewLedgerServiceHandler returns the path prefix and handler to mount.
func NewLedgerServiceHandler(svc LedgerServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	mux := http.NewServeMux()
	mux.Handle(LedgerServiceSplitItemsProcedure,
		connect.NewUnaryHandler(LedgerServiceSplitItemsProcedure, svc.SplitItems, opts...))
	mux.Handle(LedgerServiceListDebtsProcedure,
		connect.NewUnaryHandler(LedgerServiceListDebtsProcedure, svc.ListDebts, opts...))
	mux.Handle(LedgerServiceGetNetBalancesProcedure,
		connect.NewUnaryHandler(LedgerServiceGetNetBalancesProcedure, svc.GetNetBalances, opts...))
	mux.Handle(LedgerServiceListTransactionsProcedure,
		connect.NewUnaryHandler(LedgerServiceListTransactionsProcedure, svc.ListTransactions, opts...))
	mux.Handle(LedgerServiceRecordCashPaymentProcedure,
		connect.NewUnaryHandler(LedgerServiceRecordCashPaymentProcedure, svc.RecordCashPayment, opts...))
	mux.Handle(LedgerServiceStartPayPalPaymentProcedure,
		connect.NewUnaryHandler(LedgerServiceStartPayPalPaymentProcedure, svc.StartPayPalPayment, opts...))
	mux.Handle(LedgerServiceCompletePayPalPaymentProcedure,
		connect.NewUnaryHandler(LedgerServiceCompletePayPalPaymentProcedure, svc.CompletePayPalPayment, opts...))
	return LedgerServicePath, mux
}

// LedgerServiceClient is the client-side interface for the ledger service.
type LedgerServiceClient interface {
	SplitItems(context.Context, *connect.Request[SplitItemsRequest]) (*connect.Response[SplitItemsResponse], error)
	ListDebts(context.Context, *connect.Request[ListDebtsRequest]) (*connect.Response[ListDebtsResponse], error)
	GetNetBalances(context.Context, *connect.Request[GetNetBalancesRequest]) (*connect.Response[GetNetBalancesResponse], error)
	ListTransactions(context.Context, *connect.Request[ListTransactionsRequest]) (*connect.Response[ListTransactionsResponse], error)
	RecordCashPayment(context.Context, *connect.Request[RecordCashPaymentRequest]) (*connect.Response[RecordCashPaymentResponse], error)
	StartPayPalPayment(context.Context, *connect.Request[StartPayPalPaymentRequest]) (*connect.Response[StartPayPalPaymentResponse], error)
	CompletePayPalPayment(context.Context, *connect.Request[CompletePayPalPaymentRequest]) (*connect.Response[CompletePayPalPaymentResponse], error)
}

type ledgerServiceClient struct {
	splitItems            *connect.Client[SplitItemsRequest, SplitItemsResponse]
	listDebts             *connect.Client[ListDebtsRequest, ListDebtsResponse]
	getNetBalances        *connect.Client[GetNetBalancesRequest, GetNetBalancesResponse]
	listTransactions      *connect.Client[ListTransactionsRequest, ListTransactionsResponse]
	recordCashPayment     *connect.Client[RecordCashPaymentRequest, RecordCashPaymentResponse]
	startPayPalPayment    *connect.Client[StartPayPalPaymentRequest, StartPayPalPaymentResponse]
	completePayPalPayment *connect.Client[CompletePayPalPaymentRequest, CompletePayPalPaymentResponse]
}

// NewLedgerServiceClient constructs a client for the ledger service.
func NewLedgerServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) LedgerServiceClient {
	opts = clientOptions(opts)
	return &ledgerServiceClient{
		splitItems: connect.NewClient[SplitItemsRequest, SplitItemsResponse](
			httpClient, baseURL+LedgerServiceSplitItemsProcedure, opts...),
		listDebts: connect.NewClient[ListDebtsRequest, ListDebtsResponse](
			httpClient, baseURL+LedgerServiceListDebtsProcedure, opts...),
		getNetBalances: connect.NewClient[GetNetBalancesRequest, GetNetBalancesResponse](
			httpClient, baseURL+LedgerServiceGetNetBalancesProcedure, opts...),
		listTransactions: connect.NewClient[ListTransactionsRequest, ListTransactionsResponse](
			httpClient, baseURL+LedgerServiceListTransactionsProcedure, opts...),
		recordCashPayment: connect.NewClient[RecordCashPaymentRequest, RecordCashPaymentResponse](
			httpClient, baseURL+LedgerServiceRecordCashPaymentProcedure, opts...),
		startPayPalPayment: connect.NewClient[StartPayPalPaymentRequest, StartPayPalPaymentResponse](
			httpClient, baseURL+LedgerServiceStartPayPalPaymentProcedure, opts...),
		completePayPalPayment: connect.NewClient[CompletePayPalPaymentRequest, CompletePayPalPaymentResponse](
			httpClient, baseURL+LedgerServiceCompletePayPalPaymentProcedure, opts...),
	}
}

func (c *ledgerServiceClient) SplitItems(ctx context.Context, req *connect.Request[SplitItemsRequest]) (*connect.Response[SplitItemsResponse], error) {
	return c.splitItems.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) ListDebts(ctx context.Context, req *connect.Request[ListDebtsRequest]) (*connect.Response[ListDebtsResponse], error) {
	return c.listDebts.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) GetNetBalances(ctx context.Context, req *connect.Request[GetNetBalancesRequest]) (*connect.Response[GetNetBalancesResponse], error) {
	return c.getNetBalances.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) ListTransactions(ctx context.Context, req *connect.Request[ListTransactionsRequest]) (*connect.Response[ListTransactionsResponse], error) {
	return c.listTransactions.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) RecordCashPayment(ctx context.Context, req *connect.Request[RecordCashPaymentRequest]) (*connect.Response[RecordCashPaymentResponse], error) {
	return c.recordCashPayment.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) StartPayPalPayment(ctx context.Context, req *connect.Request[StartPayPalPaymentRequest]) (*connect.Response[StartPayPalPaymentResponse], error) {
	return c.startPayPalPayment.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) CompletePayPalPayment(ctx context.Context, req *connect.Request[CompletePayPalPaymentRequest]) (*connect.Response[CompletePayPalPaymentResponse], error) {
	return c.completePayPalPayment.CallUnary(ctx, req)
}
