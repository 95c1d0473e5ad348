package rpc

import (
	"context"
	"net/http"

	"connectrpc.com/connect"
)

const (
	// ShoppingServicePath is the routing prefix for the shopping service.
	ShoppingServicePath = "/homesplit.v1.ShoppingService/"

	ShoppingServiceAddItemProcedure       = ShoppingServicePath + "AddItem"
	ShoppingServiceListItemsProcedure     = ShoppingServicePath + "ListItems"
	ShoppingServiceMarkPurchasedProcedure = ShoppingServicePath + "MarkPurchased"
	ShoppingServiceSetPinnedProcedure     = ShoppingServicePath + "SetPinned"
)

// ShoppingServiceHandler is the server-side interface for the shopping
// service.
type ShoppingServiceHandler interface {
	AddItem(context.Context, *connect.Request[AddItemRequest]) (*connect.Response[AddItemResponse], error)
	ListItems(context.Context, *connect.Request[ListItemsRequest]) (*connect.Response[ListItemsResponse], error)
	MarkPurchased(context.Context, *connect.Request[MarkPurchasedRequest]) (*connect.Response[MarkPurchasedResponse], error)
	SetPinned(context.Context, *connect.Request[SetPinnedRequest]) (*connect.Response[SetPinnedResponse], error)
}

// NewShoppingServiceHandler returns the path prefix and handler to mount.
func NewShoppingServiceHandler(svc ShoppingServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	mux := http.NewServeMux()
	mux.Handle(ShoppingServiceAddItemProcedure,
		connect.NewUnaryHandler(ShoppingServiceAddItemProcedure, svc.AddItem, opts...))
	mux.Handle(ShoppingServiceListItemsProcedure,
		connect.NewUnaryHandler(ShoppingServiceListItemsProcedure, svc.ListItems, opts...))
	mux.Handle(ShoppingServiceMarkPurchasedProcedure,
		connect.NewUnaryHandler(ShoppingServiceMarkPurchasedProcedure, svc.MarkPurchased, opts...))
	mux.Handle(ShoppingServiceSetPinnedProcedure,
		connect.NewUnaryHandler(ShoppingServiceSetPinnedProcedure, svc.SetPinned, opts...))
	return ShoppingServicePath, mux
}

// ShoppingServiceClient is the client-side interface for the shopping
// service.
type ShoppingServiceClient interface {
	AddItem(context.Context, *connect.Request[AddItemRequest]) (*connect.Response[AddItemResponse], error)
	ListItems(context.Context, *connect.Request[ListItemsRequest]) (*connect.Response[ListItemsResponse], error)
	MarkPurchased(context.Context, *connect.Request[MarkPurchasedRequest]) (*connect.Response[MarkPurchasedResponse], error)
	SetPinned(context.Context, *connect.Request[SetPinnedRequest]) (*connect.Response[SetPinnedResponse], error)
}

type shoppingServiceClient struct {
	addItem       *connect.Client[AddItemRequest, AddItemResponse]
	listItems     *connect.Client[ListItemsRequest, ListItemsResponse]
	markPurchased *connect.Client[MarkPurchasedRequest, MarkPurchasedResponse]
	setPinned     *connect.Client[SetPinnedRequest, SetPinnedResponse]
}

// NewShoppingServiceClient constructs a client for the shopping service.
func NewShoppingServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) ShoppingServiceClient {
	opts = clientOptions(opts)
	return &shoppingServiceClient{
		addItem: connect.NewClient[AddItemRequest, AddItemResponse](
			httpClient, baseURL+ShoppingServiceAddItemProcedure, opts...),
		listItems: connect.NewClient[ListItemsRequest, ListItemsResponse](
			httpClient, baseURL+ShoppingServiceListItemsProcedure, opts...),
		markPurchased: connect.NewClient[MarkPurchasedRequest, MarkPurchasedResponse](
			httpClient, baseURL+ShoppingServiceMarkPurchasedProcedure, opts...),
		setPinned: connect.NewClient[SetPinnedRequest, SetPinnedResponse](
			httpClient, baseURL+ShoppingServiceSetPinnedProcedure, opts...),
	}
}

func (c *shoppingServiceClient) AddItem(ctx context.Context, req *connect.Request[AddItemRequest]) (*connect.Response[AddItemResponse], error) {
	return c.addItem.CallUnary(ctx, req)
}

func (c *shoppingServiceClient) ListItems(ctx context.Context, req *connect.Request[ListItemsRequest]) (*connect.Response[ListItemsResponse], error) {
	return c.listItems.CallUnary(ctx, req)
}

func (c *shoppingServiceClient) MarkPurchased(ctx context.Context, req *connect.Request[MarkPurchasedRequest]) (*connect.Response[MarkPurchasedResponse], error) {
	return c.markPurchased.CallUnary(ctx, req)
}

func (c *shoppingServiceClient) SetPinned(ctx context.Context, req *connect.Request[SetPinnedRequest]) (*connect.Response[SetPinnedResponse], error) {
	return c.setPinned.CallUnary(ctx, req)
}
