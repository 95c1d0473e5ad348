package rpc

import (
	"context"
	"net/http"

	"connectrpc.com/connect"
)

const (
	// HouseholdServicePath is the routing prefix for the household service.
	HouseholdServicePath = "/homesplit.v1.HouseholdService/"

	HouseholdServiceCreateHouseholdProcedure = HouseholdServicePath + "CreateHousehold"
	HouseholdServiceGetHouseholdProcedure    = HouseholdServicePath + "GetHousehold"
	HouseholdServiceAddMembersProcedure      = HouseholdServicePath + "AddMembers"
	HouseholdServiceListHouseholdsProcedure  = HouseholdServicePath + "ListHouseholds"
)

// HouseholdServiceHandler is the server-side interface for the household
// service.
type HouseholdServiceHandler interface {
	CreateHousehold(context.Context, *connect.Request[CreateHouseholdRequest]) (*connect.Response[CreateHouseholdResponse], error)
	GetHousehold(context.Context, *connect.Request[GetHouseholdRequest]) (*connect.Response[GetHouseholdResponse], error)
	AddMembers(context.Context, *connect.Request[AddMembersRequest]) (*connect.Response[AddMembersResponse], error)
	ListHouseholds(context.Context, *connect.Request[ListHouseholdsRequest]) (*connect.Response[ListHouseholdsResponse], error)
}

// NewHouseholdServiceHandler returns the path prefix and handler to mount.
func NewHouseholdServiceHandler(svc HouseholdServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	mux := http.NewServeMux()
	mux.Handle(HouseholdServiceCreateHouseholdProcedure,
		connect.NewUnaryHandler(HouseholdServiceCreateHouseholdProcedure, svc.CreateHousehold, opts...))
	mux.Handle(HouseholdServiceGetHouseholdProcedure,
		connect.NewUnaryHandler(HouseholdServiceGetHouseholdProcedure, svc.GetHousehold, opts...))
	mux.Handle(HouseholdServiceAddMembersProcedure,
		connect.NewUnaryHandler(HouseholdServiceAddMembersProcedure, svc.AddMembers, opts...))
	mux.Handle(HouseholdServiceListHouseholdsProcedure,
		connect.NewUnaryHandler(HouseholdServiceListHouseholdsProcedure, svc.ListHouseholds, opts...))
	return HouseholdServicePath, mux
}

// HouseholdServiceClient is the client-side interface for the household
// service.
type HouseholdServiceClient interface {
	CreateHousehold(context.Context, *connect.Request[CreateHouseholdRequest]) (*connect.Response[CreateHouseholdResponse], error)
	GetHousehold(context.Context, *connect.Request[GetHouseholdRequest]) (*connect.Response[GetHouseholdResponse], error)
	AddMembers(context.Context, *connect.Request[AddMembersRequest]) (*connect.Response[AddMembersResponse], error)
	ListHouseholds(context.Context, *connect.Request[ListHouseholdsRequest]) (*connect.Response[ListHouseholdsResponse], error)
}

type householdServiceClient struct {
	createHousehold *connect.Client[CreateHouseholdRequest, CreateHouseholdResponse]
	getHousehold    *connect.Client[GetHouseholdRequest, GetHouseholdResponse]
	addMembers      *connect.Client[AddMembersRequest, AddMembersResponse]
	listHouseholds  *connect.Client[ListHouseholdsRequest, ListHouseholdsResponse]
}

// NewHouseholdServiceClient constructs a client for the household service.
func NewHouseholdServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) HouseholdServiceClient {
	opts = clientOptions(opts)
	return &householdServiceClient{
		createHousehold: connect.NewClient[CreateHouseholdRequest, CreateHouseholdResponse](
			httpClient, baseURL+HouseholdServiceCreateHouseholdProcedure, opts...),
		getHousehold: connect.NewClient[GetHouseholdRequest, GetHouseholdResponse](
			httpClient, baseURL+HouseholdServiceGetHouseholdProcedure, opts...),
		addMembers: connect.NewClient[AddMembersRequest, AddMembersResponse](
			httpClient, baseURL+HouseholdServiceAddMembersProcedure, opts...),
		listHouseholds: connect.NewClient[ListHouseholdsRequest, ListHouseholdsResponse](
			httpClient, baseURL+HouseholdServiceListHouseholdsProcedure, opts...),
	}
}

func (c *householdServiceClient) CreateHousehold(ctx context.Context, req *connect.Request[CreateHouseholdRequest]) (*connect.Response[CreateHouseholdResponse], error) {
	return c.createHousehold.CallUnary(ctx, req)
}

func (c *householdServiceClient) GetHousehold(ctx context.Context, req *connect.Request[GetHouseholdRequest]) (*connect.Response[GetHouseholdResponse], error) {
	return c.getHousehold.CallUnary(ctx, req)
}

func (c *householdServiceClient) AddMembers(ctx context.Context, req *connect.Request[AddMembersRequest]) (*connect.Response[AddMembersResponse], error) {
	return c.addMembers.CallUnary(ctx, req)
}

func (c *householdServiceClient) ListHouseholds(ctx context.Context, req *connect.Request[ListHouseholdsRequest]) (*connect.Response[ListHouseholdsResponse], error) {
	return c.listHouseholds.CallUnary(ctx, req)
}
