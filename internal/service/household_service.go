package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/homesplit/homesplit/internal/models"
	"github.com/homesplit/homesplit/internal/rpc"
	"github.com/homesplit/homesplit/internal/storage"
)

// HouseholdService implements the Connect HouseholdService.
type HouseholdService struct {
	store storage.Store
}

// NewHouseholdService creates a new HouseholdService.
func NewHouseholdService(store storage.Store) *HouseholdService {
	return &HouseholdService{store: store}
}

// CreateHousehold creates a household with the caller as a member.
func (s *HouseholdService) CreateHousehold(ctx context.Context, req *connect.Request[rpc.CreateHouseholdRequest]) (*connect.Response[rpc.CreateHouseholdResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	slog.Info("CreateHousehold request received",
		"name", req.Msg.Name,
		"members_count", len(req.Msg.MemberIds),
	)

	if req.Msg.Name == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("name required"))
	}

	// The creator is always a member, listed exactly once.
	members := []string{userID}
	for _, id := range req.Msg.MemberIds {
		if id != userID {
			members = append(members, id)
		}
	}
	if err := s.verifyUsersExist(ctx, members); err != nil {
		return nil, err
	}

	household := &models.Household{
		Name:      req.Msg.Name,
		Members:   members,
		CreatedBy: userID,
	}
	if err := s.store.CreateHousehold(ctx, household); err != nil {
		slog.Error("CreateHousehold failed", "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	slog.Info("Household created", "household_id", household.ID)

	return connect.NewResponse(&rpc.CreateHouseholdResponse{
		Household: toRPCHousehold(household),
	}), nil
}

// GetHousehold retrieves a household with resolved member names.
func (s *HouseholdService) GetHousehold(ctx context.Context, req *connect.Request[rpc.GetHouseholdRequest]) (*connect.Response[rpc.GetHouseholdResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	slog.Info("GetHousehold request received", "household_id", req.Msg.HouseholdId)

	household, err := requireMembership(ctx, s.store, req.Msg.HouseholdId, userID)
	if err != nil {
		return nil, err
	}

	names, err := displayNames(ctx, s.store, household.Members)
	if err != nil {
		slog.Error("GetHousehold name resolution failed", "household_id", household.ID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	members := make([]rpc.Member, len(household.Members))
	for i, id := range household.Members {
		members[i] = rpc.Member{Id: id, DisplayName: names[id]}
	}

	return connect.NewResponse(&rpc.GetHouseholdResponse{
		Household: toRPCHousehold(household),
		Members:   members,
	}), nil
}

// AddMembers adds users to a household the caller belongs to.
func (s *HouseholdService) AddMembers(ctx context.Context, req *connect.Request[rpc.AddMembersRequest]) (*connect.Response[rpc.AddMembersResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	slog.Info("AddMembers request received",
		"household_id", req.Msg.HouseholdId,
		"members_count", len(req.Msg.MemberIds),
	)

	if len(req.Msg.MemberIds) == 0 {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("member_ids required"))
	}

	household, err := requireMembership(ctx, s.store, req.Msg.HouseholdId, userID)
	if err != nil {
		return nil, err
	}
	if err := s.verifyUsersExist(ctx, req.Msg.MemberIds); err != nil {
		return nil, err
	}

	if err := s.store.AddHouseholdMembers(ctx, household.ID, req.Msg.MemberIds); err != nil {
		slog.Error("AddMembers failed", "household_id", household.ID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	updated, err := s.store.GetHousehold(ctx, household.ID)
	if err != nil {
		slog.Error("AddMembers reload failed", "household_id", household.ID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	slog.Info("Members added", "household_id", household.ID, "members_count", len(updated.Members))

	return connect.NewResponse(&rpc.AddMembersResponse{
		Household: toRPCHousehold(updated),
	}), nil
}

// ListHouseholds returns the households the caller belongs to.
func (s *HouseholdService) ListHouseholds(ctx context.Context, req *connect.Request[rpc.ListHouseholdsRequest]) (*connect.Response[rpc.ListHouseholdsResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	households, err := s.store.ListHouseholdsByMember(ctx, userID)
	if err != nil {
		slog.Error("ListHouseholds failed", "user_id", userID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	out := make([]*rpc.Household, len(households))
	for i, h := range households {
		out[i] = toRPCHousehold(h)
	}

	return connect.NewResponse(&rpc.ListHouseholdsResponse{
		Households: out,
	}), nil
}

func (s *HouseholdService) verifyUsersExist(ctx context.Context, ids []string) error {
	users, err := s.store.GetUsersByIDs(ctx, ids)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return connect.NewError(connect.CodeInvalidArgument, err)
		}
		return connect.NewError(connect.CodeInternal, err)
	}
	for _, id := range ids {
		if _, ok := users[id]; !ok {
			return connect.NewError(connect.CodeInvalidArgument,
				fmt.Errorf("user %s does not exist", id))
		}
	}
	return nil
}
