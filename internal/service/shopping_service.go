package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"connectrpc.com/connect"

	"github.com/homesplit/homesplit/internal/models"
	"github.com/homesplit/homesplit/internal/money"
	"github.com/homesplit/homesplit/internal/rpc"
	"github.com/homesplit/homesplit/internal/storage"
)

// ShoppingService implements the Connect ShoppingService.
type ShoppingService struct {
	store storage.Store
}

// NewShoppingService creates a new ShoppingService.
func NewShoppingService(store storage.Store) *ShoppingService {
	return &ShoppingService{store: store}
}

// AddItem adds an item to a household's shopping list.
func (s *ShoppingService) AddItem(ctx context.Context, req *connect.Request[rpc.AddItemRequest]) (*connect.Response[rpc.AddItemResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	slog.Info("AddItem request received",
		"household_id", req.Msg.HouseholdId,
		"name", req.Msg.Name,
	)

	if req.Msg.Name == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("name required"))
	}
	if _, err := requireMembership(ctx, s.store, req.Msg.HouseholdId, userID); err != nil {
		return nil, err
	}

	item := &models.ShoppingItem{
		HouseholdID: req.Msg.HouseholdId,
		Name:        req.Msg.Name,
		Category:    req.Msg.Category,
		AddedBy:     userID,
		Pinned:      req.Msg.Pinned,
	}
	if err := s.store.CreateItem(ctx, item); err != nil {
		slog.Error("AddItem failed", "household_id", req.Msg.HouseholdId, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	slog.Info("Item added", "item_id", item.ID)

	return connect.NewResponse(&rpc.AddItemResponse{
		Item: toRPCItem(item),
	}), nil
}

// ListItems returns a household's shopping list, optionally restricted to
// purchased items awaiting a split.
func (s *ShoppingService) ListItems(ctx context.Context, req *connect.Request[rpc.ListItemsRequest]) (*connect.Response[rpc.ListItemsResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	if _, err := requireMembership(ctx, s.store, req.Msg.HouseholdId, userID); err != nil {
		return nil, err
	}

	var items []*models.ShoppingItem
	if req.Msg.SplitCandidatesOnly {
		items, err = s.store.ListSplitCandidates(ctx, req.Msg.HouseholdId)
	} else {
		items, err = s.store.ListItems(ctx, req.Msg.HouseholdId)
	}
	if err != nil {
		slog.Error("ListItems failed", "household_id", req.Msg.HouseholdId, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	out := make([]*rpc.Item, len(items))
	for i, item := range items {
		out[i] = toRPCItem(item)
	}

	return connect.NewResponse(&rpc.ListItemsResponse{
		Items: out,
	}), nil
}

// MarkPurchased marks an item bought at the given cost.
func (s *ShoppingService) MarkPurchased(ctx context.Context, req *connect.Request[rpc.MarkPurchasedRequest]) (*connect.Response[rpc.MarkPurchasedResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	slog.Info("MarkPurchased request received", "item_id", req.Msg.ItemId, "cost", req.Msg.Cost)

	cost, err := money.Parse(req.Msg.Cost)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}
	if cost.Sign() <= 0 {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("cost must be positive"))
	}

	item, err := s.loadMemberItem(ctx, req.Msg.ItemId, userID)
	if err != nil {
		return nil, err
	}
	if item.Purchased {
		// Rewriting the cost after the item may already be billed would
		// desync the list from the ledger's captured snapshot.
		return nil, connect.NewError(connect.CodeFailedPrecondition,
			fmt.Errorf("item is already purchased"))
	}

	purchasedAt := time.Now().Unix()
	if err := s.store.MarkItemPurchased(ctx, item.ID, cost, purchasedAt); err != nil {
		slog.Error("MarkPurchased failed", "item_id", item.ID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	item.Cost = cost
	item.Purchased = true
	item.PurchasedAt = &purchasedAt

	slog.Info("Item purchased", "item_id", item.ID)

	return connect.NewResponse(&rpc.MarkPurchasedResponse{
		Item: toRPCItem(item),
	}), nil
}

// SetPinned pins or unpins an item on the shopping list.
func (s *ShoppingService) SetPinned(ctx context.Context, req *connect.Request[rpc.SetPinnedRequest]) (*connect.Response[rpc.SetPinnedResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	item, err := s.loadMemberItem(ctx, req.Msg.ItemId, userID)
	if err != nil {
		return nil, err
	}

	if err := s.store.SetItemPinned(ctx, item.ID, req.Msg.Pinned); err != nil {
		slog.Error("SetPinned failed", "item_id", item.ID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	item.Pinned = req.Msg.Pinned

	return connect.NewResponse(&rpc.SetPinnedResponse{
		Item: toRPCItem(item),
	}), nil
}

// loadMemberItem fetches an item and checks the caller belongs to its
// household.
func (s *ShoppingService) loadMemberItem(ctx context.Context, itemID, userID string) (*models.ShoppingItem, error) {
	if itemID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("item_id required"))
	}
	item, err := s.store.GetItem(ctx, itemID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, connect.NewError(connect.CodeNotFound, err)
		}
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	if _, err := requireMembership(ctx, s.store, item.HouseholdID, userID); err != nil {
		return nil, err
	}
	return item, nil
}
