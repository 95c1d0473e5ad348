// Package service implements the RPC services, binding the ledger engine
// and the store together.
package service

import (
	"context"
	"errors"
	"fmt"

	"connectrpc.com/connect"

	"github.com/homesplit/homesplit/internal/ledger"
	"github.com/homesplit/homesplit/internal/middleware"
	"github.com/homesplit/homesplit/internal/models"
	"github.com/homesplit/homesplit/internal/rpc"
	"github.com/homesplit/homesplit/internal/storage"
)

var errAuthRequired = errors.New("authentication required")

// requireUser extracts the authenticated user ID or fails the RPC.
func requireUser(ctx context.Context) (string, error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return "", connect.NewError(connect.CodeUnauthenticated, errAuthRequired)
	}
	return userID, nil
}

// requireMembership loads the household and checks the user belongs to it.
func requireMembership(ctx context.Context, store storage.Store, householdID, userID string) (*models.Household, error) {
	if householdID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("household_id required"))
	}
	household, err := store.GetHousehold(ctx, householdID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, connect.NewError(connect.CodeNotFound, err)
		}
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	if !household.HasMember(userID) {
		return nil, connect.NewError(connect.CodePermissionDenied,
			fmt.Errorf("you must be a member of this household"))
	}
	return household, nil
}

// displayNames resolves member IDs to display names. Missing users resolve
// to an empty name rather than failing the whole read.
func displayNames(ctx context.Context, store storage.Store, ids []string) (map[string]string, error) {
	users, err := store.GetUsersByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(users))
	for id, user := range users {
		names[id] = user.DisplayName
	}
	return names, nil
}

func toRPCUser(u *models.User) *rpc.User {
	return &rpc.User{
		Id:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		PaypalEmail: u.PayPalEmail,
		CreatedAt:   u.CreatedAt,
	}
}

func toRPCHousehold(h *models.Household) *rpc.Household {
	return &rpc.Household{
		Id:        h.ID,
		Name:      h.Name,
		CreatedBy: h.CreatedBy,
		MemberIds: h.Members,
		CreatedAt: h.CreatedAt,
	}
}

func toRPCItem(item *models.ShoppingItem) *rpc.Item {
	return &rpc.Item{
		Id:          item.ID,
		HouseholdId: item.HouseholdID,
		Name:        item.Name,
		Category:    item.Category,
		Cost:        item.Cost.String(),
		AddedBy:     item.AddedBy,
		Purchased:   item.Purchased,
		Split:       item.Split,
		Pinned:      item.Pinned,
		AddedAt:     item.AddedAt,
		PurchasedAt: item.PurchasedAt,
	}
}

func toRPCDebt(rec *models.DebtRecord) *rpc.DebtRecord {
	out := &rpc.DebtRecord{
		Id:              rec.ID,
		HouseholdId:     rec.HouseholdID,
		OwedBy:          rec.OwedBy,
		OwedTo:          rec.OwedTo,
		Amount:          rec.Amount.String(),
		RepaymentAmount: rec.RepaymentAmount.String(),
		Status:          string(rec.Status),
		CreatedAt:       rec.CreatedAt,
		LastUpdated:     rec.LastUpdated,
	}
	for _, item := range rec.Items {
		out.Items = append(out.Items, rpc.ItemDetail{Name: item.Name, Cost: item.Cost.String()})
	}
	for _, rep := range rec.Repayments {
		out.Repayments = append(out.Repayments, rpc.Repayment{
			Amount:    rep.Amount.String(),
			Method:    string(rep.Method),
			CreatedAt: rep.CreatedAt,
		})
	}
	return out
}

func toRPCTransaction(tx ledger.Transaction) *rpc.Transaction {
	return &rpc.Transaction{
		Kind:        string(tx.Kind),
		RecordId:    tx.RecordID,
		Description: tx.Description,
		Amount:      tx.Amount.String(),
		Method:      string(tx.Method),
		OwedBy:      tx.OwedBy,
		OwedTo:      tx.OwedTo,
		OwedByName:  tx.OwedByName,
		OwedToName:  tx.OwedToName,
		Date:        tx.Date,
	}
}
