package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/homesplit/homesplit/internal/auth"
	"github.com/homesplit/homesplit/internal/rpc"
	"github.com/homesplit/homesplit/internal/storage"
)

// AuthService implements the Connect AuthService.
type AuthService struct {
	identity *auth.Identity
	tokens   *auth.TokenManager
	store    storage.Store
}

// NewAuthService creates a new AuthService.
func NewAuthService(store storage.Store, tokens *auth.TokenManager) *AuthService {
	return &AuthService{
		identity: auth.NewIdentity(store),
		tokens:   tokens,
		store:    store,
	}
}

// Register creates an account and returns a signed token for it.
func (s *AuthService) Register(ctx context.Context, req *connect.Request[rpc.RegisterRequest]) (*connect.Response[rpc.RegisterResponse], error) {
	slog.Info("Register request received", "email", req.Msg.Email)

	if req.Msg.Email == "" || req.Msg.DisplayName == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument,
			fmt.Errorf("email and display_name required"))
	}

	user, err := s.identity.Register(ctx, req.Msg.Email, req.Msg.DisplayName, req.Msg.Password, req.Msg.PaypalEmail)
	if err != nil {
		slog.Warn("Register failed", "email", req.Msg.Email, "error", err)
		switch {
		case errors.Is(err, auth.ErrEmailExists):
			return nil, connect.NewError(connect.CodeAlreadyExists, err)
		case errors.Is(err, auth.ErrWeakPassword):
			return nil, connect.NewError(connect.CodeInvalidArgument, err)
		default:
			return nil, connect.NewError(connect.CodeInternal, err)
		}
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		slog.Error("Register token issue failed", "user_id", user.ID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	slog.Info("User registered", "user_id", user.ID)

	return connect.NewResponse(&rpc.RegisterResponse{
		User:  toRPCUser(user),
		Token: token,
	}), nil
}

// Login verifies credentials and returns a signed token.
func (s *AuthService) Login(ctx context.Context, req *connect.Request[rpc.LoginRequest]) (*connect.Response[rpc.LoginResponse], error) {
	slog.Info("Login request received", "email", req.Msg.Email)

	user, err := s.identity.Authenticate(ctx, req.Msg.Email, req.Msg.Password)
	if err != nil {
		slog.Warn("Login failed", "email", req.Msg.Email, "error", err)
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return nil, connect.NewError(connect.CodeUnauthenticated, err)
		}
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		slog.Error("Login token issue failed", "user_id", user.ID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	slog.Info("User logged in", "user_id", user.ID)

	return connect.NewResponse(&rpc.LoginResponse{
		User:  toRPCUser(user),
		Token: token,
	}), nil
}

// GetCurrentUser returns the authenticated user's profile.
func (s *AuthService) GetCurrentUser(ctx context.Context, req *connect.Request[rpc.GetCurrentUserRequest]) (*connect.Response[rpc.GetCurrentUserResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		slog.Error("GetCurrentUser failed", "user_id", userID, "error", err)
		if errors.Is(err, storage.ErrNotFound) {
			return nil, connect.NewError(connect.CodeNotFound, err)
		}
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	return connect.NewResponse(&rpc.GetCurrentUserResponse{
		User: toRPCUser(user),
	}), nil
}
