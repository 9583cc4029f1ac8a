package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/splitpay/internal/auth"
	"github.com/mmynk/splitpay/internal/middleware"
	"github.com/mmynk/splitpay/internal/storage"
	"github.com/mmynk/splitpay/internal/wallet"
	"github.com/mmynk/splitpay/pkg/api"
)

// AccountService implements the AccountService RPC interface.
type AccountService struct {
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
	store         storage.Store
	logger        *slog.Logger
}

// NewAccountService creates a new account service.
func NewAccountService(authenticator auth.Authenticator, jwtManager *auth.JWTManager, store storage.Store, logger *slog.Logger) *AccountService {
	return &AccountService{
		authenticator: authenticator,
		jwtManager:    jwtManager,
		store:         store,
		logger:        logger,
	}
}

// SignIn records a wallet sign-in and returns a session token.
func (s *AccountService) SignIn(ctx context.Context, req *connect.Request[api.SignInRequest]) (*connect.Response[api.SignInResponse], error) {
	s.logger.Info("SignIn request", "address", wallet.Short(req.Msg.Address))

	if err := validateRequest(req.Msg); err != nil {
		return nil, toConnectError(err)
	}

	account, err := s.authenticator.Authenticate(ctx, req.Msg.Address, req.Msg.DisplayName)
	if err != nil {
		s.logger.Warn("SignIn failed", "address", wallet.Short(req.Msg.Address), "error", err)
		return nil, toConnectError(err)
	}

	token, err := s.jwtManager.Generate(account)
	if err != nil {
		s.logger.Error("Failed to generate token", "address", account.Address, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	s.logger.Info("Signed in", "address", account.Address)
	return connect.NewResponse(&api.SignInResponse{
		Account: toAPIAccount(account),
		Token:   token,
	}), nil
}

// GetCurrentAccount returns the signed-in account.
func (s *AccountService) GetCurrentAccount(ctx context.Context, req *connect.Request[api.GetCurrentAccountRequest]) (*connect.Response[api.GetCurrentAccountResponse], error) {
	address := middleware.GetAddress(ctx)
	if address == "" {
		return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}

	account, err := s.store.GetAccount(ctx, address)
	if err != nil {
		s.logger.Error("GetCurrentAccount failed", "address", address, "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.GetCurrentAccountResponse{
		Account: toAPIAccount(account),
	}), nil
}
