package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mmynk/splitpay/internal/models"
	"github.com/mmynk/splitpay/internal/wallet"
)

// ErrInvalidCredentials is returned when a sign-in cannot be accepted.
var ErrInvalidCredentials = errors.New("invalid wallet credentials")

// Authenticator defines the interface for sign-in implementations.
// This abstraction allows swapping between methods (plain wallet address,
// signed message, etc.) without changing the service layer code.
type Authenticator interface {
	// Authenticate verifies the wallet and returns the signed-in account,
	// creating it on first sign-in.
	Authenticate(ctx context.Context, address, displayName string) (*models.Account, error)
}

// AccountStorage is the persistence the authenticator needs.
type AccountStorage interface {
	UpsertAccount(ctx context.Context, account *models.Account) error
}

// WalletAuthenticator accepts any well-formed wallet address. It trusts the
// client's claim of ownership; proving it with a signature is left to a
// different Authenticator.
type WalletAuthenticator struct {
	storage AccountStorage
	now     func() time.Time
}

// NewWalletAuthenticator creates an authenticator backed by storage.
func NewWalletAuthenticator(storage AccountStorage) *WalletAuthenticator {
	return &WalletAuthenticator{
		storage: storage,
		now:     time.Now,
	}
}

// Authenticate validates the address and records the sign-in.
func (a *WalletAuthenticator) Authenticate(ctx context.Context, address, displayName string) (*models.Account, error) {
	normalized, err := wallet.Parse(address)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}

	now := a.now().Unix()
	account := &models.Account{
		Address:     normalized,
		DisplayName: displayName,
		CreatedAt:   now,
		LastSeenAt:  now,
	}
	if err := a.storage.UpsertAccount(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to record sign-in: %w", err)
	}

	return account, nil
}
