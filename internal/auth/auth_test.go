package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/splitpay/internal/models"
)

type memoryAccounts map[string]*models.Account

func (m memoryAccounts) UpsertAccount(_ context.Context, account *models.Account) error {
	if existing, ok := m[account.Address]; ok {
		account.CreatedAt = existing.CreatedAt
	}
	stored := *account
	m[account.Address] = &stored
	return nil
}

func TestJWTManager(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Hour)
	account := &models.Account{Address: "0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed", DisplayName: "Alice"}

	token, err := manager.Generate(account)
	require.NoError(t, err)

	claims, err := manager.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, account.Address, claims.Address())
	assert.Equal(t, "Alice", claims.DisplayName)

	t.Run("wrong secret", func(t *testing.T) {
		_, err := NewJWTManager("other-secret", time.Hour).Validate(token)
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		expired, err := NewJWTManager("test-secret", -time.Minute).Generate(account)
		require.NoError(t, err)
		_, err = manager.Validate(expired)
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := manager.Validate("not-a-token")
		require.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestWalletAuthenticator(t *testing.T) {
	store := memoryAccounts{}
	authenticator := NewWalletAuthenticator(store)
	authenticator.now = func() time.Time { return time.Unix(1_700_000_000, 0) }

	account, err := authenticator.Authenticate(context.Background(),
		"0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed", "Alice")
	require.NoError(t, err)
	assert.Equal(t, "0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed", account.Address)
	assert.Equal(t, int64(1_700_000_000), account.CreatedAt)
	assert.Contains(t, store, account.Address)

	for _, address := range []string{"", "0x123", "0x5AAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"} {
		_, err := authenticator.Authenticate(context.Background(), address, "")
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("Authenticate(%q) error = %v, want ErrInvalidCredentials", address, err)
		}
	}
}
