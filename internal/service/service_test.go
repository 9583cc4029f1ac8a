package service

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/splitpay/internal/auth"
	"github.com/mmynk/splitpay/internal/middleware"
	"github.com/mmynk/splitpay/internal/storage/sqlite"
	"github.com/mmynk/splitpay/pkg/api"
	"github.com/mmynk/splitpay/pkg/api/apiconnect"
)

const (
	alice   = "0xa11ce00000000000000000000000000000000001"
	bob     = "0xb0b0000000000000000000000000000000000002"
	charlie = "0xc4a0000000000000000000000000000000000003"
	mallory = "0xbad0000000000000000000000000000000000666"

	txHash = "0x88df016429689c079f3b2f6ad39fa052532c56795b733da78a91ebe6a713944b"
)

type testEnv struct {
	store    *sqlite.SQLiteStore
	accounts *apiconnect.AccountServiceClient
	groups   *apiconnect.GroupServiceClient
	ledger   *apiconnect.LedgerServiceClient
	tokens   map[string]string
}

// setupTestServer serves all three services over a temp SQLite database,
// with the same interceptors as the real server.
func setupTestServer(t *testing.T) *testEnv {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	jwtManager := auth.NewJWTManager("test-secret-0123456789", time.Hour)
	logger := slog.Default()

	optional := connect.WithInterceptors(middleware.OptionalAuth(jwtManager), middleware.LoggingInterceptor())
	required := connect.WithInterceptors(middleware.RequireAuth(jwtManager), middleware.LoggingInterceptor())

	mux := http.NewServeMux()
	mux.Handle(apiconnect.NewAccountServiceHandler(
		NewAccountService(auth.NewWalletAuthenticator(store), jwtManager, store, logger), optional))
	mux.Handle(apiconnect.NewGroupServiceHandler(NewGroupService(store), required))
	mux.Handle(apiconnect.NewLedgerServiceHandler(NewLedgerService(store, nil), required))

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return &testEnv{
		store:    store,
		accounts: apiconnect.NewAccountServiceClient(http.DefaultClient, server.URL),
		groups:   apiconnect.NewGroupServiceClient(http.DefaultClient, server.URL),
		ledger:   apiconnect.NewLedgerServiceClient(http.DefaultClient, server.URL),
		tokens:   map[string]string{},
	}
}

// signIn returns a session token for address, signing in on first use.
func (e *testEnv) signIn(t *testing.T, address, name string) string {
	t.Helper()
	if token, ok := e.tokens[address]; ok {
		return token
	}
	resp, err := e.accounts.SignIn(context.Background(), connect.NewRequest(&api.SignInRequest{
		Address:     address,
		DisplayName: name,
	}))
	require.NoError(t, err)
	e.tokens[address] = resp.Msg.Token
	return resp.Msg.Token
}

// as builds a request authenticated as address.
func as[T any](t *testing.T, e *testEnv, address string, msg *T) *connect.Request[T] {
	t.Helper()
	req := connect.NewRequest(msg)
	req.Header().Set("Authorization", "Bearer "+e.signIn(t, address, ""))
	return req
}

// createGroup creates a group owned by the first address with the others as participants.
func createGroup(t *testing.T, e *testEnv, owner string, others ...string) *api.Group {
	t.Helper()
	participants := make([]api.Participant, len(others))
	for i, address := range others {
		participants[i] = api.Participant{Address: address}
	}
	resp, err := e.groups.CreateGroup(context.Background(), as(t, e, owner, &api.CreateGroupRequest{
		Name:         "Lisbon trip",
		Participants: participants,
	}))
	require.NoError(t, err)
	return resp.Msg.Group
}

func requireCode(t *testing.T, err error, code connect.Code) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, code, connect.CodeOf(err), "error: %v", err)
}
