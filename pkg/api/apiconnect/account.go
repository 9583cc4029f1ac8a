package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/splitpay/pkg/api"
)

// AccountServiceName is the fully-qualified name of the AccountService.
const AccountServiceName = "splitpay.v1.AccountService"

const (
	AccountServiceSignInProcedure            = "/splitpay.v1.AccountService/SignIn"
	AccountServiceGetCurrentAccountProcedure = "/splitpay.v1.AccountService/GetCurrentAccount"
)

// AccountServiceHandler is implemented by the account service.
type AccountServiceHandler interface {
	SignIn(context.Context, *connect.Request[api.SignInRequest]) (*connect.Response[api.SignInResponse], error)
	GetCurrentAccount(context.Context, *connect.Request[api.GetCurrentAccountRequest]) (*connect.Response[api.GetCurrentAccountResponse], error)
}

// NewAccountServiceHandler builds an HTTP handler for svc and returns the
// path to mount it on.
func NewAccountServiceHandler(svc AccountServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	signIn := connect.NewUnaryHandler(AccountServiceSignInProcedure, svc.SignIn, opts...)
	getCurrentAccount := connect.NewUnaryHandler(AccountServiceGetCurrentAccountProcedure, svc.GetCurrentAccount, opts...)

	return "/" + AccountServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case AccountServiceSignInProcedure:
			signIn.ServeHTTP(w, r)
		case AccountServiceGetCurrentAccountProcedure:
			getCurrentAccount.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// AccountServiceClient calls a remote AccountService.
type AccountServiceClient struct {
	signIn            *connect.Client[api.SignInRequest, api.SignInResponse]
	getCurrentAccount *connect.Client[api.GetCurrentAccountRequest, api.GetCurrentAccountResponse]
}

// NewAccountServiceClient creates a client for the AccountService at baseURL.
func NewAccountServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *AccountServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &AccountServiceClient{
		signIn:            connect.NewClient[api.SignInRequest, api.SignInResponse](httpClient, baseURL+AccountServiceSignInProcedure, opts...),
		getCurrentAccount: connect.NewClient[api.GetCurrentAccountRequest, api.GetCurrentAccountResponse](httpClient, baseURL+AccountServiceGetCurrentAccountProcedure, opts...),
	}
}

func (c *AccountServiceClient) SignIn(ctx context.Context, req *connect.Request[api.SignInRequest]) (*connect.Response[api.SignInResponse], error) {
	return c.signIn.CallUnary(ctx, req)
}

func (c *AccountServiceClient) GetCurrentAccount(ctx context.Context, req *connect.Request[api.GetCurrentAccountRequest]) (*connect.Response[api.GetCurrentAccountResponse], error) {
	return c.getCurrentAccount.CallUnary(ctx, req)
}
