package middleware

import (
	"context"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/splitpay/internal/auth"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// AddressKey is the context key for the signed-in wallet address.
	AddressKey contextKey = "address"
	// DisplayNameKey is the context key for the signed-in account's display name.
	DisplayNameKey contextKey = "display_name"
)

// GetAddress extracts the signed-in address from the context.
// Returns empty string if not found.
func GetAddress(ctx context.Context) string {
	address, _ := ctx.Value(AddressKey).(string)
	return address
}

// GetDisplayName extracts the signed-in display name from the context.
func GetDisplayName(ctx context.Context) string {
	name, _ := ctx.Value(DisplayNameKey).(string)
	return name
}

// WithAccount returns a context carrying the signed-in account.
func WithAccount(ctx context.Context, address, displayName string) context.Context {
	ctx = context.WithValue(ctx, AddressKey, address)
	return context.WithValue(ctx, DisplayNameKey, displayName)
}

// bearerToken extracts the token of an "Authorization: Bearer <token>" header.
func bearerToken(header string) (string, error) {
	if header == "" {
		return "", auth.ErrMissingToken
	}
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", auth.ErrInvalidToken
	}
	return parts[1], nil
}

// RequireAuth returns an interceptor that validates the session token and
// rejects unauthenticated requests. The account is added to the context.
func RequireAuth(jwtManager *auth.JWTManager) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			tokenString, err := bearerToken(req.Header().Get("Authorization"))
			if err != nil {
				return nil, connect.NewError(connect.CodeUnauthenticated, err)
			}

			claims, err := jwtManager.Validate(tokenString)
			if err != nil {
				return nil, connect.NewError(connect.CodeUnauthenticated, err)
			}

			return next(WithAccount(ctx, claims.Address(), claims.DisplayName), req)
		}
	}
}

// OptionalAuth returns an interceptor that validates the session token if
// present, but allows requests without one. Invalid tokens are ignored.
func OptionalAuth(jwtManager *auth.JWTManager) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if tokenString, err := bearerToken(req.Header().Get("Authorization")); err == nil {
				if claims, err := jwtManager.Validate(tokenString); err == nil {
					ctx = WithAccount(ctx, claims.Address(), claims.DisplayName)
				}
			}
			return next(ctx, req)
		}
	}
}
