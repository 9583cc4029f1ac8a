package middleware

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/splitpay/internal/metrics"
	"github.com/mmynk/splitpay/internal/wallet"
)

// LoggingInterceptor returns a Connect interceptor that logs every RPC call
// and records it in the RPC metrics. It logs the procedure, the signed-in
// address, the duration and any error code.
//
// Register it after the auth interceptor so the address is known.
func LoggingInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			procedure := req.Spec().Procedure
			account := wallet.Short(GetAddress(ctx)) // empty if pre-auth

			resp, err := next(ctx, req)

			elapsed := time.Since(start)
			metrics.RPCDuration.WithLabelValues(procedure).Observe(elapsed.Seconds())
			duration := elapsed.Milliseconds()

			if err != nil {
				var connectErr *connect.Error
				if errors.As(err, &connectErr) {
					metrics.RPCRequests.WithLabelValues(procedure, connectErr.Code().String()).Inc()
					slog.Warn("RPC error",
						"procedure", procedure,
						"code", connectErr.Code(),
						"error", connectErr.Message(),
						"account", account,
						"duration_ms", duration,
					)
				} else {
					metrics.RPCRequests.WithLabelValues(procedure, connect.CodeUnknown.String()).Inc()
					slog.Error("RPC error",
						"procedure", procedure,
						"error", err,
						"account", account,
						"duration_ms", duration,
					)
				}
			} else {
				metrics.RPCRequests.WithLabelValues(procedure, "ok").Inc()
				slog.Info("RPC ok",
					"procedure", procedure,
					"account", account,
					"duration_ms", duration,
				)
			}

			return resp, err
		}
	}
}
