// Package server assembles the HTTP server: Connect services, metrics and
// health endpoints behind h2c.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
	"golang.org/x/sync/errgroup"

	"github.com/mmynk/splitpay/internal/auth"
	"github.com/mmynk/splitpay/internal/config"
	"github.com/mmynk/splitpay/internal/middleware"
	"github.com/mmynk/splitpay/internal/service"
	"github.com/mmynk/splitpay/internal/storage"
	"github.com/mmynk/splitpay/pkg/api/apiconnect"
)

// Server serves the splitpay API.
type Server struct {
	cfg        config.Config
	store      storage.Store
	jwtManager *auth.JWTManager
	verifier   service.TxVerifier
	logger     *slog.Logger
}

// New creates a server over store. The store is not closed by the server.
func New(cfg config.Config, store storage.Store, logger *slog.Logger) *Server {
	return &Server{
		cfg:        cfg,
		store:      store,
		jwtManager: auth.NewJWTManager(cfg.JWTSecret, cfg.TokenDuration),
		verifier:   service.FormatVerifier{},
		logger:     logger,
	}
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Auth runs first so the logging interceptor sees the account
	public := connect.WithInterceptors(middleware.OptionalAuth(s.jwtManager), middleware.LoggingInterceptor())
	private := connect.WithInterceptors(middleware.RequireAuth(s.jwtManager), middleware.LoggingInterceptor())

	accountSvc := service.NewAccountService(auth.NewWalletAuthenticator(s.store), s.jwtManager, s.store, s.logger)
	mux.Handle(apiconnect.NewAccountServiceHandler(accountSvc, public))
	mux.Handle(apiconnect.NewGroupServiceHandler(service.NewGroupService(s.store), private))
	mux.Handle(apiconnect.NewLedgerServiceHandler(service.NewLedgerService(s.store, s.verifier), private))

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprintln(w, "ok")
	})
	if s.cfg.MetricsEnabled {
		mux.Handle("/metrics", promhttp.Handler())
	}

	// Wrap with h2c for HTTP/2 without TLS (required for Connect gRPC clients)
	return h2c.NewHandler(loggingMiddleware(corsMiddleware(mux)), &http2.Server{})
}

// Run listens on the configured address until ctx is cancelled, then shuts
// down gracefully within the configured timeout.
func (s *Server) Run(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.cfg.ServerAddress)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.cfg.ServerAddress, err)
	}
	return s.Serve(ctx, listener)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	httpServer := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 16,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("Connect server starting", "address", listener.Addr().String())
		if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		s.logger.Info("Shutting down server", "timeout", s.cfg.ShutdownTimeout)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	s.logger.Info("Server stopped gracefully")
	return nil
}
