package cli

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mmynk/splitpay/internal/config"
	"github.com/mmynk/splitpay/internal/server"
	"github.com/mmynk/splitpay/internal/storage/sqlite"
	"github.com/mmynk/splitpay/pkg/logging"
)

func loadConfig(cmd *cobra.Command) (config.Config, error) {
	dir, _ := cmd.Flags().GetString("config-dir")
	return config.Load(dir)
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the API server",
		Long: `Run the Connect API server. Configuration comes from splitpay.env in
--config-dir and from the environment (SERVER_ADDRESS, DB_PATH, LOG_LEVEL,
JWT_SECRET, TOKEN_DURATION, METRICS_ENABLED, SHUTDOWN_TIMEOUT).`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logging.Setup(cfg.LogLevel)
	if cfg.JWTSecret == config.DevJWTSecret {
		slog.Warn("Using the development JWT secret; set JWT_SECRET in production")
	}

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initialize storage: %w", err)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.New(cfg, store, slog.Default()).Run(ctx)
}
