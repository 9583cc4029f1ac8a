package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mmynk/splitpay/internal/storage/sqlite"
)

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE:  runMigrate,
	}
	cmd.Flags().String("db", "", "Database path (defaults to DB_PATH)")
	return cmd
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	dbPath, _ := cmd.Flags().GetString("db")
	if dbPath == "" {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		dbPath = cfg.DBPath
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return fmt.Errorf("create database directory: %w", err)
	}
	if err := sqlite.Migrate(dbPath); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Database %s is up to date\n", dbPath)
	return nil
}
