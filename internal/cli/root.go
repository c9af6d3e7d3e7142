// Package cli implements the tummyctl operator commands.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"happytummy/internal/config"
	"happytummy/internal/database"
	"happytummy/internal/logging"
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "tummyctl",
	Short: "Operator tool for the Happy Tummy API",
	Long: "Runs migrations, exports and imports account backups, and fills missing reference nutrients.\n" +
		"The database is selected with DB_TYPE, DB_PATH and DATABASE_URL as for the server.",
	SilenceUsage: true,
}

// openDatabase loads configuration, connects and brings the schema up to date
func openDatabase(ctx context.Context) (*database.DB, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	logging.Setup(os.Stderr, cfg.LogLevel, cfg.LogFormat)

	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		return nil, nil, err
	}

	if err := db.RunMigrations(ctx, cfg.MigrationsPath); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return db, cfg, nil
}
