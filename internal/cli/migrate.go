package cli

import (
	"fmt"
	"strconv"

	"github.com/nayna-import-api/internal/config"
	"github.com/nayna-import-api/internal/database"
	"github.com/nayna-import-api/pkg/logger"
	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the import database schema",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: withDB(func(cmd *cobra.Command, db *database.DB, path string, args []string) error {
			return db.RunMigrations(path)
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back the last migration",
		RunE: withDB(func(cmd *cobra.Command, db *database.DB, path string, args []string) error {
			return db.MigrateDown(path)
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "to VERSION",
		Short: "Migrate up or down to a specific version",
		Args:  cobra.ExactArgs(1),
		RunE: withDB(func(cmd *cobra.Command, db *database.DB, path string, args []string) error {
			version, err := strconv.ParseUint(args[0], 10, 32)
			if err != nil {
				return fmt.Errorf("invalid version %q: %w", args[0], err)
			}
			return db.MigrateToVersion(path, uint(version))
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the applied schema version",
		RunE: withDB(func(cmd *cobra.Command, db *database.DB, path string, args []string) error {
			version, dirty, err := db.MigrationVersion(path)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "version %d (dirty: %t)\n", version, dirty)
			return nil
		}),
	})

	return cmd
}

type dbRunner func(cmd *cobra.Command, db *database.DB, migrationsPath string, args []string) error

// withDB loads configuration and opens the database for a migrate subcommand
func withDB(run dbRunner) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		db, err := database.New(&cfg.Database, logger.New())
		if err != nil {
			return err
		}
		defer db.Close()

		return run(cmd, db, cfg.Database.MigrationsPath, args)
	}
}
