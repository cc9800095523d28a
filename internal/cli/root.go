// Package cli implements importctl, the operator tool for checking
// guest and room CSV files offline and managing the database schema.
package cli

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/nayna-import-api/pkg/logger"
	"github.com/spf13/cobra"
)

// NewRootCmd builds the importctl command tree
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "importctl",
		Short: "Inspect guest and room CSV files and manage the import database",
		Long: `importctl runs the same parser the import API uses, so a CSV can be
checked before it is uploaded. It also applies and rolls back migrations.`,
		SilenceUsage: true,
	}

	root.AddCommand(newParseCmd())
	root.AddCommand(newSchemasCmd())
	root.AddCommand(newMigrateCmd())
	return root
}

// Execute runs importctl and exits non-zero on failure
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
}

func initConfig() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log := logger.New()
		log.Warn().Err(err).Msg("Failed to load .env file")
	}
}
