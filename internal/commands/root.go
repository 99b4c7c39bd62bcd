// Package commands implements the manage CLI: schema migration, the
// ingredient catalog import and initial data seeding.
package commands

import (
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/database"
)

// Opener loads the configuration and connects to the database
type Opener func() (*config.Config, *gorm.DB, error)

// DefaultOpener reads the environment and opens the configured database
func DefaultOpener() (*config.Config, *gorm.DB, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	db, err := database.New(cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, db, nil
}

// NewRootCommand builds the manage command tree
func NewRootCommand(open Opener) *cobra.Command {
	root := &cobra.Command{
		Use:   "manage",
		Short: "Foodgram management commands",
		Long: `Administrative tasks for the Foodgram backend.

Commands read the same environment as the API server.`,
		SilenceUsage: true,
	}

	root.AddCommand(newMigrateCommand(open))
	root.AddCommand(newImportIngredientsCommand(open))
	root.AddCommand(newCreateInitialDataCommand(open))
	return root
}

// withDB runs fn against a freshly opened database and closes it afterwards
func withDB(open Opener, fn func(cfg *config.Config, db *gorm.DB) error) error {
	cfg, db, err := open()
	if err != nil {
		return err
	}
	defer func() { _ = database.Close(db) }()
	return fn(cfg, db)
}
