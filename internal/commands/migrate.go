package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/database"
)

func newMigrateCommand(open Opener) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		Long:  `Auto-migrate the models, then apply pending SQL migrations (PostgreSQL only).`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(open, func(_ *config.Config, db *gorm.DB) error {
				applied, err := database.RunMigrations(db, dir)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Applied %d migrations\n", len(applied))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "migrations", "Directory containing .sql migration files")
	return cmd
}
