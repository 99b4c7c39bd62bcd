package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/service"
)

const (
	adminUsername = "admin"
	adminEmail    = "admin@test.com"
)

func newCreateInitialDataCommand(open Opener) *cobra.Command {
	return &cobra.Command{
		Use:   "create-initial-data",
		Short: "Create the initial admin account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(open, func(cfg *config.Config, db *gorm.DB) error {
				auth := service.NewAuthService(db, cfg.JWTSecret, nil)
				created, err := auth.EnsureAdmin(cmd.Context(), adminUsername, adminEmail, cfg.AdminPassword)
				if err != nil {
					return err
				}
				if created {
					fmt.Fprintf(cmd.OutOrStdout(), "Created admin user: %s\n", adminUsername)
				}
				return nil
			})
		},
	}
}
