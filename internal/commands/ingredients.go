package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/service"
)

func newImportIngredientsCommand(open Opener) *cobra.Command {
	return &cobra.Command{
		Use:   "import-ingredients <file.csv>",
		Short: "Import ingredients from CSV",
		Long:  `Load a two-column (name, measurement unit) CSV into the ingredient catalog. Existing pairs are skipped.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(open, func(_ *config.Config, db *gorm.DB) error {
				out := cmd.OutOrStdout()

				f, err := os.Open(args[0])
				if err != nil {
					fmt.Fprintf(out, "Failed to open file. Error: %v\n", err)
					return nil
				}
				defer f.Close()

				created, err := service.NewIngredientImporter(db).Import(cmd.Context(), f)
				if err != nil {
					fmt.Fprintf(out, "Failed to open file. Error: %v\n", err)
					return nil
				}

				fmt.Fprintf(out, "Imported %d ingredients\n", created)
				return nil
			})
		},
	}
}
