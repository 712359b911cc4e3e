package cli

import (
	"fmt"

	listsvc "carmod-backend/internal/application/listings"
	"carmod-backend/internal/interfaces/router"

	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert the sample listings",
	Long:  `Insert the five sample car listings into the configured store. Existing rows are kept; running it twice inserts them twice.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := router.Connect(cfg)
		if err != nil {
			return err
		}
		defer deps.Close()

		svc := &listsvc.Service{DB: deps.Store.DB}
		n, err := svc.Seed(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to seed listings: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Inserted %d sample listings into %s\n", n, cfg.DatabaseURL)
		return nil
	},
}
