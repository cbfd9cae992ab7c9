package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/andy/billfold/internal/repository"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load invoices from a seed file",
	Long: `Load invoices from a JSON seed file into an empty store.

Seeding is refused when the store already has invoices; run reset first
to start over.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("file")
		if path == "" {
			path = appInstance.Config.Storage.SeedPath
		}
		if path == "" {
			return fmt.Errorf("no seed file configured; pass --file")
		}

		invoices, err := repository.LoadSeed(path)
		if err != nil {
			return err
		}

		if err := appInstance.Invoices.Seed(context.Background(), invoices); err != nil {
			return err
		}

		fmt.Printf("✓ Seeded %d invoice(s) from %s\n", len(invoices), path)
		return nil
	},
}

func init() {
	seedCmd.Flags().String("file", "", "Seed file path (defaults to the configured seed_path)")
}
