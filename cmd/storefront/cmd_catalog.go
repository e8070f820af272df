package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/kashvishop/storefront/app/services"
	"github.com/kashvishop/storefront/config"
)

var (
	catalogURLFlag       string
	catalogInventoryFlag int
)

// storefront catalog:fetch
var catalogFetchCmd = &cobra.Command{
	Use:   "catalog:fetch",
	Short: "Import products from a remote JSON catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		return withDB(func(db *gorm.DB) error {
			url := catalogURLFlag
			if url == "" {
				url = config.CatalogURL()
			}

			fmt.Printf("Fetching catalog from %s…\n", url)
			res, err := services.NewCatalogImporter(db, url, catalogInventoryFlag).Import(ctx)
			if err != nil {
				return err
			}

			fmt.Printf("Fetched %d, created %d, skipped %d across %d categories\n",
				res.Fetched, res.Created, res.Skipped, res.Categories)
			return nil
		})
	},
}

func init() {
	catalogFetchCmd.Flags().StringVar(&catalogURLFlag, "url", "", "catalog endpoint (default CATALOG_URL)")
	catalogFetchCmd.Flags().IntVar(&catalogInventoryFlag, "inventory", 10, "stock given to each imported product")
}
