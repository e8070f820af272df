// Command storefront runs the shop and its maintenance tasks.
//
//	storefront serve             # start the HTTP server
//	storefront migrate           # run pending migrations
//	storefront migrate:rollback
//	storefront migrate:status
//	storefront seed              # admin account + starter catalog
//	storefront route:list
//	storefront catalog:fetch     # import products from CATALOG_URL
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// Migrations register themselves in init().
	_ "github.com/kashvishop/storefront/database/migrations"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "storefront",
	Short:         "Storefront server and maintenance CLI",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(routeListCmd)

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(migrateRollbackCmd)
	rootCmd.AddCommand(migrateStatusCmd)
	rootCmd.AddCommand(seedCmd)

	rootCmd.AddCommand(catalogFetchCmd)
}
