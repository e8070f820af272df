package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/kashvishop/storefront/config"
	"github.com/kashvishop/storefront/database/seeders"
	"github.com/kashvishop/storefront/pkg/database"
	"github.com/kashvishop/storefront/pkg/migration"
)

// withDB loads config, opens the database for fn and closes it afterwards.
func withDB(fn func(db *gorm.DB) error) error {
	if err := config.Load(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	db, err := database.Connect()
	if err != nil {
		return err
	}
	defer database.Close(db) //nolint:errcheck

	return fn(db)
}

// storefront migrate
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run all pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(db *gorm.DB) error {
			fmt.Println("Running migrations…")
			return migration.New(db).Run()
		})
	},
}

// storefront migrate:rollback
var migrateRollbackCmd = &cobra.Command{
	Use:   "migrate:rollback",
	Short: "Rollback the last batch of migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(db *gorm.DB) error {
			fmt.Println("Rolling back last batch…")
			return migration.New(db).Rollback()
		})
	},
}

// storefront migrate:status
var migrateStatusCmd = &cobra.Command{
	Use:   "migrate:status",
	Short: "Show the status of each migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(db *gorm.DB) error {
			return migration.New(db).Status()
		})
	},
}

// storefront seed
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Run all database seeders",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(db *gorm.DB) error {
			fmt.Println("Running seeders…")
			return seeders.RunAll(cmd.Context(), db, os.Stdout)
		})
	},
}
