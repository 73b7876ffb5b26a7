package cmd

import (
	"errors"
	"etf-dashboard/config"
	"etf-dashboard/pkg/database"
	"fmt"
	"log"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/spf13/cobra"
)

const migrationsPath = "file://migrations"

func runMigrations(direction string) {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.DB.Driver != database.DriverPostgres {
		log.Fatalf("SQL migrations target postgres, configured driver is %q; use database.auto_migrate instead", cfg.DB.Driver)
	}

	m, err := migrate.New(migrationsPath, database.MigrationURL(cfg.DB))
	if err != nil {
		log.Fatalf("Failed to create migration instance: %v", err)
	}

	var migrationErr error
	switch direction {
	case "up":
		migrationErr = m.Up()
	case "down":
		migrationErr = m.Steps(-1)
	}

	if migrationErr != nil && !errors.Is(migrationErr, migrate.ErrNoChange) {
		log.Fatalf("Migration failed: %v", migrationErr)
	}
	if direction == "up" {
		fmt.Println("Applied migrations successfully.")
	} else {
		fmt.Println("Reverted last migration successfully.")
	}

	srcErr, dbErr := m.Close()
	if srcErr != nil {
		log.Printf("Migration source error on close: %v\n", srcErr)
	}
	if dbErr != nil {
		log.Printf("Migration database error on close: %v\n", dbErr)
	}
}

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all available database migrations",
	Run: func(cmd *cobra.Command, args []string) {
		runMigrations("up")
	},
}

var downCmd = &cobra.Command{
	Use:   "down",
	Short: "Revert the last database migration",
	Run: func(cmd *cobra.Command, args []string) {
		runMigrations("down")
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run postgres schema migrations",
}

func init() {
	migrateCmd.AddCommand(upCmd)
	migrateCmd.AddCommand(downCmd)
}
