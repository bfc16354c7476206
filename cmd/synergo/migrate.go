package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/noah-isme/synergo-api/pkg/database"
)

var migrateSteps int

var migrateCmd = &cobra.Command{
	Use:   "migrate <up|down>",
	Short: "Apply or roll back schema migrations",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logr, err := loadConfig()
		if err != nil {
			return err
		}
		defer logr.Sync() //nolint:errcheck

		db, err := database.Open(cfg.Database)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer db.Close()

		switch args[0] {
		case "up":
			return database.Migrate(db, cfg.Database.Driver, logr)
		case "down":
			return database.Rollback(db, cfg.Database.Driver, migrateSteps, logr)
		default:
			return fmt.Errorf("unknown direction %q, expected up or down", args[0])
		}
	},
}

func init() {
	migrateCmd.Flags().IntVar(&migrateSteps, "steps", 1, "number of migrations to roll back")
	rootCmd.AddCommand(migrateCmd)
}
