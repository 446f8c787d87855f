package commands

import (
	"postulate-api/cmd/postulatectl/output"
	"postulate-api/models"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	Long: `Create or update the users, ideas, reviews, waitlist_entries and ndas tables.

Examples:
  postulatectl migrate
  postulatectl migrate --driver postgres --db postgres://localhost/postulate`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMigrate()
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate() error {
	db, closeDB, err := openDB()
	if err != nil {
		return err
	}
	defer closeDB()

	output.Info("Migrating schema...")
	if err := models.AutoMigrate(db); err != nil {
		output.Error("Migration failed: %v", err)
		return err
	}
	output.Success("Schema is up to date")
	return nil
}
