package commands

import (
	"fmt"
	"os"

	"postulate-api/config"
	"postulate-api/obs"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var (
	// Global flags
	dbDriver string
	dbURL    string
	verbose  bool
)

var rootCmd = &cobra.Command{
	Use:   "postulatectl",
	Short: "Operator tooling for the postulate.ai API",
	Long: `postulatectl runs one-off maintenance tasks against the postulate.ai database.

Connection settings come from the same environment (and .env file) as the API
server. --driver and --db override DB_DRIVER and DATABASE_URL.`,
	Version:       obs.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbDriver, "driver", "", "Database driver: mysql, postgres or sqlite (overrides DB_DRIVER)")
	rootCmd.PersistentFlags().StringVar(&dbURL, "db", "", "Database connection URL (overrides DATABASE_URL)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log SQL statements")
}

// openDB loads settings, applies the global flags and connects.
func openDB() (*gorm.DB, func(), error) {
	settings, err := config.LoadSettings()
	if err != nil {
		return nil, nil, err
	}
	if dbDriver != "" {
		settings.DBDriver = dbDriver
	}
	if dbURL != "" {
		settings.DatabaseURL = dbURL
	}
	settings.DebugSQL = verbose
	settings.QuietSQL = true

	// Keep stdout clean for exports.
	config.LogWriter = os.Stderr

	db, err := config.OpenDB(settings)
	if err != nil {
		return nil, nil, err
	}
	closer := func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	return db, closer, nil
}
