// Package repotest gives tests a migrated, throwaway database so they run
// the real gorm repositories.
package repotest

import (
	"testing"

	"postulate-api/config"
	"postulate-api/models"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// Open returns a private in-memory SQLite database with every table
// migrated. It is closed when the test ends.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := config.OpenDB(config.Settings{
		DBDriver:    "sqlite",
		DatabaseURL: ":memory:",
		QuietSQL:    true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, models.AutoMigrate(db))
	return db
}

// Count returns the number of rows in model's table.
func Count(t testing.TB, db *gorm.DB, model any) int {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return int(n)
}
