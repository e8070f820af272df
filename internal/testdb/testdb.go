// Package testdb opens a migrated sqlite database in a test's temp dir.
package testdb

import (
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	_ "github.com/kashvishop/storefront/database/migrations"
	"github.com/kashvishop/storefront/pkg/database"
	"github.com/kashvishop/storefront/pkg/migration"
)

// Open returns a fresh database with the full schema applied. It is closed
// when the test ends.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "test.db") + "?_foreign_keys=on&_busy_timeout=5000"
	db, err := database.Open(database.Options{
		Driver:       "sqlite",
		DSN:          dsn,
		MaxOpenConns: 1,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	require.NoError(t, migration.New(db).WithOutput(io.Discard).Run())
	return db
}
