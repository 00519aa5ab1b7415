// Package dbtest opens throwaway SQLite databases with the service schema.
package dbtest

import (
	"path/filepath"
	"testing"

	"github.com/SignorelliLorenzo/portfolio/database"
	"github.com/SignorelliLorenzo/portfolio/models"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// Open returns a migrated database living in the test's temp dir. It is
// closed when the test ends.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := database.Open(map[string]string{
		"DATABASE_URL": filepath.Join(t.TempDir(), "portfolio.db"),
		"DB_TYPE":      database.TypeSQLite,
	})
	require.NoError(t, err)
	require.NotNil(t, db)
	require.NoError(t, models.Migrate(db))

	t.Cleanup(func() {
		_ = database.Close(db)
	})
	return db
}
