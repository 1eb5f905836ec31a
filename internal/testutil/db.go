// Package testutil opens throwaway databases and seeds fixtures for tests.
package testutil

import (
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"taskhub/internal/db"
)

// NewDB opens a migrated SQLite database in a temp dir. It is a file rather
// than :memory: so that several pooled connections share one database, as
// the audit log writer needs a connection outside the caller's transaction.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "taskhub.db")
	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"

	gormDB, err := gorm.Open(sqlite.Open(dsn), db.NewGormConfig("silent"))
	require.NoError(t, err)

	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(4)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.Migrate(gormDB))
	return gormDB
}
