// Package testutil provides an in-memory database for package tests.
package testutil

import (
	"testing"

	"github.com/ahmetcoskunkizilkaya/community-admin/internal/database"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// NewDB returns a migrated in-memory sqlite database that lives until the test ends.
// The pool is pinned to one connection because every sqlite :memory: connection
// is its own database.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.Open(sqlite.Open("file::memory:?_foreign_keys=1"))
	require.NoError(t, err, "open sqlite")
	sqlDB, err := db.DB()
	require.NoError(t, err, "sql.DB")
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	require.NoError(t, database.Migrate(db), "migrate")
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

// Break closes the underlying connection pool so every later query fails,
// standing in for an unreachable store.
func Break(t *testing.T, db *gorm.DB) {
	t.Helper()
	sqlDB, err := db.DB()
	require.NoError(t, err, "sql.DB")
	_ = sqlDB.Close()
}
