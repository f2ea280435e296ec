// Package dbtest provides a migrated in-memory SQLite database for tests.
package dbtest

import (
	"context"
	"testing"

	"blog-service/database"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
)

// New returns a fresh in-memory database with all migrations applied. It is
// closed when the test ends.
func New(t testing.TB) *sqlx.DB {
	t.Helper()

	dbConn, err := sqlx.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	// every connection to :memory: is a separate database
	dbConn.SetMaxOpenConns(1)
	t.Cleanup(func() { dbConn.Close() })

	require.NoError(t, database.Migrate(context.Background(), dbConn))
	return dbConn
}
