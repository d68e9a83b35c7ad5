// Package testutil provides fixtures shared by store-backed tests.
package testutil

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/jobtracker/jobtracker-go/internal/repository"
	"github.com/stretchr/testify/require"
)

// NewDB returns a migrated SQLite database in a per-test temp directory.
func NewDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "jobtracker.db") + "?_pragma=busy_timeout(5000)"
	db, err := repository.NewDB(context.Background(), "sqlite", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return db
}
