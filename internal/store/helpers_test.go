package store

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"
)

func writable(t *testing.T, path string) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", sqliteDSN(path, false))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}
