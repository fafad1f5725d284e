package db

import (
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenSQLite_RejectsUnknownMode(t *testing.T) {
	_, err := OpenSQLite(filepath.Join(t.TempDir(), "x.sqlite"), "readwrite", 0)
	require.Error(t, err)
}

func TestOpenSQLitePair_AndMigrations(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.sqlite")

	writeDB, readDB, err := OpenSQLitePair(path, 4)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = readDB.Close()
		_ = writeDB.Close()
	})

	require.NoError(t, RunMigrations(writeDB))

	// Migrations are idempotent.
	require.NoError(t, RunMigrations(writeDB))

	for _, table := range []string{"lineage_events", "quality_reports", "contract_results"} {
		var name string
		err := readDB.QueryRow(
			`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table,
		).Scan(&name)
		require.NoError(t, err, "table %s should exist after migration", table)
		assert.Equal(t, table, name)
	}

	var journalMode string
	require.NoError(t, writeDB.QueryRow(`PRAGMA journal_mode`).Scan(&journalMode))
	assert.Equal(t, "wal", journalMode)
}
