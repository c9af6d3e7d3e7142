package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(NewModerncDialect(), DialectConfig{Path: filepath.Join(t.TempDir(), "tummy.db")})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRunMigrations(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	require.NoError(t, db.RunMigrations(ctx, "../../migrations"))

	tables := []string{"users", "families", "family_members", "children", "digestion_logs",
		"digestion_log_foods", "reference_foods", "meal_templates"}
	for _, table := range tables {
		var name string
		err := db.QueryRowContext(ctx, "SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		assert.NoError(t, err, "table %s", table)
	}

	applied, err := db.AppliedMigrations(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, applied)

	// Second run is a no-op
	require.NoError(t, db.RunMigrations(ctx, "../../migrations"))
	again, err := db.AppliedMigrations(ctx)
	require.NoError(t, err)
	assert.Equal(t, applied, again)
}

func TestRunMigrationsMissingDir(t *testing.T) {
	db := openTestDB(t)
	err := db.RunMigrations(context.Background(), t.TempDir())
	assert.Error(t, err)
}

func TestWithTx(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	_, err := db.ExecContext(ctx, "CREATE TABLE notes (id INTEGER PRIMARY KEY AUTOINCREMENT, body TEXT)")
	require.NoError(t, err)

	err = db.WithTx(ctx, func(tx *Tx) error {
		id, err := tx.ExecReturningID(ctx, "INSERT INTO notes (body) VALUES (?)", "kept")
		assert.Equal(t, int64(1), id)
		return err
	})
	require.NoError(t, err)

	err = db.WithTx(ctx, func(tx *Tx) error {
		if _, err := tx.ExecContext(ctx, "INSERT INTO notes (body) VALUES (?)", "discarded"); err != nil {
			return err
		}
		return assert.AnError
	})
	assert.ErrorIs(t, err, assert.AnError)

	var count int
	require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM notes").Scan(&count))
	assert.Equal(t, 1, count)
}
