package repository

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenDB(context.Background(), DriverSQLite, filepath.Join(t.TempDir(), "tx.db"), PoolConfig{})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func countUsers(t *testing.T, db *sql.DB) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&n))
	return n
}

func insertUser(ctx context.Context, tx *sql.Tx, name string) error {
	now := time.Now().UTC()
	_, err := tx.ExecContext(ctx, `
		INSERT INTO users (email, username, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`, name+"@example.com", name, "hash", now, now)
	return err
}

func TestWithTx_Commits(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	err := WithTx(ctx, db, func(tx *sql.Tx) error {
		return insertUser(ctx, tx, "alice")
	})
	require.NoError(t, err)
	assert.Equal(t, 1, countUsers(t, db))
}

func TestWithTx_RollsBackOnError(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := WithTx(ctx, db, func(tx *sql.Tx) error {
		require.NoError(t, insertUser(ctx, tx, "alice"))
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, countUsers(t, db))
}

func TestWithTx_RollsBackOnPanic(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	assert.PanicsWithValue(t, "boom", func() {
		_ = WithTx(ctx, db, func(tx *sql.Tx) error {
			require.NoError(t, insertUser(ctx, tx, "alice"))
			panic("boom")
		})
	})
	assert.Equal(t, 0, countUsers(t, db))

	// the connection must be released for the next unit of work
	require.NoError(t, WithTx(ctx, db, func(tx *sql.Tx) error {
		return insertUser(ctx, tx, "bob")
	}))
	assert.Equal(t, 1, countUsers(t, db))
}

func TestMigrate_IsIdempotent(t *testing.T) {
	db := openTestDB(t)
	assert.NoError(t, Migrate(context.Background(), db, DriverSQLite))
}
