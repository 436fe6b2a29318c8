package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsertAndQueryRows(t *testing.T) {
	db, err := openDB(setupTestDB(t))
	require.NoError(t, err)
	defer db.Close()

	ctx := t.Context()
	_, err = db.ExecContext(ctx, "CREATE TABLE pairs (k integer primary key, v text not null)")
	require.NoError(t, err)

	values := []string{"zero", "one", "two"}
	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)
	err = insertRows(ctx, tx, "pairs", []string{"k", "v"}, len(values), func(i int) ([]any, error) {
		return []any{i, values[i]}, nil
	})
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	got, err := queryRows(ctx, db, "SELECT v FROM pairs ORDER BY k", func(row rowScanner) (string, error) {
		var v string
		err := row.Scan(&v)
		return v, err
	})
	require.NoError(t, err)
	assert.Equal(t, values, got)

	t.Run("build error aborts", func(t *testing.T) {
		boom := errors.New("boom")
		tx, err := db.BeginTx(ctx, nil)
		require.NoError(t, err)
		defer tx.Rollback()

		calls := 0
		err = insertRows(ctx, tx, "pairs", []string{"k", "v"}, 5, func(i int) ([]any, error) {
			calls++
			if i == 1 {
				return nil, boom
			}
			return []any{10 + i, "x"}, nil
		})
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, 2, calls)
	})

	t.Run("no rows skips prepare", func(t *testing.T) {
		tx, err := db.BeginTx(ctx, nil)
		require.NoError(t, err)
		defer tx.Rollback()
		assert.NoError(t, insertRows(ctx, tx, "missing_table", []string{"k"}, 0, nil))
	})

	t.Run("query error", func(t *testing.T) {
		_, err := queryRows(ctx, db, "SELECT v FROM missing_table", func(row rowScanner) (string, error) {
			return "", nil
		})
		assert.Error(t, err)
	})
}

func TestRetryOnBusy(t *testing.T) {
	busy := errors.New("database is locked (5) (SQLITE_BUSY)")

	t.Run("retries until success", func(t *testing.T) {
		calls := 0
		err := retryOnBusy(t.Context(), func() error {
			calls++
			if calls < 3 {
				return busy
			}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("other errors are not retried", func(t *testing.T) {
		other := errors.New("disk I/O error")
		calls := 0
		err := retryOnBusy(t.Context(), func() error {
			calls++
			return other
		})
		assert.ErrorIs(t, err, other)
		assert.Equal(t, 1, calls)
	})

	t.Run("gives up after the last attempt", func(t *testing.T) {
		calls := 0
		err := retryOnBusy(t.Context(), func() error {
			calls++
			return busy
		})
		assert.ErrorIs(t, err, busy)
		assert.Equal(t, busyRetryAttempts, calls)
	})

	t.Run("stops on cancel", func(t *testing.T) {
		ctx, cancel := context.WithCancel(t.Context())
		cancel()
		err := retryOnBusy(ctx, func() error { return busy })
		assert.ErrorIs(t, err, context.Canceled)
	})
}
