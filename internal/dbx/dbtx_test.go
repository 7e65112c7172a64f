package dbx

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	name := strings.ReplaceAll(t.Name(), "/", "_")
	db, err := sql.Open("sqlite", "file:"+name+"?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS events (id TEXT PRIMARY KEY, group_id TEXT, event_date TEXT)`)
	require.NoError(t, err)
	return db
}

func countRows(t *testing.T, db *sql.DB) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM events`).Scan(&n))
	return n
}

func insertSeries(ctx context.Context, tx DBTX, dates ...string) error {
	for i, d := range dates {
		if _, err := tx.ExecContext(ctx, `INSERT INTO events(id, group_id, event_date) VALUES (?, 'g', ?)`, string(rune('a'+i)), d); err != nil {
			return err
		}
	}
	return nil
}

func TestWithTx_CommitsWholeSeries(t *testing.T) {
	db := setupDB(t)

	err := WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		return insertSeries(ctx, tx, "2024-01-01", "2024-01-08", "2024-01-15")
	})
	require.NoError(t, err)
	assert.Equal(t, 3, countRows(t, db))
}

func TestWithTx_RollsBackPartialSeries(t *testing.T) {
	db := setupDB(t)
	boom := errors.New("boom")

	err := WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		require.NoError(t, insertSeries(ctx, tx, "2024-01-01", "2024-01-08"))
		return boom
	})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 0, countRows(t, db), "no occurrence may survive a failed series")
}

func TestWithTx_RollbackOnPanic(t *testing.T) {
	db := setupDB(t)

	defer func() {
		require.NotNil(t, recover(), "panic must propagate")
		assert.Equal(t, 0, countRows(t, db))
	}()

	_ = WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		require.NoError(t, insertSeries(ctx, tx, "2024-01-01"))
		panic("kaput")
	})
}

func TestWithTx_BeginError(t *testing.T) {
	db := setupDB(t)
	require.NoError(t, db.Close())

	err := WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		return nil
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "begin tx")
}

func TestCollect(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	require.NoError(t, WithTx(ctx, db, nil, func(ctx context.Context, tx DBTX) error {
		return insertSeries(ctx, tx, "2024-02-01", "2024-02-02")
	}))

	rows, err := db.QueryContext(ctx, `SELECT event_date FROM events ORDER BY event_date`)
	require.NoError(t, err)
	got, err := Collect(rows, func(r *sql.Rows) (string, error) {
		var d string
		return d, r.Scan(&d)
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-02-01", "2024-02-02"}, got)

	rows, err = db.QueryContext(ctx, `SELECT event_date FROM events`)
	require.NoError(t, err)
	_, err = Collect(rows, func(r *sql.Rows) (int, error) {
		return 0, errors.New("scan failed")
	})
	assert.EqualError(t, err, "scan failed")
}
