package sqlite

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"employee-bot/internal/domain"
)

// openTestDB opens a migrated database in a temp dir. The cgo driver is
// skipped when the test binary was built without cgo.
func openTestDB(t *testing.T, driver string) (*sql.DB, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "employees.db")
	db, err := Open(driver, path)
	if err != nil && strings.Contains(err.Error(), "CGO_ENABLED=0") {
		t.Skipf("driver %s needs cgo", driver)
	}
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, Migrate(db))
	return db, path
}

func forEachDriver(t *testing.T, fn func(t *testing.T, db *sql.DB)) {
	for _, driver := range []string{DriverCgo, DriverPure} {
		t.Run(driver, func(t *testing.T) {
			db, _ := openTestDB(t, driver)
			fn(t, db)
		})
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	forEachDriver(t, func(t *testing.T, db *sql.DB) {
		require.NoError(t, Migrate(db))
		var n int
		require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM employees`).Scan(&n))
		assert.Zero(t, n)
	})
}

func TestStoreCRUD(t *testing.T) {
	forEachDriver(t, func(t *testing.T, db *sql.DB) {
		ctx := context.Background()
		s := NewEmployeeStore(db)
		require.NoError(t, s.Ping(ctx))

		id1, err := s.Insert(ctx, `{"a":1}`)
		require.NoError(t, err)
		id2, err := s.Insert(ctx, `{"a":2}`)
		require.NoError(t, err)
		assert.NotEqual(t, id1, id2)

		row, err := s.Get(ctx, id1)
		require.NoError(t, err)
		assert.Equal(t, domain.StoredRow{ID: id1, Blob: `{"a":1}`}, row)

		require.NoError(t, s.Put(ctx, id1, `{"a":3}`))
		row, err = s.Get(ctx, id1)
		require.NoError(t, err)
		assert.Equal(t, `{"a":3}`, row.Blob)

		// upsert on an absent id
		require.NoError(t, s.Put(ctx, 99, `{"a":99}`))
		rows, err := s.List(ctx)
		require.NoError(t, err)
		require.Len(t, rows, 3)
		assert.Equal(t, int64(99), rows[2].ID)

		require.NoError(t, s.Delete(ctx, id2))
		_, err = s.Get(ctx, id2)
		assert.ErrorIs(t, err, domain.ErrRowNotFound)
	})
}

func TestStoreNeverReusesDeletedIDs(t *testing.T) {
	forEachDriver(t, func(t *testing.T, db *sql.DB) {
		ctx := context.Background()
		s := NewEmployeeStore(db)
		id, err := s.Insert(ctx, "{}")
		require.NoError(t, err)
		require.NoError(t, s.Delete(ctx, id))
		next, err := s.Insert(ctx, "{}")
		require.NoError(t, err)
		assert.Greater(t, next, id)
	})
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open("postgres", "x.db")
	assert.Error(t, err)
}

func TestWatcherReportsWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "employees.db")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	var calls atomic.Int32
	w := NewWatcher(path, func() { calls.Add(1) }, zap.NewNop())
	w.debounce = 20 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// unrelated files are ignored
	require.Eventually(t, func() bool {
		_ = os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o644)
		_ = os.WriteFile(path, []byte("x"), 0o644)
		return calls.Load() > 0
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestWatcherMatches(t *testing.T) {
	w := NewWatcher("/data/employees.db", func() {}, zap.NewNop())
	assert.True(t, w.matches("/data/employees.db"))
	assert.True(t, w.matches("/data/employees.db-wal"))
	assert.True(t, w.matches("/data/employees.db-journal"))
	assert.False(t, w.matches("/data/other.db"))
}
