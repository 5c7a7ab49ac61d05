package db

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStore(t *testing.T) {
	t.Run("creates directory and database", func(t *testing.T) {
		tmpDir := t.TempDir()
		dbPath := filepath.Join(tmpDir, "subdir", "test.db")

		ctx := context.Background()
		store, err := NewStore(ctx, dbPath)
		require.NoError(t, err)
		defer store.Close()

		_, err = os.Stat(dbPath)
		assert.NoError(t, err)

		var result int
		err = store.QueryRowContext(ctx, "SELECT 1").Scan(&result)
		assert.NoError(t, err)
		assert.Equal(t, 1, result)
	})

	t.Run("sets WAL mode", func(t *testing.T) {
		store := newTestStore(t)

		var mode string
		err := store.QueryRowContext(context.Background(), "PRAGMA journal_mode").Scan(&mode)
		assert.NoError(t, err)
		assert.Equal(t, "wal", mode)
	})
}

func TestStore_Migrate(t *testing.T) {
	t.Run("creates refinement_events", func(t *testing.T) {
		store := newTestStore(t)

		var tableName string
		err := store.QueryRowContext(context.Background(),
			"SELECT name FROM sqlite_master WHERE type='table' AND name='refinement_events'").Scan(&tableName)
		assert.NoError(t, err)
		assert.Equal(t, "refinement_events", tableName)
	})

	t.Run("is idempotent", func(t *testing.T) {
		store := newTestStore(t)
		ctx := context.Background()

		require.NoError(t, store.Migrate(ctx))

		var applied int
		err := store.QueryRowContext(ctx, "SELECT COUNT(*) FROM schema_migrations").Scan(&applied)
		require.NoError(t, err)
		assert.Equal(t, 1, applied)

		count, err := store.CountRefinementEvents(ctx)
		assert.NoError(t, err)
		assert.Equal(t, int64(0), count)
	})
}

func TestQueries_RefinementEvents(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	events := []RefinementEvent{
		{ID: "1", RequestID: "r1", FieldKind: "problem", Perspective: "investor", Provider: "gemini", Outcome: OutcomeSuccess, InputChars: 40, OutputChars: 120, LatencyMs: 800},
		{ID: "2", RequestID: "r2", FieldKind: "problem", Perspective: "investor", Provider: "gemini", Outcome: OutcomeSuccess, LatencyMs: 1200},
		{ID: "3", RequestID: "r3", FieldKind: "solution", Perspective: "customer", Provider: "gemini", Outcome: OutcomeFailed, LatencyMs: 300},
		{ID: "4", RequestID: "r4", Provider: "gemini", Outcome: OutcomeRejected},
	}
	for _, e := range events {
		require.NoError(t, store.InsertRefinementEvent(ctx, e))
	}

	t.Run("count", func(t *testing.T) {
		count, err := store.CountRefinementEvents(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(4), count)

		recent, err := store.CountRefinementEventsSince(ctx, time.Now().Add(-time.Hour))
		require.NoError(t, err)
		assert.Equal(t, int64(4), recent)
	})

	t.Run("by outcome", func(t *testing.T) {
		rows, err := store.CountByOutcome(ctx)
		require.NoError(t, err)
		require.Len(t, rows, 3)

		assert.Equal(t, OutcomeFailed, rows[0].Outcome)
		assert.Equal(t, OutcomeRejected, rows[1].Outcome)
		assert.Equal(t, OutcomeSuccess, rows[2].Outcome)
		assert.Equal(t, int64(2), rows[2].Count)
		assert.InDelta(t, 1000.0, rows[2].AvgLatencyMs, 0.01)
	})

	t.Run("by kind and perspective", func(t *testing.T) {
		rows, err := store.CountByKindAndPerspective(ctx)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "problem", rows[0].FieldKind)
		assert.Equal(t, "investor", rows[0].Perspective)
		assert.Equal(t, int64(2), rows[0].Count)
	})

	t.Run("rejects unknown outcome", func(t *testing.T) {
		err := store.InsertRefinementEvent(ctx, RefinementEvent{ID: "5", RequestID: "r5", Outcome: "maybe"})
		assert.Error(t, err)
	})
}

func TestExtractUpMigration(t *testing.T) {
	t.Run("extracts up portion", func(t *testing.T) {
		content := `-- +migrate Up
CREATE TABLE test (id INTEGER);

-- +migrate Down
DROP TABLE test;
`
		assert.Equal(t, "CREATE TABLE test (id INTEGER);", extractUpMigration(content))
	})

	t.Run("handles no markers", func(t *testing.T) {
		content := "CREATE TABLE test (id INTEGER);"
		assert.Equal(t, content, extractUpMigration(content))
	})
}

// newTestStore provides a migrated database in a temp dir.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	ctx := context.Background()
	store, err := NewStore(ctx, dbPath)
	require.NoError(t, err)

	require.NoError(t, store.Migrate(ctx))

	t.Cleanup(func() {
		store.Close()
	})

	return store
}
