package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	interfaces "github.com/sheikh-saqib/daily-cash-reconciliation/internal/interfaces"
	"github.com/sheikh-saqib/daily-cash-reconciliation/internal/storage/storetest"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	store, err := Open(context.Background(), filepath.Join(t.TempDir(), "data", "ledger.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) interfaces.LedgerStore {
		return openTemp(t)
	})
}

func TestOpen_Reopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "ledger.db")

	store, err := Open(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, path, store.Path())

	entry := storetest.Entry("id-1", "acme", "B1", "2024-05-10", "100")
	_, err = store.InsertEntry(ctx, entry)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	reopened, err := Open(ctx, path)
	require.NoError(t, err)
	defer reopened.Close()

	exists, err := reopened.EntryExists(ctx, entry.EntryKey)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestInsertEntry_RollsBackDetailsOnFailure(t *testing.T) {
	ctx := context.Background()
	store := openTemp(t)

	_, err := store.InsertEntry(ctx, storetest.Entry("id-1", "acme", "B1", "2024-05-10", "100"))
	require.NoError(t, err)
	_, err = store.InsertEntry(ctx, storetest.Entry("id-2", "acme", "B1", "2024-05-10", "100"))
	require.Error(t, err)

	var orphans int
	err = store.DB().QueryRowContext(ctx,
		`SELECT COUNT(*) FROM daily_report_amounts WHERE report_id = 'id-2'`).Scan(&orphans)
	require.NoError(t, err)
	assert.Zero(t, orphans)
}
