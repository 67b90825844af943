package bolt

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	interfaces "github.com/sheikh-saqib/daily-cash-reconciliation/internal/interfaces"
	"github.com/sheikh-saqib/daily-cash-reconciliation/internal/models"
	"github.com/sheikh-saqib/daily-cash-reconciliation/internal/storage/storetest"
)

func TestStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) interfaces.LedgerStore {
		store, err := Open(filepath.Join(t.TempDir(), "ledger.bolt"))
		require.NoError(t, err)
		t.Cleanup(func() { store.Close() })
		return store
	})
}

func TestListEntries_BranchPrefixDoesNotLeak(t *testing.T) {
	ctx := context.Background()
	store, err := Open(filepath.Join(t.TempDir(), "nested", "ledger.bolt"))
	require.NoError(t, err)
	defer store.Close()

	_, err = store.InsertEntry(ctx, storetest.Entry("b1", "acme", "B1", "2024-05-02", "1"))
	require.NoError(t, err)
	_, err = store.InsertEntry(ctx, storetest.Entry("b10", "acme", "B10", "2024-05-02", "1"))
	require.NoError(t, err)

	from, _ := models.ParseDate("2024-05-01")
	to, _ := models.ParseDate("2024-05-31")
	entries, err := store.ListEntries(ctx, "acme", "B1", from, to)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "b1", entries[0].ID)
}
