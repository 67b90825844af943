package memory

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	interfaces "github.com/sheikh-saqib/daily-cash-reconciliation/internal/interfaces"
	"github.com/sheikh-saqib/daily-cash-reconciliation/internal/storage/storetest"
)

func TestMemoryLedgerStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) interfaces.LedgerStore {
		return NewMemoryLedgerStore()
	})
}

func TestMemoryLedgerStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryLedgerStore()
	entry := storetest.Entry("id-1", "acme", "B1", "2024-05-10", "100")

	_, err := store.InsertEntry(ctx, entry)
	require.NoError(t, err)
	entry.Amounts["pc_salary"] = decimal.NewFromInt(42)

	got, err := store.FindEntry(ctx, entry.EntryKey)
	require.NoError(t, err)
	got.Amounts["interest"] = decimal.NewFromInt(1)

	again, err := store.FindEntry(ctx, entry.EntryKey)
	require.NoError(t, err)
	assert.True(t, again.Amounts["pc_salary"].IsZero())
	assert.NotContains(t, again.Amounts, "interest")
}
