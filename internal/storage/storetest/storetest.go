// Package storetest holds the behaviour every LedgerStore backend must share.
package storetest

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	interfaces "github.com/sheikh-saqib/daily-cash-reconciliation/internal/interfaces"
	"github.com/sheikh-saqib/daily-cash-reconciliation/internal/models"
)

func day(s string) time.Time {
	d, err := models.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Entry builds a balanced report for corporation/branch on date.
func Entry(id, corporation, branch, date, ending string) models.LedgerEntry {
	e := decimal.RequireFromString(ending)
	return models.LedgerEntry{
		ID:               id,
		EntryKey:         models.NewEntryKey(corporation, branch, day(date)),
		Teller:           "ana",
		BeginningBalance: e.Sub(decimal.NewFromInt(300)),
		DebitTotal:       decimal.NewFromInt(500),
		CreditTotal:      decimal.NewFromInt(200),
		EndingBalance:    e,
		CashCount:        e,
		CashResult:       decimal.Zero,
		Amounts: map[string]decimal.Decimal{
			"rescate_jewelry": decimal.NewFromInt(500),
			"empeno_jew_new":  decimal.NewFromInt(200),
			"pc_salary":       decimal.Zero,
			"mc_grand_total":  decimal.RequireFromString("5610.50"),
		},
		ExchangeLines: []models.ExchangeLine{
			{Currency: "USD", Quantity: 100, Rate: decimal.RequireFromString("56.105"), Total: decimal.RequireFromString("5610.50")},
		},
		PostedAt: time.Date(2024, 5, 10, 18, 30, 0, 0, time.UTC),
	}
}

// Run exercises a fresh store returned by newStore.
func Run(t *testing.T, newStore func(t *testing.T) interfaces.LedgerStore) {
	t.Run("missing entry", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()
		key := models.NewEntryKey("acme", "B1", day("2024-05-10"))

		got, err := store.FindEntry(ctx, key)
		require.NoError(t, err)
		assert.Nil(t, got)

		exists, err := store.EntryExists(ctx, key)
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("insert and read back", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()
		want := Entry("id-1", "acme", "B1", "2024-05-10", "10523.40")

		rows, err := store.InsertEntry(ctx, want)
		require.NoError(t, err)
		assert.Equal(t, int64(1), rows)

		exists, err := store.EntryExists(ctx, want.EntryKey)
		require.NoError(t, err)
		assert.True(t, exists)

		got, err := store.FindEntry(ctx, want.EntryKey)
		require.NoError(t, err)
		require.NotNil(t, got)
		assertSameEntry(t, want, *got)
	})

	t.Run("duplicate key is rejected", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		_, err := store.InsertEntry(ctx, Entry("id-1", "acme", "B1", "2024-05-10", "1300"))
		require.NoError(t, err)

		_, err = store.InsertEntry(ctx, Entry("id-2", "acme", "B1", "2024-05-10", "9999"))
		require.Error(t, err)
		assert.True(t, errors.Is(err, interfaces.ErrDuplicateEntry), "got %v", err)

		got, err := store.FindEntry(ctx, models.NewEntryKey("acme", "B1", day("2024-05-10")))
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "id-1", got.ID, "the first report must be kept unchanged")
	})

	t.Run("keys are scoped by corporation and branch", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		for _, e := range []models.LedgerEntry{
			Entry("a", "acme", "B1", "2024-05-10", "1"),
			Entry("b", "acme", "B2", "2024-05-10", "2"),
			Entry("c", "other", "B1", "2024-05-10", "3"),
		} {
			_, err := store.InsertEntry(ctx, e)
			require.NoError(t, err)
		}

		got, err := store.FindEntry(ctx, models.NewEntryKey("acme", "B2", day("2024-05-10")))
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "b", got.ID)
	})

	t.Run("list by range oldest first", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		for _, e := range []models.LedgerEntry{
			Entry("d3", "acme", "B1", "2024-05-03", "3"),
			Entry("d1", "acme", "B1", "2024-05-01", "1"),
			Entry("d7", "acme", "B1", "2024-05-07", "7"),
			Entry("x2", "acme", "B2", "2024-05-02", "2"),
			Entry("d9", "acme", "B1", "2024-04-30", "0"),
		} {
			_, err := store.InsertEntry(ctx, e)
			require.NoError(t, err)
		}

		entries, err := store.ListEntries(ctx, "acme", "B1", day("2024-05-01"), day("2024-05-07"))
		require.NoError(t, err)

		ids := make([]string, 0, len(entries))
		for _, e := range entries {
			ids = append(ids, e.ID)
		}
		assert.Equal(t, []string{"d1", "d3", "d7"}, ids)
		require.Len(t, entries, 3)
		assertSameEntry(t, Entry("d3", "acme", "B1", "2024-05-03", "3"), entries[1])

		none, err := store.ListEntries(ctx, "acme", "B9", day("2024-05-01"), day("2024-05-07"))
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("concurrent inserts of one key", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		const writers = 6
		var wg sync.WaitGroup
		errs := make([]error, writers)
		for i := 0; i < writers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				e := Entry("id-"+string(rune('a'+i)), "acme", "B1", "2024-05-10", "100")
				_, errs[i] = store.InsertEntry(ctx, e)
			}(i)
		}
		wg.Wait()

		ok := 0
		for _, err := range errs {
			if err == nil {
				ok++
			}
		}
		assert.Equal(t, 1, ok)
	})
}

func assertSameEntry(t *testing.T, want, got models.LedgerEntry) {
	t.Helper()

	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, want.Corporation, got.Corporation)
	assert.Equal(t, want.Branch, got.Branch)
	assert.Equal(t, want.DateString(), got.DateString())
	assert.True(t, want.Date.Equal(got.Date), "date %s", got.Date)
	assert.Equal(t, want.Teller, got.Teller)
	assert.True(t, want.BeginningBalance.Equal(got.BeginningBalance), "beginning %s", got.BeginningBalance)
	assert.True(t, want.DebitTotal.Equal(got.DebitTotal))
	assert.True(t, want.CreditTotal.Equal(got.CreditTotal))
	assert.True(t, want.EndingBalance.Equal(got.EndingBalance), "ending %s", got.EndingBalance)
	assert.True(t, want.CashCount.Equal(got.CashCount))
	assert.True(t, want.CashResult.Equal(got.CashResult))
	assert.True(t, want.PostedAt.Equal(got.PostedAt), "posted_at %s", got.PostedAt)

	require.Len(t, got.Amounts, len(want.Amounts))
	for code, amount := range want.Amounts {
		assert.True(t, amount.Equal(got.Amounts[code]), "%s: %s", code, got.Amounts[code])
	}

	require.Len(t, got.ExchangeLines, len(want.ExchangeLines))
	for i, line := range want.ExchangeLines {
		assert.Equal(t, line.Currency, got.ExchangeLines[i].Currency)
		assert.Equal(t, line.Quantity, got.ExchangeLines[i].Quantity)
		assert.True(t, line.Rate.Equal(got.ExchangeLines[i].Rate))
		assert.True(t, line.Total.Equal(got.ExchangeLines[i].Total))
	}
}
