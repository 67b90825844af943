package cmd

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sheikh-saqib/daily-cash-reconciliation/internal/ledger"
	"github.com/sheikh-saqib/daily-cash-reconciliation/internal/storage/memory"
)

const firstDay = `
corporation: acme
branch: B1
teller: ana
date: 2024-05-01
beginning_balance: "1,000.00"
amounts:
  rescate_jewelry: "500"
  empeno_jew_new: "200"
cash_count: "1300"
exchange:
  - {currency: USD, quantity: 10, rate: "56.10"}
`

const secondDay = `
corporation: acme
branch: B1
date: 2024-05-02
load_previous: true
amounts:
  interest: "25"
cash_count: "1325"
`

func TestParseDaySheet(t *testing.T) {
	sheet, err := ParseDaySheet([]byte(firstDay))
	require.NoError(t, err)

	assert.Equal(t, "acme", sheet.Corporation)
	assert.Equal(t, "1,000.00", sheet.BeginningBalance)
	assert.Equal(t, "500", sheet.Amounts["rescate_jewelry"])
	require.Len(t, sheet.Exchange, 1)
	assert.Equal(t, int64(10), sheet.Exchange[0].Quantity)
}

func TestParseDaySheet_Invalid(t *testing.T) {
	tests := map[string]string{
		"missing keys": "teller: ana\n",
		"bad date":     "corporation: acme\nbranch: B1\ndate: 01/05/2024\n",
		"not yaml":     "corporation: [acme\n",
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseDaySheet([]byte(data))
			assert.Error(t, err)
		})
	}
}

func TestDaySheet_ApplyAndPost(t *testing.T) {
	ctx := context.Background()
	l := ledger.NewLedger(memory.NewMemoryLedgerStore())

	for i, data := range []string{firstDay, secondDay} {
		sheet, err := ParseDaySheet([]byte(data))
		require.NoError(t, err)

		s, err := sheet.Apply(ctx, l)
		require.NoError(t, err, "sheet %d", i+1)
		require.True(t, s.Evaluate().CanPost, "sheet %d: %v", i+1, s.Evaluate().Reason())

		res := s.AttemptPost(ctx)
		require.True(t, res.OK, "sheet %d: %v", i+1, res.Err())
	}

	again, err := ParseDaySheet([]byte(secondDay))
	require.NoError(t, err)
	s, err := again.Apply(ctx, l)
	assert.ErrorIs(t, err, ledger.ErrNotEditable)
	assert.Equal(t, ledger.ModeEntryExists, s.State().Mode)
}

func TestDaySheet_RejectsUnknownCategory(t *testing.T) {
	sheet, err := ParseDaySheet([]byte("corporation: acme\nbranch: B1\ndate: 2024-05-01\namounts:\n  lottery: \"5\"\n"))
	require.NoError(t, err)

	_, err = sheet.Apply(context.Background(), ledger.NewLedger(memory.NewMemoryLedgerStore()))
	assert.ErrorIs(t, err, ledger.ErrUnknownField)
}

func TestLoadDaySheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "day.yaml")
	require.NoError(t, os.WriteFile(path, []byte(firstDay), 0o600))

	sheet, err := LoadDaySheet(path)
	require.NoError(t, err)
	assert.Equal(t, "2024-05-01", sheet.Date)
}
