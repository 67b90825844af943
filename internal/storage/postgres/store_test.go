package postgres

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	interfaces "github.com/sheikh-saqib/daily-cash-reconciliation/internal/interfaces"
	"github.com/sheikh-saqib/daily-cash-reconciliation/internal/storage/storetest"
)

// Set LEDGER_TEST_POSTGRES_DSN to run against a live server.
func TestPostgresLedgerStore(t *testing.T) {
	dsn := os.Getenv("LEDGER_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("LEDGER_TEST_POSTGRES_DSN not set")
	}

	storetest.Run(t, func(t *testing.T) interfaces.LedgerStore {
		store, err := Open(context.Background(), dsn)
		require.NoError(t, err)
		t.Cleanup(func() {
			store.DB().Exec(`TRUNCATE daily_report_exchange_lines, daily_report_amounts, daily_reports`)
			store.Close()
		})
		_, err = store.DB().Exec(`TRUNCATE daily_report_exchange_lines, daily_report_amounts, daily_reports`)
		require.NoError(t, err)
		return store
	})
}

func TestDialect_Placeholder(t *testing.T) {
	require.Equal(t, "$1", Dialect.Placeholder(1))
	require.Equal(t, "$12", Dialect.Placeholder(12))
}

func TestDialect_IsUniqueViolation(t *testing.T) {
	require.True(t, Dialect.IsUniqueViolation(&pq.Error{Code: "23505"}))
	require.True(t, Dialect.IsUniqueViolation(fmt.Errorf("insert: %w", &pq.Error{Code: "23505"})))
	require.False(t, Dialect.IsUniqueViolation(&pq.Error{Code: "23503"}))
	require.False(t, Dialect.IsUniqueViolation(errors.New("connection reset")))
}
