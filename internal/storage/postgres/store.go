package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/lib/pq" // Postgres driver

	interfaces "github.com/sheikh-saqib/daily-cash-reconciliation/internal/interfaces" // interface LedgerStore
	"github.com/sheikh-saqib/daily-cash-reconciliation/internal/storage/sqlstore"
)

const schema = `
CREATE TABLE IF NOT EXISTS daily_reports (
    id TEXT PRIMARY KEY,
    corporation TEXT NOT NULL,
    branch TEXT NOT NULL,
    report_date DATE NOT NULL,
    teller TEXT NOT NULL DEFAULT '',
    beginning_balance NUMERIC NOT NULL,
    debit_total NUMERIC NOT NULL,
    credit_total NUMERIC NOT NULL,
    ending_balance NUMERIC NOT NULL,
    cash_count NUMERIC NOT NULL,
    cash_result NUMERIC NOT NULL,
    posted_at TIMESTAMPTZ NOT NULL,
    UNIQUE (corporation, branch, report_date)
);

CREATE TABLE IF NOT EXISTS daily_report_amounts (
    report_id TEXT NOT NULL REFERENCES daily_reports(id),
    category TEXT NOT NULL,
    amount NUMERIC NOT NULL,
    PRIMARY KEY (report_id, category)
);

CREATE TABLE IF NOT EXISTS daily_report_exchange_lines (
    report_id TEXT NOT NULL REFERENCES daily_reports(id),
    line_no INTEGER NOT NULL,
    currency TEXT NOT NULL,
    quantity BIGINT NOT NULL,
    rate NUMERIC NOT NULL,
    php_total NUMERIC NOT NULL,
    PRIMARY KEY (report_id, line_no)
);
`

// uniqueViolation is the SQLSTATE for unique_violation.
const uniqueViolation = pq.ErrorCode("23505")

var Dialect = sqlstore.Dialect{
	Name:        "postgres",
	Placeholder: func(n int) string { return "$" + strconv.Itoa(n) },
	DateColumn:  "to_char(report_date, 'YYYY-MM-DD')",
	Schema:      schema,
	IsUniqueViolation: func(err error) bool {
		var pqErr *pq.Error
		return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
	},
}

type PostgresLedgerStore struct {
	*sqlstore.Store
}

func NewPostgresLedgerStore(db *sql.DB) *PostgresLedgerStore {
	return &PostgresLedgerStore{
		Store: sqlstore.New(db, Dialect),
	}
}

// Open connects to dsn and makes sure the schema exists.
func Open(ctx context.Context, dsn string) (*PostgresLedgerStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := NewPostgresLedgerStore(db)
	if err := store.InitSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

var _ interfaces.LedgerStore = (*PostgresLedgerStore)(nil)
