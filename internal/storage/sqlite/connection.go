// Package sqlite stores daily reports in a local SQLite file, the default for a
// single branch workstation.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mattn/go-sqlite3" // SQLite driver

	interfaces "github.com/sheikh-saqib/daily-cash-reconciliation/internal/interfaces"
	"github.com/sheikh-saqib/daily-cash-reconciliation/internal/storage/sqlstore"
)

const schema = `
CREATE TABLE IF NOT EXISTS daily_reports (
    id TEXT PRIMARY KEY,
    corporation TEXT NOT NULL,
    branch TEXT NOT NULL,
    report_date TEXT NOT NULL,         -- YYYY-MM-DD
    teller TEXT NOT NULL DEFAULT '',
    beginning_balance TEXT NOT NULL,   -- decimal strings
    debit_total TEXT NOT NULL,
    credit_total TEXT NOT NULL,
    ending_balance TEXT NOT NULL,
    cash_count TEXT NOT NULL,
    cash_result TEXT NOT NULL,
    posted_at TIMESTAMP NOT NULL,
    UNIQUE(corporation, branch, report_date)
);

CREATE TABLE IF NOT EXISTS daily_report_amounts (
    report_id TEXT NOT NULL REFERENCES daily_reports(id),
    category TEXT NOT NULL,
    amount TEXT NOT NULL,
    PRIMARY KEY (report_id, category)
);

CREATE TABLE IF NOT EXISTS daily_report_exchange_lines (
    report_id TEXT NOT NULL REFERENCES daily_reports(id),
    line_no INTEGER NOT NULL,
    currency TEXT NOT NULL,
    quantity INTEGER NOT NULL,
    rate TEXT NOT NULL,
    php_total TEXT NOT NULL,
    PRIMARY KEY (report_id, line_no)
);
`

var Dialect = sqlstore.Dialect{
	Name:        "sqlite",
	Placeholder: func(int) string { return "?" },
	DateColumn:  "report_date",
	Schema:      schema,
	IsUniqueViolation: func(err error) bool {
		var sqliteErr sqlite3.Error
		return errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	},
}

// Store is a SQLite-backed LedgerStore.
type Store struct {
	*sqlstore.Store
	path string
}

// Open opens (creating if needed) the database file at path.
// It enables WAL mode for better concurrency and foreign key constraints.
func Open(ctx context.Context, path string) (*Store, error) {
	// Ensure database file's parent directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	connStr := fmt.Sprintf("file:%s?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000", path)
	db, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &Store{Store: sqlstore.New(db, Dialect), path: path}
	if err := store.InitSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

var _ interfaces.LedgerStore = (*Store)(nil)
