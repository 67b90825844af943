// Package sqlstore implements interfaces.LedgerStore over database/sql.
// The postgres and sqlite packages supply the dialect.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	interfaces "github.com/sheikh-saqib/daily-cash-reconciliation/internal/interfaces"
	"github.com/sheikh-saqib/daily-cash-reconciliation/internal/models"
)

// Dialect captures what differs between SQL backends.
type Dialect struct {
	Name string
	// Placeholder renders the n-th (1-based) bind parameter.
	Placeholder func(n int) string
	// DateColumn selects report_date as YYYY-MM-DD text.
	DateColumn string
	Schema     string
	// IsUniqueViolation reports a unique constraint failure.
	IsUniqueViolation func(err error) bool
}

// Store is a LedgerStore backed by three tables: daily_reports holds one row per
// corporation/branch/date, daily_report_amounts and daily_report_exchange_lines hold its details.
type Store struct {
	db      *sql.DB
	dialect Dialect
}

func New(db *sql.DB, dialect Dialect) *Store {
	return &Store{db: db, dialect: dialect}
}

// InitSchema creates the tables if they don't exist.
func (s *Store) InitSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, s.dialect.Schema); err != nil {
		return fmt.Errorf("failed to initialize %s schema: %w", s.dialect.Name, err)
	}
	return nil
}

// DB returns the underlying handle.
func (s *Store) DB() *sql.DB {
	return s.db
}

func (s *Store) Close() error {
	return s.db.Close()
}

// rebind rewrites ? markers into the dialect's placeholders.
func (s *Store) rebind(query string) string {
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString(s.dialect.Placeholder(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *Store) selectReport() string {
	return `SELECT id, corporation, branch, ` + s.dialect.DateColumn + `, teller,
		beginning_balance, debit_total, credit_total, ending_balance, cash_count, cash_result, posted_at
	FROM daily_reports`
}

func (s *Store) EntryExists(ctx context.Context, key models.EntryKey) (bool, error) {
	query := s.rebind(`SELECT 1 FROM daily_reports
		WHERE corporation = ? AND branch = ? AND report_date = ? LIMIT 1`)

	var exists int
	err := s.db.QueryRowContext(ctx, query, key.Corporation, key.Branch, key.DateString()).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check entry %s: %w", key, err)
	}
	return true, nil
}

func (s *Store) FindEntry(ctx context.Context, key models.EntryKey) (*models.LedgerEntry, error) {
	query := s.rebind(s.selectReport() + `
		WHERE corporation = ? AND branch = ? AND report_date = ?`)

	entry, err := scanReport(s.db.QueryRowContext(ctx, query, key.Corporation, key.Branch, key.DateString()))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find entry %s: %w", key, err)
	}

	if err := s.loadDetails(ctx, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

func (s *Store) ListEntries(ctx context.Context, corporation, branch string, from, to time.Time) ([]models.LedgerEntry, error) {
	query := s.rebind(s.selectReport() + `
		WHERE corporation = ? AND branch = ? AND report_date >= ? AND report_date <= ?
		ORDER BY report_date`)

	rows, err := s.db.QueryContext(ctx, query, corporation, branch,
		from.Format(models.DateLayout), to.Format(models.DateLayout))
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	defer rows.Close()

	var entries []models.LedgerEntry
	for rows.Next() {
		entry, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range entries {
		if err := s.loadDetails(ctx, &entries[i]); err != nil {
			return nil, err
		}
	}
	return entries, nil
}

// InsertEntry writes the report row and its details in one transaction.
func (s *Store) InsertEntry(ctx context.Context, entry models.LedgerEntry) (int64, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}

	rows, err := s.insertEntry(ctx, dbTx, entry)
	if err != nil {
		dbTx.Rollback()
		return 0, err
	}

	if err := dbTx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return rows, nil
}

func (s *Store) insertEntry(ctx context.Context, dbTx *sql.Tx, entry models.LedgerEntry) (int64, error) {
	insertReport := s.rebind(`INSERT INTO daily_reports (id, corporation, branch, report_date, teller,
		beginning_balance, debit_total, credit_total, ending_balance, cash_count, cash_result, posted_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)

	res, err := dbTx.ExecContext(ctx, insertReport,
		entry.ID, entry.Corporation, entry.Branch, entry.DateString(), entry.Teller,
		entry.BeginningBalance, entry.DebitTotal, entry.CreditTotal, entry.EndingBalance,
		entry.CashCount, entry.CashResult, entry.PostedAt)
	if err != nil {
		if s.dialect.IsUniqueViolation(err) {
			return 0, fmt.Errorf("%w: %s", interfaces.ErrDuplicateEntry, entry.EntryKey)
		}
		return 0, fmt.Errorf("failed to insert report: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	insertAmount := s.rebind(`INSERT INTO daily_report_amounts (report_id, category, amount) VALUES (?, ?, ?)`)
	codes := make([]string, 0, len(entry.Amounts))
	for code := range entry.Amounts {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	for _, code := range codes {
		if _, err := dbTx.ExecContext(ctx, insertAmount, entry.ID, code, entry.Amounts[code]); err != nil {
			return 0, fmt.Errorf("failed to insert amount %s: %w", code, err)
		}
	}

	insertLine := s.rebind(`INSERT INTO daily_report_exchange_lines (report_id, line_no, currency, quantity, rate, php_total)
	VALUES (?, ?, ?, ?, ?, ?)`)
	for i, line := range entry.ExchangeLines {
		if _, err := dbTx.ExecContext(ctx, insertLine, entry.ID, i+1, line.Currency, line.Quantity, line.Rate, line.Total); err != nil {
			return 0, fmt.Errorf("failed to insert exchange line %d: %w", i+1, err)
		}
	}

	return rows, nil
}

func (s *Store) loadDetails(ctx context.Context, entry *models.LedgerEntry) error {
	rows, err := s.db.QueryContext(ctx,
		s.rebind(`SELECT category, amount FROM daily_report_amounts WHERE report_id = ?`), entry.ID)
	if err != nil {
		return fmt.Errorf("failed to load amounts for %s: %w", entry.ID, err)
	}
	defer rows.Close()

	entry.Amounts = make(map[string]decimal.Decimal)
	for rows.Next() {
		var code string
		var amount decimal.Decimal
		if err := rows.Scan(&code, &amount); err != nil {
			return fmt.Errorf("failed to scan amount: %w", err)
		}
		entry.Amounts[code] = amount
	}
	if err := rows.Err(); err != nil {
		return err
	}

	lines, err := s.db.QueryContext(ctx,
		s.rebind(`SELECT currency, quantity, rate, php_total FROM daily_report_exchange_lines
		WHERE report_id = ? ORDER BY line_no`), entry.ID)
	if err != nil {
		return fmt.Errorf("failed to load exchange lines for %s: %w", entry.ID, err)
	}
	defer lines.Close()

	for lines.Next() {
		var line models.ExchangeLine
		if err := lines.Scan(&line.Currency, &line.Quantity, &line.Rate, &line.Total); err != nil {
			return fmt.Errorf("failed to scan exchange line: %w", err)
		}
		entry.ExchangeLines = append(entry.ExchangeLines, line)
	}
	return lines.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReport(row rowScanner) (models.LedgerEntry, error) {
	var entry models.LedgerEntry
	var date string

	err := row.Scan(
		&entry.ID,
		&entry.Corporation,
		&entry.Branch,
		&date,
		&entry.Teller,
		&entry.BeginningBalance,
		&entry.DebitTotal,
		&entry.CreditTotal,
		&entry.EndingBalance,
		&entry.CashCount,
		&entry.CashResult,
		&entry.PostedAt,
	)
	if err != nil {
		return entry, err
	}

	entry.Date, err = models.ParseDate(date)
	if err != nil {
		return entry, err
	}
	entry.PostedAt = entry.PostedAt.UTC()
	return entry, nil
}

var _ interfaces.LedgerStore = (*Store)(nil)
