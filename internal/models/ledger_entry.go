package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the calendar-date format used for report dates everywhere.
const DateLayout = "2006-01-02"

// EntryKey identifies one business day's cash report for one branch.
// At most one LedgerEntry may exist per key.
type EntryKey struct {
	Corporation string    `json:"corporation"`
	Branch      string    `json:"branch"`
	Date        time.Time `json:"date"`
}

// NewEntryKey builds a key with the date truncated to a UTC calendar day.
func NewEntryKey(corporation, branch string, date time.Time) EntryKey {
	return EntryKey{
		Corporation: corporation,
		Branch:      branch,
		Date:        Day(date),
	}
}

// Day drops the clock part of t, keeping its calendar date.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD report date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid report date %q: %w", s, err)
	}
	return t, nil
}

// AddDays returns the key for the same branch n calendar days away.
func (k EntryKey) AddDays(n int) EntryKey {
	return EntryKey{
		Corporation: k.Corporation,
		Branch:      k.Branch,
		Date:        k.Date.AddDate(0, 0, n),
	}
}

// DateString formats the key's date as YYYY-MM-DD.
func (k EntryKey) DateString() string {
	return k.Date.Format(DateLayout)
}

func (k EntryKey) String() string {
	return k.Corporation + "/" + k.Branch + "/" + k.DateString()
}

// ExchangeLine is one foreign currency purchase on the day's exchange sheet.
type ExchangeLine struct {
	Currency string          `json:"currency"`
	Quantity int64           `json:"quantity"`
	Rate     decimal.Decimal `json:"rate"`
	Total    decimal.Decimal `json:"php_total"`
}

// LedgerEntry is one posted daily cash report. Once stored it is never updated.
type LedgerEntry struct {
	ID string `json:"id"`
	EntryKey
	Teller           string          `json:"teller"`
	BeginningBalance decimal.Decimal `json:"beginning_balance"`
	DebitTotal       decimal.Decimal `json:"debit_total"`
	CreditTotal      decimal.Decimal `json:"credit_total"`
	EndingBalance    decimal.Decimal `json:"ending_balance"`
	CashCount        decimal.Decimal `json:"cash_count"`
	CashResult       decimal.Decimal `json:"cash_result"`

	// Amounts holds every category and sub-ledger column keyed by code.
	Amounts       map[string]decimal.Decimal `json:"amounts"`
	ExchangeLines []ExchangeLine             `json:"exchange_lines,omitempty"`
	PostedAt      time.Time                  `json:"posted_at"`
}

// Clone returns a copy that shares no maps or slices with e.
func (e LedgerEntry) Clone() LedgerEntry {
	c := e
	c.Amounts = make(map[string]decimal.Decimal, len(e.Amounts))
	for code, amount := range e.Amounts {
		c.Amounts[code] = amount
	}
	if e.ExchangeLines != nil {
		c.ExchangeLines = append([]ExchangeLine(nil), e.ExchangeLines...)
	}
	return c
}
