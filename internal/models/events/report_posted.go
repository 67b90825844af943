package events

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReportPosted is emitted once a daily cash report has been durably written.
type ReportPosted struct {
	EventID       string          `json:"event_id"`
	EntryID       string          `json:"entry_id"`
	Corporation   string          `json:"corporation"`
	Branch        string          `json:"branch"`
	ReportDate    string          `json:"report_date"`
	Teller        string          `json:"teller"`
	EndingBalance decimal.Decimal `json:"ending_balance"`
	CashCount     decimal.Decimal `json:"cash_count"`
	OccurredAt    time.Time       `json:"occurred_at"`
}

// PartitionKey keeps every report of one branch on the same partition.
func (e ReportPosted) PartitionKey() string {
	return e.Corporation + "/" + e.Branch
}
