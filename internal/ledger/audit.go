package ledger

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/sheikh-saqib/daily-cash-reconciliation/internal/models"
)

// ErrBalanceMismatch marks a stored report whose derived fields do not add up.
var ErrBalanceMismatch = errors.New("balance equation violated")

// Finding is one invariant violation in stored history.
type Finding struct {
	Kind    error
	Date    time.Time
	Message string
}

func (f Finding) Error() string {
	return f.Date.Format(models.DateLayout) + ": " + f.Message
}

func (f Finding) Unwrap() error {
	return f.Kind
}

// Audit checks one branch's posted reports: the balance equation and cash result
// exactly, zero variance, unique dates, and continuity with the nearest earlier
// report when it lies within lookbackDays.
func Audit(entries []models.LedgerEntry, lookbackDays int) []Finding {
	sorted := append([]models.LedgerEntry(nil), entries...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	var findings []Finding
	add := func(kind error, date time.Time, format string, args ...any) {
		findings = append(findings, Finding{Kind: kind, Date: date, Message: fmt.Sprintf(format, args...)})
	}

	var prev *models.LedgerEntry
	for i := range sorted {
		e := &sorted[i]

		if prev != nil && e.Date.Equal(prev.Date) {
			add(ErrEntryAlreadyExists, e.Date, "duplicate reports %s and %s", prev.ID, e.ID)
			continue
		}

		ending := e.BeginningBalance.Add(e.DebitTotal).Sub(e.CreditTotal)
		if !ending.Equal(e.EndingBalance) {
			add(ErrBalanceMismatch, e.Date, "ending balance %s should be %s",
				FormatMoney(e.EndingBalance), FormatMoney(ending))
		}
		if result := ComputeVariance(e.CashCount, e.EndingBalance); !result.Equal(e.CashResult) {
			add(ErrBalanceMismatch, e.Date, "cash result %s should be %s",
				FormatMoney(e.CashResult), FormatMoney(result))
		}
		if !WithinTolerance(e.CashResult) {
			add(ErrVarianceDetected, e.Date, "posted with variance %s", FormatMoney(e.CashResult))
		}

		if prev != nil {
			gap := int(e.Date.Sub(prev.Date).Hours() / 24)
			if gap <= lookbackDays && !WithinTolerance(e.BeginningBalance.Sub(prev.EndingBalance)) {
				add(ErrContinuityViolation, e.Date, "beginning balance %s does not match %s from %s",
					FormatMoney(e.BeginningBalance), FormatMoney(prev.EndingBalance),
					prev.Date.Format(models.DateLayout))
			}
		}
		prev = e
	}
	return findings
}
