package ledger

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	interfaces "github.com/sheikh-saqib/daily-cash-reconciliation/internal/interfaces"
	"github.com/sheikh-saqib/daily-cash-reconciliation/internal/logger"
	"github.com/sheikh-saqib/daily-cash-reconciliation/internal/models"
	"github.com/sheikh-saqib/daily-cash-reconciliation/internal/models/events"
	"github.com/sheikh-saqib/daily-cash-reconciliation/internal/subledger"
)

// PostResult is the outcome of a posting attempt.
type PostResult struct {
	OK     bool
	Entry  *models.LedgerEntry
	Reason *BlockError
}

// Err returns the blocking reason as an error, or nil on success.
func (r PostResult) Err() error {
	if r.Reason == nil {
		return nil
	}
	return r.Reason
}

// Post re-validates s against the store and appends the day's report.
// Nothing is written unless every check passes, and an existing report is never updated.
// The ReportPosted event is published after the branch lock is released.
func (l *Ledger) Post(ctx context.Context, s State) (State, PostResult) {
	entry, reason := l.commit(ctx, s)
	if reason != nil {
		return s, PostResult{Reason: reason}
	}

	l.publish(ctx, *entry)

	n := s.clone()
	n.Posted = true
	n.EntryID = entry.ID
	return n, PostResult{OK: true, Entry: entry}
}

// commit runs the final checks and the insert under the branch lock. The lock
// orders posts within this process; the store's unique key covers other processes.
func (l *Ledger) commit(ctx context.Context, s State) (*models.LedgerEntry, *BlockError) {
	mu := l.getBranchLock(s.Key)
	mu.Lock()
	defer mu.Unlock()

	log := logger.ForKey(l.log, s.Key.Corporation, s.Key.Branch, s.Key.DateString())

	if reason := l.validateForPost(ctx, s); reason != nil {
		log.Info().Str("reason", Code(reason)).Msg(reason.Error())
		return nil, reason
	}

	entry := l.buildEntry(s)

	rows, err := l.store.InsertEntry(ctx, entry)
	var reason *BlockError
	switch {
	case errors.Is(err, interfaces.ErrDuplicateEntry):
		reason = block(ErrEntryAlreadyExists, FieldDate,
			"a report for %s was posted by another session", s.Key.DateString())
	case err != nil:
		reason = &BlockError{Kind: ErrStorageFailure, Field: FieldDate, Message: "failed to save report", Cause: err}
	case rows == 0:
		reason = block(ErrStorageFailure, FieldDate, "no rows were inserted")
	}
	if reason != nil {
		log.Error().Err(reason).Msg("report insert failed")
		return nil, reason
	}

	log.Info().
		Str("entry_id", entry.ID).
		Str("ending_balance", entry.EndingBalance.StringFixed(2)).
		Msg("report posted")
	return &entry, nil
}

// validateForPost is the final authority: it re-runs the duplicate check and the
// continuity lookup instead of trusting what date selection saw.
func (l *Ledger) validateForPost(ctx context.Context, s State) *BlockError {
	if s.Posted {
		return block(ErrEntryAlreadyExists, FieldDate, "report for %s has already been posted", s.Key.DateString())
	}
	if s.Mode == ModeUninitialized {
		return block(ErrMissingRequiredField, FieldDate, "select a report date")
	}

	exists, err := l.guard.Check(ctx, s.Key)
	if err != nil {
		return &BlockError{Kind: ErrStorageFailure, Field: FieldDate,
			Message: "could not confirm that " + s.Key.DateString() + " is not already posted", Cause: err}
	}
	if exists {
		return block(ErrEntryAlreadyExists, FieldDate,
			"a report for %s already exists for branch %s", s.Key.DateString(), s.Key.Branch)
	}

	if reason := l.Evaluate(s).Reason(); reason != nil {
		return reason
	}

	res := l.resolver.Resolve(ctx, s.Key)
	if res.Unresolved() {
		return res.blockError()
	}
	if res.Previous != nil && !WithinTolerance(s.Beginning.Value.Sub(res.Previous.EndingBalance)) {
		return block(ErrContinuityViolation, FieldBeginningBalance,
			"beginning balance must equal %s from %s, not %s",
			FormatMoney(res.Previous.EndingBalance), res.Previous.Date.Format(models.DateLayout),
			FormatMoney(s.Beginning.Value))
	}
	return nil
}

// buildEntry writes every catalog column, zero when not entered, plus the sub-ledger totals.
func (l *Ledger) buildEntry(s State) models.LedgerEntry {
	ev := l.Evaluate(s)

	amounts := make(map[string]decimal.Decimal)
	for _, c := range l.catalog.All() {
		amounts[c.Code] = decimal.Zero
	}
	for code, a := range s.Amounts {
		amounts[code] = a.Value
	}

	var lines []models.ExchangeLine
	if len(s.Exchange) > 0 {
		lines = append(lines, s.Exchange...)
	}

	return models.LedgerEntry{
		ID:               l.newID(),
		EntryKey:         s.Key,
		Teller:           s.Teller,
		BeginningBalance: s.Beginning.Value,
		DebitTotal:       ev.Totals.Debit,
		CreditTotal:      ev.Totals.Credit,
		EndingBalance:    ev.Totals.Ending,
		CashCount:        s.CashCount.Value,
		CashResult:       ev.CashResult,
		Amounts:          subledger.Flatten(amounts, lines),
		ExchangeLines:    lines,
		PostedAt:         l.now().UTC(),
	}
}

func (l *Ledger) publish(ctx context.Context, entry models.LedgerEntry) {
	if l.publisher == nil {
		return
	}

	event := events.ReportPosted{
		EventID:       uuid.NewString(),
		EntryID:       entry.ID,
		Corporation:   entry.Corporation,
		Branch:        entry.Branch,
		ReportDate:    entry.DateString(),
		Teller:        entry.Teller,
		EndingBalance: entry.EndingBalance,
		CashCount:     entry.CashCount,
		OccurredAt:    entry.PostedAt,
	}
	if err := l.publisher.Publish(ctx, l.topic, event); err != nil {
		l.log.Error().Err(err).Str("entry_id", entry.ID).Msg("failed to publish report posted event")
	}
}
