package ledger

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/sheikh-saqib/daily-cash-reconciliation/internal/catalog"
	"github.com/sheikh-saqib/daily-cash-reconciliation/internal/models"
)

// Field names that are not catalog categories.
const (
	FieldDate             = "date"
	FieldBeginningBalance = "beginning_balance"
	FieldCashCount        = "cash_count"
	FieldExchange         = "exchange"
)

// Mode is what date selection established about the chosen day.
type Mode string

const (
	ModeUninitialized Mode = "uninitialized"
	// ModeEntryExists is terminal: the day is already posted and nothing may be edited.
	ModeEntryExists Mode = "entry_exists"
	// ModeNoPriorRecord is first-entry mode; the beginning balance is typed in.
	ModeNoPriorRecord Mode = "no_prior_record"
	// ModeContinuityPending requires the previous ending balance to be loaded.
	ModeContinuityPending Mode = "continuity_pending"
	// ModeContinuityUnresolved means the lookback could not read every day it needed.
	ModeContinuityUnresolved Mode = "continuity_unresolved"
	// ModeCheckFailed means the duplicate check itself could not run.
	ModeCheckFailed Mode = "check_failed"
)

// Status is the progress of an editable day toward posting.
type Status string

const (
	StatusBlocked         Status = "blocked"
	StatusBalanceUnloaded Status = "balance_unloaded"
	StatusBalanceLoaded   Status = "balance_loaded"
	StatusBalanced        Status = "balanced"
	StatusOver            Status = "over"
	StatusShort           Status = "short"
	StatusPosted          Status = "posted"
)

// State is the complete gate state for one report date. Transitions take a State
// and return a new one; a State is never modified in place.
type State struct {
	Key      models.EntryKey
	Teller   string
	Mode     Mode
	Previous *Predecessor
	// Fault explains ModeCheckFailed and ModeContinuityUnresolved.
	Fault *BlockError

	Beginning  Amount
	AutoFilled bool
	Amounts    map[string]Amount
	CashCount  Amount
	Exchange   []models.ExchangeLine

	Posted  bool
	EntryID string
}

// Editable reports whether fields of the day may still change.
func (s State) Editable() bool {
	if s.Posted {
		return false
	}
	return s.Mode == ModeNoPriorRecord || s.Mode == ModeContinuityPending
}

func (s State) beginningSourced() bool {
	switch s.Mode {
	case ModeNoPriorRecord:
		return !s.Beginning.Empty()
	case ModeContinuityPending:
		return s.AutoFilled
	}
	return false
}

func (s State) clone() State {
	c := s
	c.Amounts = make(map[string]Amount, len(s.Amounts))
	for code, a := range s.Amounts {
		c.Amounts[code] = a
	}
	if s.Exchange != nil {
		c.Exchange = append([]models.ExchangeLine(nil), s.Exchange...)
	}
	if s.Previous != nil {
		p := *s.Previous
		c.Previous = &p
	}
	return c
}

// Evaluation is everything derived from a State on each field change.
type Evaluation struct {
	Totals     Totals
	CashResult decimal.Decimal
	Variance   Variance
	Status     Status
	CanPost    bool
	// Blockers lists every reason posting is not allowed, most fundamental first.
	Blockers []*BlockError
}

// Reason is the primary blocker, or nil when the day may be posted.
func (e Evaluation) Reason() *BlockError {
	if len(e.Blockers) == 0 {
		return nil
	}
	return e.Blockers[0]
}

// Evaluate recomputes totals and the postability predicate. It has no side effects.
func Evaluate(cat *catalog.Catalog, s State) Evaluation {
	totals := ComputeTotals(cat, s.Beginning.Value, s.Amounts)
	result := ComputeVariance(s.CashCount.Value, totals.Ending)

	ev := Evaluation{
		Totals:     totals,
		CashResult: result,
		Variance:   Classify(result),
	}
	ev.Blockers = blockers(s, ev)
	ev.CanPost = len(ev.Blockers) == 0
	ev.Status = status(s, ev)
	return ev
}

func status(s State, ev Evaluation) Status {
	switch {
	case s.Posted:
		return StatusPosted
	case !s.Editable():
		return StatusBlocked
	case !s.beginningSourced():
		return StatusBalanceUnloaded
	case s.CashCount.Empty():
		return StatusBalanceLoaded
	}

	switch ev.Variance {
	case VarianceOver:
		return StatusOver
	case VarianceShort:
		return StatusShort
	default:
		return StatusBalanced
	}
}

func blockers(s State, ev Evaluation) []*BlockError {
	date := s.Key.DateString()

	if s.Posted {
		return []*BlockError{block(ErrEntryAlreadyExists, FieldDate,
			"report for %s has already been posted", date)}
	}
	switch s.Mode {
	case ModeUninitialized:
		return []*BlockError{block(ErrMissingRequiredField, FieldDate, "select a report date")}
	case ModeEntryExists:
		return []*BlockError{block(ErrEntryAlreadyExists, FieldDate,
			"a report for %s already exists for branch %s", date, s.Key.Branch)}
	case ModeCheckFailed, ModeContinuityUnresolved:
		if s.Fault != nil {
			return []*BlockError{s.Fault}
		}
		return []*BlockError{block(ErrStorageFailure, FieldDate,
			"checks for %s did not complete; select the date again", date)}
	}

	var out []*BlockError

	switch {
	case s.Mode == ModeContinuityPending && s.Previous != nil && !s.AutoFilled:
		out = append(out, block(ErrContinuityViolation, FieldBeginningBalance,
			"beginning balance must equal %s from %s; load the previous balance",
			FormatMoney(s.Previous.EndingBalance), s.Previous.Date.Format(models.DateLayout)))
	case s.Mode == ModeContinuityPending && s.Previous != nil &&
		!WithinTolerance(s.Beginning.Value.Sub(s.Previous.EndingBalance)):
		out = append(out, block(ErrContinuityViolation, FieldBeginningBalance,
			"beginning balance must equal %s from %s, not %s",
			FormatMoney(s.Previous.EndingBalance), s.Previous.Date.Format(models.DateLayout),
			FormatMoney(s.Beginning.Value)))
	case s.Beginning.Empty():
		out = append(out, block(ErrMissingRequiredField, FieldBeginningBalance,
			"enter the beginning balance for the first report of branch %s", s.Key.Branch))
	case s.Beginning.Invalid:
		out = append(out, block(ErrInvalidNumericInput, FieldBeginningBalance,
			"beginning balance %q is not a valid amount", s.Beginning.Raw))
	}

	switch {
	case s.CashCount.Empty():
		out = append(out, block(ErrMissingRequiredField, FieldCashCount, "enter the actual cash count"))
	case s.CashCount.Invalid:
		out = append(out, block(ErrInvalidNumericInput, FieldCashCount,
			"cash count %q is not a valid amount", s.CashCount.Raw))
	}

	codes := make([]string, 0, len(s.Amounts))
	for code, a := range s.Amounts {
		if a.Invalid {
			codes = append(codes, code)
		}
	}
	sort.Strings(codes)
	for _, code := range codes {
		out = append(out, block(ErrInvalidNumericInput, code,
			"%s: %q is not a valid amount", code, s.Amounts[code].Raw))
	}

	if !s.CashCount.Empty() && ev.Variance != VarianceBalanced {
		word := "SHORT"
		if ev.Variance == VarianceOver {
			word = "OVER"
		}
		out = append(out, block(ErrVarianceDetected, FieldCashCount,
			"cash count %s is %s by %s against ending balance %s",
			FormatMoney(s.CashCount.Value), word, FormatMoney(ev.CashResult.Abs()),
			FormatMoney(ev.Totals.Ending)))
	}

	return out
}
