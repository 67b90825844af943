package ledger

import (
	"context"
	"fmt"

	"github.com/sheikh-saqib/daily-cash-reconciliation/internal/catalog"
	"github.com/sheikh-saqib/daily-cash-reconciliation/internal/models"
	"github.com/sheikh-saqib/daily-cash-reconciliation/internal/subledger"
)

// SelectDate runs the duplicate check and the continuity lookup for key and
// returns the initial state of that day.
func (l *Ledger) SelectDate(ctx context.Context, key models.EntryKey, teller string) State {
	s := State{
		Key:     key,
		Teller:  teller,
		Mode:    ModeUninitialized,
		Amounts: make(map[string]Amount),
	}

	exists, err := l.guard.Check(ctx, key)
	if err != nil {
		l.log.Error().Err(err).Str("key", key.String()).Msg("duplicate check failed")
		s.Mode = ModeCheckFailed
		s.Fault = &BlockError{
			Kind:    ErrStorageFailure,
			Field:   FieldDate,
			Message: fmt.Sprintf("could not check for an existing report on %s", key.DateString()),
			Cause:   err,
		}
		return s
	}
	if exists {
		s.Mode = ModeEntryExists
		return s
	}

	res := l.resolver.Resolve(ctx, key)
	switch {
	case res.Unresolved():
		s.Mode = ModeContinuityUnresolved
		s.Previous = res.Previous
		s.Fault = res.blockError()
	case res.Previous != nil:
		s.Mode = ModeContinuityPending
		s.Previous = res.Previous
	default:
		s.Mode = ModeNoPriorRecord
	}

	l.log.Debug().
		Str("key", key.String()).
		Str("mode", string(s.Mode)).
		Msg("report date selected")
	return s
}

// LoadPrevious copies the resolved previous ending balance into the beginning
// balance. In first-entry mode there is nothing to load and s is returned as is.
func LoadPrevious(s State) (State, error) {
	if err := checkEditable(s); err != nil {
		return s, err
	}
	if s.Mode == ModeNoPriorRecord || s.Previous == nil {
		return s, nil
	}

	n := s.clone()
	n.Beginning = AmountOf(s.Previous.EndingBalance)
	n.AutoFilled = true
	return n, nil
}

// SetField applies one field edit. Malformed numbers are accepted and counted
// as zero; Evaluate reports them as blockers.
func SetField(cat *catalog.Catalog, s State, field, raw string) (State, error) {
	if err := checkEditable(s); err != nil {
		return s, err
	}

	a := ParseAmount(raw)
	n := s.clone()

	switch field {
	case FieldBeginningBalance:
		if s.Mode == ModeContinuityPending {
			return s, fmt.Errorf("%w: beginning balance is loaded from the previous day", ErrNotEditable)
		}
		n.Beginning = a
	case FieldCashCount:
		n.CashCount = a
	default:
		if _, ok := cat.Lookup(field); !ok {
			return s, fmt.Errorf("%w: %q", ErrUnknownField, field)
		}
		if a.Empty() {
			delete(n.Amounts, field)
		} else {
			n.Amounts[field] = a
		}
	}
	return n, nil
}

// SetExchangeLines replaces the day's currency exchange sheet, pricing every line.
func SetExchangeLines(s State, lines []models.ExchangeLine) (State, error) {
	if err := checkEditable(s); err != nil {
		return s, err
	}

	priced := make([]models.ExchangeLine, 0, len(lines))
	for i, line := range lines {
		p, err := subledger.PriceLine(line.Currency, line.Quantity, line.Rate)
		if err != nil {
			return s, fmt.Errorf("%w: exchange line %d: %v", ErrInvalidNumericInput, i+1, err)
		}
		priced = append(priced, p)
	}

	n := s.clone()
	n.Exchange = priced
	return n, nil
}

func checkEditable(s State) error {
	if s.Mode == ModeUninitialized {
		return ErrNoDateSelected
	}
	if !s.Editable() {
		return fmt.Errorf("%w: report for %s is %s", ErrNotEditable, s.Key.DateString(), closedReason(s))
	}
	return nil
}

func closedReason(s State) string {
	if s.Posted {
		return "posted"
	}
	return string(s.Mode)
}
