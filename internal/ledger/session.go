package ledger

import (
	"context"
	"time"

	"github.com/sheikh-saqib/daily-cash-reconciliation/internal/models"
)

// Session is one teller's working copy of a branch's daily report.
// It is driven by a single operator and is not safe for concurrent use.
type Session struct {
	ledger      *Ledger
	corporation string
	branch      string
	teller      string
	state       State
}

// NewSession starts an uninitialised session; OnDateSelected must come first.
func (l *Ledger) NewSession(corporation, branch, teller string) *Session {
	return &Session{
		ledger:      l,
		corporation: corporation,
		branch:      branch,
		teller:      teller,
		state:       State{Mode: ModeUninitialized, Amounts: make(map[string]Amount)},
	}
}

func (s *Session) Corporation() string { return s.corporation }
func (s *Session) Branch() string      { return s.branch }
func (s *Session) Teller() string      { return s.teller }

// State returns a copy of the current gate state.
func (s *Session) State() State {
	return s.state.clone()
}

// Evaluate recomputes totals and postability for the current state.
func (s *Session) Evaluate() Evaluation {
	return s.ledger.Evaluate(s.state)
}

// OnDateSelected discards any edits and re-enters the gate for date.
func (s *Session) OnDateSelected(ctx context.Context, date time.Time) State {
	key := models.NewEntryKey(s.corporation, s.branch, date)
	s.state = s.ledger.SelectDate(ctx, key, s.teller)
	return s.State()
}

// LoadPreviousBalance fills the beginning balance from the previous posted day.
func (s *Session) LoadPreviousBalance() (Evaluation, error) {
	next, err := LoadPrevious(s.state)
	if err != nil {
		return s.Evaluate(), err
	}
	s.state = next
	return s.Evaluate(), nil
}

// OnFieldChanged applies one edit and returns the recomputed evaluation.
// A rejected edit leaves the state unchanged.
func (s *Session) OnFieldChanged(field, value string) (Evaluation, error) {
	next, err := s.ledger.SetField(s.state, field, value)
	if err != nil {
		return s.Evaluate(), err
	}
	s.state = next
	return s.Evaluate(), nil
}

// SetExchangeLines replaces the currency exchange sheet.
func (s *Session) SetExchangeLines(lines []models.ExchangeLine) (Evaluation, error) {
	next, err := SetExchangeLines(s.state, lines)
	if err != nil {
		return s.Evaluate(), err
	}
	s.state = next
	return s.Evaluate(), nil
}

// AttemptPost runs the final validation and writes the report.
func (s *Session) AttemptPost(ctx context.Context) PostResult {
	next, res := s.ledger.Post(ctx, s.state)
	s.state = next
	return res
}

// AdvanceDay moves a posted session to the following date with cleared fields.
func (s *Session) AdvanceDay(ctx context.Context) (State, error) {
	if !s.state.Posted {
		return s.State(), ErrNotPosted
	}
	return s.OnDateSelected(ctx, s.state.Key.Date.AddDate(0, 0, 1)), nil
}
