package api

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/sheikh-saqib/daily-cash-reconciliation/internal/ledger"
	"github.com/sheikh-saqib/daily-cash-reconciliation/internal/models"
)

type blockerView struct {
	Code    string `json:"code"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

type evaluationView struct {
	DebitTotal    decimal.Decimal `json:"debit_total"`
	CreditTotal   decimal.Decimal `json:"credit_total"`
	EndingBalance decimal.Decimal `json:"ending_balance"`
	CashResult    decimal.Decimal `json:"cash_result"`
	Variance      ledger.Variance `json:"variance"`
	Status        ledger.Status   `json:"status"`
	CanPost       bool            `json:"can_post"`
	Blockers      []blockerView   `json:"blockers"`
}

// SessionView is the JSON form of a session's state and its evaluation.
type SessionView struct {
	ID               string                `json:"id"`
	Corporation      string                `json:"corporation"`
	Branch           string                `json:"branch"`
	Teller           string                `json:"teller"`
	Date             string                `json:"date,omitempty"`
	Mode             ledger.Mode           `json:"mode"`
	Previous         *ledger.Predecessor   `json:"previous,omitempty"`
	BeginningBalance string                `json:"beginning_balance"`
	AutoFilled       bool                  `json:"auto_filled"`
	CashCount        string                `json:"cash_count"`
	Amounts          map[string]string     `json:"amounts"`
	ExchangeLines    []models.ExchangeLine `json:"exchange_lines"`
	Posted           bool                  `json:"posted"`
	EntryID          string                `json:"entry_id,omitempty"`
	Evaluation       evaluationView        `json:"evaluation"`
}

func newSessionView(id string, s *ledger.Session) SessionView {
	st := s.State()
	ev := s.Evaluate()

	v := SessionView{
		ID:               id,
		Corporation:      s.Corporation(),
		Branch:           s.Branch(),
		Teller:           s.Teller(),
		Mode:             st.Mode,
		Previous:         st.Previous,
		BeginningBalance: st.Beginning.Raw,
		AutoFilled:       st.AutoFilled,
		CashCount:        st.CashCount.Raw,
		Amounts:          make(map[string]string, len(st.Amounts)),
		ExchangeLines:    st.Exchange,
		Posted:           st.Posted,
		EntryID:          st.EntryID,
		Evaluation: evaluationView{
			DebitTotal:    ev.Totals.Debit,
			CreditTotal:   ev.Totals.Credit,
			EndingBalance: ev.Totals.Ending,
			CashResult:    ev.CashResult,
			Variance:      ev.Variance,
			Status:        ev.Status,
			CanPost:       ev.CanPost,
			Blockers:      blockerViews(ev.Blockers),
		},
	}
	if st.Mode != ledger.ModeUninitialized {
		v.Date = st.Key.DateString()
	}
	for code, a := range st.Amounts {
		v.Amounts[code] = a.Raw
	}
	return v
}

func blockerViews(blockers []*ledger.BlockError) []blockerView {
	out := make([]blockerView, 0, len(blockers))
	for _, b := range blockers {
		out = append(out, blockerView{Code: ledger.Code(b), Field: b.Field, Message: b.Error()})
	}
	return out
}

type findingView struct {
	Code    string `json:"code"`
	Date    string `json:"date"`
	Message string `json:"message"`
}

func findingViews(findings []ledger.Finding) []findingView {
	out := make([]findingView, 0, len(findings))
	for _, f := range findings {
		out = append(out, findingView{
			Code:    ledger.Code(f),
			Date:    f.Date.Format(models.DateLayout),
			Message: f.Message,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}
