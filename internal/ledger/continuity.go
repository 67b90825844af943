package ledger

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/sheikh-saqib/daily-cash-reconciliation/internal/models"
)

// DefaultLookbackDays bounds how far back a predecessor is searched for.
// A longer gap starts a new ledger chain.
const DefaultLookbackDays = 10

// EntryFinder is the read side the resolver needs from a store.
type EntryFinder interface {
	FindEntry(ctx context.Context, key models.EntryKey) (*models.LedgerEntry, error)
}

// Predecessor is the nearest earlier posted day of the same branch.
type Predecessor struct {
	Date          time.Time       `json:"date"`
	EndingBalance decimal.Decimal `json:"ending_balance"`
}

// Resolution is the outcome of a lookback scan.
type Resolution struct {
	Previous *Predecessor
	// Failed lists candidate dates whose lookup errored, nearest first.
	// They all lie between the target date and Previous.
	Failed []time.Time
}

// Unresolved reports whether the scan could not read every date it needed.
// A nearer, unreadable day may hold the real predecessor, so the result cannot be trusted.
func (r Resolution) Unresolved() bool {
	return len(r.Failed) > 0
}

// FirstEntry reports a clean scan that found nothing in the window.
func (r Resolution) FirstEntry() bool {
	return r.Previous == nil && !r.Unresolved()
}

// Err describes an unresolved scan; nil otherwise.
func (r Resolution) Err() error {
	if be := r.blockError(); be != nil {
		return be
	}
	return nil
}

func (r Resolution) blockError() *BlockError {
	if !r.Unresolved() {
		return nil
	}
	dates := make([]string, len(r.Failed))
	for i, d := range r.Failed {
		dates[i] = d.Format(models.DateLayout)
	}
	msg := "previous day lookup failed for " + strings.Join(dates, ", ")
	if r.Previous != nil {
		msg += fmt.Sprintf(" (nearest readable record %s ending %s)",
			r.Previous.Date.Format(models.DateLayout), FormatMoney(r.Previous.EndingBalance))
	}
	return block(ErrContinuityUnresolved, FieldBeginningBalance, "%s", msg)
}

// ContinuityResolver finds the ending balance a new day must start from.
type ContinuityResolver struct {
	store    EntryFinder
	lookback int
	log      zerolog.Logger
}

func NewContinuityResolver(store EntryFinder, lookbackDays int, log zerolog.Logger) *ContinuityResolver {
	if lookbackDays <= 0 {
		lookbackDays = DefaultLookbackDays
	}
	return &ContinuityResolver{
		store:    store,
		lookback: lookbackDays,
		log:      log,
	}
}

// Resolve scans key.Date-1 back to key.Date-lookback and stops at the first posted entry.
// A read error on one candidate is recorded and the scan moves on to the next older date.
func (r *ContinuityResolver) Resolve(ctx context.Context, key models.EntryKey) Resolution {
	var res Resolution

	for back := 1; back <= r.lookback; back++ {
		candidate := key.AddDays(-back)

		entry, err := r.store.FindEntry(ctx, candidate)
		if err != nil {
			r.log.Warn().Err(err).
				Str("corporation", key.Corporation).
				Str("branch", key.Branch).
				Str("candidate", candidate.DateString()).
				Msg("previous day lookup failed")
			res.Failed = append(res.Failed, candidate.Date)
			continue
		}
		if entry == nil {
			continue
		}

		res.Previous = &Predecessor{
			Date:          candidate.Date,
			EndingBalance: entry.EndingBalance,
		}
		return res
	}

	return res
}
