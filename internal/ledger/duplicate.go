package ledger

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/sheikh-saqib/daily-cash-reconciliation/internal/models"
)

// EntryChecker is the existence query the guard needs from a store.
type EntryChecker interface {
	EntryExists(ctx context.Context, key models.EntryKey) (bool, error)
}

// DuplicateGuard answers whether a report already exists for a key.
type DuplicateGuard struct {
	store EntryChecker
	log   zerolog.Logger
}

func NewDuplicateGuard(store EntryChecker, log zerolog.Logger) *DuplicateGuard {
	return &DuplicateGuard{store: store, log: log}
}

// Check returns an error wrapping ErrCheckFailed when the store cannot answer.
// The boolean is meaningless in that case.
func (g *DuplicateGuard) Check(ctx context.Context, key models.EntryKey) (bool, error) {
	exists, err := g.store.EntryExists(ctx, key)
	if err != nil {
		return false, fmt.Errorf("%w for %s: %w", ErrCheckFailed, key, err)
	}
	if exists {
		g.log.Info().
			Str("corporation", key.Corporation).
			Str("branch", key.Branch).
			Str("date", key.DateString()).
			Msg("report already posted for date")
	}
	return exists, nil
}
