package interfaces

import (
	"context"
	"errors"
	"time"

	"github.com/sheikh-saqib/daily-cash-reconciliation/internal/models"
)

// ErrDuplicateEntry is returned by InsertEntry when the key is already taken.
var ErrDuplicateEntry = errors.New("entry already exists for key")

type LedgerStore interface {
	// FindEntry returns (nil, nil) when no entry exists for key.
	FindEntry(ctx context.Context, key models.EntryKey) (*models.LedgerEntry, error)
	EntryExists(ctx context.Context, key models.EntryKey) (bool, error)
	// InsertEntry appends entry and reports the number of report rows written.
	InsertEntry(ctx context.Context, entry models.LedgerEntry) (int64, error)
	// ListEntries returns a branch's entries with from <= date <= to, oldest first.
	ListEntries(ctx context.Context, corporation, branch string, from, to time.Time) ([]models.LedgerEntry, error)
}
