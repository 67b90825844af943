package ledger

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sheikh-saqib/daily-cash-reconciliation/internal/catalog"
	interfaces "github.com/sheikh-saqib/daily-cash-reconciliation/internal/interfaces"
	"github.com/sheikh-saqib/daily-cash-reconciliation/internal/models"
)

// Ledger is the daily cash reconciliation engine.
// It holds the storage layer, the category catalog and a lock per branch.
type Ledger struct {
	store     interfaces.LedgerStore
	catalog   *catalog.Catalog
	guard     *DuplicateGuard
	resolver  *ContinuityResolver
	publisher interfaces.EventPublisher
	topic     string
	lookback  int
	log       zerolog.Logger
	now       func() time.Time
	newID     func() string

	muMap map[string]*sync.Mutex // one mutex per corporation/branch
	mapMu sync.Mutex             // protects muMap itself
}

// Option customises a Ledger.
type Option func(*Ledger)

func WithCatalog(c *catalog.Catalog) Option {
	return func(l *Ledger) { l.catalog = c }
}

func WithLookbackDays(days int) Option {
	return func(l *Ledger) { l.lookback = days }
}

// WithPublisher announces every posted report on topic.
func WithPublisher(p interfaces.EventPublisher, topic string) Option {
	return func(l *Ledger) {
		l.publisher = p
		l.topic = topic
	}
}

func WithLogger(log zerolog.Logger) Option {
	return func(l *Ledger) { l.log = log }
}

func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

func WithIDGenerator(newID func() string) Option {
	return func(l *Ledger) { l.newID = newID }
}

// NewLedger builds the engine over any LedgerStore implementation.
func NewLedger(store interfaces.LedgerStore, opts ...Option) *Ledger {
	l := &Ledger{
		store:    store,
		catalog:  catalog.Default(),
		lookback: DefaultLookbackDays,
		log:      zerolog.Nop(),
		now:      time.Now,
		newID:    uuid.NewString,
		muMap:    make(map[string]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.lookback <= 0 {
		l.lookback = DefaultLookbackDays
	}

	l.guard = NewDuplicateGuard(store, l.log)
	l.resolver = NewContinuityResolver(store, l.lookback, l.log)
	return l
}

func (l *Ledger) Catalog() *catalog.Catalog {
	return l.catalog
}

// Evaluate recomputes totals and postability of s against the ledger's catalog.
func (l *Ledger) Evaluate(s State) Evaluation {
	return Evaluate(l.catalog, s)
}

// SetField applies one field edit against the ledger's catalog.
func (l *Ledger) SetField(s State, field, raw string) (State, error) {
	return SetField(l.catalog, s, field, raw)
}

func (l *Ledger) getBranchLock(key models.EntryKey) *sync.Mutex {
	id := key.Corporation + "/" + key.Branch

	l.mapMu.Lock()
	defer l.mapMu.Unlock()

	if _, exists := l.muMap[id]; !exists {
		l.muMap[id] = &sync.Mutex{}
	}
	return l.muMap[id]
}

// Entries lists a branch's posted reports between from and to inclusive.
func (l *Ledger) Entries(ctx context.Context, corporation, branch string, from, to time.Time) ([]models.LedgerEntry, error) {
	entries, err := l.store.ListEntries(ctx, corporation, branch, models.Day(from), models.Day(to))
	if err != nil {
		return nil, fmt.Errorf("list entries for %s/%s: %w", corporation, branch, err)
	}
	return entries, nil
}

// AuditBranch checks the stored history of a branch against the ledger invariants.
func (l *Ledger) AuditBranch(ctx context.Context, corporation, branch string, from, to time.Time) ([]Finding, error) {
	entries, err := l.Entries(ctx, corporation, branch, from, to)
	if err != nil {
		return nil, err
	}
	return Audit(entries, l.lookback), nil
}
