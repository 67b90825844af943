package ledger

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/sheikh-saqib/daily-cash-reconciliation/internal/models"
	"github.com/sheikh-saqib/daily-cash-reconciliation/internal/storage/memory"
)

const (
	testCorp   = "acme"
	testBranch = "B1"
)

var fixedNow = time.Date(2024, 5, 10, 18, 30, 0, 0, time.UTC)

// faultyStore wraps the memory store and fails chosen calls.
type faultyStore struct {
	*memory.MemoryLedgerStore

	mu         sync.Mutex
	findErrs   map[string]error // by report date
	existsErr  error
	insertErr  error
	insertRows *int64
	inserts    int
}

func newFaultyStore() *faultyStore {
	return &faultyStore{
		MemoryLedgerStore: memory.NewMemoryLedgerStore(),
		findErrs:          make(map[string]error),
	}
}

func (f *faultyStore) failFind(date string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.findErrs[date] = err
}

func (f *faultyStore) setExistsErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.existsErr = err
}

func (f *faultyStore) FindEntry(ctx context.Context, key models.EntryKey) (*models.LedgerEntry, error) {
	f.mu.Lock()
	err := f.findErrs[key.DateString()]
	f.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return f.MemoryLedgerStore.FindEntry(ctx, key)
}

func (f *faultyStore) EntryExists(ctx context.Context, key models.EntryKey) (bool, error) {
	f.mu.Lock()
	err := f.existsErr
	f.mu.Unlock()
	if err != nil {
		return false, err
	}
	return f.MemoryLedgerStore.EntryExists(ctx, key)
}

func (f *faultyStore) InsertEntry(ctx context.Context, entry models.LedgerEntry) (int64, error) {
	f.mu.Lock()
	f.inserts++
	err, rows := f.insertErr, f.insertRows
	f.mu.Unlock()
	if err != nil {
		return 0, err
	}
	if rows != nil {
		return *rows, nil
	}
	return f.MemoryLedgerStore.InsertEntry(ctx, entry)
}

func (f *faultyStore) insertCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.inserts
}

type recordingPublisher struct {
	mu     sync.Mutex
	topics []string
	events []any
	err    error
	// onPublish runs before the event is recorded.
	onPublish func()
}

func (p *recordingPublisher) Publish(ctx context.Context, topic string, event any) error {
	if p.onPublish != nil {
		p.onPublish()
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topics = append(p.topics, topic)
	p.events = append(p.events, event)
	return p.err
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := models.ParseDate(s)
	require.NoError(t, err)
	return d
}

func testKey(t *testing.T, date string) models.EntryKey {
	t.Helper()
	return models.NewEntryKey(testCorp, testBranch, day(t, date))
}

// seed stores a balanced report that begins and ends at ending.
func seed(t *testing.T, store *faultyStore, date, ending string) {
	t.Helper()
	e := dec(ending)
	_, err := store.MemoryLedgerStore.InsertEntry(context.Background(), models.LedgerEntry{
		ID:               "seed-" + date,
		EntryKey:         testKey(t, date),
		BeginningBalance: e,
		EndingBalance:    e,
		CashCount:        e,
		Amounts:          map[string]decimal.Decimal{},
	})
	require.NoError(t, err)
}

func newTestLedger(store *faultyStore, opts ...Option) *Ledger {
	n := 0
	base := []Option{
		WithClock(func() time.Time { return fixedNow }),
		WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("entry-%d", n)
		}),
	}
	return NewLedger(store, append(base, opts...)...)
}

// fill enters a balanced first-entry day: 1000 + 500 - 200 = 1300.
func fill(t *testing.T, l *Ledger, s State) State {
	t.Helper()
	edits := [][2]string{
		{FieldBeginningBalance, "1000.00"},
		{"rescate_jewelry", "500.00"},
		{"empeno_jew_new", "200.00"},
		{FieldCashCount, "1300.00"},
	}
	var err error
	for _, e := range edits {
		s, err = l.SetField(s, e[0], e[1])
		require.NoError(t, err)
	}
	return s
}
