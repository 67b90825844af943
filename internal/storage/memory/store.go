package memory

import (
	"context" // request-scoped context, unused by the in-memory backend
	"sort"
	"sync" // concurrency primitives like Mutex
	"time"

	interfaces "github.com/sheikh-saqib/daily-cash-reconciliation/internal/interfaces" // interface LedgerStore
	"github.com/sheikh-saqib/daily-cash-reconciliation/internal/models"                // domain models: LedgerEntry
)

// MemoryLedgerStore is an in-memory implementation of interfaces.LedgerStore.
// It keeps one entry per corporation/branch/date and is safe for concurrent use.
type MemoryLedgerStore struct {
	mu      sync.Mutex                    // protects entries
	entries map[string]models.LedgerEntry // keyed by EntryKey.String()
}

// NewMemoryLedgerStore creates and returns a new MemoryLedgerStore instance
func NewMemoryLedgerStore() *MemoryLedgerStore {
	return &MemoryLedgerStore{
		entries: make(map[string]models.LedgerEntry),
	}
}

// InsertEntry appends an entry, refusing a key that is already taken.
func (m *MemoryLedgerStore) InsertEntry(ctx context.Context, entry models.LedgerEntry) (int64, error) {

	m.mu.Lock()         // lock the mutex to prevent concurrent writes
	defer m.mu.Unlock() // unlock automatically when function exits (even if error occurs)

	id := entry.EntryKey.String()
	if _, exists := m.entries[id]; exists {
		return 0, interfaces.ErrDuplicateEntry
	}

	m.entries[id] = entry.Clone() // store a copy so the caller can't modify it later
	return 1, nil
}

func (m *MemoryLedgerStore) FindEntry(ctx context.Context, key models.EntryKey) (*models.LedgerEntry, error) {

	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.entries[key.String()]
	if !exists {
		return nil, nil
	}
	copied := entry.Clone()
	return &copied, nil
}

func (m *MemoryLedgerStore) EntryExists(ctx context.Context, key models.EntryKey) (bool, error) {

	m.mu.Lock()
	defer m.mu.Unlock()

	_, exists := m.entries[key.String()]
	return exists, nil
}

// ListEntries returns copies of a branch's entries within [from, to], oldest first.
func (m *MemoryLedgerStore) ListEntries(ctx context.Context, corporation, branch string, from, to time.Time) ([]models.LedgerEntry, error) {

	m.mu.Lock()
	defer m.mu.Unlock()

	var result []models.LedgerEntry
	for _, e := range m.entries {
		if e.Corporation != corporation || e.Branch != branch {
			continue
		}
		if e.Date.Before(from) || e.Date.After(to) {
			continue
		}
		result = append(result, e.Clone())
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Date.Before(result[j].Date)
	})
	return result, nil
}

// Compile-time check: ensure MemoryLedgerStore implements LedgerStore interface
var _ interfaces.LedgerStore = (*MemoryLedgerStore)(nil)
