package api

import (
	"sync"

	"github.com/google/uuid"

	"github.com/sheikh-saqib/daily-cash-reconciliation/internal/ledger"
)

// sessionSlot serialises requests against one session.
type sessionSlot struct {
	mu      sync.Mutex
	session *ledger.Session
}

// Registry holds the open teller sessions keyed by a random id.
type Registry struct {
	mu    sync.RWMutex
	slots map[string]*sessionSlot
}

func NewRegistry() *Registry {
	return &Registry{slots: make(map[string]*sessionSlot)}
}

func (r *Registry) add(s *ledger.Session) string {
	id := uuid.NewString()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.slots[id] = &sessionSlot{session: s}
	return id
}

func (r *Registry) get(id string) (*sessionSlot, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	slot, ok := r.slots[id]
	return slot, ok
}

func (r *Registry) remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.slots[id]; !ok {
		return false
	}
	delete(r.slots, id)
	return true
}

// Len reports the number of open sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.slots)
}
