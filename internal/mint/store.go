package mint

import (
	"sort"
	"strings"
	"sync"
)

// Store records which events have had a ticket minted in this process.
// Membership only grows: there is no un-mint.
type Store struct {
	mu     sync.RWMutex
	minted map[string]struct{}
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{minted: make(map[string]struct{})}
}

// Mint records eventID as minted. Repeated calls are no-ops.
func (s *Store) Mint(eventID string) {
	s.mu.Lock()
	s.minted[eventID] = struct{}{}
	s.mu.Unlock()
}

// IsMinted reports whether eventID has been minted
func (s *Store) IsMinted(eventID string) bool {
	s.mu.RLock()
	_, ok := s.minted[eventID]
	s.mu.RUnlock()
	return ok
}

// IDs returns the minted event IDs in sorted order
func (s *Store) IDs() []string {
	s.mu.RLock()
	ids := make([]string, 0, len(s.minted))
	for id := range s.minted {
		ids = append(ids, id)
	}
	s.mu.RUnlock()

	sort.Strings(ids)
	return ids
}

// Len returns the number of minted events
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.minted)
}

// Registry hands out one Store per wallet address
type Registry struct {
	mu     sync.Mutex
	stores map[string]*Store
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{stores: make(map[string]*Store)}
}

// For returns the store owned by address, creating it on first use.
// Addresses are compared case-insensitively.
func (r *Registry) For(address string) *Store {
	key := strings.ToLower(address)

	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.stores[key]
	if !ok {
		s = NewStore()
		r.stores[key] = s
	}
	return s
}

// Wallets returns the number of wallets holding a store
func (r *Registry) Wallets() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.stores)
}
