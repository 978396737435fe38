package schedule

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

type indexEntry struct {
	kind       Kind
	propertyID string
}

// MemoryStore keeps aggregates as JSON snapshots in memory. Load always
// returns a fresh copy, so a failed Update leaves no trace.
type MemoryStore struct {
	mu        sync.RWMutex
	snapshots map[string][]byte
	index     map[string]indexEntry
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		snapshots: make(map[string][]byte),
		index:     make(map[string]indexEntry),
	}
}

// Load implements Store.
func (m *MemoryStore) Load(_ context.Context, propertyID string) (*State, error) {
	m.mu.RLock()
	data, ok := m.snapshots[propertyID]
	m.mu.RUnlock()
	if !ok {
		return NewState(propertyID), nil
	}

	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decoding schedule: %w", err)
	}
	return &s, nil
}

// Save implements Store.
func (m *MemoryStore) Save(_ context.Context, s *State) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encoding schedule: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.snapshots[s.PropertyID] = data
	for _, e := range s.entities() {
		m.index[e.id] = indexEntry{kind: e.kind, propertyID: s.PropertyID}
	}
	return nil
}

// Locate implements Store.
func (m *MemoryStore) Locate(_ context.Context, kind Kind, id string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.index[id]
	if !ok || e.kind != kind {
		return "", fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
	}
	return e.propertyID, nil
}

type entityRef struct {
	kind Kind
	id   string
}

// entities lists every locatable entity in the aggregate.
func (s *State) entities() []entityRef {
	refs := make([]entityRef, 0, len(s.Showings)+len(s.Packages)+len(s.Shares))
	for _, sh := range s.Showings {
		refs = append(refs, entityRef{KindShowing, sh.ID})
	}
	for _, p := range s.Packages {
		refs = append(refs, entityRef{KindPackage, p.ID})
	}
	for _, sh := range s.Shares {
		refs = append(refs, entityRef{KindShare, sh.ID})
	}
	return refs
}
