package schedule

import (
	"context"
	"fmt"
	"sync"
)

// Kind names the entity types that can be located by ID.
type Kind string

const (
	KindShowing Kind = "showing"
	KindShare   Kind = "share"
	KindPackage Kind = "package"
)

// Store loads and saves per-property aggregates.
type Store interface {
	// Load returns the aggregate for propertyID, or an empty one if none
	// has been saved yet.
	Load(ctx context.Context, propertyID string) (*State, error)
	// Save persists the aggregate and indexes its entities for Locate.
	Save(ctx context.Context, s *State) error
	// Locate returns the property owning the entity, or ErrNotFound.
	Locate(ctx context.Context, kind Kind, id string) (string, error)
}

// Tx is one locked read-modify-write of a property's aggregate.
type Tx struct {
	State *State

	after []func()
}

// AfterCommit registers fn to run once the aggregate has been saved. Funcs
// run in registration order while the property is still locked, so side
// effects for one property are issued in the order their changes committed.
// They do not run if the update fails.
func (tx *Tx) AfterCommit(fn func()) {
	tx.after = append(tx.after, fn)
}

// Registry serializes access to each property's aggregate. Operations on
// different properties proceed in parallel.
type Registry struct {
	store Store

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewRegistry creates a registry over store.
func NewRegistry(store Store) *Registry {
	return &Registry{
		store: store,
		locks: make(map[string]*sync.Mutex),
	}
}

func (r *Registry) lockFor(propertyID string) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()

	l, ok := r.locks[propertyID]
	if !ok {
		l = &sync.Mutex{}
		r.locks[propertyID] = l
	}
	return l
}

// Update loads the property's aggregate, runs fn, and saves the result if fn
// succeeds. The property is locked for the whole sequence, so checks made in
// fn still hold when the aggregate is written.
func (r *Registry) Update(ctx context.Context, propertyID string, fn func(tx *Tx) error) error {
	l := r.lockFor(propertyID)
	l.Lock()
	defer l.Unlock()

	state, err := r.store.Load(ctx, propertyID)
	if err != nil {
		return fmt.Errorf("loading schedule %s: %w", propertyID, err)
	}

	tx := &Tx{State: state}
	if err := fn(tx); err != nil {
		return err
	}

	if err := r.store.Save(ctx, state); err != nil {
		return fmt.Errorf("saving schedule %s: %w", propertyID, err)
	}

	for _, f := range tx.after {
		f()
	}
	return nil
}

// View runs fn against the property's aggregate without saving it.
func (r *Registry) View(ctx context.Context, propertyID string, fn func(s *State) error) error {
	l := r.lockFor(propertyID)
	l.Lock()
	defer l.Unlock()

	state, err := r.store.Load(ctx, propertyID)
	if err != nil {
		return fmt.Errorf("loading schedule %s: %w", propertyID, err)
	}
	return fn(state)
}

// Locate returns the property that owns the entity.
func (r *Registry) Locate(ctx context.Context, kind Kind, id string) (string, error) {
	return r.store.Locate(ctx, kind, id)
}
