// Package store persists computed layouts for the layout service.
//
// A stored layout is a snapshot: positions are a pure function of the
// scene, so the store exists for sharing and inspection, not as a source
// of truth. Two backends ship with ringmap: an in-memory store for the
// CLI and tests, and a MongoDB store for the service.
package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/ringmap/pkg/errors"
	"github.com/matzehuels/ringmap/pkg/scene"
)

// Store persists layout documents.
type Store interface {
	// Save stores a layout and returns its assigned ID.
	Save(ctx context.Context, l scene.Layout) (string, error)

	// Load retrieves a layout by ID. A missing ID yields an error with
	// code LAYOUT_NOT_FOUND.
	Load(ctx context.Context, id string) (scene.Layout, error)

	// List returns stored layout IDs, newest first.
	List(ctx context.Context) ([]string, error)

	// Delete removes a layout. Deleting an absent ID is not an error.
	Delete(ctx context.Context, id string) error

	// Close releases backend resources.
	Close(ctx context.Context) error
}

// MemoryStore is an in-memory store, safe for concurrent use.
type MemoryStore struct {
	mu      sync.RWMutex
	layouts map[string]scene.Layout
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{layouts: make(map[string]scene.Layout)}
}

// Save stores a layout under a fresh UUID.
func (s *MemoryStore) Save(ctx context.Context, l scene.Layout) (string, error) {
	l.ID = uuid.NewString()
	l.CreatedAt = time.Now().UTC()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.layouts[l.ID] = l
	return l.ID, nil
}

// Load retrieves a layout by ID.
func (s *MemoryStore) Load(ctx context.Context, id string) (scene.Layout, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	l, ok := s.layouts[id]
	if !ok {
		return scene.Layout{}, errors.New(errors.ErrCodeLayoutNotFound, "layout %s not found", id)
	}
	return l, nil
}

// List returns stored layout IDs, newest first.
func (s *MemoryStore) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	type entry struct {
		id string
		at time.Time
	}
	all := make([]entry, 0, len(s.layouts))
	for id, l := range s.layouts {
		all = append(all, entry{id, l.CreatedAt})
	}
	sort.Slice(all, func(i, j int) bool { return all[i].at.After(all[j].at) })

	ids := make([]string, len(all))
	for i, e := range all {
		ids[i] = e.id
	}
	return ids, nil
}

// Delete removes a layout.
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.layouts, id)
	return nil
}

// Close does nothing for the in-memory store.
func (s *MemoryStore) Close(ctx context.Context) error { return nil }

// Ensure MemoryStore implements Store.
var _ Store = (*MemoryStore)(nil)
