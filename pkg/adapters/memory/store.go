package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/aretw0/colloquy/pkg/domain"
)

// Store implements ports.SuspensionStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]*domain.Suspension
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*domain.Suspension),
	}
}

// Save persists the snapshot in memory.
func (s *Store) Save(ctx context.Context, snap *domain.Suspension) error {
	copied := copySuspension(snap)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[snap.ExecutionID] = copied
	return nil
}

// Load retrieves the snapshot from memory.
func (s *Store) Load(ctx context.Context, executionID string) (*domain.Suspension, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, ok := s.data[executionID]
	if !ok {
		return nil, domain.ErrSuspensionNotFound
	}

	// Copy on read so callers can't mutate store state through the pointer.
	return copySuspension(snap), nil
}

// Delete removes the snapshot.
func (s *Store) Delete(ctx context.Context, executionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, executionID)
	return nil
}

// List returns the stored execution ids.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.data))
	for id := range s.data {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func copySuspension(in *domain.Suspension) *domain.Suspension {
	out := *in
	out.Presentation.Options = append([]domain.Option(nil), in.Presentation.Options...)
	if in.Presentation.Actor != nil {
		a := *in.Presentation.Actor
		out.Presentation.Actor = &a
	}
	out.History = append([]string(nil), in.History...)
	out.Results = make(map[string]any, len(in.Results))
	for k, v := range in.Results {
		out.Results[k] = v
	}
	if in.Meta != nil {
		out.Meta = make(map[string]string, len(in.Meta))
		for k, v := range in.Meta {
			out.Meta[k] = v
		}
	}
	return &out
}
