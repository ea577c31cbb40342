package ports

import (
	"context"

	"github.com/aretw0/colloquy/pkg/domain"
)

// SuspensionStore persists suspended executions so a conversation can be
// resumed from another call stack or process.
type SuspensionStore interface {
	// Save persists the snapshot under its ExecutionID.
	Save(ctx context.Context, s *domain.Suspension) error

	// Load retrieves a snapshot.
	// Returns domain.ErrSuspensionNotFound if it does not exist. Stores with a
	// TTL index may return domain.ErrSuspensionExpired, which matches it.
	Load(ctx context.Context, executionID string) (*domain.Suspension, error)

	// Delete removes a snapshot. Deleting a missing snapshot is not an error.
	Delete(ctx context.Context, executionID string) error

	// List returns the ids of the stored snapshots.
	List(ctx context.Context) ([]string, error)
}
