package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/colloquy"
	"github.com/aretw0/colloquy/internal/logging"
	"github.com/aretw0/colloquy/pkg/domain"
	"github.com/aretw0/colloquy/pkg/ports"
)

// MetaPlayer is the Suspension.Meta key holding the owning player.
const MetaPlayer = "player"

// DefaultLockTTL bounds how long a distributed lock is held.
const DefaultLockTTL = 30 * time.Second

// WorldSource resolves the world a player's executions run against.
type WorldSource interface {
	World(ctx context.Context, player string) (*ports.World, error)
}

// WorldFunc adapts a function to WorldSource.
type WorldFunc func(ctx context.Context, player string) (*ports.World, error)

// World calls f.
func (f WorldFunc) World(ctx context.Context, player string) (*ports.World, error) {
	return f(ctx, player)
}

// State is what a host shows after a session step.
type State struct {
	ExecutionID    string                 `json:"execution_id"`
	ConversationID string                 `json:"conversation_id"`
	Player         string                 `json:"player"`
	Status         domain.ExecutionStatus `json:"status"`
	NodeID         string                 `json:"node_id"`
	Presentation   *domain.Presentation   `json:"presentation,omitempty"`
	History        []string               `json:"history,omitempty"`
}

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager runs executions on behalf of players and persists them between
// choices. Every step for a player is serialized, since executions of the
// same player share one world.
// It uses Reference Counting to garbage collect unused locks.
type Manager struct {
	engine *colloquy.Engine
	store  ports.SuspensionStore
	worlds WorldSource

	mu    sync.Mutex
	locks map[string]*lockEntry

	locker  ports.DistributedLocker
	lockTTL time.Duration
	logger  *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL sets the distributed lock TTL.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		m.lockTTL = ttl
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates a session manager.
func NewManager(engine *colloquy.Engine, store ports.SuspensionStore, worlds WorldSource, opts ...Option) *Manager {
	m := &Manager{
		engine:  engine,
		store:   store,
		worlds:  worlds,
		locks:   make(map[string]*lockEntry),
		lockTTL: DefaultLockTTL,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(key) after unlocking.
func (m *Manager) acquire(key string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[key]
	if !exists {
		entry = &lockEntry{}
		m.locks[key] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[key]
	if !exists {
		return
	}
	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, key)
	}
}

// WithLock executes fn while holding the lock for key.
func (m *Manager) WithLock(ctx context.Context, key string, fn func(context.Context) error) error {
	entry := m.acquire(key)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(key)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, key, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"key", key,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}

func worldKey(player string) string {
	return "world:" + player
}

// Start begins a conversation for a player and persists it if it suspends.
func (m *Manager) Start(ctx context.Context, player, conversationID string) (*State, error) {
	if player == "" {
		return nil, errors.New("player cannot be empty")
	}
	var state *State
	err := m.WithLock(ctx, worldKey(player), func(ctx context.Context) error {
		world, err := m.worlds.World(ctx, player)
		if err != nil {
			return fmt.Errorf("resolve world: %w", err)
		}
		exec, err := m.engine.Start(ctx, conversationID, world, nil)
		if err != nil {
			return err
		}
		state, err = m.commit(ctx, player, exec)
		return err
	})
	return state, err
}

// Choose resumes a stored execution with the option at index.
func (m *Manager) Choose(ctx context.Context, executionID string, index int) (*State, error) {
	player, err := m.owner(ctx, executionID)
	if err != nil {
		return nil, err
	}
	var state *State
	err = m.WithLock(ctx, worldKey(player), func(ctx context.Context) error {
		// Reload under the lock: a concurrent choice may have moved it on.
		snap, err := m.store.Load(ctx, executionID)
		if err != nil {
			return err
		}
		world, err := m.worlds.World(ctx, player)
		if err != nil {
			return fmt.Errorf("resolve world: %w", err)
		}
		exec, err := m.engine.Restore(ctx, snap, world, nil)
		if err != nil {
			return err
		}
		if err := m.engine.Resume(ctx, exec, index); err != nil {
			return err
		}
		state, err = m.commit(ctx, player, exec)
		return err
	})
	return state, err
}

// Get returns the stored state of a suspended execution.
func (m *Manager) Get(ctx context.Context, executionID string) (*State, error) {
	snap, err := m.store.Load(ctx, executionID)
	if err != nil {
		return nil, err
	}
	p := snap.Presentation
	return &State{
		ExecutionID:    snap.ExecutionID,
		ConversationID: snap.ConversationID,
		Player:         snap.Meta[MetaPlayer],
		Status:         domain.StatusSuspended,
		NodeID:         snap.NodeID,
		Presentation:   &p,
		History:        snap.History,
	}, nil
}

// Abandon tears down a stored execution.
func (m *Manager) Abandon(ctx context.Context, executionID string) error {
	player, err := m.owner(ctx, executionID)
	if err != nil {
		return err
	}
	return m.WithLock(ctx, worldKey(player), func(ctx context.Context) error {
		if _, err := m.store.Load(ctx, executionID); err != nil {
			return err
		}
		m.logger.Debug("execution abandoned", "execution_id", executionID, "player", player)
		return m.store.Delete(ctx, executionID)
	})
}

// List returns the ids of the stored executions.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// Store returns the underlying suspension store.
func (m *Manager) Store() ports.SuspensionStore {
	return m.store
}

func (m *Manager) owner(ctx context.Context, executionID string) (string, error) {
	snap, err := m.store.Load(ctx, executionID)
	if err != nil {
		return "", err
	}
	player := snap.Meta[MetaPlayer]
	if player == "" {
		return "", fmt.Errorf("execution %s has no owning player", executionID)
	}
	return player, nil
}

// commit persists a suspended execution or forgets a finished one.
func (m *Manager) commit(ctx context.Context, player string, exec *colloquy.Execution) (*State, error) {
	state := &State{
		ExecutionID:    exec.ID(),
		ConversationID: exec.Conversation().ID,
		Player:         player,
		Status:         exec.Status(),
		NodeID:         exec.Current(),
		History:        exec.History(),
	}
	if p, ok := exec.Pending(); ok {
		state.Presentation = &p
	}

	if exec.Status() != domain.StatusSuspended {
		if err := m.store.Delete(ctx, exec.ID()); err != nil {
			return nil, fmt.Errorf("forget execution: %w", err)
		}
		return state, nil
	}

	snap, err := exec.Snapshot()
	if err != nil {
		return nil, err
	}
	snap.Meta = map[string]string{MetaPlayer: player}
	if err := m.store.Save(ctx, snap); err != nil {
		return nil, fmt.Errorf("persist execution: %w", err)
	}
	m.logger.Debug("execution saved", "execution_id", exec.ID(), "node_id", exec.Current())
	return state, nil
}
