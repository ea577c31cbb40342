package runtime

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/colloquy/pkg/domain"
	"github.com/aretw0/colloquy/pkg/nodes"
	"github.com/aretw0/colloquy/pkg/ports"
	"github.com/google/uuid"
)

// DefaultStepBudget bounds the hybrid steps a single Start or Resume call may take.
const DefaultStepBudget = 10000

// Engine drives executions over conversations.
// An Engine holds no per-execution state and may be shared.
type Engine struct {
	catalog    *nodes.Catalog
	logger     *slog.Logger
	hooks      domain.LifecycleHooks
	stepBudget int
	newID      func() string
	now        func() time.Time
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithCatalog replaces the standard node catalog.
func WithCatalog(c *nodes.Catalog) EngineOption {
	return func(e *Engine) {
		e.catalog = c
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithStepBudget sets how many hybrid steps one call may take before the
// execution is stopped as idle. Zero or less disables the guard.
func WithStepBudget(n int) EngineOption {
	return func(e *Engine) {
		e.stepBudget = n
	}
}

// WithIDGenerator overrides how execution ids are created.
func WithIDGenerator(fn func() string) EngineOption {
	return func(e *Engine) {
		e.newID = fn
	}
}

// WithClock overrides the wall clock used for event timestamps.
func WithClock(fn func() time.Time) EngineOption {
	return func(e *Engine) {
		e.now = fn
	}
}

// NewEngine creates a new engine.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		catalog:    nodes.Standard(),
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		stepBudget: DefaultStepBudget,
		newID:      uuid.NewString,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Catalog returns the node catalog the engine binds nodes with.
func (e *Engine) Catalog() *nodes.Catalog {
	return e.catalog
}

// Start begins a new execution at the conversation's entry node and runs it
// until it suspends at an event node or goes idle.
// The world may be nil or partially populated; nodes degrade gracefully.
func (e *Engine) Start(ctx context.Context, conv *domain.Conversation, world *ports.World, sink ports.EventSink) (*Execution, error) {
	if conv == nil {
		return nil, domain.ErrConversationNotFound
	}
	entry, ok := conv.EntryNode()
	if !ok {
		return nil, fmt.Errorf("conversation %s: %w", conv.ID, domain.ErrNoEntry)
	}
	exec := e.newExecution(e.newID(), conv, world, sink)
	e.logger.Debug("execution started", "execution_id", exec.id, "conversation_id", conv.ID, "entry", entry.ID)
	return exec, e.run(ctx, exec, entry.ID)
}

// Resume continues a suspended execution along the option with the given
// index. An option whose port leads nowhere ends the execution as idle.
func (e *Engine) Resume(ctx context.Context, exec *Execution, index int) error {
	if exec == nil {
		return fmt.Errorf("resume: no execution: %w", domain.ErrNotSuspended)
	}
	switch exec.status {
	case domain.StatusSuspended:
	case domain.StatusAbandoned:
		return fmt.Errorf("resume %s: %w", exec.id, domain.ErrAbandoned)
	default:
		return fmt.Errorf("resume %s (%s): %w", exec.id, exec.status, domain.ErrNotSuspended)
	}

	opt, ok := exec.pending.Option(index)
	if !ok {
		return fmt.Errorf("resume %s: choice %d of %d: %w", exec.id, index, len(exec.pending.Options), domain.ErrInvalidChoice)
	}

	node, ok := exec.conv.Node(exec.current)
	if !ok {
		return fmt.Errorf("resume %s: node %s: %w", exec.id, exec.current, domain.ErrNodeNotFound)
	}

	exec.status = domain.StatusRunning
	exec.pending = nil
	e.fireResume(ctx, exec, node, opt.Port)
	e.fireLeave(ctx, exec, node, opt.Port)

	next, ok := e.follow(ctx, exec, node, opt.Port)
	if !ok {
		e.idle(ctx, exec, node)
		return nil
	}
	return e.run(ctx, exec, next)
}

// Restore rebuilds a suspended execution from a snapshot, re-attaching it to
// a conversation, a world and a sink.
func (e *Engine) Restore(conv *domain.Conversation, snap *domain.Suspension, world *ports.World, sink ports.EventSink) (*Execution, error) {
	if conv == nil || snap == nil {
		return nil, domain.ErrSuspensionNotFound
	}
	if snap.ConversationID != conv.ID {
		return nil, fmt.Errorf("restore %s: snapshot of %q, got %q: %w", snap.ExecutionID, snap.ConversationID, conv.ID, domain.ErrConversationNotFound)
	}
	if _, ok := conv.Node(snap.NodeID); !ok {
		return nil, fmt.Errorf("restore %s: node %s: %w", snap.ExecutionID, snap.NodeID, domain.ErrNodeNotFound)
	}

	exec := e.newExecution(snap.ExecutionID, conv, world, sink)
	for id, v := range snap.Results {
		exec.results[id] = result{value: v, ok: true}
	}
	exec.history = append(exec.history, snap.History...)
	exec.createdAt = snap.CreatedAt
	exec.current = snap.NodeID
	p := snap.Presentation
	p.Options = append([]domain.Option(nil), snap.Presentation.Options...)
	exec.pending = &p
	exec.status = domain.StatusSuspended
	return exec, nil
}

func (e *Engine) newExecution(id string, conv *domain.Conversation, world *ports.World, sink ports.EventSink) *Execution {
	if world == nil {
		world = &ports.World{}
	}
	if sink == nil {
		sink = ports.SinkFunc(func(context.Context, domain.Presentation) {})
	}
	return &Execution{
		id:        id,
		conv:      conv,
		world:     world,
		sink:      sink,
		status:    domain.StatusRunning,
		results:   make(map[string]result),
		createdAt: e.now().UTC(),
	}
}
