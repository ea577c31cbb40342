package colloquy

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/aretw0/colloquy/internal/adapters/file"
	"github.com/aretw0/colloquy/internal/compiler"
	"github.com/aretw0/colloquy/internal/runtime"
	"github.com/aretw0/colloquy/pkg/domain"
	"github.com/aretw0/colloquy/pkg/nodes"
	"github.com/aretw0/colloquy/pkg/ports"
)

// Execution is one traversal of a conversation.
type Execution = runtime.Execution

// Engine is the high-level entry point for the colloquy library.
// It wraps the internal runtime and resolves conversations through a loader.
type Engine struct {
	runtime    *runtime.Engine
	loader     ports.ConversationLoader
	catalog    *nodes.Catalog
	hooks      domain.LifecycleHooks
	logger     *slog.Logger
	stepBudget int
	Name       string
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLoader injects a custom ConversationLoader, bypassing the YAML file loader.
func WithLoader(l ports.ConversationLoader) Option {
	return func(e *Engine) {
		e.loader = l
	}
}

// WithCatalog replaces the standard node catalog.
func WithCatalog(c *nodes.Catalog) Option {
	return func(e *Engine) {
		e.catalog = c
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithStepBudget bounds the hybrid steps a single Start or Resume may take.
func WithStepBudget(n int) Option {
	return func(e *Engine) {
		e.stepBudget = n
	}
}

// New initializes an Engine.
// By default, conversations are compiled from the YAML documents at path (a
// directory or a single file). If WithLoader is given, path may be empty.
func New(path string, opts ...Option) (*Engine, error) {
	eng := &Engine{stepBudget: runtime.DefaultStepBudget}
	for _, opt := range opts {
		opt(eng)
	}
	if eng.catalog == nil {
		eng.catalog = nodes.Standard()
	}

	if eng.loader == nil {
		if path == "" {
			return nil, errors.New("path is required when no custom loader is provided")
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, fmt.Errorf("invalid path: %w", err)
		}
		loader, err := file.NewLoader(abs, compiler.New(compiler.WithCatalog(eng.catalog)))
		if err != nil {
			return nil, fmt.Errorf("failed to load conversations: %w", err)
		}
		eng.loader = loader
		eng.Name = filepath.Base(abs)
	} else if path != "" {
		eng.Name = filepath.Base(path)
	}

	if eng.logger == nil {
		eng.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if eng.Name != "" {
		eng.logger = eng.logger.With("source", eng.Name)
	}

	eng.runtime = runtime.NewEngine(
		runtime.WithCatalog(eng.catalog),
		runtime.WithLogger(eng.logger),
		runtime.WithLifecycleHooks(eng.hooks),
		runtime.WithStepBudget(eng.stepBudget),
	)
	return eng, nil
}

// Catalog returns the node catalog conversations are compiled and run with.
func (e *Engine) Catalog() *nodes.Catalog {
	return e.catalog
}

// Conversation loads a conversation by id.
func (e *Engine) Conversation(ctx context.Context, id string) (*domain.Conversation, error) {
	return e.loader.Load(ctx, id)
}

// Conversations lists the available conversation ids.
func (e *Engine) Conversations(ctx context.Context) ([]string, error) {
	return e.loader.List(ctx)
}

// Start loads a conversation and runs it from its entry node until it
// suspends at an event node or goes idle. Presentations go to sink; world
// may be nil or partial.
func (e *Engine) Start(ctx context.Context, conversationID string, world *ports.World, sink ports.EventSink) (*Execution, error) {
	conv, err := e.loader.Load(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	return e.runtime.Start(ctx, conv, world, sink)
}

// StartConversation runs a conversation that was built in memory.
func (e *Engine) StartConversation(ctx context.Context, conv *domain.Conversation, world *ports.World, sink ports.EventSink) (*Execution, error) {
	return e.runtime.Start(ctx, conv, world, sink)
}

// Resume continues a suspended execution with the option at index.
func (e *Engine) Resume(ctx context.Context, exec *Execution, index int) error {
	return e.runtime.Resume(ctx, exec, index)
}

// Restore rebuilds a suspended execution from a snapshot, loading its
// conversation by id.
func (e *Engine) Restore(ctx context.Context, snap *domain.Suspension, world *ports.World, sink ports.EventSink) (*Execution, error) {
	if snap == nil {
		return nil, domain.ErrSuspensionNotFound
	}
	conv, err := e.loader.Load(ctx, snap.ConversationID)
	if err != nil {
		return nil, err
	}
	return e.runtime.Restore(conv, snap, world, sink)
}
