package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/colloquy"
	"github.com/aretw0/colloquy/internal/logging"
	"github.com/aretw0/colloquy/pkg/domain"
	"github.com/aretw0/colloquy/pkg/ports"
)

var (
	// ErrNoEngine is returned when the runner was built without WithEngine.
	ErrNoEngine = errors.New("runner has no engine")
	// ErrInterrupted is returned when a signal stops the loop. A stored
	// suspension is kept so the conversation can be resumed later.
	ErrInterrupted = errors.New("interrupted")
)

// Runner drives one execution at a time: it shows the pending presentation,
// reads the player's pick and resumes until the conversation goes idle or the
// player leaves.
type Runner struct {
	// Handler is the strategy for IO. Defaults to a TextHandler on stdio.
	Handler IOHandler

	// Logger is used for internal debug logging.
	Logger *slog.Logger

	// Store persists the suspension after every step. If nil, sessions are
	// ephemeral.
	Store ports.SuspensionStore

	// World is handed to the engine. It may be nil or partial.
	World *ports.World

	engine *colloquy.Engine
}

// NewRunner creates a new Runner.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{}
	for _, opt := range opts {
		opt(r)
	}
	if r.Logger == nil {
		r.Logger = logging.NewNop()
	}
	if r.Handler == nil {
		r.Handler = NewTextHandler(nil, nil)
	}
	return r
}

// Run starts a conversation and plays it until it goes idle, the player
// leaves (io.EOF on input) or a signal arrives.
// Leaving is not an error: the execution is returned still suspended.
func (r *Runner) Run(ctx context.Context, conversationID string) (*colloquy.Execution, error) {
	if r.engine == nil {
		return nil, ErrNoEngine
	}
	signals := NewSignalManager(ctx)
	defer signals.Stop()

	exec, err := r.engine.Start(signals.Context(), conversationID, r.World, nil)
	if err != nil {
		return nil, fmt.Errorf("start %s: %w", conversationID, err)
	}
	r.Logger.Debug("conversation started", "conversation_id", conversationID, "execution_id", exec.ID())
	return exec, r.loop(signals, exec)
}

// Resume continues a stored suspension.
func (r *Runner) Resume(ctx context.Context, executionID string) (*colloquy.Execution, error) {
	if r.engine == nil {
		return nil, ErrNoEngine
	}
	if r.Store == nil {
		return nil, fmt.Errorf("resume %s: no store configured: %w", executionID, domain.ErrSuspensionNotFound)
	}
	snap, err := r.Store.Load(ctx, executionID)
	if err != nil {
		return nil, fmt.Errorf("resume %s: %w", executionID, err)
	}
	signals := NewSignalManager(ctx)
	defer signals.Stop()

	exec, err := r.engine.Restore(signals.Context(), snap, r.World, nil)
	if err != nil {
		return nil, fmt.Errorf("resume %s: %w", executionID, err)
	}
	r.Logger.Debug("conversation restored", "conversation_id", snap.ConversationID, "execution_id", exec.ID(), "node_id", snap.NodeID)
	return exec, r.loop(signals, exec)
}

func (r *Runner) loop(signals *SignalManager, exec *colloquy.Execution) error {
	ctx := signals.Context()
	for {
		if err := r.commit(context.WithoutCancel(ctx), exec); err != nil {
			return fmt.Errorf("critical persistence error: %w", err)
		}

		p, ok := exec.Pending()
		if !ok {
			break
		}
		if err := r.Handler.Output(ctx, p); err != nil {
			return fmt.Errorf("output error: %w", err)
		}

		index, err := r.Handler.Input(ctx, p)
		if err != nil {
			signals.CheckRace()
			if ctx.Err() != nil {
				r.Logger.Debug("runner input: context cancelled", "err", ctx.Err())
				exec.Abandon()
				return ErrInterrupted
			}
			if errors.Is(err, io.EOF) {
				r.Logger.Debug("player left", "execution_id", exec.ID(), "node_id", exec.Current())
				return nil
			}
			return fmt.Errorf("input error: %w", err)
		}

		if err := r.engine.Resume(ctx, exec, index); err != nil {
			if errors.Is(err, domain.ErrInvalidChoice) {
				if err := r.Handler.SystemOutput(ctx, err.Error()); err != nil {
					return fmt.Errorf("output error: %w", err)
				}
				continue
			}
			return fmt.Errorf("resume error: %w", err)
		}
	}

	r.Logger.Debug("conversation finished", "execution_id", exec.ID(), "status", exec.Status())
	return r.Handler.SystemOutput(ctx, "The conversation is over.")
}

// commit stores the suspension while the execution is paused and forgets it
// once the execution has finished.
func (r *Runner) commit(ctx context.Context, exec *colloquy.Execution) error {
	if r.Store == nil {
		return nil
	}
	if exec.Status() != domain.StatusSuspended {
		return r.Store.Delete(ctx, exec.ID())
	}
	snap, err := exec.Snapshot()
	if err != nil {
		return err
	}
	if err := r.Store.Save(ctx, snap); err != nil {
		return err
	}
	r.Logger.Debug("suspension saved", "execution_id", snap.ExecutionID, "node_id", snap.NodeID)
	return nil
}
