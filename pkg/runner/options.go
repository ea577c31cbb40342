package runner

import (
	"log/slog"

	"github.com/aretw0/colloquy"
	"github.com/aretw0/colloquy/pkg/ports"
)

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// WithEngine configures the engine conversations run on. Required.
func WithEngine(engine *colloquy.Engine) Option {
	return func(r *Runner) {
		r.engine = engine
	}
}

// WithWorld configures the world the conversation runs against.
func WithWorld(world *ports.World) Option {
	return func(r *Runner) {
		r.World = world
	}
}

// WithStore configures the SuspensionStore for persistence.
func WithStore(store ports.SuspensionStore) Option {
	return func(r *Runner) {
		r.Store = store
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.Logger = logger
	}
}

// WithInputHandler configures a custom IOHandler.
func WithInputHandler(handler IOHandler) Option {
	return func(r *Runner) {
		r.Handler = handler
	}
}
