package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/colloquy/pkg/domain"
)

// Combine merges hook sets. Callbacks run in argument order; nil callbacks are skipped.
func Combine(sets ...domain.LifecycleHooks) domain.LifecycleHooks {
	var out domain.LifecycleHooks
	for _, h := range sets {
		out.OnNodeEnter = chain(out.OnNodeEnter, h.OnNodeEnter)
		out.OnNodeLeave = chain(out.OnNodeLeave, h.OnNodeLeave)
		out.OnSuspend = chain(out.OnSuspend, h.OnSuspend)
		out.OnResume = chain(out.OnResume, h.OnResume)
		out.OnIdle = chain(out.OnIdle, h.OnIdle)
		out.OnDegraded = chain(out.OnDegraded, h.OnDegraded)
	}
	return out
}

func chain[E any](a, b func(context.Context, E)) func(context.Context, E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e E) {
		a(ctx, e)
		b(ctx, e)
	}
}

// LogHooks logs every lifecycle event. Traversal steps go to Debug,
// suspensions and idles to Info and degradations to Warn.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	node := func(msg string, level slog.Level) func(context.Context, *domain.NodeEvent) {
		return func(ctx context.Context, e *domain.NodeEvent) {
			logger.Log(ctx, level, msg,
				"execution_id", e.ExecutionID,
				"conversation_id", e.ConversationID,
				"node_id", e.NodeID,
				"type", e.NodeType,
				"port", e.Port,
			)
		}
	}
	return domain.LifecycleHooks{
		OnNodeEnter: node("node_enter", slog.LevelDebug),
		OnNodeLeave: node("node_leave", slog.LevelDebug),
		OnResume:    node("resume", slog.LevelDebug),
		OnIdle:      node("idle", slog.LevelInfo),
		OnSuspend: func(ctx context.Context, s *domain.Suspension) {
			logger.InfoContext(ctx, "suspend",
				"execution_id", s.ExecutionID,
				"conversation_id", s.ConversationID,
				"node_id", s.NodeID,
				"options", len(s.Presentation.Options),
			)
		},
		OnDegraded: func(ctx context.Context, e *domain.DegradedEvent) {
			logger.WarnContext(ctx, "degraded",
				"execution_id", e.ExecutionID,
				"node_id", e.NodeID,
				"type", e.NodeType,
				"reason", e.Reason,
			)
		},
	}
}
