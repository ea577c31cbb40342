package runtime

import (
	"context"

	"github.com/aretw0/colloquy/pkg/domain"
)

func (e *Engine) nodeEvent(exec *Execution, typ domain.EventType, node *domain.Node, kind domain.Kind, port string) *domain.NodeEvent {
	return &domain.NodeEvent{
		EventBase: domain.EventBase{
			Timestamp:   e.now(),
			Type:        typ,
			ExecutionID: exec.id,
		},
		ConversationID: exec.conv.ID,
		NodeID:         node.ID,
		NodeType:       node.Type,
		Kind:           kind,
		Port:           port,
	}
}

func (e *Engine) fireEnter(ctx context.Context, exec *Execution, node *domain.Node, kind domain.Kind) {
	if e.hooks.OnNodeEnter != nil {
		e.hooks.OnNodeEnter(ctx, e.nodeEvent(exec, domain.EventNodeEnter, node, kind, ""))
	}
}

func (e *Engine) fireLeave(ctx context.Context, exec *Execution, node *domain.Node, port string) {
	if e.hooks.OnNodeLeave != nil {
		e.hooks.OnNodeLeave(ctx, e.nodeEvent(exec, domain.EventNodeLeave, node, "", port))
	}
}

func (e *Engine) fireResume(ctx context.Context, exec *Execution, node *domain.Node, port string) {
	if e.hooks.OnResume != nil {
		e.hooks.OnResume(ctx, e.nodeEvent(exec, domain.EventResume, node, domain.KindEvent, port))
	}
}

func (e *Engine) fireDegraded(ctx context.Context, exec *Execution, node *domain.Node, reason string) {
	if e.hooks.OnDegraded != nil {
		e.hooks.OnDegraded(ctx, &domain.DegradedEvent{
			EventBase: domain.EventBase{
				Timestamp:   e.now(),
				Type:        domain.EventDegraded,
				ExecutionID: exec.id,
			},
			NodeID:   node.ID,
			NodeType: node.Type,
			Reason:   reason,
		})
	}
}
