package runtime

import (
	"context"

	"github.com/aretw0/colloquy/pkg/domain"
	"github.com/aretw0/colloquy/pkg/nodes"
)

// run executes nodes starting at nodeID until the execution suspends or goes idle.
// Node failures never surface as errors; only context cancellation does.
func (e *Engine) run(ctx context.Context, exec *Execution, nodeID string) error {
	exec.status = domain.StatusRunning
	steps := 0

	for {
		if err := ctx.Err(); err != nil {
			exec.status = domain.StatusAbandoned
			exec.pending = nil
			e.logger.Warn("execution cancelled", "execution_id", exec.id, "node_id", nodeID, "err", err)
			return err
		}

		node, ok := exec.conv.Node(nodeID)
		if !ok {
			e.logger.Warn("edge leads to unknown node", "execution_id", exec.id, "node_id", nodeID)
			exec.status = domain.StatusIdle
			return nil
		}

		exec.current = node.ID
		exec.history = append(exec.history, node.ID)
		ec := e.nodeContext(ctx, exec, node, 0)

		b, err := e.catalog.Bind(node)
		if err != nil {
			e.fireEnter(ctx, exec, node, "")
			ec.Degrade("invalid configuration", "err", err)
			def, _ := e.catalog.Lookup(node.Type)
			port, ok := def.FallbackPort()
			steps++
			if !ok || (e.stepBudget > 0 && steps > e.stepBudget) {
				e.idle(ctx, exec, node)
				return nil
			}
			e.fireLeave(ctx, exec, node, port)
			next, ok := e.follow(ctx, exec, node, port)
			if !ok {
				e.idle(ctx, exec, node)
				return nil
			}
			nodeID = next
			continue
		}
		kind := nodes.KindOf(b)
		e.fireEnter(ctx, exec, node, kind)

		switch b := b.(type) {
		case nodes.Hybrid:
			steps++
			if e.stepBudget > 0 && steps > e.stepBudget {
				e.logger.Warn("step budget exhausted", "execution_id", exec.id, "node_id", node.ID, "budget", e.stepBudget)
				e.fireDegraded(ctx, exec, node, "step budget exhausted")
				e.idle(ctx, exec, node)
				return nil
			}

			out := b.Process(ec)
			exec.results[node.ID] = result{value: out.Result, ok: true}
			e.fireLeave(ctx, exec, node, out.Port)

			if out.Port == "" {
				e.idle(ctx, exec, node)
				return nil
			}
			next, ok := e.follow(ctx, exec, node, out.Port)
			if !ok {
				e.idle(ctx, exec, node)
				return nil
			}
			nodeID = next

		case nodes.Event:
			p := b.Present(ec)
			p.ExecutionID = exec.id
			p.ConversationID = exec.conv.ID
			p.NodeID = node.ID

			exec.pending = &p
			exec.status = domain.StatusSuspended
			exec.sink.Publish(ctx, p)

			if len(p.Options) == 0 {
				e.idle(ctx, exec, node)
				return nil
			}
			if e.hooks.OnSuspend != nil {
				if snap, err := exec.Snapshot(); err == nil {
					e.hooks.OnSuspend(ctx, snap)
				}
			}
			return nil

		case nodes.Value:
			ec.Degrade("value node on the control path")
			e.idle(ctx, exec, node)
			return nil
		}
	}
}

// follow resolves the node at the other end of an outgoing flow port.
// It reports false when traversal should stop.
func (e *Engine) follow(ctx context.Context, exec *Execution, node *domain.Node, port string) (string, bool) {
	log := e.logger.With("execution_id", exec.id, "node_id", node.ID, "port", port)

	if _, ok := node.FlowPort(port); !ok || !node.ContainsPort(port, domain.Out) {
		log.Warn("node chose an undeclared port")
		e.fireDegraded(ctx, exec, node, "undeclared port "+port)
		return "", false
	}

	targets := exec.conv.GetOppositeNodes(domain.Ref(node.ID, port))
	switch len(targets) {
	case 0:
		log.Debug("port is not connected, traversal ends")
		return "", false
	case 1:
		return targets[0].ID, true
	default:
		log.Warn("port has several downstream nodes, taking the first", "count", len(targets))
		return targets[0].ID, true
	}
}

func (e *Engine) idle(ctx context.Context, exec *Execution, node *domain.Node) {
	exec.status = domain.StatusIdle
	exec.pending = nil
	e.logger.Debug("execution idle", "execution_id", exec.id, "node_id", node.ID)
	if e.hooks.OnIdle != nil {
		e.hooks.OnIdle(ctx, e.nodeEvent(exec, domain.EventIdle, node, "", ""))
	}
}
