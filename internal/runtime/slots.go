package runtime

import (
	"context"
	"log/slog"

	"github.com/aretw0/colloquy/pkg/domain"
	"github.com/aretw0/colloquy/pkg/nodes"
	"github.com/aretw0/colloquy/pkg/ports"
)

// maxSlotDepth bounds chains of value nodes reading each other's slots.
const maxSlotDepth = 32

// nodeContext implements nodes.Context for one node visit.
type nodeContext struct {
	ctx    context.Context
	engine *Engine
	exec   *Execution
	node   *domain.Node
	depth  int
	logger *slog.Logger
}

func (e *Engine) nodeContext(ctx context.Context, exec *Execution, node *domain.Node, depth int) *nodeContext {
	return &nodeContext{
		ctx:    ctx,
		engine: e,
		exec:   exec,
		node:   node,
		depth:  depth,
		logger: e.logger.With("execution_id", exec.id, "node_id", node.ID, "node_type", node.Type),
	}
}

func (c *nodeContext) Context() context.Context { return c.ctx }
func (c *nodeContext) Node() *domain.Node       { return c.node }
func (c *nodeContext) World() *ports.World      { return c.exec.world }
func (c *nodeContext) Logger() *slog.Logger     { return c.logger }

func (c *nodeContext) Degrade(reason string, attrs ...any) {
	c.logger.Warn("node degraded: "+reason, attrs...)
	c.engine.fireDegraded(c.ctx, c.exec, c.node, reason)
}

// ReadSlot resolves an incoming slot. Value sources are asked for the
// connected slot; hybrid sources answer from the result recorded earlier in
// this execution. With several sources the first that has a value wins.
func (c *nodeContext) ReadSlot(slotID string) (any, bool) {
	port, ok := c.node.SlotPort(slotID)
	if !ok || port.Direction != domain.In {
		c.Degrade("read of undeclared input slot", "slot", slotID)
		return nil, false
	}
	if c.depth >= maxSlotDepth {
		c.Degrade("slot chain too deep", "slot", slotID)
		return nil, false
	}

	for _, src := range c.exec.conv.GetOppositePorts(domain.Ref(c.node.ID, slotID)) {
		if v, ok := c.readSource(src); ok {
			return v, true
		}
	}
	return nil, false
}

func (c *nodeContext) readSource(src domain.PortRef) (any, bool) {
	srcNode, ok := c.exec.conv.Node(src.NodeID)
	if !ok {
		return nil, false
	}
	b, err := c.engine.catalog.Bind(srcNode)
	if err != nil {
		c.Degrade("slot source has invalid configuration", "source", src.String(), "err", err)
		return nil, false
	}

	switch b := b.(type) {
	case nodes.Value:
		v := b.Value(c.engine.nodeContext(c.ctx, c.exec, srcNode, c.depth+1), src.PortID)
		return v, v != nil
	case nodes.Hybrid:
		if src.PortID != domain.PortResult {
			return nil, false
		}
		return c.exec.Result(srcNode.ID)
	}
	return nil, false
}
