package dsl

import "github.com/aretw0/colloquy/pkg/domain"

// NodeBuilder provides a fluent API for configuring a node.
type NodeBuilder struct {
	node    *domain.Node
	builder *Builder
}

// ID returns the node id.
func (n *NodeBuilder) ID() string {
	return n.node.ID
}

// Label sets the editor label.
func (n *NodeBuilder) Label(label string) *NodeBuilder {
	n.node.Label = label
	return n
}

// Set writes a property, validated against the node type.
func (n *NodeBuilder) Set(name string, value any) *NodeBuilder {
	if err := n.builder.catalog.Set(n.node, name, value); err != nil {
		n.builder.errs = append(n.builder.errs, err)
	}
	return n
}

// Go connects an outgoing flow port to the target node's input.
func (n *NodeBuilder) Go(port, target string) *NodeBuilder {
	n.builder.edges = append(n.builder.edges, pendingEdge{
		from: domain.Ref(n.node.ID, port),
		to:   domain.Ref(target, domain.PortIn),
	})
	return n
}

// Next connects the "next" port to target.
func (n *NodeBuilder) Next(target string) *NodeBuilder {
	return n.Go(domain.PortNext, target)
}

// Option adds a choice option. An empty target leaves it unconnected.
func (n *NodeBuilder) Option(id, label, target string) *NodeBuilder {
	if err := n.node.AddOption(id, label); err != nil {
		n.builder.errs = append(n.builder.errs, err)
		return n
	}
	if target != "" {
		n.Go(id, target)
	}
	return n
}

// Feed wires an input slot from a "node.port" source.
func (n *NodeBuilder) Feed(slot, source string) *NodeBuilder {
	n.builder.Connect(source, n.node.ID+"."+slot)
	return n
}

// Build returns the underlying domain.Node.
// This is primarily used by the Builder, but exposed for advanced usage.
func (n *NodeBuilder) Build() *domain.Node {
	return n.node
}
