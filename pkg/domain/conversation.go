package domain

import "fmt"

// Conversation is the graph container: an ordered set of nodes, the edges
// between their ports and a designated entry node.
//
// A Conversation is built at authoring time and treated as read-only while
// executions run against it.
type Conversation struct {
	ID    string
	Title string
	Entry string

	nodes []*Node
	index map[string]*Node
	edges []Edge
}

// NewConversation creates an empty conversation.
func NewConversation(id, title string) *Conversation {
	return &Conversation{
		ID:    id,
		Title: title,
		index: make(map[string]*Node),
	}
}

// AddNode appends a node. The first node added becomes the entry node unless
// one is set explicitly.
func (c *Conversation) AddNode(n *Node) error {
	if n == nil || n.ID == "" {
		return fmt.Errorf("conversation %s: node missing ID", c.ID)
	}
	if _, exists := c.index[n.ID]; exists {
		return fmt.Errorf("conversation %s: node %s: %w", c.ID, n.ID, ErrDuplicateNode)
	}
	c.nodes = append(c.nodes, n)
	c.index[n.ID] = n
	if c.Entry == "" {
		c.Entry = n.ID
	}
	return nil
}

// RemoveNode deletes a node together with every edge attached to it.
func (c *Conversation) RemoveNode(id string) bool {
	if _, ok := c.index[id]; !ok {
		return false
	}
	delete(c.index, id)
	for i, n := range c.nodes {
		if n.ID == id {
			c.nodes = append(c.nodes[:i:i], c.nodes[i+1:]...)
			break
		}
	}
	kept := c.edges[:0:0]
	for _, e := range c.edges {
		if e.From.NodeID != id && e.To.NodeID != id {
			kept = append(kept, e)
		}
	}
	c.edges = kept
	if c.Entry == id {
		c.Entry = ""
	}
	return true
}

// Node looks up a node by id.
func (c *Conversation) Node(id string) (*Node, bool) {
	n, ok := c.index[id]
	return n, ok
}

// Nodes returns the nodes in insertion order.
func (c *Conversation) Nodes() []*Node {
	return append([]*Node(nil), c.nodes...)
}

// Edges returns the edges in insertion order.
func (c *Conversation) Edges() []Edge {
	return append([]Edge(nil), c.edges...)
}

// SetEntry designates the entry node.
func (c *Conversation) SetEntry(id string) error {
	if _, ok := c.index[id]; !ok {
		return fmt.Errorf("conversation %s: entry %s: %w", c.ID, id, ErrNodeNotFound)
	}
	c.Entry = id
	return nil
}

// EntryNode returns the designated entry node.
func (c *Conversation) EntryNode() (*Node, bool) {
	return c.Node(c.Entry)
}

// Connect adds an edge after checking that both ports exist, are of the same
// kind, have complementary directions (Out -> In), carry compatible value
// types and have spare capacity.
func (c *Conversation) Connect(from, to PortRef) error {
	src, ok := c.index[from.NodeID]
	if !ok {
		return fmt.Errorf("connect %s: source node: %w", from, ErrNodeNotFound)
	}
	dst, ok := c.index[to.NodeID]
	if !ok {
		return fmt.Errorf("connect %s: target node: %w", to, ErrNodeNotFound)
	}

	srcKind, ok := src.PortKind(from.PortID)
	if !ok {
		return fmt.Errorf("connect %s: %w", from, ErrPortNotFound)
	}
	dstKind, ok := dst.PortKind(to.PortID)
	if !ok {
		return fmt.Errorf("connect %s: %w", to, ErrPortNotFound)
	}
	if srcKind != dstKind {
		return fmt.Errorf("connect %s -> %s: %s to %s: %w", from, to, srcKind, dstKind, ErrIncompatiblePorts)
	}
	if !src.ContainsPort(from.PortID, Out) || !dst.ContainsPort(to.PortID, In) {
		return fmt.Errorf("connect %s -> %s: edges must run out -> in: %w", from, to, ErrIncompatiblePorts)
	}

	var srcCap, dstCap Capacity
	if srcKind == PortKindFlow {
		sp, _ := src.FlowPort(from.PortID)
		dp, _ := dst.FlowPort(to.PortID)
		srcCap, dstCap = sp.Capacity, dp.Capacity
	} else {
		sp, _ := src.SlotPort(from.PortID)
		dp, _ := dst.SlotPort(to.PortID)
		if !sp.Type.Accepts(dp.Type) {
			return fmt.Errorf("connect %s -> %s: %s to %s: %w", from, to, sp.Type, dp.Type, ErrIncompatiblePorts)
		}
		srcCap, dstCap = sp.Capacity, dp.Capacity
	}

	for _, e := range c.edges {
		if e.From == from && e.To == to {
			return fmt.Errorf("connect %s -> %s: %w", from, to, ErrDuplicateEdge)
		}
	}
	if srcCap == One && len(c.EdgesAt(from)) > 0 {
		return fmt.Errorf("connect %s: %w", from, ErrPortCapacity)
	}
	if dstCap == One && len(c.EdgesAt(to)) > 0 {
		return fmt.Errorf("connect %s: %w", to, ErrPortCapacity)
	}

	c.edges = append(c.edges, Edge{From: from, To: to})
	return nil
}

// Disconnect removes a single edge.
func (c *Conversation) Disconnect(from, to PortRef) bool {
	for i, e := range c.edges {
		if e.From == from && e.To == to {
			c.edges = append(c.edges[:i:i], c.edges[i+1:]...)
			return true
		}
	}
	return false
}

// DisconnectPort removes every edge attached to ref and returns how many were removed.
func (c *Conversation) DisconnectPort(ref PortRef) int {
	kept := c.edges[:0:0]
	removed := 0
	for _, e := range c.edges {
		if e.Touches(ref) {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	c.edges = kept
	return removed
}

// RemoveOption drops a dynamic option from a node and its edges.
func (c *Conversation) RemoveOption(nodeID, portID string) bool {
	n, ok := c.index[nodeID]
	if !ok || !n.RemoveOption(portID) {
		return false
	}
	c.DisconnectPort(Ref(nodeID, portID))
	return true
}

// EdgesAt returns the edges attached to ref, in insertion order.
func (c *Conversation) EdgesAt(ref PortRef) []Edge {
	var out []Edge
	for _, e := range c.edges {
		if e.Touches(ref) {
			out = append(out, e)
		}
	}
	return out
}

// GetOppositePorts returns the ports on the other end of every edge attached
// to ref, in edge insertion order. An unconnected port yields an empty slice.
func (c *Conversation) GetOppositePorts(ref PortRef) []PortRef {
	out := []PortRef{}
	for _, e := range c.edges {
		if other, ok := e.Opposite(ref); ok {
			out = append(out, other)
		}
	}
	return out
}

// GetOppositeNodes returns the nodes on the other end of every edge attached
// to ref, in edge insertion order. A node appears once per edge.
func (c *Conversation) GetOppositeNodes(ref PortRef) []*Node {
	out := []*Node{}
	for _, other := range c.GetOppositePorts(ref) {
		if n, ok := c.index[other.NodeID]; ok {
			out = append(out, n)
		}
	}
	return out
}

// Upstream returns the distinct nodes with an edge into nodeID.
func (c *Conversation) Upstream(nodeID string) []*Node {
	return c.neighbours(nodeID, func(e Edge) (string, bool) {
		return e.From.NodeID, e.To.NodeID == nodeID
	})
}

// Downstream returns the distinct nodes nodeID has an edge into.
func (c *Conversation) Downstream(nodeID string) []*Node {
	return c.neighbours(nodeID, func(e Edge) (string, bool) {
		return e.To.NodeID, e.From.NodeID == nodeID
	})
}

func (c *Conversation) neighbours(nodeID string, pick func(Edge) (string, bool)) []*Node {
	seen := make(map[string]bool)
	out := []*Node{}
	for _, e := range c.edges {
		id, ok := pick(e)
		if !ok || seen[id] {
			continue
		}
		seen[id] = true
		if n, exists := c.index[id]; exists {
			out = append(out, n)
		}
	}
	return out
}
