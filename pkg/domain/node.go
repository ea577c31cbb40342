package domain

import "fmt"

// Kind is the execution contract a node type follows.
type Kind string

const (
	// KindValue nodes answer slot reads on demand and never advance flow.
	KindValue Kind = "value"
	// KindHybrid nodes compute a result, apply side effects and advance along one port.
	KindHybrid Kind = "hybrid"
	// KindEvent nodes publish a presentation and suspend until resumed.
	KindEvent Kind = "event"
)

// Node represents a unit of behavior in a conversation.
// Ports are declared up front by the node type; Options holds the
// authoring-time dynamic ports of choice nodes.
type Node struct {
	ID    string `json:"id" yaml:"id"`
	Type  string `json:"type" yaml:"type"`
	Label string `json:"label,omitempty" yaml:"label,omitempty"`

	Flow  []FlowPort `json:"flow,omitempty" yaml:"flow,omitempty"`
	Slots []SlotPort `json:"slots,omitempty" yaml:"slots,omitempty"`

	// Options is the ordered list of dynamic outgoing flow ports.
	Options []DynamicPort `json:"options,omitempty" yaml:"options,omitempty"`

	// Config holds node-specific configuration, decoded by the node type on every visit.
	Config map[string]any `json:"config,omitempty" yaml:"config,omitempty"`
}

// ContainsPort reports whether the node declares a port with the given id and
// direction, statically or as a currently registered dynamic option.
func (n *Node) ContainsPort(id string, dir Direction) bool {
	for _, p := range n.Flow {
		if p.ID == id && p.Direction == dir {
			return true
		}
	}
	for _, p := range n.Slots {
		if p.ID == id && p.Direction == dir {
			return true
		}
	}
	if dir == Out {
		for _, o := range n.Options {
			if o.ID == id {
				return true
			}
		}
	}
	return false
}

// FlowPort looks up a static or dynamic flow port.
func (n *Node) FlowPort(id string) (FlowPort, bool) {
	for _, p := range n.Flow {
		if p.ID == id {
			return p, true
		}
	}
	for _, o := range n.Options {
		if o.ID == id {
			return o.Flow(), true
		}
	}
	return FlowPort{}, false
}

// SlotPort looks up a slot port.
func (n *Node) SlotPort(id string) (SlotPort, bool) {
	for _, p := range n.Slots {
		if p.ID == id {
			return p, true
		}
	}
	return SlotPort{}, false
}

// PortKind resolves which kind of port id names on this node.
func (n *Node) PortKind(id string) (PortKind, bool) {
	if _, ok := n.FlowPort(id); ok {
		return PortKindFlow, true
	}
	if _, ok := n.SlotPort(id); ok {
		return PortKindSlot, true
	}
	return "", false
}

func (n *Node) hasPortID(id string) bool {
	_, ok := n.PortKind(id)
	return ok
}

// AddOption registers a dynamic outgoing port. Ids must be unique across all
// of the node's ports.
func (n *Node) AddOption(id, label string) error {
	if id == "" {
		return fmt.Errorf("node %s: option id is empty", n.ID)
	}
	if n.hasPortID(id) {
		return fmt.Errorf("node %s: port %q: %w", n.ID, id, ErrDuplicatePort)
	}
	n.Options = append(n.Options, DynamicPort{ID: id, Label: label})
	return nil
}

// RemoveOption unregisters a dynamic port. Edges attached to it must be removed
// through the owning Conversation (see Conversation.RemoveOption).
func (n *Node) RemoveOption(id string) bool {
	for i, o := range n.Options {
		if o.ID == id {
			n.Options = append(n.Options[:i:i], n.Options[i+1:]...)
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the node's ports and a shallow copy of its config.
func (n *Node) Clone() *Node {
	c := *n
	c.Flow = append([]FlowPort(nil), n.Flow...)
	c.Slots = append([]SlotPort(nil), n.Slots...)
	c.Options = append([]DynamicPort(nil), n.Options...)
	if n.Config != nil {
		c.Config = make(map[string]any, len(n.Config))
		for k, v := range n.Config {
			c.Config[k] = v
		}
	}
	return &c
}
