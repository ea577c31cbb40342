package domain

import (
	"fmt"
	"strings"
)

// Direction tells which way an edge may attach to a port.
type Direction string

const (
	In  Direction = "in"
	Out Direction = "out"
)

// Opposite returns the complementary direction.
func (d Direction) Opposite() Direction {
	if d == In {
		return Out
	}
	return In
}

// Capacity bounds the number of edges a port may carry.
type Capacity string

const (
	One  Capacity = "one"
	Many Capacity = "many"
)

// PortKind separates control-flow ports from data ports.
type PortKind string

const (
	PortKindFlow PortKind = "flow"
	PortKindSlot PortKind = "slot"
)

// ValueType is the type carried by a slot port.
type ValueType string

const (
	TypeAny    ValueType = "any"
	TypeString ValueType = "string"
	TypeInt    ValueType = "int"
	TypeBool   ValueType = "bool"
	TypeActor  ValueType = "actor"
	TypeItem   ValueType = "item"
)

// Accepts reports whether a slot of type t may be wired to a slot of type other.
func (t ValueType) Accepts(other ValueType) bool {
	return t == other || t == TypeAny || other == TypeAny
}

// Well-known port ids shared by many node types.
const (
	PortIn     = "in"
	PortNext   = "next"
	PortResult = "result"
)

// FlowPort is a control-flow connection point.
type FlowPort struct {
	ID        string    `json:"id" yaml:"id"`
	Direction Direction `json:"direction" yaml:"direction"`
	Capacity  Capacity  `json:"capacity" yaml:"capacity"`
	Label     string    `json:"label,omitempty" yaml:"label,omitempty"`
}

// SlotPort is a typed data connection point.
type SlotPort struct {
	ID        string    `json:"id" yaml:"id"`
	Type      ValueType `json:"type" yaml:"type"`
	Direction Direction `json:"direction" yaml:"direction"`
	Capacity  Capacity  `json:"capacity" yaml:"capacity"`
}

// DynamicPort is an outgoing flow port registered at authoring time,
// one per choice option. It always has capacity One.
type DynamicPort struct {
	ID    string `json:"id" yaml:"id"`
	Label string `json:"label" yaml:"label"`
}

// Flow returns the dynamic port as a regular outgoing flow port.
func (d DynamicPort) Flow() FlowPort {
	return FlowPort{ID: d.ID, Direction: Out, Capacity: One, Label: d.Label}
}

// PortRef addresses a port on a node.
type PortRef struct {
	NodeID string `json:"node" yaml:"node"`
	PortID string `json:"port" yaml:"port"`
}

// Ref is a shorthand constructor for PortRef.
func Ref(nodeID, portID string) PortRef {
	return PortRef{NodeID: nodeID, PortID: portID}
}

func (r PortRef) String() string {
	return r.NodeID + "." + r.PortID
}

// ParsePortRef parses the "node.port" notation. The last dot separates the
// port, so node ids may themselves contain dots.
func ParsePortRef(s string) (PortRef, error) {
	s = strings.TrimSpace(s)
	i := strings.LastIndex(s, ".")
	if i <= 0 || i == len(s)-1 {
		return PortRef{}, fmt.Errorf("invalid port reference %q (expected node.port)", s)
	}
	return PortRef{NodeID: s[:i], PortID: s[i+1:]}, nil
}
