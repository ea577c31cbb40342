package nodes

import (
	"context"
	"log/slog"
	"math"

	"github.com/aretw0/colloquy/pkg/domain"
	"github.com/aretw0/colloquy/pkg/ports"
)

// Behavior is the executable form of a node, produced by Catalog.Bind.
// It is exactly one of Value, Hybrid or Event; the set is closed because each
// kind is sealed by an unexported marker that only the *Kind structs supply.
type Behavior interface {
	kind() domain.Kind
}

// Value nodes answer slot reads on demand. Reading is pure: the same world
// state yields the same value and nothing is mutated.
type Value interface {
	Behavior
	isValue()
	// Value returns the value of an outgoing slot, or nil for unknown slots.
	Value(ec Context, slotID string) any
}

// Hybrid nodes compute a result, apply side effects to the world and name the
// outgoing flow port traversal continues on.
type Hybrid interface {
	Behavior
	isHybrid()
	Process(ec Context) Outcome
}

// Event nodes build a presentation for the host. Traversal suspends after the
// presentation is published and resumes through one of its options.
type Event interface {
	Behavior
	isEvent()
	Present(ec Context) domain.Presentation
}

// ValueKind is embedded by value node types.
type ValueKind struct{}

func (ValueKind) kind() domain.Kind { return domain.KindValue }
func (ValueKind) isValue()          {}

// HybridKind is embedded by hybrid node types.
type HybridKind struct{}

func (HybridKind) kind() domain.Kind { return domain.KindHybrid }
func (HybridKind) isHybrid()         {}

// EventKind is embedded by event node types.
type EventKind struct{}

func (EventKind) kind() domain.Kind { return domain.KindEvent }
func (EventKind) isEvent()          {}

// KindOf reports the kind of a bound behavior.
func KindOf(b Behavior) domain.Kind {
	return b.kind()
}

// Context is what a node sees while it runs: the node itself, the world it
// acts on and the slot values wired into it.
type Context interface {
	Context() context.Context
	Node() *domain.Node
	World() *ports.World
	Logger() *slog.Logger
	// ReadSlot resolves an incoming slot by reading the node connected to it.
	// It reports false when the slot is unconnected or the source has no value.
	ReadSlot(slotID string) (any, bool)
	// Degrade records a non-fatal failure. The caller continues with a safe default.
	Degrade(reason string, attrs ...any)
}

// Outcome is the result of a hybrid step.
type Outcome struct {
	Result any
	// Port is the outgoing flow port to follow. Empty stops traversal.
	Port string
}

// Next continues on the "next" port.
func Next(result any) Outcome {
	return Outcome{Result: result, Port: domain.PortNext}
}

// Branch continues on the given port.
func Branch(result any, port string) Outcome {
	return Outcome{Result: result, Port: port}
}

// Halt records the result and stops traversal.
func Halt(result any) Outcome {
	return Outcome{Result: result}
}

// ValueAs reads a slot from a value node and asserts its type. Unknown slots
// and mismatched types yield T's zero value.
func ValueAs[T any](ec Context, v Value, slotID string) T {
	var zero T
	raw := v.Value(ec, slotID)
	if raw == nil {
		return zero
	}
	t, ok := raw.(T)
	if !ok {
		return zero
	}
	return t
}

// SlotAs reads an incoming slot and asserts its type.
func SlotAs[T any](ec Context, slotID string) (T, bool) {
	var zero T
	raw, ok := ec.ReadSlot(slotID)
	if !ok || raw == nil {
		return zero, false
	}
	t, ok := raw.(T)
	if !ok {
		// Results restored from JSON snapshots carry numbers as float64.
		if f, isFloat := raw.(float64); isFloat && f == math.Trunc(f) {
			if n, isInt := any(int(f)).(T); isInt {
				return n, true
			}
		}
		ec.Degrade("slot value has unexpected type", "slot", slotID)
		return zero, false
	}
	return t, true
}

// require reports whether role is populated and degrades when it is not.
func require(ec Context, role ports.Role) bool {
	if ec.World().Has(role) {
		return true
	}
	ec.Degrade("missing collaborator", "role", string(role))
	return false
}
