package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventNodeEnter EventType = "node_enter"
	EventNodeLeave EventType = "node_leave"
	EventSuspend   EventType = "suspend"
	EventResume    EventType = "resume"
	EventIdle      EventType = "idle"
	EventDegraded  EventType = "degraded"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp   time.Time `json:"timestamp"`
	Type        EventType `json:"type"`
	ExecutionID string    `json:"execution_id"`
}

// NodeEvent represents entry into, exit from, or resumption at a node.
type NodeEvent struct {
	EventBase
	ConversationID string `json:"conversation_id"`
	NodeID         string `json:"node_id"`
	NodeType       string `json:"node_type"`
	Kind           Kind   `json:"kind,omitempty"`
	// Port is the outgoing port taken when leaving (empty when traversal stops).
	Port string `json:"port,omitempty"`
}

// DegradedEvent reports a non-fatal failure that was replaced by a safe default.
type DegradedEvent struct {
	EventBase
	NodeID   string `json:"node_id"`
	NodeType string `json:"node_type"`
	Reason   string `json:"reason"`
}

// LifecycleHooks defines callbacks for engine observability.
type LifecycleHooks struct {
	OnNodeEnter func(context.Context, *NodeEvent)
	OnNodeLeave func(context.Context, *NodeEvent)
	OnSuspend   func(context.Context, *Suspension)
	OnResume    func(context.Context, *NodeEvent)
	OnIdle      func(context.Context, *NodeEvent)
	OnDegraded  func(context.Context, *DegradedEvent)
}
