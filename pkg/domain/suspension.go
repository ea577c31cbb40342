package domain

import "time"

// ExecutionStatus is the state of a single traversal.
type ExecutionStatus string

const (
	StatusRunning   ExecutionStatus = "running"   // Hybrid nodes are being processed
	StatusSuspended ExecutionStatus = "suspended" // Paused at an event node, awaiting a choice
	StatusIdle      ExecutionStatus = "idle"      // No outgoing edge left to follow
	StatusAbandoned ExecutionStatus = "abandoned" // Torn down by the host while suspended
	StatusExpired   ExecutionStatus = "expired"   // Stored snapshot outlived its store TTL
)

// Suspension is the serializable snapshot of an execution paused at an event
// node. It carries everything needed to resume on another call stack (or
// another process): the paused node, the published options and the hybrid
// results recorded so far.
type Suspension struct {
	ExecutionID    string         `json:"execution_id"`
	ConversationID string         `json:"conversation_id"`
	NodeID         string         `json:"node_id"`
	Presentation   Presentation   `json:"presentation"`
	Results        map[string]any `json:"results,omitempty"`
	History        []string       `json:"history,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`

	// Meta carries host data alongside the snapshot. The engine ignores it.
	Meta map[string]string `json:"meta,omitempty"`
}
