package domain

import (
	"errors"
	"fmt"
)

// Graph construction errors.
var (
	ErrNodeNotFound      = errors.New("node not found")
	ErrDuplicateNode     = errors.New("duplicate node")
	ErrPortNotFound      = errors.New("port not found")
	ErrDuplicatePort     = errors.New("duplicate port")
	ErrDuplicateEdge     = errors.New("duplicate edge")
	ErrIncompatiblePorts = errors.New("incompatible ports")
	ErrPortCapacity      = errors.New("port capacity exceeded")
)

// Execution errors. Node execution itself never fails; these are returned for
// misuse of the execution API.
var (
	// ErrNoEntry is returned when a conversation has no usable entry node.
	ErrNoEntry = errors.New("conversation has no entry node")
	// ErrNotSuspended is returned when resuming an execution that is not paused at an event node.
	ErrNotSuspended = errors.New("execution is not suspended")
	// ErrInvalidChoice is returned when the option index is out of range.
	ErrInvalidChoice = errors.New("invalid choice")
	// ErrAbandoned is returned when resuming an execution that was torn down.
	ErrAbandoned = errors.New("execution abandoned")
	// ErrConversationNotFound is returned when a conversation id is unknown.
	ErrConversationNotFound = errors.New("conversation not found")
	// ErrSuspensionNotFound is returned when a stored suspension cannot be found.
	ErrSuspensionNotFound = errors.New("suspension not found")
	// ErrSuspensionExpired is returned by stores that can tell a snapshot
	// existed but outlived its TTL. It matches ErrSuspensionNotFound too.
	ErrSuspensionExpired = fmt.Errorf("suspension expired: %w", ErrSuspensionNotFound)
)
