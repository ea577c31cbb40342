package runtime

import (
	"fmt"
	"time"

	"github.com/aretw0/colloquy/pkg/domain"
	"github.com/aretw0/colloquy/pkg/ports"
)

// result is a hybrid node's recorded output. It is always written as a whole,
// so a reader never sees ok set next to a stale value.
type result struct {
	value any
	ok    bool
}

// Execution is one traversal of a conversation. It is not safe for
// concurrent use; hosts serialize access (see pkg/session).
type Execution struct {
	id        string
	conv      *domain.Conversation
	world     *ports.World
	sink      ports.EventSink
	status    domain.ExecutionStatus
	current   string
	pending   *domain.Presentation
	results   map[string]result
	history   []string
	createdAt time.Time
}

// ID returns the execution id.
func (x *Execution) ID() string { return x.id }

// Conversation returns the conversation being executed.
func (x *Execution) Conversation() *domain.Conversation { return x.conv }

// Status returns the current state of the execution.
func (x *Execution) Status() domain.ExecutionStatus { return x.status }

// Current returns the id of the node the execution is at.
func (x *Execution) Current() string { return x.current }

// Pending returns the presentation awaiting a choice.
func (x *Execution) Pending() (domain.Presentation, bool) {
	if x.pending == nil || x.status != domain.StatusSuspended {
		return domain.Presentation{}, false
	}
	return *x.pending, true
}

// Result returns the result a hybrid node recorded during this execution.
func (x *Execution) Result(nodeID string) (any, bool) {
	r := x.results[nodeID]
	return r.value, r.ok
}

// History returns the visited node ids in order.
func (x *Execution) History() []string {
	return append([]string(nil), x.history...)
}

// Snapshot captures a suspended execution as plain data.
func (x *Execution) Snapshot() (*domain.Suspension, error) {
	if x.status != domain.StatusSuspended || x.pending == nil {
		return nil, fmt.Errorf("snapshot %s (%s): %w", x.id, x.status, domain.ErrNotSuspended)
	}
	results := make(map[string]any, len(x.results))
	for id, r := range x.results {
		if r.ok {
			results[id] = r.value
		}
	}
	p := *x.pending
	p.Options = append([]domain.Option(nil), x.pending.Options...)
	return &domain.Suspension{
		ExecutionID:    x.id,
		ConversationID: x.conv.ID,
		NodeID:         x.current,
		Presentation:   p,
		Results:        results,
		History:        x.History(),
		CreatedAt:      x.createdAt,
	}, nil
}

// Abandon tears down a suspended execution, for instance when the UI that
// owns it goes away. Later Resume calls fail with domain.ErrAbandoned.
// Abandoning an execution that is no longer suspended has no effect.
func (x *Execution) Abandon() {
	if x.status != domain.StatusSuspended {
		return
	}
	x.status = domain.StatusAbandoned
	x.pending = nil
}
