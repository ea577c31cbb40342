package ports

import (
	"context"

	"github.com/aretw0/colloquy/pkg/domain"
)

// EventSink receives the presentations published by event nodes.
// Rendering is entirely up to the host.
type EventSink interface {
	Publish(ctx context.Context, p domain.Presentation)
}

// SinkFunc adapts a function to EventSink.
type SinkFunc func(ctx context.Context, p domain.Presentation)

// Publish calls f.
func (f SinkFunc) Publish(ctx context.Context, p domain.Presentation) {
	f(ctx, p)
}

// Recorder is an EventSink that keeps every presentation in memory.
type Recorder struct {
	Events []domain.Presentation
}

// Publish records the presentation.
func (r *Recorder) Publish(_ context.Context, p domain.Presentation) {
	r.Events = append(r.Events, p)
}

// Last returns the most recent presentation.
func (r *Recorder) Last() (domain.Presentation, bool) {
	if len(r.Events) == 0 {
		return domain.Presentation{}, false
	}
	return r.Events[len(r.Events)-1], true
}
