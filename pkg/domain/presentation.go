package domain

// PresentationKind identifies the shape of a presentation event.
type PresentationKind string

const (
	// PresentMessage is a line of dialogue with a single "continue" option.
	PresentMessage PresentationKind = "message"
	// PresentChoice is a prompt with one option per outgoing option port.
	PresentChoice PresentationKind = "choice"
)

// Actor is the speaker attached to a presentation.
type Actor struct {
	ID     string `json:"id" yaml:"id" mapstructure:"id"`
	Name   string `json:"name" yaml:"name" mapstructure:"name"`
	Avatar string `json:"avatar,omitempty" yaml:"avatar,omitempty" mapstructure:"avatar"`
}

// Option is one way to resume a suspended execution. It exists only inside a
// single presentation; it is never stored in the graph.
type Option struct {
	Index int    `json:"index"`
	Label string `json:"label"`
	Port  string `json:"port"`
}

// Presentation is the payload an event node publishes to the host.
type Presentation struct {
	Kind           PresentationKind `json:"kind"`
	ExecutionID    string           `json:"execution_id"`
	ConversationID string           `json:"conversation_id"`
	NodeID         string           `json:"node_id"`
	Actor          *Actor           `json:"actor,omitempty"`
	Text           string           `json:"text"`
	Prompt         string           `json:"prompt,omitempty"`
	Options        []Option         `json:"options"`
}

// Option returns the option with the given index.
func (p Presentation) Option(index int) (Option, bool) {
	if index < 0 || index >= len(p.Options) {
		return Option{}, false
	}
	return p.Options[index], true
}
