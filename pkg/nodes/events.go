package nodes

import (
	"github.com/aretw0/colloquy/pkg/domain"
	"github.com/aretw0/colloquy/pkg/schema"
)

// speaker builds the actor for an event node: the wired "actor" slot when
// connected, otherwise the configured speaker.
func speaker(ec Context, name, avatar string) *domain.Actor {
	if raw, ok := ec.ReadSlot(SlotActor); ok {
		switch a := raw.(type) {
		case domain.Actor:
			return &a
		case *domain.Actor:
			if a != nil {
				c := *a
				return &c
			}
		default:
			ec.Degrade("slot value has unexpected type", "slot", SlotActor)
		}
	}
	if name == "" {
		return nil
	}
	return &domain.Actor{Name: name, Avatar: avatar}
}

func textOr(ec Context, slotID, fallback string) string {
	if s, ok := SlotAs[string](ec, slotID); ok {
		return s
	}
	return fallback
}

// Message shows a line of dialogue with a single option to continue.
type Message struct {
	EventKind
	Speaker  string `mapstructure:"speaker"`
	Avatar   string `mapstructure:"avatar"`
	Text     string `mapstructure:"text"`
	Continue string `mapstructure:"continue"`
}

func (n *Message) Present(ec Context) domain.Presentation {
	text := textOr(ec, SlotText, n.Text)
	if text == "" {
		ec.Degrade("message text is empty")
	}
	return domain.Presentation{
		Kind:  domain.PresentMessage,
		Actor: speaker(ec, n.Speaker, n.Avatar),
		Text:  text,
		Options: []domain.Option{
			{Index: 0, Label: n.Continue, Port: PortContinue},
		},
	}
}

// Choice asks the player to pick one of the node's options, in declaration order.
type Choice struct {
	EventKind
	Speaker string `mapstructure:"speaker"`
	Avatar  string `mapstructure:"avatar"`
	Text    string `mapstructure:"text"`
	Prompt  string `mapstructure:"prompt"`
}

func (n *Choice) Present(ec Context) domain.Presentation {
	node := ec.Node()
	opts := make([]domain.Option, 0, len(node.Options))
	for i, o := range node.Options {
		label := o.Label
		if label == "" {
			label = o.ID
		}
		opts = append(opts, domain.Option{Index: i, Label: label, Port: o.ID})
	}
	if len(opts) == 0 {
		ec.Degrade("choice has no options")
	}
	return domain.Presentation{
		Kind:    domain.PresentChoice,
		Actor:   speaker(ec, n.Speaker, n.Avatar),
		Text:    textOr(ec, SlotText, n.Text),
		Prompt:  textOr(ec, SlotPrompt, n.Prompt),
		Options: opts,
	}
}

func eventDefinitions() []Definition {
	return []Definition{
		{
			Type: "message",
			Kind: domain.KindEvent,
			Doc:  "A line of dialogue. The player continues with a single option.",
			Flow: hybridFlow(PortContinue),
			Slots: []domain.SlotPort{
				slotIn(SlotActor, domain.TypeActor),
				slotIn(SlotText, domain.TypeString),
			},
			Properties: []Property{
				{Name: "speaker", Type: schema.String()},
				{Name: "avatar", Type: schema.String()},
				{Name: "text", Type: schema.String()},
				{Name: "continue", Type: schema.String(), Default: "Continue"},
			},
			New: func() Behavior { return &Message{} },
		},
		{
			Type: "choice",
			Kind: domain.KindEvent,
			Doc:  "A prompt with one option per outgoing option port.",
			Flow: []domain.FlowPort{flowIn()},
			Slots: []domain.SlotPort{
				slotIn(SlotActor, domain.TypeActor),
				slotIn(SlotText, domain.TypeString),
				slotIn(SlotPrompt, domain.TypeString),
			},
			Properties: []Property{
				{Name: "speaker", Type: schema.String()},
				{Name: "avatar", Type: schema.String()},
				{Name: "text", Type: schema.String()},
				{Name: "prompt", Type: schema.String()},
			},
			Dynamic: true,
			New:     func() Behavior { return &Choice{} },
		},
	}
}
