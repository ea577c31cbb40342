package nodes

import (
	"github.com/aretw0/colloquy/pkg/domain"
	"github.com/aretw0/colloquy/pkg/ports"
	"github.com/aretw0/colloquy/pkg/schema"
)

// Start marks where a conversation begins. It only passes control on.
type Start struct {
	HybridKind
}

func (n *Start) Process(Context) Outcome {
	return Next(true)
}

// Journal writes a story note. A wired "text" slot overrides the configured text.
type Journal struct {
	HybridKind
	Text string `mapstructure:"text"`
}

func (n *Journal) Process(ec Context) Outcome {
	text := n.Text
	if s, ok := SlotAs[string](ec, SlotText); ok {
		text = s
	}
	if text == "" {
		ec.Degrade("journal text is empty")
		return Next(false)
	}
	if !require(ec, ports.RoleJournal) {
		return Next(false)
	}
	ec.World().Journal.AddEntry(text)
	return Next(true)
}

// SetFlag sets or clears a story flag.
type SetFlag struct {
	HybridKind
	Flag  string `mapstructure:"flag"`
	Value bool   `mapstructure:"value"`
}

func (n *SetFlag) Process(ec Context) Outcome {
	if n.Flag == "" {
		ec.Degrade("flag name not configured")
		return Next(false)
	}
	if !require(ec, ports.RoleFlags) {
		return Next(false)
	}
	ec.World().Flags.SetFlag(n.Flag, n.Value)
	return Next(true)
}

// CheckFlag branches on a story flag.
type CheckFlag struct {
	HybridKind
	Flag string `mapstructure:"flag"`
}

func (n *CheckFlag) Process(ec Context) Outcome {
	set := false
	switch {
	case n.Flag == "":
		ec.Degrade("flag name not configured")
	case require(ec, ports.RoleFlags):
		set = ec.World().Flags.HasFlag(n.Flag)
	}
	return Branch(set, boolPort(set))
}

// CheckChapter compares the current chapter with a configured one.
type CheckChapter struct {
	HybridKind
	Op      string `mapstructure:"op"`
	Chapter int    `mapstructure:"chapter"`
}

func (n *CheckChapter) Process(ec Context) Outcome {
	ok := false
	if require(ec, ports.RoleStory) {
		ok = Compare(n.Op, ec.World().Story.Chapter(), n.Chapter)
	}
	return Branch(ok, boolPort(ok))
}

// AdvanceChapter moves the story forward by Delta chapters.
type AdvanceChapter struct {
	HybridKind
	Delta int `mapstructure:"delta"`
}

func (n *AdvanceChapter) Process(ec Context) Outcome {
	if !require(ec, ports.RoleStory) {
		return Next(0)
	}
	s := ec.World().Story
	s.AdvanceChapter(n.Delta)
	return Next(s.Chapter())
}

// CheckTrust compares a contact's trust with a threshold. A wired "value"
// slot overrides the configured threshold.
type CheckTrust struct {
	HybridKind
	Contact string `mapstructure:"contact"`
	Op      string `mapstructure:"op"`
	Value   int    `mapstructure:"value"`
}

func (n *CheckTrust) Process(ec Context) Outcome {
	threshold := n.Value
	if v, ok := SlotAs[int](ec, SlotValue); ok {
		threshold = v
	}
	ok := false
	switch {
	case n.Contact == "":
		ec.Degrade("contact not configured")
	case require(ec, ports.RoleContacts):
		ok = Compare(n.Op, ec.World().Contacts.Trust(n.Contact), threshold)
	}
	return Branch(ok, boolPort(ok))
}

// AddTrust changes a contact's trust.
type AddTrust struct {
	HybridKind
	Contact string `mapstructure:"contact"`
	Delta   int    `mapstructure:"delta"`
}

func (n *AddTrust) Process(ec Context) Outcome {
	if n.Contact == "" {
		ec.Degrade("contact not configured")
		return Next(0)
	}
	if !require(ec, ports.RoleContacts) {
		return Next(0)
	}
	c := ec.World().Contacts
	c.AddTrust(n.Contact, n.Delta)
	return Next(c.Trust(n.Contact))
}

func stateDefinitions() []Definition {
	ops := schema.Enum(operators...)
	return []Definition{
		{
			Type:  "start",
			Kind:  domain.KindHybrid,
			Doc:   "Entry point of a conversation.",
			Flow:  []domain.FlowPort{flowOut(domain.PortNext)},
			Slots: []domain.SlotPort{resultSlot(domain.TypeBool)},
			New:   func() Behavior { return &Start{} },
		},
		{
			Type:       "journal",
			Kind:       domain.KindHybrid,
			Doc:        "Adds a journal entry.",
			Flow:       hybridFlow(domain.PortNext),
			Slots:      []domain.SlotPort{slotIn(SlotText, domain.TypeString), resultSlot(domain.TypeBool)},
			Properties: []Property{{Name: "text", Type: schema.String()}},
			New:        func() Behavior { return &Journal{} },
		},
		{
			Type:  "set_flag",
			Kind:  domain.KindHybrid,
			Flow:  hybridFlow(domain.PortNext),
			Slots: []domain.SlotPort{resultSlot(domain.TypeBool)},
			Properties: []Property{
				{Name: "flag", Type: schema.String(), Required: true},
				{Name: "value", Type: schema.Bool(), Default: true},
			},
			New: func() Behavior { return &SetFlag{} },
		},
		{
			Type:       "check_flag",
			Kind:       domain.KindHybrid,
			Flow:       hybridFlow(PortTrue, PortFalse),
			Slots:      []domain.SlotPort{resultSlot(domain.TypeBool)},
			Properties: []Property{{Name: "flag", Type: schema.String(), Required: true}},
			New:        func() Behavior { return &CheckFlag{} },
		},
		{
			Type:  "check_chapter",
			Kind:  domain.KindHybrid,
			Flow:  hybridFlow(PortTrue, PortFalse),
			Slots: []domain.SlotPort{resultSlot(domain.TypeBool)},
			Properties: []Property{
				{Name: "op", Type: ops, Default: "gte"},
				{Name: "chapter", Type: schema.Int(), Required: true},
			},
			New: func() Behavior { return &CheckChapter{} },
		},
		{
			Type:       "advance_chapter",
			Kind:       domain.KindHybrid,
			Flow:       hybridFlow(domain.PortNext),
			Slots:      []domain.SlotPort{resultSlot(domain.TypeInt)},
			Properties: []Property{{Name: "delta", Type: schema.Int(), Default: 1}},
			New:        func() Behavior { return &AdvanceChapter{} },
		},
		{
			Type:  "check_trust",
			Kind:  domain.KindHybrid,
			Flow:  hybridFlow(PortTrue, PortFalse),
			Slots: []domain.SlotPort{slotIn(SlotValue, domain.TypeInt), resultSlot(domain.TypeBool)},
			Properties: []Property{
				{Name: "contact", Type: schema.String(), Required: true},
				{Name: "op", Type: ops, Default: "gte"},
				{Name: "value", Type: schema.Int(), Default: 0},
			},
			New: func() Behavior { return &CheckTrust{} },
		},
		{
			Type:  "add_trust",
			Kind:  domain.KindHybrid,
			Flow:  hybridFlow(domain.PortNext),
			Slots: []domain.SlotPort{resultSlot(domain.TypeInt)},
			Properties: []Property{
				{Name: "contact", Type: schema.String(), Required: true},
				{Name: "delta", Type: schema.Int(), Default: 1},
			},
			New: func() Behavior { return &AddTrust{} },
		},
	}
}
