package nodes

import (
	"github.com/aretw0/colloquy/pkg/domain"
	"github.com/aretw0/colloquy/pkg/ports"
	"github.com/aretw0/colloquy/pkg/schema"
)

// ActorValue supplies a speaker to message and choice nodes.
type ActorValue struct {
	ValueKind
	ID     string `mapstructure:"id"`
	Name   string `mapstructure:"name"`
	Avatar string `mapstructure:"avatar"`
}

func (n *ActorValue) Value(_ Context, slotID string) any {
	switch slotID {
	case SlotActor:
		return domain.Actor{ID: n.ID, Name: n.Name, Avatar: n.Avatar}
	case SlotName:
		return n.Name
	}
	return nil
}

// TextValue supplies a fixed line of text.
type TextValue struct {
	ValueKind
	Text string `mapstructure:"text"`
}

func (n *TextValue) Value(_ Context, slotID string) any {
	if slotID == SlotText {
		return n.Text
	}
	return nil
}

// NumberValue supplies a fixed integer.
type NumberValue struct {
	ValueKind
	Number int `mapstructure:"value"`
}

func (n *NumberValue) Value(_ Context, slotID string) any {
	if slotID == SlotValue {
		return n.Number
	}
	return nil
}

// BooleanValue supplies a fixed boolean.
type BooleanValue struct {
	ValueKind
	Bool bool `mapstructure:"value"`
}

func (n *BooleanValue) Value(_ Context, slotID string) any {
	if slotID == SlotValue {
		return n.Bool
	}
	return nil
}

// FlagValue reads a story flag.
type FlagValue struct {
	ValueKind
	Flag string `mapstructure:"flag"`
}

func (n *FlagValue) Value(ec Context, slotID string) any {
	if slotID != SlotValue {
		return nil
	}
	if n.Flag == "" {
		ec.Degrade("flag name not configured")
		return false
	}
	if !require(ec, ports.RoleFlags) {
		return false
	}
	return ec.World().Flags.HasFlag(n.Flag)
}

// ResourceValue reads one of the player's currencies.
type ResourceValue struct {
	ValueKind
	Resource string `mapstructure:"resource"`
}

func (n *ResourceValue) Value(ec Context, slotID string) any {
	if slotID != SlotValue {
		return nil
	}
	if !require(ec, ports.RoleResources) {
		return 0
	}
	r := ec.World().Resources
	switch n.Resource {
	case "money":
		return r.Money()
	case "energy":
		return r.Energy()
	case "blessings":
		return r.Blessings()
	}
	ec.Degrade("unknown resource", "resource", n.Resource)
	return 0
}

// TrustValue reads the trust a contact has in the player.
type TrustValue struct {
	ValueKind
	Contact string `mapstructure:"contact"`
}

func (n *TrustValue) Value(ec Context, slotID string) any {
	if slotID != SlotValue {
		return nil
	}
	if n.Contact == "" {
		ec.Degrade("contact not configured")
		return 0
	}
	if !require(ec, ports.RoleContacts) {
		return 0
	}
	return ec.World().Contacts.Trust(n.Contact)
}

// ChapterValue reads the current story chapter.
type ChapterValue struct {
	ValueKind
}

func (n *ChapterValue) Value(ec Context, slotID string) any {
	if slotID != SlotValue {
		return nil
	}
	if !require(ec, ports.RoleStory) {
		return 0
	}
	return ec.World().Story.Chapter()
}

// ClockValue reads the in-game time: total minutes on "value", the
// time of day as "HH:MM" on "text".
type ClockValue struct {
	ValueKind
}

func (n *ClockValue) Value(ec Context, slotID string) any {
	if slotID != SlotValue && slotID != SlotText {
		return nil
	}
	total := 0
	if require(ec, ports.RoleClock) {
		total = ec.World().Clock.TotalMinutes()
	}
	if slotID == SlotText {
		return schema.FormatClock(total)
	}
	return total
}

// EquippedItem reads the player's equipped item.
type EquippedItem struct {
	ValueKind
}

func (n *EquippedItem) Value(ec Context, slotID string) any {
	if slotID != SlotItem && slotID != SlotName {
		return nil
	}
	var item domain.Item
	if require(ec, ports.RoleInventory) {
		if eq := ec.World().Inventory.Equipped(); eq != nil {
			item = *eq
		}
	}
	if slotID == SlotName {
		return item.Name
	}
	return item
}

func valueDefinitions() []Definition {
	resources := schema.Enum("money", "energy", "blessings")
	return []Definition{
		{
			Type:  "actor",
			Kind:  domain.KindValue,
			Doc:   "A speaker with a display name and avatar.",
			Slots: []domain.SlotPort{slotOut(SlotActor, domain.TypeActor), slotOut(SlotName, domain.TypeString)},
			Properties: []Property{
				{Name: "id", Type: schema.String()},
				{Name: "name", Type: schema.String(), Required: true},
				{Name: "avatar", Type: schema.String()},
			},
			New: func() Behavior { return &ActorValue{} },
		},
		{
			Type:       "text",
			Kind:       domain.KindValue,
			Doc:        "A fixed line of text.",
			Slots:      []domain.SlotPort{slotOut(SlotText, domain.TypeString)},
			Properties: []Property{{Name: "text", Type: schema.String(), Required: true}},
			New:        func() Behavior { return &TextValue{} },
		},
		{
			Type:       "number",
			Kind:       domain.KindValue,
			Slots:      []domain.SlotPort{slotOut(SlotValue, domain.TypeInt)},
			Properties: []Property{{Name: "value", Type: schema.Int(), Default: 0}},
			New:        func() Behavior { return &NumberValue{} },
		},
		{
			Type:       "boolean",
			Kind:       domain.KindValue,
			Slots:      []domain.SlotPort{slotOut(SlotValue, domain.TypeBool)},
			Properties: []Property{{Name: "value", Type: schema.Bool(), Default: false}},
			New:        func() Behavior { return &BooleanValue{} },
		},
		{
			Type:       "flag_value",
			Kind:       domain.KindValue,
			Doc:        "Whether a story flag is set.",
			Slots:      []domain.SlotPort{slotOut(SlotValue, domain.TypeBool)},
			Properties: []Property{{Name: "flag", Type: schema.String(), Required: true}},
			New:        func() Behavior { return &FlagValue{} },
		},
		{
			Type:       "resource_value",
			Kind:       domain.KindValue,
			Doc:        "The current balance of one currency.",
			Slots:      []domain.SlotPort{slotOut(SlotValue, domain.TypeInt)},
			Properties: []Property{{Name: "resource", Type: resources, Required: true}},
			New:        func() Behavior { return &ResourceValue{} },
		},
		{
			Type:       "trust_value",
			Kind:       domain.KindValue,
			Slots:      []domain.SlotPort{slotOut(SlotValue, domain.TypeInt)},
			Properties: []Property{{Name: "contact", Type: schema.String(), Required: true}},
			New:        func() Behavior { return &TrustValue{} },
		},
		{
			Type:  "chapter_value",
			Kind:  domain.KindValue,
			Slots: []domain.SlotPort{slotOut(SlotValue, domain.TypeInt)},
			New:   func() Behavior { return &ChapterValue{} },
		},
		{
			Type:  "clock_value",
			Kind:  domain.KindValue,
			Doc:   "The in-game time as total minutes and as HH:MM.",
			Slots: []domain.SlotPort{slotOut(SlotValue, domain.TypeInt), slotOut(SlotText, domain.TypeString)},
			New:   func() Behavior { return &ClockValue{} },
		},
		{
			Type:  "equipped_item",
			Kind:  domain.KindValue,
			Slots: []domain.SlotPort{slotOut(SlotItem, domain.TypeItem), slotOut(SlotName, domain.TypeString)},
			New:   func() Behavior { return &EquippedItem{} },
		},
	}
}
