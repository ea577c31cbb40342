package nodes

import (
	"github.com/aretw0/colloquy/pkg/domain"
	"github.com/aretw0/colloquy/pkg/ports"
	"github.com/aretw0/colloquy/pkg/schema"
)

// itemFromSlot returns the item wired into the "item" slot, if any.
func itemFromSlot(ec Context) (domain.Item, bool) {
	raw, ok := ec.ReadSlot(SlotItem)
	if !ok {
		return domain.Item{}, false
	}
	switch v := raw.(type) {
	case domain.Item:
		return v, v.ID != ""
	case *domain.Item:
		if v != nil {
			return *v, v.ID != ""
		}
	}
	return domain.Item{}, false
}

// HasItem branches on whether the player holds Count of an item.
type HasItem struct {
	HybridKind
	Item  string `mapstructure:"item"`
	Count int    `mapstructure:"count"`
}

func (n *HasItem) Process(ec Context) Outcome {
	has := false
	switch {
	case n.Item == "":
		ec.Degrade("item not configured")
	case require(ec, ports.RoleInventory):
		has = ec.World().Inventory.HasItem(n.Item, n.Count)
	}
	return Branch(has, boolPort(has))
}

// ConsumeItem removes Count of an item, or nothing when the player holds too few.
type ConsumeItem struct {
	HybridKind
	Item  string `mapstructure:"item"`
	Count int    `mapstructure:"count"`
}

func (n *ConsumeItem) Process(ec Context) Outcome {
	ok := false
	switch {
	case n.Item == "":
		ec.Degrade("item not configured")
	case require(ec, ports.RoleInventory):
		ok = ec.World().Inventory.ConsumeItem(n.Item, n.Count)
	}
	if ok {
		return Branch(true, PortSuccess)
	}
	return Branch(false, PortFailure)
}

// AddItem gives the player Count of an item. A wired "item" slot overrides
// the configured one.
type AddItem struct {
	HybridKind
	Item     string `mapstructure:"item"`
	Name     string `mapstructure:"name"`
	Giftable bool   `mapstructure:"giftable"`
	Count    int    `mapstructure:"count"`
}

func (n *AddItem) Process(ec Context) Outcome {
	item, ok := itemFromSlot(ec)
	if !ok {
		item = domain.Item{ID: n.Item, Name: n.Name, Giftable: n.Giftable}
	}
	if item.ID == "" {
		ec.Degrade("item not configured")
		return Next(0)
	}
	if n.Count <= 0 {
		ec.Degrade("item count must be positive", "count", n.Count)
		return Next(0)
	}
	if !require(ec, ports.RoleInventory) {
		return Next(0)
	}
	inv := ec.World().Inventory
	inv.AddItem(item, n.Count)
	return Next(inv.Count(item.ID))
}

// Gift offers an item to a contact. When the contact accepts, the item leaves
// the inventory and the returned trust change is applied.
type Gift struct {
	HybridKind
	Contact string `mapstructure:"contact"`
	Item    string `mapstructure:"item"`
}

func (n *Gift) Process(ec Context) Outcome {
	itemID := n.Item
	if item, ok := itemFromSlot(ec); ok {
		if !item.Giftable {
			return Branch(0, PortRefused)
		}
		itemID = item.ID
	}
	if n.Contact == "" || itemID == "" {
		ec.Degrade("gift needs a contact and an item")
		return Branch(0, PortRefused)
	}
	if !require(ec, ports.RoleGifting) || !require(ec, ports.RoleInventory) {
		return Branch(0, PortRefused)
	}

	w := ec.World()
	if !w.Inventory.HasItem(itemID, 1) {
		return Branch(0, PortRefused)
	}
	delta, accepted := w.Gifting.Gift(n.Contact, itemID)
	if !accepted {
		return Branch(0, PortRefused)
	}
	w.Inventory.ConsumeItem(itemID, 1)
	if require(ec, ports.RoleContacts) {
		w.Contacts.AddTrust(n.Contact, delta)
	}
	return Branch(delta, PortAccepted)
}

func inventoryDefinitions() []Definition {
	itemProps := []Property{
		{Name: "item", Type: schema.String(), Required: true},
		{Name: "count", Type: schema.Int(), Default: 1},
	}
	return []Definition{
		{
			Type:       "has_item",
			Kind:       domain.KindHybrid,
			Flow:       hybridFlow(PortTrue, PortFalse),
			Slots:      []domain.SlotPort{resultSlot(domain.TypeBool)},
			Properties: itemProps,
			New:        func() Behavior { return &HasItem{} },
		},
		{
			Type:       "consume_item",
			Kind:       domain.KindHybrid,
			Flow:       hybridFlow(PortSuccess, PortFailure),
			Slots:      []domain.SlotPort{resultSlot(domain.TypeBool)},
			Properties: itemProps,
			New:        func() Behavior { return &ConsumeItem{} },
		},
		{
			Type:  "add_item",
			Kind:  domain.KindHybrid,
			Flow:  hybridFlow(domain.PortNext),
			Slots: []domain.SlotPort{slotIn(SlotItem, domain.TypeItem), resultSlot(domain.TypeInt)},
			Properties: []Property{
				{Name: "item", Type: schema.String()},
				{Name: "name", Type: schema.String()},
				{Name: "giftable", Type: schema.Bool()},
				{Name: "count", Type: schema.Int(), Default: 1},
			},
			New: func() Behavior { return &AddItem{} },
		},
		{
			Type:  "gift",
			Kind:  domain.KindHybrid,
			Doc:   "Offers an item to a contact in exchange for trust.",
			Flow:  hybridFlow(PortAccepted, PortRefused),
			Slots: []domain.SlotPort{slotIn(SlotItem, domain.TypeItem), resultSlot(domain.TypeInt)},
			Properties: []Property{
				{Name: "contact", Type: schema.String(), Required: true},
				{Name: "item", Type: schema.String()},
			},
			New: func() Behavior { return &Gift{} },
		},
	}
}
