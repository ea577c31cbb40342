package nodes

import (
	"github.com/aretw0/colloquy/pkg/domain"
	"github.com/aretw0/colloquy/pkg/ports"
	"github.com/aretw0/colloquy/pkg/schema"
)

// ErrandState routes to exactly one of not_started, active or completed.
type ErrandState struct {
	HybridKind
	Errand string `mapstructure:"errand"`
}

func (n *ErrandState) Process(ec Context) Outcome {
	status := domain.ErrandNotStarted
	switch {
	case n.Errand == "":
		ec.Degrade("errand not configured")
	case require(ec, ports.RoleErrands):
		e := ec.World().Errands
		status = ClassifyErrand(e.IsCompleted(n.Errand), e.HasActive(n.Errand))
	}
	return Branch(string(status), string(status))
}

// GiveErrand hands an errand to the player unless it is already active or done.
type GiveErrand struct {
	HybridKind
	Errand      string    `mapstructure:"errand"`
	Title       string    `mapstructure:"title"`
	Description string    `mapstructure:"description"`
	Giver       string    `mapstructure:"giver"`
	DeadlineDay int       `mapstructure:"deadline_day"`
	Deadline    ClockTime `mapstructure:"deadline"`
}

func (n *GiveErrand) Process(ec Context) Outcome {
	if n.Errand == "" {
		ec.Degrade("errand not configured")
		return Next(false)
	}
	if !require(ec, ports.RoleErrands) {
		return Next(false)
	}
	e := ec.World().Errands
	if e.HasActive(n.Errand) || e.IsCompleted(n.Errand) {
		return Next(false)
	}
	def := domain.ErrandDefinition{
		ID:          n.Errand,
		Title:       n.Title,
		Description: n.Description,
		Giver:       n.Giver,
	}
	if n.Deadline > 0 || n.DeadlineDay > 0 {
		def.Deadline = threshold(n.DeadlineDay, n.Deadline)
	}
	e.AddErrand(def)
	return Next(true)
}

// DeliverErrand turns in an active errand: it takes the deliverable, pays the
// reward and completes the errand. Deliveries after the deadline earn half
// the blessings.
type DeliverErrand struct {
	HybridKind
	Errand      string    `mapstructure:"errand"`
	Item        string    `mapstructure:"item"`
	Count       int       `mapstructure:"count"`
	Money       int       `mapstructure:"money"`
	Blessings   int       `mapstructure:"blessings"`
	DeadlineDay int       `mapstructure:"deadline_day"`
	Deadline    ClockTime `mapstructure:"deadline"`
}

func (n *DeliverErrand) Process(ec Context) Outcome {
	missing := Branch(domain.Delivery{}, PortMissing)
	if n.Errand == "" {
		ec.Degrade("errand not configured")
		return missing
	}
	if !require(ec, ports.RoleErrands) {
		return missing
	}
	w := ec.World()
	if !w.Errands.HasActive(n.Errand) {
		return missing
	}
	if n.Item != "" {
		if !require(ec, ports.RoleInventory) || !w.Inventory.ConsumeItem(n.Item, n.Count) {
			return missing
		}
	}

	late := false
	if n.Deadline > 0 || n.DeadlineDay > 0 {
		if t, ok := now(ec); ok {
			late = t > threshold(n.DeadlineDay, n.Deadline)
		}
	}
	reward := Reward(n.Money, n.Blessings, late)
	if require(ec, ports.RoleResources) {
		w.Resources.AddMoney(reward.Money)
		w.Resources.AddBlessings(reward.Blessings)
	}
	w.Errands.Complete(n.Errand)
	return Branch(reward, PortDelivered)
}

func errandDefinitions() []Definition {
	errand := Property{Name: "errand", Type: schema.String(), Required: true}
	return []Definition{
		{
			Type: "errand_state",
			Kind: domain.KindHybrid,
			Doc:  "Branches on an errand's status: completed, then active, then not started.",
			Flow: hybridFlow(
				string(domain.ErrandNotStarted),
				string(domain.ErrandActive),
				string(domain.ErrandCompleted),
			),
			Slots:      []domain.SlotPort{resultSlot(domain.TypeString)},
			Properties: []Property{errand},
			New:        func() Behavior { return &ErrandState{} },
		},
		{
			Type:  "give_errand",
			Kind:  domain.KindHybrid,
			Flow:  hybridFlow(domain.PortNext),
			Slots: []domain.SlotPort{resultSlot(domain.TypeBool)},
			Properties: []Property{
				errand,
				{Name: "title", Type: schema.String(), Required: true},
				{Name: "description", Type: schema.String()},
				{Name: "giver", Type: schema.String()},
				{Name: "deadline_day", Type: schema.Int()},
				{Name: "deadline", Type: schema.Clock()},
			},
			New: func() Behavior { return &GiveErrand{} },
		},
		{
			Type:  "deliver_errand",
			Kind:  domain.KindHybrid,
			Doc:   "Turns in an errand. Late deliveries earn half the blessings.",
			Flow:  hybridFlow(PortDelivered, PortMissing),
			Slots: []domain.SlotPort{resultSlot(domain.TypeAny)},
			Properties: []Property{
				errand,
				{Name: "item", Type: schema.String()},
				{Name: "count", Type: schema.Int(), Default: 1},
				{Name: "money", Type: schema.Int(), Default: 0},
				{Name: "blessings", Type: schema.Int(), Default: 0},
				{Name: "deadline_day", Type: schema.Int()},
				{Name: "deadline", Type: schema.Clock()},
			},
			New: func() Behavior { return &DeliverErrand{} },
		},
	}
}
