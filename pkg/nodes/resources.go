package nodes

import (
	"github.com/aretw0/colloquy/pkg/domain"
	"github.com/aretw0/colloquy/pkg/ports"
	"github.com/aretw0/colloquy/pkg/schema"
)

// SpendResource pays money or energy. Nothing is spent when the balance is short.
type SpendResource struct {
	HybridKind
	Resource string `mapstructure:"resource"`
	Amount   int    `mapstructure:"amount"`
}

func (n *SpendResource) Process(ec Context) Outcome {
	if n.Amount < 0 {
		ec.Degrade("amount must not be negative", "amount", n.Amount)
		return Branch(false, PortFailure)
	}
	if !require(ec, ports.RoleResources) {
		return Branch(false, PortFailure)
	}
	r := ec.World().Resources
	var ok bool
	switch n.Resource {
	case "money":
		ok = r.SpendMoney(n.Amount)
	case "energy":
		ok = r.SpendEnergy(n.Amount)
	default:
		ec.Degrade("unknown resource", "resource", n.Resource)
	}
	if ok {
		return Branch(true, PortSuccess)
	}
	return Branch(false, PortFailure)
}

// AddResource grants money, energy or blessings.
type AddResource struct {
	HybridKind
	Resource string `mapstructure:"resource"`
	Amount   int    `mapstructure:"amount"`
}

func (n *AddResource) Process(ec Context) Outcome {
	if !require(ec, ports.RoleResources) {
		return Next(0)
	}
	r := ec.World().Resources
	switch n.Resource {
	case "money":
		r.AddMoney(n.Amount)
		return Next(r.Money())
	case "energy":
		r.AddEnergy(n.Amount)
		return Next(r.Energy())
	case "blessings":
		r.AddBlessings(n.Amount)
		return Next(r.Blessings())
	}
	ec.Degrade("unknown resource", "resource", n.Resource)
	return Next(0)
}

func resourceDefinitions() []Definition {
	return []Definition{
		{
			Type:  "spend_resource",
			Kind:  domain.KindHybrid,
			Flow:  hybridFlow(PortSuccess, PortFailure),
			Slots: []domain.SlotPort{resultSlot(domain.TypeBool)},
			Properties: []Property{
				{Name: "resource", Type: schema.Enum("money", "energy"), Required: true},
				{Name: "amount", Type: schema.Int(), Required: true},
			},
			New: func() Behavior { return &SpendResource{} },
		},
		{
			Type:  "add_resource",
			Kind:  domain.KindHybrid,
			Flow:  hybridFlow(domain.PortNext),
			Slots: []domain.SlotPort{resultSlot(domain.TypeInt)},
			Properties: []Property{
				{Name: "resource", Type: schema.Enum("money", "energy", "blessings"), Required: true},
				{Name: "amount", Type: schema.Int(), Required: true},
			},
			New: func() Behavior { return &AddResource{} },
		},
	}
}
