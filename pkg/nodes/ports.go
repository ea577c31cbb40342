package nodes

import "github.com/aretw0/colloquy/pkg/domain"

// Port ids used by the standard catalog.
const (
	PortTrue      = "true"
	PortFalse     = "false"
	PortSuccess   = "success"
	PortFailure   = "failure"
	PortOpen      = "open"
	PortExpired   = "expired"
	PortDelivered = "delivered"
	PortMissing   = "missing"
	PortAccepted  = "accepted"
	PortRefused   = "refused"
	PortContinue  = "continue"

	SlotValue  = "value"
	SlotText   = "text"
	SlotActor  = "actor"
	SlotItem   = "item"
	SlotName   = "name"
	SlotPrompt = "prompt"
)

func flowIn() domain.FlowPort {
	return domain.FlowPort{ID: domain.PortIn, Direction: domain.In, Capacity: domain.Many}
}

func flowOut(id string) domain.FlowPort {
	return domain.FlowPort{ID: id, Direction: domain.Out, Capacity: domain.One}
}

// hybridFlow declares the input plus the named outgoing ports.
func hybridFlow(outs ...string) []domain.FlowPort {
	flow := []domain.FlowPort{flowIn()}
	for _, o := range outs {
		flow = append(flow, flowOut(o))
	}
	return flow
}

func slotIn(id string, t domain.ValueType) domain.SlotPort {
	return domain.SlotPort{ID: id, Type: t, Direction: domain.In, Capacity: domain.One}
}

func slotOut(id string, t domain.ValueType) domain.SlotPort {
	return domain.SlotPort{ID: id, Type: t, Direction: domain.Out, Capacity: domain.Many}
}

func resultSlot(t domain.ValueType) domain.SlotPort {
	return slotOut(domain.PortResult, t)
}

func boolPort(b bool) string {
	if b {
		return PortTrue
	}
	return PortFalse
}
