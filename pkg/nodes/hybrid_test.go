package nodes_test

import (
	"testing"

	"github.com/aretw0/colloquy/pkg/adapters/memory"
	"github.com/aretw0/colloquy/pkg/domain"
	"github.com/aretw0/colloquy/pkg/nodes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHybrid_Branches(t *testing.T) {
	seed := func() *memory.World {
		w := memory.NewWorld()
		w.Flags.SetFlag("met_ana", true)
		w.Inventory.AddItem(domain.Item{ID: "tea", Name: "Tea"}, 2)
		w.Resources.AddMoney(10)
		w.Resources.AddEnergy(1)
		w.Contacts.AddTrust("ana", 5)
		w.Story.AdvanceChapter(2) // chapter 3
		w.Clock.Set(nodes.MinutesPerDay + 10*60 + 5)
		return w
	}

	tests := []struct {
		name     string
		typ      string
		cfg      map[string]any
		wantPort string
		want     any
	}{
		{"start", "start", nil, domain.PortNext, true},
		{"check_flag set", "check_flag", map[string]any{"flag": "met_ana"}, nodes.PortTrue, true},
		{"check_flag unset", "check_flag", map[string]any{"flag": "met_bo"}, nodes.PortFalse, false},
		{"has_item enough", "has_item", map[string]any{"item": "tea", "count": 2}, nodes.PortTrue, true},
		{"has_item short", "has_item", map[string]any{"item": "tea", "count": 3}, nodes.PortFalse, false},
		{"consume_item", "consume_item", map[string]any{"item": "tea"}, nodes.PortSuccess, true},
		{"consume_item short", "consume_item", map[string]any{"item": "rice"}, nodes.PortFailure, false},
		{"spend money", "spend_resource", map[string]any{"resource": "money", "amount": 10}, nodes.PortSuccess, true},
		{"spend energy short", "spend_resource", map[string]any{"resource": "energy", "amount": 2}, nodes.PortFailure, false},
		{"add blessings", "add_resource", map[string]any{"resource": "blessings", "amount": 2}, domain.PortNext, 2},
		{"check_chapter gte", "check_chapter", map[string]any{"chapter": 3}, nodes.PortTrue, true},
		{"check_chapter lt", "check_chapter", map[string]any{"chapter": 3, "op": "lt"}, nodes.PortFalse, false},
		{"advance_chapter", "advance_chapter", nil, domain.PortNext, 4},
		{"check_trust", "check_trust", map[string]any{"contact": "ana", "value": 5}, nodes.PortTrue, true},
		{"check_trust gt", "check_trust", map[string]any{"contact": "ana", "value": 5, "op": "gt"}, nodes.PortFalse, false},
		{"add_trust", "add_trust", map[string]any{"contact": "ana", "delta": -2}, domain.PortNext, 3},
		{"time_after same day", "time_after", map[string]any{"day": 1, "at": "10:05"}, nodes.PortTrue, true},
		{"time_after next day", "time_after", map[string]any{"day": 2, "at": "00:00"}, nodes.PortFalse, false},
		{"time_limit open", "time_limit", map[string]any{"day": 1, "until": "10:30"}, nodes.PortOpen, false},
		{"time_limit expired across hour", "time_limit", map[string]any{"day": 1, "until": "09:30"}, nodes.PortExpired, true},
		{"time_window day", "time_window", map[string]any{"start": "09:00", "end": "17:00"}, nodes.PortTrue, true},
		{"time_window night", "time_window", map[string]any{"start": "22:00", "end": "06:00"}, nodes.PortFalse, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, ec := process(t, tt.typ, tt.cfg, seed())
			assert.Equal(t, tt.wantPort, out.Port)
			assert.Equal(t, tt.want, out.Result)
			assert.Empty(t, ec.degraded)
		})
	}
}

func TestHybrid_MissingCollaborator(t *testing.T) {
	tests := []struct {
		typ      string
		cfg      map[string]any
		wantPort string
	}{
		{"set_flag", map[string]any{"flag": "x"}, domain.PortNext},
		{"check_flag", map[string]any{"flag": "x"}, nodes.PortFalse},
		{"has_item", map[string]any{"item": "tea"}, nodes.PortFalse},
		{"consume_item", map[string]any{"item": "tea"}, nodes.PortFailure},
		{"add_item", map[string]any{"item": "tea"}, domain.PortNext},
		{"spend_resource", map[string]any{"resource": "money", "amount": 1}, nodes.PortFailure},
		{"add_resource", map[string]any{"resource": "money", "amount": 1}, domain.PortNext},
		{"time_after", map[string]any{"at": "00:00"}, nodes.PortFalse},
		{"time_limit", map[string]any{"until": "00:00"}, nodes.PortOpen},
		{"time_window", map[string]any{"start": "00:00", "end": "23:59"}, nodes.PortFalse},
		{"check_chapter", map[string]any{"chapter": 0}, nodes.PortFalse},
		{"advance_chapter", nil, domain.PortNext},
		{"check_trust", map[string]any{"contact": "ana"}, nodes.PortFalse},
		{"add_trust", map[string]any{"contact": "ana"}, domain.PortNext},
		{"errand_state", map[string]any{"errand": "E1"}, string(domain.ErrandNotStarted)},
		{"give_errand", map[string]any{"errand": "E1", "title": "t"}, domain.PortNext},
		{"deliver_errand", map[string]any{"errand": "E1"}, nodes.PortMissing},
		{"journal", map[string]any{"text": "hello"}, domain.PortNext},
		{"gift", map[string]any{"contact": "ana", "item": "tea"}, nodes.PortRefused},
	}

	for _, tt := range tests {
		t.Run(tt.typ, func(t *testing.T) {
			out, ec := process(t, tt.typ, tt.cfg, nil)
			assert.Equal(t, tt.wantPort, out.Port)
			require.NotEmpty(t, ec.degraded)
			assert.Equal(t, "missing collaborator", ec.degraded[0])
		})
	}
}

func TestHybrid_MissingConfiguration(t *testing.T) {
	out, ec := process(t, "check_flag", nil, memory.NewWorld())
	assert.Equal(t, nodes.PortFalse, out.Port)
	assert.Equal(t, []string{"flag name not configured"}, ec.degraded)

	out, ec = process(t, "errand_state", nil, memory.NewWorld())
	assert.Equal(t, string(domain.ErrandNotStarted), out.Port)
	assert.NotEmpty(t, ec.degraded)
}

func TestSetFlag(t *testing.T) {
	w := memory.NewWorld()
	out, _ := process(t, "set_flag", map[string]any{"flag": "met_ana"}, w)
	assert.Equal(t, domain.PortNext, out.Port)
	assert.True(t, w.Flags.HasFlag("met_ana"))

	process(t, "set_flag", map[string]any{"flag": "met_ana", "value": false}, w)
	assert.False(t, w.Flags.HasFlag("met_ana"))
}

func TestErrandState_RoutesToExactlyOne(t *testing.T) {
	branches := []string{
		string(domain.ErrandNotStarted),
		string(domain.ErrandActive),
		string(domain.ErrandCompleted),
	}
	tests := []struct {
		name      string
		completed bool
		active    bool
		want      domain.ErrandStatus
	}{
		{"neither", false, false, domain.ErrandNotStarted},
		{"active", false, true, domain.ErrandActive},
		{"completed", true, false, domain.ErrandCompleted},
		{"both resolves to completed", true, true, domain.ErrandCompleted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := memory.NewWorld()
			if tt.completed {
				w.Errands.Complete("E1")
			}
			if tt.active {
				w.Errands.AddErrand(domain.ErrandDefinition{ID: "E1"})
			}
			out, _ := process(t, "errand_state", map[string]any{"errand": "E1"}, w)
			assert.Equal(t, string(tt.want), out.Port)
			assert.Equal(t, string(tt.want), out.Result)

			hits := 0
			for _, b := range branches {
				if out.Port == b {
					hits++
				}
			}
			assert.Equal(t, 1, hits)
		})
	}
}

func TestGiveErrand(t *testing.T) {
	w := memory.NewWorld()
	cfg := map[string]any{"errand": "E1", "title": "Fetch water", "deadline_day": 1, "deadline": "18:00"}

	out, _ := process(t, "give_errand", cfg, w)
	assert.Equal(t, true, out.Result)
	def, ok := w.Errands.Active("E1")
	require.True(t, ok)
	assert.Equal(t, nodes.MinutesPerDay+18*60, def.Deadline)

	out, _ = process(t, "give_errand", cfg, w)
	assert.Equal(t, false, out.Result, "already active")
}

func TestDeliverErrand(t *testing.T) {
	cfg := map[string]any{
		"errand": "E1", "item": "water", "money": 10, "blessings": 7,
		"deadline": "18:00",
	}
	newWorld := func(now int) *memory.World {
		w := memory.NewWorld()
		w.Errands.AddErrand(domain.ErrandDefinition{ID: "E1"})
		w.Inventory.AddItem(domain.Item{ID: "water"}, 1)
		w.Clock.Set(now)
		return w
	}

	t.Run("On Time", func(t *testing.T) {
		w := newWorld(17 * 60)
		out, _ := process(t, "deliver_errand", cfg, w)
		assert.Equal(t, nodes.PortDelivered, out.Port)
		assert.Equal(t, domain.Delivery{Money: 10, Blessings: 7}, out.Result)
		assert.Equal(t, 7, w.Resources.Blessings())
		assert.True(t, w.Errands.IsCompleted("E1"))
		assert.Equal(t, 0, w.Inventory.Count("water"))
	})

	t.Run("Late Halves Blessings", func(t *testing.T) {
		w := newWorld(19 * 60)
		out, _ := process(t, "deliver_errand", cfg, w)
		assert.Equal(t, nodes.PortDelivered, out.Port)
		assert.Equal(t, domain.Delivery{Late: true, Money: 10, Blessings: 3}, out.Result)
		assert.Equal(t, 10, w.Resources.Money())
		assert.Equal(t, 3, w.Resources.Blessings())
	})

	t.Run("Missing Item", func(t *testing.T) {
		w := newWorld(0)
		w.Inventory.ConsumeItem("water", 1)
		out, _ := process(t, "deliver_errand", cfg, w)
		assert.Equal(t, nodes.PortMissing, out.Port)
		assert.True(t, w.Errands.HasActive("E1"))
		assert.Equal(t, 0, w.Resources.Money())
	})

	t.Run("Not Active", func(t *testing.T) {
		w := memory.NewWorld()
		out, _ := process(t, "deliver_errand", cfg, w)
		assert.Equal(t, nodes.PortMissing, out.Port)
	})

	t.Run("No Clock Is On Time", func(t *testing.T) {
		w := newWorld(23 * 60)
		n, b := build(t, "deliver_errand", cfg)
		ec := newContext(n, w)
		ec.world.Clock = nil
		out := b.(nodes.Hybrid).Process(ec)
		assert.Equal(t, domain.Delivery{Money: 10, Blessings: 7}, out.Result)
		assert.Contains(t, ec.degraded, "missing collaborator")
	})
}

func TestAddItem_FromSlot(t *testing.T) {
	w := memory.NewWorld()
	n, b := build(t, "add_item", map[string]any{"item": "rice", "count": 2})
	ec := newContext(n, w)
	ec.slots[nodes.SlotItem] = domain.Item{ID: "tea", Name: "Tea"}

	out := b.(nodes.Hybrid).Process(ec)
	assert.Equal(t, 2, out.Result)
	assert.Equal(t, 2, w.Inventory.Count("tea"))
	assert.Equal(t, 0, w.Inventory.Count("rice"))
}

func TestGift(t *testing.T) {
	newWorld := func() *memory.World {
		w := memory.NewWorld()
		w.Inventory.AddItem(domain.Item{ID: "tea", Giftable: true}, 1)
		w.Gifting.Prefer("ana", "tea", 2)
		return w
	}

	t.Run("Accepted", func(t *testing.T) {
		w := newWorld()
		out, _ := process(t, "gift", map[string]any{"contact": "ana", "item": "tea"}, w)
		assert.Equal(t, nodes.PortAccepted, out.Port)
		assert.Equal(t, 2, out.Result)
		assert.Equal(t, 2, w.Contacts.Trust("ana"))
		assert.Equal(t, 0, w.Inventory.Count("tea"))
	})

	t.Run("Refused Keeps Item", func(t *testing.T) {
		w := newWorld()
		out, _ := process(t, "gift", map[string]any{"contact": "bo", "item": "tea"}, w)
		assert.Equal(t, nodes.PortRefused, out.Port)
		assert.Equal(t, 1, w.Inventory.Count("tea"))
	})

	t.Run("Not Held", func(t *testing.T) {
		w := memory.NewWorld()
		w.Gifting.Prefer("ana", "tea", 2)
		out, _ := process(t, "gift", map[string]any{"contact": "ana", "item": "tea"}, w)
		assert.Equal(t, nodes.PortRefused, out.Port)
	})

	t.Run("Equipped Item Not Giftable", func(t *testing.T) {
		w := newWorld()
		n, b := build(t, "gift", map[string]any{"contact": "ana"})
		ec := newContext(n, w)
		ec.slots[nodes.SlotItem] = domain.Item{ID: "tea", Giftable: false}
		out := b.(nodes.Hybrid).Process(ec)
		assert.Equal(t, nodes.PortRefused, out.Port)
	})
}

func TestJournal(t *testing.T) {
	w := memory.NewWorld()
	n, b := build(t, "journal", map[string]any{"text": "configured"})
	ec := newContext(n, w)
	ec.slots[nodes.SlotText] = "from slot"
	b.(nodes.Hybrid).Process(ec)
	assert.Equal(t, []string{"from slot"}, w.Journal.Entries())

	out, ec := process(t, "journal", nil, w)
	assert.Equal(t, false, out.Result)
	assert.Equal(t, []string{"journal text is empty"}, ec.degraded)
}
