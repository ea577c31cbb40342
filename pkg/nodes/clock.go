package nodes

import (
	"github.com/aretw0/colloquy/pkg/domain"
	"github.com/aretw0/colloquy/pkg/ports"
	"github.com/aretw0/colloquy/pkg/schema"
)

// threshold converts a day index and a time of day into total elapsed minutes.
func threshold(day int, at ClockTime) int {
	return day*MinutesPerDay + int(at)
}

// now reads the clock, degrading to zero when no clock is installed.
func now(ec Context) (int, bool) {
	if !require(ec, ports.RoleClock) {
		return 0, false
	}
	return ec.World().Clock.TotalMinutes(), true
}

// TimeAfter branches on whether the in-game time has reached a threshold.
type TimeAfter struct {
	HybridKind
	Day int       `mapstructure:"day"`
	At  ClockTime `mapstructure:"at"`
}

func (n *TimeAfter) Process(ec Context) Outcome {
	t, ok := now(ec)
	after := ok && t >= threshold(n.Day, n.At)
	return Branch(after, boolPort(after))
}

// TimeLimit routes to "expired" once the in-game time reaches the limit and to
// "open" before it. The comparison is on total minutes, so 10:05 is past a
// 09:30 limit even though 05 < 30.
type TimeLimit struct {
	HybridKind
	Day   int       `mapstructure:"day"`
	Until ClockTime `mapstructure:"until"`
}

func (n *TimeLimit) Process(ec Context) Outcome {
	t, ok := now(ec)
	if !ok {
		return Branch(false, PortOpen)
	}
	if t >= threshold(n.Day, n.Until) {
		return Branch(true, PortExpired)
	}
	return Branch(false, PortOpen)
}

// TimeWindow branches on whether the time of day lies within a window,
// which may wrap past midnight.
type TimeWindow struct {
	HybridKind
	Start          ClockTime `mapstructure:"start"`
	End            ClockTime `mapstructure:"end"`
	InclusiveStart bool      `mapstructure:"inclusive_start"`
	InclusiveEnd   bool      `mapstructure:"inclusive_end"`
}

func (n *TimeWindow) Process(ec Context) Outcome {
	t, ok := now(ec)
	in := ok && InWindow(TimeOfDay(t), int(n.Start), int(n.End), n.InclusiveStart, n.InclusiveEnd)
	return Branch(in, boolPort(in))
}

func clockDefinitions() []Definition {
	return []Definition{
		{
			Type:  "time_after",
			Kind:  domain.KindHybrid,
			Flow:  hybridFlow(PortTrue, PortFalse),
			Slots: []domain.SlotPort{resultSlot(domain.TypeBool)},
			Properties: []Property{
				{Name: "day", Type: schema.Int(), Default: 0, Doc: "Zero-based day index."},
				{Name: "at", Type: schema.Clock(), Required: true},
			},
			New: func() Behavior { return &TimeAfter{} },
		},
		{
			Type:  "time_limit",
			Kind:  domain.KindHybrid,
			Doc:   "Routes to expired once the deadline has passed.",
			Flow:  hybridFlow(PortOpen, PortExpired),
			Slots: []domain.SlotPort{resultSlot(domain.TypeBool)},
			Properties: []Property{
				{Name: "day", Type: schema.Int(), Default: 0},
				{Name: "until", Type: schema.Clock(), Required: true},
			},
			New: func() Behavior { return &TimeLimit{} },
		},
		{
			Type:  "time_window",
			Kind:  domain.KindHybrid,
			Doc:   "Whether the time of day lies between start and end.",
			Flow:  hybridFlow(PortTrue, PortFalse),
			Slots: []domain.SlotPort{resultSlot(domain.TypeBool)},
			Properties: []Property{
				{Name: "start", Type: schema.Clock(), Required: true},
				{Name: "end", Type: schema.Clock(), Required: true},
				{Name: "inclusive_start", Type: schema.Bool(), Default: true},
				{Name: "inclusive_end", Type: schema.Bool(), Default: false},
			},
			New: func() Behavior { return &TimeWindow{} },
		},
	}
}
