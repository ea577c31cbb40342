package nodes_test

import (
	"testing"

	"github.com/aretw0/colloquy/pkg/domain"
	"github.com/aretw0/colloquy/pkg/nodes"
	"github.com/stretchr/testify/assert"
)

func TestInWindow(t *testing.T) {
	const (
		h22 = 22 * 60
		h06 = 6 * 60
	)
	tests := []struct {
		name           string
		now            int
		start, end     int
		incStart, incE bool
		want           bool
	}{
		{"wrap late evening", 23 * 60, h22, h06, true, false, true},
		{"wrap just before end", 5*60 + 59, h22, h06, true, false, true},
		{"wrap exclusive end", h06, h22, h06, true, false, false},
		{"wrap midday", 12 * 60, h22, h06, true, false, false},
		{"wrap inclusive start", h22, h22, h06, true, false, true},
		{"wrap exclusive start", h22, h22, h06, false, false, false},
		{"wrap inclusive end", h06, h22, h06, true, true, true},
		{"normal inside", 10 * 60, 9 * 60, 17 * 60, true, true, true},
		{"normal before", 8 * 60, 9 * 60, 17 * 60, true, true, false},
		{"normal after", 18 * 60, 9 * 60, 17 * 60, true, true, false},
		{"normal exclusive end", 17 * 60, 9 * 60, 17 * 60, true, false, false},
		{"empty window", 9 * 60, 9 * 60, 9 * 60, true, false, false},
		{"point window", 9 * 60, 9 * 60, 9 * 60, true, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, nodes.InWindow(tt.now, tt.start, tt.end, tt.incStart, tt.incE))
		})
	}
}

func TestTimeOfDay(t *testing.T) {
	assert.Equal(t, 23*60, nodes.TimeOfDay(2*nodes.MinutesPerDay+23*60))
	assert.Equal(t, 0, nodes.TimeOfDay(nodes.MinutesPerDay))
}

func TestClassifyErrand(t *testing.T) {
	assert.Equal(t, domain.ErrandCompleted, nodes.ClassifyErrand(true, true), "completed beats active")
	assert.Equal(t, domain.ErrandCompleted, nodes.ClassifyErrand(true, false))
	assert.Equal(t, domain.ErrandActive, nodes.ClassifyErrand(false, true))
	assert.Equal(t, domain.ErrandNotStarted, nodes.ClassifyErrand(false, false))
}

func TestReward(t *testing.T) {
	assert.Equal(t, domain.Delivery{Late: true, Money: 10, Blessings: 3}, nodes.Reward(10, 7, true))
	assert.Equal(t, domain.Delivery{Late: false, Money: 10, Blessings: 7}, nodes.Reward(10, 7, false))
	assert.Equal(t, 0, nodes.Reward(0, 1, true).Blessings)
}

func TestCompare(t *testing.T) {
	tests := []struct {
		op   string
		a, b int
		want bool
	}{
		{"eq", 2, 2, true},
		{"ne", 2, 2, false},
		{"gt", 3, 2, true},
		{"gte", 2, 2, true},
		{"lt", 2, 2, false},
		{"lte", 1, 2, true},
		{"between", 1, 2, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, nodes.Compare(tt.op, tt.a, tt.b), "%d %s %d", tt.a, tt.op, tt.b)
	}
}
