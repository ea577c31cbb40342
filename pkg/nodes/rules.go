package nodes

import "github.com/aretw0/colloquy/pkg/domain"

// MinutesPerDay is the length of an in-game day.
const MinutesPerDay = 24 * 60

// InWindow reports whether now lies in the time-of-day window [start, end],
// with each bound's inclusivity set independently. All values are minutes
// since midnight. When start > end the window wraps past midnight.
func InWindow(now, start, end int, inclusiveStart, inclusiveEnd bool) bool {
	afterStart := now > start || (inclusiveStart && now == start)
	beforeEnd := now < end || (inclusiveEnd && now == end)
	if start > end {
		return afterStart || beforeEnd
	}
	return afterStart && beforeEnd
}

// TimeOfDay reduces total elapsed minutes to minutes since midnight.
func TimeOfDay(total int) int {
	return ((total % MinutesPerDay) + MinutesPerDay) % MinutesPerDay
}

// ClassifyErrand resolves an errand's status. Completed wins over active.
func ClassifyErrand(completed, active bool) domain.ErrandStatus {
	switch {
	case completed:
		return domain.ErrandCompleted
	case active:
		return domain.ErrandActive
	default:
		return domain.ErrandNotStarted
	}
}

// Reward computes what a delivery pays. Late deliveries earn half the
// blessings, rounded down; money is unaffected.
func Reward(money, blessings int, late bool) domain.Delivery {
	if late {
		blessings /= 2
	}
	return domain.Delivery{Late: late, Money: money, Blessings: blessings}
}

// Comparison operators accepted by check_* nodes.
var operators = []string{"eq", "ne", "gt", "gte", "lt", "lte"}

// Compare applies op to a and b. Unknown operators compare false.
func Compare(op string, a, b int) bool {
	switch op {
	case "eq":
		return a == b
	case "ne":
		return a != b
	case "gt":
		return a > b
	case "gte":
		return a >= b
	case "lt":
		return a < b
	case "lte":
		return a <= b
	}
	return false
}
