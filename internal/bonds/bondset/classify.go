package bondset

import "math"

// Chip is a single bond number tagged for display.
type Chip struct {
	Number  int64 `json:"number"`
	InRange bool  `json:"in_range"`
}

// InRange reports whether target sits in a run of at least MinRunLength
// consecutive members of bonds.
func InRange(target int64, bonds []int64) bool {
	return inRange(target, NewSet(bonds...))
}

func inRange(target int64, s Set) bool {
	count := 1
	for n := target; n > math.MinInt64 && s.Contains(n-1); n-- {
		count++
		if count >= MinRunLength {
			return true
		}
	}
	for n := target; n < math.MaxInt64 && s.Contains(n+1); n++ {
		count++
		if count >= MinRunLength {
			return true
		}
	}
	return false
}

// Chips classifies every member of bonds, in ascending order.
func Chips(bonds []int64) []Chip {
	s := NewSet(bonds...)
	sorted := s.Sorted()
	chips := make([]Chip, len(sorted))
	for i, n := range sorted {
		chips[i] = Chip{Number: n, InRange: inRange(n, s)}
	}
	return chips
}
