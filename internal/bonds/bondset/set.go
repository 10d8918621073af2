package bondset

import (
	"fmt"
	"sort"
)

// MaxCategoryBonds caps how many numbers one category may hold.
const MaxCategoryBonds = 10 * (MaxRangeSpan + 1)

// Set is an unordered collection of bond numbers.
type Set map[int64]struct{}

func NewSet(numbers ...int64) Set {
	s := make(Set, len(numbers))
	s.Add(numbers...)
	return s
}

func (s Set) Add(numbers ...int64) {
	for _, n := range numbers {
		s[n] = struct{}{}
	}
}

func (s Set) Contains(n int64) bool {
	_, ok := s[n]
	return ok
}

// Sorted returns the members in ascending order.
func (s Set) Sorted() []int64 {
	out := make([]int64, 0, len(s))
	for n := range s {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Canonical returns a sorted, duplicate-free copy of numbers.
func Canonical(numbers []int64) []int64 {
	return NewSet(numbers...).Sorted()
}

// Merge returns the union of existing and added in ascending order.
func Merge(existing, added []int64) []int64 {
	s := NewSet(existing...)
	s.Add(added...)
	return s.Sorted()
}

// Remove returns numbers without n. The input is not modified.
func Remove(numbers []int64, n int64) ([]int64, bool) {
	out := make([]int64, 0, len(numbers))
	found := false
	for _, v := range numbers {
		if v == n {
			found = true
			continue
		}
		out = append(out, v)
	}
	return out, found
}

// Validate checks a set that did not come from Parse, such as numbers a
// client echoes back when editing a registry.
func Validate(numbers []int64) error {
	if len(numbers) > MaxCategoryBonds {
		return newError(ErrTooManyBonds, FieldBonds, fmt.Sprintf("a category holds at most %d bonds", MaxCategoryBonds))
	}
	for _, n := range numbers {
		if n < 1 {
			return newError(ErrInvalidFormat, FieldBonds, "bond numbers must be positive")
		}
	}
	return nil
}
