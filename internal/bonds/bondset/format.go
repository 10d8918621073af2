package bondset

import (
	"sort"
	"strconv"
	"strings"
)

// MinRunLength is the shortest run of consecutive numbers rendered as a range.
const MinRunLength = 5

// Run is a maximal sequence of consecutive numbers.
type Run struct {
	Start int64
	End   int64
}

// Len is the number of members in r.
func (r Run) Len() int64 {
	return r.End - r.Start + 1
}

// Compact reports whether r is rendered as "start-end".
func (r Run) Compact() bool {
	return r.End-r.Start >= MinRunLength-1
}

// Runs partitions numbers into maximal runs in ascending order. Duplicates are
// ignored and the input is not modified.
func Runs(numbers []int64) []Run {
	if len(numbers) == 0 {
		return nil
	}
	sorted := append([]int64(nil), numbers...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	runs := []Run{{Start: sorted[0], End: sorted[0]}}
	for _, n := range sorted[1:] {
		last := &runs[len(runs)-1]
		switch {
		case n == last.End:
		case n == last.End+1:
			last.End = n
		default:
			runs = append(runs, Run{Start: n, End: n})
		}
	}
	return runs
}

// Format renders numbers as a comma separated list, collapsing runs of
// MinRunLength or more into "start-end".
func Format(numbers []int64) string {
	var tokens []string
	for _, r := range Runs(numbers) {
		if r.Compact() {
			tokens = append(tokens, strconv.FormatInt(r.Start, 10)+"-"+strconv.FormatInt(r.End, 10))
			continue
		}
		for n := r.Start; ; n++ {
			tokens = append(tokens, strconv.FormatInt(n, 10))
			if n == r.End {
				break
			}
		}
	}
	return strings.Join(tokens, ", ")
}

// Join renders every number individually, separated by sep.
func Join(numbers []int64, sep string) string {
	tokens := make([]string, len(numbers))
	for i, n := range numbers {
		tokens[i] = strconv.FormatInt(n, 10)
	}
	return strings.Join(tokens, sep)
}
