// Package bondset turns user input into canonical sets of bond serial numbers
// and renders those sets back into compact range notation.
package bondset

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// MaxRangeSpan is the largest allowed end-start of a single range.
const MaxRangeSpan = 1000

var listPattern = regexp.MustCompile(`^\d+(\s*,\s*\d+)*$`)

// Input holds the raw form values for one category.
type Input struct {
	List       string
	RangeStart string
	RangeEnd   string
}

// Range is an inclusive span of bond numbers.
type Range struct {
	Start int64
	End   int64
}

// Parse validates in and returns the canonical set it describes.
func Parse(in Input) ([]int64, error) {
	var numbers []int64

	list := strings.TrimSpace(in.List)
	if list != "" {
		parsed, err := parseList(list)
		if err != nil {
			return nil, err
		}
		numbers = append(numbers, parsed...)
	}

	r, ok, err := parseRange(in.RangeStart, in.RangeEnd)
	if err != nil {
		return nil, err
	}
	if ok {
		numbers = append(numbers, r.Expand()...)
	}

	if len(numbers) == 0 {
		return nil, newError(ErrEmptyResult, FieldBondNumbers, "enter at least one bond number or range")
	}
	return Canonical(numbers), nil
}

func parseList(list string) ([]int64, error) {
	if !listPattern.MatchString(list) {
		return nil, newError(ErrInvalidFormat, FieldBondNumbers, "enter comma-separated numbers")
	}

	tokens := strings.Split(list, ",")
	numbers := make([]int64, 0, len(tokens))
	for _, tok := range tokens {
		n, err := strconv.ParseInt(strings.TrimSpace(tok), 10, 64)
		if err != nil {
			// only reachable on int64 overflow
			continue
		}
		if n < 1 {
			return nil, newError(ErrInvalidFormat, FieldBondNumbers, "bond numbers must be positive")
		}
		numbers = append(numbers, n)
	}
	if len(numbers) == 0 {
		return nil, newError(ErrEmptyResult, FieldBondNumbers, "enter valid numbers")
	}
	return numbers, nil
}

// parseRange reports ok=false when both fields are blank.
func parseRange(startText, endText string) (Range, bool, error) {
	startText, endText = strings.TrimSpace(startText), strings.TrimSpace(endText)
	if startText == "" && endText == "" {
		return Range{}, false, nil
	}
	if startText == "" || endText == "" {
		return Range{}, false, newError(ErrInvalidRange, FieldBondRange, "both range start and end are required")
	}

	start, err := strconv.ParseInt(startText, 10, 64)
	if err != nil {
		return Range{}, false, newError(ErrInvalidRange, FieldBondRange, "enter valid numbers")
	}
	end, err := strconv.ParseInt(endText, 10, 64)
	if err != nil {
		return Range{}, false, newError(ErrInvalidRange, FieldBondRange, "enter valid numbers")
	}

	r := Range{Start: start, End: end}
	if err := r.Validate(); err != nil {
		return Range{}, false, err
	}
	return r, true, nil
}

// Validate checks ordering, positivity and the MaxRangeSpan ceiling.
func (r Range) Validate() error {
	if r.Start > r.End {
		return newError(ErrInvalidRange, FieldBondRange, "start must not exceed end")
	}
	if r.Start < 1 {
		return newError(ErrInvalidRange, FieldBondRange, "bond numbers must be positive")
	}
	// the unsigned difference is exact once Start <= End
	if uint64(r.End)-uint64(r.Start) > MaxRangeSpan {
		return newError(ErrRangeTooLarge, FieldBondRange, fmt.Sprintf("range too large (max %d bonds)", MaxRangeSpan))
	}
	return nil
}

// Expand lists every number in r. r must be valid.
func (r Range) Expand() []int64 {
	out := make([]int64, 0, uint64(r.End)-uint64(r.Start)+1)
	for n := r.Start; ; n++ {
		out = append(out, n)
		if n == r.End {
			break
		}
	}
	return out
}
