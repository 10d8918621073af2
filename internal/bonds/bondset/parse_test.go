package bondset

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_List(t *testing.T) {
	got, err := Parse(Input{List: " 101, 103 ,102 "})
	require.NoError(t, err)
	assert.Equal(t, []int64{101, 102, 103}, got)
}

func TestParse_SingleNumber(t *testing.T) {
	got, err := Parse(Input{List: "42"})
	require.NoError(t, err)
	assert.Equal(t, []int64{42}, got)
}

func TestParse_Dedup(t *testing.T) {
	got, err := Parse(Input{List: "5,5,5,6"})
	require.NoError(t, err)
	assert.Equal(t, []int64{5, 6}, got)
}

func TestParse_Range(t *testing.T) {
	got, err := Parse(Input{RangeStart: "10", RangeEnd: "14"})
	require.NoError(t, err)
	assert.Equal(t, []int64{10, 11, 12, 13, 14}, got)
}

func TestParse_SingleElementRange(t *testing.T) {
	got, err := Parse(Input{RangeStart: "7", RangeEnd: "7"})
	require.NoError(t, err)
	assert.Equal(t, []int64{7}, got)
}

func TestParse_MaxRange(t *testing.T) {
	got, err := Parse(Input{RangeStart: "1", RangeEnd: "1001"})
	require.NoError(t, err)
	assert.Len(t, got, 1001)
	assert.Equal(t, int64(1), got[0])
	assert.Equal(t, int64(1001), got[1000])
}

func TestParse_MixedInput(t *testing.T) {
	got, err := Parse(Input{List: "1,3", RangeStart: "10", RangeEnd: "12"})
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 3, 10, 11, 12}, got)
}

func TestParse_OverlappingListAndRange(t *testing.T) {
	got, err := Parse(Input{List: "12, 11, 30", RangeStart: "10", RangeEnd: "12"})
	require.NoError(t, err)
	assert.Equal(t, []int64{10, 11, 12, 30}, got)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name  string
		in    Input
		kind  error
		field string
	}{
		{"double comma", Input{List: "1,,2"}, ErrInvalidFormat, FieldBondNumbers},
		{"trailing comma", Input{List: "1,2,"}, ErrInvalidFormat, FieldBondNumbers},
		{"leading comma", Input{List: ",1"}, ErrInvalidFormat, FieldBondNumbers},
		{"letters", Input{List: "1,a"}, ErrInvalidFormat, FieldBondNumbers},
		{"range notation in list", Input{List: "1-5"}, ErrInvalidFormat, FieldBondNumbers},
		{"start after end", Input{RangeStart: "10", RangeEnd: "5"}, ErrInvalidRange, FieldBondRange},
		{"missing end", Input{RangeStart: "10"}, ErrInvalidRange, FieldBondRange},
		{"missing start", Input{RangeEnd: "10"}, ErrInvalidRange, FieldBondRange},
		{"non numeric range", Input{RangeStart: "x", RangeEnd: "10"}, ErrInvalidRange, FieldBondRange},
		{"too large", Input{RangeStart: "1", RangeEnd: "2000"}, ErrRangeTooLarge, FieldBondRange},
		{"just over ceiling", Input{RangeStart: "1", RangeEnd: "1002"}, ErrRangeTooLarge, FieldBondRange},
		{"all empty", Input{}, ErrEmptyResult, FieldBondNumbers},
		{"whitespace only", Input{List: "   ", RangeStart: " ", RangeEnd: ""}, ErrEmptyResult, FieldBondNumbers},
		{"overflowing tokens", Input{List: "99999999999999999999"}, ErrEmptyResult, FieldBondNumbers},
		{"zero in list", Input{List: "3, 0, 4"}, ErrInvalidFormat, FieldBondNumbers},
		{"padded zero in list", Input{List: "000"}, ErrInvalidFormat, FieldBondNumbers},
		{"negative in list", Input{List: "-4"}, ErrInvalidFormat, FieldBondNumbers},
		{"range ending at zero", Input{RangeStart: "-3", RangeEnd: "0"}, ErrInvalidRange, FieldBondRange},
		{"range starting at zero", Input{RangeStart: "0", RangeEnd: "4"}, ErrInvalidRange, FieldBondRange},
		{"zero in list with valid range", Input{List: "0", RangeStart: "1", RangeEnd: "2"}, ErrInvalidFormat, FieldBondNumbers},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.in)
			assert.Nil(t, got)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.kind), "expected %v, got %v", tt.kind, err)

			var bondErr *Error
			require.True(t, errors.As(err, &bondErr))
			assert.Equal(t, tt.field, bondErr.Field)
		})
	}
}

func TestParse_OverflowTokenDiscarded(t *testing.T) {
	got, err := Parse(Input{List: "5, 99999999999999999999, 6"})
	require.NoError(t, err)
	assert.Equal(t, []int64{5, 6}, got)
}

func TestParse_RangeAtInt64Limits(t *testing.T) {
	got, err := Parse(Input{RangeStart: "9223372036854775805", RangeEnd: "9223372036854775807"})
	require.NoError(t, err)
	assert.Equal(t, []int64{9223372036854775805, 9223372036854775806, 9223372036854775807}, got)

	_, err = Parse(Input{RangeStart: "1", RangeEnd: "9223372036854775807"})
	assert.ErrorIs(t, err, ErrRangeTooLarge)

	_, err = Parse(Input{RangeStart: "-9223372036854775808", RangeEnd: "9223372036854775807"})
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestParse_SmallestBond(t *testing.T) {
	got, err := Parse(Input{List: "01, 1", RangeStart: "1", RangeEnd: "2"})
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, got)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate([]int64{3, 1, 2}))
	assert.NoError(t, Validate(nil))

	err := Validate([]int64{4, 0})
	assert.ErrorIs(t, err, ErrInvalidFormat)
	var bondErr *Error
	require.True(t, errors.As(err, &bondErr))
	assert.Equal(t, FieldBonds, bondErr.Field)

	assert.ErrorIs(t, Validate([]int64{-5}), ErrInvalidFormat)

	tooMany := make([]int64, MaxCategoryBonds+1)
	for i := range tooMany {
		tooMany[i] = int64(i + 1)
	}
	assert.ErrorIs(t, Validate(tooMany), ErrTooManyBonds)
	assert.NoError(t, Validate(tooMany[:MaxCategoryBonds]))
}

func TestParse_RoundTripOnRanges(t *testing.T) {
	for _, span := range []int64{0, 1, 3, 4, 5, 250, 1000} {
		start := int64(500)
		end := start + span
		got, err := Parse(Input{RangeStart: itoa(start), RangeEnd: itoa(end)})
		require.NoError(t, err)

		want := make([]int64, 0, span+1)
		for n := start; n <= end; n++ {
			want = append(want, n)
		}
		assert.Equal(t, want, got)

		if span >= 4 {
			assert.Equal(t, itoa(start)+"-"+itoa(end), Format(got))
		} else {
			assert.Equal(t, Join(want, ", "), Format(got))
		}
	}
}

func TestMerge(t *testing.T) {
	existing := []int64{1, 5, 9}
	got := Merge(existing, []int64{9, 2, 5, 100})
	assert.Equal(t, []int64{1, 2, 5, 9, 100}, got)
	assert.Equal(t, []int64{1, 5, 9}, existing)
}

func TestRemove(t *testing.T) {
	got, ok := Remove([]int64{1, 2, 3}, 2)
	assert.True(t, ok)
	assert.Equal(t, []int64{1, 3}, got)

	got, ok = Remove([]int64{1, 3}, 2)
	assert.False(t, ok)
	assert.Equal(t, []int64{1, 3}, got)
}
