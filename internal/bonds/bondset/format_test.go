package bondset

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name  string
		bonds []int64
		want  string
	}{
		{"empty", nil, ""},
		{"single", []int64{7}, "7"},
		{"run of four stays individual", []int64{1, 2, 3, 4}, "1, 2, 3, 4"},
		{"run of five becomes range", []int64{1, 2, 3, 4, 5}, "1-5"},
		{"unsorted input", []int64{5, 3, 1, 4, 2}, "1-5"},
		{"mixed", []int64{1, 3, 10, 11, 12}, "1, 3, 10, 11, 12"},
		{"short run and long run", []int64{1, 2, 3, 9, 10, 11, 12, 13, 20}, "1, 2, 3, 9-13, 20"},
		{"duplicates ignored", []int64{1, 1, 2, 3, 4, 5, 5}, "1-5"},
		{"two ranges", []int64{100, 101, 102, 103, 104, 200, 201, 202, 203, 204, 205}, "100-104, 200-205"},
		{"negative numbers", []int64{-2, -1, 0, 1, 2}, "-2-2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(tt.bonds))
		})
	}
}

func TestFormat_DoesNotMutateInput(t *testing.T) {
	bonds := []int64{9, 1, 5}
	_ = Format(bonds)
	assert.Equal(t, []int64{9, 1, 5}, bonds)
}

func TestFormat_Idempotent(t *testing.T) {
	bonds := []int64{4, 8, 15, 16, 17, 18, 19, 23, 42}
	assert.Equal(t, Format(bonds), Format(bonds))
}

func TestRuns(t *testing.T) {
	runs := Runs([]int64{20, 1, 2, 3, 9, 10, 11, 12, 13})
	assert.Equal(t, []Run{{1, 3}, {9, 13}, {20, 20}}, runs)
	assert.False(t, runs[0].Compact())
	assert.True(t, runs[1].Compact())
	assert.Equal(t, int64(5), runs[1].Len())
}

func TestJoin(t *testing.T) {
	assert.Equal(t, "1,2,30", Join([]int64{1, 2, 30}, ","))
	assert.Equal(t, "", Join(nil, ","))
}
