package oned

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCombins(t *testing.T) {
	tests := []struct {
		n, r, want int
	}{
		{4, 2, 6},
		{5, 0, 1},
		{10, 3, 120},
		{12, 6, 924},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, combins(tc.n, tc.r), "combins(%d, %d)", tc.n, tc.r)
	}
}

func TestGetRSSValue(t *testing.T) {
	assert.Equal(t, 0, getRSSvalue([]int{1, 1, 1, 1}, 8, false))
	assert.Equal(t, 3, getRSSvalue([]int{2, 1, 1, 1}, 8, false))
}

func TestRSSIsFinderPattern(t *testing.T) {
	// elements 2-5 of the 3-8-2-1-1 finder pattern
	assert.True(t, rssIsFinderPattern([]int{8, 2, 1, 1}))
	// first two runs too small a share of the total
	assert.False(t, rssIsFinderPattern([]int{1, 1, 8, 8}))
}

func TestRSSIncrementDecrement(t *testing.T) {
	counts := []int{1, 2, 3}
	rssIncrement(counts, []float64{0.1, 0.4, 0.2})
	assert.Equal(t, []int{1, 3, 3}, counts)

	rssDecrement(counts, []float64{-0.3, 0.0, -0.1})
	assert.Equal(t, []int{0, 3, 3}, counts)
}
