package oned

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onedscan/onedscan/bitutil"
)

// rowFromRuns builds a BitArray from run lengths, alternating colors starting
// with firstBlack.
func rowFromRuns(firstBlack bool, runs ...int) *bitutil.BitArray {
	size := 0
	for _, r := range runs {
		size += r
	}
	row := bitutil.NewBitArray(size)
	pos := 0
	black := firstBlack
	for _, r := range runs {
		if black {
			row.SetRange(pos, pos+r)
		}
		pos += r
		black = !black
	}
	return row
}

func allEqual(counters []int) bool {
	for _, c := range counters {
		if c != counters[0] {
			return false
		}
	}
	return true
}

func TestFindPatternLocatesWindow(t *testing.T) {
	// white 5, then bar-space-bar of 2 modules each, then white 5
	row := rowFromRuns(false, 5, 2, 2, 2, 5)
	counters := make([]int, 3)

	r := FindPattern(row, row.GetNextSet(0), row.Size(), counters, func(_, _ int, c []int) bool {
		return allEqual(c)
	})

	require.True(t, r.IsValid())
	assert.Equal(t, Range{5, 11}, r)
	assert.Equal(t, []int{2, 2, 2}, counters)
}

func TestFindPatternSlidesByBarSpacePair(t *testing.T) {
	// first window [1,3,2] is rejected, the scan must advance by the first
	// bar/space pair and accept [2,2,2]
	row := rowFromRuns(true, 1, 3, 2, 2, 2, 6)
	counters := make([]int, 3)

	r := FindPattern(row, 0, row.Size(), counters, func(_, _ int, c []int) bool {
		return allEqual(c)
	})

	require.True(t, r.IsValid())
	assert.Equal(t, Range{4, 10}, r)
}

func TestFindPatternNotFound(t *testing.T) {
	row := rowFromRuns(true, 1, 3, 2, 2, 2, 6)
	counters := make([]int, 3)

	r := FindPattern(row, 0, row.Size(), counters, func(_, _ int, _ []int) bool {
		return false
	})

	assert.False(t, r.IsValid())
	assert.Equal(t, Range{row.Size(), row.Size()}, r)
}

func TestRecordPattern(t *testing.T) {
	row := rowFromRuns(true, 2, 3, 1, 4)
	counters := make([]int, 3)

	r := RecordPattern(row, 0, row.Size(), counters)

	require.True(t, r.IsValid())
	assert.Equal(t, Range{0, 6}, r)
	assert.Equal(t, []int{2, 3, 1}, counters)
}

func TestRecordPatternAcceptsRunCutOffByRowEnd(t *testing.T) {
	// the final run extends to the row boundary and must still count
	row := rowFromRuns(true, 3, 1, 1, 1)
	counters := make([]int, 4)

	r := RecordPattern(row, 0, row.Size(), counters)

	require.True(t, r.IsValid())
	assert.Equal(t, Range{0, 6}, r)
	assert.Equal(t, []int{3, 1, 1, 1}, counters)
}

func TestRecordPatternRowTooShort(t *testing.T) {
	// only two runs where four are required
	row := rowFromRuns(true, 3, 3)
	counters := make([]int, 4)

	r := RecordPattern(row, 0, row.Size(), counters)

	assert.False(t, r.IsValid())
}

func TestRecordPatternInReverse(t *testing.T) {
	row := rowFromRuns(true, 1, 2, 3, 1, 2)
	counters := make([]int, 5)

	r := RecordPatternInReverse(row, 0, row.Size(), counters)

	require.True(t, r.IsValid())
	assert.Equal(t, Range{0, row.Size()}, r)
	// counters are reported in forward order
	assert.Equal(t, []int{1, 2, 3, 1, 2}, counters)
}

func TestRecordPatternInReverseMatchesForward(t *testing.T) {
	row := rowFromRuns(true, 2, 1, 4, 1, 3, 5)
	forward := make([]int, 5)
	reverse := make([]int, 5)

	rf := RecordPattern(row, 0, row.Size(), forward)
	require.True(t, rf.IsValid())

	rr := RecordPatternInReverse(row, 0, rf.End, reverse)
	require.True(t, rr.IsValid())
	assert.Equal(t, rf, rr)
	assert.Equal(t, forward, reverse)

	// Scanning backwards must agree with a forward scan of the physically
	// reversed row: the same runs in opposite order, over the mirrored range.
	flipped := row.Clone()
	flipped.Reverse()
	mirrored := make([]int, 5)

	rm := RecordPattern(flipped, row.Size()-rr.End, flipped.Size(), mirrored)
	require.True(t, rm.IsValid())
	assert.Equal(t, Range{row.Size() - rr.End, row.Size() - rr.Begin}, rm)
	for i, c := range mirrored {
		assert.Equal(t, reverse[len(reverse)-1-i], c)
	}
}

func TestRecordPatternInReverseTooFewRuns(t *testing.T) {
	row := rowFromRuns(false, 2, 2, 2)
	counters := make([]int, 4)

	r := RecordPatternInReverse(row, 0, row.Size(), counters)

	assert.False(t, r.IsValid())
	assert.Equal(t, Range{0, 0}, r)
}

func TestPatternMatchVarianceExactMatch(t *testing.T) {
	assert.Equal(t, 0.0, PatternMatchVariance([]int{1, 2, 3}, []int{1, 2, 3}, 0.7))
	// scaled by a constant factor is still an exact match
	assert.Equal(t, 0.0, PatternMatchVariance([]int{4, 8, 12}, []int{1, 2, 3}, 0.7))
}

func TestPatternMatchVarianceRowTooSmall(t *testing.T) {
	// total width below the pattern length cannot be matched reliably
	v := PatternMatchVariance([]int{1, 1}, []int{3, 3}, 0.7)
	assert.True(t, math.IsInf(v, 1))
}

func TestPatternMatchVarianceIndividualLimit(t *testing.T) {
	v := PatternMatchVariance([]int{10, 1}, []int{1, 1}, 0.5)
	assert.True(t, math.IsInf(v, 1))
}

func TestDecodeDigit(t *testing.T) {
	patterns := [][]int{{1, 2}, {2, 1}, {1, 1}}

	// {1,1} matches {3,3} exactly and beats the tied {1,2}/{2,1} scores
	assert.Equal(t, 2, DecodeDigit([]int{3, 3}, patterns, 0.5, 0.8, true))
	assert.Equal(t, -1, DecodeDigit([]int{3, 3}, [][]int{{1, 5}}, 0.5, 0.7, false))
}

func TestDecodeDigitAmbiguousMatch(t *testing.T) {
	// counters {3,3} score identically against {1,2} and {2,1}
	patterns := [][]int{{1, 2}, {2, 1}}

	assert.Equal(t, -1, DecodeDigit([]int{3, 3}, patterns, 0.5, 0.8, true))
	// without the ambiguity requirement the first match wins
	assert.Equal(t, 0, DecodeDigit([]int{3, 3}, patterns, 0.5, 0.8, false))
}
