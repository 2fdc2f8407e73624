package oned

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onedscan/onedscan"
	"github.com/onedscan/onedscan/bitutil"
)

// rss14Row builds a complete single-module-wide RSS-14 row: quiet zone, left
// guard, left outside character, left finder pattern, left inside character,
// right inside character, right finder pattern, right outside character and a
// trailing quiet zone. The finder patterns are passed as their five element
// widths in forward reading order.
func rss14Row(leftFinder, rightFinder []int) *bitutil.BitArray {
	runs := []int{11, 1}                            // quiet zone, left guard
	runs = append(runs, 1, 1, 1, 1, 2, 1, 8, 1)     // left outside character
	runs = append(runs, leftFinder...)              // left finder pattern
	runs = append(runs, 7, 2, 1, 1, 1, 1, 1, 1)     // left inside character
	runs = append(runs, 1, 2, 2, 2, 2, 2, 2, 2)     // right inside character
	runs = append(runs, rightFinder...)             // right finder pattern
	runs = append(runs, 2, 2, 2, 2, 2, 2, 2, 2, 11) // right outside character, quiet zone
	return rowFromRuns(false, runs...)
}

func TestRSS14ReaderTalliesPairsAcrossRows(t *testing.T) {
	// Finder values 6 and 7 match the checksum of the data characters.
	row := rss14Row([]int{2, 3, 8, 1, 1}, []int{1, 1, 7, 5, 1})

	reader := NewRSS14Reader()
	var state DecodingState

	// A single row only tallies the candidate pairs.
	_, err := reader.DecodeRow(0, row, nil, &state)
	assert.ErrorIs(t, err, onedscan.ErrNotFound)

	st, ok := state.(*rss14State)
	require.True(t, ok)
	require.Len(t, st.possibleLeftPairs, 1)
	require.Len(t, st.possibleRightPairs, 1)
	assert.Equal(t, 1, st.possibleLeftPairs[0].count)
	assert.Equal(t, 1, st.possibleRightPairs[0].count)

	// Seeing the same pairs in a second row confirms them.
	result, err := reader.DecodeRow(1, row, nil, &state)
	require.NoError(t, err)
	assert.Equal(t, "00000024904643", result.Text)
	assert.Equal(t, onedscan.FormatRSS14, result.Format)
	assert.Equal(t, "]e0", result.Metadata[onedscan.MetadataSymbologyIdentifier])
}

func TestRSS14ReaderRejectsChecksumMismatch(t *testing.T) {
	// Same data characters, but left finder value 3 no longer agrees with
	// the pair checksums.
	row := rss14Row([]int{3, 1, 9, 1, 1}, []int{1, 1, 7, 5, 1})

	reader := NewRSS14Reader()
	var state DecodingState

	// Both pairs decode and tally, yet no row may ever produce a result.
	for rowNumber := 0; rowNumber < 3; rowNumber++ {
		_, err := reader.DecodeRow(rowNumber, row, nil, &state)
		assert.ErrorIs(t, err, onedscan.ErrNotFound)
	}

	st, ok := state.(*rss14State)
	require.True(t, ok)
	require.Len(t, st.possibleLeftPairs, 1)
	assert.Greater(t, st.possibleLeftPairs[0].count, 1)
}
