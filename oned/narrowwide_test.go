package oned

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNarrowWideThreshold(t *testing.T) {
	// bars 1/2, spaces 1/2: threshold 1 on both channels
	bs := NarrowWideThreshold([]int{1, 1, 2, 2, 1, 1, 2, 1, 1})
	require.True(t, bs.IsValid())
	assert.Equal(t, BarAndSpace{1, 1}, bs)
}

func TestNarrowWideThresholdAtLeastThreeHalvesMin(t *testing.T) {
	// uniform channels: threshold is raised to 1.5x the narrow width
	bs := NarrowWideThreshold([]int{2, 5, 2, 5})
	require.True(t, bs.IsValid())
	assert.Equal(t, BarAndSpace{3, 7}, bs)
}

func TestNarrowWideThresholdImplausibleWidths(t *testing.T) {
	// a 10-wide space next to 1-wide runs cannot be a two-width code
	bs := NarrowWideThreshold([]int{1, 10, 1, 1})
	assert.False(t, bs.IsValid())
}

func TestToNarrowWidePattern(t *testing.T) {
	// Code 39 asterisk: narrow/wide per run, MSB first, 1 = wide
	counters := []int{1, 2, 1, 1, 2, 1, 2, 1, 1}
	assert.Equal(t, 0x094, ToNarrowWidePattern(counters))

	// all narrow
	assert.Equal(t, 0, ToNarrowWidePattern([]int{2, 5, 2, 5}))

	// no plausible threshold
	assert.Equal(t, -1, ToNarrowWidePattern([]int{1, 10, 1, 1}))
}

func TestToNarrowWidePatternRejectsOverwideRun(t *testing.T) {
	// bars 0/3 and spaces 1/1 yield the valid threshold {1,1}, but the
	// 3-wide bar is more than twice the bar threshold
	counters := []int{0, 1, 3, 1}

	threshold := NarrowWideThreshold(counters)
	require.True(t, threshold.IsValid())
	assert.Equal(t, BarAndSpace{1, 1}, threshold)

	assert.Equal(t, -1, ToNarrowWidePattern(counters))
}

func TestDecodeNarrowWidePattern(t *testing.T) {
	asterisk := []int{1, 2, 1, 1, 2, 1, 2, 1, 1}
	ch, ok := DecodeNarrowWidePattern(asterisk, code39CharacterEncodings, code39DecodeAlphabet)
	require.True(t, ok)
	assert.Equal(t, byte('*'), ch)

	_, ok = DecodeNarrowWidePattern([]int{1, 10, 1, 1}, code39CharacterEncodings, code39DecodeAlphabet)
	assert.False(t, ok)
}
