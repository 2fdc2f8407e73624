// Package oned implements one-dimensional barcode reading and writing.
//
// The decoding side is built on a small set of shared row primitives:
// run extraction (RecordPattern, RecordPatternInReverse), sliding-window
// search (FindPattern), variance scoring (PatternMatchVariance, DecodeDigit)
// and narrow/wide classification (NarrowWideThreshold, ToNarrowWidePattern).
// Every symbology reader in this package is expressed in terms of these.
package oned

import (
	"math"

	"github.com/onedscan/onedscan"
	"github.com/onedscan/onedscan/bitutil"
)

// Range is a half-open interval [Begin, End) of bit positions in a row.
// An empty range (Begin == End) signals that no pattern was found.
type Range struct {
	Begin, End int
}

// IsValid reports whether the range is non-empty.
func (r Range) IsValid() bool {
	return r.Begin < r.End
}

// getNextSetTo returns the first position in [from, end) whose pixel equals
// value, or end if there is none.
func getNextSetTo(row *bitutil.BitArray, from, end int, value bool) int {
	var i int
	if value {
		i = row.GetNextSet(from)
	} else {
		i = row.GetNextUnset(from)
	}
	if i > end {
		return end
	}
	return i
}

// FindPattern scans the bit range [begin, end) for a pattern identified by
// evaluating match on each successive window of len(counters) runs. If the
// pattern is found, the bit range of the window is returned. Otherwise an
// empty range at end is returned.
//
// On a rejected window the scan advances by one bar/space pair (the first
// two counters), so the window always starts on a run of the same color as
// the one at begin. If the row is exhausted, the width of the current
// (possibly truncated) run is still written into the next free counter slot;
// RecordPattern relies on this to accept runs cut off by the row boundary.
func FindPattern(row *bitutil.BitArray, begin, end int, counters []int, match func(begin, end int, counters []int) bool) Range {
	if begin >= end {
		return Range{end, end}
	}

	li, i := begin, begin
	cur := 0
	for {
		i = getNextSetTo(row, i, end, !row.Get(i))
		if i == end {
			break
		}
		counters[cur] = i - li
		cur++
		if cur == len(counters) {
			if match(begin, i, counters) {
				return Range{begin, i}
			}
			begin += counters[0] + counters[1]
			copy(counters, counters[2:])
			cur -= 2
		}
		li = i
	}
	// Ran into the end: still record the truncated run. See RecordPattern.
	counters[cur] = i - li

	return Range{end, end}
}

// RecordPattern records the widths of len(counters) successive runs of
// black and white pixels, starting exactly at begin. Whether the first
// counter holds a black or a white run depends on the pixel at begin.
// A final run terminated by the row boundary counts as complete. Returns
// the bit range holding the runs, or an empty range at end on failure.
func RecordPattern(row *bitutil.BitArray, begin, end int, counters []int) Range {
	// mark the last counter slot as empty
	counters[len(counters)-1] = 0

	r := FindPattern(row, begin, end, counters, func(int, int, []int) bool { return true })

	// If we reached the end but touched the last counter slot, the final
	// run was merely cut off by the row boundary: accept it.
	if r.End == end && counters[len(counters)-1] != 0 {
		return Range{begin, end}
	}
	return r
}

// RecordPatternInReverse records the widths of len(counters) successive runs
// ending exactly at end, scanning leftward. The counters are reported in
// forward (left to right) order and the returned range is a forward range.
// On failure an empty range at begin is returned.
func RecordPatternInReverse(row *bitutil.BitArray, begin, end int, counters []int) Range {
	if begin >= end {
		return Range{begin, begin}
	}

	// Counters fill from the last slot backwards; slot 0 doubles as the
	// truncation marker, mirroring RecordPattern.
	counters[0] = 0
	cur := len(counters) - 1
	runEnd := end
	i := end - 1
	value := row.Get(i)
	for i > begin {
		i--
		if row.Get(i) != value {
			counters[cur] = runEnd - (i + 1)
			cur--
			if cur < 0 {
				return Range{i + 1, end}
			}
			runEnd = i + 1
			value = !value
		}
	}
	// Ran into begin: accept the truncated leftmost run if it filled the
	// final slot.
	counters[cur] = runEnd - begin
	if cur == 0 && counters[0] != 0 {
		return Range{begin, end}
	}
	return Range{begin, begin}
}

// PatternMatchVariance determines how closely observed counter widths match
// a target pattern. This is reported as the ratio of the total variance to
// the total width of the counters. Returns +Inf if the runs are too small to
// reliably match or any individual counter deviates by more than
// maxIndividualVariance pattern units.
func PatternMatchVariance(counters []int, pattern []int, maxIndividualVariance float64) float64 {
	numCounters := len(counters)
	total := 0
	patternLength := 0
	for i := 0; i < numCounters; i++ {
		total += counters[i]
		patternLength += pattern[i]
	}
	if total < patternLength {
		return math.Inf(1)
	}

	unitBarWidth := float64(total) / float64(patternLength)
	maxIndividualVariance *= unitBarWidth

	totalVariance := 0.0
	for i := 0; i < numCounters; i++ {
		counter := float64(counters[i])
		scaledPattern := float64(pattern[i]) * unitBarWidth
		variance := counter - scaledPattern
		if variance < 0 {
			variance = -variance
		}
		if variance > maxIndividualVariance {
			return math.Inf(1)
		}
		totalVariance += variance
	}
	return totalVariance / float64(total)
}

// DecodeDigit matches counters against each pattern in patterns and returns
// the index of the best match below maxAvgVariance, or -1 if none qualifies.
// With requireUnambiguousMatch set, a second pattern scoring exactly the
// current best variance invalidates the match.
func DecodeDigit(counters []int, patterns [][]int, maxAvgVariance, maxIndividualVariance float64, requireUnambiguousMatch bool) int {
	bestVariance := maxAvgVariance // worst variance we'll accept
	bestMatch := -1
	for i := range patterns {
		variance := PatternMatchVariance(counters, patterns[i], maxIndividualVariance)
		if variance < bestVariance {
			bestVariance = variance
			bestMatch = i
		} else if requireUnambiguousMatch && variance == bestVariance {
			bestMatch = -1
		}
	}
	return bestMatch
}

// DecodingState carries reader-specific context between row decode attempts
// on the same image. Readers that accumulate evidence across rows (RSS-14)
// store their tallies here; the engine never inspects the value.
type DecodingState interface{}

// RowDecoder decodes a single row of a 1D barcode.
type RowDecoder interface {
	// DecodeRow attempts to decode a barcode from a single row. The state
	// pointer is shared across rows of one image scan; decoders that need
	// no cross-row context ignore it.
	DecodeRow(rowNumber int, row *bitutil.BitArray, opts *onedscan.DecodeOptions, state *DecodingState) (*onedscan.Result, error)
}

// PatternDecoder is implemented by row decoders that can resume decoding
// from an already-located start window, skipping their own pattern search.
type PatternDecoder interface {
	DecodePattern(rowNumber int, row *bitutil.BitArray, window Range, opts *onedscan.DecodeOptions, state *DecodingState) (*onedscan.Result, error)
}

// DecodeSingleRow decodes one row with a fresh decoding state.
func DecodeSingleRow(dec RowDecoder, rowNumber int, row *bitutil.BitArray, opts *onedscan.DecodeOptions) (*onedscan.Result, error) {
	var state DecodingState
	return dec.DecodeRow(rowNumber, row, opts, &state)
}

// DecodeOneD decodes a 1D barcode from an image by scanning rows from the
// middle outward. It tries each row forward and reversed, threading one
// decoding state through all attempts.
func DecodeOneD(image *onedscan.BinaryBitmap, decoder RowDecoder, opts *onedscan.DecodeOptions) (*onedscan.Result, error) {
	width := image.Width()
	height := image.Height()
	row := bitutil.NewBitArray(width)

	tryHarder := opts != nil && opts.TryHarder
	rowStep := height >> 5
	if tryHarder {
		rowStep = height >> 8
	}
	if rowStep < 1 {
		rowStep = 1
	}

	maxLines := 15
	if tryHarder {
		maxLines = height
	}

	var state DecodingState

	middle := height / 2
	for x := 0; x < maxLines; x++ {
		rowStepsAboveOrBelow := (x + 1) / 2
		isAbove := (x & 0x01) == 0
		rowNumber := middle
		if isAbove {
			rowNumber += rowStep * rowStepsAboveOrBelow
		} else {
			rowNumber -= rowStep * rowStepsAboveOrBelow
		}
		if rowNumber < 0 || rowNumber >= height {
			break
		}

		var err error
		row, err = image.BlackRow(rowNumber, row)
		if err != nil {
			continue
		}

		for attempt := 0; attempt < 2; attempt++ {
			if attempt == 1 {
				row.Reverse()
			}
			result, err := decoder.DecodeRow(rowNumber, row, opts, &state)
			if attempt == 1 {
				// restore the row for the next iteration
				row.Reverse()
			}
			if err != nil {
				continue
			}
			if attempt == 1 {
				result.PutMetadata(onedscan.MetadataOrientation, 180)
				if len(result.Points) >= 2 {
					result.Points[0] = onedscan.ResultPoint{
						X: float64(width) - result.Points[0].X - 1,
						Y: result.Points[0].Y,
					}
					result.Points[1] = onedscan.ResultPoint{
						X: float64(width) - result.Points[1].X - 1,
						Y: result.Points[1].Y,
					}
				}
			}
			return result, nil
		}
	}
	return nil, onedscan.ErrNotFound
}
