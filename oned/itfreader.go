package oned

import (
	"strings"

	"github.com/onedscan/onedscan"
	"github.com/onedscan/onedscan/bitutil"
)

// ITF encodes pairs of digits: the first digit of each pair is encoded in the
// bars and the second in the spaces. ITF-14 is ITF with a fixed length of 14.

const (
	itfMaxAvgVariance          = 0.38
	itfMaxIndividualVariance2x = 0.5  // 2x wide lines
	itfMaxIndividualVariance3x = 0.75 // 3x wide lines
)

// Patterns of narrow/wide for digits 0-9, duplicated for 2x and 3x wide.
// Indices 0-9 use 2x (w=2), indices 10-19 use 3x (W=3).
var itfPatterns = [20][5]int{
	{1, 1, 2, 2, 1}, // 0 (2x)
	{2, 1, 1, 1, 2}, // 1
	{1, 2, 1, 1, 2}, // 2
	{2, 2, 1, 1, 1}, // 3
	{1, 1, 2, 1, 2}, // 4
	{2, 1, 2, 1, 1}, // 5
	{1, 2, 2, 1, 1}, // 6
	{1, 1, 1, 2, 2}, // 7
	{2, 1, 1, 2, 1}, // 8
	{1, 2, 1, 2, 1}, // 9
	{1, 1, 3, 3, 1}, // 0 (3x)
	{3, 1, 1, 1, 3}, // 1
	{1, 3, 1, 1, 3}, // 2
	{3, 3, 1, 1, 1}, // 3
	{1, 1, 3, 1, 3}, // 4
	{3, 1, 3, 1, 1}, // 5
	{1, 3, 3, 1, 1}, // 6
	{1, 1, 1, 3, 3}, // 7
	{3, 1, 1, 3, 1}, // 8
	{1, 3, 1, 3, 1}, // 9
}

// Start/end patterns: narrow bar, narrow space, narrow bar, narrow space
var itfStartPattern = []int{1, 1, 1, 1}
var itfEndPatternReversed = [2][]int{
	{1, 1, 2}, // 2x
	{1, 1, 3}, // 3x
}

// ITFReader decodes ITF (Interleaved 2 of 5) barcodes.
type ITFReader struct {
	narrowLineWidth int
}

// NewITFReader creates a new ITF reader.
func NewITFReader() *ITFReader {
	return &ITFReader{narrowLineWidth: -1}
}

// DecodeRow decodes an ITF barcode from a single row.
func (r *ITFReader) DecodeRow(rowNumber int, row *bitutil.BitArray, opts *onedscan.DecodeOptions, _ *DecodingState) (*onedscan.Result, error) {
	startRange, err := r.decodeStart(row)
	if err != nil {
		return nil, err
	}
	endRange, err := r.decodeEnd(row)
	if err != nil {
		return nil, err
	}

	var result strings.Builder
	if err := r.decodeMiddle(row, startRange.End, endRange.Begin, &result); err != nil {
		return nil, err
	}
	resultString := result.String()

	allowedLengths := []int{6, 8, 10, 12, 14}
	if opts != nil && len(opts.AllowedLengths) > 0 {
		allowedLengths = opts.AllowedLengths
	}

	lengthOK := false
	maxAllowedLength := 0
	for _, length := range allowedLengths {
		if len(resultString) == length {
			lengthOK = true
			break
		}
		if length > maxAllowedLength {
			maxAllowedLength = length
		}
	}
	if !lengthOK && len(resultString) > maxAllowedLength {
		lengthOK = true
	}
	if !lengthOK {
		return nil, onedscan.ErrFormat
	}

	res := onedscan.NewResult(
		resultString, nil,
		[]onedscan.ResultPoint{
			{X: float64(startRange.End), Y: float64(rowNumber)},
			{X: float64(endRange.Begin), Y: float64(rowNumber)},
		},
		onedscan.FormatITF,
	)
	res.PutMetadata(onedscan.MetadataSymbologyIdentifier, "]I0")
	return res, nil
}

func (r *ITFReader) decodeMiddle(row *bitutil.BitArray, payloadStart, payloadEnd int, result *strings.Builder) error {
	counterDigitPair := make([]int, 10)
	counterBlack := make([]int, 5)
	counterWhite := make([]int, 5)

	for payloadStart < payloadEnd {
		if !RecordPattern(row, payloadStart, row.Size(), counterDigitPair).IsValid() {
			return onedscan.ErrNotFound
		}

		// un-interleave bars and spaces
		for k := 0; k < 5; k++ {
			twoK := 2 * k
			counterBlack[k] = counterDigitPair[twoK]
			counterWhite[k] = counterDigitPair[twoK+1]
		}

		bestMatch := decodeITFDigit(counterBlack)
		if bestMatch < 0 {
			return onedscan.ErrNotFound
		}
		result.WriteByte('0' + byte(bestMatch))

		bestMatch = decodeITFDigit(counterWhite)
		if bestMatch < 0 {
			return onedscan.ErrNotFound
		}
		result.WriteByte('0' + byte(bestMatch))

		for _, count := range counterDigitPair {
			payloadStart += count
		}
	}
	return nil
}

func (r *ITFReader) decodeStart(row *bitutil.BitArray) (Range, error) {
	endStart := row.GetNextSet(0)
	if endStart == row.Size() {
		return Range{}, onedscan.ErrNotFound
	}

	startRange := findITFGuardPattern(row, endStart, itfStartPattern)
	if !startRange.IsValid() {
		return Range{}, onedscan.ErrNotFound
	}

	r.narrowLineWidth = (startRange.End - startRange.Begin) / 4

	if err := r.validateQuietZone(row, startRange.Begin); err != nil {
		return Range{}, err
	}

	return startRange, nil
}

func (r *ITFReader) validateQuietZone(row *bitutil.BitArray, startPattern int) error {
	quietZoneSize := r.narrowLineWidth * 10
	if quietZoneSize < 1 {
		quietZoneSize = 1
	}
	quietStart := startPattern - quietZoneSize
	if quietStart < 0 {
		quietStart = 0
	}
	if !row.IsRange(quietStart, startPattern, false) {
		return onedscan.ErrNotFound
	}
	return nil
}

func (r *ITFReader) decodeEnd(row *bitutil.BitArray) (Range, error) {
	// The end pattern is scanned from the end of the row backwards on a
	// reversed view of the row.
	row.Reverse()
	defer row.Reverse()

	endStart := row.GetNextSet(0)
	if endStart == row.Size() {
		return Range{}, onedscan.ErrNotFound
	}

	// Try 2x end pattern first, fall back to 3x
	endRange := findITFGuardPattern(row, endStart, itfEndPatternReversed[0])
	if !endRange.IsValid() {
		endRange = findITFGuardPattern(row, endStart, itfEndPatternReversed[1])
		if !endRange.IsValid() {
			return Range{}, onedscan.ErrNotFound
		}
	}

	if err := r.validateQuietZone(row, endRange.Begin); err != nil {
		return Range{}, err
	}

	// Translate the coordinates back to forward orientation
	return Range{row.Size() - endRange.End, row.Size() - endRange.Begin}, nil
}

func findITFGuardPattern(row *bitutil.BitArray, rowOffset int, pattern []int) Range {
	counters := make([]int, len(pattern))
	return FindPattern(row, rowOffset, row.Size(), counters, func(_, _ int, counters []int) bool {
		return PatternMatchVariance(counters, pattern, itfMaxIndividualVariance2x) < itfMaxAvgVariance
	})
}

// decodeITFDigit matches 5 bar (or space) counters against both the 2x and
// 3x wide pattern tables. The two tables tolerate different individual
// variances, so the generic DecodeDigit cannot express this match.
func decodeITFDigit(counters []int) int {
	bestVariance := float64(itfMaxAvgVariance)
	bestMatch := -1
	for i := 0; i < len(itfPatterns); i++ {
		pattern := itfPatterns[i]
		maxVariance := float64(itfMaxIndividualVariance2x)
		if i > 9 {
			maxVariance = itfMaxIndividualVariance3x
		}
		variance := PatternMatchVariance(counters, pattern[:], maxVariance)
		if variance < bestVariance {
			bestVariance = variance
			bestMatch = i
		} else if variance == bestVariance {
			bestMatch = -1 // ambiguous match
		}
	}
	if bestMatch >= 0 {
		return bestMatch % 10
	}
	return -1
}

// Ensure ITFReader implements RowDecoder at compile time.
var _ RowDecoder = (*ITFReader)(nil)
