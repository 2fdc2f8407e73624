package oned

import (
	"strings"

	"github.com/onedscan/onedscan"
	"github.com/onedscan/onedscan/bitutil"
)

// Codabar is a linear barcode that encodes digits 0-9 and characters -, $, :,
// /, ., + with start/stop characters A, B, C, or D.

const codabarAlphabet = "0123456789-$:/.+ABCD"

// Character widths: each character has 7 elements (4 bars + 3 spaces).
var codabarCharacterEncodings = [][]int{
	{1, 1, 1, 1, 1, 2, 2}, // 0
	{1, 1, 1, 1, 2, 2, 1}, // 1
	{1, 1, 1, 2, 1, 1, 2}, // 2
	{2, 2, 1, 1, 1, 1, 1}, // 3
	{1, 1, 2, 1, 1, 2, 1}, // 4
	{2, 1, 1, 1, 1, 2, 1}, // 5
	{1, 2, 1, 1, 1, 1, 2}, // 6
	{1, 2, 1, 1, 2, 1, 1}, // 7
	{1, 2, 2, 1, 1, 1, 1}, // 8
	{2, 1, 1, 2, 1, 1, 1}, // 9
	{1, 1, 1, 2, 2, 1, 1}, // -
	{1, 1, 2, 2, 1, 1, 1}, // $
	{2, 1, 1, 1, 2, 1, 2}, // :
	{2, 1, 2, 1, 1, 1, 2}, // /
	{2, 1, 2, 1, 2, 1, 1}, // .
	{1, 1, 2, 1, 2, 1, 2}, // +
	{1, 1, 2, 2, 1, 2, 1}, // A
	{1, 2, 1, 2, 1, 1, 2}, // B
	{1, 1, 1, 2, 1, 2, 2}, // C
	{1, 1, 1, 2, 2, 2, 1}, // D
}

const (
	codabarMaxAvgVariance        = 0.25
	codabarMaxIndividualVariance = 0.7
	codabarMinCharLength         = 3 // start + at least 1 data + stop
)

// CodabarReader decodes Codabar barcodes.
type CodabarReader struct{}

// NewCodabarReader creates a new Codabar reader.
func NewCodabarReader() *CodabarReader {
	return &CodabarReader{}
}

// DecodeRow decodes a Codabar barcode from a single row.
func (r *CodabarReader) DecodeRow(rowNumber int, row *bitutil.BitArray, opts *onedscan.DecodeOptions, _ *DecodingState) (*onedscan.Result, error) {
	counters := make([]int, 7)

	window := findCodabarStart(row, counters)
	if !window.IsValid() {
		return nil, onedscan.ErrNotFound
	}
	startOffset := window.Begin

	nextStart := startOffset
	end := row.Size()
	var result strings.Builder

	for nextStart < end {
		if !RecordPattern(row, nextStart, end, counters).IsValid() {
			return nil, onedscan.ErrNotFound
		}
		charIndex := decodeCodabarCharacter(counters)
		if charIndex < 0 {
			return nil, onedscan.ErrNotFound
		}
		result.WriteByte(codabarAlphabet[charIndex])

		patternSize := 0
		for _, c := range counters {
			patternSize += c
		}
		nextStart += patternSize

		if isCodabarStartEnd(codabarAlphabet[charIndex]) && result.Len() > 1 {
			break
		}

		// Skip inter-character gap
		if nextStart < end {
			nextStart = row.GetNextSet(nextStart)
		}
	}

	s := result.String()
	if len(s) < codabarMinCharLength {
		return nil, onedscan.ErrNotFound
	}

	// Both ends must carry a start/stop character
	if !isCodabarStartEnd(s[0]) || !isCodabarStartEnd(s[len(s)-1]) {
		return nil, onedscan.ErrNotFound
	}

	// Require a quiet zone after the stop character at least half as wide as
	// the stop character itself.
	lastPatternSize := 0
	for _, c := range counters {
		lastPatternSize += c
	}
	quietEnd := nextStart + lastPatternSize/2
	if quietEnd > end {
		quietEnd = end
	}
	if !row.IsRange(nextStart, quietEnd, false) {
		return nil, onedscan.ErrNotFound
	}

	// Strip start/stop characters
	s = s[1 : len(s)-1]

	res := onedscan.NewResult(
		s, nil,
		[]onedscan.ResultPoint{
			{X: float64(startOffset), Y: float64(rowNumber)},
			{X: float64(nextStart - 1), Y: float64(rowNumber)},
		},
		onedscan.FormatCodabar,
	)
	res.PutMetadata(onedscan.MetadataSymbologyIdentifier, "]F0")
	return res, nil
}

// findCodabarStart locates a start/stop character preceded by a quiet zone.
func findCodabarStart(row *bitutil.BitArray, counters []int) Range {
	begin := row.GetNextSet(0)
	end := row.Size()
	return FindPattern(row, begin, end, counters, func(begin, end int, counters []int) bool {
		charIndex := decodeCodabarCharacter(counters)
		if charIndex < 0 || !isCodabarStartEnd(codabarAlphabet[charIndex]) {
			return false
		}
		whiteStart := begin - (end-begin)/2
		if whiteStart < 0 {
			whiteStart = 0
		}
		return row.IsRange(whiteStart, begin, false)
	})
}

// decodeCodabarCharacter matches counters against the character table.
// Codabar characters are not unambiguous under pure narrow/wide
// classification (the bar and space widths overlap), so variance scoring
// without the ambiguity requirement is used instead.
func decodeCodabarCharacter(counters []int) int {
	return DecodeDigit(counters, codabarCharacterEncodings, codabarMaxAvgVariance, codabarMaxIndividualVariance, false)
}

func isCodabarStartEnd(c byte) bool {
	return c == 'A' || c == 'B' || c == 'C' || c == 'D'
}

// Ensure CodabarReader implements RowDecoder at compile time.
var _ RowDecoder = (*CodabarReader)(nil)
