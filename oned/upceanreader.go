package oned

import (
	"strings"

	"github.com/onedscan/onedscan"
	"github.com/onedscan/onedscan/bitutil"
)

const (
	upceanMaxAvgVariance        = 0.48
	upceanMaxIndividualVariance = 0.7
)

// UPC/EAN guard patterns.
var (
	UPCEANStartEndPattern = []int{1, 1, 1}
	UPCEANMiddlePattern   = []int{1, 1, 1, 1, 1}
	UPCEANEndPattern      = []int{1, 1, 1, 1, 1, 1}
)

// LPatterns contains the "odd" or "L" patterns for encoding UPC/EAN digits.
var LPatterns = [10][]int{
	{3, 2, 1, 1}, // 0
	{2, 2, 2, 1}, // 1
	{2, 1, 2, 2}, // 2
	{1, 4, 1, 1}, // 3
	{1, 1, 3, 2}, // 4
	{1, 2, 3, 1}, // 5
	{1, 1, 1, 4}, // 6
	{1, 3, 1, 2}, // 7
	{1, 2, 1, 3}, // 8
	{3, 1, 1, 2}, // 9
}

// LAndGPatterns includes both the L and G patterns.
// Indices 0-9 are L patterns, 10-19 are G patterns (reversed L patterns).
var LAndGPatterns [20][]int

func init() {
	for i := 0; i < 10; i++ {
		LAndGPatterns[i] = LPatterns[i]
	}
	for i := 10; i < 20; i++ {
		widths := LPatterns[i-10]
		reversed := make([]int, len(widths))
		for j := 0; j < len(widths); j++ {
			reversed[j] = widths[len(widths)-j-1]
		}
		LAndGPatterns[i] = reversed
	}
}

// UPCEANMiddleDecoder decodes the middle portion of a UPC/EAN barcode.
type UPCEANMiddleDecoder interface {
	// DecodeMiddle decodes the middle portion of the barcode.
	// Returns the row offset after the middle, and the decoded digits are appended to result.
	DecodeMiddle(row *bitutil.BitArray, startRange Range, result *strings.Builder) (int, error)

	// BarcodeFormat returns the format this decoder handles.
	BarcodeFormat() onedscan.Format
}

// DecodeUPCEAN decodes a UPC/EAN barcode from a row using the given middle decoder.
func DecodeUPCEAN(rowNumber int, row *bitutil.BitArray, decoder UPCEANMiddleDecoder, opts *onedscan.DecodeOptions) (*onedscan.Result, error) {
	startRange, err := FindUPCEANStartGuardPattern(row)
	if err != nil {
		return nil, err
	}

	var result strings.Builder
	endStart, err := decoder.DecodeMiddle(row, startRange, &result)
	if err != nil {
		return nil, err
	}

	endRange, err := findUPCEANEndGuardPattern(row, endStart, decoder.BarcodeFormat())
	if err != nil {
		return nil, err
	}

	// Quiet zone check after barcode
	end := endRange.End
	quietEnd := end + (end - endRange.Begin)
	if quietEnd >= row.Size() || !row.IsRange(end, quietEnd, false) {
		return nil, onedscan.ErrNotFound
	}

	resultString := result.String()
	if len(resultString) < 8 {
		return nil, onedscan.ErrFormat
	}

	format := decoder.BarcodeFormat()
	checksumStr := resultString
	if format == onedscan.FormatUPCE {
		checksumStr = ConvertUPCEtoUPCA(resultString)
	}
	if !CheckStandardUPCEANChecksum(checksumStr) {
		return nil, onedscan.ErrChecksum
	}
	left := float64(startRange.Begin+startRange.End) / 2.0
	right := float64(endRange.Begin+endRange.End) / 2.0
	res := onedscan.NewResult(
		resultString, nil,
		[]onedscan.ResultPoint{
			{X: left, Y: float64(rowNumber)},
			{X: right, Y: float64(rowNumber)},
		},
		format,
	)

	// Try for a supplemental 2- or 5-digit extension after the end guard.
	extensionLength := 0
	if extResult, extErr := decodeUPCEANExtension(rowNumber, row, endRange.End); extErr == nil {
		res.PutMetadata(onedscan.MetadataUPCEANExtension, extResult.Text)
		for k, v := range extResult.Metadata {
			res.PutMetadata(k, v)
		}
		res.AddResultPoints(extResult.Points)
		extensionLength = len(extResult.Text)
	}
	if opts != nil && len(opts.AllowedEANExtensions) > 0 {
		valid := false
		for _, length := range opts.AllowedEANExtensions {
			if extensionLength == length {
				valid = true
				break
			}
		}
		if !valid {
			return nil, onedscan.ErrNotFound
		}
	}

	symbologyID := "0"
	if format == onedscan.FormatEAN8 {
		symbologyID = "4"
	}
	res.PutMetadata(onedscan.MetadataSymbologyIdentifier, "]E"+symbologyID)
	return res, nil
}

// CheckStandardUPCEANChecksum verifies the UPC/EAN checksum.
func CheckStandardUPCEANChecksum(s string) bool {
	length := len(s)
	if length == 0 {
		return false
	}
	check := int(s[length-1] - '0')
	return GetStandardUPCEANChecksum(s[:length-1]) == check
}

// GetStandardUPCEANChecksum computes the UPC/EAN check digit for a string of digits
// (without the check digit itself).
func GetStandardUPCEANChecksum(s string) int {
	length := len(s)
	sum := 0
	for i := length - 1; i >= 0; i -= 2 {
		d := int(s[i] - '0')
		if d < 0 || d > 9 {
			return -1
		}
		sum += d
	}
	sum *= 3
	for i := length - 2; i >= 0; i -= 2 {
		d := int(s[i] - '0')
		if d < 0 || d > 9 {
			return -1
		}
		sum += d
	}
	return (1000 - sum) % 10
}

// FindUPCEANStartGuardPattern locates the start guard, requiring a quiet zone
// as wide as the guard itself before it.
func FindUPCEANStartGuardPattern(row *bitutil.BitArray) (Range, error) {
	counters := make([]int, len(UPCEANStartEndPattern))
	nextStart := 0
	for {
		startRange := findUPCEANGuardPattern(row, nextStart, false, UPCEANStartEndPattern, counters)
		if !startRange.IsValid() {
			return Range{}, onedscan.ErrNotFound
		}
		start := startRange.Begin
		nextStart = startRange.End
		quietStart := start - (nextStart - start)
		if quietStart >= 0 && row.IsRange(quietStart, start, false) {
			return startRange, nil
		}
	}
}

func findUPCEANEndGuardPattern(row *bitutil.BitArray, endStart int, format onedscan.Format) (Range, error) {
	var r Range
	if format == onedscan.FormatUPCE {
		r = findUPCEANGuardPattern(row, endStart, true, UPCEANEndPattern, make([]int, len(UPCEANEndPattern)))
	} else {
		r = findUPCEANGuardPattern(row, endStart, false, UPCEANStartEndPattern, make([]int, len(UPCEANStartEndPattern)))
	}
	if !r.IsValid() {
		return Range{}, onedscan.ErrNotFound
	}
	return r, nil
}

func findUPCEANGuardPattern(row *bitutil.BitArray, rowOffset int, whiteFirst bool, pattern, counters []int) Range {
	if whiteFirst {
		rowOffset = row.GetNextUnset(rowOffset)
	} else {
		rowOffset = row.GetNextSet(rowOffset)
	}
	return FindPattern(row, rowOffset, row.Size(), counters, func(_, _ int, counters []int) bool {
		return PatternMatchVariance(counters, pattern, upceanMaxIndividualVariance) < upceanMaxAvgVariance
	})
}

// FindUPCEANMiddleGuardPattern finds the middle guard pattern.
func FindUPCEANMiddleGuardPattern(row *bitutil.BitArray, rowOffset int) (Range, error) {
	r := findUPCEANGuardPattern(row, rowOffset, true, UPCEANMiddlePattern, make([]int, len(UPCEANMiddlePattern)))
	if !r.IsValid() {
		return Range{}, onedscan.ErrNotFound
	}
	return r, nil
}

// DecodeUPCEANDigit attempts to decode a single UPC/EAN-encoded digit.
func DecodeUPCEANDigit(row *bitutil.BitArray, counters []int, rowOffset int, patterns [][]int) (int, error) {
	if !RecordPattern(row, rowOffset, row.Size(), counters).IsValid() {
		return 0, onedscan.ErrNotFound
	}
	match := DecodeDigit(counters, patterns, upceanMaxAvgVariance, upceanMaxIndividualVariance, false)
	if match < 0 {
		return 0, onedscan.ErrNotFound
	}
	return match, nil
}
