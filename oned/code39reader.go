package oned

import (
	"strings"

	"github.com/onedscan/onedscan"
	"github.com/onedscan/onedscan/bitutil"
)

// code39Alphabet is in check-digit order: the index of a character is its
// checksum weight.
const code39Alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ-. $/+%"

// code39DecodeAlphabet additionally contains the start/stop asterisk.
const code39DecodeAlphabet = code39Alphabet + "*"

// code39CharacterEncodings holds the narrow/wide bitmask (9 runs, MSB first,
// 1 = wide) for each character of code39DecodeAlphabet.
var code39CharacterEncodings = []int{
	0x034, 0x121, 0x061, 0x160, 0x031, 0x130, 0x070, 0x025, 0x124, 0x064, // 0-9
	0x109, 0x049, 0x148, 0x019, 0x118, 0x058, 0x00D, 0x10C, 0x04C, 0x01C, // A-J
	0x103, 0x043, 0x142, 0x013, 0x112, 0x052, 0x007, 0x106, 0x046, 0x016, // K-T
	0x181, 0x0C1, 0x1C0, 0x091, 0x190, 0x0D0, 0x085, 0x184, 0x0C4, 0x0A8, // U-$
	0x0A2, 0x08A, 0x02A, // /, +, %
	0x094, // *
}

const code39AsteriskEncoding = 0x094

// Code39Reader decodes Code 39 barcodes.
type Code39Reader struct {
	usingCheckDigit bool
	extendedMode    bool
}

// NewCode39Reader creates a new Code 39 reader.
func NewCode39Reader() *Code39Reader {
	return &Code39Reader{}
}

// NewCode39ReaderWithCheckDigit creates a Code 39 reader that validates a check digit.
func NewCode39ReaderWithCheckDigit(usingCheckDigit, extendedMode bool) *Code39Reader {
	return &Code39Reader{usingCheckDigit: usingCheckDigit, extendedMode: extendedMode}
}

// DecodeRow decodes a Code 39 barcode from a single row.
func (r *Code39Reader) DecodeRow(rowNumber int, row *bitutil.BitArray, opts *onedscan.DecodeOptions, state *DecodingState) (*onedscan.Result, error) {
	counters := make([]int, 9)
	window := findCode39AsteriskPattern(row, counters)
	if !window.IsValid() {
		return nil, onedscan.ErrNotFound
	}
	return r.DecodePattern(rowNumber, row, window, opts, state)
}

// DecodePattern decodes a Code 39 barcode whose start pattern occupies the
// given window.
func (r *Code39Reader) DecodePattern(rowNumber int, row *bitutil.BitArray, window Range, opts *onedscan.DecodeOptions, _ *DecodingState) (*onedscan.Result, error) {
	counters := make([]int, 9)
	var result strings.Builder

	nextStart := row.GetNextSet(window.End)
	end := row.Size()

	var decodedChar byte
	var lastStart int
	for {
		if !RecordPattern(row, nextStart, end, counters).IsValid() {
			return nil, onedscan.ErrNotFound
		}
		ch, ok := DecodeNarrowWidePattern(counters, code39CharacterEncodings, code39DecodeAlphabet)
		if !ok {
			return nil, onedscan.ErrNotFound
		}
		decodedChar = ch
		result.WriteByte(decodedChar)
		lastStart = nextStart
		for _, c := range counters {
			nextStart += c
		}
		nextStart = row.GetNextSet(nextStart)
		if decodedChar == '*' {
			break
		}
	}
	// Remove trailing asterisk
	s := result.String()
	s = s[:len(s)-1]

	lastPatternSize := 0
	for _, c := range counters {
		lastPatternSize += c
	}
	whiteSpaceAfterEnd := nextStart - lastStart - lastPatternSize
	if nextStart != end && whiteSpaceAfterEnd*2 < lastPatternSize {
		return nil, onedscan.ErrNotFound
	}

	if r.usingCheckDigit || (opts != nil && opts.AssumeCode39CheckDigit) {
		max := len(s) - 1
		if max < 1 {
			return nil, onedscan.ErrNotFound
		}
		total := 0
		for i := 0; i < max; i++ {
			total += strings.IndexByte(code39Alphabet, s[i])
		}
		if s[max] != code39Alphabet[total%43] {
			return nil, onedscan.ErrChecksum
		}
		s = s[:max]
	}

	if len(s) == 0 {
		return nil, onedscan.ErrNotFound
	}

	var resultString string
	if r.extendedMode {
		var err error
		resultString, err = decodeCode39Extended(s)
		if err != nil {
			return nil, err
		}
	} else {
		resultString = s
	}

	left := float64(window.Begin+window.End) / 2.0
	right := float64(lastStart) + float64(lastPatternSize)/2.0
	res := onedscan.NewResult(
		resultString, nil,
		[]onedscan.ResultPoint{
			{X: left, Y: float64(rowNumber)},
			{X: right, Y: float64(rowNumber)},
		},
		onedscan.FormatCode39,
	)
	res.PutMetadata(onedscan.MetadataSymbologyIdentifier, "]A0")
	return res, nil
}

// findCode39AsteriskPattern locates the start/stop asterisk. A candidate is
// accepted only when preceded by a quiet zone at least half its own width.
func findCode39AsteriskPattern(row *bitutil.BitArray, counters []int) Range {
	begin := row.GetNextSet(0)
	end := row.Size()
	return FindPattern(row, begin, end, counters, func(begin, end int, counters []int) bool {
		if ToNarrowWidePattern(counters) != code39AsteriskEncoding {
			return false
		}
		whiteStart := begin - (end-begin)/2
		if whiteStart < 0 {
			whiteStart = 0
		}
		return row.IsRange(whiteStart, begin, false)
	})
}

func decodeCode39Extended(encoded string) (string, error) {
	var decoded strings.Builder
	for i := 0; i < len(encoded); i++ {
		c := encoded[i]
		if c == '+' || c == '$' || c == '%' || c == '/' {
			if i+1 >= len(encoded) {
				return "", onedscan.ErrFormat
			}
			next := encoded[i+1]
			var decodedChar byte
			switch c {
			case '+':
				if next >= 'A' && next <= 'Z' {
					decodedChar = next + 32
				} else {
					return "", onedscan.ErrFormat
				}
			case '$':
				if next >= 'A' && next <= 'Z' {
					decodedChar = next - 64
				} else {
					return "", onedscan.ErrFormat
				}
			case '%':
				if next >= 'A' && next <= 'E' {
					decodedChar = next - 38
				} else if next >= 'F' && next <= 'J' {
					decodedChar = next - 11
				} else if next >= 'K' && next <= 'O' {
					decodedChar = next + 16
				} else if next >= 'P' && next <= 'T' {
					decodedChar = next + 43
				} else if next == 'U' {
					decodedChar = 0
				} else if next == 'V' {
					decodedChar = '@'
				} else if next == 'W' {
					decodedChar = '`'
				} else if next == 'X' || next == 'Y' || next == 'Z' {
					decodedChar = 127
				} else {
					return "", onedscan.ErrFormat
				}
			case '/':
				if next >= 'A' && next <= 'O' {
					decodedChar = next - 32
				} else if next == 'Z' {
					decodedChar = ':'
				} else {
					return "", onedscan.ErrFormat
				}
			}
			decoded.WriteByte(decodedChar)
			i++
		} else {
			decoded.WriteByte(c)
		}
	}
	return decoded.String(), nil
}
