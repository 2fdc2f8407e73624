package oned

import (
	"fmt"
	"strings"

	"github.com/onedscan/onedscan"
	"github.com/onedscan/onedscan/bitutil"
)

// CodabarWriter encodes Codabar barcodes.
type CodabarWriter struct{}

// NewCodabarWriter creates a new Codabar writer.
func NewCodabarWriter() *CodabarWriter {
	return &CodabarWriter{}
}

var codabarAltStartEndChars = [4]byte{'T', 'N', '*', 'E'}

// Encode encodes the given contents into a Codabar barcode BitMatrix.
func (w *CodabarWriter) Encode(contents string, format onedscan.Format, width, height int, opts *onedscan.EncodeOptions) (*bitutil.BitMatrix, error) {
	if format != onedscan.FormatCodabar {
		return nil, fmt.Errorf("can only encode CODABAR, but got %s", format)
	}
	code, err := w.encode(contents)
	if err != nil {
		return nil, err
	}
	return RenderOneDCode(code, width, height, oneDMargin(opts)), nil
}

func (w *CodabarWriter) encode(contents string) ([]bool, error) {
	if len(contents) < 2 {
		// Can't have a start/end guard, so tentatively add default guards
		contents = "A" + contents + "A"
	} else {
		// Verify input and normalize the guards.
		upper := strings.ToUpper(contents)
		firstChar := upper[0]
		lastChar := upper[len(upper)-1]
		startsNormal := isCodabarStartEnd(firstChar)
		endsNormal := isCodabarStartEnd(lastChar)
		startsAlt := codabarIsAltStartEnd(firstChar)
		endsAlt := codabarIsAltStartEnd(lastChar)
		if startsNormal {
			if !endsNormal {
				return nil, fmt.Errorf("invalid start/end guards: %s", contents)
			}
			// already has valid start/end, use uppercase
			contents = string(firstChar) + contents[1:len(contents)-1] + string(lastChar)
		} else if startsAlt {
			if !endsAlt {
				return nil, fmt.Errorf("invalid start/end guards: %s", contents)
			}
			// Map alt chars to standard
			first := codabarMapAltChar(firstChar)
			last := codabarMapAltChar(lastChar)
			contents = string(first) + contents[1:len(contents)-1] + string(last)
		} else {
			if endsNormal || endsAlt {
				return nil, fmt.Errorf("invalid start/end guards: %s", contents)
			}
			// Doesn't end with guard either, so add a default
			contents = "A" + contents + "A"
		}
	}

	// Total width: sum of each character's element widths, plus a one-module
	// space between characters.
	resultLength := len(contents) - 1
	for index := 0; index < len(contents); index++ {
		c := contents[index]
		if index == 0 || index == len(contents)-1 {
			c = codabarMapAltChar(c)
		}
		idx := strings.IndexByte(codabarAlphabet, c)
		if idx < 0 {
			return nil, fmt.Errorf("cannot encode: '%c'", c)
		}
		resultLength += sumInts(codabarCharacterEncodings[idx])
	}

	result := make([]bool, resultLength)
	position := 0
	for index := 0; index < len(contents); index++ {
		c := contents[index]
		if index == 0 || index == len(contents)-1 {
			// Map alt start/end chars
			c = codabarMapAltChar(c)
		}
		idx := strings.IndexByte(codabarAlphabet, c)
		position += AppendPattern(result, position, codabarCharacterEncodings[idx], true)
		if index < len(contents)-1 {
			result[position] = false
			position++
		}
	}
	return result, nil
}

func codabarIsAltStartEnd(c byte) bool {
	for _, alt := range codabarAltStartEndChars {
		if c == alt {
			return true
		}
	}
	return false
}

// codabarMapAltChar maps alternate start/end characters to standard ones.
func codabarMapAltChar(c byte) byte {
	switch c {
	case 'T':
		return 'A'
	case 'N':
		return 'B'
	case '*':
		return 'C'
	case 'E':
		return 'D'
	default:
		return c
	}
}
