package oned

import (
	"fmt"

	"github.com/onedscan/onedscan"
)

// UPCEANEncoder encodes the full contents of a UPC/EAN barcode into a
// boolean module pattern.
type UPCEANEncoder interface {
	EncodeContents(contents string) ([]bool, error)
}

var (
	_ UPCEANEncoder = (*EAN13Writer)(nil)
	_ UPCEANEncoder = (*EAN8Writer)(nil)
	_ UPCEANEncoder = (*UPCEWriter)(nil)
)

// CheckUPCEANDigits validates that a string contains only digits.
func CheckUPCEANDigits(s string) error {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return fmt.Errorf("contents contain non-digit character: %c", s[i])
		}
	}
	return nil
}

// CheckUPCEANLength validates the length and optionally computes/validates the check digit.
// expectedWithout is the length without check digit, expectedWith is the length with check digit.
func CheckUPCEANLength(contents string, expectedWithout, expectedWith int) (string, error) {
	length := len(contents)
	switch length {
	case expectedWithout:
		check := GetStandardUPCEANChecksum(contents)
		if check < 0 {
			return "", onedscan.ErrFormat
		}
		contents += string(rune('0' + check))
	case expectedWith:
		if !CheckStandardUPCEANChecksum(contents) {
			return "", fmt.Errorf("contents do not pass checksum")
		}
	default:
		return "", fmt.Errorf("requested contents should be %d or %d digits long, but got %d",
			expectedWithout, expectedWith, length)
	}
	if err := CheckUPCEANDigits(contents); err != nil {
		return "", err
	}
	return contents, nil
}
