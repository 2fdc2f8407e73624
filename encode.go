package onedscan

import "github.com/onedscan/onedscan/bitutil"

// EncodeOptions configures barcode encoding behavior.
type EncodeOptions struct {
	// Margin specifies the margin (quiet zone) in modules around the barcode.
	Margin *int

	// GS1Format encodes in GS1 format.
	GS1Format bool

	// ForceCodeSet forces a specific code set (e.g., for Code 128).
	ForceCodeSet string
}

// Writer encodes data into a barcode.
type Writer interface {
	// Encode encodes the given contents into a barcode.
	Encode(contents string, format Format, width, height int, opts *EncodeOptions) (*bitutil.BitMatrix, error)
}
