package onedscan

import "github.com/onedscan/onedscan/bitutil"

// LuminanceSource provides access to greyscale luminance values for an image.
type LuminanceSource interface {
	// Row returns a row of luminance data. If row is non-nil and large enough,
	// it should be reused.
	Row(y int, row []byte) []byte

	// Matrix returns the entire luminance matrix.
	Matrix() []byte

	// Width returns the width of the image.
	Width() int

	// Height returns the height of the image.
	Height() int
}

// invertedLuminanceSource wraps a LuminanceSource and reports inverted
// luminance values, so dark reads as light and vice versa.
type invertedLuminanceSource struct {
	delegate LuminanceSource
}

// InvertLuminance returns a LuminanceSource with inverted luminance values.
// Inverting twice returns the original source.
func InvertLuminance(source LuminanceSource) LuminanceSource {
	if inv, ok := source.(*invertedLuminanceSource); ok {
		return inv.delegate
	}
	return &invertedLuminanceSource{delegate: source}
}

func (s *invertedLuminanceSource) Row(y int, row []byte) []byte {
	row = s.delegate.Row(y, row)
	for i := range row {
		row[i] = 255 - row[i]
	}
	return row
}

func (s *invertedLuminanceSource) Matrix() []byte {
	m := s.delegate.Matrix()
	inverted := make([]byte, len(m))
	for i, v := range m {
		inverted[i] = 255 - v
	}
	return inverted
}

func (s *invertedLuminanceSource) Width() int  { return s.delegate.Width() }
func (s *invertedLuminanceSource) Height() int { return s.delegate.Height() }

// Binarizer converts luminance data to 1-bit black/white data.
type Binarizer interface {
	// BlackRow returns a row of black/white values.
	BlackRow(y int, row *bitutil.BitArray) (*bitutil.BitArray, error)

	// BlackMatrix returns the 2D matrix of black/white values.
	BlackMatrix() (*bitutil.BitMatrix, error)

	// LuminanceSource returns the underlying LuminanceSource.
	LuminanceSource() LuminanceSource

	// CreateBinarizer creates a new Binarizer of the same type over source.
	CreateBinarizer(source LuminanceSource) Binarizer

	// Width returns the width of the image.
	Width() int

	// Height returns the height of the image.
	Height() int
}
