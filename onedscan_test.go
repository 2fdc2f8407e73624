package onedscan_test

import (
	"image"
	"testing"

	"github.com/onedscan/onedscan"
	"github.com/onedscan/onedscan/binarizer"

	// Import the format package to trigger init() registration.
	_ "github.com/onedscan/onedscan/oned"
)

func encodeAndDecode(t *testing.T, content string, format onedscan.Format, width, height int) *onedscan.Result {
	t.Helper()

	matrix, err := onedscan.Encode(content, format, width, height, nil)
	if err != nil {
		t.Fatalf("Encode(%s, %s) failed: %v", content, format, err)
	}
	if matrix.Width() == 0 || matrix.Height() == 0 {
		t.Fatalf("encoded matrix is empty")
	}

	img := onedscan.BitMatrixToImage(matrix)

	source := onedscan.NewGrayImageLuminanceSource(img)
	bin := binarizer.NewGlobalHistogram(source)
	bitmap := onedscan.NewBinaryBitmap(bin)

	// PureBarcode since we are decoding from a clean render.
	opts := &onedscan.DecodeOptions{
		PossibleFormats: []onedscan.Format{format},
		PureBarcode:     true,
	}
	result, err := onedscan.Decode(bitmap, opts)
	if err != nil {
		t.Fatalf("Decode(%s) failed: %v", format, err)
	}
	return result
}

func TestRoundTripCode128(t *testing.T) {
	content := "Hello123"
	result := encodeAndDecode(t, content, onedscan.FormatCode128, 300, 100)
	if result.Text != content {
		t.Errorf("Code128 round-trip: got %q, want %q", result.Text, content)
	}
}

func TestRoundTripCode39(t *testing.T) {
	content := "HELLO"
	result := encodeAndDecode(t, content, onedscan.FormatCode39, 300, 100)
	if result.Text != content {
		t.Errorf("Code39 round-trip: got %q, want %q", result.Text, content)
	}
}

func TestRoundTripCode93(t *testing.T) {
	content := "CODE93"
	result := encodeAndDecode(t, content, onedscan.FormatCode93, 300, 100)
	if result.Text != content {
		t.Errorf("Code93 round-trip: got %q, want %q", result.Text, content)
	}
}

func TestRoundTripEAN13(t *testing.T) {
	content := "5901234123457"
	result := encodeAndDecode(t, content, onedscan.FormatEAN13, 500, 100)
	if result.Text != content {
		t.Errorf("EAN-13 round-trip: got %q, want %q", result.Text, content)
	}
}

func TestRoundTripEAN8(t *testing.T) {
	content := "96385074"
	result := encodeAndDecode(t, content, onedscan.FormatEAN8, 300, 100)
	if result.Text != content {
		t.Errorf("EAN-8 round-trip: got %q, want %q", result.Text, content)
	}
}

func TestRoundTripUPCA(t *testing.T) {
	content := "012345678905"
	// UPC-A is encoded as EAN-13 with a leading 0, and the EAN-13 reader is
	// tried first within the UPC/EAN family, so a UPC-A render decodes as the
	// 13-digit EAN-13 string.
	result := encodeAndDecode(t, content, onedscan.FormatUPCA, 500, 100)
	expected := "0" + content
	if result.Text != expected {
		t.Errorf("UPC-A round-trip: got %q, want %q", result.Text, expected)
	}
}

func TestRoundTripUPCE(t *testing.T) {
	content := "01234565"
	result := encodeAndDecode(t, content, onedscan.FormatUPCE, 400, 100)
	if result.Text != content {
		t.Errorf("UPC-E round-trip: got %q, want %q", result.Text, content)
	}
}

func TestRoundTripITF(t *testing.T) {
	content := "00123456789012"
	result := encodeAndDecode(t, content, onedscan.FormatITF, 400, 100)
	if result.Text != content {
		t.Errorf("ITF round-trip: got %q, want %q", result.Text, content)
	}
}

func TestRoundTripCodabar(t *testing.T) {
	content := "1234-5678"
	result := encodeAndDecode(t, content, onedscan.FormatCodabar, 400, 100)
	if result.Text != content {
		t.Errorf("Codabar round-trip: got %q, want %q", result.Text, content)
	}
}

func TestDecodeInvertedImage(t *testing.T) {
	content := "Hello123"
	matrix, err := onedscan.Encode(content, onedscan.FormatCode128, 300, 100, nil)
	if err != nil {
		t.Fatal(err)
	}

	img := onedscan.BitMatrixToImage(matrix)
	inverted := image.NewGray(img.Bounds())
	for i, v := range img.Pix {
		inverted.Pix[i] = 255 - v
	}

	source := onedscan.NewGrayImageLuminanceSource(inverted)
	bitmap := onedscan.NewBinaryBitmap(binarizer.NewGlobalHistogram(source))

	opts := &onedscan.DecodeOptions{
		PossibleFormats: []onedscan.Format{onedscan.FormatCode128},
		PureBarcode:     true,
	}
	if _, err := onedscan.Decode(bitmap, opts); err == nil {
		t.Fatal("expected inverted image to fail without AlsoInverted")
	}

	opts.AlsoInverted = true
	source = onedscan.NewGrayImageLuminanceSource(inverted)
	bitmap = onedscan.NewBinaryBitmap(binarizer.NewGlobalHistogram(source))
	result, err := onedscan.Decode(bitmap, opts)
	if err != nil {
		t.Fatalf("Decode with AlsoInverted failed: %v", err)
	}
	if result.Text != content {
		t.Errorf("inverted round-trip: got %q, want %q", result.Text, content)
	}
}

func TestHybridBinarizerRoundTrip(t *testing.T) {
	content := "5901234123457"
	matrix, err := onedscan.Encode(content, onedscan.FormatEAN13, 500, 200, nil)
	if err != nil {
		t.Fatal(err)
	}
	img := onedscan.BitMatrixToImage(matrix)

	source := onedscan.NewGrayImageLuminanceSource(img)
	bitmap := onedscan.NewBinaryBitmap(binarizer.NewHybrid(source))

	result, err := onedscan.Decode(bitmap, &onedscan.DecodeOptions{
		PossibleFormats: []onedscan.Format{onedscan.FormatEAN13},
	})
	if err != nil {
		t.Fatalf("Decode via hybrid binarizer failed: %v", err)
	}
	if result.Text != content {
		t.Errorf("hybrid round-trip: got %q, want %q", result.Text, content)
	}
}

func TestEncodeTopLevelAPI(t *testing.T) {
	formats := []struct {
		format  onedscan.Format
		content string
		width   int
		height  int
	}{
		{onedscan.FormatCode128, "Test", 300, 100},
		{onedscan.FormatCode39, "TEST", 300, 100},
		{onedscan.FormatCode93, "TEST", 300, 100},
		{onedscan.FormatEAN13, "5901234123457", 300, 100},
		{onedscan.FormatEAN8, "96385074", 300, 100},
		{onedscan.FormatUPCA, "012345678905", 300, 100},
		{onedscan.FormatUPCE, "01234565", 300, 100},
		{onedscan.FormatITF, "123456", 300, 100},
		{onedscan.FormatCodabar, "123456", 300, 100},
	}
	for _, tc := range formats {
		t.Run(tc.format.String(), func(t *testing.T) {
			matrix, err := onedscan.Encode(tc.content, tc.format, tc.width, tc.height, nil)
			if err != nil {
				t.Fatalf("Encode failed: %v", err)
			}
			if matrix.Width() == 0 || matrix.Height() == 0 {
				t.Fatal("empty result")
			}
		})
	}
}

func TestEncodeUnwritableFormat(t *testing.T) {
	if _, err := onedscan.Encode("123", onedscan.FormatRSS14, 300, 100, nil); err == nil {
		t.Error("expected error for RSS-14, which has no writer")
	}
}

func TestParseFormat(t *testing.T) {
	f, ok := onedscan.ParseFormat("EAN_13")
	if !ok || f != onedscan.FormatEAN13 {
		t.Errorf("ParseFormat(EAN_13) = %v, %v", f, ok)
	}
	if _, ok := onedscan.ParseFormat("CODE_11"); ok {
		t.Error("expected ParseFormat to reject CODE_11")
	}
}

func TestImageLuminanceSource(t *testing.T) {
	matrix, err := onedscan.Encode("TEST", onedscan.FormatCode39, 200, 50, nil)
	if err != nil {
		t.Fatal(err)
	}
	img := onedscan.BitMatrixToImage(matrix)
	source := onedscan.NewGrayImageLuminanceSource(img)

	if source.Width() != img.Bounds().Dx() {
		t.Errorf("width: got %d, want %d", source.Width(), img.Bounds().Dx())
	}
	if source.Height() != img.Bounds().Dy() {
		t.Errorf("height: got %d, want %d", source.Height(), img.Bounds().Dy())
	}

	lum := source.Matrix()
	if len(lum) != source.Width()*source.Height() {
		t.Errorf("matrix length: got %d, want %d", len(lum), source.Width()*source.Height())
	}

	row := source.Row(0, nil)
	if len(row) != source.Width() {
		t.Errorf("row length: got %d, want %d", len(row), source.Width())
	}
}
