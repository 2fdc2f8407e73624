package oned

import (
	"github.com/onedscan/onedscan"
	"github.com/onedscan/onedscan/bitutil"
)

// MultiFormatOneDReader attempts to decode 1D barcodes by trying multiple
// format-specific readers in sequence.
type MultiFormatOneDReader struct {
	readers []RowDecoder
}

// multiState holds one decoding state slot per sub-reader so that stateful
// readers keep their own cross-row context.
type multiState struct {
	states []DecodingState
}

// NewMultiFormatOneDReader creates a new multi-format reader configured by opts.
func NewMultiFormatOneDReader(opts *onedscan.DecodeOptions) *MultiFormatOneDReader {
	var readers []RowDecoder

	if opts != nil && len(opts.PossibleFormats) > 0 {
		formats := make(map[onedscan.Format]bool)
		for _, f := range opts.PossibleFormats {
			formats[f] = true
		}
		if formats[onedscan.FormatEAN13] || formats[onedscan.FormatUPCA] ||
			formats[onedscan.FormatEAN8] || formats[onedscan.FormatUPCE] {
			readers = append(readers, NewEAN13Reader(), NewEAN8Reader(), NewUPCAReader(), NewUPCEReader())
		}
		if formats[onedscan.FormatCode39] {
			useCheckDigit := opts.AssumeCode39CheckDigit
			readers = append(readers, NewCode39ReaderWithCheckDigit(useCheckDigit, false))
		}
		if formats[onedscan.FormatCode93] {
			readers = append(readers, NewCode93Reader())
		}
		if formats[onedscan.FormatCode128] {
			readers = append(readers, NewCode128Reader())
		}
		if formats[onedscan.FormatITF] {
			readers = append(readers, NewITFReader())
		}
		if formats[onedscan.FormatCodabar] {
			readers = append(readers, NewCodabarReader())
		}
		if formats[onedscan.FormatRSS14] {
			readers = append(readers, NewRSS14Reader())
		}
	}

	if len(readers) == 0 {
		readers = []RowDecoder{
			NewEAN13Reader(),
			NewEAN8Reader(),
			NewUPCAReader(),
			NewUPCEReader(),
			NewCode39Reader(),
			NewCode93Reader(),
			NewCode128Reader(),
			NewITFReader(),
			NewCodabarReader(),
			NewRSS14Reader(),
		}
	}

	return &MultiFormatOneDReader{readers: readers}
}

// DecodeRow tries each reader in sequence until one succeeds. Each sub-reader
// gets its own decoding state slot, threaded across rows.
func (r *MultiFormatOneDReader) DecodeRow(rowNumber int, row *bitutil.BitArray, opts *onedscan.DecodeOptions, state *DecodingState) (*onedscan.Result, error) {
	var local DecodingState
	if state == nil {
		state = &local
	}
	st, ok := (*state).(*multiState)
	if !ok {
		st = &multiState{states: make([]DecodingState, len(r.readers))}
		*state = st
	}

	for i, reader := range r.readers {
		result, err := reader.DecodeRow(rowNumber, row, opts, &st.states[i])
		if err == nil {
			return result, nil
		}
	}
	return nil, onedscan.ErrNotFound
}

// Decode decodes a 1D barcode from the given image.
func (r *MultiFormatOneDReader) Decode(image *onedscan.BinaryBitmap, opts *onedscan.DecodeOptions) (*onedscan.Result, error) {
	return DecodeOneD(image, r, opts)
}

// Reset is a no-op for 1D readers: per-scan state lives in the DecodingState
// threaded by the caller, not in the reader itself.
func (r *MultiFormatOneDReader) Reset() {}

// Ensure MultiFormatOneDReader implements RowDecoder at compile time.
var _ RowDecoder = (*MultiFormatOneDReader)(nil)
