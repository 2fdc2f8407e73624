package oned

import "github.com/onedscan/onedscan"

func init() {
	// Register all 1D readers via the multi-format 1D reader.
	oneDReaderFactory := func(opts *onedscan.DecodeOptions) onedscan.Reader {
		return NewMultiFormatOneDReader(opts)
	}
	onedscan.RegisterReader(onedscan.FormatCode128, oneDReaderFactory)
	onedscan.RegisterReader(onedscan.FormatCode39, oneDReaderFactory)
	onedscan.RegisterReader(onedscan.FormatCode93, oneDReaderFactory)
	onedscan.RegisterReader(onedscan.FormatEAN13, oneDReaderFactory)
	onedscan.RegisterReader(onedscan.FormatEAN8, oneDReaderFactory)
	onedscan.RegisterReader(onedscan.FormatUPCA, oneDReaderFactory)
	onedscan.RegisterReader(onedscan.FormatUPCE, oneDReaderFactory)
	onedscan.RegisterReader(onedscan.FormatITF, oneDReaderFactory)
	onedscan.RegisterReader(onedscan.FormatCodabar, oneDReaderFactory)
	onedscan.RegisterReader(onedscan.FormatRSS14, oneDReaderFactory)

	// Register writers
	onedscan.RegisterWriter(onedscan.FormatCode128, func() onedscan.Writer { return NewCode128Writer() })
	onedscan.RegisterWriter(onedscan.FormatCode39, func() onedscan.Writer { return NewCode39Writer() })
	onedscan.RegisterWriter(onedscan.FormatEAN13, func() onedscan.Writer { return NewEAN13Writer() })
	onedscan.RegisterWriter(onedscan.FormatEAN8, func() onedscan.Writer { return NewEAN8Writer() })
	onedscan.RegisterWriter(onedscan.FormatUPCA, func() onedscan.Writer { return NewUPCAWriter() })
	onedscan.RegisterWriter(onedscan.FormatUPCE, func() onedscan.Writer { return NewUPCEWriter() })
	onedscan.RegisterWriter(onedscan.FormatITF, func() onedscan.Writer { return NewITFWriter() })
	onedscan.RegisterWriter(onedscan.FormatCodabar, func() onedscan.Writer { return NewCodabarWriter() })
	onedscan.RegisterWriter(onedscan.FormatCode93, func() onedscan.Writer { return NewCode93Writer() })
}
