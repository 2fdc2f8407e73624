package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	// Decode support for formats the imaging package does not register.
	_ "golang.org/x/image/webp"

	"github.com/onedscan/onedscan"
	"github.com/onedscan/onedscan/binarizer"

	// Register all symbology readers.
	_ "github.com/onedscan/onedscan/oned"
)

// scanFormats lists every format to attempt when none is requested.
var scanFormats = []onedscan.Format{
	onedscan.FormatCode128,
	onedscan.FormatCode39,
	onedscan.FormatCode93,
	onedscan.FormatEAN13,
	onedscan.FormatEAN8,
	onedscan.FormatUPCA,
	onedscan.FormatUPCE,
	onedscan.FormatITF,
	onedscan.FormatCodabar,
	onedscan.FormatRSS14,
}

// scanCmd represents the scan command.
var scanCmd = &cobra.Command{
	Use:   "scan [flags] <image-file> [image-file...]",
	Short: "Detect and decode barcodes in image files",
	Long: `Scan one or more image files for linear barcodes.

Supported image formats: JPEG, PNG, GIF, BMP, TIFF, WebP.

Examples:
  onedscan scan photo.jpg
  onedscan scan --try-harder --inverted *.png
  onedscan scan --format EAN_13 --format UPC_A shelf.jpg --output-format json`,
	Args:         cobra.ArbitraryArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return errors.New("no input files provided")
		}

		formats, err := requestedFormats(viper.GetStringSlice("scan.formats"))
		if err != nil {
			return err
		}

		opts := &onedscan.DecodeOptions{
			TryHarder:    viper.GetBool("scan.try_harder"),
			PureBarcode:  viper.GetBool("scan.pure"),
			AlsoInverted: viper.GetBool("scan.inverted"),
		}

		outFormat := viper.GetString("scan.output_format")
		if outFormat != "text" && outFormat != "json" {
			return fmt.Errorf("invalid output format: %s (must be text or json)", outFormat)
		}

		failed := false
		for _, path := range args {
			results, err := scanFile(path, formats, opts)
			if err != nil {
				slog.Error("scan failed", "file", path, "error", err)
				failed = true
				continue
			}
			if len(results) == 0 {
				slog.Warn("no barcodes found", "file", path)
				failed = true
				continue
			}
			if err := printResults(cmd, path, results, outFormat, len(args) > 1); err != nil {
				return err
			}
		}
		if failed {
			return errors.New("one or more files could not be decoded")
		}
		return nil
	},
}

// requestedFormats parses the --format values, defaulting to all symbologies.
func requestedFormats(names []string) ([]onedscan.Format, error) {
	if len(names) == 0 {
		return scanFormats, nil
	}
	formats := make([]onedscan.Format, 0, len(names))
	for _, name := range names {
		f, ok := onedscan.ParseFormat(strings.ToUpper(strings.TrimSpace(name)))
		if !ok {
			return nil, fmt.Errorf("unknown barcode format: %s", name)
		}
		formats = append(formats, f)
	}
	return formats, nil
}

func scanFile(path string, formats []onedscan.Format, opts *onedscan.DecodeOptions) ([]*onedscan.Result, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	slog.Debug("image loaded", "file", path,
		"width", img.Bounds().Dx(), "height", img.Bounds().Dy())

	source := onedscan.NewImageLuminanceSource(img)

	// Try the global-histogram binarizer first (fast, works well for clean
	// renders), then the hybrid binarizer (local adaptive thresholding,
	// better for photographs with uneven lighting).
	bitmaps := []*onedscan.BinaryBitmap{
		onedscan.NewBinaryBitmap(binarizer.NewGlobalHistogram(source)),
		onedscan.NewBinaryBitmap(binarizer.NewHybrid(source)),
	}

	var results []*onedscan.Result
	seen := map[string]bool{}

	for i, bitmap := range bitmaps {
		for _, format := range formats {
			formatOpts := *opts
			formatOpts.PossibleFormats = []onedscan.Format{format}

			result, err := tryDecode(bitmap, &formatOpts)
			if err != nil {
				continue
			}
			key := fmt.Sprintf("%s:%s", result.Format, result.Text)
			if seen[key] {
				continue
			}
			seen[key] = true
			slog.Debug("decoded", "file", path, "format", result.Format.String(),
				"binarizer", i, "text", result.Text)
			results = append(results, result)
		}
	}

	return results, nil
}

// tryDecode calls onedscan.Decode but recovers from panics that decoders may
// raise on malformed input, converting them to errors.
func tryDecode(bitmap *onedscan.BinaryBitmap, opts *onedscan.DecodeOptions) (result *onedscan.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("decoder panic: %v", r)
		}
	}()
	return onedscan.Decode(bitmap, opts)
}

type scanResult struct {
	File   string `json:"file"`
	Format string `json:"format"`
	Text   string `json:"text"`
}

func printResults(cmd *cobra.Command, path string, results []*onedscan.Result, outFormat string, multi bool) error {
	out := cmd.OutOrStdout()
	if outFormat == "json" {
		objs := make([]scanResult, 0, len(results))
		for _, r := range results {
			objs = append(objs, scanResult{File: path, Format: r.Format.String(), Text: r.Text})
		}
		bts, err := json.MarshalIndent(objs, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal results: %w", err)
		}
		_, err = fmt.Fprintln(out, string(bts))
		return err
	}
	for _, r := range results {
		if multi {
			if _, err := fmt.Fprintf(out, "%s: ", path); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(out, "[%s] %s\n", r.Format, r.Text); err != nil {
			return err
		}
	}
	return nil
}

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().Bool("try-harder", false, "spend more time looking for barcodes")
	scanCmd.Flags().Bool("pure", false, "hint that the image is a clean barcode render with minimal border")
	scanCmd.Flags().Bool("inverted", false, "also look for barcodes with inverted colors")
	scanCmd.Flags().StringSliceP("format", "f", nil, "restrict to the given formats (e.g. EAN_13, CODE_128); repeatable")
	scanCmd.Flags().StringP("output-format", "o", "text", "output format (text, json)")

	bindings := []struct {
		key  string
		flag string
	}{
		{"scan.try_harder", "try-harder"},
		{"scan.pure", "pure"},
		{"scan.inverted", "inverted"},
		{"scan.formats", "format"},
		{"scan.output_format", "output-format"},
	}
	for _, b := range bindings {
		if err := viper.BindPFlag(b.key, scanCmd.Flags().Lookup(b.flag)); err != nil {
			panic(fmt.Sprintf("failed to bind flag %s: %v", b.flag, err))
		}
	}
}
