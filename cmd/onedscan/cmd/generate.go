package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/onedscan/onedscan"

	// Register all symbology writers.
	_ "github.com/onedscan/onedscan/oned"
)

// generateCmd represents the generate command.
var generateCmd = &cobra.Command{
	Use:   "generate [flags] <contents>",
	Short: "Render a barcode image",
	Long: `Generate a barcode image for the given contents.

The output format is inferred from the file extension (PNG, JPEG, GIF,
BMP or TIFF).

Examples:
  onedscan generate --format CODE_128 --output label.png "HELLO-123"
  onedscan generate --format EAN_13 --width 400 --height 120 -O ean.png 5901234123457
  onedscan generate --format CODE_128 --gs1 -O gs1.png "0109501101530003"`,
	Args:         cobra.ArbitraryArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 {
			return errors.New("exactly one contents argument is required")
		}
		contents := args[0]

		name := strings.ToUpper(strings.TrimSpace(viper.GetString("generate.format")))
		if name == "" {
			return errors.New("--format is required")
		}
		format, ok := onedscan.ParseFormat(name)
		if !ok {
			return fmt.Errorf("unknown barcode format: %s", name)
		}

		width := viper.GetInt("generate.width")
		height := viper.GetInt("generate.height")
		if width <= 0 || height <= 0 {
			return fmt.Errorf("invalid dimensions %dx%d (must be positive)", width, height)
		}

		opts := &onedscan.EncodeOptions{
			GS1Format:    viper.GetBool("generate.gs1"),
			ForceCodeSet: viper.GetString("generate.force_code_set"),
		}
		if cmd.Flags().Changed("margin") {
			margin := viper.GetInt("generate.margin")
			if margin < 0 {
				return fmt.Errorf("invalid margin %d (must not be negative)", margin)
			}
			opts.Margin = &margin
		}

		matrix, err := onedscan.Encode(contents, format, width, height, opts)
		if err != nil {
			return fmt.Errorf("encode %s: %w", format, err)
		}

		output := viper.GetString("generate.output")
		img := onedscan.BitMatrixToImage(matrix)
		if err := imaging.Save(img, output); err != nil {
			return fmt.Errorf("save image: %w", err)
		}
		slog.Info("barcode written", "file", output, "format", format.String(),
			"width", matrix.Width(), "height", matrix.Height())

		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s barcode to %s\n", format, output); err != nil {
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringP("format", "f", "", "barcode format to generate (e.g. CODE_128, EAN_13)")
	generateCmd.Flags().StringP("output", "O", "barcode.png", "output image file")
	generateCmd.Flags().Int("width", 300, "minimum image width in pixels")
	generateCmd.Flags().Int("height", 100, "image height in pixels")
	generateCmd.Flags().Int("margin", 0, "quiet-zone width in modules (default is per-symbology)")
	generateCmd.Flags().Bool("gs1", false, "encode as a GS1 barcode (Code 128 only)")
	generateCmd.Flags().String("force-code-set", "", "force a Code 128 code set (A, B or C)")

	bindings := []struct {
		key  string
		flag string
	}{
		{"generate.format", "format"},
		{"generate.output", "output"},
		{"generate.width", "width"},
		{"generate.height", "height"},
		{"generate.margin", "margin"},
		{"generate.gs1", "gs1"},
		{"generate.force_code_set", "force-code-set"},
	}
	for _, b := range bindings {
		if err := viper.BindPFlag(b.key, generateCmd.Flags().Lookup(b.flag)); err != nil {
			panic(fmt.Sprintf("failed to bind flag %s: %v", b.flag, err))
		}
	}
}
