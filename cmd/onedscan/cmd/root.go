package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "onedscan",
	Short: "Decode and generate linear (1D) barcodes",
	Long: `onedscan reads and writes one-dimensional barcodes.

Supported symbologies: Code 128, Code 39, Code 93, EAN-13, EAN-8,
UPC-A, UPC-E, ITF, Codabar and RSS-14 (decode only).

Examples:
  onedscan scan photo.jpg
  onedscan scan --try-harder --format EAN_13 shelf.png
  onedscan generate --format CODE_128 --output label.png "HELLO-123"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output (equivalent to --log-level=debug)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")

	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))

	viper.SetEnvPrefix("ONEDSCAN")
	viper.AutomaticEnv()

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		var level slog.Level
		if viper.GetBool("verbose") {
			level = slog.LevelDebug
		} else {
			switch viper.GetString("log_level") {
			case "debug":
				level = slog.LevelDebug
			case "warn":
				level = slog.LevelWarn
			case "error":
				level = slog.LevelError
			default:
				level = slog.LevelInfo
			}
		}

		logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
			Level: level,
		}))
		slog.SetDefault(logger)
	}
}
