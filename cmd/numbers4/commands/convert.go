package commands

import (
	"fmt"

	"numbers4-backend/lib/serviceutil"
	"numbers4-backend/lib/timezone"
	"numbers4-backend/services/numbers4"

	"github.com/spf13/cobra"
)

var convertFlags struct {
	input   *string
	output  *string
	compact *bool
}

func init() {
	convertFlags.input = convertCmd.Flags().StringP("input", "i", "", "Input CSV path, defaults to the configured dataset.")
	convertFlags.output = convertCmd.Flags().StringP("output", "o", "api/v1", "Output directory for the JSON artifacts.")
	convertFlags.compact = convertCmd.Flags().Bool("compact", false, "Write the history lists without indentation.")
	rootCmd.AddCommand(convertCmd)
}

var convertCmd = &cobra.Command{
	Use:   "convert [--input <csv>] [--output <dir>] [--compact]",
	Short: "Converts the canonical dataset into the published JSON artifacts.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := readConfig()
		if err != nil {
			serviceutil.Fatal("failed to read config", err)
		}

		input := cfg.Csv
		if *convertFlags.input != "" {
			input = *convertFlags.input
		}

		version, err := numbers4.Convert(cmd.Context(), input, *convertFlags.output, *convertFlags.compact, timezone.Now())
		if err != nil {
			serviceutil.Fatal("conversion failed", err)
		}

		fmt.Printf("published %s (%d records, latest %s on %s)\n",
			version.Version,
			version.TotalRecords,
			numbers4.FormatDrawLabel(version.LatestDrawNo),
			version.LatestDate,
		)
	},
}
