package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ironsheep/red-desaturate/internal/pipeline"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <image>",
	Short: "Report how many pixels would be replaced, without writing anything",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, opts, err := loadOptions()
		if err != nil {
			return err
		}

		report, err := pipeline.Inspect(args[0], opts)
		if err != nil {
			return err
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		}

		fmt.Printf("Image:      %s (%s, %dx%d)\n", report.Path, report.Format, report.Width, report.Height)
		fmt.Printf("Resolution: %s\n", report.Resolution)
		fmt.Printf("Threshold:  %s\n", report.Threshold)
		fmt.Printf("Matched:    %d pixels (%.2f%%)\n", report.MatchedPixels, report.Percentage)
		if b := report.MatchBounds; b != nil {
			fmt.Printf("Bounds:     (%d,%d)-(%d,%d)\n", b.X1, b.Y1, b.X2, b.Y2)
		}
		return nil
	},
}

func init() {
	inspectCmd.Flags().Bool("json", false, "print the report as JSON")
	rootCmd.AddCommand(inspectCmd)
}
