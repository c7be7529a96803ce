package main

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/ironsheep/red-desaturate/internal/pipeline"
)

func runDesaturate(cmd *cobra.Command, args []string) error {
	inputPath, _ := cmd.Flags().GetString("input")
	outputPath, _ := cmd.Flags().GetString("output")

	switch {
	case len(args) == 2 && inputPath == "" && outputPath == "":
		inputPath, outputPath = args[0], args[1]
	case len(args) == 1 && inputPath == "":
		inputPath = args[0]
	case len(args) > 0:
		return fmt.Errorf("give input and output either as flags or as arguments, not both")
	}
	if inputPath == "" || outputPath == "" {
		return cmd.Help()
	}

	cfg, opts, err := loadOptions()
	if err != nil {
		return err
	}
	if cfg.Debug() {
		log.Printf("threshold %s, replacement %s, optimize %v", opts.Threshold, opts.Replacement.Hex(), opts.Optimize)
	}

	result, err := pipeline.Run(inputPath, outputPath, opts)
	if err != nil {
		return err
	}

	origin := "from input"
	if !result.Resolution.FromSource {
		origin = "default"
	}
	fmt.Printf("Replaced %d of %d pixels (%s) with %s\n",
		result.MatchedPixels, result.Width*result.Height, opts.Threshold, result.Replacement)
	fmt.Printf("Resolution: %s (%s)\n", result.Resolution, origin)
	fmt.Printf("Saved high-quality PNG to: %s\n", result.OutputPath)
	return nil
}
