// Package main is the entry point for the red-desaturate CLI.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ironsheep/red-desaturate/internal/config"
	"github.com/ironsheep/red-desaturate/internal/pipeline"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// v holds the merged configuration for the running command.
var v *viper.Viper

var rootCmd = &cobra.Command{
	Use:   "red-desaturate [input] [output.png]",
	Short: "Replace red regions of an image with a neutral gray",
	Long: `red-desaturate finds pixels whose color is strongly red (R>150, G<100,
B<100 by default), overwrites them with a light gray (#DCDCDC by default) and
saves the result as a lossless PNG that keeps the source's print resolution.

Input and output may be given with -i/-o or as two positional arguments.`,
	Args:          cobra.MaximumNArgs(2),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runDesaturate,
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./red-desaturate.yaml or ~/.config/red-desaturate/red-desaturate.yaml)")
	pf.String("color", "", "replacement color as #RRGGBB (default #DCDCDC)")
	pf.Int("red-min", 0, "red channel must be strictly greater (default 150)")
	pf.Int("green-max", 0, "green channel must be strictly less (default 100)")
	pf.Int("blue-max", 0, "blue channel must be strictly less (default 100)")
	pf.Float64("default-dpi", 0, "resolution written when the input declares none (default 300)")
	pf.Bool("optimize", true, "use maximum PNG compression")

	rootCmd.Flags().StringP("input", "i", "", "input image file")
	rootCmd.Flags().StringP("output", "o", "", "output PNG file")
}

// flagKeys maps persistent flags to their config keys.
var flagKeys = map[string]string{
	"color":       config.KeyColor,
	"red-min":     config.KeyRedMin,
	"green-max":   config.KeyGreenMax,
	"blue-max":    config.KeyBlueMax,
	"default-dpi": config.KeyDefaultDPI,
	"optimize":    config.KeyOptimize,
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	v = config.NewViper(cfgFile)

	// Only flags the user actually set override file and env values.
	for flag, key := range flagKeys {
		if f := rootCmd.PersistentFlags().Lookup(flag); f != nil && f.Changed {
			_ = v.BindPFlag(key, f)
		}
	}
}

// loadOptions reads the config file and returns the effective settings.
func loadOptions() (*config.Config, pipeline.Options, error) {
	used, err := config.ReadFile(v)
	if err != nil {
		return nil, pipeline.Options{}, err
	}

	cfg, err := config.Load(v)
	if err != nil {
		return nil, pipeline.Options{}, err
	}
	if cfg.Debug() {
		log.Printf("red-desaturate %s (built %s, commit %s)", Version, BuildTime, GitCommit)
		if used != "" {
			log.Printf("Using config file: %s", used)
		}
	}

	opts, err := cfg.Options()
	if err != nil {
		return nil, pipeline.Options{}, err
	}
	return cfg, opts, nil
}

func main() {
	// Configure logging to stderr (stdout carries results and the MCP protocol)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
