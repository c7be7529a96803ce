package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/ironsheep/red-desaturate/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration as YAML",
	Long: `config prints the settings a run would use after merging defaults, the
config file, RED_DESATURATE_* environment variables and flags. The output is a
valid red-desaturate.yaml.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadOptions()
		if err != nil {
			return err
		}
		out, err := config.Marshal(cfg)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(out)
		return err
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
