package main

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/ironsheep/red-desaturate/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run as an MCP server over stdin/stdout",
	Long: `serve speaks the Model Context Protocol (JSON-RPC 2.0, one message per
line) on stdin/stdout, exposing image_desaturate_red, image_red_mask and
image_resolution as tools. Configure it in your MCP client.

Set RED_DESATURATE_LOG_LEVEL=debug to log each request to stderr.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, opts, err := loadOptions()
		if err != nil {
			return err
		}

		srv := server.New(opts)
		srv.SetDebug(cfg.Debug())
		if err := srv.Run(); err != nil {
			log.Printf("Server error: %v", err)
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
