package cmd

import (
	"github.com/spf13/cobra"

	"github.com/scopemap/cli/internal/config"
	"github.com/scopemap/cli/internal/mcpserver"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the analysis tools over the Model Context Protocol",
	Long: `Serve runs an MCP server on stdin/stdout exposing two tools:

  code_map   map a directory's architecture
  scan_file  show the structure of one file

Point an MCP client at the scopemap binary with this subcommand:
  {"command": "scopemap", "args": ["serve"]}`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return err
	}
	return mcpserver.New(Version, cfg.Options()).Run(cmd.Context())
}
