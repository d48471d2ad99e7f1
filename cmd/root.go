package cmd

import (
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "scopemap",
	Short: "Codebase structure and architecture mapper",
	Long: `Scopemap builds a map of a codebase before you read a single file:
entry points, the most central files, architectural clusters, and the
functions everything else calls.

Analysis runs in two layers. Layer 1 builds the file-level import graph;
layer 2 adds definitions and the call graph. Files that fail to parse
degrade to pattern-based extraction instead of failing the run.`,
	Version: Version,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringP("output", "o", "text", "output format (text, json)")
	rootCmd.PersistentFlags().String("config", "", "config file (default .scopemap.yaml)")
}
