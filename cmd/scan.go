package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/scopemap/cli/internal/scan"
)

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan <file>",
	Short: "Show the structure of a single source file",
	Long: `Scan extracts the table of contents of one source file: imports,
classes, functions, and methods with their line ranges.

Example usage:
  scopemap scan internal/server/handler.py
  scopemap scan main.go --output json`,
	Args: cobra.ExactArgs(1),
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	result, err := scan.NewScanner(nil).ScanFile(args[0])
	if err != nil {
		return err
	}

	outputFormat, _ := cmd.Flags().GetString("output")
	switch outputFormat {
	case "json":
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(result)
	default:
		fmt.Print(result.FormatTree())
		return nil
	}
}
