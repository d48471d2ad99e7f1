package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/scopemap/cli/internal/codemap"
	"github.com/scopemap/cli/internal/config"
	"github.com/scopemap/cli/internal/domain"
	"github.com/scopemap/cli/internal/ui"
)

// mapCmd represents the map command
var mapCmd = &cobra.Command{
	Use:   "map [path]",
	Short: "Map the architecture of a codebase",
	Long: `Map analyzes the specified codebase (or current directory) to report:
- Entry points (main functions, script guards, app instances)
- The most central files by import relationships
- Architectural clusters (entry points, core logic, plugins, utilities)
- The call graph and its hottest functions

Example usage:
  scopemap map                      # Map current directory
  scopemap map /path/to/project     # Map specific directory
  scopemap map --layer2=false       # File-level graph only
  scopemap map --output json        # Output results as JSON`,
	Args: cobra.MaximumNArgs(1),
	RunE: runMap,
}

func init() {
	rootCmd.AddCommand(mapCmd)

	mapCmd.Flags().Bool("layer2", true, "Extract definitions and the call graph")
	mapCmd.Flags().Int("top", 0, "Number of hot functions to report")
	mapCmd.Flags().Int("max-files", 0, "Cap on the number of files analyzed")
	mapCmd.Flags().Int("workers", 0, "Parallel analysis workers (0 = CPU count)")
	mapCmd.Flags().StringSliceP("exclude", "e", nil, "Extra exclude globs (doublestar syntax)")
}

func runMap(cmd *cobra.Command, args []string) error {
	targetPath := "."
	if len(args) > 0 {
		targetPath = args[0]
	}

	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return err
	}

	opts := cfg.Options()
	if layer2 := cmd.Flags().Lookup("layer2"); layer2.Changed {
		opts.EnableLayer2, _ = cmd.Flags().GetBool("layer2")
	}
	if top, _ := cmd.Flags().GetInt("top"); top > 0 {
		opts.TopN = top
	}
	if maxFiles, _ := cmd.Flags().GetInt("max-files"); maxFiles > 0 {
		opts.MaxFiles = maxFiles
	}
	if workers, _ := cmd.Flags().GetInt("workers"); workers > 0 {
		opts.Workers = workers
	}
	if excludes, _ := cmd.Flags().GetStringSlice("exclude"); len(excludes) > 0 {
		opts.Excludes = append(opts.Excludes, excludes...)
	}

	pipeline, err := codemap.New(targetPath, nil, opts)
	if err != nil {
		return err
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	outputFormat, _ := cmd.Flags().GetString("output")
	if outputFormat == "" {
		outputFormat = cfg.Output.Format
	}

	if verbose {
		ui.Logf("Mapping codebase at: %s\n", targetPath)
	}

	ctx := cmd.Context()

	var result *domain.CodeMapResult
	if outputFormat == "json" {
		// No TUI when output is machine-readable.
		result, err = pipeline.Run(ctx)
	} else {
		err = ui.RunSpinner(ctx, "Mapping codebase...", func() error {
			var e error
			result, e = pipeline.Run(ctx)
			return e
		})
	}
	if err != nil {
		return err
	}

	switch outputFormat {
	case "json":
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(result)
	default:
		fmt.Print(ui.RenderCodeMap(result, cfg.Output.MaxEntries))
		return nil
	}
}
