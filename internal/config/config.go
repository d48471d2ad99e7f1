package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/scopemap/cli/internal/codemap"
)

// Config represents the scopemap configuration
type Config struct {
	// Analysis settings
	Analysis AnalysisConfig `json:"analysis" yaml:"analysis"`

	// Output settings
	Output OutputConfig `json:"output" yaml:"output"`
}

// AnalysisConfig contains analysis-specific settings
type AnalysisConfig struct {
	// Paths to exclude from analysis, as doublestar globs
	ExcludePaths []string `json:"exclude_paths" yaml:"exclude_paths"`

	// Maximum number of files to analyze
	MaxFiles int `json:"max_files" yaml:"max_files"`

	// Whether to extract definitions and the call graph
	EnableLayer2 bool `json:"enable_layer2" yaml:"enable_layer2"`

	// Number of parallel analysis workers (0 = CPU count)
	Workers int `json:"workers" yaml:"workers"`

	// Per-file analysis timeout in seconds
	FileTimeoutSeconds int `json:"file_timeout_seconds" yaml:"file_timeout_seconds"`

	// Number of hot functions to report
	TopFunctions int `json:"top_functions" yaml:"top_functions"`
}

// OutputConfig contains output formatting settings
type OutputConfig struct {
	// Default output format (text, json)
	Format string `json:"format" yaml:"format"`

	// Maximum entries per section in text output
	MaxEntries int `json:"max_entries" yaml:"max_entries"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	defaults := codemap.DefaultOptions()
	return &Config{
		Analysis: AnalysisConfig{
			ExcludePaths:       []string{},
			MaxFiles:           defaults.MaxFiles,
			EnableLayer2:       defaults.EnableLayer2,
			FileTimeoutSeconds: int(defaults.FileTimeout / time.Second),
			TopFunctions:       defaults.TopN,
		},
		Output: OutputConfig{
			Format:     "text",
			MaxEntries: 15,
		},
	}
}

// Validate checks the configuration for values the pipeline would reject.
func (c *Config) Validate() error {
	if c.Analysis.MaxFiles < 0 {
		return fmt.Errorf("analysis.max_files must not be negative")
	}
	if c.Analysis.Workers < 0 {
		return fmt.Errorf("analysis.workers must not be negative")
	}
	if c.Analysis.FileTimeoutSeconds < 0 {
		return fmt.Errorf("analysis.file_timeout_seconds must not be negative")
	}
	switch c.Output.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("output.format must be text or json, got %q", c.Output.Format)
	}
	return nil
}

// Options converts the configuration into pipeline options.
func (c *Config) Options() codemap.Options {
	return codemap.Options{
		MaxFiles:     c.Analysis.MaxFiles,
		EnableLayer2: c.Analysis.EnableLayer2,
		Workers:      c.Analysis.Workers,
		FileTimeout:  time.Duration(c.Analysis.FileTimeoutSeconds) * time.Second,
		TopN:         c.Analysis.TopFunctions,
		Excludes:     c.Analysis.ExcludePaths,
	}
}

// LoadConfig loads configuration from a file. A missing file is not an
// error: the defaults apply.
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if configPath == "" {
		configPath = findConfigFile()
	}
	if configPath == "" {
		return config, nil
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return config, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", configPath, err)
	}
	return config, nil
}

// SaveConfig saves configuration to a file
func SaveConfig(config *Config, configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// findConfigFile looks for config files in common locations
func findConfigFile() string {
	candidates := []string{
		".scopemap.yaml",
		".scopemap.yml",
	}
	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	homeDir, err := os.UserHomeDir()
	if err == nil {
		homeCandidates := []string{
			filepath.Join(homeDir, ".scopemap.yaml"),
			filepath.Join(homeDir, ".scopemap.yml"),
		}
		for _, candidate := range homeCandidates {
			if _, err := os.Stat(candidate); err == nil {
				return candidate
			}
		}
	}
	return ""
}
