// Package config provides configuration loading and management for imgcompress.
// It handles loading configuration from YAML files and provides default values.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration loaded from YAML
type Config struct {
	// Clustering parameters for the k-means engine
	Clustering struct {
		// MaxIterations caps the refinement loop so clustering always terminates
		MaxIterations int `yaml:"maxIterations"`

		// Tolerance is the centroid movement threshold for convergence
		Tolerance float64 `yaml:"tolerance"`

		// Seed drives centroid initialization; the same seed reproduces results
		Seed int64 `yaml:"seed"`

		// ReseedRetries bounds recovery attempts for clusters that lose all members
		ReseedRetries int `yaml:"reseedRetries"`
	} `yaml:"clustering"`

	// Analysis parameters for multi-level runs
	Analysis struct {
		// Levels is the sequence of palette sizes tested by full analysis
		Levels []int `yaml:"levels"`

		// Workers bounds how many levels are compressed concurrently
		Workers int `yaml:"workers"`

		// ContinueOnError skips failing levels instead of aborting the batch
		ContinueOnError bool `yaml:"continueOnError"`
	} `yaml:"analysis"`

	// Output parameters
	Output struct {
		// ReportDir is where comparison sheets and charts are written
		ReportDir string `yaml:"reportDir"`

		// PaletteSwatches is how many dominant colors the report palette shows
		PaletteSwatches int `yaml:"paletteSwatches"`

		// Verbose controls the level of logging output
		Verbose bool `yaml:"verbose"`
	} `yaml:"output"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	// Set default clustering parameters
	cfg.Clustering.MaxIterations = 100
	cfg.Clustering.Tolerance = 1e-4
	cfg.Clustering.Seed = 42
	cfg.Clustering.ReseedRetries = 5

	// Set default analysis parameters
	cfg.Analysis.Levels = []int{4, 8, 16, 32, 64, 128}
	cfg.Analysis.Workers = runtime.NumCPU()
	cfg.Analysis.ContinueOnError = false

	// Set default output parameters
	cfg.Output.ReportDir = "comparisons"
	cfg.Output.PaletteSwatches = 20
	cfg.Output.Verbose = true

	return cfg
}

// LoadConfig loads configuration from a YAML file
// If the file doesn't exist, it returns the default configuration
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	// Read config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Parse YAML
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file
func SaveConfig(cfg *Config, configPath string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	// Marshal config to YAML
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	// Write to file
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// CreateDefaultConfigFile creates a default configuration file at the specified path
func CreateDefaultConfigFile(configPath string) error {
	cfg := DefaultConfig()
	return SaveConfig(cfg, configPath)
}
