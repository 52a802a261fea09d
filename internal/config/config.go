// Package config loads the buildergen configuration file.
//
// The file is YAML and may set any of:
//
//	marker: "+builder:gen=true"
//	output: zz_generated.builder.go
//	exclude:
//	  - "**/vendor"
//	concurrency: 4
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"runtime"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"

	"ocm.software/open-component-model/buildergen/internal/scan"
)

const (
	FileName       = ".buildergen.yaml"
	EnvironmentKey = "BUILDERGEN_CONFIG"
	FlagName       = "config"
)

// Config holds the settings shared by all commands. Flags that were set
// explicitly on the command line take precedence over it.
type Config struct {
	// Marker is the doc comment marker selecting types for derivation.
	Marker string `json:"marker,omitempty"`
	// Output is the name of the generated file in each package.
	Output string `json:"output,omitempty"`
	// Exclude holds doublestar patterns of directories to skip, relative to
	// the scanned root.
	Exclude []string `json:"exclude,omitempty"`
	// Concurrency limits the number of packages generated in parallel.
	Concurrency int `json:"concurrency,omitempty"`
}

// Default returns the configuration used when no file is found.
func Default() *Config {
	return &Config{
		Marker:      scan.DefaultMarker,
		Output:      scan.DefaultOutputFile,
		Concurrency: runtime.NumCPU(),
	}
}

// RegisterConfigFlag registers the persistent --config flag on cmd.
func RegisterConfigFlag(cmd *cobra.Command) {
	cmd.PersistentFlags().String(FlagName, "", `supply configuration by a given configuration file.
Without this flag the file is read from the path in the `+EnvironmentKey+` environment variable,
or from `+FileName+` in the current working directory. Missing files yield the defaults.`)
}

// ForCommand resolves the configuration for cmd. An explicit --config path or
// environment variable must exist; the working directory file is optional.
func ForCommand(cmd *cobra.Command) (*Config, error) {
	if path, _ := cmd.Flags().GetString(FlagName); path != "" {
		return Load(path)
	}
	if path := os.Getenv(EnvironmentKey); path != "" {
		return Load(path)
	}
	cfg, err := Load(FileName)
	if errors.Is(err, fs.ErrNotExist) {
		slog.DebugContext(cmd.Context(), "no configuration file found, using defaults", slog.String("path", FileName))
		return Default(), nil
	}
	return cfg, err
}

// Load reads the configuration file at path. Unset values keep their
// defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("loading configuration from %s: %w", path, err)
	}
	slog.Debug("configuration loaded", slog.String("path", path))
	return cfg, nil
}

// Parse decodes a YAML configuration, fills in defaults and validates it.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.UnmarshalStrict(data, cfg); err != nil {
		return nil, err
	}
	if cfg.Marker == "" {
		cfg.Marker = scan.DefaultMarker
	}
	if cfg.Output == "" {
		cfg.Output = scan.DefaultOutputFile
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports invalid settings.
func (c *Config) Validate() error {
	var errs []error
	if c.Concurrency < 1 {
		errs = append(errs, fmt.Errorf("concurrency must be at least 1, got %d", c.Concurrency))
	}
	for _, pattern := range c.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			errs = append(errs, fmt.Errorf("invalid exclude pattern %q", pattern))
		}
	}
	return errors.Join(errs...)
}

// ScanOptions returns the scan options described by the configuration.
func (c *Config) ScanOptions() scan.Options {
	return scan.Options{
		Marker:     c.Marker,
		OutputFile: c.Output,
		Exclude:    c.Exclude,
	}
}
