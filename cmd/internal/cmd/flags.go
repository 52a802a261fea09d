package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"ocm.software/open-component-model/buildergen/internal/config"
	bgctx "ocm.software/open-component-model/buildergen/internal/context"
)

const (
	// MarkerFlag Flag to specify the doc comment marker selecting the types to derive builders for.
	MarkerFlag = "marker"
	// OutputFileFlag Flag to specify the name of the file generated in each package.
	OutputFileFlag = "output-file"
	// ExcludeFlag Flag to specify doublestar patterns of directories to skip, relative to each root.
	ExcludeFlag = "exclude"
	// ConcurrencyLimitFlag Flag to specify how many packages are processed in parallel.
	ConcurrencyLimitFlag = "concurrency-limit"
)

// RegisterScanFlags registers the flags that override the scan settings of
// the configuration file.
func RegisterScanFlags(flags *pflag.FlagSet) {
	defaults := config.Default()
	flags.String(MarkerFlag, defaults.Marker, "doc comment marker selecting the struct types to derive builders for")
	flags.String(OutputFileFlag, defaults.Output, "name of the file generated in each package")
	flags.StringSlice(ExcludeFlag, nil, "doublestar patterns of directories to skip, relative to each root (e.g. \"**/vendor\")")
	flags.Int(ConcurrencyLimitFlag, defaults.Concurrency, "maximum number of packages processed in parallel")
}

// Configuration returns the configuration of the command context with all
// explicitly set scan flags applied on top.
func Configuration(cmd *cobra.Command) (*config.Config, error) {
	cfg := *bgctx.FromContext(cmd.Context()).Configuration()

	flags := cmd.Flags()
	var err error
	if changed(flags, MarkerFlag) {
		if cfg.Marker, err = flags.GetString(MarkerFlag); err != nil {
			return nil, err
		}
	}
	if changed(flags, OutputFileFlag) {
		if cfg.Output, err = flags.GetString(OutputFileFlag); err != nil {
			return nil, err
		}
	}
	if changed(flags, ExcludeFlag) {
		if cfg.Exclude, err = flags.GetStringSlice(ExcludeFlag); err != nil {
			return nil, err
		}
	}
	if changed(flags, ConcurrencyLimitFlag) {
		if cfg.Concurrency, err = flags.GetInt(ConcurrencyLimitFlag); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func changed(flags *pflag.FlagSet, name string) bool {
	flag := flags.Lookup(name)
	return flag != nil && flag.Changed
}
