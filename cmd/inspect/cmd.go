package inspect

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	buildercmd "ocm.software/open-component-model/buildergen/cmd/internal/cmd"
	"ocm.software/open-component-model/buildergen/internal/flags/enum"
	"ocm.software/open-component-model/buildergen/internal/generate"
	"ocm.software/open-component-model/buildergen/internal/render"
)

const (
	FlagOutput          = "output"
	FlagOutputShorthand = "o"
)

// New represents the inspect command
func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect [dir...]",
		Short: "Show how the fields of marked struct types are derived",
		Long: `Show, for every field of every marked struct type, its kind, the setter generated for it and whether
Build requires it to be set. Nothing is written.

The kinds are:

- OptionalWrapped: a pointer field, optional and nil unless set.
- RepeatedAppend: a slice field tagged with builder:"each=<name>", filled one element at a time.
- Plain: any other field, required.`,
		Example: `  buildergen inspect ./examples/command
  buildergen inspect -o yaml .`,
		RunE:              InspectRecords,
		DisableAutoGenTag: true,
	}

	buildercmd.RegisterScanFlags(cmd.Flags())
	enum.VarP(cmd.Flags(), FlagOutput, FlagOutputShorthand, render.Formats(), "output format of the field reports")

	return cmd
}

func InspectRecords(cmd *cobra.Command, args []string) error {
	cfg, err := buildercmd.Configuration(cmd)
	if err != nil {
		return err
	}
	format, err := enum.Get(cmd.Flags(), FlagOutput)
	if err != nil {
		return fmt.Errorf("getting output format failed: %w", err)
	}

	roots := args
	if len(roots) == 0 {
		roots = []string{"."}
	}

	gen := generate.New(
		generate.WithScanOptions(cfg.ScanOptions()),
		generate.WithConcurrency(cfg.Concurrency),
	)
	reports, inspectErr := gen.Inspect(cmd.Context(), roots)
	if err := render.Reports(cmd.OutOrStdout(), format, reports); err != nil {
		return errors.Join(inspectErr, err)
	}
	return inspectErr
}
