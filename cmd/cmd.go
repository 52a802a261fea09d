package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"ocm.software/open-component-model/buildergen/cmd/docs"
	"ocm.software/open-component-model/buildergen/cmd/generate"
	"ocm.software/open-component-model/buildergen/cmd/inspect"
	"ocm.software/open-component-model/buildergen/cmd/setup/hooks"
	"ocm.software/open-component-model/buildergen/cmd/version"
	"ocm.software/open-component-model/buildergen/internal/config"
	"ocm.software/open-component-model/buildergen/internal/flags/log"
)

// Execute runs the root command with ctx. It is called by main.main().
func Execute(ctx context.Context) error {
	return New().ExecuteContext(ctx)
}

func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "buildergen [sub-command]",
		Short: "Derive builder types for Go structs",
		Long: `buildergen derives a builder for every struct type marked with a "+builder:gen=true" doc comment.

It is meant to run from go:generate directives:

  //go:generate go run ocm.software/open-component-model/buildergen generate .

The derived builder offers one chainable setter per field and a Build method that fails
if a required field was never set.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		PersistentPreRunE: hooks.PreRunE,
		DisableAutoGenTag: true,
		SilenceUsage:      true,
	}

	config.RegisterConfigFlag(cmd)
	log.RegisterLoggingFlags(cmd.PersistentFlags())
	cmd.AddCommand(generate.New())
	cmd.AddCommand(inspect.New())
	cmd.AddCommand(version.New())
	cmd.AddCommand(docs.New())
	return cmd
}
