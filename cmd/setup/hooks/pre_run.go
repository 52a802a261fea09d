package hooks

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"ocm.software/open-component-model/buildergen/internal/config"
	bgctx "ocm.software/open-component-model/buildergen/internal/context"
	"ocm.software/open-component-model/buildergen/internal/flags/log"
)

// PreRunE installs the logger configured by the logging flags as default
// logger and resolves the configuration into the command context.
func PreRunE(cmd *cobra.Command, _ []string) error {
	logger, err := log.GetBaseLogger(cmd)
	if err != nil {
		return fmt.Errorf("could not retrieve logger: %w", err)
	}
	slog.SetDefault(logger)

	cfg, err := config.ForCommand(cmd)
	if err != nil {
		return fmt.Errorf("could not load configuration: %w", err)
	}

	bgctx.Register(cmd)
	cmd.SetContext(bgctx.WithConfiguration(cmd.Context(), cfg))

	return nil
}
