// Package log configures the slog logger of the buildergen command from its
// persistent flags. It supports text and JSON output, the usual levels and
// writing to stderr or stdout.
package log

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"ocm.software/open-component-model/buildergen/internal/flags/enum"
)

const (
	FormatFlagName = "logformat"

	FormatText = "text"
	FormatJSON = "json"
)

const (
	LevelFlagName = "loglevel"

	LevelInfo  = "info"
	LevelDebug = "debug"
	LevelWarn  = "warn"
	LevelError = "error"
)

const (
	OutputFlagName = "logoutput"

	// OutputStderr is the default so that generated source printed with
	// --dry-run stays separate from logs.
	OutputStderr = "stderr"
	OutputStdout = "stdout"
)

// RegisterLoggingFlags registers FormatFlagName, LevelFlagName and
// OutputFlagName on flagset. They are meant to be persistent flags of the
// root command.
//
//	--logformat json --loglevel debug --logoutput stdout
func RegisterLoggingFlags(flagset *pflag.FlagSet) {
	enum.Var(flagset, FormatFlagName, []string{
		FormatText,
		FormatJSON,
	}, `set the log output format that is used to print individual logs
   json: Output logs in JSON format, suitable for machine processing
   text: Output logs in human-readable text format, suitable for console output`)

	enum.Var(flagset, LevelFlagName, []string{
		LevelInfo,
		LevelDebug,
		LevelWarn,
		LevelError,
	}, `sets the logging level
   debug: Show all logs including skipped files and directories
   info:  Show generated, unchanged and removed files (default)
   warn:  Show warnings and errors only
   error: Show errors only`)

	enum.Var(flagset, OutputFlagName, []string{
		OutputStderr,
		OutputStdout,
	}, `set the log output destination
   stderr: Write logs to standard error (default)
   stdout: Write logs to standard output`)
}

// GetBaseLogger creates a logger from the logging flags of cmd.
func GetBaseLogger(cmd *cobra.Command) (*slog.Logger, error) {
	level, err := levelFromCommand(cmd)
	if err != nil {
		return nil, fmt.Errorf("failed to get log level: %w", err)
	}

	format, err := enum.Get(cmd.Flags(), FormatFlagName)
	if err != nil {
		return nil, fmt.Errorf("failed to get the log format from the command flag: %w", err)
	}

	output, err := enum.Get(cmd.Flags(), OutputFlagName)
	if err != nil {
		return nil, fmt.Errorf("failed to get the log output from the command flag: %w", err)
	}

	var w io.Writer
	switch output {
	case OutputStdout:
		w = cmd.OutOrStdout()
	case OutputStderr:
		w = cmd.ErrOrStderr()
	default:
		return nil, fmt.Errorf("invalid log output: %s", output)
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	switch format {
	case FormatJSON:
		handler = slog.NewJSONHandler(w, opts)
	case FormatText:
		handler = slog.NewTextHandler(w, opts)
	default:
		return nil, fmt.Errorf("invalid log format: %s", format)
	}

	return slog.New(handler), nil
}

func levelFromCommand(cmd *cobra.Command) (slog.Level, error) {
	value, err := enum.Get(cmd.Flags(), LevelFlagName)
	if err != nil {
		return slog.LevelInfo, err
	}
	switch value {
	case LevelDebug:
		return slog.LevelDebug, nil
	case LevelInfo:
		return slog.LevelInfo, nil
	case LevelWarn:
		return slog.LevelWarn, nil
	case LevelError:
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid log level: %s", value)
	}
}
