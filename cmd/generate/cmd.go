package generate

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	buildercmd "ocm.software/open-component-model/buildergen/cmd/internal/cmd"
	"ocm.software/open-component-model/buildergen/internal/generate"
	"ocm.software/open-component-model/buildergen/internal/watch"
)

const (
	FlagDryRun = "dry-run"
	FlagCheck  = "check"
	FlagWatch  = "watch"
)

// New represents the generate command
func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate [dir...]",
		Short: "Generate builders for marked struct types",
		Long: fmt.Sprintf(`Generate a builder for every struct type whose doc comment carries the marker.

Each directory is walked recursively (the current directory if none is given). Like the go tool,
testdata directories and directories starting with "." or "_" are skipped. Every package containing
marked types gets one generated file holding, per type, a constructor, a builder type, one setter per
field and a Build method. Generated files of packages that no longer contain marked types are removed.

A field is stored depending on its declared type:

- a pointer *T is optional, its setter accepts a T and Build leaves it nil if it was never set.
- a slice []T tagged with builder:"each=<name>" gets a setter <Name> appending a single T.
- any other field is required, Build fails if its setter was never called.

With --%[1]s the generated files are printed instead of written, with --%[2]s the command fails if a
generated file is missing or out of date and with --%[3]s the packages are regenerated on every change
until the command is interrupted.`, FlagDryRun, FlagCheck, FlagWatch),
		Example: `  # generate builders for all packages below the current directory
  buildergen generate

  # verify in CI that committed builders are up to date
  buildergen generate --check ./...

  # regenerate while editing, skipping vendored code
  buildergen generate --watch --exclude "**/vendor" ./pkg`,
		RunE:              GenerateBuilders,
		DisableAutoGenTag: true,
	}

	buildercmd.RegisterScanFlags(cmd.Flags())
	cmd.Flags().Bool(FlagDryRun, false, "print the generated files to stdout instead of writing them")
	cmd.Flags().Bool(FlagCheck, false, "fail if a generated file is missing, stale or out of date, without writing anything")
	cmd.Flags().Bool(FlagWatch, false, "keep running and regenerate packages whenever their sources change")
	cmd.MarkFlagsMutuallyExclusive(FlagDryRun, FlagCheck, FlagWatch)

	return cmd
}

func GenerateBuilders(cmd *cobra.Command, args []string) error {
	cfg, err := buildercmd.Configuration(cmd)
	if err != nil {
		return err
	}

	mode := generate.ModeWrite
	if dryRun, _ := cmd.Flags().GetBool(FlagDryRun); dryRun {
		mode = generate.ModeDryRun
	}
	if check, _ := cmd.Flags().GetBool(FlagCheck); check {
		mode = generate.ModeCheck
	}
	watching, _ := cmd.Flags().GetBool(FlagWatch)

	roots := rootsFromArgs(args)
	logger := slog.Default()
	gen := generate.New(
		generate.WithScanOptions(cfg.ScanOptions()),
		generate.WithConcurrency(cfg.Concurrency),
		generate.WithMode(mode),
		generate.WithOutput(cmd.OutOrStdout()),
		generate.WithLogger(logger),
	)

	ctx := cmd.Context()
	results, err := gen.Run(ctx, roots)
	summarize(cmd, results)
	if !watching {
		return err
	}
	if err != nil {
		logger.ErrorContext(ctx, "initial generation failed", slog.String("error", err.Error()))
	}

	dirs, err := gen.Packages(roots)
	if err != nil {
		return err
	}
	return watch.New(gen,
		watch.WithOutputFile(cfg.Output),
		watch.WithLogger(logger),
	).Watch(ctx, dirs)
}

// rootsFromArgs accepts the go tool's "./..." pattern as a plain directory,
// directories are always walked recursively.
func rootsFromArgs(args []string) []string {
	if len(args) == 0 {
		return []string{"."}
	}
	roots := make([]string, len(args))
	for i, arg := range args {
		roots[i] = trimEllipsis(arg)
	}
	return roots
}

func trimEllipsis(arg string) string {
	if arg == "..." {
		return "."
	}
	if dir, ok := strings.CutSuffix(arg, "/..."); ok && dir != "" {
		return dir
	}
	return arg
}

func summarize(cmd *cobra.Command, results []generate.Result) {
	counts := map[generate.Status]int{}
	for _, r := range results {
		counts[r.Status]++
	}
	attrs := []any{slog.Int("packages", len(results))}
	for _, status := range []generate.Status{
		generate.StatusWritten,
		generate.StatusUnchanged,
		generate.StatusRemoved,
		generate.StatusPrinted,
		generate.StatusOutdated,
		generate.StatusMissing,
		generate.StatusStale,
	} {
		if n := counts[status]; n > 0 {
			attrs = append(attrs, slog.Int(string(status), n))
		}
	}
	slog.InfoContext(cmd.Context(), "generation finished", attrs...)
}
