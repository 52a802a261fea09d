// Package generate drives builder derivation over directory trees: it finds
// packages, renders their generated file and writes, prints or verifies it.
package generate

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"

	"ocm.software/open-component-model/buildergen/internal/assemble"
	"ocm.software/open-component-model/buildergen/internal/scan"
)

// ErrOutdated is returned in ModeCheck if a generated file differs from what
// would be generated.
var ErrOutdated = errors.New("generated files are out of date")

// Mode selects what happens with the rendered files.
type Mode int

const (
	// ModeWrite writes changed files and removes stale ones.
	ModeWrite Mode = iota
	// ModeDryRun prints the rendered files and leaves the tree untouched.
	ModeDryRun
	// ModeCheck only compares the rendered files with the tree.
	ModeCheck
)

// Status is the outcome for a single package.
type Status string

const (
	StatusWritten   Status = "written"
	StatusUnchanged Status = "unchanged"
	StatusRemoved   Status = "removed"
	StatusPrinted   Status = "printed"
	StatusOutdated  Status = "outdated"
	StatusMissing   Status = "missing"
	StatusStale     Status = "stale"
	// StatusSkipped is reported for packages without marked types and without
	// a previously generated file.
	StatusSkipped Status = "skipped"
)

// Result describes what was done for a package directory.
type Result struct {
	Dir     string
	File    string
	Records []string
	Status  Status
}

// Generator renders builders for all packages below a set of roots.
type Generator struct {
	scanOptions scan.Options
	concurrency int
	mode        Mode
	out         io.Writer
	logger      *slog.Logger
}

// Option configures a Generator.
type Option func(*Generator)

// WithScanOptions sets the marker, output file and exclude patterns.
func WithScanOptions(opts scan.Options) Option {
	return func(g *Generator) {
		g.scanOptions = opts
	}
}

// WithConcurrency limits the number of packages processed in parallel.
// Values below 1 are ignored.
func WithConcurrency(limit int) Option {
	return func(g *Generator) {
		if limit > 0 {
			g.concurrency = limit
		}
	}
}

// WithMode sets the Mode, ModeWrite by default.
func WithMode(mode Mode) Option {
	return func(g *Generator) {
		g.mode = mode
	}
}

// WithOutput sets the writer rendered files are printed to in ModeDryRun.
func WithOutput(w io.Writer) Option {
	return func(g *Generator) {
		g.out = w
	}
}

// WithLogger sets the logger, slog.Default() by default.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) {
		g.logger = logger
	}
}

// New creates a Generator.
func New(opts ...Option) *Generator {
	g := &Generator{
		concurrency: runtime.NumCPU(),
		out:         io.Discard,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// OutputFile returns the name of the generated file.
func (g *Generator) OutputFile() string {
	if g.scanOptions.OutputFile == "" {
		return scan.DefaultOutputFile
	}
	return g.scanOptions.OutputFile
}

// Packages returns the package directories below roots in walk order.
// Directories reachable from several roots are returned once.
func (g *Generator) Packages(roots []string) ([]string, error) {
	var dirs []string
	seen := map[string]bool{}
	for _, root := range roots {
		found, err := scan.FindPackages(root, g.scanOptions)
		if err != nil {
			return nil, fmt.Errorf("finding packages in %s: %w", root, err)
		}
		for _, dir := range found {
			abs, err := filepath.Abs(dir)
			if err != nil {
				return nil, err
			}
			if !seen[abs] {
				seen[abs] = true
				dirs = append(dirs, dir)
			}
		}
	}
	return dirs, nil
}

// Run processes every package below roots. A failing package does not stop
// the others; all failures are joined into the returned error. The results
// are ordered like the packages.
func (g *Generator) Run(ctx context.Context, roots []string) ([]Result, error) {
	dirs, err := g.Packages(roots)
	if err != nil {
		return nil, err
	}
	return g.run(ctx, dirs)
}

func (g *Generator) run(ctx context.Context, dirs []string) ([]Result, error) {
	results := make([]Result, len(dirs))
	rendered := make([][]byte, len(dirs))

	var mu sync.Mutex
	var errs []error

	eg, egctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.concurrency)
	for i, dir := range dirs {
		eg.Go(func() error {
			if err := egctx.Err(); err != nil {
				return err
			}
			result, src, err := g.process(egctx, dir)
			if err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("package %s: %w", dir, err))
				mu.Unlock()
				return nil
			}
			results[i] = result
			rendered[i] = src
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	if g.mode == ModeDryRun {
		for i, src := range rendered {
			if src == nil {
				continue
			}
			if _, err := fmt.Fprintf(g.out, "// %s\n%s", results[i].File, src); err != nil {
				return nil, err
			}
		}
	}

	// failed packages leave a zero Result behind
	results = slices.DeleteFunc(results, func(r Result) bool { return r.Dir == "" })

	if g.mode == ModeCheck {
		for _, r := range results {
			switch r.Status {
			case StatusOutdated, StatusMissing, StatusStale:
				errs = append(errs, fmt.Errorf("%s is %s: %w", r.File, r.Status, ErrOutdated))
			}
		}
	}

	return results, errors.Join(errs...)
}

// Package processes a single package directory.
func (g *Generator) Package(ctx context.Context, dir string) (Result, error) {
	results, err := g.run(ctx, []string{dir})
	if len(results) == 0 {
		return Result{Dir: dir, File: filepath.Join(dir, g.OutputFile())}, err
	}
	return results[0], err
}

// process renders dir and applies the mode. The rendered source is returned
// for ModeDryRun.
func (g *Generator) process(ctx context.Context, dir string) (Result, []byte, error) {
	target := filepath.Join(dir, g.OutputFile())
	result := Result{Dir: dir, File: target}

	pkg, err := scan.Package(dir, g.scanOptions)
	if err != nil {
		return result, nil, err
	}
	for _, record := range pkg.Records {
		result.Records = append(result.Records, record.Name)
	}

	existing, err := os.ReadFile(target)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return result, nil, err
	}
	exists := err == nil

	if len(pkg.Records) == 0 {
		result.Status, err = g.cleanup(ctx, target, existing, exists)
		return result, nil, err
	}

	src, err := assemble.File(pkg, target)
	if err != nil {
		return result, nil, err
	}

	switch g.mode {
	case ModeDryRun:
		result.Status = StatusPrinted
		return result, src, nil
	case ModeCheck:
		switch {
		case !exists:
			result.Status = StatusMissing
		case !bytes.Equal(existing, src):
			result.Status = StatusOutdated
		default:
			result.Status = StatusUnchanged
		}
		return result, nil, nil
	}

	if exists && bytes.Equal(existing, src) {
		g.logger.DebugContext(ctx, "generated file is up to date", slog.String("file", target))
		result.Status = StatusUnchanged
		return result, nil, nil
	}
	if err := os.WriteFile(target, src, 0o644); err != nil {
		return result, nil, fmt.Errorf("failed to write generated file: %w", err)
	}
	g.logger.InfoContext(ctx, "generated builders",
		slog.String("package", pkg.Name),
		slog.String("file", target),
		slog.Any("records", result.Records))
	result.Status = StatusWritten
	return result, nil, nil
}

// cleanup handles a package without marked types. A previously generated
// file is stale and gets removed; files not written by the generator are
// left alone.
func (g *Generator) cleanup(ctx context.Context, target string, existing []byte, exists bool) (Status, error) {
	if !exists || !IsGenerated(existing) {
		return StatusSkipped, nil
	}
	switch g.mode {
	case ModeCheck:
		return StatusStale, nil
	case ModeDryRun:
		g.logger.InfoContext(ctx, "would remove stale generated file", slog.String("file", target))
		return StatusStale, nil
	}
	if err := os.Remove(target); err != nil {
		return StatusStale, fmt.Errorf("failed to remove stale generated file: %w", err)
	}
	g.logger.InfoContext(ctx, "removed stale generated file", slog.String("file", target))
	return StatusRemoved, nil
}

// IsGenerated reports whether src carries the header of a file written by
// this generator.
func IsGenerated(src []byte) bool {
	return bytes.Contains(src, []byte(assemble.Header()+"\n"))
}
