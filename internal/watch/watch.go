// Package watch regenerates builders when Go sources of watched packages
// change.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"ocm.software/open-component-model/buildergen/internal/generate"
	"ocm.software/open-component-model/buildergen/internal/scan"
)

// DefaultDebounce batches bursts of events, e.g. from editors writing a file
// in several steps.
const DefaultDebounce = 200 * time.Millisecond

// Regenerator processes a single package directory.
type Regenerator interface {
	Package(ctx context.Context, dir string) (generate.Result, error)
}

// Watcher calls a Regenerator for every package whose sources changed.
type Watcher struct {
	gen        Regenerator
	debounce   time.Duration
	outputFile string
	logger     *slog.Logger
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the delay between the last event and regeneration.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// WithOutputFile sets the generated file name whose changes are ignored.
func WithOutputFile(name string) Option {
	return func(w *Watcher) {
		w.outputFile = name
	}
}

// WithLogger sets the logger, slog.Default() by default.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Watcher) {
		w.logger = logger
	}
}

// New creates a Watcher regenerating with gen.
func New(gen Regenerator, opts ...Option) *Watcher {
	w := &Watcher{
		gen:        gen,
		debounce:   DefaultDebounce,
		outputFile: scan.DefaultOutputFile,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Watch observes dirs until ctx is done. Failures to regenerate a package
// are logged and do not stop watching.
func (w *Watcher) Watch(ctx context.Context, dirs []string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	for _, dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch directory %s: %w", dir, err)
		}
	}
	w.logger.InfoContext(ctx, "watching for changes", slog.Int("packages", len(dirs)))

	pending := map[string]bool{}
	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.InfoContext(ctx, "stopping file watcher")
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if w.addDirectory(ctx, watcher, event) {
				continue
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.DebugContext(ctx, "detected source change", slog.String("file", event.Name), slog.String("op", event.Op.String()))
			pending[filepath.Dir(event.Name)] = true
			timer.Reset(w.debounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.ErrorContext(ctx, "watcher error", slog.String("error", err.Error()))
		case <-timer.C:
			for _, dir := range slices.Sorted(maps.Keys(pending)) {
				w.regenerate(ctx, dir)
			}
			clear(pending)
		}
	}
}

func (w *Watcher) regenerate(ctx context.Context, dir string) {
	result, err := w.gen.Package(ctx, dir)
	if err != nil {
		w.logger.ErrorContext(ctx, "failed to regenerate builders", slog.String("dir", dir), slog.String("error", err.Error()))
		return
	}
	w.logger.InfoContext(ctx, "regenerated builders", slog.String("dir", dir), slog.String("status", string(result.Status)))
}

// relevant reports whether event changes the input of a package.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	name := filepath.Base(event.Name)
	return strings.HasSuffix(name, ".go") &&
		!strings.HasSuffix(name, "_test.go") &&
		name != w.outputFile &&
		!strings.HasPrefix(name, "zz_generated.")
}

// addDirectory starts watching directories created below watched packages.
func (w *Watcher) addDirectory(ctx context.Context, watcher *fsnotify.Watcher, event fsnotify.Event) bool {
	if !event.Has(fsnotify.Create) {
		return false
	}
	info, err := os.Stat(event.Name)
	if err != nil || !info.IsDir() {
		return false
	}
	name := info.Name()
	if name == "testdata" || strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") {
		return true
	}
	if err := watcher.Add(event.Name); err != nil {
		w.logger.WarnContext(ctx, "failed to watch directory", slog.String("dir", event.Name), slog.String("error", err.Error()))
	}
	return true
}
