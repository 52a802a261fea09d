package context

import (
	"context"
	"sync"

	"github.com/spf13/cobra"

	"ocm.software/open-component-model/buildergen/internal/config"
)

type ctxKey string

const key ctxKey = "ocm.software/open-component-model/buildergen/internal/context"

// Context is the buildergen command line context.
// It carries pointers to structures that are set up once by the root command
// and read by its subcommands.
type Context struct {
	mu sync.RWMutex

	// configuration is resolved before any subcommand runs.
	// In case it is not set, defaults should be used.
	configuration *config.Config
}

// WithConfiguration returns a context carrying cfg.
// It can be retrieved with [FromContext] and [Context.Configuration].
func WithConfiguration(ctx context.Context, cfg *config.Config) context.Context {
	ctx, bctx := retrieveOrCreate(ctx)
	bctx.mu.Lock()
	defer bctx.mu.Unlock()
	bctx.configuration = cfg
	return ctx
}

// Register makes sure the context of cmd carries a Context.
func Register(cmd *cobra.Command) {
	ctx, _ := retrieveOrCreate(cmd.Context())
	cmd.SetContext(ctx)
}

// Configuration returns the configuration, or the defaults if none was set.
func (ctx *Context) Configuration() *config.Config {
	if ctx == nil {
		return config.Default()
	}
	ctx.mu.RLock()
	defer ctx.mu.RUnlock()
	if ctx.configuration == nil {
		return config.Default()
	}
	return ctx.configuration
}

// FromContext retrieves the Context from ctx, or nil if there is none.
func FromContext(ctx context.Context) *Context {
	if ctx == nil {
		return nil
	}
	if v, ok := ctx.Value(key).(*Context); ok {
		return v
	}
	return nil
}

// WithContext returns a context carrying c.
func WithContext(ctx context.Context, c *Context) context.Context {
	if c == nil {
		return ctx
	}
	return context.WithValue(ctx, key, c)
}

func retrieveOrCreate(ctx context.Context) (context.Context, *Context) {
	if ctx == nil {
		ctx = context.Background()
	}
	bctx := FromContext(ctx)
	if bctx == nil {
		bctx = &Context{}
		ctx = WithContext(ctx, bctx)
	}
	return ctx, bctx
}
