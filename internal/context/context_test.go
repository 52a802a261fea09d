package context

import (
	"context"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"ocm.software/open-component-model/buildergen/internal/config"
)

func TestWithConfiguration(t *testing.T) {
	tests := []struct {
		name     string
		config   *config.Config
		expected *config.Config
	}{
		{
			name:     "custom configuration",
			config:   &config.Config{Marker: "+custom", Output: "out.go", Concurrency: 3},
			expected: &config.Config{Marker: "+custom", Output: "out.go", Concurrency: 3},
		},
		{
			name:     "nil configuration falls back to defaults",
			config:   nil,
			expected: config.Default(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := require.New(t)

			ctx := WithConfiguration(context.Background(), tt.config)
			bctx := FromContext(ctx)
			r.NotNil(bctx)
			r.Equal(tt.expected, bctx.Configuration())
		})
	}
}

func TestWithConfigurationReusesContext(t *testing.T) {
	r := require.New(t)

	ctx := WithConfiguration(context.Background(), &config.Config{Marker: "+first"})
	first := FromContext(ctx)

	ctx = WithConfiguration(ctx, &config.Config{Marker: "+second"})
	r.Same(first, FromContext(ctx))
	r.Equal("+second", first.Configuration().Marker)
}

func TestFromContext(t *testing.T) {
	r := require.New(t)

	r.Nil(FromContext(context.Background()))
	//nolint:staticcheck // nil contexts are tolerated
	r.Nil(FromContext(nil))

	var missing *Context
	r.Equal(config.Default(), missing.Configuration())
}

func TestRegister(t *testing.T) {
	r := require.New(t)

	cmd := &cobra.Command{Use: "test"}
	Register(cmd)
	r.NotNil(FromContext(cmd.Context()))
}
