package enum

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("should panic with empty options", func(t *testing.T) {
		assert.Panics(t, func() {
			New()
		})
	})

	t.Run("should create flag with default value", func(t *testing.T) {
		flag := New("table", "yaml", "json")
		assert.Equal(t, "table", flag.String())
		assert.Equal(t, []string{"table", "yaml", "json"}, flag.Options())
	})

	t.Run("should not alias the given options", func(t *testing.T) {
		options := []string{"table", "yaml"}
		flag := New(options...)
		require.NoError(t, flag.Set("yaml"))
		assert.Equal(t, []string{"table", "yaml"}, options)
	})
}

func TestFlag_Set(t *testing.T) {
	tests := []struct {
		name        string
		value       string
		expectError bool
		expected    string
	}{
		{
			name:     "valid value",
			value:    "yaml",
			expected: "yaml",
		},
		{
			name:        "invalid value",
			value:       "xml",
			expectError: true,
			expected:    "table",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag := New("table", "yaml", "json")
			err := flag.Set(tt.value)
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.expected, flag.String())
		})
	}
}

func TestGet(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	VarP(fs, "output", "o", []string{"table", "yaml", "json"}, "output format")
	fs.String("plain", "", "not an enum")

	t.Run("should get default value", func(t *testing.T) {
		value, err := Get(fs, "output")
		require.NoError(t, err)
		assert.Equal(t, "table", value)
	})

	t.Run("should get parsed value", func(t *testing.T) {
		require.NoError(t, fs.Parse([]string{"-o", "json"}))
		value, err := Get(fs, "output")
		require.NoError(t, err)
		assert.Equal(t, "json", value)
	})

	t.Run("should error on non-existent flag", func(t *testing.T) {
		_, err := Get(fs, "non-existent")
		assert.Error(t, err)
	})

	t.Run("should error on flag of other type", func(t *testing.T) {
		_, err := Get(fs, "plain")
		assert.Error(t, err)
	})

	t.Run("should list sorted options in usage", func(t *testing.T) {
		assert.Contains(t, fs.Lookup("output").Usage, "(must be one of [json table yaml])")
	})
}
