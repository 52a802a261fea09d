package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ocm.software/open-component-model/buildergen/internal/scan"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		data     string
		expected *Config
		err      string
	}{
		{
			name:     "empty",
			data:     "",
			expected: Default(),
		},
		{
			name: "full",
			data: "marker: \"+custom:builder\"\noutput: builders.go\nexclude:\n  - \"**/vendor\"\nconcurrency: 2\n",
			expected: &Config{
				Marker:      "+custom:builder",
				Output:      "builders.go",
				Exclude:     []string{"**/vendor"},
				Concurrency: 2,
			},
		},
		{
			name: "partial keeps defaults",
			data: "exclude: [\"internal/**\"]\n",
			expected: &Config{
				Marker:      scan.DefaultMarker,
				Output:      scan.DefaultOutputFile,
				Exclude:     []string{"internal/**"},
				Concurrency: runtime.NumCPU(),
			},
		},
		{
			name: "unknown field",
			data: "markers: x\n",
			err:  "unknown field",
		},
		{
			name: "invalid concurrency",
			data: "concurrency: 0\n",
			err:  "concurrency must be at least 1, got 0",
		},
		{
			name: "invalid pattern",
			data: "exclude: [\"[abc\"]\n",
			err:  `invalid exclude pattern "[abc"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Parse([]byte(tt.data))
			if tt.err != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, cfg)
		})
	}
}

func TestScanOptions(t *testing.T) {
	cfg := &Config{Marker: "+m", Output: "out.go", Exclude: []string{"a/**"}, Concurrency: 1}
	assert.Equal(t, scan.Options{Marker: "+m", OutputFile: "out.go", Exclude: []string{"a/**"}}, cfg.ScanOptions())
}

func newCommand(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "test"}
	RegisterConfigFlag(cmd)
	require.NoError(t, cmd.ParseFlags(args))
	return cmd
}

func TestForCommand(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("output: from_flag.go\n"), 0o600))
	envPath := filepath.Join(dir, "env.yaml")
	require.NoError(t, os.WriteFile(envPath, []byte("output: from_env.go\n"), 0o600))

	t.Run("flag", func(t *testing.T) {
		t.Setenv(EnvironmentKey, envPath)
		cfg, err := ForCommand(newCommand(t, "--config", path))
		require.NoError(t, err)
		assert.Equal(t, "from_flag.go", cfg.Output)
	})

	t.Run("environment", func(t *testing.T) {
		t.Setenv(EnvironmentKey, envPath)
		cfg, err := ForCommand(newCommand(t))
		require.NoError(t, err)
		assert.Equal(t, "from_env.go", cfg.Output)
	})

	t.Run("missing explicit file", func(t *testing.T) {
		t.Setenv(EnvironmentKey, "")
		_, err := ForCommand(newCommand(t, "--config", filepath.Join(dir, "missing.yaml")))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("working directory", func(t *testing.T) {
		t.Setenv(EnvironmentKey, "")
		wd := t.TempDir()
		t.Chdir(wd)

		cfg, err := ForCommand(newCommand(t))
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)

		require.NoError(t, os.WriteFile(filepath.Join(wd, FileName), []byte("marker: \"+wd\"\n"), 0o600))
		cfg, err = ForCommand(newCommand(t))
		require.NoError(t, err)
		assert.Equal(t, "+wd", cfg.Marker)
	})
}
