package log

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCommand(t *testing.T, args ...string) (*cobra.Command, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	cmd := &cobra.Command{Use: "test"}
	RegisterLoggingFlags(cmd.Flags())
	require.NoError(t, cmd.Flags().Parse(args))

	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	return cmd, &out, &errOut
}

func TestGetBaseLogger(t *testing.T) {
	t.Run("defaults to text on stderr at info", func(t *testing.T) {
		cmd, out, errOut := newCommand(t)
		logger, err := GetBaseLogger(cmd)
		require.NoError(t, err)

		logger.Debug("hidden")
		logger.Info("generated file", "file", "zz_generated.builder.go")

		assert.Empty(t, out.String())
		assert.NotContains(t, errOut.String(), "hidden")
		assert.Contains(t, errOut.String(), `msg="generated file" file=zz_generated.builder.go`)
	})

	t.Run("json on stdout at debug", func(t *testing.T) {
		cmd, out, errOut := newCommand(t, "--logformat", "json", "--logoutput", "stdout", "--loglevel", "debug")
		logger, err := GetBaseLogger(cmd)
		require.NoError(t, err)

		logger.Debug("skipping directory", "dir", "testdata")
		assert.Empty(t, errOut.String())

		var entry map[string]any
		require.NoError(t, json.Unmarshal(out.Bytes(), &entry))
		assert.Equal(t, "DEBUG", entry["level"])
		assert.Equal(t, "skipping directory", entry["msg"])
		assert.Equal(t, "testdata", entry["dir"])
	})

	t.Run("error level filters warnings", func(t *testing.T) {
		cmd, _, errOut := newCommand(t, "--loglevel", "error")
		logger, err := GetBaseLogger(cmd)
		require.NoError(t, err)

		logger.Warn("ignored")
		assert.Empty(t, errOut.String())
	})

	t.Run("invalid values are rejected", func(t *testing.T) {
		cmd := &cobra.Command{Use: "test"}
		RegisterLoggingFlags(cmd.Flags())
		assert.Error(t, cmd.Flags().Parse([]string{"--loglevel", "trace"}))
	})

	t.Run("missing flags", func(t *testing.T) {
		_, err := GetBaseLogger(&cobra.Command{Use: "bare"})
		assert.Error(t, err)
	})
}
