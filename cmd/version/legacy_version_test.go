package version

import (
	"runtime"
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetLegacyFormat(t *testing.T) {
	tests := []struct {
		name     string
		version  string
		expected LegacyVersionInfo
	}{
		{
			name:    "release",
			version: "v1.2.3",
			expected: LegacyVersionInfo{
				Major: "1", Minor: "2", Patch: "3",
				GitVersion: "1.2.3",
			},
		},
		{
			name:    "pseudo version",
			version: "v0.1.1-0.20250101120000-abcdef123456",
			expected: LegacyVersionInfo{
				Major: "0", Minor: "1", Patch: "1",
				PreRelease: "0.20250101120000-abcdef123456",
				BuildDate:  "20250101120000",
				GitCommit:  "abcdef123456",
				GitVersion: "0.1.1-0.20250101120000-abcdef123456",
			},
		},
		{
			name:    "metadata",
			version: "v2.0.0+dirty",
			expected: LegacyVersionInfo{
				Major: "2", Minor: "0", Patch: "0",
				Meta:       "dirty",
				GitVersion: "2.0.0+dirty",
			},
		},
		{
			name:    "development build",
			version: "(devel)",
			expected: LegacyVersionInfo{
				Major: "0", Minor: "0", Patch: "0",
				GitVersion: "(devel)",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := GetLegacyFormat(&debug.BuildInfo{Main: debug.Module{Version: tt.version}})

			tt.expected.GoVersion = runtime.Version()
			tt.expected.Compiler = runtime.Compiler
			tt.expected.Platform = runtime.GOOS + "/" + runtime.GOARCH
			assert.Equal(t, tt.expected, info)
		})
	}
}
