package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
)

type LegacyVersionInfo struct {
	Major      string `json:"major"`
	Minor      string `json:"minor"`
	Patch      string `json:"patch"`
	PreRelease string `json:"prerelease,omitempty"`
	Meta       string `json:"meta,omitempty"`
	GitVersion string `json:"gitVersion"`
	GitCommit  string `json:"gitCommit,omitempty"`
	BuildDate  string `json:"buildDate,omitempty"`
	GoVersion  string `json:"goVersion"`
	Compiler   string `json:"compiler"`
	Platform   string `json:"platform"`
}

// GetLegacyFormat splits the module version of bi into its semantic version
// parts. A pseudo version like v0.1.1-0.20250101120000-abcdef123456 yields
// the build date and commit from its prerelease. Versions that are not
// semantic are reported as 0.0.0 with the raw string as GitVersion.
func GetLegacyFormat(bi *debug.BuildInfo) LegacyVersionInfo {
	info := LegacyVersionInfo{
		GoVersion: runtime.Version(),
		Compiler:  runtime.Compiler,
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}

	v, err := semver.NewVersion(bi.Main.Version)
	if err != nil {
		info.GitVersion = bi.Main.Version
		info.Major, info.Minor, info.Patch = "0", "0", "0"
		return info
	}

	info.GitVersion = v.String()
	info.Meta = v.Metadata()
	if pre := v.Prerelease(); pre != "" {
		info.PreRelease = pre
		if date, commit, ok := strings.Cut(strings.TrimPrefix(pre, "0."), "-"); ok {
			info.BuildDate, info.GitCommit = date, commit
		}
	}
	info.Major = strconv.FormatUint(v.Major(), 10)
	info.Minor = strconv.FormatUint(v.Minor(), 10)
	info.Patch = strconv.FormatUint(v.Patch(), 10)
	return info
}
