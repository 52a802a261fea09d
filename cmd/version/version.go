package version

import (
	"encoding/json"
	"fmt"
	"io"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"

	"ocm.software/open-component-model/buildergen/internal/flags/enum"
)

const (
	FlagFormat                = "format"
	FlagFormatShortHand       = "f"
	FlagFormatLegacyJSON      = "legacyjson"
	FlagFormatGoBuildInfo     = "gobuildinfo"
	FlagFormatGoBuildInfoJSON = "gobuildinfojson"
)

// BuildVersion overrides the module version detected from the build info.
// It can be set at build time with
//
//	-ldflags "-X ocm.software/open-component-model/buildergen/cmd/version.BuildVersion=1.2.3"
var BuildVersion = "n/a"

func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Retrieve the build version of buildergen",
		Long: fmt.Sprintf(`The version command retrieves the build version of buildergen.

With the default format %[1]q the version is split into its semantic version parts and printed as JSON.
With %[2]q the Go build information is printed as text, with %[3]q as JSON.`,
			FlagFormatLegacyJSON, FlagFormatGoBuildInfo, FlagFormatGoBuildInfoJSON),
		Example:           fmt.Sprintf(`buildergen version --format %s`, FlagFormatGoBuildInfo),
		RunE:              PrintVersion,
		DisableAutoGenTag: true,
	}

	enum.VarP(cmd.Flags(), FlagFormat, FlagFormatShortHand, []string{
		FlagFormatLegacyJSON,
		FlagFormatGoBuildInfo,
		FlagFormatGoBuildInfoJSON,
	}, "format of the version output")
	return cmd
}

func PrintVersion(cmd *cobra.Command, _ []string) error {
	format, err := enum.Get(cmd.Flags(), FlagFormat)
	if err != nil {
		return err
	}

	info, ok := debug.ReadBuildInfo()
	if !ok {
		return fmt.Errorf("build information not available")
	}
	if BuildVersion != "n/a" {
		info.Main.Version = BuildVersion
	}

	switch format {
	case FlagFormatLegacyJSON:
		return json.NewEncoder(cmd.OutOrStdout()).Encode(GetLegacyFormat(info))
	case FlagFormatGoBuildInfo:
		_, err = io.Copy(cmd.OutOrStdout(), strings.NewReader(info.String()))
		return err
	case FlagFormatGoBuildInfoJSON:
		return json.NewEncoder(cmd.OutOrStdout()).Encode(info)
	default:
		return fmt.Errorf("unknown version format %q", format)
	}
}
