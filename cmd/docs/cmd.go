package docs

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
)

const FlagDirectory = "directory"

// New represents the docs command
func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "docs",
		Short: "Generate markdown documentation for the buildergen commands",
		Long: fmt.Sprintf(`Generate one markdown file per command of buildergen into the directory given by --%s.
The directory is created if it does not exist.`, FlagDirectory),
		Example:           `  buildergen docs --directory ./docs/reference`,
		Args:              cobra.NoArgs,
		RunE:              GenerateDocs,
		DisableAutoGenTag: true,
	}
	cmd.Flags().String(FlagDirectory, "docs", "target directory of the generated documentation")
	return cmd
}

func GenerateDocs(cmd *cobra.Command, _ []string) error {
	dir, err := cmd.Flags().GetString(FlagDirectory)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating documentation directory failed: %w", err)
	}
	root := cmd.Root()
	root.DisableAutoGenTag = true
	if err := doc.GenMarkdownTree(root, dir); err != nil {
		return fmt.Errorf("generating documentation failed: %w", err)
	}
	slog.InfoContext(cmd.Context(), "generated documentation", slog.String("directory", dir))
	return nil
}
