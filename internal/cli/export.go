package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/brandstream/internal/export"
	"github.com/jmylchreest/brandstream/internal/palette"
)

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <image>",
		Short: "Extract a palette and save it as a PNG",
		Long: `Extract a palette from an image and write the palette image: one band per
colour, left to right, labelled with its hex code, above a branded footer.

Examples:
  # Save brand-palette.png in the configured export directory
  brandstream export logo.png

  # Six colours into the current directory
  brandstream export -c 6 -o . logo.png`,
		Args: cobra.ExactArgs(1),
		RunE: runExport,
	}

	cmd.Flags().IntP("colors", "c", 5, "number of colors to extract")
	cmd.Flags().StringP("output-dir", "o", "", "directory to save the image in (default from config)")
	return cmd
}

func runExport(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer e.Close()

	_, p, err := e.extractFrom(cmd.Context(), args[0], e.cfg.Colours.Default)
	if err != nil {
		return err
	}

	// Export what would be displayed.
	_, swatches := palette.Render(p)
	if len(swatches) == 0 {
		return export.ErrNoSwatches
	}

	renderer, err := export.NewRenderer("")
	if err != nil {
		return err
	}
	path, err := renderer.Save(e.cfg.Export.Dir, e.cfg.Export.Filename, swatches)
	if err != nil {
		return err
	}

	green := color.New(color.FgGreen, color.Bold).SprintFunc()
	fmt.Fprintf(cmd.OutOrStdout(), "%s Brand palette exported successfully!\n", green("✓"))
	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}
