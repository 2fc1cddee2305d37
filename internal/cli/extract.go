package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/brandstream/internal/extraction"
	"github.com/jmylchreest/brandstream/internal/palette"
)

// Output formats for extract.
var extractFormats = []string{"cards", "hex", "table", "json", "yaml"}

func newExtractCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract <image>",
		Short: "Extract a brand palette from an image",
		Long: `Send an image to the extraction service and print the palette.

The image may be a local file or an http(s) URL. Files must be images of at
most 16 MiB.

Examples:
  # Five colours as cards
  brandstream extract logo.png

  # Eight colours as JSON
  brandstream extract -c 8 -f json logo.png

  # Hex codes only, one per line
  brandstream extract -f hex https://example.com/logo.webp`,
		Args: cobra.ExactArgs(1),
		RunE: runExtract,
	}

	cmd.Flags().IntP("colors", "c", 5, "number of colors to extract")
	cmd.Flags().StringP("format", "f", "cards", "output format ("+strings.Join(extractFormats, ", ")+")")
	return cmd
}

func runExtract(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	if !validFormat(format) {
		return fmt.Errorf("unsupported format: %s (supported: %s)", format, strings.Join(extractFormats, ", "))
	}

	e, err := setup(cmd, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer e.Close()

	f, p, err := e.extractFrom(cmd.Context(), args[0], e.cfg.Colours.Default)
	if err != nil {
		return err
	}

	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		green := color.New(color.FgGreen).SprintFunc()
		fmt.Fprintf(cmd.ErrOrStderr(), "%s Extracted %d colors from %s\n", green("✓"), len(p), f.Name)
	}

	out, err := formatPalette(p, format, outputWidth(cmd.OutOrStdout()))
	if err != nil {
		return err
	}
	_, err = io.WriteString(cmd.OutOrStdout(), out)
	return err
}

func validFormat(format string) bool {
	for _, f := range extractFormats {
		if f == format {
			return true
		}
	}
	return false
}

// formatPalette formats the palette according to the specified format.
func formatPalette(p extraction.Palette, format string, width int) (string, error) {
	switch format {
	case "cards":
		cards, _ := palette.Render(p)
		return palette.RenderGrid(cards, width, palette.ViewState{}) + "\n", nil
	case "hex":
		var b strings.Builder
		for _, c := range p {
			b.WriteString(c.Hex + "\n")
		}
		return b.String(), nil
	case "table":
		return formatTable(p), nil
	case "json":
		data, err := json.MarshalIndent(p, "", "  ")
		if err != nil {
			return "", fmt.Errorf("failed to convert to JSON: %w", err)
		}
		return string(data) + "\n", nil
	case "yaml":
		data, err := yaml.Marshal(p)
		if err != nil {
			return "", fmt.Errorf("failed to convert to YAML: %w", err)
		}
		return string(data), nil
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

func formatTable(p extraction.Palette) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("", "NAME", "HEX", "RGB", "CMYK", "SHARE")
	for _, c := range p {
		swatch := lipgloss.NewStyle().Background(lipgloss.Color(c.Value().Hex())).Render("    ")
		t.Row(swatch, c.ColorName, c.Hex, c.RGB, c.CMYK, fmt.Sprintf("%.1f%%", c.Percentage))
	}
	return t.Render() + "\n"
}

// outputWidth is the terminal width of w, or 80 when w is not a terminal.
func outputWidth(w io.Writer) int {
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		if width, _, err := term.GetSize(int(f.Fd())); err == nil && width > 0 {
			return width
		}
	}
	return 80
}
