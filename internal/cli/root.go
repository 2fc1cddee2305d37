// Package cli provides the command-line interface for BrandStream.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/brandstream/internal/selection"
	"github.com/jmylchreest/brandstream/internal/version"
)

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "brandstream",
		Short: "Brand colour palettes from any image",
		Long: `BrandStream sends an image to a colour extraction service and turns the
result into a brand palette: colour cards with HEX, RGB and CMYK values you can
copy, and a downloadable palette image.

Run "brandstream ui" for the interactive session, or use extract and export
for one-shot use in scripts.`,
		Version:       version.Short(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().String("config", "", "config file (default $XDG_CONFIG_HOME/brandstream/config.yml)")
	rootCmd.PersistentFlags().String("service-url", "", "extraction service endpoint")

	rootCmd.SetVersionTemplate(version.String() + "\n")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newExtractCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newUICmd())

	return rootCmd
}

// Execute runs the root command with interrupt handling and reports any
// error on stderr. This is called by main.main().
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		printError(err)
		return 1
	}
	return 0
}

func printError(err error) {
	red := color.New(color.FgRed, color.Bold).SprintFunc()
	if errors.Is(err, selection.ErrNotImage) {
		fmt.Fprintln(os.Stderr, red("Please select an image file"))
		return
	}
	fmt.Fprintln(os.Stderr, red("Error:"), err)
}
