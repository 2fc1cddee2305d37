package cli

import (
	"errors"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/jmylchreest/brandstream/internal/export"
	"github.com/jmylchreest/brandstream/internal/session"
	"github.com/jmylchreest/brandstream/internal/tui"
)

// errNoTerminal is returned when ui runs without an interactive terminal.
var errNoTerminal = errors.New("the interactive session requires a terminal; use extract or export instead")

// isTerminal reports whether stdin and stdout are both terminals.
var isTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

func newUICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ui [image]",
		Short: "Start the interactive palette session",
		Long: `Start the interactive session.

Drop an image onto the terminal (or paste its path or URL), or press o to
browse. Adjust the colour count with + and -, press enter to extract, move
between values with the arrow keys and press c to copy one. Press d to save
the palette image and r to start over.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runUI,
	}
}

func runUI(cmd *cobra.Command, args []string) error {
	if !isTerminal() {
		return errNoTerminal
	}

	// The terminal belongs to the interface; logs go to log.file or nowhere.
	e, err := setup(cmd, nil)
	if err != nil {
		return err
	}
	defer e.Close()

	renderer, err := export.NewRenderer("")
	if err != nil {
		return err
	}

	var initial string
	if len(args) == 1 {
		initial = args[0]
	}

	e.logger.Info("starting interactive session")
	return tui.Run(cmd.Context(), tui.Options{
		Session: session.New(session.Options{
			MinColors:     e.cfg.Colours.Min,
			MaxColors:     e.cfg.Colours.Max,
			DefaultColors: e.cfg.Colours.Default,
			Logger:        e.logger,
		}),
		Extractor:      e.extractor,
		Renderer:       renderer,
		Fetcher:        e.images,
		ExportDir:      e.cfg.Export.Dir,
		ExportFilename: e.cfg.Export.Filename,
		RefocusSettle:  e.cfg.UI.RefocusSettle,
		CopiedFeedback: e.cfg.UI.CopiedFeedback,
		NoticeDuration: e.cfg.UI.NoticeDuration,
		Initial:        initial,
		Logger:         e.logger,
	})
}
