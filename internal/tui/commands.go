package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jmylchreest/brandstream/internal/colour"
	"github.com/jmylchreest/brandstream/internal/export"
	"github.com/jmylchreest/brandstream/internal/extraction"
	"github.com/jmylchreest/brandstream/internal/image"
	"github.com/jmylchreest/brandstream/internal/palette"
	"github.com/jmylchreest/brandstream/internal/selection"
)

// Preview thumbnails fit in this many pixels; half blocks halve the rows.
const (
	previewWidth  = 32
	previewHeight = 24
)

type fileLoadedMsg struct {
	src  selection.Source
	file *selection.File
	err  error
}

type previewMsg struct {
	token   uint64
	preview *image.Preview
	err     error
}

type settleMsg struct {
	token uint64
}

type extractionMsg struct {
	gen     uint64
	palette extraction.Palette
	err     error
}

type copyMsg struct {
	target palette.Target
	err    error
}

type copiedRevertMsg struct {
	target palette.Target
	token  uint64
}

type hideNoticeMsg struct {
	token uint64
}

type exportMsg struct {
	path string
	err  error
}

func loadFile(ctx context.Context, fetcher image.Fetcher, src selection.Source, location string) tea.Cmd {
	return func() tea.Msg {
		f, err := image.Load(ctx, fetcher, location)
		return fileLoadedMsg{src: src, file: f, err: err}
	}
}

func decodePreview(token uint64, f *selection.File) tea.Cmd {
	return func() tea.Msg {
		p, err := image.DecodePreview(f, previewWidth, previewHeight)
		return previewMsg{token: token, preview: p, err: err}
	}
}

func settleAfter(d time.Duration, token uint64) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return settleMsg{token: token}
	})
}

func extract(ctx context.Context, ex extraction.Extractor, gen uint64, p extraction.Params) tea.Cmd {
	return func() tea.Msg {
		result, err := ex.Extract(ctx, p)
		return extractionMsg{gen: gen, palette: result, err: err}
	}
}

func writeClipboard(cb palette.Clipboard, t palette.Target, text string) tea.Cmd {
	return func() tea.Msg {
		return copyMsg{target: t, err: cb.WriteText(text)}
	}
}

func revertCopiedAfter(d time.Duration, t palette.Target, token uint64) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return copiedRevertMsg{target: t, token: token}
	})
}

func hideNoticeAfter(d time.Duration, token uint64) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return hideNoticeMsg{token: token}
	})
}

func savePalette(r *export.Renderer, dir, filename string, swatches []colour.RGB) tea.Cmd {
	return func() tea.Msg {
		path, err := r.Save(dir, filename, swatches)
		return exportMsg{path: path, err: err}
	}
}
