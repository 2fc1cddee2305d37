// Package tui is the interactive terminal host. It runs a single bubbletea
// event loop over a session.Session; file reads, previews, extraction,
// clipboard writes, exports and timers all run as commands whose results
// come back to the loop as messages.
package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/brandstream/internal/export"
	"github.com/jmylchreest/brandstream/internal/extraction"
	"github.com/jmylchreest/brandstream/internal/image"
	"github.com/jmylchreest/brandstream/internal/palette"
	"github.com/jmylchreest/brandstream/internal/selection"
	"github.com/jmylchreest/brandstream/internal/session"
)

// Default timings.
const (
	DefaultRefocusSettle  = 300 * time.Millisecond
	DefaultCopiedFeedback = time.Second
	DefaultNoticeDuration = 3 * time.Second
)

// Options wires the model to its collaborators.
type Options struct {
	Session   *session.Session
	Extractor extraction.Extractor
	Clipboard palette.Clipboard
	Renderer  *export.Renderer
	// Fetcher downloads dropped URLs. Nil rejects them.
	Fetcher image.Fetcher

	ExportDir      string
	ExportFilename string

	RefocusSettle  time.Duration
	CopiedFeedback time.Duration
	NoticeDuration time.Duration

	// StartDir is where the picker opens.
	StartDir string
	// Initial is loaded as if dropped when the program starts.
	Initial string

	Logger hclog.Logger
}

// Model is the bubbletea model.
type Model struct {
	ctx     context.Context
	session *session.Session
	ex      extraction.Extractor
	cb      palette.Clipboard
	render  *export.Renderer
	fetcher image.Fetcher
	logger  hclog.Logger

	exportDir      string
	exportFilename string
	refocusSettle  time.Duration
	copiedFeedback time.Duration
	noticeDuration time.Duration
	startDir       string
	initial        string

	keys    keyMap
	help    help.Model
	spinner spinner.Model

	picker        filepicker.Model
	pickerVisible bool

	// focus is the copy target under the cursor.
	focus palette.Target
	// noticeScheduled is the notice token whose hide timer is running.
	noticeScheduled uint64

	width  int
	height int
}

// New creates the model.
func New(ctx context.Context, opts Options) (Model, error) {
	if opts.Session == nil || opts.Extractor == nil || opts.Renderer == nil {
		return Model{}, errors.New("tui: session, extractor and renderer are required")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	cb := opts.Clipboard
	if cb == nil {
		cb = palette.SystemClipboard{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	startDir := opts.StartDir
	if startDir == "" {
		if wd, err := os.Getwd(); err == nil {
			startDir = wd
		} else {
			startDir = "."
		}
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styleTitle

	return Model{
		ctx:            ctx,
		session:        opts.Session,
		ex:             opts.Extractor,
		cb:             cb,
		render:         opts.Renderer,
		fetcher:        opts.Fetcher,
		logger:         logger.Named("tui"),
		exportDir:      opts.ExportDir,
		exportFilename: opts.ExportFilename,
		refocusSettle:  orDefault(opts.RefocusSettle, DefaultRefocusSettle),
		copiedFeedback: orDefault(opts.CopiedFeedback, DefaultCopiedFeedback),
		noticeDuration: orDefault(opts.NoticeDuration, DefaultNoticeDuration),
		startDir:       startDir,
		initial:        opts.Initial,
		keys:           newKeyMap(),
		help:           help.New(),
		spinner:        sp,
		width:          80,
		height:         24,
	}, nil
}

func orDefault(d, def time.Duration) time.Duration {
	if d <= 0 {
		return def
	}
	return d
}

// Run starts the program and blocks until the user quits.
func Run(ctx context.Context, opts Options) error {
	m, err := New(ctx, opts)
	if err != nil {
		return err
	}
	p := tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
		tea.WithReportFocus(),
	)
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("running interface: %w", err)
	}
	return nil
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	if m.initial == "" {
		return nil
	}
	return loadFile(m.ctx, m.fetcher, selection.SourceDrop, m.initial)
}

// Update implements tea.Model. Whenever a new notice is raised its hide
// timer is started here, so handlers only need to touch the session.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.update(msg)
	if n, visible := next.session.Notice(); visible && n.Token != next.noticeScheduled {
		next.noticeScheduled = n.Token
		cmd = tea.Batch(cmd, hideNoticeAfter(next.noticeDuration, n.Token))
	}
	return next, cmd
}

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.picker.SetHeight(max(msg.Height-6, 3))
		return m, nil

	case tea.FocusMsg:
		// A picker may have closed without reporting a file.
		return m, settleAfter(m.refocusSettle, m.session.WindowFocused())

	case settleMsg:
		m.session.FocusSettled(msg.token)
		return m, nil

	case tea.KeyMsg:
		if m.pickerVisible {
			return m.updatePicker(msg)
		}
		if msg.Paste {
			return m.drop(string(msg.Runes))
		}
		return m.handleKey(msg)

	case tea.MouseMsg:
		if m.pickerVisible {
			return m, nil
		}
		return m.handleMouse(msg)

	case fileLoadedMsg:
		return m.fileLoaded(msg)

	case previewMsg:
		if msg.err != nil {
			m.session.PreviewFailed(msg.token, msg.err)
		} else {
			m.session.PreviewDecoded(msg.token, msg.preview)
		}
		return m, nil

	case extractionMsg:
		if m.session.CompleteExtraction(msg.gen, msg.palette, msg.err) {
			m.focus = palette.Target{}
		}
		return m, nil

	case spinner.TickMsg:
		if !m.session.View().Loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case copyMsg:
		if msg.err != nil {
			m.session.CopyFailed(msg.err)
			return m, nil
		}
		token := m.session.CopySucceeded(msg.target)
		return m, revertCopiedAfter(m.copiedFeedback, msg.target, token)

	case copiedRevertMsg:
		m.session.ClearCopied(msg.target, msg.token)
		return m, nil

	case hideNoticeMsg:
		m.session.HideNotice(msg.token)
		return m, nil

	case exportMsg:
		m.session.ExportDone(msg.path, msg.err)
		return m, nil
	}

	if m.pickerVisible {
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Browse):
		gesture := selection.GestureUpload
		if m.session.View().ShowsChangeFile {
			gesture = selection.GestureChangeFile
		}
		return m.openPicker(gesture)

	case key.Matches(msg, m.keys.Extract):
		return m.startExtraction()

	case key.Matches(msg, m.keys.More):
		m.session.StepColors(1)
	case key.Matches(msg, m.keys.Fewer):
		m.session.StepColors(-1)

	case key.Matches(msg, m.keys.Left):
		m.moveFocus(-1, 0)
	case key.Matches(msg, m.keys.Right):
		m.moveFocus(1, 0)
	case key.Matches(msg, m.keys.Up):
		m.moveFocus(0, -1)
	case key.Matches(msg, m.keys.Down):
		m.moveFocus(0, 1)

	case key.Matches(msg, m.keys.Copy):
		return m.copyFocused()

	case key.Matches(msg, m.keys.Export):
		return m.exportPalette()

	case key.Matches(msg, m.keys.Reset):
		m.session.Reset()
		m.focus = palette.Target{}

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

// openPicker starts a picker session for g unless one is already open.
func (m Model) openPicker(g selection.Gesture) (Model, tea.Cmd) {
	if !m.session.OpenPicker(g) {
		return m, nil
	}
	return m.showPicker()
}

func (m Model) showPicker() (Model, tea.Cmd) {
	fp := filepicker.New()
	fp.CurrentDirectory = m.startDir
	fp.SetHeight(max(m.height-6, 3))
	m.picker = fp
	m.pickerVisible = true
	return m, fp.Init()
}

func (m Model) updatePicker(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case msg.String() == "ctrl+c":
		return m, tea.Quit
	case key.Matches(msg, pickerKeyMap.Cancel):
		// Dismissed without a file: the flag clears once focus settles.
		m.pickerVisible = false
		return m, settleAfter(m.refocusSettle, m.session.WindowFocused())
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	if ok, path := m.picker.DidSelectFile(msg); ok {
		m.pickerVisible = false
		m.startDir = m.picker.CurrentDirectory
		return m, loadFile(m.ctx, m.fetcher, selection.SourcePicker, path)
	}
	return m, cmd
}

// drop handles text pasted into the terminal, which is how terminals
// deliver a file dragged onto them.
func (m Model) drop(text string) (Model, tea.Cmd) {
	location := image.ResolveDroppedPath(text)
	if location == "" {
		return m, nil
	}
	m.session.DragEnter()
	return m, loadFile(m.ctx, m.fetcher, selection.SourceDrop, location)
}

func (m Model) fileLoaded(msg fileLoadedMsg) (Model, tea.Cmd) {
	if msg.err != nil {
		m.session.LoadFailed(msg.src, msg.err)
		return m, nil
	}
	token, err := m.session.Choose(msg.src, msg.file)
	if err != nil || token == 0 {
		return m, nil
	}
	return m, decodePreview(token, msg.file)
}

func (m Model) startExtraction() (Model, tea.Cmd) {
	gen, params, err := m.session.BeginExtraction()
	if err != nil {
		m.logger.Debug("extraction not available", "error", err)
		return m, nil
	}
	return m, tea.Batch(extract(m.ctx, m.ex, gen, params), m.spinner.Tick)
}

func (m *Model) moveFocus(dCard, dField int) {
	n := len(m.session.View().Cards)
	if n == 0 {
		return
	}
	m.focus.Card = (m.focus.Card + dCard + n) % n
	fields := len(palette.Fields)
	idx := 0
	for i, f := range palette.Fields {
		if f == m.focus.Field {
			idx = i
		}
	}
	m.focus.Field = palette.Fields[(idx+dField+fields)%fields]
}

func (m Model) copyFocused() (Model, tea.Cmd) {
	text, err := m.session.Resolve(m.focus)
	if err != nil {
		return m, nil
	}
	return m, writeClipboard(m.cb, m.focus, text)
}

func (m Model) exportPalette() (Model, tea.Cmd) {
	swatches, err := m.session.ExportSwatches()
	if err != nil {
		return m, nil
	}
	return m, savePalette(m.render, m.exportDir, m.exportFilename, swatches)
}

func (m Model) handleMouse(msg tea.MouseMsg) (Model, tea.Cmd) {
	zone := m.zoneLayout()
	inside := zone.contains(msg.X, msg.Y)

	switch msg.Action {
	case tea.MouseActionMotion:
		if inside {
			m.session.DragEnter()
		} else {
			m.session.DragLeave()
		}
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || !inside {
			return m, nil
		}
		if msg.Y == zone.buttonY {
			gesture := selection.GestureUpload
			if m.session.View().ShowsChangeFile {
				gesture = selection.GestureChangeFile
			}
			return m.openPicker(gesture)
		}
		// Only the zone's own border and padding count as a direct click.
		if !m.session.ClickDropZone(zone.onFrame(msg.X, msg.Y)) {
			return m, nil
		}
		return m.showPicker()
	}
	return m, nil
}
