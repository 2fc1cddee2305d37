// Package session owns all interactive state: the selection machine, the
// colour count, the extraction generation, the displayed cards and the
// notification. Every mutation goes through a Session method so there is a
// single owner whatever goroutine the caller runs on.
package session

import (
	"errors"
	"fmt"
	"sync"

	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/brandstream/internal/extraction"
	"github.com/jmylchreest/brandstream/internal/image"
	"github.com/jmylchreest/brandstream/internal/palette"
	"github.com/jmylchreest/brandstream/internal/selection"
)

const (
	// DefaultMinColors is the lower slider bound.
	DefaultMinColors = 1
	// DefaultMaxColors is the upper slider bound.
	DefaultMaxColors = 10
	// DefaultNumColors is the initial slider position.
	DefaultNumColors = 5
)

var (
	// ErrNoSelection is returned when extraction is requested without a ready file.
	ErrNoSelection = errors.New("no image selected")

	// ErrNoSwatches is returned when export is requested with no visible palette.
	ErrNoSwatches = errors.New("no palette to export")
)

// Options configures a Session.
type Options struct {
	MinColors     int
	MaxColors     int
	DefaultColors int
	Logger        hclog.Logger
}

// Session is the single owner of interactive state. It is safe for
// concurrent use.
type Session struct {
	mu sync.Mutex

	sel     selection.Machine
	preview *image.Preview
	cards   *palette.Container

	minColors int
	maxColors int
	numColors int

	generation      uint64
	loading         bool
	resultsVisible  bool
	downloadVisible bool

	notice        Notice
	noticeVisible bool
	noticeToken   uint64

	logger hclog.Logger
}

// New creates a session in the Empty state. Out-of-range bounds fall back to
// the defaults.
func New(opts Options) *Session {
	minColors, maxColors := opts.MinColors, opts.MaxColors
	if minColors < 1 {
		minColors = DefaultMinColors
	}
	if maxColors < minColors {
		maxColors = max(DefaultMaxColors, minColors)
	}
	numColors := opts.DefaultColors
	if numColors == 0 {
		numColors = DefaultNumColors
	}

	logger := opts.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	return &Session{
		cards:     palette.NewContainer(),
		minColors: minColors,
		maxColors: maxColors,
		numColors: min(max(numColors, minColors), maxColors),
		logger:    logger.Named("session"),
	}
}

// OpenPicker asks for a picker session for gesture g and reports whether
// the caller should show one.
func (s *Session) OpenPicker(g selection.Gesture) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	ok := s.sel.OpenPicker(g)
	s.logger.Debug("open picker", "gesture", g, "opened", ok)
	return ok
}

// ClickDropZone handles a click in the drop zone; direct is false for clicks
// on the zone's children.
func (s *Session) ClickDropZone(direct bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sel.ClickDropZone(direct)
}

// Choose offers a loaded file. It returns the preview token to decode
// against. A non-image reverts to Empty, hides any results and raises the
// "Please select an image file" notice.
func (s *Session) Choose(src selection.Source, f *selection.File) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	token, err := s.sel.Choose(src, f)
	if errors.Is(err, selection.ErrNotImage) {
		s.logger.Info("rejected file", "name", f.Name, "mime", f.MIMEType)
		s.preview = nil
		s.generation++
		s.loading = false
		s.hideResults()
		s.notify(NoticeError, "Please select an image file")
		return 0, err
	}
	if token != 0 {
		s.logger.Debug("file chosen", "name", f.Name, "mime", f.MIMEType, "size", len(f.Content))
		s.preview = nil
	}
	return token, err
}

// LoadFailed reports that the file offered by src could not be read. The
// picker flag or drop highlight is released as if no file arrived.
func (s *Session) LoadFailed(src selection.Source, err error) Notice {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, _ = s.sel.Choose(src, nil)
	s.logger.Warn("failed to load file", "error", err)
	return s.notify(NoticeError, errorMessage(err))
}

// PreviewDecoded installs the decoded preview for token. Stale tokens are
// ignored.
func (s *Session) PreviewDecoded(token uint64, p *image.Preview) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.sel.PreviewDecoded(token) {
		return false
	}
	s.preview = p
	return true
}

// PreviewFailed reverts to Empty if token's file could not be decoded.
func (s *Session) PreviewFailed(token uint64, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.sel.PreviewFailed(token) {
		return false
	}
	s.preview = nil
	s.logger.Warn("failed to decode preview", "error", err)
	s.notify(NoticeError, errorMessage(err))
	return true
}

// WindowFocused records a refocus and returns the settle token.
func (s *Session) WindowFocused() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sel.WindowFocused()
}

// FocusSettled clears the picker flag if token is still current.
func (s *Session) FocusSettled(token uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	ok := s.sel.FocusSettled(token)
	if ok {
		s.logger.Debug("picker flag cleared after refocus")
	}
	return ok
}

// DragEnter shows the drop highlight.
func (s *Session) DragEnter() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sel.DragEnter()
}

// DragLeave hides the drop highlight.
func (s *Session) DragLeave() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sel.DragLeave()
}

// SetNumColors moves the slider, clamping to its bounds, and returns the
// new value.
func (s *Session) SetNumColors(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.numColors = min(max(n, s.minColors), s.maxColors)
	return s.numColors
}

// StepColors moves the slider by delta.
func (s *Session) StepColors(delta int) int {
	s.mu.Lock()
	n := s.numColors + delta
	s.mu.Unlock()
	return s.SetNumColors(n)
}

// BeginExtraction starts a request for the held file. It shows the loading
// indicator, hides prior results and returns the generation the response
// must be completed with.
func (s *Session) BeginExtraction() (uint64, extraction.Params, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.sel.ExtractEnabled() {
		return 0, extraction.Params{}, ErrNoSelection
	}
	params, err := extraction.NewParams(s.sel.File(), s.numColors)
	if err != nil {
		return 0, extraction.Params{}, err
	}

	s.generation++
	s.loading = true
	s.hideResults()
	s.logger.Info("extraction started", "generation", s.generation, "file", params.Image.Name, "colors", params.NumColors)
	return s.generation, params, nil
}

// CompleteExtraction applies the outcome of the request started as gen. A
// response superseded by a later request or a reset is dropped and false is
// returned. The loading indicator is cleared on every path.
func (s *Session) CompleteExtraction(gen uint64, p extraction.Palette, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation {
		s.logger.Debug("dropping stale extraction response", "generation", gen, "current", s.generation)
		return false
	}
	defer func() { s.loading = false }()

	if err != nil {
		var serr *extraction.ServiceError
		if errors.As(err, &serr) {
			s.logger.Warn("service reported an error", "status", serr.StatusCode, "error", serr.Message)
		} else {
			s.logger.Error("extraction failed", "error", err)
		}
		s.hideResults()
		s.notify(NoticeError, errorMessage(err))
		return true
	}

	s.cards.Replace(p)
	s.resultsVisible = true
	s.downloadVisible = s.cards.Len() > 0
	s.logger.Info("extraction complete", "generation", gen, "colors", len(p))
	return true
}

// Resolve returns the copyable value addressed by t among the cards shown
// right now.
func (s *Session) Resolve(t palette.Target) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.resultsVisible {
		return "", palette.ErrNoTarget
	}
	return s.cards.Resolve(t)
}

// CopySucceeded shows the copied state on t and the confirmation notice. It
// returns the token needed to revert the copied state.
func (s *Session) CopySucceeded(t palette.Target) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	token := s.cards.MarkCopied(t)
	s.notify(NoticeSuccess, "Color code copied to clipboard!")
	return token
}

// CopyFailed surfaces a clipboard failure.
func (s *Session) CopyFailed(err error) Notice {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.logger.Warn("clipboard write failed", "error", err)
	return s.notify(NoticeError, fmt.Sprintf("Failed to copy: %v", err))
}

// ClearCopied reverts the copied state on t unless it was copied again.
func (s *Session) ClearCopied(t palette.Target, token uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.cards.ClearCopied(t, token)
}

// ExportSwatches returns the swatches currently on screen, in display
// order. With nothing to export it raises the "No palette to export" notice.
func (s *Session) ExportSwatches() (palette.Swatches, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.downloadVisible || s.cards.Len() == 0 {
		s.notify(NoticeInfo, "No palette to export")
		return nil, ErrNoSwatches
	}
	return s.cards.Swatches(), nil
}

// ExportDone reports the outcome of writing the export image.
func (s *Session) ExportDone(path string, err error) Notice {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.logger.Error("export failed", "error", err)
		return s.notify(NoticeError, errorMessage(err))
	}
	s.logger.Info("palette exported", "path", path)
	return s.notify(NoticeSuccess, "Brand palette exported successfully!")
}

// Reset returns to the initial state: no file, no picker, no preview, no
// results. Any in-flight extraction is superseded.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sel.Reset()
	s.preview = nil
	s.generation++
	s.loading = false
	s.hideResults()
	s.logger.Debug("session reset")
}

func (s *Session) hideResults() {
	s.resultsVisible = false
	s.downloadVisible = false
	s.cards.Clear()
}

// errorMessage formats err the way every failure notice is shown.
func errorMessage(err error) string {
	return "Error: " + err.Error()
}
