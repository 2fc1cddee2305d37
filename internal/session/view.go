package session

import (
	"github.com/jmylchreest/brandstream/internal/image"
	"github.com/jmylchreest/brandstream/internal/palette"
	"github.com/jmylchreest/brandstream/internal/selection"
)

// View is a consistent snapshot of everything the UI displays.
type View struct {
	State selection.State

	// FileName is the held file's display name, empty in Empty.
	FileName        string
	Preview         *image.Preview
	Highlighted     bool
	ShowsChangeFile bool
	ExtractEnabled  bool

	NumColors int
	MinColors int
	MaxColors int

	Loading         bool
	ResultsVisible  bool
	DownloadVisible bool
	Cards           []palette.Card

	Notice        Notice
	NoticeVisible bool
}

// View returns a snapshot of the current state.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := View{
		State:           s.sel.State(),
		Highlighted:     s.sel.Highlighted(),
		ShowsChangeFile: s.sel.ShowsChangeFile(),
		ExtractEnabled:  s.sel.ExtractEnabled(),
		NumColors:       s.numColors,
		MinColors:       s.minColors,
		MaxColors:       s.maxColors,
		Loading:         s.loading,
		ResultsVisible:  s.resultsVisible,
		DownloadVisible: s.downloadVisible,
		Notice:          s.notice,
		NoticeVisible:   s.noticeVisible,
	}
	if f := s.sel.File(); f != nil {
		v.FileName = f.Name
	}
	if s.sel.PreviewReady() {
		v.Preview = s.preview
	}
	if s.resultsVisible {
		v.Cards = s.cards.Cards()
	}
	return v
}

// Copied reports whether t currently shows its copied state.
func (s *Session) Copied(t palette.Target) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.cards.Copied(t)
}

// DialogOpen reports whether a picker session is considered open.
func (s *Session) DialogOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sel.DialogOpen()
}

// InputValue returns the picker's remembered value.
func (s *Session) InputValue() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sel.InputValue()
}
