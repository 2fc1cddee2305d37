package tui

import (
	"bytes"
	"context"
	"errors"
	stdimage "image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jmylchreest/brandstream/internal/colour"
	"github.com/jmylchreest/brandstream/internal/export"
	"github.com/jmylchreest/brandstream/internal/extraction"
	"github.com/jmylchreest/brandstream/internal/palette"
	"github.com/jmylchreest/brandstream/internal/session"
)

type extractorFunc func(ctx context.Context, p extraction.Params) (extraction.Palette, error)

func (f extractorFunc) Extract(ctx context.Context, p extraction.Params) (extraction.Palette, error) {
	return f(ctx, p)
}

func swatchResult(rgb colour.RGB, pct float64) extraction.ColorResult {
	return extraction.ColorResult{
		Hex:        rgb.Hex(),
		RGB:        rgb.String(),
		RGBValues:  [3]int{int(rgb.R), int(rgb.G), int(rgb.B)},
		CMYK:       colour.ToCMYK(rgb).String(),
		ColorName:  colour.Name(rgb),
		Percentage: pct,
	}
}

// fixedPalette returns n results starting with pure red.
func fixedPalette(n int) extraction.Palette {
	p := make(extraction.Palette, n)
	for i := range p {
		p[i] = swatchResult(colour.RGB{R: 255, G: uint8(i * 40)}, 100/float64(n))
	}
	return p
}

type fakeClipboard struct {
	mu   sync.Mutex
	text string
	err  error
}

func (c *fakeClipboard) WriteText(s string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.text = s
	return nil
}

type harness struct {
	t         *testing.T
	m         Model
	dir       string
	exportDir string
	clipboard *fakeClipboard
}

func newHarness(t *testing.T, ex extraction.Extractor) *harness {
	t.Helper()
	renderer, err := export.NewRenderer("")
	if err != nil {
		t.Fatal(err)
	}
	if ex == nil {
		ex = extractorFunc(func(_ context.Context, p extraction.Params) (extraction.Palette, error) {
			return fixedPalette(p.NumColors), nil
		})
	}

	h := &harness{
		t:         t,
		dir:       t.TempDir(),
		exportDir: filepath.Join(t.TempDir(), "Downloads"),
		clipboard: &fakeClipboard{},
	}
	m, err := New(context.Background(), Options{
		Session:        session.New(session.Options{}),
		Extractor:      ex,
		Clipboard:      h.clipboard,
		Renderer:       renderer,
		ExportDir:      h.exportDir,
		ExportFilename: export.DefaultFilename,
		RefocusSettle:  time.Millisecond,
		CopiedFeedback: time.Millisecond,
		NoticeDuration: time.Millisecond,
		StartDir:       h.dir,
	})
	if err != nil {
		t.Fatal(err)
	}
	h.m = m
	return h
}

// send delivers msg and returns every message its command produces.
func (h *harness) send(msg tea.Msg) []tea.Msg {
	h.t.Helper()
	next, cmd := h.m.Update(msg)
	h.m = next.(Model)
	return collect(cmd)
}

func (h *harness) press(keys string) []tea.Msg {
	h.t.Helper()
	switch keys {
	case "enter":
		return h.send(tea.KeyMsg{Type: tea.KeyEnter})
	case "esc":
		return h.send(tea.KeyMsg{Type: tea.KeyEsc})
	}
	return h.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(keys)})
}

func (h *harness) paste(text string) []tea.Msg {
	h.t.Helper()
	return h.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text), Paste: true})
}

// deliver sends the first message of type T in msgs and returns what it produces.
func deliver[T tea.Msg](h *harness, msgs []tea.Msg) []tea.Msg {
	h.t.Helper()
	for _, msg := range msgs {
		if m, ok := msg.(T); ok {
			return h.send(m)
		}
	}
	var zero T
	h.t.Fatalf("no %T among %d messages", zero, len(msgs))
	return nil
}

func has[T tea.Msg](msgs []tea.Msg) bool {
	for _, msg := range msgs {
		if _, ok := msg.(T); ok {
			return true
		}
	}
	return false
}

// collect runs cmd, flattening batches.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

func (h *harness) writeFile(name string, data []byte) string {
	h.t.Helper()
	path := filepath.Join(h.dir, name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		h.t.Fatal(err)
	}
	return path
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := stdimage.NewRGBA(stdimage.Rect(0, 0, 12, 8))
	for x := 0; x < 12; x++ {
		for y := 0; y < 8; y++ {
			img.Set(x, y, color.RGBA{R: 220, G: 30, B: 30, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

// selectLogo drops logo.png and completes its preview.
func (h *harness) selectLogo() {
	h.t.Helper()
	path := h.writeFile("logo.png", pngBytes(h.t))
	loaded := h.paste("'" + path + "'")
	preview := deliver[fileLoadedMsg](h, loaded)
	deliver[previewMsg](h, preview)
}

// extractN selects logo.png and runs an extraction to completion.
func (h *harness) extractN(n int) {
	h.t.Helper()
	h.selectLogo()
	h.m.session.SetNumColors(n)
	deliver[extractionMsg](h, h.press("enter"))
}

func (h *harness) view() session.View {
	return h.m.session.View()
}

// Scenario: dropping logo.png shows its preview and enables extraction.
func TestDropValidImage(t *testing.T) {
	h := newHarness(t, nil)
	h.selectLogo()

	v := h.view()
	if !v.ExtractEnabled || v.Preview == nil || v.FileName != "logo.png" {
		t.Fatalf("View() = %+v, want logo.png selected with a preview", v)
	}
	out := h.m.View()
	for _, want := range []string{"logo.png", "png 12×8", "Change File"} {
		if !strings.Contains(out, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}

// Scenario: dropping report.pdf is rejected and extraction stays disabled.
func TestDropNonImage(t *testing.T) {
	h := newHarness(t, nil)
	path := h.writeFile("report.pdf", []byte("%PDF-1.4\n1 0 obj\n<<>>\nendobj\n"))

	msgs := deliver[fileLoadedMsg](h, h.paste(path))
	if has[previewMsg](msgs) {
		t.Error("preview decode started for a non-image")
	}

	v := h.view()
	if v.ExtractEnabled || !v.NoticeVisible || v.Notice.Message != "Please select an image file" {
		t.Errorf("View() = enabled %v notice %q", v.ExtractEnabled, v.Notice.Message)
	}
	if !strings.Contains(h.m.View(), "Please select an image file") {
		t.Error("notice not rendered")
	}
}

func TestDropMissingFile(t *testing.T) {
	h := newHarness(t, nil)
	deliver[fileLoadedMsg](h, h.paste(filepath.Join(h.dir, "gone.png")))

	v := h.view()
	if v.Highlighted || !strings.HasPrefix(v.Notice.Message, "Error: file not found") {
		t.Errorf("View() = highlighted %v notice %q", v.Highlighted, v.Notice.Message)
	}
}

func TestPickerSuppressesDuplicates(t *testing.T) {
	h := newHarness(t, nil)

	h.press("o")
	if !h.m.pickerVisible || !h.m.session.DialogOpen() {
		t.Fatal("picker not shown")
	}

	// Dismissed without a file: the flag holds until focus settles.
	settle := h.press("esc")
	if h.m.pickerVisible {
		t.Error("picker still visible after esc")
	}
	if h.press("o"); h.m.pickerVisible {
		t.Error("second picker opened before the first settled")
	}

	deliver[settleMsg](h, settle)
	if h.m.session.DialogOpen() {
		t.Error("picker flag not cleared after settling")
	}
	if h.press("o"); !h.m.pickerVisible {
		t.Error("picker could not reopen after settling")
	}
}

func TestPickerSelectsFile(t *testing.T) {
	h := newHarness(t, nil)
	h.writeFile("logo.png", pngBytes(t))

	readDir := h.press("o")
	if len(readDir) != 1 {
		t.Fatalf("picker init produced %d messages, want 1", len(readDir))
	}
	h.send(readDir[0])

	loaded := h.press("enter")
	if h.m.pickerVisible {
		t.Error("picker still visible after selecting a file")
	}
	deliver[previewMsg](h, deliver[fileLoadedMsg](h, loaded))

	if !h.view().ExtractEnabled || h.m.session.DialogOpen() {
		t.Error("picked file not selected")
	}
	if got := h.m.session.InputValue(); got != filepath.Join(h.dir, "logo.png") {
		t.Errorf("InputValue() = %q", got)
	}
}

func TestFocusSettle(t *testing.T) {
	h := newHarness(t, nil)
	h.m.session.OpenPicker(0)

	deliver[settleMsg](h, h.send(tea.FocusMsg{}))
	if h.m.session.DialogOpen() {
		t.Error("refocus did not clear the picker flag")
	}
}

// Scenario: five colours render five cards and the download button.
func TestExtraction(t *testing.T) {
	var got extraction.Params
	h := newHarness(t, extractorFunc(func(_ context.Context, p extraction.Params) (extraction.Palette, error) {
		got = p
		return fixedPalette(p.NumColors), nil
	}))
	h.selectLogo()
	h.m.session.SetNumColors(5)

	msgs := h.press("enter")
	if !h.view().Loading || !strings.Contains(h.m.View(), "Extracting colors") {
		t.Error("loading indicator not shown")
	}
	deliver[extractionMsg](h, msgs)

	if got.NumColors != 5 || got.Image.Name != "logo.png" {
		t.Errorf("request = %d colours for %q", got.NumColors, got.Image.Name)
	}
	v := h.view()
	if len(v.Cards) != 5 || !v.DownloadVisible || v.Loading {
		t.Errorf("View() = %d cards, download %v, loading %v", len(v.Cards), v.DownloadVisible, v.Loading)
	}
	if !strings.Contains(h.m.View(), "Download Palette") {
		t.Error("download button not rendered")
	}
}

// Scenario: a service error hides the results and shows its message.
func TestExtractionServiceError(t *testing.T) {
	h := newHarness(t, extractorFunc(func(context.Context, extraction.Params) (extraction.Palette, error) {
		return nil, &extraction.ServiceError{Message: "decode failed", StatusCode: 400}
	}))
	h.extractN(5)

	v := h.view()
	if v.ResultsVisible || v.Loading || v.Notice.Message != "Error: decode failed" {
		t.Errorf("View() = results %v loading %v notice %q", v.ResultsVisible, v.Loading, v.Notice.Message)
	}
}

func TestStaleExtractionIgnored(t *testing.T) {
	h := newHarness(t, nil)
	h.selectLogo()

	h.m.session.SetNumColors(2)
	first := h.press("enter")
	h.m.session.SetNumColors(3)
	second := h.press("enter")

	deliver[extractionMsg](h, second)
	deliver[extractionMsg](h, first)
	if got := len(h.view().Cards); got != 3 {
		t.Errorf("cards = %d, want 3 from the newest request", got)
	}
}

func TestSlider(t *testing.T) {
	h := newHarness(t, nil)
	h.press("+")
	h.press("+")
	h.press("-")
	if got := h.view().NumColors; got != 6 {
		t.Errorf("NumColors = %d, want 6", got)
	}
	for range 20 {
		h.press("+")
	}
	if got := h.view().NumColors; got != session.DefaultMaxColors {
		t.Errorf("NumColors = %d, want the upper bound", got)
	}
}

// Scenario: copying the hex value writes it exactly and reverts the copied state.
func TestCopyHex(t *testing.T) {
	h := newHarness(t, nil)
	h.extractN(3)

	target := palette.Target{Card: 0, Field: palette.FieldHex}
	revert := deliver[copyMsg](h, h.press("c"))
	if h.clipboard.text != "#ff0000" {
		t.Errorf("clipboard = %q, want #ff0000", h.clipboard.text)
	}
	if !h.m.session.Copied(target) {
		t.Error("copied state not shown")
	}
	if n, _ := h.m.session.Notice(); n.Message != "Color code copied to clipboard!" {
		t.Errorf("notice = %q", n.Message)
	}

	deliver[copiedRevertMsg](h, revert)
	if h.m.session.Copied(target) {
		t.Error("copied state not reverted")
	}
}

func TestCopyMovesFocus(t *testing.T) {
	h := newHarness(t, nil)
	h.extractN(3)

	h.press("l")
	h.press("j")
	deliver[copyMsg](h, h.press("c"))
	if h.clipboard.text != "rgb(255, 40, 0)" {
		t.Errorf("clipboard = %q, want the second card's rgb", h.clipboard.text)
	}

	// Focus wraps around.
	h.press("h")
	h.press("h")
	h.press("k")
	h.press("k")
	deliver[copyMsg](h, h.press("y"))
	if !strings.HasPrefix(h.clipboard.text, "cmyk(") {
		t.Errorf("clipboard = %q, want the third card's cmyk", h.clipboard.text)
	}
}

func TestCopyFailure(t *testing.T) {
	h := newHarness(t, nil)
	h.extractN(1)
	h.clipboard.err = errors.New("permission denied")

	deliver[copyMsg](h, h.press("c"))
	if n, _ := h.m.session.Notice(); n.Message != "Failed to copy: permission denied" {
		t.Errorf("notice = %q", n.Message)
	}
	if h.m.session.Copied(palette.Target{}) {
		t.Error("failed copy shows copied state")
	}
}

func TestExport(t *testing.T) {
	h := newHarness(t, nil)

	if msgs := h.press("d"); has[exportMsg](msgs) {
		t.Error("export ran with no palette")
	}
	if n, _ := h.m.session.Notice(); n.Message != "No palette to export" {
		t.Errorf("notice = %q", n.Message)
	}

	h.extractN(3)
	deliver[exportMsg](h, h.press("d"))

	if n, _ := h.m.session.Notice(); n.Message != "Brand palette exported successfully!" {
		t.Errorf("notice = %q", n.Message)
	}
	if _, err := os.Stat(filepath.Join(h.exportDir, export.DefaultFilename)); err != nil {
		t.Errorf("exported file missing: %v", err)
	}
}

func TestNoticeHides(t *testing.T) {
	h := newHarness(t, nil)
	msgs := h.press("d")

	if !has[hideNoticeMsg](msgs) {
		t.Fatal("no hide timer scheduled for the notice")
	}
	deliver[hideNoticeMsg](h, msgs)
	if _, visible := h.m.session.Notice(); visible {
		t.Error("notice still visible after its timer")
	}
}

func TestNewerNoticeOutlivesOldTimer(t *testing.T) {
	h := newHarness(t, nil)
	old := h.press("d")
	h.m.session.Notify(session.NoticeInfo, "newer")

	deliver[hideNoticeMsg](h, old)
	if n, visible := h.m.session.Notice(); !visible || n.Message != "newer" {
		t.Errorf("Notice() = %q, %v; want the newer notice visible", n.Message, visible)
	}
}

func TestReset(t *testing.T) {
	h := newHarness(t, nil)
	h.extractN(3)

	h.press("r")
	v := h.view()
	if v.ExtractEnabled || v.ResultsVisible || v.FileName != "" {
		t.Errorf("View() after reset = %+v", v)
	}
	if !strings.Contains(h.m.View(), "Browse Files") {
		t.Error("upload prompt not restored")
	}
}

func TestMouseHoverAndClick(t *testing.T) {
	h := newHarness(t, nil)
	z := h.m.zoneLayout()

	h.send(tea.MouseMsg{X: 1, Y: z.top + 1, Action: tea.MouseActionMotion})
	if !h.view().Highlighted {
		t.Error("hover did not highlight the drop zone")
	}
	h.send(tea.MouseMsg{X: 1, Y: z.top + z.height + 5, Action: tea.MouseActionMotion})
	if h.view().Highlighted {
		t.Error("highlight kept after leaving the drop zone")
	}

	// A click on prompt text is a click on a child.
	h.send(tea.MouseMsg{X: z.width / 2, Y: z.top + 1, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if h.m.pickerVisible {
		t.Error("click on a child opened the picker")
	}

	h.send(tea.MouseMsg{X: 0, Y: z.top + 1, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if !h.m.pickerVisible {
		t.Error("click on the zone border did not open the picker")
	}
}

func TestMouseClickButton(t *testing.T) {
	h := newHarness(t, nil)
	z := h.m.zoneLayout()

	h.send(tea.MouseMsg{X: z.width / 2, Y: z.buttonY, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if !h.m.pickerVisible {
		t.Error("browse button did not open the picker")
	}
}

func TestInitialFile(t *testing.T) {
	h := newHarness(t, nil)
	h.m.initial = h.writeFile("logo.png", pngBytes(t))

	deliver[previewMsg](h, deliver[fileLoadedMsg](h, collect(h.m.Init())))
	if !h.view().ExtractEnabled {
		t.Error("initial file not selected")
	}
}
