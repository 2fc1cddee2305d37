package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jmylchreest/brandstream/internal/image"
	"github.com/jmylchreest/brandstream/internal/palette"
	"github.com/jmylchreest/brandstream/internal/session"
)

// headerHeight is the number of lines above the drop zone.
const headerHeight = 2

func (m Model) header() string {
	return styleTitle.Render("BrandStream") + styleHelp.Render("  brand palettes from any image") + "\n"
}

// View implements tea.Model.
func (m Model) View() string {
	if m.pickerVisible {
		return m.header() + "\n" +
			styleTitle.Render("Choose an image") + "  " + styleHelp.Render(m.picker.CurrentDirectory) + "\n\n" +
			m.picker.View() + "\n" +
			m.help.View(pickerKeyMap)
	}

	v := m.session.View()

	var b strings.Builder
	b.WriteString(m.header())
	b.WriteString("\n")
	b.WriteString(m.renderZone(v))
	b.WriteString("\n\n")
	b.WriteString(renderSlider(v))
	b.WriteString("\n")
	b.WriteString(renderButton("Extract Colors", v.ExtractEnabled))
	b.WriteString("\n\n")

	switch {
	case v.Loading:
		b.WriteString(m.spinner.View() + " Extracting colors…\n\n")
	case v.ResultsVisible:
		b.WriteString(palette.RenderGrid(v.Cards, m.width, palette.ViewState{
			Focus:   m.focus,
			Focused: true,
			Copied:  m.session.Copied,
		}))
		b.WriteString("\n")
		if v.DownloadVisible {
			b.WriteString(renderButton("Download Palette", true) + styleHelp.Render("  press d") + "\n")
		}
		b.WriteString("\n")
	}

	if v.NoticeVisible {
		b.WriteString(renderNotice(v.Notice) + "\n")
	}
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

// zoneLines returns the drop zone content, one entry per line. The button
// is always the last line.
func zoneLines(v session.View) []string {
	var lines []string
	switch {
	case v.ShowsChangeFile:
		if v.Preview != nil {
			lines = append(lines, strings.Split(image.HalfBlocks(v.Preview.Thumbnail), "\n")...)
			lines = append(lines, "", fmt.Sprintf("%s  %s %d×%d", v.FileName, v.Preview.Format, v.Preview.Width, v.Preview.Height))
		} else {
			lines = append(lines, v.FileName)
		}
		lines = append(lines, "", renderButton("Change File", true))
	default:
		lines = append(lines,
			"Drop an image here",
			styleHelp.Render("paste a path or URL, click here or press o to browse"),
		)
		if v.FileName != "" {
			lines = append(lines, styleHelp.Render("loading "+v.FileName+"…"))
		}
		lines = append(lines, "", renderButton("Browse Files", true))
	}
	return lines
}

func (m Model) renderZone(v session.View) string {
	style := styleZone
	if v.Highlighted {
		style = styleZoneActive
	}
	return style.Width(max(min(m.width-2, 72), 40)).Render(strings.Join(zoneLines(v), "\n"))
}

// zone is the on-screen geometry of the drop zone.
type zone struct {
	top, width, height int
	buttonY            int
	// textRows are the absolute rows holding non-blank content.
	textRows map[int]bool
}

func (m Model) zoneLayout() zone {
	v := m.session.View()
	rendered := m.renderZone(v)
	z := zone{
		top:      headerHeight,
		width:    lipgloss.Width(rendered),
		height:   lipgloss.Height(rendered),
		textRows: make(map[int]bool),
	}
	// Content starts below the top border.
	for i, line := range zoneLines(v) {
		if strings.TrimSpace(line) != "" {
			z.textRows[z.top+1+i] = true
		}
	}
	z.buttonY = z.top + z.height - 2
	return z
}

func (z zone) contains(x, y int) bool {
	return x >= 0 && x < z.width && y >= z.top && y < z.top+z.height
}

// onFrame reports whether (x, y) hits the zone itself rather than a child:
// the border, the side padding or an empty row.
func (z zone) onFrame(x, y int) bool {
	const inset = 3
	return !z.textRows[y] || x < inset || x >= z.width-inset
}

func renderSlider(v session.View) string {
	span := v.MaxColors - v.MinColors + 1
	filled := v.NumColors - v.MinColors + 1
	bar := styleSliderOn.Render(strings.Repeat("■", filled)) +
		styleSliderOff.Render(strings.Repeat("·", max(span-filled, 0)))
	return fmt.Sprintf("Colors  %d %s %d   %s",
		v.MinColors, bar, v.MaxColors, styleTitle.Render(fmt.Sprintf("%d", v.NumColors)))
}

func renderButton(label string, enabled bool) string {
	if !enabled {
		return styleButtonDisabled.Render("[ " + label + " ]")
	}
	return styleButton.Render(label)
}

func renderNotice(n session.Notice) string {
	switch n.Kind {
	case session.NoticeSuccess:
		return styleNoticeSuccess.Render("✓ " + n.Message)
	case session.NoticeError:
		return styleNoticeError.Render("✗ " + n.Message)
	default:
		return styleNoticeInfo.Render(n.Message)
	}
}
