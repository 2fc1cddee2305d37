package palette

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// CardWidth is the rendered width of one card, borders included.
const CardWidth = 38

var (
	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Width(CardWidth - 2)

	nameStyle   = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(6).PaddingLeft(1)
	valueStyle  = lipgloss.NewStyle()
	focusStyle  = lipgloss.NewStyle().Reverse(true)
	copiedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
)

// ViewState carries the per-render interaction state.
type ViewState struct {
	// Focus is the row under the cursor; Focused must be true for it to apply.
	Focus   Target
	Focused bool
	Copied  func(Target) bool
}

// RenderCard draws card i: a swatch band with the percentage in the contrast
// colour, the colour name, and the three copyable value rows.
func RenderCard(i int, card Card, vs ViewState) string {
	inner := CardWidth - 2

	swatch := lipgloss.NewStyle().
		Background(lipgloss.Color(card.Swatch.Hex())).
		Foreground(lipgloss.Color(card.Foreground.Hex())).
		Width(inner).
		Height(3).
		Align(lipgloss.Center, lipgloss.Center).
		Render(card.Percentage)

	rows := []string{swatch, nameStyle.Render(card.Name)}
	for _, f := range Fields {
		t := Target{Card: i, Field: f}
		value := valueStyle.Render(card.Value(f))
		if vs.Focused && vs.Focus == t {
			value = focusStyle.Render(card.Value(f))
		}
		marker := "  ⧉"
		if vs.Copied != nil && vs.Copied(t) {
			marker = copiedStyle.Render("  ✓")
		}
		rows = append(rows, labelStyle.Render(f.Label()+":")+value+marker)
	}

	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

// RenderGrid lays cards out left to right, wrapping to fit width.
func RenderGrid(cards []Card, width int, vs ViewState) string {
	if len(cards) == 0 {
		return ""
	}

	perRow := max(width/CardWidth, 1)
	var lines []string
	for start := 0; start < len(cards); start += perRow {
		end := min(start+perRow, len(cards))
		row := make([]string, 0, end-start)
		for i := start; i < end; i++ {
			row = append(row, RenderCard(i, cards[i], vs))
		}
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	}
	return strings.Join(lines, "\n")
}
