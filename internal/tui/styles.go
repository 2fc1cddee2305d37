package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorBrand  = lipgloss.AdaptiveColor{Light: "#0066CC", Dark: "#3399FF"}
	colorGreen  = lipgloss.AdaptiveColor{Light: "#00AF00", Dark: "#00D700"}
	colorRed    = lipgloss.AdaptiveColor{Light: "#D70000", Dark: "#FF5F5F"}
	colorGray   = lipgloss.AdaptiveColor{Light: "#767676", Dark: "#808080"}
	colorYellow = lipgloss.AdaptiveColor{Light: "#D7AF00", Dark: "#FFD700"}
)

var (
	styleTitle = lipgloss.NewStyle().Foreground(colorBrand).Bold(true)
	styleHelp  = lipgloss.NewStyle().Foreground(colorGray)

	styleZone = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorGray).
			Padding(0, 2)

	// styleZoneActive is the drop zone while something hovers over it.
	styleZoneActive = styleZone.
			BorderStyle(lipgloss.ThickBorder()).
			BorderForeground(colorYellow)

	styleButton = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(colorBrand).
			Padding(0, 1)

	styleButtonDisabled = lipgloss.NewStyle().
				Foreground(colorGray).
				Padding(0, 1)

	styleSliderOn  = lipgloss.NewStyle().Foreground(colorBrand)
	styleSliderOff = lipgloss.NewStyle().Foreground(colorGray)

	styleNoticeInfo    = lipgloss.NewStyle().Foreground(colorYellow).Bold(true)
	styleNoticeSuccess = lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
	styleNoticeError   = lipgloss.NewStyle().Foreground(colorRed).Bold(true)
)
