package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/taxis/internal/taxonomy"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorAqua   = lipgloss.Color("#689d6a")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

// Predefined lipgloss styles.
var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleAqua   = lipgloss.NewStyle().Foreground(ColorAqua)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// GroupStyle returns the accent used for a taxonomy group.
func GroupStyle(group string) lipgloss.Style {
	switch group {
	case taxonomy.GroupDefining:
		return StyleBlue
	case taxonomy.GroupSeeking:
		return StyleGreen
	case taxonomy.GroupEngaging:
		return StylePurple
	case taxonomy.GroupReflecting:
		return StyleAqua
	default:
		return StyleDim
	}
}

// Code renders a result code. ERROR is red, OTHER is dimmed and anything
// the taxonomy does not know is yellow.
func Code(code string, known bool) string {
	switch {
	case code == taxonomy.CodeError:
		return StyleRed.Render(code)
	case code == taxonomy.CodeOther:
		return StyleDim.Render(code)
	case !known:
		return StyleYellow.Render(code)
	default:
		return StyleFg.Render(code)
	}
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

// Dim renders text in the muted/dim color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text in bold with the foreground color.
func Bold(text string) string {
	return StyleBold.Render(text)
}

// Error renders an error line.
func Error(err error) string {
	return StyleRed.Render("✖ ") + err.Error()
}
