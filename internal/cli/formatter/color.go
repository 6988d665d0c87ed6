package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
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
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// namedColors maps the color names the generator tends to produce onto the
// palette. Anything else is passed to lipgloss as-is.
var namedColors = map[string]lipgloss.Color{
	"green":  ColorGreen,
	"yellow": ColorYellow,
	"red":    ColorRed,
	"blue":   ColorBlue,
	"purple": ColorPurple,
	"pink":   ColorPurple,
	"orange": ColorHeader,
	"grey":   ColorDim,
	"gray":   ColorDim,
}

// EventColor resolves an event or task color to a terminal color.
func EventColor(c string) lipgloss.Color {
	c = strings.ToLower(strings.TrimSpace(c))
	if named, ok := namedColors[c]; ok {
		return named
	}
	if strings.HasPrefix(c, "#") && (len(c) == 4 || len(c) == 7) {
		return lipgloss.Color(c)
	}
	return ColorDim
}

// Swatch renders a colored dot for an event color.
func Swatch(c string) string {
	return lipgloss.NewStyle().Foreground(EventColor(c)).Render("●")
}

// AddedIndicator marks whether a generated task is already on the calendar.
func AddedIndicator(added bool) string {
	if added {
		return StyleGreen.Render("✔ added")
	}
	return StyleDim.Render("○ pending")
}

// ActiveIndicator returns a colored alarm state such as "● ON".
func ActiveIndicator(active bool) string {
	if active {
		return StyleGreen.Render("● ON")
	}
	return StyleDim.Render("○ OFF")
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
