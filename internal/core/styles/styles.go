// Package styles provides shared lipgloss v2 styles for CLI and TUI components.
package styles

import (
	"image/color"

	lipgloss "charm.land/lipgloss/v2"
	"github.com/lucasb-eyer/go-colorful"
)

// CurrentPalette holds the active theme palette.
var CurrentPalette Palette

// Exported color aliases for convenience.
var (
	ColorPrimary    color.Color
	ColorForeground color.Color
	ColorMuted      color.Color
	ColorBackground color.Color
	ColorSuccess    color.Color
	ColorWarning    color.Color
	ColorError      color.Color

	// ColorCommitted outlines the region that will be saved.
	ColorCommitted color.Color
	// ColorPreview outlines the region under the pointer.
	ColorPreview color.Color
)

// Style exports.
var (
	// CLI styles.
	CommandHeaderStyle lipgloss.Style
	SuccessStyle       lipgloss.Style
	WarnStyle          lipgloss.Style
	ErrorStyle         lipgloss.Style
	MutedStyle         lipgloss.Style

	// TUI styles.
	HeaderStyle     lipgloss.Style
	CounterStyle    lipgloss.Style
	PathStyle       lipgloss.Style
	StatusStyle     lipgloss.Style
	StatusErrStyle  lipgloss.Style
	HelpKeyStyle    lipgloss.Style
	HelpDescStyle   lipgloss.Style
	PlaceholderText lipgloss.Style
)

// SetTheme sets the active palette and rebuilds all global styles.
func SetTheme(p Palette) {
	CurrentPalette = p

	ColorPrimary = p.Primary
	ColorForeground = p.Foreground
	ColorMuted = p.Muted
	ColorBackground = p.Background
	ColorSuccess = p.Success
	ColorWarning = p.Warning
	ColorError = p.Error

	ColorCommitted = p.Committed
	ColorPreview = p.Preview

	CommandHeaderStyle = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true)
	SuccessStyle = lipgloss.NewStyle().Foreground(ColorSuccess)
	WarnStyle = lipgloss.NewStyle().Foreground(ColorWarning)
	ErrorStyle = lipgloss.NewStyle().Foreground(ColorError)
	MutedStyle = lipgloss.NewStyle().Foreground(ColorMuted)

	HeaderStyle = lipgloss.NewStyle().
		Background(p.Surface).
		Foreground(ColorForeground).
		Padding(0, 1)
	CounterStyle = lipgloss.NewStyle().
		Background(p.Surface).
		Foreground(ColorPrimary).
		Bold(true).
		Padding(0, 1)
	PathStyle = lipgloss.NewStyle().
		Background(p.Surface).
		Foreground(ColorForeground)
	StatusStyle = lipgloss.NewStyle().
		Foreground(ColorMuted).
		Italic(true)
	StatusErrStyle = lipgloss.NewStyle().
		Foreground(ColorError).
		Bold(true)
	HelpKeyStyle = lipgloss.NewStyle().
		Foreground(ColorPrimary)
	HelpDescStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)
	PlaceholderText = lipgloss.NewStyle().
		Foreground(ColorMuted)
}

// nolint:gochecknoinits // bootstrap default theme before any style is accessed.
func init() {
	SetTheme(themes[DefaultTheme])
}

// Dim blends c toward the theme background by t in [0, 1].
func Dim(c color.Color, t float64) color.Color {
	return Blend(c, ColorBackground, t)
}

// Blend mixes a toward b by t in [0, 1] in RGB space.
func Blend(a, b color.Color, t float64) color.Color {
	ca, ok := colorful.MakeColor(a)
	if !ok {
		return a
	}
	cb, ok := colorful.MakeColor(b)
	if !ok {
		return a
	}
	return ca.BlendRgb(cb, t).Clamped()
}
