package styles

import (
	"image/color"
	"slices"

	lipgloss "charm.land/lipgloss/v2"
)

// Palette defines a semantic theme palette. Committed outlines the crop
// that will be saved and Preview the square under the pointer.
type Palette struct {
	Primary    color.Color
	Foreground color.Color
	Muted      color.Color
	Background color.Color
	Surface    color.Color
	Success    color.Color
	Warning    color.Color
	Error      color.Color
	Committed  color.Color
	Preview    color.Color
}

// DefaultTheme is the name of the default theme.
const DefaultTheme = "tokyo-night"

var themes = map[string]Palette{
	"tokyo-night": {
		Primary:    lipgloss.Color("#7aa2f7"),
		Foreground: lipgloss.Color("#c0caf5"),
		Muted:      lipgloss.Color("#565f89"),
		Background: lipgloss.Color("#1a1b26"),
		Surface:    lipgloss.Color("#3b4261"),
		Success:    lipgloss.Color("#9ece6a"),
		Warning:    lipgloss.Color("#e0af68"),
		Error:      lipgloss.Color("#f7768e"),
		Committed:  lipgloss.Color("#7aa2f7"),
		Preview:    lipgloss.Color("#9ece6a"),
	},
	"gruvbox": {
		Primary:    lipgloss.Color("#83a598"),
		Foreground: lipgloss.Color("#ebdbb2"),
		Muted:      lipgloss.Color("#665c54"),
		Background: lipgloss.Color("#282828"),
		Surface:    lipgloss.Color("#3c3836"),
		Success:    lipgloss.Color("#b8bb26"),
		Warning:    lipgloss.Color("#fabd2f"),
		Error:      lipgloss.Color("#fb4934"),
		Committed:  lipgloss.Color("#458588"),
		Preview:    lipgloss.Color("#b8bb26"),
	},
	// classic draws the overlay in pure blue and green on a plain
	// terminal palette.
	"classic": {
		Primary:    lipgloss.Color("#5f87ff"),
		Foreground: lipgloss.Color("#e4e4e4"),
		Muted:      lipgloss.Color("#808080"),
		Background: lipgloss.Color("#000000"),
		Surface:    lipgloss.Color("#303030"),
		Success:    lipgloss.Color("#00d700"),
		Warning:    lipgloss.Color("#ffd700"),
		Error:      lipgloss.Color("#ff0000"),
		Committed:  lipgloss.Color("#0000ff"),
		Preview:    lipgloss.Color("#00ff00"),
	},
}

// ThemeNames returns sorted names of all built-in themes.
func ThemeNames() []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// GetPalette returns the palette for the given theme name.
func GetPalette(name string) (Palette, bool) {
	p, ok := themes[name]
	return p, ok
}
