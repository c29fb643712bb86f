package styles

import (
	"slices"

	"github.com/charmbracelet/lipgloss"
)

// ThemeName represents a named color theme.
type ThemeName string

// Available theme names.
const (
	ThemeDefault      ThemeName = "default"       // Purple/green dark theme
	ThemeHighContrast ThemeName = "high_contrast" // Black/white/yellow for projectors
)

// BuiltinThemes returns all built-in theme names.
func BuiltinThemes() []string {
	return []string{
		string(ThemeDefault),
		string(ThemeHighContrast),
	}
}

// IsValidTheme checks if a theme name is known.
func IsValidTheme(name string) bool {
	return slices.Contains(BuiltinThemes(), name)
}

// ColorPalette defines the color scheme for a theme.
type ColorPalette struct {
	// Primary accent color (titles, the highlighted group)
	Primary lipgloss.Color
	// Secondary accent color (completed groups, success)
	Secondary lipgloss.Color
	// Warning color (deceleration, auto mode)
	Warning lipgloss.Color
	// Error color
	Error lipgloss.Color
	// Muted color (de-emphasized text, empty slots)
	Muted lipgloss.Color
	// Surface color (panel backgrounds)
	Surface lipgloss.Color
	// Text color (primary text)
	Text lipgloss.Color
	// Border color (idle panel borders)
	Border lipgloss.Color

	// Roulette colors
	Highlight     lipgloss.Color // border of the group under the wheel
	HighlightText lipgloss.Color // preview name inside the highlighted group
	Blink         lipgloss.Color // landing confirmation flash
	Cursor        lipgloss.Color // selected participant in the roster
}

// DefaultPalette returns the default purple/green dark theme palette.
func DefaultPalette() *ColorPalette {
	return &ColorPalette{
		Primary:   lipgloss.Color("#A78BFA"), // Purple (violet-400)
		Secondary: lipgloss.Color("#10B981"), // Green
		Warning:   lipgloss.Color("#F59E0B"), // Amber
		Error:     lipgloss.Color("#F87171"), // Red (red-400)
		Muted:     lipgloss.Color("#9CA3AF"), // Gray
		Surface:   lipgloss.Color("#1F2937"), // Dark surface
		Text:      lipgloss.Color("#F9FAFB"), // Light text
		Border:    lipgloss.Color("#6B7280"), // Gray-500

		Highlight:     lipgloss.Color("#FBBF24"), // Yellow
		HighlightText: lipgloss.Color("#FEF3C7"), // Light cream
		Blink:         lipgloss.Color("#10B981"), // Green
		Cursor:        lipgloss.Color("#60A5FA"), // Blue
	}
}

// HighContrastPalette returns a palette for projectors and low-vision use.
func HighContrastPalette() *ColorPalette {
	return &ColorPalette{
		Primary:   lipgloss.Color("#FFFF00"),
		Secondary: lipgloss.Color("#00FF00"),
		Warning:   lipgloss.Color("#FFA500"),
		Error:     lipgloss.Color("#FF0000"),
		Muted:     lipgloss.Color("#C0C0C0"),
		Surface:   lipgloss.Color("#000000"),
		Text:      lipgloss.Color("#FFFFFF"),
		Border:    lipgloss.Color("#FFFFFF"),

		Highlight:     lipgloss.Color("#FFFF00"),
		HighlightText: lipgloss.Color("#FFFF00"),
		Blink:         lipgloss.Color("#00FFFF"),
		Cursor:        lipgloss.Color("#00FFFF"),
	}
}

// GetPalette returns the palette for a theme name, falling back to the
// default palette for unknown names.
func GetPalette(name ThemeName) *ColorPalette {
	switch name {
	case ThemeHighContrast:
		return HighContrastPalette()
	default:
		return DefaultPalette()
	}
}
