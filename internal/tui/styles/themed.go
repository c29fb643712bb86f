package styles

import "github.com/charmbracelet/lipgloss"

// PanelWidth is the minimum width of a group panel, borders included.
const PanelWidth = 18

// ThemedStyles contains the lipgloss styles built from a color palette.
type ThemedStyles struct {
	Palette *ColorPalette

	// Convenience styles for colors
	Primary   lipgloss.Style
	Secondary lipgloss.Style
	Warning   lipgloss.Style
	Error     lipgloss.Style
	Muted     lipgloss.Style
	Text      lipgloss.Style

	// Header
	Title    lipgloss.Style
	Subtitle lipgloss.Style

	// Group panels
	Panel          lipgloss.Style
	PanelHighlight lipgloss.Style
	PanelBlink     lipgloss.Style
	PanelTitle     lipgloss.Style
	PanelCount     lipgloss.Style
	Member         lipgloss.Style
	Preview        lipgloss.Style
	EmptySlot      lipgloss.Style

	// Roster
	RosterTitle lipgloss.Style
	RosterItem  lipgloss.Style
	RosterCur   lipgloss.Style
	Spinning    lipgloss.Style

	// Status line badges
	BadgeSpin lipgloss.Style
	BadgeStop lipgloss.Style
	BadgeAuto lipgloss.Style
	BadgeDone lipgloss.Style

	// Find prompt
	Prompt lipgloss.Style
}

// NewThemedStyles creates a ThemedStyles from the given color palette.
func NewThemedStyles(p *ColorPalette) *ThemedStyles {
	s := &ThemedStyles{Palette: p}

	s.Primary = lipgloss.NewStyle().Foreground(p.Primary)
	s.Secondary = lipgloss.NewStyle().Foreground(p.Secondary)
	s.Warning = lipgloss.NewStyle().Foreground(p.Warning)
	s.Error = lipgloss.NewStyle().Foreground(p.Error).Bold(true)
	s.Muted = lipgloss.NewStyle().Foreground(p.Muted)
	s.Text = lipgloss.NewStyle().Foreground(p.Text)

	s.Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Primary)

	s.Subtitle = lipgloss.NewStyle().
		Foreground(p.Muted).
		Italic(true)

	s.Panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Border).
		Padding(0, 1).
		Width(PanelWidth - 2)

	s.PanelHighlight = s.Panel.
		Border(lipgloss.ThickBorder()).
		BorderForeground(p.Highlight)

	s.PanelBlink = s.Panel.
		Border(lipgloss.DoubleBorder()).
		BorderForeground(p.Blink)

	s.PanelTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Text)

	s.PanelCount = lipgloss.NewStyle().
		Foreground(p.Muted)

	s.Member = lipgloss.NewStyle().
		Foreground(p.Text)

	s.Preview = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.HighlightText)

	s.EmptySlot = lipgloss.NewStyle().
		Foreground(p.Muted).
		Faint(true)

	s.RosterTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Secondary)

	s.RosterItem = lipgloss.NewStyle().
		Foreground(p.Text).
		PaddingLeft(2)

	s.RosterCur = lipgloss.NewStyle().
		Foreground(p.Cursor).
		Bold(true)

	s.Spinning = lipgloss.NewStyle().
		Foreground(p.Highlight).
		Bold(true).
		PaddingLeft(2)

	badge := lipgloss.NewStyle().
		Padding(0, 1).
		Bold(true).
		Foreground(p.Surface)

	s.BadgeSpin = badge.Background(p.Highlight)
	s.BadgeStop = badge.Background(p.Warning)
	s.BadgeAuto = badge.Background(p.Primary)
	s.BadgeDone = badge.Background(p.Secondary)

	s.Prompt = lipgloss.NewStyle().
		Foreground(p.Primary).
		Bold(true)

	return s
}

// ForTheme returns the styles for a theme name.
func ForTheme(name string) *ThemedStyles {
	return NewThemedStyles(GetPalette(ThemeName(name)))
}
