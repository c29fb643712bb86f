package view

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/Iron-Ham/groupspin/internal/tui/styles"
)

// panelTextWidth is the number of cells available inside a group panel.
const panelTextWidth = styles.PanelWidth - 4

// fit shortens s to at most width cells, ending in "…" when cut. Escape
// sequences and wide runes are measured the way the terminal draws them.
func fit(s string, width int) string {
	if lipgloss.Width(s) <= width {
		return s
	}
	if width <= 1 {
		return "…"
	}
	return ansi.Truncate(s, width, "…")
}
