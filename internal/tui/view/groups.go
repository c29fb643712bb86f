package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Iron-Ham/groupspin/internal/tui/styles"
)

// GroupsState holds what the group panels need to render.
type GroupsState struct {
	// Names are the display names, one per group.
	Names []string
	// Members are the assigned participants per group, in assignment order.
	Members [][]string
	// Highlight is the group under the wheel, or -1.
	Highlight int
	// Preview is the participant travelling with the highlight.
	Preview string
	// Blink is the group flashing after a landing, or -1.
	Blink int
	// BlinkOn is the current phase of the flash.
	BlinkOn bool
	// Width is the available terminal width; 0 renders a single row.
	Width int
	// Display maps a participant to the text shown for them.
	Display func(string) string
}

func (s GroupsState) display(name string) string {
	if s.Display == nil {
		return name
	}
	return s.Display(name)
}

// RenderGroups renders one bordered panel per group, wrapping into rows that
// fit the width.
func RenderGroups(state GroupsState, st *styles.ThemedStyles) string {
	n := len(state.Names)
	if n == 0 {
		return ""
	}

	perRow := n
	if state.Width > 0 {
		perRow = max(1, min(n, state.Width/styles.PanelWidth))
	}

	var rows []string
	for start := 0; start < n; start += perRow {
		end := min(start+perRow, n)

		height := 0
		bodies := make([]string, 0, end-start)
		for i := start; i < end; i++ {
			body := groupBody(state, i, st)
			height = max(height, lipgloss.Height(body))
			bodies = append(bodies, body)
		}

		panels := make([]string, 0, len(bodies))
		for j, body := range bodies {
			panels = append(panels, panelStyle(state, start+j, st).Height(height).Render(body))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, panels...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func panelStyle(state GroupsState, i int, st *styles.ThemedStyles) lipgloss.Style {
	switch {
	case i == state.Blink && state.BlinkOn:
		return st.PanelBlink
	case i == state.Highlight:
		return st.PanelHighlight
	default:
		return st.Panel
	}
}

func groupBody(state GroupsState, i int, st *styles.ThemedStyles) string {
	var members []string
	if i < len(state.Members) {
		members = state.Members[i]
	}

	count := fmt.Sprintf("(%d)", len(members))

	var b strings.Builder
	b.WriteString(st.PanelTitle.Render(fit(state.Names[i], panelTextWidth-len(count)-1)))
	b.WriteString(" ")
	b.WriteString(st.PanelCount.Render(count))

	if len(members) == 0 && i != state.Highlight {
		b.WriteString("\n")
		b.WriteString(st.EmptySlot.Render("·"))
	}
	for _, m := range members {
		b.WriteString("\n")
		b.WriteString(st.Member.Render(fit(state.display(m), panelTextWidth)))
	}
	if i == state.Highlight && state.Preview != "" {
		b.WriteString("\n")
		b.WriteString(st.Preview.Render(fit("» "+state.display(state.Preview), panelTextWidth)))
	}
	return b.String()
}
