package view

import (
	"fmt"
	"strings"

	"github.com/Iron-Ham/groupspin/internal/tui/styles"
)

// RosterState holds the unassigned participant list.
type RosterState struct {
	Unassigned []string
	Cursor     int
	// InFlight is the participant whose spin is running, shown apart from
	// the list.
	InFlight string
	// Limit caps the number of rows; 0 shows everyone.
	Limit   int
	Display func(string) string
}

// RenderRoster renders the waiting participants with the cursor marked.
func RenderRoster(state RosterState, st *styles.ThemedStyles) string {
	display := state.Display
	if display == nil {
		display = func(s string) string { return s }
	}

	var b strings.Builder
	b.WriteString(st.RosterTitle.Render(fmt.Sprintf("Waiting (%d)", len(state.Unassigned))))

	if state.InFlight != "" {
		b.WriteString("\n")
		b.WriteString(st.Spinning.Render("↻ " + display(state.InFlight)))
	}

	if len(state.Unassigned) == 0 {
		b.WriteString("\n")
		b.WriteString(st.Muted.Render("  everyone has a group"))
		return b.String()
	}

	first, last := window(len(state.Unassigned), state.Cursor, state.Limit)
	if first > 0 {
		b.WriteString("\n")
		b.WriteString(st.Muted.Render(fmt.Sprintf("  ↑ %d more", first)))
	}
	for i := first; i < last; i++ {
		b.WriteString("\n")
		name := display(state.Unassigned[i])
		if i == state.Cursor {
			b.WriteString(st.RosterCur.Render("> " + name))
			continue
		}
		b.WriteString(st.RosterItem.Render(name))
	}
	if last < len(state.Unassigned) {
		b.WriteString("\n")
		b.WriteString(st.Muted.Render(fmt.Sprintf("  ↓ %d more", len(state.Unassigned)-last)))
	}
	return b.String()
}

// window returns the [first, last) slice of n rows that keeps cursor visible
// within limit rows.
func window(n, cursor, limit int) (int, int) {
	if limit <= 0 || n <= limit {
		return 0, n
	}
	first := max(0, min(cursor-limit/2, n-limit))
	return first, first + limit
}
