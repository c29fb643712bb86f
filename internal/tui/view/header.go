package view

import (
	"fmt"
	"strings"

	"github.com/Iron-Ham/groupspin/internal/errors"
	"github.com/Iron-Ham/groupspin/internal/tui/styles"
)

// HeaderState holds the title bar state.
type HeaderState struct {
	Assigned int
	Total    int
	Groups   int
	Spinning bool
	Stopping bool
	Auto     bool
	Done     bool
	Headless bool
}

// RenderHeader renders the title with progress and mode badges.
func RenderHeader(state HeaderState, st *styles.ThemedStyles) string {
	parts := []string{
		st.Title.Render("groupspin"),
		st.Subtitle.Render(fmt.Sprintf("%d/%d assigned · %d groups", state.Assigned, state.Total, state.Groups)),
	}

	switch {
	case state.Stopping:
		parts = append(parts, st.BadgeStop.Render("STOPPING"))
	case state.Spinning:
		parts = append(parts, st.BadgeSpin.Render("SPINNING"))
	}
	if state.Auto {
		parts = append(parts, st.BadgeAuto.Render("AUTO"))
	}
	if state.Done {
		parts = append(parts, st.BadgeDone.Render("DONE"))
	}
	if state.Headless {
		parts = append(parts, st.Muted.Render("(no animation)"))
	}
	return strings.Join(parts, "  ")
}

// RenderStatus renders the info or error line. An error wins over info.
// Errors that are not user-facing show a generic line; their detail is in the
// log.
func RenderStatus(info string, err error, st *styles.ThemedStyles) string {
	if err != nil {
		msg := "internal error, see logs"
		if errors.IsUserFacing(err) {
			msg = err.Error()
		}
		if errors.GetSeverity(err) <= errors.SeverityWarning {
			return st.Warning.Render("Warning: " + msg)
		}
		return st.Error.Render("Error: " + msg)
	}
	if info == "" {
		return ""
	}
	return st.Secondary.Render(info)
}
