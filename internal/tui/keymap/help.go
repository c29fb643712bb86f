package keymap

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
)

// shortHelpCommands are the commands shown in the one-line help bar, in order.
var shortHelpCommands = map[Mode][]Command{
	ModeNormal: {CmdPick, CmdStop, CmdStartAuto, CmdStopAuto, CmdEnterFindMode, CmdToggleHelp, CmdQuit},
	ModeFind:   {CmdFindConfirm, CmdFindCancel},
}

// HelpMap adapts one mode of a Keymap to bubbles' help.KeyMap.
type HelpMap struct {
	km   *Keymap
	mode Mode
}

// Help returns the help.KeyMap for mode.
func (km *Keymap) Help(mode Mode) HelpMap {
	return HelpMap{km: km, mode: mode}
}

// Binding collapses every binding of cmd into one key.Binding whose help
// lists all of its keys.
func (h HelpMap) Binding(cmd Command) key.Binding {
	bindings := h.km.GetBindingsForCommand(cmd, h.mode)
	if len(bindings) == 0 {
		return key.NewBinding(key.WithDisabled())
	}

	keys := make([]string, 0, len(bindings))
	for _, b := range bindings {
		keys = append(keys, b.String())
	}
	return key.NewBinding(
		key.WithKeys(keys...),
		key.WithHelp(strings.Join(keys, "/"), bindings[0].Description),
	)
}

// ShortHelp implements help.KeyMap.
func (h HelpMap) ShortHelp() []key.Binding {
	var out []key.Binding
	for _, cmd := range shortHelpCommands[h.mode] {
		if b := h.Binding(cmd); b.Enabled() {
			out = append(out, b)
		}
	}
	return out
}

// FullHelp implements help.KeyMap with one column per category.
func (h HelpMap) FullHelp() [][]key.Binding {
	var columns [][]key.Binding
	for _, category := range h.km.GetCategories(h.mode) {
		var column []key.Binding
		seen := make(map[Command]bool)
		for _, b := range h.km.GetModeBindings(h.mode) {
			if b.Category != category || seen[b.Command] {
				continue
			}
			seen[b.Command] = true
			column = append(column, h.Binding(b.Command))
		}
		columns = append(columns, column)
	}
	return columns
}

var _ help.KeyMap = HelpMap{}
