package keymap

import tea "github.com/charmbracelet/bubbletea"

// DefaultKeymap returns the built-in key bindings.
func DefaultKeymap() *Keymap {
	return &Keymap{
		Name:        "default",
		Description: "Default groupspin key bindings",
		Modes: map[Mode]*ModeBindings{
			ModeNormal: defaultNormalBindings(),
			ModeFind:   defaultFindBindings(),
		},
	}
}

func defaultNormalBindings() *ModeBindings {
	return &ModeBindings{
		Mode: ModeNormal,
		Bindings: []KeyBinding{
			// Roster navigation
			{KeyType: tea.KeyDown, Command: CmdNextParticipant, Description: "Next participant", Category: "Roster"},
			{KeyType: tea.KeyRunes, Rune: 'j', Command: CmdNextParticipant, Description: "Next participant", Category: "Roster"},
			{KeyType: tea.KeyRight, Command: CmdNextParticipant, Description: "Next participant", Category: "Roster"},
			{KeyType: tea.KeyRunes, Rune: 'l', Command: CmdNextParticipant, Description: "Next participant", Category: "Roster"},
			{KeyType: tea.KeyTab, Command: CmdNextParticipant, Description: "Next participant", Category: "Roster"},
			{KeyType: tea.KeyUp, Command: CmdPrevParticipant, Description: "Previous participant", Category: "Roster"},
			{KeyType: tea.KeyRunes, Rune: 'k', Command: CmdPrevParticipant, Description: "Previous participant", Category: "Roster"},
			{KeyType: tea.KeyLeft, Command: CmdPrevParticipant, Description: "Previous participant", Category: "Roster"},
			{KeyType: tea.KeyRunes, Rune: 'h', Command: CmdPrevParticipant, Description: "Previous participant", Category: "Roster"},
			{KeyType: tea.KeyShiftTab, Command: CmdPrevParticipant, Description: "Previous participant", Category: "Roster"},
			{KeyType: tea.KeyRunes, Rune: 'g', Command: CmdFirstParticipant, Description: "First participant", Category: "Roster"},
			{KeyType: tea.KeyRunes, Rune: 'G', Command: CmdLastParticipant, Description: "Last participant", Category: "Roster"},
			{KeyType: tea.KeyRunes, Rune: '/', Command: CmdEnterFindMode, Description: "Find participant", Category: "Roster"},

			// Roulette
			{KeyType: tea.KeyEnter, Command: CmdPick, Description: "Spin for participant", Category: "Roulette"},
			{KeyType: tea.KeyRunes, Rune: 'p', Command: CmdPick, Description: "Spin for participant", Category: "Roulette"},
			{KeyType: tea.KeySpace, Command: CmdStop, Description: "Stop the wheel", Category: "Roulette"},
			{KeyType: tea.KeyRunes, Rune: 's', Command: CmdStop, Description: "Stop the wheel", Category: "Roulette"},
			{KeyType: tea.KeyRunes, Rune: 'S', Command: CmdStop, Description: "Stop the wheel", Category: "Roulette"},
			{KeyType: tea.KeyEsc, Command: CmdStop, Description: "Stop the wheel", Category: "Roulette"},
			{KeyType: tea.KeyCtrlS, Command: CmdStop, Description: "Stop the wheel", Category: "Roulette"},
			{KeyType: tea.KeyRunes, Rune: 'a', Command: CmdStartAuto, Description: "Auto-assign everyone", Category: "Roulette"},
			{KeyType: tea.KeyRunes, Rune: 'x', Command: CmdStopAuto, Description: "Stop auto-assign", Category: "Roulette"},

			// Application
			{KeyType: tea.KeyRunes, Rune: '?', Command: CmdToggleHelp, Description: "Toggle help", Category: "Application"},
			{KeyType: tea.KeyRunes, Rune: 'q', Command: CmdQuit, Description: "Quit", Category: "Application"},
			{KeyType: tea.KeyCtrlC, Command: CmdQuit, Description: "Quit", Category: "Application"},
		},
	}
}

func defaultFindBindings() *ModeBindings {
	return &ModeBindings{
		Mode: ModeFind,
		Bindings: []KeyBinding{
			{KeyType: tea.KeyEnter, Command: CmdFindConfirm, Description: "Spin for match", Category: "Find"},
			{KeyType: tea.KeyEsc, Command: CmdFindCancel, Description: "Cancel", Category: "Find"},
			{KeyType: tea.KeyCtrlC, Command: CmdQuit, Description: "Quit", Category: "Application"},
		},
	}
}
