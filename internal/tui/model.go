package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Iron-Ham/groupspin/internal/event"
	"github.com/Iron-Ham/groupspin/internal/logging"
	"github.com/Iron-Ham/groupspin/internal/session"
	"github.com/Iron-Ham/groupspin/internal/timer"
	"github.com/Iron-Ham/groupspin/internal/tui/keymap"
	"github.com/Iron-Ham/groupspin/internal/tui/styles"
	"github.com/Iron-Ham/groupspin/internal/tui/view"
)

// Options configure the presentation. None of them affect assignment.
type Options struct {
	Theme         string
	BlinkCount    int
	BlinkInterval time.Duration
	// Emoji maps participant names (case-insensitive) to the text shown in
	// their place.
	Emoji    map[string]string
	ShowHelp bool
	Logger   *logging.Logger
}

// uiState is written by event handlers during Update and shared by every
// copy of the Model.
type uiState struct {
	sched *Scheduler

	highlight int
	preview   string

	blinkGroup    int
	blinkOn       bool
	blinkLeft     int
	blinkToken    timer.Token
	blinkCount    int
	blinkInterval time.Duration

	info string
	err  error

	subs []string
}

// Model is the bubbletea model for a session.
type Model struct {
	ctrl   *session.Controller
	sched  *Scheduler
	keymap *keymap.Keymap
	styles *styles.ThemedStyles
	help   help.Model
	find   textinput.Model
	mode   keymap.Mode
	emoji  map[string]string
	logger *logging.Logger
	ui     *uiState

	width    int
	height   int
	cursor   int
	showHelp bool
	quitting bool
}

// NewModel wires a Model to ctrl. sched must be the Scheduler ctrl was
// built with.
func NewModel(ctrl *session.Controller, sched *Scheduler, opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NopLogger()
	}

	emoji := make(map[string]string, len(opts.Emoji))
	for name, e := range opts.Emoji {
		emoji[strings.ToLower(strings.TrimSpace(name))] = e
	}

	find := textinput.New()
	find.Prompt = ""
	find.Placeholder = "name"
	find.CharLimit = 64

	m := Model{
		ctrl:     ctrl,
		sched:    sched,
		keymap:   keymap.DefaultKeymap(),
		styles:   styles.ForTheme(opts.Theme),
		help:     help.New(),
		find:     find,
		mode:     keymap.ModeNormal,
		emoji:    emoji,
		logger:   logger.WithSession(ctrl.ID()).WithComponent("tui"),
		showHelp: opts.ShowHelp,
		ui: &uiState{
			sched:         sched,
			highlight:     -1,
			blinkGroup:    -1,
			blinkCount:    opts.BlinkCount,
			blinkInterval: opts.BlinkInterval,
		},
	}
	m.subscribe()
	return m
}

func (m Model) subscribe() {
	bus := m.ctrl.Bus()
	u := m.ui

	u.subs = append(u.subs,
		event.On(bus, event.TypeRouletteStarted, func(e event.RouletteStartedEvent) {
			u.stopBlink()
			u.err = nil
			u.info = fmt.Sprintf("Spinning for %s…", m.display(e.Participant))
		}),
		event.On(bus, event.TypeHighlight, func(e event.HighlightEvent) {
			u.highlight = e.Group
			u.preview = e.Preview
		}),
		event.On(bus, event.TypeGroupAssigned, func(e event.GroupAssignedEvent) {
			u.preview = ""
			u.info = fmt.Sprintf("%s → %s", m.display(e.Participant), e.GroupName)
			u.startBlink(e.Group)
		}),
		event.On(bus, event.TypeSessionCompleted, func(event.SessionCompletedEvent) {
			u.info = "Everyone has a group. Press q to finish."
		}),
		event.On(bus, event.TypeAutoFinished, func(e event.AutoFinishedEvent) {
			if e.Cancelled {
				u.info = fmt.Sprintf("Auto-assign stopped after %d", e.Assigned)
			}
		}),
		event.On(bus, event.TypeSessionError, func(e event.ErrorEvent) {
			u.err = e.Err
		}),
	)
}

// Close detaches the model from the controller's bus.
func (m Model) Close() {
	for _, id := range m.ui.subs {
		m.ctrl.Bus().Unsubscribe(id)
	}
	m.ui.subs = nil
	m.ui.stopBlink()
}

func (u *uiState) startBlink(group int) {
	u.stopBlink()
	if u.blinkCount <= 0 || u.blinkInterval <= 0 {
		return
	}
	u.blinkGroup = group
	u.blinkOn = true
	u.blinkLeft = u.blinkCount*2 - 1
	u.scheduleBlink()
}

func (u *uiState) scheduleBlink() {
	tok, err := u.sched.ScheduleAfter(u.blinkInterval, u.blinkStep)
	if err != nil {
		u.stopBlink()
		return
	}
	u.blinkToken = tok
}

func (u *uiState) blinkStep() {
	u.blinkToken = 0
	u.blinkLeft--
	if u.blinkLeft <= 0 {
		u.stopBlink()
		return
	}
	u.blinkOn = !u.blinkOn
	u.scheduleBlink()
}

func (u *uiState) stopBlink() {
	if u.blinkToken != 0 {
		u.sched.Cancel(u.blinkToken)
		u.blinkToken = 0
	}
	u.blinkGroup = -1
	u.blinkOn = false
	u.blinkLeft = 0
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return m.sched.Flush()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case timerFiredMsg:
		m.sched.Fire(msg.token)

	case tea.KeyMsg:
		m, cmd = m.handleKeypress(msg)
	}

	m.clampCursor()
	return m, tea.Batch(cmd, m.sched.Flush())
}

func (m Model) handleKeypress(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.mode == keymap.ModeFind {
		return m.handleFindInput(msg)
	}

	command, ok := m.keymap.GetBinding(msg, keymap.ModeNormal)
	if !ok {
		return m, nil
	}
	m.logger.Debug("key command", "command", string(command))

	waiting := m.waiting()
	switch command {
	case keymap.CmdNextParticipant:
		if len(waiting) > 0 {
			m.cursor = (m.cursor + 1) % len(waiting)
		}
	case keymap.CmdPrevParticipant:
		if len(waiting) > 0 {
			m.cursor = (m.cursor - 1 + len(waiting)) % len(waiting)
		}
	case keymap.CmdFirstParticipant:
		m.cursor = 0
	case keymap.CmdLastParticipant:
		m.cursor = len(waiting) - 1

	case keymap.CmdPick:
		if len(waiting) == 0 {
			m.ui.info = "Everyone has a group"
			return m, nil
		}
		m.pick(waiting[m.cursor])
	case keymap.CmdStop:
		m.ctrl.RequestStop()
	case keymap.CmdStartAuto:
		if !m.ctrl.StartAuto() && !m.ctrl.Flags().AutoAssigning {
			m.ui.info = "Nobody left to assign"
		}
	case keymap.CmdStopAuto:
		m.ctrl.StopAuto()

	case keymap.CmdEnterFindMode:
		m.mode = keymap.ModeFind
		m.find.Reset()
		return m, m.find.Focus()
	case keymap.CmdToggleHelp:
		if !m.showHelp {
			m.showHelp = true
		} else {
			m.help.ShowAll = !m.help.ShowAll
		}
	case keymap.CmdQuit:
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) handleFindInput(msg tea.KeyMsg) (Model, tea.Cmd) {
	command, _ := m.keymap.GetBinding(msg, keymap.ModeFind)
	switch command {
	case keymap.CmdFindConfirm:
		query := m.find.Value()
		m.exitFind()
		name, ok := m.match(query)
		if !ok {
			m.ui.info = fmt.Sprintf("Nobody waiting matches %q", query)
			return m, nil
		}
		m.pick(name)
		return m, nil
	case keymap.CmdFindCancel:
		m.exitFind()
		return m, nil
	case keymap.CmdQuit:
		m.quitting = true
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.find, cmd = m.find.Update(msg)
	return m, cmd
}

func (m *Model) exitFind() {
	m.mode = keymap.ModeNormal
	m.find.Blur()
	m.find.Reset()
}

// match finds the first waiting participant whose name starts with query,
// then the first that contains it, ignoring case.
func (m Model) match(query string) (string, bool) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return "", false
	}
	waiting := m.waiting()
	for _, name := range waiting {
		if strings.HasPrefix(strings.ToLower(name), q) {
			return name, true
		}
	}
	for _, name := range waiting {
		if strings.Contains(strings.ToLower(name), q) {
			return name, true
		}
	}
	return "", false
}

func (m Model) pick(name string) {
	ok, err := m.ctrl.Pick(name)
	switch {
	case err != nil:
		m.logger.Warn("pick rejected", logging.KeyParticipant, name, "error", err.Error())
		m.ui.err = err
	case !ok && m.ctrl.Flags().AutoAssigning:
		m.ui.info = "Auto-assign is running (x to stop it)"
	case !ok:
		m.ui.info = "Wait for the wheel to stop"
	}
}

// waiting returns the unassigned participants minus the one being spun for.
func (m Model) waiting() []string {
	all := m.ctrl.Unassigned()
	inFlight, ok := m.ctrl.InFlight()
	if !ok {
		return all
	}
	out := make([]string, 0, len(all))
	for _, name := range all {
		if name != inFlight {
			out = append(out, name)
		}
	}
	return out
}

func (m *Model) clampCursor() {
	n := len(m.waiting())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// display returns the emoji for name when one is configured.
func (m Model) display(name string) string {
	if e, ok := m.emoji[strings.ToLower(name)]; ok && e != "" {
		return e
	}
	return name
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	flags := m.ctrl.Flags()
	groups := m.ctrl.Groups()
	assigned := 0
	names := make([]string, len(groups))
	for i, g := range groups {
		assigned += len(g)
		names[i] = m.ctrl.GroupName(i)
	}

	highlight := m.ui.highlight
	if !flags.RouletteRunning && m.ui.blinkGroup < 0 {
		highlight = -1
	}

	inFlight, _ := m.ctrl.InFlight()
	sections := []string{
		view.RenderHeader(view.HeaderState{
			Assigned: assigned,
			Total:    len(m.ctrl.Roster()),
			Groups:   len(groups),
			Spinning: flags.RouletteRunning,
			Stopping: flags.StopRequested,
			Auto:     flags.AutoAssigning,
			Done:     m.ctrl.Done(),
			Headless: m.ctrl.Headless(),
		}, m.styles),
		"",
		view.RenderGroups(view.GroupsState{
			Names:     names,
			Members:   groups,
			Highlight: highlight,
			Preview:   m.ui.preview,
			Blink:     m.ui.blinkGroup,
			BlinkOn:   m.ui.blinkOn,
			Width:     m.width,
			Display:   m.display,
		}, m.styles),
		"",
		view.RenderRoster(view.RosterState{
			Unassigned: m.waiting(),
			Cursor:     m.cursor,
			InFlight:   inFlight,
			Limit:      m.rosterLimit(),
			Display:    m.display,
		}, m.styles),
	}

	if status := view.RenderStatus(m.ui.info, m.ui.err, m.styles); status != "" {
		sections = append(sections, "", status)
	}
	if m.mode == keymap.ModeFind {
		sections = append(sections, m.styles.Prompt.Render("find: ")+m.find.View())
	}
	if m.showHelp {
		sections = append(sections, "", m.help.View(m.keymap.Help(m.mode)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) rosterLimit() int {
	if m.height <= 0 {
		return 0
	}
	return max(3, m.height/3)
}

var _ tea.Model = Model{}
