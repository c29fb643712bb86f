package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Iron-Ham/groupspin/internal/timer"
)

// timerFiredMsg is delivered when a scheduled callback falls due.
type timerFiredMsg struct {
	token timer.Token
}

type pendingTimer struct {
	fn  func()
	due time.Duration
}

// Scheduler is a timer.Scheduler backed by tea.Tick. Callbacks never run on
// the tick goroutine: each tick only produces a timerFiredMsg, and Update runs
// the callback, so the controller is only ever touched from the program loop.
//
// ScheduleAfter queues a tea.Cmd; Update must return Flush() so the program
// starts the tick.
type Scheduler struct {
	next    timer.Token
	pending map[timer.Token]pendingTimer
	queued  []tea.Cmd
	elapsed time.Duration // due time of the last fired callback
}

// NewScheduler creates an empty Scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{pending: make(map[timer.Token]pendingTimer)}
}

// ScheduleAfter registers fn and queues a tick that fires it after d.
func (s *Scheduler) ScheduleAfter(d time.Duration, fn func()) (timer.Token, error) {
	if d < 0 {
		d = 0
	}
	s.next++
	tok := s.next
	s.pending[tok] = pendingTimer{fn: fn, due: s.elapsed + d}
	s.queued = append(s.queued, tea.Tick(d, func(time.Time) tea.Msg {
		return timerFiredMsg{token: tok}
	}))
	return tok, nil
}

// Cancel forgets a pending callback. Its tick still arrives and is ignored.
func (s *Scheduler) Cancel(tok timer.Token) {
	delete(s.pending, tok)
}

// Fire runs the callback for tok. It reports false for cancelled or already
// fired tokens.
func (s *Scheduler) Fire(tok timer.Token) bool {
	p, ok := s.pending[tok]
	if !ok {
		return false
	}
	delete(s.pending, tok)
	if p.due > s.elapsed {
		s.elapsed = p.due
	}
	p.fn()
	return true
}

// Flush returns the ticks queued since the last call, batched.
func (s *Scheduler) Flush() tea.Cmd {
	if len(s.queued) == 0 {
		return nil
	}
	cmds := s.queued
	s.queued = nil
	return tea.Batch(cmds...)
}

// Pending returns the number of callbacks waiting to fire.
func (s *Scheduler) Pending() int {
	return len(s.pending)
}

// Next returns the pending token that is due first, ties broken by
// scheduling order.
func (s *Scheduler) Next() (timer.Token, bool) {
	var (
		best  timer.Token
		found bool
	)
	for tok, p := range s.pending {
		if !found || p.due < s.pending[best].due || (p.due == s.pending[best].due && tok < best) {
			best, found = tok, true
		}
	}
	return best, found
}

var _ timer.Scheduler = (*Scheduler)(nil)
