package timer

import (
	"sort"
	"time"
)

// Manual is a deterministic Scheduler driven by explicit calls to Advance,
// Step, or RunUntilIdle. Callbacks due at the same instant fire in the order
// they were scheduled. It is not safe for concurrent use.
type Manual struct {
	now         time.Duration
	next        Token
	seq         uint64
	pending     []*manualEntry
	fired       int
	unavailable bool
}

type manualEntry struct {
	token Token
	at    time.Duration
	seq   uint64
	fn    func()
}

// NewManual returns a Manual clock at time zero.
func NewManual() *Manual {
	return &Manual{}
}

// ScheduleAfter queues fn to run once the clock reaches Now()+d.
func (m *Manual) ScheduleAfter(d time.Duration, fn func()) (Token, error) {
	if m.unavailable {
		return 0, unavailable("schedule callback")
	}
	if d < 0 {
		d = 0
	}
	m.next++
	m.seq++
	m.pending = append(m.pending, &manualEntry{
		token: m.next,
		at:    m.now + d,
		seq:   m.seq,
		fn:    fn,
	})
	sort.SliceStable(m.pending, func(i, j int) bool {
		if m.pending[i].at != m.pending[j].at {
			return m.pending[i].at < m.pending[j].at
		}
		return m.pending[i].seq < m.pending[j].seq
	})
	return m.next, nil
}

// Cancel removes a pending callback.
func (m *Manual) Cancel(tok Token) {
	for i, e := range m.pending {
		if e.token == tok {
			m.pending = append(m.pending[:i], m.pending[i+1:]...)
			return
		}
	}
}

// SetUnavailable makes subsequent ScheduleAfter calls fail.
func (m *Manual) SetUnavailable(v bool) {
	m.unavailable = v
}

// Now returns the elapsed fake time.
func (m *Manual) Now() time.Duration {
	return m.now
}

// Pending returns the number of callbacks waiting to fire.
func (m *Manual) Pending() int {
	return len(m.pending)
}

// Fired returns the total number of callbacks run so far.
func (m *Manual) Fired() int {
	return m.fired
}

// NextDelay returns how far the clock must advance for the next callback to
// fire, and false when nothing is pending.
func (m *Manual) NextDelay() (time.Duration, bool) {
	if len(m.pending) == 0 {
		return 0, false
	}
	return m.pending[0].at - m.now, true
}

// Step jumps the clock to the earliest pending callback and runs it.
// It returns false when nothing is pending.
func (m *Manual) Step() bool {
	if len(m.pending) == 0 {
		return false
	}
	e := m.pending[0]
	m.pending = m.pending[1:]
	if e.at > m.now {
		m.now = e.at
	}
	m.fired++
	e.fn()
	return true
}

// Advance moves the clock forward by d, running every callback that falls due
// on the way, including ones scheduled by callbacks that ran during the advance.
func (m *Manual) Advance(d time.Duration) {
	target := m.now + d
	for len(m.pending) > 0 && m.pending[0].at <= target {
		m.Step()
	}
	m.now = target
}

// RunUntilIdle steps until nothing is pending or limit callbacks have run.
// It returns the number of callbacks run.
func (m *Manual) RunUntilIdle(limit int) int {
	n := 0
	for n < limit && m.Step() {
		n++
	}
	return n
}

var _ Scheduler = (*Manual)(nil)
