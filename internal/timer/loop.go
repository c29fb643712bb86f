package timer

import (
	"container/heap"
	"context"
	"sync"
	"time"
)

// Loop is a real-time Scheduler. Callbacks run one at a time on the goroutine
// executing Run, so code driven by a Loop needs no locking of its own.
//
// ScheduleAfter and Cancel may be called from any goroutine, including from
// inside a callback.
type Loop struct {
	mu      sync.Mutex
	queue   loopQueue
	live    map[Token]*loopEntry
	next    Token
	seq     uint64
	closed  bool
	wake    chan struct{}
	nowFunc func() time.Time
}

type loopEntry struct {
	token Token
	at    time.Time
	seq   uint64
	fn    func()
	index int
}

// NewLoop creates a Loop. It accepts work immediately; callbacks start
// running once Run is called.
func NewLoop() *Loop {
	return &Loop{
		live:    make(map[Token]*loopEntry),
		wake:    make(chan struct{}, 1),
		nowFunc: time.Now,
	}
}

// ScheduleAfter queues fn to run after d.
func (l *Loop) ScheduleAfter(d time.Duration, fn func()) (Token, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return 0, unavailable("schedule callback on closed loop")
	}
	if d < 0 {
		d = 0
	}

	l.next++
	l.seq++
	e := &loopEntry{
		token: l.next,
		at:    l.nowFunc().Add(d),
		seq:   l.seq,
		fn:    fn,
	}
	heap.Push(&l.queue, e)
	l.live[e.token] = e
	l.signal()
	return e.token, nil
}

// Post runs fn on the loop goroutine as soon as possible.
func (l *Loop) Post(fn func()) error {
	_, err := l.ScheduleAfter(0, fn)
	return err
}

// Cancel removes a pending callback.
func (l *Loop) Cancel(tok Token) {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.live[tok]
	if !ok {
		return
	}
	heap.Remove(&l.queue, e.index)
	delete(l.live, tok)
	l.signal()
}

// Pending returns the number of callbacks waiting to fire.
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.live)
}

// Run executes callbacks as they fall due until ctx is done or Close is
// called. The loop is closed when Run returns.
func (l *Loop) Run(ctx context.Context) error {
	defer l.Close()

	timer := time.NewTimer(time.Hour)
	defer timer.Stop()

	for {
		fn, wait, ok := l.nextDue()
		if !ok {
			return nil
		}
		if fn != nil {
			fn()
			continue
		}

		var timerC <-chan time.Time
		if wait > 0 {
			timer.Reset(wait)
			timerC = timer.C
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.wake:
		case <-timerC:
		}
		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
	}
}

// nextDue pops the next due callback. When none is due it returns how long to
// wait (zero meaning "until woken"). ok is false once the loop is closed.
func (l *Loop) nextDue() (fn func(), wait time.Duration, ok bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil, 0, false
	}
	if len(l.queue) == 0 {
		return nil, 0, true
	}

	top := l.queue[0]
	now := l.nowFunc()
	if top.at.After(now) {
		return nil, top.at.Sub(now), true
	}

	heap.Pop(&l.queue)
	delete(l.live, top.token)
	return top.fn, 0, true
}

// Close stops the loop and drops pending callbacks. Later ScheduleAfter calls
// fail with errors.ErrSchedulerUnavailable.
func (l *Loop) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return
	}
	l.closed = true
	l.queue = nil
	l.live = make(map[Token]*loopEntry)
	l.signal()
}

// signal wakes Run without blocking. The caller must hold the mutex.
func (l *Loop) signal() {
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// loopQueue orders entries by due time, then by scheduling order.
type loopQueue []*loopEntry

func (q loopQueue) Len() int { return len(q) }

func (q loopQueue) Less(i, j int) bool {
	if !q[i].at.Equal(q[j].at) {
		return q[i].at.Before(q[j].at)
	}
	return q[i].seq < q[j].seq
}

func (q loopQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *loopQueue) Push(x any) {
	e := x.(*loopEntry)
	e.index = len(*q)
	*q = append(*q, e)
}

func (q *loopQueue) Pop() any {
	old := *q
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	e.index = -1
	*q = old[:n-1]
	return e
}

var _ Scheduler = (*Loop)(nil)
