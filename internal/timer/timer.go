// Package timer provides the deferred-call facility that drives roulette
// animations.
//
// All animation work runs on a single logical thread: a Scheduler queues
// callbacks and runs them one at a time, each only after the previous one has
// returned. Three implementations exist:
//
//   - [Manual] is a fake clock for tests. Callbacks run only when the test
//     advances time.
//   - [Loop] is a real-time event loop that runs every callback on the
//     goroutine that called [Loop.Run].
//   - The TUI supplies its own Scheduler that turns timer fires into
//     bubbletea messages (see internal/tui).
//
// A nil Scheduler means "no timer facility": callers degrade to synchronous,
// unanimated behavior.
package timer

import (
	"time"

	"github.com/Iron-Ham/groupspin/internal/errors"
)

// Token identifies a scheduled callback. The zero Token is never issued, so
// it can be used as "nothing scheduled".
type Token uint64

// Scheduler schedules callbacks to run after a delay.
type Scheduler interface {
	// ScheduleAfter arranges for fn to run once after d. It returns an error
	// matching errors.ErrSchedulerUnavailable when the facility cannot accept
	// work.
	ScheduleAfter(d time.Duration, fn func()) (Token, error)

	// Cancel prevents a scheduled callback from running. Cancelling a token
	// that already fired, was already cancelled, or was never issued is a no-op.
	Cancel(tok Token)
}

// unavailable builds the error returned by a Scheduler that refuses work.
func unavailable(op string) error {
	return errors.NewSchedulerError(op).WithCause(errors.ErrSchedulerUnavailable)
}
