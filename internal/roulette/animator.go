// Package roulette drives the slot-machine highlight that reveals each
// assignment.
//
// An Animator owns at most one run at a time. A run circles the highlight
// across all groups on timer ticks until a stop is requested, then slows down
// for a configured number of ticks and keeps circling until the highlight
// coincides with the target committed at start. At that moment the run lands:
// the completion callback fires exactly once and the run is discarded.
//
// The target is chosen before the animation begins, so the visual stop never
// changes the placement decision. All methods must be called from the
// scheduler's thread (the bubbletea Update loop, a [timer.Loop] callback, or
// a test driving a [timer.Manual]).
package roulette

import (
	"time"

	"github.com/Iron-Ham/groupspin/internal/errors"
	"github.com/Iron-Ham/groupspin/internal/logging"
	"github.com/Iron-Ham/groupspin/internal/timer"
)

// State is the lifecycle stage of the Animator.
type State int

const (
	// StateIdle means no run is active.
	StateIdle State = iota
	// StateRunning means a run is circling at its base interval.
	StateRunning
	// StateDecelerating means a stop was requested and the run is slowing or
	// circling toward its target.
	StateDecelerating
	// StateLanded is observed only from inside a completion callback.
	StateLanded
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateDecelerating:
		return "decelerating"
	case StateLanded:
		return "landed"
	default:
		return "unknown"
	}
}

// HighlightFunc receives every highlight change: the highlighted group and
// the preview label travelling with it (empty when there is none).
type HighlightFunc func(group int, preview string)

// Config holds Animator construction parameters.
type Config struct {
	// NumGroups is the number of groups the highlight circles over.
	NumGroups int
	// Scheduler drives the ticks. Nil selects headless mode: runs complete
	// immediately without animation.
	Scheduler timer.Scheduler
	// OnHighlight is called on every tick. Optional.
	OnHighlight HighlightFunc
	// Logger receives debug traces. Optional.
	Logger *logging.Logger
}

// run is the state of one in-flight animation.
type run struct {
	id             uint64
	target         int
	preview        string
	opts           Options
	interval       time.Duration
	stopRequested  bool
	decelRemaining int
	onComplete     func()
	tickToken      timer.Token
	autoStopToken  timer.Token
	ticks          int
	ticksAfterStop int
}

// Animator is the roulette state machine.
type Animator struct {
	numGroups   int
	sched       timer.Scheduler
	onHighlight HighlightFunc
	logger      *logging.Logger

	highlight int
	current   *run
	runs      uint64
	landing   bool
}

// New creates an idle Animator.
func New(cfg Config) (*Animator, error) {
	if cfg.NumGroups <= 0 {
		return nil, errors.NewConfigurationError("group count must be positive").
			WithField("numGroups").
			WithValue(cfg.NumGroups)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Animator{
		numGroups:   cfg.NumGroups,
		sched:       cfg.Scheduler,
		onHighlight: cfg.OnHighlight,
		logger:      logger,
		highlight:   -1,
	}, nil
}

// Headless reports whether the Animator has no timer facility.
func (a *Animator) Headless() bool {
	return a.sched == nil
}

// Start begins a run that will land on target and then call onComplete.
//
// It returns false without error when a run is already active; the request is
// ignored. An out-of-range target is an invalid-configuration error. Without a
// usable scheduler onComplete runs before Start returns.
func (a *Animator) Start(target int, preview string, onComplete func(), opts Options) (bool, error) {
	if target < 0 || target >= a.numGroups {
		return false, errors.NewConfigurationError("roulette target out of range").
			WithField("target").
			WithValue(target).
			WithCause(errors.ErrGroupOutOfRange)
	}
	if a.current != nil {
		a.logger.Debug("roulette start ignored, run active", "run", a.current.id)
		return false, nil
	}
	if onComplete == nil {
		onComplete = func() {}
	}

	a.runs++
	opts = opts.normalized()
	r := &run{
		id:         a.runs,
		target:     target,
		preview:    preview,
		opts:       opts,
		interval:   opts.Interval,
		onComplete: onComplete,
	}

	if a.sched == nil {
		a.logger.Debug("roulette headless completion", "run", r.id, "target", target)
		a.finish(r)
		return true, nil
	}

	a.current = r
	if !a.scheduleTick(r) {
		return true, nil
	}

	if opts.AutoStop > 0 {
		tok, err := a.sched.ScheduleAfter(opts.AutoStop, func() { a.autoStop(r) })
		if err != nil {
			a.reportScheduleFailure("auto-stop unavailable, stopping now", err, "run", r.id)
			a.latchStop(r, r.opts.DecelSteps)
		} else {
			r.autoStopToken = tok
		}
	}

	a.logger.Debug("roulette started",
		"run", r.id,
		"target", target,
		"preview", preview,
		"interval_ms", opts.Interval.Milliseconds(),
		"auto_stop_ms", opts.AutoStop.Milliseconds(),
	)
	return true, nil
}

// RequestStop asks the active run to slow down and land using its configured
// deceleration steps. It is a no-op when idle or when a stop is already
// pending. If the highlight already rests on the target, the run lands
// immediately.
func (a *Animator) RequestStop() {
	r := a.current
	if r == nil {
		return
	}
	a.stop(r, r.opts.DecelSteps, false)
}

// RequestStopSteps is RequestStop with an explicit deceleration count. Unlike
// RequestStop it resets the countdown when a stop is already pending.
func (a *Animator) RequestStopSteps(steps int) {
	r := a.current
	if r == nil {
		return
	}
	if steps < 0 {
		steps = 0
	}
	a.stop(r, steps, true)
}

func (a *Animator) stop(r *run, steps int, explicit bool) {
	if r.stopRequested {
		if explicit {
			r.decelRemaining = steps
			a.logger.Debug("roulette deceleration reset", "run", r.id, "steps", steps)
		}
		return
	}

	if a.highlight == r.target {
		a.logger.Debug("roulette stop on target, landing now", "run", r.id, "target", r.target)
		r.stopRequested = true
		a.land(r)
		return
	}

	a.latchStop(r, steps)
}

// latchStop marks r as stopping and drops its pending auto-stop.
func (a *Animator) latchStop(r *run, steps int) {
	r.stopRequested = true
	r.decelRemaining = steps
	if r.autoStopToken != 0 {
		a.sched.Cancel(r.autoStopToken)
		r.autoStopToken = 0
	}
	a.logger.Debug("roulette stop requested", "run", r.id, "decel_steps", steps, "highlight", a.highlight)
}

func (a *Animator) autoStop(r *run) {
	if a.current != r {
		return
	}
	r.autoStopToken = 0
	a.logger.Debug("roulette auto-stop fired", "run", r.id)
	a.stop(r, r.opts.DecelSteps, false)
}

// tick advances the highlight by one group and decides what happens next.
func (a *Animator) tick(r *run) {
	if a.current != r {
		return
	}
	r.tickToken = 0
	r.ticks++

	a.highlight = (a.highlight + 1) % a.numGroups
	if a.onHighlight != nil {
		a.onHighlight(a.highlight, r.preview)
	}
	if a.current != r {
		// The highlight observer stopped the run on target.
		return
	}

	if !r.stopRequested {
		a.scheduleTick(r)
		return
	}

	r.ticksAfterStop++
	if r.decelRemaining > 0 {
		r.interval = r.opts.grow(r.interval)
		r.decelRemaining--
		a.scheduleTick(r)
		return
	}

	if a.highlight == r.target {
		a.land(r)
		return
	}

	r.interval = r.opts.grow(r.interval)
	a.scheduleTick(r)
}

// scheduleTick queues the next tick of r. When the scheduler refuses, the
// run snaps to its target and lands so the completion still happens; it then
// returns false.
func (a *Animator) scheduleTick(r *run) bool {
	tok, err := a.sched.ScheduleAfter(r.interval, func() { a.tick(r) })
	if err == nil {
		r.tickToken = tok
		return true
	}

	a.reportScheduleFailure("roulette tick unavailable, landing immediately", err,
		"run", r.id,
		"target", r.target,
	)
	r.stopRequested = true
	if a.highlight != r.target {
		a.highlight = r.target
		if a.onHighlight != nil {
			a.onHighlight(a.highlight, r.preview)
		}
	}
	if a.current == r {
		a.land(r)
	}
	return false
}

// reportScheduleFailure logs a refused ScheduleAfter: WARN when the facility
// is unavailable, ERROR for any other failure.
func (a *Animator) reportScheduleFailure(msg string, err error, args ...any) {
	args = append(args, "error", err.Error())
	if errors.IsSchedulerUnavailable(err) {
		a.logger.Warn(msg, args...)
		return
	}
	a.logger.Error(msg, args...)
}

// land completes r: pending timers are cancelled, the run is discarded, and
// its completion callback fires.
func (a *Animator) land(r *run) {
	if r.autoStopToken != 0 {
		a.sched.Cancel(r.autoStopToken)
		r.autoStopToken = 0
	}
	if r.tickToken != 0 {
		a.sched.Cancel(r.tickToken)
		r.tickToken = 0
	}
	a.logger.Debug("roulette landed",
		"run", r.id,
		"target", r.target,
		"ticks", r.ticks,
		"ticks_after_stop", r.ticksAfterStop,
	)
	a.finish(r)
}

func (a *Animator) finish(r *run) {
	a.current = nil
	a.landing = true
	defer func() { a.landing = false }()
	r.onComplete()
}

// State returns the current lifecycle stage.
func (a *Animator) State() State {
	switch {
	case a.current != nil && a.current.stopRequested:
		return StateDecelerating
	case a.current != nil:
		return StateRunning
	case a.landing:
		return StateLanded
	default:
		return StateIdle
	}
}

// Running reports whether a run is active.
func (a *Animator) Running() bool {
	return a.current != nil
}

// StopRequested reports whether the active run has a pending stop.
func (a *Animator) StopRequested() bool {
	return a.current != nil && a.current.stopRequested
}

// Highlight returns the highlighted group, or -1 before the first tick.
// It persists across runs: each run continues from where the last one rested.
func (a *Animator) Highlight() int {
	return a.highlight
}

// Target returns the committed target of the active run.
func (a *Animator) Target() (int, bool) {
	if a.current == nil {
		return 0, false
	}
	return a.current.target, true
}

// Preview returns the preview label of the active run.
func (a *Animator) Preview() string {
	if a.current == nil {
		return ""
	}
	return a.current.preview
}

// Interval returns the active run's current tick interval.
func (a *Animator) Interval() time.Duration {
	if a.current == nil {
		return 0
	}
	return a.current.interval
}

// DecelRemaining returns the active run's remaining deceleration ticks.
func (a *Animator) DecelRemaining() int {
	if a.current == nil {
		return 0
	}
	return a.current.decelRemaining
}

// RunID returns the sequence number of the active run, or 0 when idle.
func (a *Animator) RunID() uint64 {
	if a.current == nil {
		return 0
	}
	return a.current.id
}
