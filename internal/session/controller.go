// Package session orchestrates a group-assignment session: it owns the
// ledger and the roulette animator, turns user intents into animated
// assignments, and reports progress on an event bus.
//
// The Controller is single-threaded. Every method, and every callback it
// schedules, must run on the scheduler's thread. A pick is committed to the
// ledger only when its animation lands; the busy flag is raised before the
// animation starts and lowered after the ledger write, so overlapping picks
// are impossible.
//
// Auto-assignment is sequential: one animated spin per unassigned
// participant in roster order, each stopping itself after Settings.Auto's
// AutoStop and separated by Settings.AutoGap.
package session

import (
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/Iron-Ham/groupspin/internal/errors"
	"github.com/Iron-Ham/groupspin/internal/event"
	"github.com/Iron-Ham/groupspin/internal/ledger"
	"github.com/Iron-Ham/groupspin/internal/logging"
	"github.com/Iron-Ham/groupspin/internal/placement"
	"github.com/Iron-Ham/groupspin/internal/roster"
	"github.com/Iron-Ham/groupspin/internal/roulette"
	"github.com/Iron-Ham/groupspin/internal/timer"
)

// Flags are the controller's re-entrancy guards.
type Flags struct {
	IsBusy          bool // a pick is between start and ledger write
	AutoAssigning   bool // the sequential auto loop is active
	RouletteRunning bool // an animation run is active
	StopRequested   bool // the active run is decelerating
}

// Assignment records one completed pick.
type Assignment struct {
	Participant string
	Group       int
	Auto        bool
}

// Controller is the session orchestrator.
type Controller struct {
	id      string
	roster  roster.Roster
	names   []string
	ledger  *ledger.Ledger
	anim    *roulette.Animator
	chooser placement.Chooser
	sched   timer.Scheduler
	bus     *event.Bus
	logger  *logging.Logger

	manual  roulette.Options
	auto    roulette.Options
	autoGap time.Duration

	busy          bool
	autoAssigning bool
	autoAssigned  int
	gapToken      timer.Token
	inFlight      string
	picks         uint64
	last          *Assignment
	completed     bool
	published     Flags

	deferred []func()
	draining bool
}

// NewController validates settings and wires a Controller. An empty or
// duplicate roster and a non-positive group count are invalid-configuration
// errors.
func NewController(cfg Settings, deps Deps) (*Controller, error) {
	r := roster.Normalize(cfg.Roster)
	if len(r) == 0 {
		return nil, errors.NewConfigurationError("roster is empty").
			WithField("roster").
			WithCause(errors.ErrEmptyRoster)
	}
	if err := r.Validate(); err != nil {
		return nil, errors.NewConfigurationError("invalid roster").
			WithField("roster").
			WithCause(err)
	}
	if cfg.NumGroups <= 0 {
		return nil, errors.NewConfigurationError("group count must be positive").
			WithField("groups.count").
			WithValue(cfg.NumGroups)
	}

	l, err := ledger.New(cfg.NumGroups)
	if err != nil {
		return nil, err
	}

	if deps.Chooser == nil {
		deps.Chooser = placement.NewRandomPicker()
	}
	if deps.Bus == nil {
		deps.Bus = event.NewBus(deps.Logger)
	}
	if deps.Logger == nil {
		deps.Logger = logging.NopLogger()
	}

	id := uuid.NewString()
	c := &Controller{
		id:      id,
		roster:  r,
		names:   cfg.GroupNames,
		ledger:  l,
		chooser: deps.Chooser,
		sched:   deps.Scheduler,
		bus:     deps.Bus,
		logger:  deps.Logger.WithSession(id).WithComponent("session"),
		manual:  cfg.Manual,
		auto:    cfg.Auto,
		autoGap: cfg.AutoGap,
	}
	if c.auto.AutoStop <= 0 {
		c.auto.AutoStop = DefaultAutoStop
	}
	if c.autoGap < 0 {
		c.autoGap = 0
	}

	c.anim, err = roulette.New(roulette.Config{
		NumGroups:   cfg.NumGroups,
		Scheduler:   deps.Scheduler,
		OnHighlight: c.onHighlight,
		Logger:      deps.Logger.WithSession(id).WithComponent("roulette"),
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("session created",
		"participants", len(r),
		"groups", cfg.NumGroups,
		"headless", deps.Scheduler == nil,
	)
	return c, nil
}

// Pick starts an animated assignment of person. It returns false without
// error when the controller is busy or auto-assigning. Unknown or already
// assigned participants are invalid-configuration errors.
func (c *Controller) Pick(person string) (bool, error) {
	if c.busy || c.autoAssigning {
		c.logger.Debug("pick ignored, controller busy", logging.KeyParticipant, person)
		return false, nil
	}
	if !c.roster.Contains(person) {
		return false, errors.NewConfigurationError("participant is not on the roster").
			WithField("participant").
			WithValue(person).
			WithCause(errors.ErrUnknownParticipant)
	}
	if g, ok := c.ledger.GroupOf(person); ok {
		return false, errors.NewConfigurationError("participant already assigned").
			WithField("participant").
			WithValue(person).
			WithCause(errors.Wrapf(errors.ErrDuplicateAssignment, "already in group %d", g))
	}

	// Not through run: inside an event handler run would only queue the
	// spin and the result would be lost.
	return c.spin(person, false)
}

// StartAuto begins sequential auto-assignment of every unassigned
// participant. It returns false when auto-assignment is already active or
// nobody is left. A pick already in flight finishes first.
func (c *Controller) StartAuto() bool {
	if c.autoAssigning {
		return false
	}
	remaining := len(c.Unassigned())
	if remaining == 0 {
		return false
	}

	c.autoAssigning = true
	c.autoAssigned = 0
	c.logger.Info("auto-assign started", "remaining", remaining)
	c.bus.Publish(event.NewAutoStartedEvent(remaining))
	c.publishState()

	c.run(func() {
		if !c.busy {
			c.nextAuto()
		}
	})
	return true
}

// StopAuto ends auto-assignment. A spin already running still lands and is
// recorded; no further spins start.
func (c *Controller) StopAuto() {
	c.finishAuto(true)
}

// RequestStop asks the active spin to decelerate and land. No-op when idle.
func (c *Controller) RequestStop() {
	c.run(func() {
		c.anim.RequestStop()
		c.publishState()
	})
}

// RequestStopSteps is RequestStop with an explicit deceleration count.
func (c *Controller) RequestStopSteps(steps int) {
	c.run(func() {
		c.anim.RequestStopSteps(steps)
		c.publishState()
	})
}

// spin chooses a target for person and starts its animation.
func (c *Controller) spin(person string, auto bool) (bool, error) {
	target, err := c.chooser.Choose(c.ledger.Groups())
	if err != nil {
		return false, err
	}

	opts := c.manual
	if auto {
		opts = c.auto
	}

	c.busy = true
	c.inFlight = person
	c.picks++
	c.logger.Debug("spin starting",
		logging.KeyParticipant, person,
		"pick", c.picks,
		"auto", auto,
	)
	c.bus.Publish(event.NewRouletteStartedEvent(c.picks, person, auto))
	c.publishState()

	started, err := c.anim.Start(target, person, func() { c.complete(person, target, auto) }, opts)
	if err != nil || !started {
		c.busy = false
		c.inFlight = ""
		c.publishState()
		return false, err
	}
	return true, nil
}

// complete is the animation's completion callback: the only place the
// ledger is written.
func (c *Controller) complete(person string, target int, auto bool) {
	c.inFlight = ""
	if err := c.ledger.Assign(person, target); err != nil {
		c.logger.Error("assignment failed",
			logging.KeyParticipant, person,
			"group", target,
			"error", err.Error(),
		)
		c.busy = false
		c.bus.Publish(event.NewErrorEvent("assign", person, err))
		c.finishAuto(true)
		c.publishState()
		return
	}

	c.busy = false
	c.last = &Assignment{Participant: person, Group: target, Auto: auto}
	remaining := len(c.Unassigned())
	c.logger.Info("participant assigned",
		logging.KeyParticipant, person,
		"group", target,
		"auto", auto,
		"remaining", remaining,
	)
	c.bus.Publish(event.NewGroupAssignedEvent(person, target, c.GroupName(target), auto, remaining))

	if c.autoAssigning {
		c.autoAssigned++
	}
	if remaining == 0 {
		c.finishAuto(false)
		c.publishState()
		if !c.completed {
			c.completed = true
			c.logger.Info("session completed")
			c.bus.Publish(event.NewSessionCompletedEvent(c.id, c.ledger.Groups()))
		}
		return
	}

	c.publishState()
	if c.autoAssigning {
		c.gapToken = c.after(c.autoGap, c.nextAuto)
	}
	c.drain()
}

// nextAuto starts the next sequential auto spin.
func (c *Controller) nextAuto() {
	c.gapToken = 0
	if !c.autoAssigning || c.busy {
		return
	}
	pending := c.Unassigned()
	if len(pending) == 0 {
		c.finishAuto(false)
		return
	}
	if _, err := c.spin(pending[0], true); err != nil {
		c.logger.Error("auto spin failed", logging.KeyParticipant, pending[0], "error", err.Error())
		c.bus.Publish(event.NewErrorEvent("auto", pending[0], err))
		c.finishAuto(true)
	}
}

func (c *Controller) finishAuto(cancelled bool) {
	if !c.autoAssigning {
		return
	}
	c.autoAssigning = false
	if c.gapToken != 0 && c.sched != nil {
		c.sched.Cancel(c.gapToken)
	}
	c.gapToken = 0
	c.logger.Info("auto-assign finished", "assigned", c.autoAssigned, "cancelled", cancelled)
	c.bus.Publish(event.NewAutoFinishedEvent(c.autoAssigned, cancelled))
	c.publishState()
}

// after schedules fn after d. Without a usable scheduler fn is queued to run
// on the current drain loop instead.
func (c *Controller) after(d time.Duration, fn func()) timer.Token {
	if c.sched != nil {
		tok, err := c.sched.ScheduleAfter(d, fn)
		if err == nil {
			return tok
		}
		c.logger.Warn("scheduler unavailable, continuing immediately", "error", err.Error())
	}
	c.deferred = append(c.deferred, fn)
	return 0
}

// run executes fn and then any work it deferred, iteratively, so headless
// auto-assignment does not recurse once per participant.
func (c *Controller) run(fn func()) {
	c.deferred = append(c.deferred, fn)
	c.drain()
}

func (c *Controller) drain() {
	if c.draining {
		return
	}
	c.draining = true
	defer func() { c.draining = false }()

	for len(c.deferred) > 0 {
		fn := c.deferred[0]
		c.deferred = c.deferred[1:]
		fn()
	}
}

func (c *Controller) onHighlight(group int, preview string) {
	c.bus.Publish(event.NewHighlightEvent(group, preview))
	c.publishState()
}

// publishState emits a state-changed event when the flags differ from the
// last published ones.
func (c *Controller) publishState() {
	f := c.Flags()
	if f == c.published {
		return
	}
	c.published = f
	c.bus.Publish(event.NewStateChangedEvent(f.IsBusy, f.AutoAssigning, f.RouletteRunning, f.StopRequested))
}

// Flags returns the current re-entrancy flags.
func (c *Controller) Flags() Flags {
	return Flags{
		IsBusy:          c.busy,
		AutoAssigning:   c.autoAssigning,
		RouletteRunning: c.anim.Running(),
		StopRequested:   c.anim.StopRequested(),
	}
}

// ID returns the session identifier used to correlate logs.
func (c *Controller) ID() string {
	return c.id
}

// Bus returns the bus the controller publishes on.
func (c *Controller) Bus() *event.Bus {
	return c.bus
}

// Roster returns the participants in roster order.
func (c *Controller) Roster() []string {
	return c.roster.Names()
}

// NumGroups returns the number of groups.
func (c *Controller) NumGroups() int {
	return c.ledger.NumGroups()
}

// GroupName returns the display name of group i.
func (c *Controller) GroupName(i int) string {
	if i >= 0 && i < len(c.names) && c.names[i] != "" {
		return c.names[i]
	}
	return "Group " + strconv.Itoa(i+1)
}

// Groups returns a copy of every group's members in assignment order.
func (c *Controller) Groups() [][]string {
	return c.ledger.Groups()
}

// Unassigned returns the participants without a group, in roster order.
func (c *Controller) Unassigned() []string {
	return c.ledger.Unassigned(c.roster)
}

// Highlight returns the highlighted group, or -1 before the first tick.
func (c *Controller) Highlight() int {
	return c.anim.Highlight()
}

// InFlight returns the participant whose spin is running, if any.
func (c *Controller) InFlight() (string, bool) {
	return c.inFlight, c.inFlight != ""
}

// LastAssignment returns the most recent completed pick.
func (c *Controller) LastAssignment() (Assignment, bool) {
	if c.last == nil {
		return Assignment{}, false
	}
	return *c.last, true
}

// Headless reports whether spins complete without animation.
func (c *Controller) Headless() bool {
	return c.anim.Headless()
}

// Done reports whether every participant has a group.
func (c *Controller) Done() bool {
	return c.ledger.Len() == len(c.roster)
}
