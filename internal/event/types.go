package event

import "time"

// Event is the interface that all events implement.
type Event interface {
	// EventType returns the "category.action" identifier of the event.
	EventType() string

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// Event type identifiers.
const (
	TypeRouletteStarted  = "roulette.started"
	TypeHighlight        = "roulette.highlight"
	TypeGroupAssigned    = "group.assigned"
	TypeStateChanged     = "session.state_changed"
	TypeSessionCompleted = "session.completed"
	TypeSessionError     = "session.error"
	TypeAutoStarted      = "auto.started"
	TypeAutoFinished     = "auto.finished"
)

type baseEvent struct {
	eventType string
	timestamp time.Time
}

func (e baseEvent) EventType() string    { return e.eventType }
func (e baseEvent) Timestamp() time.Time { return e.timestamp }

func newBaseEvent(eventType string) baseEvent {
	return baseEvent{
		eventType: eventType,
		timestamp: time.Now(),
	}
}

// -----------------------------------------------------------------------------
// Roulette Events
// -----------------------------------------------------------------------------

// RouletteStartedEvent is emitted when a pick begins animating. The target is
// deliberately absent so observers cannot reveal the outcome early.
type RouletteStartedEvent struct {
	baseEvent
	RunID       uint64
	Participant string
	Auto        bool // started by the auto-assign loop
}

// NewRouletteStartedEvent creates a RouletteStartedEvent.
func NewRouletteStartedEvent(runID uint64, participant string, auto bool) RouletteStartedEvent {
	return RouletteStartedEvent{
		baseEvent:   newBaseEvent(TypeRouletteStarted),
		RunID:       runID,
		Participant: participant,
		Auto:        auto,
	}
}

// HighlightEvent is emitted on every animation tick.
type HighlightEvent struct {
	baseEvent
	Group   int    // highlighted group index
	Preview string // participant shown in the highlighted slot, may be empty
}

// NewHighlightEvent creates a HighlightEvent.
func NewHighlightEvent(group int, preview string) HighlightEvent {
	return HighlightEvent{
		baseEvent: newBaseEvent(TypeHighlight),
		Group:     group,
		Preview:   preview,
	}
}

// -----------------------------------------------------------------------------
// Assignment Events
// -----------------------------------------------------------------------------

// GroupAssignedEvent is emitted after a participant is recorded in a group.
type GroupAssignedEvent struct {
	baseEvent
	Participant string
	Group       int
	GroupName   string
	Auto        bool
	Remaining   int // participants still unassigned
}

// NewGroupAssignedEvent creates a GroupAssignedEvent.
func NewGroupAssignedEvent(participant string, group int, groupName string, auto bool, remaining int) GroupAssignedEvent {
	return GroupAssignedEvent{
		baseEvent:   newBaseEvent(TypeGroupAssigned),
		Participant: participant,
		Group:       group,
		GroupName:   groupName,
		Auto:        auto,
		Remaining:   remaining,
	}
}

// -----------------------------------------------------------------------------
// Session Events
// -----------------------------------------------------------------------------

// StateChangedEvent carries the controller flags after any change.
type StateChangedEvent struct {
	baseEvent
	IsBusy          bool
	AutoAssigning   bool
	RouletteRunning bool
	StopRequested   bool
}

// NewStateChangedEvent creates a StateChangedEvent.
func NewStateChangedEvent(busy, auto, running, stopRequested bool) StateChangedEvent {
	return StateChangedEvent{
		baseEvent:       newBaseEvent(TypeStateChanged),
		IsBusy:          busy,
		AutoAssigning:   auto,
		RouletteRunning: running,
		StopRequested:   stopRequested,
	}
}

// SessionCompletedEvent is emitted once every participant has a group.
type SessionCompletedEvent struct {
	baseEvent
	SessionID string
	Groups    [][]string
}

// NewSessionCompletedEvent creates a SessionCompletedEvent.
func NewSessionCompletedEvent(sessionID string, groups [][]string) SessionCompletedEvent {
	return SessionCompletedEvent{
		baseEvent: newBaseEvent(TypeSessionCompleted),
		SessionID: sessionID,
		Groups:    groups,
	}
}

// ErrorEvent reports a failure inside an asynchronous step, where there is
// no caller left to return the error to.
type ErrorEvent struct {
	baseEvent
	Operation   string
	Participant string
	Err         error
}

// NewErrorEvent creates an ErrorEvent.
func NewErrorEvent(operation, participant string, err error) ErrorEvent {
	return ErrorEvent{
		baseEvent:   newBaseEvent(TypeSessionError),
		Operation:   operation,
		Participant: participant,
		Err:         err,
	}
}

// -----------------------------------------------------------------------------
// Auto-Assign Events
// -----------------------------------------------------------------------------

// AutoStartedEvent is emitted when the auto-assign loop begins.
type AutoStartedEvent struct {
	baseEvent
	Remaining int
}

// NewAutoStartedEvent creates an AutoStartedEvent.
func NewAutoStartedEvent(remaining int) AutoStartedEvent {
	return AutoStartedEvent{
		baseEvent: newBaseEvent(TypeAutoStarted),
		Remaining: remaining,
	}
}

// AutoFinishedEvent is emitted when the auto-assign loop ends, either because
// the roster is exhausted or because it was stopped.
type AutoFinishedEvent struct {
	baseEvent
	Assigned  int  // participants placed by this loop
	Cancelled bool // stopped before the roster was exhausted
}

// NewAutoFinishedEvent creates an AutoFinishedEvent.
func NewAutoFinishedEvent(assigned int, cancelled bool) AutoFinishedEvent {
	return AutoFinishedEvent{
		baseEvent: newBaseEvent(TypeAutoFinished),
		Assigned:  assigned,
		Cancelled: cancelled,
	}
}
