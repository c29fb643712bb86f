// Package event provides a pub-sub event bus that lets the session
// controller report progress to whatever is presenting it (the TUI, the
// headless draw command, the log) without depending on any of them.
//
// # Main Types
//
//   - [Event]: Interface that all events implement, providing EventType() and Timestamp()
//   - [Bus]: Synchronous pub-sub dispatcher, safe for concurrent use
//   - [Handler]: Function type for event handlers (func(Event))
//
// # Event Categories
//
// Roulette:
//   - [RouletteStartedEvent]: a pick began animating
//   - [HighlightEvent]: the highlight moved to another group
//
// Assignment:
//   - [GroupAssignedEvent]: a participant was recorded in a group
//
// Session:
//   - [StateChangedEvent]: controller flags changed
//   - [SessionCompletedEvent]: every participant has a group
//   - [ErrorEvent]: an asynchronous step failed
//
// Auto-assign:
//   - [AutoStartedEvent], [AutoFinishedEvent]
//
// # Usage
//
//	bus := event.NewBus(logger)
//
//	event.On(bus, event.TypeGroupAssigned, func(e event.GroupAssignedEvent) {
//	    fmt.Printf("%s -> %s\n", e.Participant, e.GroupName)
//	})
//
//	bus.SubscribeAll(func(e event.Event) {
//	    logger.Debug("event", "type", e.EventType())
//	})
//
// Handlers run synchronously on the publisher's goroutine. A panicking handler
// is recovered and logged; the remaining handlers still run.
package event
