// Package event provides the in-process event dispatch engine for agentcore.
//
// # Overview
//
// The package is the pub/sub backbone that lets independent components of an
// agent runtime observe lifecycle signals without direct coupling:
//
//   - Event, an immutable value with a closed Type taxonomy, causation
//     chaining, and JSON round-tripping
//   - Bus, a mutex-guarded subscription registry with sequential fan-out,
//     per-handler fault isolation, and a bounded history ring
//   - Filter predicates (type, source, metadata, AND/OR composites) and
//     FilteredHandler for subscriber-side gating
//
// # Bus
//
// A Bus is an explicit value; compose it into whatever owns the runtime:
//
//	bus := event.NewBus(event.WithMaxHistory(500))
//
//	subID, err := bus.Subscribe(event.ToolCalled, event.HandlerFunc(
//	    func(ctx context.Context, evt *event.Event) error {
//	        log.Printf("tool called by %s", evt.SourceID())
//	        return nil
//	    },
//	))
//
//	bus.Emit(ctx, event.New(event.ToolCalled, "agent-1"))
//	bus.Unsubscribe(subID)
//
// Emit blocks until every matching handler has run; EmitAsync dispatches on
// a new goroutine and returns a completion handle. Either way, delivery is
// sequential and ordered: type-scoped handlers first in registration order,
// then global handlers in registration order. Handler errors and panics are
// logged and absorbed; the emitter never observes them.
//
// The registry lock covers only the handler snapshot and history append,
// never a handler call, so handlers may subscribe, unsubscribe, or emit on
// the same bus without deadlocking. Mutations made by an in-flight handler
// take effect on the next Emit.
//
// # Filters
//
// Filters compose into predicate trees and attach on the subscriber side:
//
//	f := event.And(
//	    event.NewTypeFilter(event.ToolCalled, event.ToolCompleted),
//	    event.NewSourceFilter("agent-1"),
//	)
//	bus.SubscribeAll(event.NewFilteredHandler(handler, f))
//
// The bus is unaware of the wrapping; a FilteredHandler is just a Handler.
//
// # History
//
// Recently emitted events are retained in a fixed-capacity FIFO ring for
// introspection and debugging. History is independent of dispatch: events
// are recorded whether or not any subscriber matched. History() returns an
// oldest-first snapshot copy; a capacity of zero disables retention.
package event
