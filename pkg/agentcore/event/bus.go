package event

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// DefaultMaxHistory is the history ring capacity when none is configured.
const DefaultMaxHistory = 1000

// Bus is a thread-safe, in-process publish/subscribe event bus.
//
// Subscribers register interest in one specific Type or in all events.
// Emit dispatches an event to every matching subscriber, isolating the
// emitter from handler errors and panics. A bounded history ring retains
// recently emitted events for introspection.
//
// A Bus is an explicit value owned by whichever component composes the
// system; there is no package-level default instance.
type Bus struct {
	mu       sync.Mutex
	typeSubs map[Type][]subscription
	allSubs  []subscription

	maxHistory int
	history    *ring

	logger *slog.Logger
}

// subscription pairs a handler with its opaque ID. Slices of subscriptions
// preserve registration order, which Emit's ordering guarantee depends on.
type subscription struct {
	id      string
	handler Handler
}

// BusOption configures a Bus.
type BusOption func(*Bus)

// WithMaxHistory sets the history ring capacity.
// Zero disables history entirely. Default: DefaultMaxHistory.
func WithMaxHistory(n int) BusOption {
	return func(b *Bus) {
		b.maxHistory = n
	}
}

// WithLogger sets the logger used for subscription tracing and handler
// fault reports. Default: slog.Default().
func WithLogger(logger *slog.Logger) BusOption {
	return func(b *Bus) {
		b.logger = logger
	}
}

// NewBus creates an event bus.
func NewBus(opts ...BusOption) *Bus {
	b := &Bus{
		typeSubs:   make(map[Type][]subscription),
		maxHistory: DefaultMaxHistory,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.maxHistory < 0 {
		b.maxHistory = 0
	}
	if b.logger == nil {
		b.logger = slog.Default()
	}
	b.history = newRing(b.maxHistory)
	return b
}

// Subscribe registers handler for events of one specific type and returns
// an opaque subscription ID for use with Unsubscribe.
// Returns ErrInvalidEventType if eventType is not in the canonical taxonomy.
func (b *Bus) Subscribe(eventType Type, handler Handler) (string, error) {
	if !eventType.Valid() {
		return "", fmt.Errorf("subscribe %q: %w", eventType, ErrInvalidEventType)
	}

	id := uuid.New().String()
	b.mu.Lock()
	b.typeSubs[eventType] = append(b.typeSubs[eventType], subscription{id: id, handler: handler})
	b.mu.Unlock()

	b.logger.Debug("subscribed handler",
		slog.String("event_type", eventType.String()),
		slog.String("subscription_id", id),
	)
	return id, nil
}

// SubscribeAll registers handler for every event regardless of type.
func (b *Bus) SubscribeAll(handler Handler) string {
	id := uuid.New().String()
	b.mu.Lock()
	b.allSubs = append(b.allSubs, subscription{id: id, handler: handler})
	b.mu.Unlock()

	b.logger.Debug("subscribed global handler",
		slog.String("subscription_id", id),
	)
	return id
}

// Unsubscribe cancels a subscription by ID, wherever it lives.
// Returns ErrSubscriptionNotFound if the ID does not match a live
// subscription; a double-unsubscribe is a caller bug, not a no-op.
func (b *Bus) Unsubscribe(subscriptionID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, sub := range b.allSubs {
		if sub.id == subscriptionID {
			b.allSubs = append(b.allSubs[:i], b.allSubs[i+1:]...)
			return nil
		}
	}
	for eventType, subs := range b.typeSubs {
		for i, sub := range subs {
			if sub.id == subscriptionID {
				b.typeSubs[eventType] = append(subs[:i], subs[i+1:]...)
				return nil
			}
		}
	}
	return fmt.Errorf("unsubscribe %q: %w", subscriptionID, ErrSubscriptionNotFound)
}

// SubscriberCount returns the total number of live subscriptions,
// type-scoped and global combined.
func (b *Bus) SubscriberCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	count := len(b.allSubs)
	for _, subs := range b.typeSubs {
		count += len(subs)
	}
	return count
}

// Emit dispatches evt to all matching subscribers and blocks until the
// fan-out completes. It never returns an error: handler faults are absorbed
// and logged so that one broken subscriber cannot disturb the others or the
// emitter.
//
// Delivery order is a documented guarantee: type-scoped handlers first, in
// registration order, then global handlers, in registration order. The
// matching handler set is snapshotted under the lock before any handler
// runs, so a handler mutating subscriptions (or emitting again) affects only
// future Emit calls, never the in-flight one.
func (b *Bus) Emit(ctx context.Context, evt *Event) {
	b.mu.Lock()
	typeSubs := b.typeSubs[evt.Type()]
	handlers := make([]subscription, 0, len(typeSubs)+len(b.allSubs))
	handlers = append(handlers, typeSubs...)
	handlers = append(handlers, b.allSubs...)
	if b.maxHistory != 0 {
		b.history.append(evt)
	}
	b.mu.Unlock()

	for _, sub := range handlers {
		b.safeCall(ctx, sub, evt)
	}
}

// EmitAsync dispatches evt on a new goroutine and returns immediately.
// It is the fire-and-forget counterpart to Emit for producers that must not
// block. The returned channel is closed when the fan-out completes; callers
// may await it or discard it.
func (b *Bus) EmitAsync(evt *Event) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		b.Emit(context.Background(), evt)
	}()
	return done
}

// safeCall invokes one handler, absorbing any returned error or panic.
// Faults are logged with enough context to identify the offending handler
// and event.
func (b *Bus) safeCall(ctx context.Context, sub subscription, evt *Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("panic in event handler",
				slog.String("handler", handlerName(sub.handler)),
				slog.String("subscription_id", sub.id),
				slog.String("event_type", evt.Type().String()),
				slog.String("event_id", evt.ID()),
				slog.Any("panic", r),
			)
		}
	}()

	if err := sub.handler.Handle(ctx, evt); err != nil {
		b.logger.Error("error in event handler",
			slog.String("handler", handlerName(sub.handler)),
			slog.String("subscription_id", sub.id),
			slog.String("event_type", evt.Type().String()),
			slog.String("event_id", evt.ID()),
			slog.String("error", err.Error()),
		)
	}
}

// History returns a snapshot of the history ring, oldest first.
// The slice is a copy; mutating it does not affect the bus.
func (b *Bus) History() []*Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.history.snapshot()
}

// ClearHistory empties the history ring without touching subscriptions.
func (b *Bus) ClearHistory() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.history.clear()
}

// handlerName extracts a loggable name for a handler.
func handlerName(h Handler) string {
	return fmt.Sprintf("%T", h)
}

// ring is a fixed-capacity FIFO buffer of emitted events.
// Callers synchronize access; the bus guards it with its own mutex.
type ring struct {
	buf   []*Event
	head  int
	count int
}

func newRing(capacity int) *ring {
	if capacity <= 0 {
		return &ring{}
	}
	return &ring{buf: make([]*Event, capacity)}
}

// append adds evt, evicting the oldest entry once the ring is full.
func (r *ring) append(evt *Event) {
	if len(r.buf) == 0 {
		return
	}
	tail := (r.head + r.count) % len(r.buf)
	r.buf[tail] = evt
	if r.count < len(r.buf) {
		r.count++
	} else {
		r.head = (r.head + 1) % len(r.buf)
	}
}

// snapshot returns the buffered events oldest first.
func (r *ring) snapshot() []*Event {
	out := make([]*Event, 0, r.count)
	for i := 0; i < r.count; i++ {
		out = append(out, r.buf[(r.head+i)%len(r.buf)])
	}
	return out
}

func (r *ring) clear() {
	for i := range r.buf {
		r.buf[i] = nil
	}
	r.head = 0
	r.count = 0
}
