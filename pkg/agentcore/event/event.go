package event

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Type is the discriminator for agent lifecycle events.
// The taxonomy is closed: producers and consumers share this canonical set,
// and Bus.Subscribe rejects values outside it.
type Type string

// Canonical event types emitted across an agent runtime.
const (
	AgentStarted    Type = "agent_started"
	AgentStopped    Type = "agent_stopped"
	ToolCalled      Type = "tool_called"
	ToolCompleted   Type = "tool_completed"
	ToolFailed      Type = "tool_failed"
	DecisionMade    Type = "decision_made"
	MessageReceived Type = "message_received"
	MessageSent     Type = "message_sent"
	ErrorOccurred   Type = "error_occurred"
	CostIncurred    Type = "cost_incurred"
	Custom          Type = "custom"
)

var knownTypes = map[Type]struct{}{
	AgentStarted:    {},
	AgentStopped:    {},
	ToolCalled:      {},
	ToolCompleted:   {},
	ToolFailed:      {},
	DecisionMade:    {},
	MessageReceived: {},
	MessageSent:     {},
	ErrorOccurred:   {},
	CostIncurred:    {},
	Custom:          {},
}

// Valid reports whether t is a member of the canonical taxonomy.
func (t Type) Valid() bool {
	_, ok := knownTypes[t]
	return ok
}

// String returns the wire value of the type.
func (t Type) String() string {
	return string(t)
}

// Event is an immutable record of a single agent lifecycle signal.
// Once constructed it is never mutated by the bus or by handlers; the maps
// returned by Data and Metadata must be treated as read-only.
type Event struct {
	id          string
	eventType   Type
	sourceID    string
	data        map[string]any
	metadata    map[string]any
	causationID string
	createdAt   time.Time
}

// Option configures event construction.
type Option func(*Event)

// WithData sets the free-form payload map. The map is copied.
func WithData(data map[string]any) Option {
	return func(e *Event) {
		e.data = copyMap(data)
	}
}

// WithMetadata sets the cross-cutting tag map. The map is copied.
func WithMetadata(metadata map[string]any) Option {
	return func(e *Event) {
		e.metadata = copyMap(metadata)
	}
}

// WithCausationID links this event to the ID of the event that caused it.
func WithCausationID(id string) Option {
	return func(e *Event) {
		e.causationID = id
	}
}

// WithID sets a specific event ID (default: auto-generated UUID).
func WithID(id string) Option {
	return func(e *Event) {
		e.id = id
	}
}

// WithTimestamp sets a specific creation time (default: time.Now in UTC).
func WithTimestamp(t time.Time) Option {
	return func(e *Event) {
		e.createdAt = t
	}
}

// New creates an event of the given type from the given source.
// The ID and creation timestamp are assigned here unless overridden.
func New(eventType Type, sourceID string, opts ...Option) *Event {
	evt := &Event{
		id:        uuid.New().String(),
		eventType: eventType,
		sourceID:  sourceID,
		data:      map[string]any{},
		metadata:  map[string]any{},
		createdAt: time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(evt)
	}
	return evt
}

// NewFromParent creates an event caused by parent: the causation ID is set
// to the parent's ID (overridable via opts).
func NewFromParent(parent *Event, eventType Type, sourceID string, opts ...Option) *Event {
	allOpts := append([]Option{WithCausationID(parent.ID())}, opts...)
	return New(eventType, sourceID, allOpts...)
}

// ID returns the globally unique event identifier.
func (e *Event) ID() string { return e.id }

// Type returns the event discriminator.
func (e *Event) Type() Type { return e.eventType }

// SourceID returns the identifier of the logical producer.
func (e *Event) SourceID() string { return e.sourceID }

// CausationID returns the ID of the causing event, or "" for a root event.
// The bus never dereferences it.
func (e *Event) CausationID() string { return e.causationID }

// CreatedAt returns the UTC creation timestamp.
func (e *Event) CreatedAt() time.Time { return e.createdAt }

// Data returns the free-form payload map. Callers must not modify it.
func (e *Event) Data() map[string]any { return e.data }

// Metadata returns the cross-cutting tag map. Callers must not modify it.
func (e *Event) Metadata() map[string]any { return e.metadata }

// MetadataValue looks up a single metadata key.
func (e *Event) MetadataValue(key string) (any, bool) {
	v, ok := e.metadata[key]
	return v, ok
}

// eventJSON is the wire shape for Event serialization.
type eventJSON struct {
	ID          string         `json:"event_id"`
	Type        Type           `json:"event_type"`
	SourceID    string         `json:"source_id"`
	Data        map[string]any `json:"data"`
	Metadata    map[string]any `json:"metadata"`
	CausationID string         `json:"causation_id,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

// MarshalJSON implements json.Marshaler.
func (e *Event) MarshalJSON() ([]byte, error) {
	return json.Marshal(eventJSON{
		ID:          e.id,
		Type:        e.eventType,
		SourceID:    e.sourceID,
		Data:        e.data,
		Metadata:    e.metadata,
		CausationID: e.causationID,
		CreatedAt:   e.createdAt,
	})
}

// UnmarshalJSON implements json.Unmarshaler. Missing ID and timestamp fields
// are regenerated so that partially specified payloads still produce a
// well-formed event.
func (e *Event) UnmarshalJSON(data []byte) error {
	var wire eventJSON
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	if wire.ID == "" {
		wire.ID = uuid.New().String()
	}
	if wire.CreatedAt.IsZero() {
		wire.CreatedAt = time.Now().UTC()
	}
	if wire.Data == nil {
		wire.Data = map[string]any{}
	}
	if wire.Metadata == nil {
		wire.Metadata = map[string]any{}
	}
	*e = Event{
		id:          wire.ID,
		eventType:   wire.Type,
		sourceID:    wire.SourceID,
		data:        wire.Data,
		metadata:    wire.Metadata,
		causationID: wire.CausationID,
		createdAt:   wire.CreatedAt,
	}
	return nil
}

func copyMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Handler processes a single event. Implementations are responsible for
// their own error handling; an error returned here is logged by the bus and
// never propagated to the emitter.
//
// A handler may block on context-aware work. The bus invokes handlers
// sequentially and never holds its internal lock across a call, so a handler
// is free to call Subscribe, Unsubscribe, or Emit on the same bus.
type Handler interface {
	Handle(ctx context.Context, evt *Event) error
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ctx context.Context, evt *Event) error

// Handle implements Handler.
func (f HandlerFunc) Handle(ctx context.Context, evt *Event) error {
	return f(ctx, evt)
}
