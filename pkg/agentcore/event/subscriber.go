package event

import "context"

// FilteredHandler gates a handler behind a filter. It is itself a valid
// Handler, so filtering is expressed entirely on the subscriber side: the
// bus never inspects predicates.
type FilteredHandler struct {
	handler Handler
	filter  Filter
}

// NewFilteredHandler wraps handler so it only runs on events that pass
// filter. Non-matching events are a silent no-op.
func NewFilteredHandler(handler Handler, filter Filter) *FilteredHandler {
	return &FilteredHandler{handler: handler, filter: filter}
}

// Handle implements Handler.
func (f *FilteredHandler) Handle(ctx context.Context, evt *Event) error {
	if !f.filter.Matches(evt) {
		return nil
	}
	return f.handler.Handle(ctx, evt)
}
