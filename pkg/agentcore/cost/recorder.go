package cost

import (
	"context"
	"fmt"

	"github.com/agentcore-dev/agentcore/pkg/agentcore/event"
)

// Recorder is an event handler that folds cost_incurred events into a
// Tracker and, when configured, a BudgetManager. Subscribe it to a bus:
//
//	bus.Subscribe(event.CostIncurred, cost.NewRecorder(tracker))
//
// Expected event data keys: "model" (string), "input_tokens" and
// "output_tokens" (numeric).
type Recorder struct {
	tracker *Tracker
	budgets BudgetManager
}

// RecorderOption configures a Recorder.
type RecorderOption func(*Recorder)

// WithBudgetManager forwards each recorded spend to a budget manager.
func WithBudgetManager(budgets BudgetManager) RecorderOption {
	return func(r *Recorder) { r.budgets = budgets }
}

// NewRecorder creates a Recorder backed by tracker.
func NewRecorder(tracker *Tracker, opts ...RecorderOption) *Recorder {
	r := &Recorder{tracker: tracker}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Handle implements event.Handler. Events of any type other than
// cost_incurred are ignored.
func (r *Recorder) Handle(ctx context.Context, evt *event.Event) error {
	if evt.Type() != event.CostIncurred {
		return nil
	}

	model, ok := evt.Data()["model"].(string)
	if !ok || model == "" {
		return fmt.Errorf("cost event %s: missing model", evt.ID())
	}
	inputTokens, err := intField(evt, "input_tokens")
	if err != nil {
		return err
	}
	outputTokens, err := intField(evt, "output_tokens")
	if err != nil {
		return err
	}

	costUSD, err := r.tracker.Record(evt.SourceID(), model, inputTokens, outputTokens)
	if err != nil {
		return fmt.Errorf("cost event %s: %w", evt.ID(), err)
	}
	if r.budgets != nil {
		r.budgets.RecordSpend(evt.SourceID(), costUSD)
	}
	return nil
}

// intField extracts a numeric data field, tolerating the float64 that JSON
// decoding produces for integers.
func intField(evt *event.Event, key string) (int, error) {
	switch v := evt.Data()[key].(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		return int(v), nil
	default:
		return 0, fmt.Errorf("cost event %s: missing or non-numeric %s", evt.ID(), key)
	}
}
