package cost

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// ErrUnknownModel is returned when a model has no pricing entry.
var ErrUnknownModel = errors.New("no pricing data for model")

// Usage is a single token-usage record.
type Usage struct {
	AgentID      string    `json:"agent_id"`
	Model        string    `json:"model"`
	InputTokens  int       `json:"input_tokens"`
	OutputTokens int       `json:"output_tokens"`
	CostUSD      float64   `json:"cost_usd"`
	RecordedAt   time.Time `json:"recorded_at"`
}

// AgentCosts aggregates spend for a single agent.
type AgentCosts struct {
	AgentID           string
	TotalCostUSD      float64
	TotalInputTokens  int
	TotalOutputTokens int
	Records           []Usage
}

// Tracker is a thread-safe accumulator of token costs across agents and
// models. A Store attached via WithStore additionally receives every usage
// record for persistence; store failures are logged, never surfaced to the
// caller.
type Tracker struct {
	mu    sync.Mutex
	costs map[string]*AgentCosts

	store  Store
	logger *slog.Logger
}

// TrackerOption configures a Tracker.
type TrackerOption func(*Tracker)

// WithStore attaches a persistence backend for usage records.
func WithStore(store Store) TrackerOption {
	return func(t *Tracker) { t.store = store }
}

// WithTrackerLogger sets the logger for store-append failures.
func WithTrackerLogger(logger *slog.Logger) TrackerOption {
	return func(t *Tracker) { t.logger = logger }
}

// NewTracker creates an empty tracker.
func NewTracker(opts ...TrackerOption) *Tracker {
	t := &Tracker{
		costs:  make(map[string]*AgentCosts),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Record computes and accumulates the USD cost of a model call. It returns
// ErrUnknownModel, recording nothing, when the model has no pricing entry.
func (t *Tracker) Record(agentID, model string, inputTokens, outputTokens int) (float64, error) {
	pricing, ok := GetPricing(model)
	if !ok {
		return 0, fmt.Errorf("model %q: %w", model, ErrUnknownModel)
	}

	costUSD := float64(inputTokens)/1000.0*pricing.InputPer1K +
		float64(outputTokens)/1000.0*pricing.OutputPer1K

	usage := Usage{
		AgentID:      agentID,
		Model:        model,
		InputTokens:  inputTokens,
		OutputTokens: outputTokens,
		CostUSD:      costUSD,
		RecordedAt:   time.Now().UTC(),
	}

	t.mu.Lock()
	agent, exists := t.costs[agentID]
	if !exists {
		agent = &AgentCosts{AgentID: agentID}
		t.costs[agentID] = agent
	}
	agent.TotalCostUSD += costUSD
	agent.TotalInputTokens += inputTokens
	agent.TotalOutputTokens += outputTokens
	agent.Records = append(agent.Records, usage)
	t.mu.Unlock()

	if t.store != nil {
		if err := t.store.Append(usage); err != nil {
			t.logger.Warn("cost store append failed",
				"agent_id", agentID,
				"model", model,
				"error", err)
		}
	}
	return costUSD, nil
}

// Total returns the accumulated USD cost for agentID, zero when unknown.
func (t *Tracker) Total(agentID string) float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	if agent, ok := t.costs[agentID]; ok {
		return agent.TotalCostUSD
	}
	return 0
}

// TokenCounts returns the total input and output tokens for agentID.
func (t *Tracker) TokenCounts(agentID string) (input, output int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if agent, ok := t.costs[agentID]; ok {
		return agent.TotalInputTokens, agent.TotalOutputTokens
	}
	return 0, 0
}

// AllCosts returns a deep copy of the per-agent summaries.
func (t *Tracker) AllCosts() map[string]AgentCosts {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make(map[string]AgentCosts, len(t.costs))
	for id, agent := range t.costs {
		cp := *agent
		cp.Records = make([]Usage, len(agent.Records))
		copy(cp.Records, agent.Records)
		out[id] = cp
	}
	return out
}

// Reset discards all accumulated data for agentID.
func (t *Tracker) Reset(agentID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.costs, agentID)
}

// ResetAll discards all accumulated data for every agent.
func (t *Tracker) ResetAll() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.costs = make(map[string]*AgentCosts)
}
