package cost

import (
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrNegativeBudget is returned when a budget below zero is assigned.
	ErrNegativeBudget = errors.New("budget must be non-negative")

	// ErrNoBudget is returned when checking an agent without a budget.
	ErrNoBudget = errors.New("no budget set for agent")
)

// BudgetManager manages per-agent spending limits. Spending is tracked
// independently of the Tracker so that budget checks can run pre-flight.
type BudgetManager interface {
	// SetBudget assigns or updates a spending limit. An existing spent
	// amount is preserved so mid-run adjustments are possible.
	SetBudget(agentID string, budgetUSD float64) error

	// Remaining returns budget minus spend; negative means over budget.
	Remaining(agentID string) (float64, error)

	// RecordSpend deducts from the agent's budget. Agents without a budget
	// are ignored (permissive mode).
	RecordSpend(agentID string, amountUSD float64)

	// IsOverBudget reports whether the agent exceeded its limit. Agents
	// without a budget are never over budget.
	IsOverBudget(agentID string) bool
}

// BudgetEntry is a snapshot of one agent's budget state.
type BudgetEntry struct {
	Budget    float64
	Spent     float64
	Remaining float64
}

type budgetState struct {
	budget float64
	spent  float64
}

// BasicManager is a thread-safe in-memory BudgetManager for development and
// single-process deployments.
type BasicManager struct {
	mu      sync.Mutex
	budgets map[string]budgetState
}

var _ BudgetManager = (*BasicManager)(nil)

// NewBasicManager creates an empty budget manager.
func NewBasicManager() *BasicManager {
	return &BasicManager{budgets: make(map[string]budgetState)}
}

// SetBudget implements BudgetManager.
func (m *BasicManager) SetBudget(agentID string, budgetUSD float64) error {
	if budgetUSD < 0 {
		return fmt.Errorf("agent %q: %w (got %v)", agentID, ErrNegativeBudget, budgetUSD)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.budgets[agentID] = budgetState{budget: budgetUSD, spent: m.budgets[agentID].spent}
	return nil
}

// Remaining implements BudgetManager.
func (m *BasicManager) Remaining(agentID string) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	state, ok := m.budgets[agentID]
	if !ok {
		return 0, fmt.Errorf("agent %q: %w", agentID, ErrNoBudget)
	}
	return state.budget - state.spent, nil
}

// RecordSpend implements BudgetManager.
func (m *BasicManager) RecordSpend(agentID string, amountUSD float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	state, ok := m.budgets[agentID]
	if !ok {
		return
	}
	state.spent += amountUSD
	m.budgets[agentID] = state
}

// IsOverBudget implements BudgetManager.
func (m *BasicManager) IsOverBudget(agentID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	state, ok := m.budgets[agentID]
	if !ok {
		return false
	}
	return state.spent > state.budget
}

// AllBudgets returns a snapshot of every budget entry.
func (m *BasicManager) AllBudgets() map[string]BudgetEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]BudgetEntry, len(m.budgets))
	for agentID, state := range m.budgets {
		out[agentID] = BudgetEntry{
			Budget:    state.budget,
			Spent:     state.spent,
			Remaining: state.budget - state.spent,
		}
	}
	return out
}
