// Package health provides a composable health-check framework reporting the
// aggregate status of an agent runtime and its subsystems.
package health

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/agentcore-dev/agentcore/pkg/agentcore/cost"
	"github.com/agentcore-dev/agentcore/pkg/agentcore/event"
	"github.com/agentcore-dev/agentcore/pkg/agentcore/identity"
)

// Status is an ordered health status.
type Status int

const (
	// Healthy means all checks pass.
	Healthy Status = iota
	// Degraded means some non-critical checks fail; the agent can still
	// operate.
	Degraded
	// Unhealthy means one or more critical checks fail; the agent should
	// not run.
	Unhealthy
)

func (s Status) String() string {
	switch s {
	case Healthy:
		return "healthy"
	case Degraded:
		return "degraded"
	case Unhealthy:
		return "unhealthy"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// CheckResult is the outcome of a single named check.
type CheckResult struct {
	Name    string
	Status  Status
	Message string
}

// Report aggregates the results of one Run. The overall status is the worst
// individual status.
type Report struct {
	Status    Status
	Results   []CheckResult
	CheckedAt time.Time
}

// IsHealthy reports whether every check passed.
func (r Report) IsHealthy() bool { return r.Status == Healthy }

// CheckFunc is a registered health probe.
type CheckFunc func() CheckResult

// Checker registers named check functions and runs them on demand. A check
// that panics is reported as unhealthy; it never takes the runner down.
type Checker struct {
	mu     sync.Mutex
	names  []string
	checks map[string]CheckFunc
	logger *slog.Logger
}

// CheckerOption configures a Checker.
type CheckerOption func(*Checker)

// WithLogger sets the logger for check panics.
func WithLogger(logger *slog.Logger) CheckerOption {
	return func(c *Checker) { c.logger = logger }
}

// NewChecker creates an empty checker.
func NewChecker(opts ...CheckerOption) *Checker {
	c := &Checker{
		checks: make(map[string]CheckFunc),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Register adds or replaces a named check.
func (c *Checker) Register(name string, fn CheckFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.checks[name]; !exists {
		c.names = append(c.names, name)
	}
	c.checks[name] = fn
}

// Unregister removes a named check. Unknown names are ignored.
func (c *Checker) Unregister(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.checks[name]; !exists {
		return
	}
	delete(c.checks, name)
	for i, n := range c.names {
		if n == name {
			c.names = append(c.names[:i], c.names[i+1:]...)
			break
		}
	}
}

// Run executes every registered check in registration order and aggregates
// the results.
func (c *Checker) Run() Report {
	c.mu.Lock()
	names := make([]string, len(c.names))
	copy(names, c.names)
	checks := make(map[string]CheckFunc, len(c.checks))
	for name, fn := range c.checks {
		checks[name] = fn
	}
	c.mu.Unlock()

	report := Report{Status: Healthy, CheckedAt: time.Now().UTC()}
	for _, name := range names {
		result := c.runOne(name, checks[name])
		if result.Status > report.Status {
			report.Status = result.Status
		}
		report.Results = append(report.Results, result)
	}
	return report
}

func (c *Checker) runOne(name string, fn CheckFunc) (result CheckResult) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Warn("health check panicked", "check", name, "panic", r)
			result = CheckResult{
				Name:    name,
				Status:  Unhealthy,
				Message: fmt.Sprintf("check panicked: %v", r),
			}
		}
	}()
	return fn()
}

// RegisterBusCheck probes an event bus by inspecting its subscriber count.
func (c *Checker) RegisterBusCheck(bus *event.Bus) {
	c.Register("event-bus", func() CheckResult {
		count := bus.SubscriberCount()
		return CheckResult{
			Name:    "event-bus",
			Status:  Healthy,
			Message: fmt.Sprintf("%d subscriber(s)", count),
		}
	})
}

// RegisterIdentityCheck probes an identity registry.
func (c *Checker) RegisterIdentityCheck(registry *identity.Registry) {
	c.Register("identity-registry", func() CheckResult {
		count := registry.Len()
		return CheckResult{
			Name:    "identity-registry",
			Status:  Healthy,
			Message: fmt.Sprintf("%d identity(ies) registered", count),
		}
	})
}

// RegisterCostCheck probes a cost tracker.
func (c *Checker) RegisterCostCheck(tracker *cost.Tracker) {
	c.Register("cost-tracker", func() CheckResult {
		count := len(tracker.AllCosts())
		return CheckResult{
			Name:    "cost-tracker",
			Status:  Healthy,
			Message: fmt.Sprintf("tracking %d agent(s)", count),
		}
	})
}
