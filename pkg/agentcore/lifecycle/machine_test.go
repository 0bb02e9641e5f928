package lifecycle_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentcore-dev/agentcore/pkg/agentcore/event"
	"github.com/agentcore-dev/agentcore/pkg/agentcore/lifecycle"
)

func TestMachineInitialState(t *testing.T) {
	m := lifecycle.NewMachine("agent-1")
	assert.Equal(t, lifecycle.Initialized, m.State())
	assert.Equal(t, "agent-1", m.AgentID())
	assert.False(t, m.IsTerminal())
}

func TestMachineHappyPath(t *testing.T) {
	ctx := context.Background()
	m := lifecycle.NewMachine("agent-1")

	require.NoError(t, m.Start(ctx))
	assert.Equal(t, lifecycle.Running, m.State())

	require.NoError(t, m.Pause(ctx))
	assert.Equal(t, lifecycle.Paused, m.State())

	require.NoError(t, m.Resume(ctx))
	assert.Equal(t, lifecycle.Running, m.State())

	require.NoError(t, m.Complete(ctx))
	assert.Equal(t, lifecycle.Completed, m.State())
	assert.True(t, m.IsTerminal())

	require.NoError(t, m.Terminate(ctx))
	assert.Equal(t, lifecycle.Terminated, m.State())
}

func TestMachineInvalidTransition(t *testing.T) {
	ctx := context.Background()
	m := lifecycle.NewMachine("agent-1")

	err := m.Pause(ctx)
	require.Error(t, err)

	var terr *lifecycle.TransitionError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, lifecycle.Initialized, terr.From)
	assert.Equal(t, lifecycle.Paused, terr.To)

	// A failed transition leaves the state unchanged.
	assert.Equal(t, lifecycle.Initialized, m.State())
	assert.Empty(t, m.History())
}

func TestMachineTerminatedIsTerminal(t *testing.T) {
	ctx := context.Background()
	m := lifecycle.NewMachine("agent-1", lifecycle.WithInitialState(lifecycle.Terminated))

	for _, target := range []error{
		m.Start(ctx), m.Pause(ctx), m.Complete(ctx), m.Fail(ctx), m.Terminate(ctx),
	} {
		assert.Error(t, target)
	}
	assert.True(t, m.IsTerminal())
}

func TestMachineHistory(t *testing.T) {
	ctx := context.Background()
	m := lifecycle.NewMachine("agent-1")

	require.NoError(t, m.Start(ctx))
	require.NoError(t, m.Fail(ctx))

	history := m.History()
	require.Len(t, history, 2)
	assert.Equal(t, lifecycle.Initialized, history[0].From)
	assert.Equal(t, lifecycle.Running, history[0].To)
	assert.Equal(t, lifecycle.Running, history[1].From)
	assert.Equal(t, lifecycle.Failed, history[1].To)
	assert.False(t, history[0].At.IsZero())
}

func TestMachineCallbacks(t *testing.T) {
	ctx := context.Background()
	m := lifecycle.NewMachine("agent-1")

	var seen [][2]lifecycle.State
	m.OnTransition(func(from, to lifecycle.State) {
		seen = append(seen, [2]lifecycle.State{from, to})
	})

	require.NoError(t, m.Start(ctx))
	require.NoError(t, m.Complete(ctx))

	require.Len(t, seen, 2)
	assert.Equal(t, lifecycle.Running, seen[0][1])
	assert.Equal(t, lifecycle.Completed, seen[1][1])
}

func TestMachineCallbackPanicIsolated(t *testing.T) {
	ctx := context.Background()
	m := lifecycle.NewMachine("agent-1")

	var after int
	m.OnTransition(func(from, to lifecycle.State) { panic("callback blew up") })
	m.OnTransition(func(from, to lifecycle.State) { after++ })

	require.NoError(t, m.Start(ctx))
	assert.Equal(t, 1, after)
	assert.Equal(t, lifecycle.Running, m.State())
}

func TestMachineEmitsLifecycleEvents(t *testing.T) {
	ctx := context.Background()
	bus := event.NewBus()

	var types []event.Type
	bus.SubscribeAll(event.HandlerFunc(func(ctx context.Context, evt *event.Event) error {
		types = append(types, evt.Type())
		return nil
	}))

	m := lifecycle.NewMachine("agent-1", lifecycle.WithBus(bus))
	require.NoError(t, m.Start(ctx))
	require.NoError(t, m.Fail(ctx))
	require.NoError(t, m.Terminate(ctx))

	require.Equal(t, []event.Type{event.AgentStarted, event.ErrorOccurred, event.AgentStopped}, types)

	history := bus.History()
	require.Len(t, history, 3)
	assert.Equal(t, "agent-1", history[0].SourceID())
	assert.Equal(t, "initialized", history[0].Data()["from_state"])
	assert.Equal(t, "running", history[0].Data()["to_state"])
}

func TestMachinePauseDoesNotAnnounce(t *testing.T) {
	ctx := context.Background()
	bus := event.NewBus()

	m := lifecycle.NewMachine("agent-1", lifecycle.WithBus(bus))
	require.NoError(t, m.Start(ctx))
	require.NoError(t, m.Pause(ctx))
	require.NoError(t, m.Resume(ctx))

	// Only the initial start maps to a bus event; pause and resume stay local.
	history := bus.History()
	require.Len(t, history, 1)
	assert.Equal(t, event.AgentStarted, history[0].Type())
}
