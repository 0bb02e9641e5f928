package identity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentcore-dev/agentcore/pkg/agentcore/identity"
)

func TestNewDefaults(t *testing.T) {
	id := identity.New("research-agent")

	assert.NotEmpty(t, id.AgentID)
	assert.Equal(t, "research-agent", id.Name)
	assert.Equal(t, "0.1.0", id.Version)
	assert.Equal(t, "custom", id.Framework)
	assert.False(t, id.CreatedAt.IsZero())
	assert.NotNil(t, id.Metadata)
}

func TestNewOptions(t *testing.T) {
	id := identity.New("worker",
		identity.WithVersion("2.1.0"),
		identity.WithFramework("crewai"),
		identity.WithModel("gpt-4o"),
		identity.WithMetadata(map[string]any{"team": "infra"}),
	)

	assert.Equal(t, "2.1.0", id.Version)
	assert.Equal(t, "crewai", id.Framework)
	assert.Equal(t, "gpt-4o", id.Model)
	assert.Equal(t, "infra", id.Metadata["team"])
}

func TestFingerprintDeterministic(t *testing.T) {
	a := identity.New("bot", identity.WithVersion("1.0.0"))
	b := identity.New("bot", identity.WithVersion("1.0.0"))

	// Same stable fields give the same fingerprint even though agent IDs and
	// creation times differ.
	assert.Len(t, a.Fingerprint(), 64)
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())

	c := identity.New("bot", identity.WithVersion("1.0.1"))
	assert.NotEqual(t, a.Fingerprint(), c.Fingerprint())
}

func TestFingerprintIgnoresMetadata(t *testing.T) {
	a := identity.New("bot")
	b := identity.New("bot", identity.WithMetadata(map[string]any{"env": "prod"}))
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
}

func TestRegistryRegisterAndGet(t *testing.T) {
	reg := identity.NewRegistry()
	id := identity.New("worker-1")

	require.NoError(t, reg.Register(id))
	assert.True(t, reg.Contains(id.AgentID))
	assert.Equal(t, 1, reg.Len())

	got, err := reg.Get(id.AgentID)
	require.NoError(t, err)
	assert.Equal(t, "worker-1", got.Name)
}

func TestRegistryDuplicateRegister(t *testing.T) {
	reg := identity.NewRegistry()
	id := identity.New("worker-1")

	require.NoError(t, reg.Register(id))
	err := reg.Register(id)
	require.ErrorIs(t, err, identity.ErrAlreadyRegistered)
}

func TestRegistryUnregister(t *testing.T) {
	reg := identity.NewRegistry()
	id := identity.New("worker-1")

	require.NoError(t, reg.Register(id))
	require.NoError(t, reg.Unregister(id.AgentID))

	assert.False(t, reg.Contains(id.AgentID))
	_, err := reg.Get(id.AgentID)
	require.ErrorIs(t, err, identity.ErrNotRegistered)
	require.ErrorIs(t, reg.Unregister(id.AgentID), identity.ErrNotRegistered)
}

func TestRegistryListOrder(t *testing.T) {
	reg := identity.NewRegistry()
	first := identity.New("alpha")
	second := identity.New("beta")
	third := identity.New("gamma")

	require.NoError(t, reg.Register(first))
	require.NoError(t, reg.Register(second))
	require.NoError(t, reg.Register(third))
	require.NoError(t, reg.Unregister(second.AgentID))

	list := reg.List()
	require.Len(t, list, 2)
	assert.Equal(t, "alpha", list[0].Name)
	assert.Equal(t, "gamma", list[1].Name)
}

func TestRegistryFinders(t *testing.T) {
	reg := identity.NewRegistry()
	require.NoError(t, reg.Register(identity.New("worker", identity.WithFramework("langchain"))))
	require.NoError(t, reg.Register(identity.New("worker", identity.WithFramework("crewai"))))
	require.NoError(t, reg.Register(identity.New("planner", identity.WithFramework("crewai"))))

	assert.Len(t, reg.FindByName("worker"), 2)
	assert.Len(t, reg.FindByName("missing"), 0)
	assert.Len(t, reg.FindByFramework("crewai"), 2)
	assert.Len(t, reg.FindByFramework("langchain"), 1)
}
