// Package identity defines the stable identity of an agent and a
// thread-safe in-memory registry for resolving agent IDs to identities.
package identity

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Identity is the stable, serialisable identity of an agent: who the agent
// is, independent of what it is doing. Name, Version, Framework, and Model
// determine the fingerprint; the remaining fields do not.
type Identity struct {
	AgentID   string         `json:"agent_id" yaml:"agent_id"`
	Name      string         `json:"name" yaml:"name"`
	Version   string         `json:"version" yaml:"version"`
	Framework string         `json:"framework" yaml:"framework"`
	Model     string         `json:"model" yaml:"model"`
	CreatedAt time.Time      `json:"created_at" yaml:"created_at"`
	Metadata  map[string]any `json:"metadata" yaml:"metadata"`
}

// Option configures an Identity at construction time.
type Option func(*Identity)

// WithVersion sets the SemVer release string. Defaults to "0.1.0".
func WithVersion(version string) Option {
	return func(id *Identity) { id.Version = version }
}

// WithFramework sets the agent framework identifier, e.g. "langchain" or
// "crewai". Defaults to "custom".
func WithFramework(framework string) Option {
	return func(id *Identity) { id.Framework = framework }
}

// WithModel sets the primary language model identifier.
func WithModel(model string) Option {
	return func(id *Identity) { id.Model = model }
}

// WithMetadata sets arbitrary key/value tags (environment, owner, team).
func WithMetadata(metadata map[string]any) Option {
	return func(id *Identity) {
		id.Metadata = make(map[string]any, len(metadata))
		for k, v := range metadata {
			id.Metadata[k] = v
		}
	}
}

// New creates an Identity with a generated agent ID and the current UTC
// time. Unset fields take the documented defaults.
func New(name string, opts ...Option) *Identity {
	id := &Identity{
		AgentID:   uuid.New().String(),
		Name:      name,
		Version:   "0.1.0",
		Framework: "custom",
		Model:     "claude-sonnet-4-5",
		CreatedAt: time.Now().UTC(),
		Metadata:  map[string]any{},
	}
	for _, opt := range opts {
		opt(id)
	}
	return id
}

// Fingerprint returns a deterministic SHA-256 hex digest of the stable
// identity fields. Two agents with the same name, version, framework, and
// model share a fingerprint regardless of agent ID or creation time.
func (id *Identity) Fingerprint() string {
	stable := struct {
		Framework string `json:"framework"`
		Model     string `json:"model"`
		Name      string `json:"name"`
		Version   string `json:"version"`
	}{
		Framework: id.Framework,
		Model:     id.Model,
		Name:      id.Name,
		Version:   id.Version,
	}
	// Struct fields marshal in declaration order; keeping them sorted gives
	// a canonical byte representation.
	canonical, err := json.Marshal(stable)
	if err != nil {
		// Marshalling four strings cannot fail.
		panic(fmt.Sprintf("identity: fingerprint marshal: %v", err))
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:])
}

func (id *Identity) String() string {
	return fmt.Sprintf("%s@%s (%s)", id.Name, id.Version, id.AgentID)
}
