package resilience

import (
	"sync"
	"time"

	"github.com/sony/gobreaker/v2"
)

// CollaboratorHealth is the reported condition of one external collaborator.
type CollaboratorHealth struct {
	// Name is the collaborator identifier.
	Name string

	// CircuitState is the current breaker state.
	CircuitState gobreaker.State

	// Counts contains breaker statistics.
	Counts gobreaker.Counts

	// LastSuccessAt is when the collaborator last answered successfully.
	LastSuccessAt *time.Time

	// LastFailureAt is when the collaborator last failed.
	LastFailureAt *time.Time

	// LastError is the most recent error message, if any.
	LastError string
}

// IsHealthy reports whether the breaker is closed.
func (h *CollaboratorHealth) IsHealthy() bool {
	return h.CircuitState == gobreaker.StateClosed
}

// IsDegraded reports whether the breaker is probing (half-open).
func (h *CollaboratorHealth) IsDegraded() bool {
	return h.CircuitState == gobreaker.StateHalfOpen
}

// IsUnhealthy reports whether the breaker is open.
func (h *CollaboratorHealth) IsUnhealthy() bool {
	return h.CircuitState == gobreaker.StateOpen
}

// Registry tracks resilient clients so the ops endpoints can report the
// condition of every external collaborator. Construct one per process and
// pass it where needed.
type Registry struct {
	mu      sync.RWMutex
	clients map[string]*registeredClient
}

type registeredClient struct {
	client        *Client
	lastSuccessAt *time.Time
	lastFailureAt *time.Time
	lastError     string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		clients: make(map[string]*registeredClient),
	}
}

// Register adds a client under the given collaborator name.
func (r *Registry) Register(name string, client *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clients[name] = &registeredClient{
		client: client,
	}
}

// Unregister removes a collaborator.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.clients, name)
}

// RecordSuccess notes a successful call to a collaborator.
func (r *Registry) RecordSuccess(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.clients[name]; ok {
		now := time.Now()
		c.lastSuccessAt = &now
	}
}

// RecordFailure notes a failed call to a collaborator.
func (r *Registry) RecordFailure(name string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.clients[name]; ok {
		now := time.Now()
		c.lastFailureAt = &now
		if err != nil {
			c.lastError = err.Error()
		}
	}
}

// Health returns the condition of one collaborator, or nil if unknown.
func (r *Registry) Health(name string) *CollaboratorHealth {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.clients[name]
	if !ok {
		return nil
	}

	return &CollaboratorHealth{
		Name:          name,
		CircuitState:  c.client.BreakerState(),
		Counts:        c.client.BreakerCounts(),
		LastSuccessAt: c.lastSuccessAt,
		LastFailureAt: c.lastFailureAt,
		LastError:     c.lastError,
	}
}

// AllHealth returns the condition of every registered collaborator.
func (r *Registry) AllHealth() []*CollaboratorHealth {
	r.mu.RLock()
	defer r.mu.RUnlock()

	health := make([]*CollaboratorHealth, 0, len(r.clients))
	for name, c := range r.clients {
		health = append(health, &CollaboratorHealth{
			Name:          name,
			CircuitState:  c.client.BreakerState(),
			Counts:        c.client.BreakerCounts(),
			LastSuccessAt: c.lastSuccessAt,
			LastFailureAt: c.lastFailureAt,
			LastError:     c.lastError,
		})
	}

	return health
}

// Names returns the registered collaborator names.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.clients))
	for name := range r.clients {
		names = append(names, name)
	}
	return names
}

// Count returns the number of registered collaborators.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clients)
}
