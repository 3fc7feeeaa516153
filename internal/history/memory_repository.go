package history

import (
	"context"
	"sort"
	"sync"
	"time"
)

// InMemoryRepository is an in-memory implementation of Repository. It is the
// shipped store; a persistent implementation can replace it behind the same
// interface.
type InMemoryRepository struct {
	mu       sync.RWMutex
	readings map[string]*Reading
}

// NewInMemoryRepository creates a new in-memory reading repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		readings: make(map[string]*Reading),
	}
}

// Create stores a new reading.
func (r *InMemoryRepository) Create(_ context.Context, reading *Reading) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cpy := *reading
	r.readings[reading.ID] = &cpy
	return nil
}

// Get retrieves a reading by ID.
func (r *InMemoryRepository) Get(_ context.Context, id string) (*Reading, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	reading, ok := r.readings[id]
	if !ok {
		return nil, ErrReadingNotFound
	}

	cpy := *reading
	return &cpy, nil
}

// List retrieves readings newest first, filtered per opts.
func (r *InMemoryRepository) List(_ context.Context, opts ListOptions) ([]*Reading, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var cutoff time.Time
	if opts.Days > 0 {
		cutoff = time.Now().AddDate(0, 0, -opts.Days)
	}

	out := make([]*Reading, 0, len(r.readings))
	for _, reading := range r.readings {
		if opts.Customer != "" && reading.Customer != opts.Customer {
			continue
		}
		if !cutoff.IsZero() && reading.RecordedAt.Before(cutoff) {
			continue
		}
		cpy := *reading
		out = append(out, &cpy)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].RecordedAt.After(out[j].RecordedAt)
	})

	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if len(out) > limit {
		out = out[:limit]
	}

	return out, nil
}

// Delete removes a reading by ID.
func (r *InMemoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.readings[id]; !ok {
		return ErrReadingNotFound
	}

	delete(r.readings, id)
	return nil
}

// Count returns the number of stored readings.
func (r *InMemoryRepository) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.readings), nil
}

// Ensure InMemoryRepository implements Repository interface.
var _ Repository = (*InMemoryRepository)(nil)
