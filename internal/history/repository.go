package history

import "context"

// ListOptions narrows a reading listing.
type ListOptions struct {
	// Customer filters to one customer label when set.
	Customer string

	// Days keeps readings recorded within the last N days. Zero means no
	// cutoff.
	Days int

	// Limit caps the number of readings returned. Zero means
	// DefaultListLimit.
	Limit int
}

// Repository defines the interface for reading persistence.
type Repository interface {
	// Create stores a new reading.
	Create(ctx context.Context, r *Reading) error

	// Get retrieves a reading by ID. Returns ErrReadingNotFound if absent.
	Get(ctx context.Context, id string) (*Reading, error)

	// List retrieves readings newest first.
	List(ctx context.Context, opts ListOptions) ([]*Reading, error)

	// Delete removes a reading by ID. Returns ErrReadingNotFound if absent.
	Delete(ctx context.Context, id string) error

	// Count returns the number of stored readings.
	Count(ctx context.Context) (int, error)
}
