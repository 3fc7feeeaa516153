// Package worker provides background jobs for the pool chemistry service.
package worker

import (
	"time"
)

// RefreshConfig holds configuration for the data sheet refresh job.
type RefreshConfig struct {
	// ChemicalIDs are the data sheets to keep warm.
	// If empty, every chemical in the safety store is refreshed.
	ChemicalIDs []string

	// Concurrency is the number of concurrent refresh operations.
	// Default: 3
	Concurrency int

	// Timeout is the timeout for each refresh operation.
	// Default: 30 seconds
	Timeout time.Duration
}

// DefaultRefreshConfig returns the default refresh configuration.
func DefaultRefreshConfig() RefreshConfig {
	return RefreshConfig{
		Concurrency: 3,
		Timeout:     30 * time.Second,
	}
}
