package worker

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/deepbluepool/poolchem/internal/safety"
)

// RefreshJob re-fetches remote chemical data sheets so the safety cache stays
// warm. A warm cache keeps provider outages inside the stale-if-error window,
// where the service can still answer from recently fetched data.
type RefreshJob struct {
	config RefreshConfig
	logger zerolog.Logger
	safety *safety.Service

	metrics *RefreshMetrics
}

// RefreshMetrics tracks refresh job statistics.
type RefreshMetrics struct {
	mu sync.RWMutex

	// Counters
	TotalRuns        int64
	SuccessfulSheets int64
	FailedSheets     int64

	// Timings
	LastRunAt       time.Time
	LastRunDuration time.Duration
	TotalDuration   time.Duration
}

// RefreshJobConfig holds configuration for creating a RefreshJob.
type RefreshJobConfig struct {
	Config RefreshConfig
	Logger zerolog.Logger
	Safety *safety.Service
}

// NewRefreshJob creates a new refresh job processor.
func NewRefreshJob(cfg RefreshJobConfig) *RefreshJob {
	config := cfg.Config
	defaults := DefaultRefreshConfig()
	if config.Concurrency <= 0 {
		config.Concurrency = defaults.Concurrency
	}
	if config.Timeout <= 0 {
		config.Timeout = defaults.Timeout
	}

	return &RefreshJob{
		config:  config,
		logger:  cfg.Logger,
		safety:  cfg.Safety,
		metrics: &RefreshMetrics{},
	}
}

// RefreshResult contains the result of one refresh run.
type RefreshResult struct {
	StartTime   time.Time
	EndTime     time.Time
	Duration    time.Duration
	TotalSheets int
	Successful  int
	Failed      int
	Errors      []RefreshError
}

// RefreshError represents an error during refresh.
type RefreshError struct {
	ChemicalID string
	Error      string
}

// Run executes the refresh job once over all configured data sheets.
func (j *RefreshJob) Run(ctx context.Context) *RefreshResult {
	startTime := time.Now()

	ids := j.sheetIDs()
	result := &RefreshResult{
		StartTime:   startTime,
		TotalSheets: len(ids),
	}

	j.logger.Info().
		Int("total_sheets", result.TotalSheets).
		Int("concurrency", j.config.Concurrency).
		Msg("starting data sheet refresh job")

	// Create work channels
	idsChan := make(chan string, len(ids))
	resultsChan := make(chan sheetResult, len(ids))

	// Start workers
	var wg sync.WaitGroup
	for i := 0; i < j.config.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			j.refreshWorker(ctx, idsChan, resultsChan)
		}()
	}

	// Send ids to workers
	for _, id := range ids {
		idsChan <- id
	}
	close(idsChan)

	// Wait for workers to complete
	go func() {
		wg.Wait()
		close(resultsChan)
	}()

	// Collect results
	for sr := range resultsChan {
		if sr.err == nil {
			result.Successful++
		} else {
			result.Failed++
			result.Errors = append(result.Errors, RefreshError{
				ChemicalID: sr.id,
				Error:      sr.err.Error(),
			})
		}
	}

	result.EndTime = time.Now()
	result.Duration = result.EndTime.Sub(startTime)

	// Update metrics
	j.updateMetrics(result)

	j.logger.Info().
		Dur("duration", result.Duration).
		Int("successful", result.Successful).
		Int("failed", result.Failed).
		Msg("data sheet refresh job completed")

	return result
}

// sheetIDs resolves the chemical ids this run covers.
func (j *RefreshJob) sheetIDs() []string {
	if len(j.config.ChemicalIDs) > 0 {
		return j.config.ChemicalIDs
	}
	if j.safety == nil {
		return nil
	}

	chemicals := j.safety.ListChemicals()
	ids := make([]string, 0, len(chemicals))
	for _, c := range chemicals {
		ids = append(ids, c.ID)
	}
	return ids
}

type sheetResult struct {
	id  string
	err error
}

func (j *RefreshJob) refreshWorker(ctx context.Context, ids <-chan string, results chan<- sheetResult) {
	for id := range ids {
		select {
		case <-ctx.Done():
			return
		default:
			results <- sheetResult{id: id, err: j.refreshSheet(ctx, id)}
		}
	}
}

func (j *RefreshJob) refreshSheet(ctx context.Context, id string) error {
	if j.safety == nil {
		return nil
	}

	sheetCtx, cancel := context.WithTimeout(ctx, j.config.Timeout)
	defer cancel()

	return j.safety.RefreshChemical(sheetCtx, id)
}

func (j *RefreshJob) updateMetrics(result *RefreshResult) {
	j.metrics.mu.Lock()
	defer j.metrics.mu.Unlock()

	j.metrics.TotalRuns++
	j.metrics.SuccessfulSheets += int64(result.Successful)
	j.metrics.FailedSheets += int64(result.Failed)
	j.metrics.LastRunAt = result.EndTime
	j.metrics.LastRunDuration = result.Duration
	j.metrics.TotalDuration += result.Duration
}

// GetMetrics returns a copy of the current metrics.
func (j *RefreshJob) GetMetrics() RefreshMetrics {
	j.metrics.mu.RLock()
	defer j.metrics.mu.RUnlock()

	return RefreshMetrics{
		TotalRuns:        j.metrics.TotalRuns,
		SuccessfulSheets: j.metrics.SuccessfulSheets,
		FailedSheets:     j.metrics.FailedSheets,
		LastRunAt:        j.metrics.LastRunAt,
		LastRunDuration:  j.metrics.LastRunDuration,
		TotalDuration:    j.metrics.TotalDuration,
	}
}

// MetricsSnapshot returns a snapshot of the current metrics as a map.
func (j *RefreshJob) MetricsSnapshot() map[string]interface{} {
	m := j.GetMetrics()
	return map[string]interface{}{
		"total_runs":        m.TotalRuns,
		"successful_sheets": m.SuccessfulSheets,
		"failed_sheets":     m.FailedSheets,
		"last_run_at":       m.LastRunAt,
		"last_run_duration": m.LastRunDuration.String(),
		"total_duration":    m.TotalDuration.String(),
	}
}
