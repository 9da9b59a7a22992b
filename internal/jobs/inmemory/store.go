package inmemory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mxfin-tools/tpv-analyzer/internal/jobs"
)

// DefaultRetention is how long finished jobs and their results stay readable.
const DefaultRetention = 24 * time.Hour

// Store is an in-memory implementation of JobStore.
// It stores jobs in memory and is safe for concurrent use. Finished jobs are
// purged lazily once they age past the retention window, so document analysis
// results never accumulate unboundedly. Data is lost on service restart - for
// persistence, use a database-backed store.
type Store struct {
	mu        sync.RWMutex
	jobs      map[string]*jobs.AnalyzeStatementsJob
	retention time.Duration
	now       func() time.Time
}

// NewStore creates a new in-memory job store with the default retention.
func NewStore() *Store {
	return NewStoreWithRetention(DefaultRetention)
}

// NewStoreWithRetention creates a store that forgets finished jobs after ttl.
func NewStoreWithRetention(ttl time.Duration) *Store {
	return &Store{
		jobs:      make(map[string]*jobs.AnalyzeStatementsJob),
		retention: ttl,
		now:       time.Now,
	}
}

// SaveJob implements the JobStore interface.
// It saves or updates a job in memory.
func (s *Store) SaveJob(ctx context.Context, job *jobs.AnalyzeStatementsJob) error {
	if job.JobID == "" {
		return fmt.Errorf("job ID is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.purgeLocked()

	// Create a copy to avoid external modifications
	jobCopy := *job
	s.jobs[job.JobID] = &jobCopy

	return nil
}

// GetJob implements the JobStore interface.
// It retrieves a job by ID from memory.
func (s *Store) GetJob(ctx context.Context, jobID string) (*jobs.AnalyzeStatementsJob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	job, exists := s.jobs[jobID]
	if !exists || s.expired(job) {
		return nil, fmt.Errorf("job not found: %s", jobID)
	}

	// Return a copy to avoid external modifications
	jobCopy := *job
	return &jobCopy, nil
}

// ListJobs implements the JobStore interface.
// It retrieves jobs with optional filtering from memory.
func (s *Store) ListJobs(ctx context.Context, filter jobs.JobFilter) ([]*jobs.AnalyzeStatementsJob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*jobs.AnalyzeStatementsJob

	for _, job := range s.jobs {
		if s.expired(job) {
			continue
		}
		if filter.Status != "" && job.Status != filter.Status {
			continue
		}

		// Create a copy to avoid external modifications
		jobCopy := *job
		result = append(result, &jobCopy)
	}

	if filter.Offset > 0 {
		if filter.Offset >= len(result) {
			return []*jobs.AnalyzeStatementsJob{}, nil
		}
		result = result[filter.Offset:]
	}

	if filter.Limit > 0 && filter.Limit < len(result) {
		result = result[:filter.Limit]
	}

	return result, nil
}

// UpdateJobStatus implements the JobStore interface.
// It updates the status of a job in memory.
func (s *Store) UpdateJobStatus(ctx context.Context, jobID string, status jobs.JobStatus, errorMsg string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, exists := s.jobs[jobID]
	if !exists {
		return fmt.Errorf("job not found: %s", jobID)
	}

	job.Status = status
	if errorMsg != "" {
		job.Error = errorMsg
	}

	return nil
}

// expired reports whether a finished job has aged past the retention window.
func (s *Store) expired(job *jobs.AnalyzeStatementsJob) bool {
	if s.retention <= 0 || job.CompletedAt == nil {
		return false
	}
	switch job.Status {
	case jobs.JobStatusCompleted, jobs.JobStatusFailed:
		return s.now().Sub(*job.CompletedAt) > s.retention
	default:
		return false
	}
}

// purgeLocked drops expired jobs. Caller holds the write lock.
func (s *Store) purgeLocked() {
	for id, job := range s.jobs {
		if s.expired(job) {
			delete(s.jobs, id)
		}
	}
}

// Ensure Store implements JobStore interface.
var _ jobs.JobStore = (*Store)(nil)
