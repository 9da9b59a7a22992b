package inmemory

import (
	"context"
	"testing"
	"time"

	"github.com/mxfin-tools/tpv-analyzer/internal/jobs"
)

func TestStoreSaveAndGet(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	job := &jobs.AnalyzeStatementsJob{JobID: "j1", Status: jobs.JobStatusPending}
	if err := s.SaveJob(ctx, job); err != nil {
		t.Fatalf("SaveJob: %v", err)
	}

	got, err := s.GetJob(ctx, "j1")
	if err != nil {
		t.Fatalf("GetJob: %v", err)
	}
	if got.Status != jobs.JobStatusPending {
		t.Errorf("status = %q", got.Status)
	}

	// Returned copy must not alias the stored job.
	got.Status = jobs.JobStatusFailed
	again, _ := s.GetJob(ctx, "j1")
	if again.Status != jobs.JobStatusPending {
		t.Error("GetJob must return a copy")
	}
}

func TestStoreGetMissing(t *testing.T) {
	s := NewStore()
	if _, err := s.GetJob(context.Background(), "nope"); err == nil {
		t.Error("expected error for unknown job")
	}
}

func TestStoreRetention(t *testing.T) {
	s := NewStoreWithRetention(time.Hour)
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	now := base
	s.now = func() time.Time { return now }

	old := base.Add(-2 * time.Hour)
	fresh := base.Add(-10 * time.Minute)
	running := &jobs.AnalyzeStatementsJob{JobID: "running", Status: jobs.JobStatusRunning}
	done := &jobs.AnalyzeStatementsJob{JobID: "done", Status: jobs.JobStatusCompleted, CompletedAt: &fresh}
	stale := &jobs.AnalyzeStatementsJob{JobID: "stale", Status: jobs.JobStatusCompleted, CompletedAt: &old}
	for _, j := range []*jobs.AnalyzeStatementsJob{running, done, stale} {
		if err := s.SaveJob(ctx, j); err != nil {
			t.Fatalf("SaveJob(%s): %v", j.JobID, err)
		}
	}

	if _, err := s.GetJob(ctx, "stale"); err == nil {
		t.Error("job past retention must read as not found")
	}
	if _, err := s.GetJob(ctx, "done"); err != nil {
		t.Errorf("fresh result purged early: %v", err)
	}

	// An unfinished job never expires, no matter how old.
	now = base.Add(48 * time.Hour)
	if _, err := s.GetJob(ctx, "running"); err != nil {
		t.Errorf("running job must survive the retention window: %v", err)
	}

	list, err := s.ListJobs(ctx, jobs.JobFilter{})
	if err != nil {
		t.Fatalf("ListJobs: %v", err)
	}
	if len(list) != 1 || list[0].JobID != "running" {
		t.Errorf("ListJobs after expiry = %d entries, want only the running job", len(list))
	}
}
