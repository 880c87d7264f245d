// Package queue tracks asynchronous render jobs in memory. The Queue is the
// single point of mutation for job state: background tasks hold only a job
// identity and go through the Queue's update operations.
package queue

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Error definitions for the queue package.
var (
	ErrNotFound          = errors.New("job not found")
	ErrInvalidTransition = errors.New("invalid job state transition")
)

// Status is a job lifecycle state.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusRunning Status = "running"
	StatusDone    Status = "done"
	StatusError   Status = "error"
)

// Job is an asynchronous unit of work. Jobs live for the process lifetime;
// there is no eviction.
type Job struct {
	ID        string            `json:"job_id"`
	Status    Status            `json:"status"`
	Progress  float64           `json:"progress"`
	Detail    string            `json:"detail,omitempty"`
	Artifacts map[string]string `json:"artifacts"`
	CreatedAt time.Time         `json:"created_at"`
}

// Queue is a concurrent-safe in-memory job table.
type Queue struct {
	jobs map[string]*Job
	mu   sync.Mutex
}

// New creates an empty queue.
func New() *Queue {
	return &Queue{
		jobs: make(map[string]*Job),
	}
}

// Create allocates a fresh job in status queued and returns a snapshot.
func (q *Queue) Create() Job {
	q.mu.Lock()
	defer q.mu.Unlock()

	job := &Job{
		ID:        uuid.NewString(),
		Status:    StatusQueued,
		Progress:  0.0,
		Artifacts: make(map[string]string),
		CreatedAt: time.Now().UTC(),
	}
	q.jobs[job.ID] = job

	return snapshot(job)
}

// Get returns a snapshot of the job. The returned record does not stay
// current; callers poll for updates.
func (q *Queue) Get(id string) (Job, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	job, ok := q.jobs[id]
	if !ok {
		return Job{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	return snapshot(job), nil
}

// MarkRunning transitions queued → running.
func (q *Queue) MarkRunning(id, detail string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	job, ok := q.jobs[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if job.Status != StatusQueued {
		return fmt.Errorf("%w: %s → running", ErrInvalidTransition, job.Status)
	}

	job.Status = StatusRunning
	if detail != "" {
		job.Detail = detail
	}

	return nil
}

// SetProgress updates progress (and optionally detail) on a running job.
func (q *Queue) SetProgress(id string, progress float64, detail string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	job, ok := q.jobs[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if job.Status != StatusRunning {
		return fmt.Errorf("%w: progress on %s job", ErrInvalidTransition, job.Status)
	}

	job.Progress = progress
	if detail != "" {
		job.Detail = detail
	}

	return nil
}

// MarkDone transitions running → done, merging the given artifacts into the
// existing map. A job cannot complete without having run.
func (q *Queue) MarkDone(id string, artifacts map[string]string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	job, ok := q.jobs[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if job.Status != StatusRunning {
		return fmt.Errorf("%w: %s → done", ErrInvalidTransition, job.Status)
	}

	job.Status = StatusDone
	job.Progress = 1.0
	for k, v := range artifacts {
		job.Artifacts[k] = v
	}

	return nil
}

// MarkError transitions the job to its terminal error state with the failure
// detail attached. Unlike MarkDone it also accepts queued jobs: a job can
// fail before a worker ever picks it up.
func (q *Queue) MarkError(id, detail string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	job, ok := q.jobs[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if job.Status == StatusDone || job.Status == StatusError {
		return fmt.Errorf("%w: %s → error", ErrInvalidTransition, job.Status)
	}

	job.Status = StatusError
	job.Detail = detail

	return nil
}

func snapshot(job *Job) Job {
	copied := *job
	copied.Artifacts = make(map[string]string, len(job.Artifacts))
	for k, v := range job.Artifacts {
		copied.Artifacts[k] = v
	}

	return copied
}
