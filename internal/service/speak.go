// Package service provides the asynchronous wrappers around the engine:
// fire-and-forget speech jobs and project-scoped scene rendering, tracked
// through the job queue.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/voxengine/voxengine/internal/engine"
	"github.com/voxengine/voxengine/internal/queue"
	"github.com/voxengine/voxengine/internal/task"
)

// SpeakService runs engine synthesis on background workers.
type SpeakService struct {
	engine *engine.Engine
	queue  *queue.Queue
	pool   *task.Pool
	log    *slog.Logger
}

// NewSpeakService creates the async speech service.
func NewSpeakService(eng *engine.Engine, q *queue.Queue, pool *task.Pool, log *slog.Logger) *SpeakService {
	if log == nil {
		log = slog.Default()
	}

	return &SpeakService{
		engine: eng,
		queue:  q,
		pool:   pool,
		log:    log,
	}
}

// SpeakAsync creates a job and schedules the synthesis on a worker. The job
// id is returned immediately; callers poll the queue for completion.
func (s *SpeakService) SpeakAsync(req engine.SpeakRequest) (string, error) {
	job := s.queue.Create()

	err := s.pool.Submit(
		func() { s.run(job.ID, req) },
		func(recovered any) {
			s.markError(job.ID, fmt.Sprintf("task panicked: %v", recovered))
		},
	)
	if err != nil {
		s.markError(job.ID, err.Error())
		return "", err
	}

	return job.ID, nil
}

// run is the background task body. Every failure terminates in the job's
// error state; nothing propagates past this boundary.
func (s *SpeakService) run(jobID string, req engine.SpeakRequest) {
	if err := s.queue.MarkRunning(jobID, "synthesizing"); err != nil {
		s.log.Error("Failed to mark job running", "job_id", jobID, "error", err)
		return
	}

	result, err := s.engine.Synthesize(context.Background(), req)
	if err != nil {
		s.markError(jobID, err.Error())
		return
	}

	err = s.queue.MarkDone(jobID, map[string]string{
		"audio_path": result.AudioPath,
		"meta_path":  result.MetaPath,
	})
	if err != nil {
		s.log.Error("Failed to mark job done", "job_id", jobID, "error", err)
	}
}

func (s *SpeakService) markError(jobID, detail string) {
	if err := s.queue.MarkError(jobID, detail); err != nil {
		s.log.Error("Failed to mark job errored", "job_id", jobID, "error", err)
	}
}
