package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/voxengine/voxengine/internal/engine"
	"github.com/voxengine/voxengine/internal/project"
	"github.com/voxengine/voxengine/internal/queue"
	"github.com/voxengine/voxengine/internal/task"
	"github.com/voxengine/voxengine/internal/voxerr"
	"github.com/voxengine/voxengine/internal/xfs"
)

// SceneLine is one scripted line in a scene file
// (script/<scene_id>.json).
type SceneLine struct {
	Character string `json:"character"`
	Text      string `json:"text"`
}

// RenderService renders whole scenes asynchronously, one audio file per
// scripted line.
type RenderService struct {
	engine *engine.Engine
	queue  *queue.Queue
	cast   *project.CastManager
	pool   *task.Pool
	log    *slog.Logger
}

// NewRenderService creates the async render service.
func NewRenderService(eng *engine.Engine, q *queue.Queue, cast *project.CastManager, pool *task.Pool, log *slog.Logger) *RenderService {
	if log == nil {
		log = slog.Default()
	}

	return &RenderService{
		engine: eng,
		queue:  q,
		cast:   cast,
		pool:   pool,
		log:    log,
	}
}

// RenderSceneAsync creates a job and schedules the scene render. voiceMap
// assigns a registered cast voice to each character.
func (s *RenderService) RenderSceneAsync(projectPath, sceneID string, voiceMap map[string]string, backend string) (string, error) {
	job := s.queue.Create()

	err := s.pool.Submit(
		func() { s.run(job.ID, projectPath, sceneID, voiceMap, backend) },
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

func (s *RenderService) run(jobID, projectPath, sceneID string, voiceMap map[string]string, backend string) {
	if err := s.queue.MarkRunning(jobID, fmt.Sprintf("rendering scene %s", sceneID)); err != nil {
		s.log.Error("Failed to mark job running", "job_id", jobID, "error", err)
		return
	}

	artifacts, err := s.renderScene(jobID, projectPath, sceneID, voiceMap, backend)
	if err != nil {
		s.markError(jobID, err.Error())
		return
	}

	if err := s.queue.MarkDone(jobID, artifacts); err != nil {
		s.log.Error("Failed to mark job done", "job_id", jobID, "error", err)
	}
}

func (s *RenderService) renderScene(jobID, projectPath, sceneID string, voiceMap map[string]string, backend string) (map[string]string, error) {
	if err := project.Validate(projectPath); err != nil {
		return nil, err
	}

	_ = s.queue.SetProgress(jobID, 0.1, "loading scene")

	lines, err := loadScene(projectPath, sceneID)
	if err != nil {
		return nil, err
	}

	// Resolve every voice before rendering anything, so a bad mapping fails
	// fast without partial output.
	voices := make(map[string]*project.VoiceRef, len(voiceMap))
	for character, voiceID := range voiceMap {
		ref, err := s.cast.LoadVoiceRef(projectPath, voiceID)
		if err != nil {
			return nil, err
		}
		voices[character] = ref
	}

	renderDir := filepath.Join(projectPath, "renders", sceneID)
	if err := xfs.EnsureDir(renderDir); err != nil {
		return nil, err
	}

	artifacts := map[string]string{"render_dir": renderDir}
	for i, line := range lines {
		ref, ok := voices[line.Character]
		if !ok {
			return nil, voxerr.InvalidInput(
				"scene %s line %d: no voice mapped for character %q", sceneID, i+1, line.Character)
		}

		outPath := filepath.Join(renderDir, fmt.Sprintf("line-%03d.wav", i+1))
		result, err := s.engine.Synthesize(context.Background(), engine.SpeakRequest{
			Text:       line.Text,
			Backend:    backend,
			OutputPath: outPath,
			Voice:      ref.VoiceID,
			Format:     "wav",
		})
		if err != nil {
			return nil, fmt.Errorf("scene %s line %d: %w", sceneID, i+1, err)
		}

		artifacts[fmt.Sprintf("line_%03d", i+1)] = result.AudioPath

		progress := 0.1 + 0.9*float64(i+1)/float64(len(lines))
		_ = s.queue.SetProgress(jobID, progress,
			fmt.Sprintf("rendered line %d/%d", i+1, len(lines)))
	}

	return artifacts, nil
}

// loadScene reads script/<scene_id>.json from the project.
func loadScene(projectPath, sceneID string) ([]SceneLine, error) {
	path := filepath.Join(projectPath, "script", sceneID+".json")

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, voxerr.InvalidInput("scene %q not found in %s", sceneID, projectPath)
		}
		return nil, voxerr.Internal("failed to read scene file", err)
	}

	var lines []SceneLine
	if err := json.Unmarshal(data, &lines); err != nil {
		return nil, voxerr.InvalidInput("scene %q is not a valid scene file: %v", sceneID, err)
	}

	if len(lines) == 0 {
		return nil, voxerr.InvalidInput("scene %q has no lines", sceneID)
	}

	return lines, nil
}

func (s *RenderService) markError(jobID, detail string) {
	if err := s.queue.MarkError(jobID, detail); err != nil {
		s.log.Error("Failed to mark job errored", "job_id", jobID, "error", err)
	}
}
