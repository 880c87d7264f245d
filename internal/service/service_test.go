package service

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voxengine/voxengine/internal/adapter"
	"github.com/voxengine/voxengine/internal/adapter/beep"
	"github.com/voxengine/voxengine/internal/config"
	"github.com/voxengine/voxengine/internal/engine"
	"github.com/voxengine/voxengine/internal/policy"
	"github.com/voxengine/voxengine/internal/project"
	"github.com/voxengine/voxengine/internal/queue"
	"github.com/voxengine/voxengine/internal/task"
)

func newTestDeps(t *testing.T) (*engine.Engine, *queue.Queue, *task.Pool, *slog.Logger) {
	t.Helper()

	cfg := &config.Config{
		CacheDir:       filepath.Join(t.TempDir(), "cache"),
		ModelsDir:      filepath.Join(t.TempDir(), "models"),
		DefaultBackend: "beep",
	}

	registry := adapter.NewRegistry()
	registry.Register(beep.New())

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	eng, err := engine.New(cfg, registry, policy.NewGate(), log)
	require.NoError(t, err)

	pool, err := task.NewPool(2, log)
	require.NoError(t, err)
	t.Cleanup(pool.Release)

	return eng, queue.New(), pool, log
}

// waitForTerminal polls until the job leaves the queued/running states.
func waitForTerminal(t *testing.T, q *queue.Queue, jobID string) queue.Job {
	t.Helper()

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		job, err := q.Get(jobID)
		require.NoError(t, err)

		if job.Status == queue.StatusDone || job.Status == queue.StatusError {
			return job
		}
		time.Sleep(10 * time.Millisecond)
	}

	t.Fatal("job never reached a terminal state")
	return queue.Job{}
}

func TestSpeakAsyncCompletes(t *testing.T) {
	eng, q, pool, log := newTestDeps(t)
	svc := NewSpeakService(eng, q, pool, log)

	jobID, err := svc.SpeakAsync(engine.SpeakRequest{Text: "hello", Backend: "beep"})
	require.NoError(t, err)
	require.NotEmpty(t, jobID)

	job := waitForTerminal(t, q, jobID)
	assert.Equal(t, queue.StatusDone, job.Status)
	assert.Equal(t, 1.0, job.Progress)
	assert.FileExists(t, job.Artifacts["audio_path"])
	assert.FileExists(t, job.Artifacts["meta_path"])
}

func TestSpeakAsyncRecordsFailure(t *testing.T) {
	eng, q, pool, log := newTestDeps(t)
	svc := NewSpeakService(eng, q, pool, log)

	jobID, err := svc.SpeakAsync(engine.SpeakRequest{Text: "", Backend: "beep"})
	require.NoError(t, err)

	job := waitForTerminal(t, q, jobID)
	assert.Equal(t, queue.StatusError, job.Status)
	assert.Contains(t, job.Detail, "text must not be empty")
}

func TestSpeakAsyncUnknownBackend(t *testing.T) {
	eng, q, pool, log := newTestDeps(t)
	svc := NewSpeakService(eng, q, pool, log)

	jobID, err := svc.SpeakAsync(engine.SpeakRequest{Text: "hello", Backend: "nope"})
	require.NoError(t, err)

	job := waitForTerminal(t, q, jobID)
	assert.Equal(t, queue.StatusError, job.Status)
	assert.Contains(t, job.Detail, "unknown TTS backend")
}

func scaffoldRenderProject(t *testing.T, lines []SceneLine) (string, map[string]string) {
	t.Helper()

	projectPath := filepath.Join(t.TempDir(), "proj")
	require.NoError(t, project.Scaffold(projectPath))

	refWAV := filepath.Join(t.TempDir(), "ref.wav")
	require.NoError(t, os.WriteFile(refWAV, []byte("RIFF"), 0o644))

	cast := project.NewCastManager()
	voiceID, err := cast.Register(projectPath, "Alex Reed", refWAV, nil)
	require.NoError(t, err)

	data, err := json.Marshal(lines)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(
		filepath.Join(projectPath, "script", "scene1.json"), data, 0o644))

	voiceMap := map[string]string{}
	for _, line := range lines {
		voiceMap[line.Character] = voiceID
	}

	return projectPath, voiceMap
}

func TestRenderSceneAsyncCompletes(t *testing.T) {
	eng, q, pool, log := newTestDeps(t)
	svc := NewRenderService(eng, q, project.NewCastManager(), pool, log)

	projectPath, voiceMap := scaffoldRenderProject(t, []SceneLine{
		{Character: "narrator", Text: "Once upon a time."},
		{Character: "narrator", Text: "The end."},
	})

	jobID, err := svc.RenderSceneAsync(projectPath, "scene1", voiceMap, "beep")
	require.NoError(t, err)

	job := waitForTerminal(t, q, jobID)
	require.Equal(t, queue.StatusDone, job.Status, "detail: %s", job.Detail)

	renderDir := filepath.Join(projectPath, "renders", "scene1")
	assert.Equal(t, renderDir, job.Artifacts["render_dir"])
	assert.Equal(t, filepath.Join(renderDir, "line-001.wav"), job.Artifacts["line_001"])
	assert.Equal(t, filepath.Join(renderDir, "line-002.wav"), job.Artifacts["line_002"])
	assert.FileExists(t, job.Artifacts["line_001"])
	assert.FileExists(t, job.Artifacts["line_002"])
}

func TestRenderSceneAsyncMissingScene(t *testing.T) {
	eng, q, pool, log := newTestDeps(t)
	svc := NewRenderService(eng, q, project.NewCastManager(), pool, log)

	projectPath, voiceMap := scaffoldRenderProject(t, []SceneLine{
		{Character: "narrator", Text: "hi"},
	})

	jobID, err := svc.RenderSceneAsync(projectPath, "no-such-scene", voiceMap, "beep")
	require.NoError(t, err)

	job := waitForTerminal(t, q, jobID)
	assert.Equal(t, queue.StatusError, job.Status)
	assert.Contains(t, job.Detail, "no-such-scene")
}

func TestRenderSceneAsyncUnmappedCharacter(t *testing.T) {
	eng, q, pool, log := newTestDeps(t)
	svc := NewRenderService(eng, q, project.NewCastManager(), pool, log)

	projectPath, _ := scaffoldRenderProject(t, []SceneLine{
		{Character: "narrator", Text: "hi"},
	})

	jobID, err := svc.RenderSceneAsync(projectPath, "scene1", map[string]string{}, "beep")
	require.NoError(t, err)

	job := waitForTerminal(t, q, jobID)
	assert.Equal(t, queue.StatusError, job.Status)
	assert.Contains(t, job.Detail, "no voice mapped")
}

func TestRenderSceneAsyncUnknownVoice(t *testing.T) {
	eng, q, pool, log := newTestDeps(t)
	svc := NewRenderService(eng, q, project.NewCastManager(), pool, log)

	projectPath, _ := scaffoldRenderProject(t, []SceneLine{
		{Character: "narrator", Text: "hi"},
	})

	jobID, err := svc.RenderSceneAsync(projectPath, "scene1",
		map[string]string{"narrator": "ghost-voice"}, "beep")
	require.NoError(t, err)

	job := waitForTerminal(t, q, jobID)
	assert.Equal(t, queue.StatusError, job.Status)
	assert.Contains(t, job.Detail, "ghost-voice")
}
