package queue

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAndGet(t *testing.T) {
	q := New()

	job := q.Create()
	assert.NotEmpty(t, job.ID)
	assert.Equal(t, StatusQueued, job.Status)
	assert.Equal(t, 0.0, job.Progress)
	assert.NotNil(t, job.Artifacts)
	assert.False(t, job.CreatedAt.IsZero())

	got, err := q.Get(job.ID)
	require.NoError(t, err)
	assert.Equal(t, job.ID, got.ID)
}

func TestGetUnknownID(t *testing.T) {
	q := New()

	_, err := q.Get("nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMutationsOnUnknownID(t *testing.T) {
	q := New()

	assert.ErrorIs(t, q.MarkRunning("nope", ""), ErrNotFound)
	assert.ErrorIs(t, q.SetProgress("nope", 0.5, ""), ErrNotFound)
	assert.ErrorIs(t, q.MarkDone("nope", nil), ErrNotFound)
	assert.ErrorIs(t, q.MarkError("nope", "boom"), ErrNotFound)
}

func TestHappyPathLifecycle(t *testing.T) {
	q := New()
	job := q.Create()

	require.NoError(t, q.MarkRunning(job.ID, "synthesizing"))
	require.NoError(t, q.SetProgress(job.ID, 0.5, "halfway"))
	require.NoError(t, q.MarkDone(job.ID, map[string]string{"audio_path": "/tmp/a.wav"}))

	got, err := q.Get(job.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusDone, got.Status)
	assert.Equal(t, 1.0, got.Progress)
	assert.Equal(t, "halfway", got.Detail)
	assert.Equal(t, "/tmp/a.wav", got.Artifacts["audio_path"])
}

func TestMarkDoneMergesArtifacts(t *testing.T) {
	q := New()
	job := q.Create()

	require.NoError(t, q.MarkRunning(job.ID, ""))
	require.NoError(t, q.MarkDone(job.ID, map[string]string{"a": "1"}))

	// A second terminal write is rejected and the artifacts stay intact.
	assert.ErrorIs(t, q.MarkDone(job.ID, map[string]string{"b": "2"}), ErrInvalidTransition)

	got, err := q.Get(job.ID)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a": "1"}, got.Artifacts)
}

func TestTerminalStatesAreFinal(t *testing.T) {
	q := New()

	job := q.Create()
	require.NoError(t, q.MarkRunning(job.ID, ""))
	require.NoError(t, q.MarkError(job.ID, "adapter crashed"))

	assert.ErrorIs(t, q.MarkRunning(job.ID, ""), ErrInvalidTransition)
	assert.ErrorIs(t, q.SetProgress(job.ID, 0.9, ""), ErrInvalidTransition)
	assert.ErrorIs(t, q.MarkDone(job.ID, nil), ErrInvalidTransition)
	assert.ErrorIs(t, q.MarkError(job.ID, "again"), ErrInvalidTransition)

	got, err := q.Get(job.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusError, got.Status)
	assert.Equal(t, "adapter crashed", got.Detail)
}

func TestDoneRequiresRunning(t *testing.T) {
	q := New()
	job := q.Create()

	// A queued job cannot jump straight to done.
	assert.ErrorIs(t, q.MarkDone(job.ID, nil), ErrInvalidTransition)

	got, err := q.Get(job.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusQueued, got.Status)
}

func TestErrorAllowedBeforeRunning(t *testing.T) {
	q := New()
	job := q.Create()

	// Submission failures terminate jobs that never started.
	require.NoError(t, q.MarkError(job.ID, "worker pool rejected the task"))

	got, err := q.Get(job.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusError, got.Status)
}

func TestRunningRequiredForProgress(t *testing.T) {
	q := New()
	job := q.Create()

	assert.ErrorIs(t, q.SetProgress(job.ID, 0.5, ""), ErrInvalidTransition)
}

func TestSnapshotIsolation(t *testing.T) {
	q := New()
	job := q.Create()

	snap, err := q.Get(job.ID)
	require.NoError(t, err)
	snap.Artifacts["tampered"] = "yes"

	fresh, err := q.Get(job.ID)
	require.NoError(t, err)
	assert.Empty(t, fresh.Artifacts)
}

func TestConcurrentJobsDoNotInterfere(t *testing.T) {
	q := New()

	const n = 50
	ids := make([]string, n)
	for i := range n {
		ids[i] = q.Create().ID
	}

	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_ = q.MarkRunning(id, "")
			_ = q.SetProgress(id, 0.5, "")
			_ = q.MarkDone(id, map[string]string{"id": id})
		}(ids[i])
	}
	wg.Wait()

	for _, id := range ids {
		job, err := q.Get(id)
		require.NoError(t, err)
		assert.Equal(t, StatusDone, job.Status)
		assert.Equal(t, id, job.Artifacts["id"])
	}
}
