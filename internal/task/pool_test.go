package task

import (
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPool(t *testing.T, size int) *Pool {
	t.Helper()

	pool, err := NewPool(size, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(pool.Release)

	return pool
}

func TestSubmitRunsTask(t *testing.T) {
	pool := newTestPool(t, 2)

	done := make(chan struct{})
	require.NoError(t, pool.Submit(func() { close(done) }, nil))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("task never ran")
	}
}

func TestSubmitRoutesPanicToHandler(t *testing.T) {
	pool := newTestPool(t, 1)

	recovered := make(chan any, 1)
	require.NoError(t, pool.Submit(
		func() { panic("boom") },
		func(r any) { recovered <- r },
	))

	select {
	case r := <-recovered:
		assert.Equal(t, "boom", r)
	case <-time.After(2 * time.Second):
		t.Fatal("panic handler never ran")
	}
}

func TestPanicDoesNotKillWorker(t *testing.T) {
	pool := newTestPool(t, 1)

	require.NoError(t, pool.Submit(func() { panic("first") }, func(any) {}))

	done := make(chan struct{})
	require.NoError(t, pool.Submit(func() { close(done) }, nil))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not survive the panic")
	}
}

func TestPoolRunsTasksConcurrently(t *testing.T) {
	pool := newTestPool(t, 4)

	var mu sync.Mutex
	seen := map[int]bool{}

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		require.NoError(t, pool.Submit(func() {
			defer wg.Done()
			mu.Lock()
			seen[i] = true
			mu.Unlock()
		}, nil))
	}
	wg.Wait()

	assert.Len(t, seen, 20)
}

func TestSubmitAfterRelease(t *testing.T) {
	pool, err := NewPool(1, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	pool.Release()

	assert.Error(t, pool.Submit(func() {}, nil))
}
