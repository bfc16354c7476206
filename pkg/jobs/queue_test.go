package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueEnqueueBeforeStart(t *testing.T) {
	q := NewQueue("sync", func(context.Context, Job) error { return nil }, QueueConfig{})
	assert.Error(t, q.Enqueue(Job{ID: "1"}))
}

func TestQueueProcessesJobs(t *testing.T) {
	done := make(chan string, 2)
	q := NewQueue("sync", func(_ context.Context, job Job) error {
		done <- job.ID
		return nil
	}, QueueConfig{Workers: 2})
	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.Enqueue(Job{ID: "a"}))
	require.NoError(t, q.Enqueue(Job{ID: "b"}))

	got := map[string]bool{}
	for i := 0; i < 2; i++ {
		select {
		case id := <-done:
			got[id] = true
		case <-time.After(2 * time.Second):
			t.Fatal("job not processed")
		}
	}
	assert.True(t, got["a"] && got["b"])
}

func TestQueueRetriesFailedJob(t *testing.T) {
	var calls int32
	done := make(chan int, 1)
	q := NewQueue("sync", func(_ context.Context, job Job) error {
		if atomic.AddInt32(&calls, 1) == 1 {
			return errors.New("transient")
		}
		done <- job.Attempt
		return nil
	}, QueueConfig{RetryDelay: 10 * time.Millisecond})
	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.Enqueue(Job{ID: "retry"}))
	select {
	case attempt := <-done:
		assert.Equal(t, 1, attempt)
	case <-time.After(2 * time.Second):
		t.Fatal("job not retried")
	}
}

func TestQueueCoalescesWaitingKeys(t *testing.T) {
	release := make(chan struct{})
	var calls int32
	q := NewQueue("sync", func(_ context.Context, job Job) error {
		<-release
		atomic.AddInt32(&calls, 1)
		return nil
	}, QueueConfig{Workers: 1, BufferSize: 8})

	q.mu.Lock()
	q.started = true
	q.ctx, q.cancel = context.WithCancel(context.Background())
	q.mu.Unlock()

	require.NoError(t, q.Enqueue(Job{ID: "1", Key: "nomenclatures"}))
	require.NoError(t, q.Enqueue(Job{ID: "2", Key: "nomenclatures"}))
	require.NoError(t, q.Enqueue(Job{ID: "3"}))
	assert.Equal(t, 2, q.Pending())

	q.cancel()
	close(release)
}
