package task

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fhuszti/assets-ms-go/internal/port"
)

func TestQueue_DedupAgainstRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	opt := asynq.RedisClientOpt{Addr: mr.Addr()}
	q := NewQueue(opt, "assets", 3)
	t.Cleanup(func() { _ = q.Close() })
	ctx := context.Background()

	job := func(payload string) port.Job {
		return port.Job{TaskName: TypeProcessAsset, Payload: []byte(payload), DedupKey: "asset-1"}
	}

	first, err := q.Enqueue(ctx, job(`{"v":1}`))
	require.NoError(t, err)
	assert.Equal(t, port.EnqueueCreated, first.Outcome)

	second, err := q.Enqueue(ctx, job(`{"v":2}`))
	require.NoError(t, err)
	assert.Equal(t, port.EnqueueReplaced, second.Outcome)
	assert.Equal(t, first.ID, second.ID)

	var runs atomic.Int32
	started := make(chan string, 4)
	release := make(chan struct{})
	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeProcessAsset, func(_ context.Context, tk *asynq.Task) error {
		runs.Add(1)
		started <- string(tk.Payload())
		<-release
		return nil
	})

	srv := NewServer(opt, ServerConfig{Queue: "assets", Concurrency: 2, ShutdownTimeout: time.Second}, nil)
	require.NoError(t, srv.Start(mux))
	defer srv.Shutdown()

	select {
	case payload := <-started:
		assert.JSONEq(t, `{"v":2}`, payload)
	case <-time.After(10 * time.Second):
		close(release)
		t.Fatal("job never started")
	}

	third, err := q.Enqueue(ctx, job(`{"v":3}`))
	require.NoError(t, err)
	assert.Equal(t, port.EnqueueIgnored, third.Outcome)
	assert.Equal(t, first.ID, third.ID)

	assert.Never(t, func() bool { return runs.Load() > 1 }, 2*time.Second, 50*time.Millisecond)
	close(release)
}
