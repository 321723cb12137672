package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fhuszti/assets-ms-go/internal/port"
	"github.com/fhuszti/assets-ms-go/internal/task"
	"github.com/fhuszti/assets-ms-go/internal/uuid"
)

// newIdleQueue returns a queue nobody consumes, so enqueued jobs stay pending.
func newIdleQueue(t *testing.T) *task.Queue {
	t.Helper()
	name := fmt.Sprintf("it_%d", time.Now().UnixNano())
	q := task.NewQueue(asynq.RedisClientOpt{Addr: GlobalRedisAddr}, name, 3)
	t.Cleanup(func() { _ = q.Close() })
	return q
}

func TestQueue_DedupReplacesPendingJob(t *testing.T) {
	q := newIdleQueue(t)
	ctx := context.Background()
	id := uuid.NewUUID()

	first, err := task.NewProcessAssetJob(port.ProcessAssetInput{AssetID: id})
	require.NoError(t, err)
	h1, err := q.Enqueue(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, port.EnqueueCreated, h1.Outcome)
	assert.Equal(t, id.String(), h1.ID)

	second, err := task.NewProcessAssetJob(port.ProcessAssetInput{AssetID: id, HasThumbnail: true})
	require.NoError(t, err)
	h2, err := q.Enqueue(ctx, second)
	require.NoError(t, err)
	assert.Equal(t, port.EnqueueReplaced, h2.Outcome)
	assert.Equal(t, h1.ID, h2.ID)

	st, err := q.Inspect(ctx, task.ProcessAssetKey(id.String()))
	require.NoError(t, err)
	assert.Equal(t, port.JobPending, st.Status)
	assert.Equal(t, task.TypeProcessAsset, st.TaskName)
}

func TestQueue_JobsWithoutKeyNeverCollide(t *testing.T) {
	q := newIdleQueue(t)
	ctx := context.Background()

	job, err := task.NewDeleteFilesJob(port.DeleteFilesInput{})
	require.NoError(t, err)
	h1, err := q.Enqueue(ctx, job)
	require.NoError(t, err)
	h2, err := q.Enqueue(ctx, job)
	require.NoError(t, err)

	assert.Equal(t, port.EnqueueCreated, h2.Outcome)
	assert.NotEqual(t, h1.ID, h2.ID)
}

func TestQueue_InspectUnknownAndEmptyDeadLetters(t *testing.T) {
	q := newIdleQueue(t)
	ctx := context.Background()

	st, err := q.Inspect(ctx, "missing")
	require.NoError(t, err)
	assert.Equal(t, port.JobUnknown, st.Status)

	dead, err := q.DeadLetters(ctx, 1, 20)
	require.NoError(t, err)
	assert.Empty(t, dead)
}
