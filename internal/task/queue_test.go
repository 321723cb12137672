package task

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fhuszti/assets-ms-go/internal/port"
)

type fakeEnqueuer struct {
	errs   []error
	calls  int
	tasks  []*asynq.Task
	taskID []string
	closed bool
}

func (f *fakeEnqueuer) EnqueueContext(_ context.Context, t *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	f.calls++
	f.tasks = append(f.tasks, t)
	id := "random-id"
	for _, o := range opts {
		if o.Type() == asynq.TaskIDOpt {
			id = o.Value().(string)
		}
	}
	f.taskID = append(f.taskID, id)
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		if err != nil {
			return nil, err
		}
	}
	return &asynq.TaskInfo{ID: id, Type: t.Type(), Queue: "assets", State: asynq.TaskStatePending}, nil
}

func (f *fakeEnqueuer) Close() error { f.closed = true; return nil }

type fakeInspector struct {
	info       *asynq.TaskInfo
	infoErr    error
	deleted    []string
	deleteErr  error
	archived   []*asynq.TaskInfo
	archiveErr error
	closeErr   error
}

func (f *fakeInspector) GetTaskInfo(_, _ string) (*asynq.TaskInfo, error) {
	return f.info, f.infoErr
}

func (f *fakeInspector) DeleteTask(_, id string) error {
	f.deleted = append(f.deleted, id)
	return f.deleteErr
}

func (f *fakeInspector) ListArchivedTasks(_ string, _ ...asynq.ListOption) ([]*asynq.TaskInfo, error) {
	return f.archived, f.archiveErr
}

func (f *fakeInspector) Close() error { return f.closeErr }

func newTestQueue(enq *fakeEnqueuer, insp *fakeInspector) *Queue {
	return &Queue{client: enq, inspector: insp, name: "assets", maxRetry: 5}
}

func TestQueueEnqueueWithoutDedupKey(t *testing.T) {
	enq := &fakeEnqueuer{}
	q := newTestQueue(enq, &fakeInspector{})

	h, err := q.Enqueue(context.Background(), port.Job{TaskName: TypeDeleteFileOnDisk, Payload: []byte(`{}`)})
	require.NoError(t, err)
	assert.Equal(t, port.EnqueueCreated, h.Outcome)
	assert.Equal(t, "random-id", h.ID)
	assert.Equal(t, TypeDeleteFileOnDisk, h.TaskName)
	assert.Equal(t, 1, enq.calls)
}

func TestQueueEnqueueUsesDedupKeyAsTaskID(t *testing.T) {
	enq := &fakeEnqueuer{}
	q := newTestQueue(enq, &fakeInspector{})

	h, err := q.Enqueue(context.Background(), port.Job{TaskName: TypeProcessAsset, DedupKey: "abc"})
	require.NoError(t, err)
	assert.Equal(t, "abc", h.ID)
	assert.Equal(t, []string{"abc"}, enq.taskID)
}

func TestQueueEnqueueConflictPolicy(t *testing.T) {
	tests := []struct {
		name        string
		state       asynq.TaskState
		wantOutcome port.EnqueueOutcome
		wantDeleted bool
		wantCalls   int
	}{
		{"pending is replaced", asynq.TaskStatePending, port.EnqueueReplaced, true, 2},
		{"scheduled is replaced", asynq.TaskStateScheduled, port.EnqueueReplaced, true, 2},
		{"retry is replaced", asynq.TaskStateRetry, port.EnqueueReplaced, true, 2},
		{"active wins", asynq.TaskStateActive, port.EnqueueIgnored, false, 1},
		{"completed runs again", asynq.TaskStateCompleted, port.EnqueueCreated, true, 2},
		{"archived runs again", asynq.TaskStateArchived, port.EnqueueCreated, true, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enq := &fakeEnqueuer{errs: []error{asynq.ErrTaskIDConflict, nil}}
			insp := &fakeInspector{info: &asynq.TaskInfo{ID: "abc", Type: TypeProcessAsset, Queue: "assets", State: tt.state}}
			q := newTestQueue(enq, insp)

			h, err := q.Enqueue(context.Background(), port.Job{TaskName: TypeProcessAsset, Payload: []byte(`{"v":2}`), DedupKey: "abc"})
			require.NoError(t, err)
			assert.Equal(t, tt.wantOutcome, h.Outcome)
			assert.Equal(t, "abc", h.ID)
			assert.Equal(t, tt.wantCalls, enq.calls)
			if tt.wantDeleted {
				assert.Equal(t, []string{"abc"}, insp.deleted)
				assert.Equal(t, []byte(`{"v":2}`), enq.tasks[len(enq.tasks)-1].Payload())
			} else {
				assert.Empty(t, insp.deleted)
			}
		})
	}
}

func TestQueueEnqueueConflictVanished(t *testing.T) {
	enq := &fakeEnqueuer{errs: []error{asynq.ErrTaskIDConflict, nil}}
	insp := &fakeInspector{infoErr: asynq.ErrTaskNotFound}
	q := newTestQueue(enq, insp)

	h, err := q.Enqueue(context.Background(), port.Job{TaskName: TypeProcessAsset, DedupKey: "abc"})
	require.NoError(t, err)
	assert.Equal(t, port.EnqueueCreated, h.Outcome)
	assert.Empty(t, insp.deleted)
}

func TestQueueEnqueueGivesUpOnPersistentConflict(t *testing.T) {
	enq := &fakeEnqueuer{errs: []error{asynq.ErrTaskIDConflict, asynq.ErrTaskIDConflict, asynq.ErrTaskIDConflict}}
	insp := &fakeInspector{
		info:      &asynq.TaskInfo{ID: "abc", State: asynq.TaskStatePending},
		deleteErr: errors.New("task is active"),
	}
	q := newTestQueue(enq, insp)

	_, err := q.Enqueue(context.Background(), port.Job{TaskName: TypeProcessAsset, DedupKey: "abc"})
	require.Error(t, err)
	assert.Equal(t, maxConflictRounds, enq.calls)
}

func TestQueueEnqueueBrokerError(t *testing.T) {
	boom := errors.New("redis down")
	q := newTestQueue(&fakeEnqueuer{errs: []error{boom}}, &fakeInspector{})

	_, err := q.Enqueue(context.Background(), port.Job{TaskName: TypeProcessAsset, DedupKey: "abc"})
	assert.ErrorIs(t, err, boom)
}

func TestQueueEnqueueInspectError(t *testing.T) {
	boom := errors.New("inspect failed")
	q := newTestQueue(&fakeEnqueuer{errs: []error{asynq.ErrTaskIDConflict}}, &fakeInspector{infoErr: boom})

	_, err := q.Enqueue(context.Background(), port.Job{TaskName: TypeProcessAsset, DedupKey: "abc"})
	assert.ErrorIs(t, err, boom)
}

func TestQueueInspect(t *testing.T) {
	failedAt := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	insp := &fakeInspector{info: &asynq.TaskInfo{
		ID: "abc", Type: TypeProcessAsset, Queue: "assets", State: asynq.TaskStateRetry,
		Retried: 2, MaxRetry: 5, LastErr: "boom", LastFailedAt: failedAt,
	}}
	q := newTestQueue(&fakeEnqueuer{}, insp)

	st, err := q.Inspect(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, port.JobRetry, st.Status)
	assert.Equal(t, 2, st.Retried)
	assert.Equal(t, 5, st.MaxRetry)
	assert.Equal(t, "boom", st.LastError)
	require.NotNil(t, st.LastFailedAt)
	assert.True(t, failedAt.Equal(*st.LastFailedAt))
	assert.Nil(t, st.NextProcessAt)
}

func TestQueueInspectUnknown(t *testing.T) {
	for _, e := range []error{asynq.ErrTaskNotFound, asynq.ErrQueueNotFound} {
		q := newTestQueue(&fakeEnqueuer{}, &fakeInspector{infoErr: e})
		st, err := q.Inspect(context.Background(), "abc")
		require.NoError(t, err)
		assert.Equal(t, port.JobUnknown, st.Status)
		assert.Equal(t, "abc", st.ID)
	}
}

func TestQueueDeadLetters(t *testing.T) {
	insp := &fakeInspector{archived: []*asynq.TaskInfo{
		{ID: "a", Type: TypeTagImage, State: asynq.TaskStateArchived, LastErr: "503"},
		{ID: "b", Type: TypeExtractExif, State: asynq.TaskStateArchived},
	}}
	q := newTestQueue(&fakeEnqueuer{}, insp)

	out, err := q.DeadLetters(context.Background(), 1, 20)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, port.JobDead, out[0].Status)
	assert.Equal(t, "503", out[0].LastError)
	assert.Equal(t, TypeExtractExif, out[1].TaskName)
}

func TestQueueDeadLettersEmptyQueue(t *testing.T) {
	q := newTestQueue(&fakeEnqueuer{}, &fakeInspector{archiveErr: asynq.ErrQueueNotFound})
	out, err := q.DeadLetters(context.Background(), 1, 20)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestQueueCloseClosesBoth(t *testing.T) {
	enq := &fakeEnqueuer{}
	boom := errors.New("close failed")
	q := newTestQueue(enq, &fakeInspector{closeErr: boom})

	err := q.Close()
	assert.ErrorIs(t, err, boom)
	assert.True(t, enq.closed)
}
