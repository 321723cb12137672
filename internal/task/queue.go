package task

import (
	"context"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"
	"go.uber.org/multierr"

	"github.com/fhuszti/assets-ms-go/internal/logger"
	"github.com/fhuszti/assets-ms-go/internal/port"
)

// maxConflictRounds bounds how often a conflicting dedup key is re-examined
// when the existing task changes state under our feet.
const maxConflictRounds = 3

type enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
	Close() error
}

type inspector interface {
	GetTaskInfo(queue, id string) (*asynq.TaskInfo, error)
	DeleteTask(queue, id string) error
	ListArchivedTasks(queue string, opts ...asynq.ListOption) ([]*asynq.TaskInfo, error)
	Close() error
}

// Queue is a JobQueue backed by asynq. The dedup key becomes the asynq task id,
// which asynq keeps unique per queue for as long as the task exists.
type Queue struct {
	client    enqueuer
	inspector inspector
	name      string
	maxRetry  int
}

// compile-time check
var _ port.JobQueue = (*Queue)(nil)

func NewQueue(opt asynq.RedisConnOpt, name string, maxRetry int) *Queue {
	return &Queue{
		client:    asynq.NewClient(opt),
		inspector: asynq.NewInspector(opt),
		name:      name,
		maxRetry:  maxRetry,
	}
}

func (q *Queue) Close() error {
	return multierr.Combine(q.client.Close(), q.inspector.Close())
}

// Enqueue implements replace-if-not-started, else ignore-new for jobs carrying a dedup key:
// a waiting task with the same key is deleted and replaced, a running one wins and the
// new job is dropped, a finished one is cleared so the job runs again.
func (q *Queue) Enqueue(ctx context.Context, job port.Job) (port.JobHandle, error) {
	t := asynq.NewTask(job.TaskName, job.Payload)
	opts := []asynq.Option{asynq.Queue(q.name), asynq.MaxRetry(q.maxRetry)}
	if job.DedupKey != "" {
		opts = append(opts, asynq.TaskID(job.DedupKey))
	}

	outcome := port.EnqueueCreated
	for round := 0; round < maxConflictRounds; round++ {
		info, err := q.client.EnqueueContext(ctx, t, opts...)
		if err == nil {
			logger.Debugf(ctx, "enqueued %s job %q (%s)", job.TaskName, info.ID, outcome)
			return port.JobHandle{ID: info.ID, TaskName: info.Type, Queue: info.Queue, Outcome: outcome}, nil
		}
		if job.DedupKey == "" || !errors.Is(err, asynq.ErrTaskIDConflict) {
			return port.JobHandle{}, fmt.Errorf("enqueue %s: %w", job.TaskName, err)
		}

		existing, err := q.inspector.GetTaskInfo(q.name, job.DedupKey)
		if errors.Is(err, asynq.ErrTaskNotFound) {
			continue
		}
		if err != nil {
			return port.JobHandle{}, fmt.Errorf("inspect %s job %q: %w", job.TaskName, job.DedupKey, err)
		}

		switch existing.State {
		case asynq.TaskStateActive:
			logger.Infof(ctx, "%s job %q is already running, ignoring new enqueue", job.TaskName, job.DedupKey)
			return port.JobHandle{ID: existing.ID, TaskName: existing.Type, Queue: existing.Queue, Outcome: port.EnqueueIgnored}, nil
		case asynq.TaskStatePending, asynq.TaskStateScheduled, asynq.TaskStateRetry:
			outcome = port.EnqueueReplaced
		default:
			outcome = port.EnqueueCreated
		}

		// a failed delete usually means the task just became active; the next round sees it
		if err := q.inspector.DeleteTask(q.name, job.DedupKey); err != nil && !errors.Is(err, asynq.ErrTaskNotFound) {
			logger.Warnf(ctx, "could not clear %s job %q: %v", job.TaskName, job.DedupKey, err)
		}
	}
	return port.JobHandle{}, fmt.Errorf("enqueue %s: dedup key %q still conflicting after %d rounds", job.TaskName, job.DedupKey, maxConflictRounds)
}

func (q *Queue) Inspect(_ context.Context, dedupKey string) (port.JobState, error) {
	info, err := q.inspector.GetTaskInfo(q.name, dedupKey)
	if errors.Is(err, asynq.ErrTaskNotFound) || errors.Is(err, asynq.ErrQueueNotFound) {
		return port.JobState{ID: dedupKey, Queue: q.name, Status: port.JobUnknown}, nil
	}
	if err != nil {
		return port.JobState{}, fmt.Errorf("inspect job %q: %w", dedupKey, err)
	}
	return toJobState(info), nil
}

func (q *Queue) DeadLetters(_ context.Context, page, size int) ([]port.JobState, error) {
	infos, err := q.inspector.ListArchivedTasks(q.name, asynq.Page(page), asynq.PageSize(size))
	if errors.Is(err, asynq.ErrQueueNotFound) {
		return []port.JobState{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list dead letters: %w", err)
	}
	out := make([]port.JobState, 0, len(infos))
	for _, info := range infos {
		out = append(out, toJobState(info))
	}
	return out, nil
}

func toJobState(info *asynq.TaskInfo) port.JobState {
	s := port.JobState{
		ID:        info.ID,
		TaskName:  info.Type,
		Queue:     info.Queue,
		Status:    toJobStatus(info.State),
		Retried:   info.Retried,
		MaxRetry:  info.MaxRetry,
		LastError: info.LastErr,
	}
	if !info.LastFailedAt.IsZero() {
		t := info.LastFailedAt
		s.LastFailedAt = &t
	}
	if !info.NextProcessAt.IsZero() {
		t := info.NextProcessAt
		s.NextProcessAt = &t
	}
	return s
}

func toJobStatus(state asynq.TaskState) port.JobStatus {
	switch state {
	case asynq.TaskStatePending:
		return port.JobPending
	case asynq.TaskStateScheduled:
		return port.JobScheduled
	case asynq.TaskStateActive:
		return port.JobActive
	case asynq.TaskStateRetry:
		return port.JobRetry
	case asynq.TaskStateArchived:
		return port.JobDead
	case asynq.TaskStateCompleted:
		return port.JobCompleted
	default:
		return port.JobUnknown
	}
}
