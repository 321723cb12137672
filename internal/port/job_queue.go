package port

import (
	"context"
	"time"
)

// Job is a unit of work to run asynchronously.
// Jobs sharing a DedupKey never run concurrently.
type Job struct {
	TaskName string
	Payload  []byte
	DedupKey string
}

type EnqueueOutcome string

const (
	EnqueueCreated  EnqueueOutcome = "created"
	EnqueueReplaced EnqueueOutcome = "replaced"
	EnqueueIgnored  EnqueueOutcome = "ignored"
)

type JobHandle struct {
	ID       string
	TaskName string
	Queue    string
	Outcome  EnqueueOutcome
}

type JobStatus string

const (
	JobPending   JobStatus = "pending"
	JobScheduled JobStatus = "scheduled"
	JobActive    JobStatus = "active"
	JobRetry     JobStatus = "retry"
	JobDead      JobStatus = "dead"
	JobCompleted JobStatus = "completed"
	JobUnknown   JobStatus = "unknown"
)

type JobState struct {
	ID            string     `json:"id"`
	TaskName      string     `json:"taskName,omitempty"`
	Queue         string     `json:"queue,omitempty"`
	Status        JobStatus  `json:"status"`
	Retried       int        `json:"retried"`
	MaxRetry      int        `json:"maxRetry"`
	LastError     string     `json:"lastError,omitempty"`
	LastFailedAt  *time.Time `json:"lastFailedAt,omitempty"`
	NextProcessAt *time.Time `json:"nextProcessAt,omitempty"`
}

// JobQueue enqueues durable jobs and exposes their state.
// Consuming jobs is the worker server's concern.
type JobQueue interface {
	Enqueue(ctx context.Context, job Job) (JobHandle, error)
	Inspect(ctx context.Context, dedupKey string) (JobState, error)
	DeadLetters(ctx context.Context, page, size int) ([]JobState, error)
}
