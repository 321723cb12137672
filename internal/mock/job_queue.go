package mock

import (
	"context"
	"sync"

	"github.com/fhuszti/assets-ms-go/internal/port"
)

// MockJobQueue records enqueued jobs for tests.
type MockJobQueue struct {
	mu sync.Mutex

	Jobs []port.Job

	EnqueueErr     error
	EnqueueErrFor  map[string]error // by task name
	Outcome        port.EnqueueOutcome
	InspectOut     port.JobState
	InspectErr     error
	InspectedKeys  []string
	DeadOut        []port.JobState
	DeadErr        error
	DeadPage       int
	DeadSize       int
	DeadListCalled bool
}

func (m *MockJobQueue) Enqueue(ctx context.Context, job port.Job) (port.JobHandle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.EnqueueErrFor[job.TaskName]; err != nil {
		return port.JobHandle{}, err
	}
	if m.EnqueueErr != nil {
		return port.JobHandle{}, m.EnqueueErr
	}
	m.Jobs = append(m.Jobs, job)
	outcome := m.Outcome
	if outcome == "" {
		outcome = port.EnqueueCreated
	}
	return port.JobHandle{ID: job.DedupKey, TaskName: job.TaskName, Queue: "test", Outcome: outcome}, nil
}

func (m *MockJobQueue) Inspect(ctx context.Context, dedupKey string) (port.JobState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.InspectedKeys = append(m.InspectedKeys, dedupKey)
	return m.InspectOut, m.InspectErr
}

func (m *MockJobQueue) DeadLetters(ctx context.Context, page, size int) ([]port.JobState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DeadListCalled = true
	m.DeadPage, m.DeadSize = page, size
	return m.DeadOut, m.DeadErr
}

// JobsOf returns the enqueued jobs of a given task.
func (m *MockJobQueue) JobsOf(taskName string) []port.Job {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []port.Job
	for _, j := range m.Jobs {
		if j.TaskName == taskName {
			out = append(out, j)
		}
	}
	return out
}
