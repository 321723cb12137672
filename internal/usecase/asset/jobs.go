package asset

import (
	"context"

	"github.com/fhuszti/assets-ms-go/internal/port"
	"github.com/fhuszti/assets-ms-go/internal/task"
	"github.com/fhuszti/assets-ms-go/internal/uuid"
)

const (
	defaultDeadLetterPageSize = 20
	maxDeadLetterPageSize     = 100
)

type JobInspector struct {
	repo  port.AssetRepository
	queue port.JobQueue
}

// compile-time check
var _ port.JobInspector = (*JobInspector)(nil)

func NewJobInspector(repo port.AssetRepository, queue port.JobQueue) *JobInspector {
	return &JobInspector{repo: repo, queue: queue}
}

// GetJobState returns the state of the processing job of an owned asset.
func (s *JobInspector) GetJobState(ctx context.Context, ownerID, assetID uuid.UUID) (port.JobState, error) {
	if _, err := loadOwned(ctx, s.repo, ownerID, assetID); err != nil {
		return port.JobState{}, err
	}
	return s.queue.Inspect(ctx, task.ProcessAssetKey(assetID.String()))
}

func (s *JobInspector) ListDeadLetters(ctx context.Context, page, size int) ([]port.JobState, error) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = defaultDeadLetterPageSize
	}
	if size > maxDeadLetterPageSize {
		size = maxDeadLetterPageSize
	}
	return s.queue.DeadLetters(ctx, page, size)
}
