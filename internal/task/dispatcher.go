package task

import (
	"context"

	"github.com/fhuszti/assets-ms-go/internal/port"
)

// Dispatcher turns pipeline inputs into jobs on a JobQueue.
type Dispatcher struct {
	queue port.JobQueue
}

// compile-time check
var _ port.TaskDispatcher = (*Dispatcher)(nil)

func NewDispatcher(queue port.JobQueue) *Dispatcher {
	return &Dispatcher{queue: queue}
}

func (d *Dispatcher) EnqueueProcessAsset(ctx context.Context, in port.ProcessAssetInput) (port.JobHandle, error) {
	return d.enqueue(ctx, func() (port.Job, error) { return NewProcessAssetJob(in) })
}

func (d *Dispatcher) EnqueueExtractExif(ctx context.Context, in port.ExtractExifInput) (port.JobHandle, error) {
	return d.enqueue(ctx, func() (port.Job, error) { return NewExtractExifJob(in) })
}

func (d *Dispatcher) EnqueueTagImage(ctx context.Context, in port.TagImageInput) (port.JobHandle, error) {
	return d.enqueue(ctx, func() (port.Job, error) { return NewTagImageJob(in) })
}

func (d *Dispatcher) EnqueueDeleteFiles(ctx context.Context, in port.DeleteFilesInput) (port.JobHandle, error) {
	return d.enqueue(ctx, func() (port.Job, error) { return NewDeleteFilesJob(in) })
}

func (d *Dispatcher) enqueue(ctx context.Context, build func() (port.Job, error)) (port.JobHandle, error) {
	job, err := build()
	if err != nil {
		return port.JobHandle{}, err
	}
	return d.queue.Enqueue(ctx, job)
}
