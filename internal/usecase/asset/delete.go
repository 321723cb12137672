package asset

import (
	"context"
	"fmt"

	"github.com/fhuszti/assets-ms-go/internal/batch"
	"github.com/fhuszti/assets-ms-go/internal/logger"
	"github.com/fhuszti/assets-ms-go/internal/model"
	"github.com/fhuszti/assets-ms-go/internal/port"
)

type Deleter struct {
	repo        port.AssetRepository
	tasks       port.TaskDispatcher
	invalidator port.AssetInvalidator
}

// compile-time check
var _ port.AssetDeleter = (*Deleter)(nil)

func NewDeleter(repo port.AssetRepository, tasks port.TaskDispatcher, invalidator port.AssetInvalidator) *Deleter {
	return &Deleter{repo: repo, tasks: tasks, invalidator: invalidator}
}

// DeleteAssets schedules the removal of the files of every owned asset, then
// drops the records one by one. File removal is best effort and its outcome is
// not reported back here. If the removal job cannot be scheduled nothing is deleted.
func (s *Deleter) DeleteAssets(ctx context.Context, in port.DeleteAssetsInput) ([]port.DeleteResult, error) {
	results := make([]port.DeleteResult, len(in.IDs))
	index := make(map[*model.Asset]int, len(in.IDs))
	var found []*model.Asset

	for i, id := range in.IDs {
		results[i] = port.DeleteResult{ID: id, Status: port.DeleteStatusFailed}
		a, err := loadOwned(ctx, s.repo, in.OwnerID, id)
		if err != nil {
			results[i].Error = err.Error()
			continue
		}
		index[a] = i
		found = append(found, a)
	}
	if len(found) == 0 {
		return results, nil
	}

	files := port.DeleteFilesInput{Assets: make([]port.AssetFiles, 0, len(found))}
	for _, a := range found {
		files.Assets = append(files.Assets, port.AssetFiles{ID: a.ID, OriginalPath: a.OriginalPath, ResizePath: a.ResizePath})
	}
	if _, err := s.tasks.EnqueueDeleteFiles(ctx, files); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrQueue, err)
	}

	out := batch.Run(ctx, found, func(ctx context.Context, a *model.Asset) (struct{}, error) {
		if err := s.repo.Delete(ctx, a.ID); err != nil {
			return struct{}{}, err
		}
		s.invalidator.Invalidate(ctx, a.ID)
		return struct{}{}, nil
	})
	for _, o := range out {
		i := index[o.Item]
		if o.Err != nil {
			results[i].Error = o.Err.Error()
			continue
		}
		results[i].Status = port.DeleteStatusSuccess
	}
	if err := out.Err(); err != nil {
		logger.Warnf(ctx, "%d of %d asset records could not be deleted: %v", len(out.Failed()), len(out), err)
	}
	return results, nil
}
