package asset

import (
	"context"
	"fmt"

	"github.com/fhuszti/assets-ms-go/internal/logger"
	"github.com/fhuszti/assets-ms-go/internal/model"
	"github.com/fhuszti/assets-ms-go/internal/port"
	"github.com/fhuszti/assets-ms-go/internal/uuid"
)

// TagService asks the ML service for tags and records them as SmartInfo.
type TagService struct {
	repo        port.AssetRepository
	tagger      port.Tagger
	invalidator port.AssetInvalidator
	notifier    port.Notifier
	overwrite   bool
}

// compile-time check
var _ port.ImageTagger = (*TagService)(nil)

func NewTagService(repo port.AssetRepository, tagger port.Tagger, invalidator port.AssetInvalidator, notifier port.Notifier, overwrite bool) *TagService {
	return &TagService{repo: repo, tagger: tagger, invalidator: invalidator, notifier: notifier, overwrite: overwrite}
}

// TagImage writes SmartInfo only when the ML service answered successfully.
func (s *TagService) TagImage(ctx context.Context, in port.TagImageInput) error {
	a, err := loadOwned(ctx, s.repo, uuid.Nil, in.AssetID)
	if err != nil {
		return err
	}

	tags, err := s.tagger.TagImage(ctx, in.ThumbnailPath)
	if err != nil {
		return fmt.Errorf("%w: tag asset %s: %w", ErrProcessing, a.ID, err)
	}

	info := &model.SmartInfo{AssetID: a.ID, Tags: model.Tags(tags)}
	written, err := s.repo.SaveSmartInfo(ctx, info, s.overwrite)
	if err != nil {
		return fmt.Errorf("%w: save tags of asset %s: %w", ErrProcessing, a.ID, err)
	}
	if !written {
		logger.Infof(ctx, "tags of asset %s already recorded, keeping them", a.ID)
		return nil
	}

	if s.invalidator != nil {
		s.invalidator.Invalidate(ctx, a.ID)
	}
	notify(ctx, s.notifier, a.OwnerID, EventTagsAssigned, model.AssetDetails{Asset: *a, SmartInfo: info})
	return nil
}
