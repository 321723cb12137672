package asset

import (
	"context"

	"github.com/fhuszti/assets-ms-go/internal/port"
	"github.com/fhuszti/assets-ms-go/internal/uuid"
)

type DuplicateFinder struct {
	repo port.AssetRepository
}

// compile-time check
var _ port.DuplicateChecker = (*DuplicateFinder)(nil)

func NewDuplicateFinder(repo port.AssetRepository) *DuplicateFinder {
	return &DuplicateFinder{repo: repo}
}

// IsDuplicate reports whether the owner already uploaded this device asset.
func (s *DuplicateFinder) IsDuplicate(ctx context.Context, ownerID uuid.UUID, deviceAssetID string) (bool, error) {
	return s.repo.ExistsByDeviceAssetID(ctx, ownerID, deviceAssetID)
}
