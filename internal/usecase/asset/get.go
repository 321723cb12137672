package asset

import (
	"context"
	"database/sql"
	"errors"

	"github.com/fhuszti/assets-ms-go/internal/model"
	"github.com/fhuszti/assets-ms-go/internal/port"
	"github.com/fhuszti/assets-ms-go/internal/uuid"
)

type Getter struct {
	repo port.AssetRepository
}

// compile-time check
var _ port.AssetGetter = (*Getter)(nil)

func NewGetter(repo port.AssetRepository) *Getter {
	return &Getter{repo: repo}
}

// GetAsset returns the asset with whichever satellite records exist so far.
// Assets of other owners are reported as not found.
func (s *Getter) GetAsset(ctx context.Context, in port.GetAssetInput) (*model.AssetDetails, error) {
	a, err := loadOwned(ctx, s.repo, in.OwnerID, in.ID)
	if err != nil {
		return nil, err
	}

	out := &model.AssetDetails{Asset: *a}
	if out.Exif, err = s.repo.GetExif(ctx, a.ID); err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if out.SmartInfo, err = s.repo.GetSmartInfo(ctx, a.ID); err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	return out, nil
}

// loadOwned fetches an asset, hiding it unless ownerID owns it.
// A nil ownerID skips the ownership check.
func loadOwned(ctx context.Context, repo port.AssetRepository, ownerID, id uuid.UUID) (*model.Asset, error) {
	a, err := repo.GetByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAssetNotFound
	}
	if err != nil {
		return nil, err
	}
	if !ownerID.IsNil() && a.OwnerID != ownerID {
		return nil, ErrAssetNotFound
	}
	return a, nil
}
