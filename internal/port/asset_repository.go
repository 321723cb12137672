package port

import (
	"context"

	"github.com/fhuszti/assets-ms-go/internal/model"
	"github.com/fhuszti/assets-ms-go/internal/uuid"
)

// AssetRepository defines persistence operations for assets and their satellite records.
// Lookups of missing rows return sql.ErrNoRows.
type AssetRepository interface {
	Create(ctx context.Context, asset *model.Asset) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Asset, error)
	ExistsByDeviceAssetID(ctx context.Context, ownerID uuid.UUID, deviceAssetID string) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// SaveExif reports whether the record was written. Without overwrite an
	// existing record is kept untouched and false is returned.
	SaveExif(ctx context.Context, exif *model.Exif, overwrite bool) (bool, error)
	GetExif(ctx context.Context, assetID uuid.UUID) (*model.Exif, error)
	SaveSmartInfo(ctx context.Context, info *model.SmartInfo, overwrite bool) (bool, error)
	GetSmartInfo(ctx context.Context, assetID uuid.UUID) (*model.SmartInfo, error)
}

// AssetFinder lists and searches the assets of one owner, newest first.
// Empty results are empty slices, never nil.
type AssetFinder interface {
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.AssetDetails, error)
	DeviceAssetIDs(ctx context.Context, ownerID uuid.UUID, deviceID string) ([]string, error)
	CuratedObjects(ctx context.Context, ownerID uuid.UUID) ([]model.CuratedObject, error)
	Locations(ctx context.Context, ownerID uuid.UUID) ([]model.AssetLocation, error)
	SearchTerms(ctx context.Context, ownerID uuid.UUID) ([]string, error)
	Search(ctx context.Context, ownerID uuid.UUID, q model.AssetQuery) ([]model.AssetDetails, error)
}
