package port

import (
	"context"
	"time"

	"github.com/fhuszti/assets-ms-go/internal/batch"
	"github.com/fhuszti/assets-ms-go/internal/model"
	"github.com/fhuszti/assets-ms-go/internal/uuid"
)

type UUIDGen func() uuid.UUID

// StagedFile points at bytes already written to the FileStore.
type StagedFile struct {
	Name     string
	Path     string `validate:"required"`
	MimeType string `validate:"required,assetmime"`
	Size     int64  `validate:"gte=0"`
}

type CreateAssetInput struct {
	OwnerID       uuid.UUID
	DeviceAssetID string    `validate:"required,max=255"`
	DeviceID      string    `validate:"required,max=255"`
	CreatedAt     time.Time `validate:"required"`
	ModifiedAt    time.Time
	IsFavorite    bool
	File          StagedFile  `validate:"required"`
	Thumbnail     *StagedFile `validate:"omitempty"`
}

// AssetIngester records uploaded assets and schedules their processing.
type AssetIngester interface {
	CreateAsset(ctx context.Context, in CreateAssetInput) (*model.Asset, error)
	CreateAssets(ctx context.Context, in []CreateAssetInput) batch.Outcomes[CreateAssetInput, *model.Asset]
}

// DuplicateChecker lets clients skip uploads they already performed.
type DuplicateChecker interface {
	IsDuplicate(ctx context.Context, ownerID uuid.UUID, deviceAssetID string) (bool, error)
}

// AssetBrowser lists an owner's library and searches it by tag, camera or place.
type AssetBrowser interface {
	ListAssets(ctx context.Context, ownerID uuid.UUID) ([]model.AssetDetails, error)
	ListDeviceAssetIDs(ctx context.Context, ownerID uuid.UUID, deviceID string) ([]string, error)
	CuratedObjects(ctx context.Context, ownerID uuid.UUID) ([]model.CuratedObject, error)
	CuratedLocations(ctx context.Context, ownerID uuid.UUID) ([]model.AssetLocation, error)
	SearchTerms(ctx context.Context, ownerID uuid.UUID) ([]string, error)
	SearchAssets(ctx context.Context, ownerID uuid.UUID, q model.AssetQuery) ([]model.AssetDetails, error)
}

// AssetGetter reads an asset with its satellite records.
type AssetGetter interface {
	GetAsset(ctx context.Context, in GetAssetInput) (*model.AssetDetails, error)
}
type GetAssetInput struct {
	OwnerID uuid.UUID
	ID      uuid.UUID
}

const (
	DeleteStatusSuccess = "success"
	DeleteStatusFailed  = "failed"
)

// AssetDeleter schedules file removal then drops the asset records.
type AssetDeleter interface {
	DeleteAssets(ctx context.Context, in DeleteAssetsInput) ([]DeleteResult, error)
}
type DeleteAssetsInput struct {
	OwnerID uuid.UUID
	IDs     []uuid.UUID
}
type DeleteResult struct {
	ID     uuid.UUID `json:"id"`
	Status string    `json:"status"`
	Error  string    `json:"error,omitempty"`
}

// JobInspector exposes queue state to operators and owners.
type JobInspector interface {
	GetJobState(ctx context.Context, ownerID, assetID uuid.UUID) (JobState, error)
	ListDeadLetters(ctx context.Context, page, size int) ([]JobState, error)
}

// AssetProcessor fans an uploaded asset out to its satellite jobs.
type AssetProcessor interface {
	ProcessAsset(ctx context.Context, in ProcessAssetInput) error
}
type ProcessAssetInput struct {
	AssetID      uuid.UUID
	FileName     string
	FileSize     int64
	HasThumbnail bool
}

// ExifExtractor populates the Exif satellite of an asset.
type ExifExtractor interface {
	ExtractExif(ctx context.Context, in ExtractExifInput) error
}
type ExtractExifInput struct {
	AssetID  uuid.UUID
	FileName string
	FileSize int64
}

// ImageTagger populates the SmartInfo satellite of an asset.
type ImageTagger interface {
	TagImage(ctx context.Context, in TagImageInput) error
}
type TagImageInput struct {
	AssetID       uuid.UUID
	ThumbnailPath string
}

// FileDeleter removes asset files from the FileStore, one path at a time.
type FileDeleter interface {
	DeleteFiles(ctx context.Context, in DeleteFilesInput) batch.Outcomes[string, struct{}]
}
type DeleteFilesInput struct {
	Assets []AssetFiles
}
type AssetFiles struct {
	ID           uuid.UUID
	OriginalPath string
	ResizePath   *string
}
