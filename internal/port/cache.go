package port

import (
	"context"

	"github.com/fhuszti/assets-ms-go/internal/uuid"
)

// Cache stores rendered asset details and their ETag.
// A miss returns nil data (or an empty etag) and no error.
type Cache interface {
	GetAssetDetails(ctx context.Context, id uuid.UUID) ([]byte, error)
	GetEtagAssetDetails(ctx context.Context, id uuid.UUID) (string, error)
	SetAssetDetails(ctx context.Context, id uuid.UUID, data []byte)
	SetEtagAssetDetails(ctx context.Context, id uuid.UUID, etag string)
	DeleteAssetDetails(ctx context.Context, id uuid.UUID) error
	DeleteEtagAssetDetails(ctx context.Context, id uuid.UUID) error
}
