package port

import (
	"context"

	"github.com/fhuszti/assets-ms-go/internal/uuid"
)

// HTTPRenderer mediates between HTTP handlers and the asset getter use case.
// It provides caching capabilities and returns both the JSON representation of
// the result as well as an ETag value derived from it.
type HTTPRenderer interface {
	RenderGetAsset(ctx context.Context, getter AssetGetter, in GetAssetInput) ([]byte, string, error)
}

// AssetInvalidator drops every cached rendering of an asset.
type AssetInvalidator interface {
	Invalidate(ctx context.Context, id uuid.UUID)
}
