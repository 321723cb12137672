package renderer

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/crc32"

	"github.com/fhuszti/assets-ms-go/internal/logger"
	"github.com/fhuszti/assets-ms-go/internal/port"
	"github.com/fhuszti/assets-ms-go/internal/usecase/asset"
	"github.com/fhuszti/assets-ms-go/internal/uuid"
)

// HTTPRenderer serves GET asset responses through the cache.
type HTTPRenderer struct {
	cache port.Cache
}

// compile-time checks: *HTTPRenderer renders and invalidates cached assets
var (
	_ port.HTTPRenderer     = (*HTTPRenderer)(nil)
	_ port.AssetInvalidator = (*HTTPRenderer)(nil)
)

// NewHTTPRenderer creates a new HTTPRenderer implementation.
func NewHTTPRenderer(cache port.Cache) *HTTPRenderer {
	return &HTTPRenderer{cache: cache}
}

// RenderGetAsset fetches asset details either from cache or from the wrapped use
// case. It returns the JSON encoded output and a quoted ETag string.
// Cached entries are shared by every reader, so ownership is re-checked on a hit.
func (r *HTTPRenderer) RenderGetAsset(ctx context.Context, getter port.AssetGetter, in port.GetAssetInput) ([]byte, string, error) {
	raw, err := r.cache.GetAssetDetails(ctx, in.ID)
	etag, errEtag := r.cache.GetEtagAssetDetails(ctx, in.ID)
	if err == nil && errEtag == nil && raw != nil && etag != "" {
		var owner struct {
			OwnerID uuid.UUID `json:"ownerId"`
		}
		if json.Unmarshal(raw, &owner) == nil {
			if owner.OwnerID != in.OwnerID {
				return nil, "", asset.ErrAssetNotFound
			}
			return raw, etag, nil
		}
	}

	out, err := getter.GetAsset(ctx, in)
	if err != nil {
		return nil, "", err
	}

	raw, err = json.Marshal(out)
	if err != nil {
		return nil, "", fmt.Errorf("json marshal: %w", err)
	}

	etag = fmt.Sprintf("\"%08x\"", crc32.ChecksumIEEE(raw))
	r.cache.SetAssetDetails(ctx, in.ID, raw)
	r.cache.SetEtagAssetDetails(ctx, in.ID, etag)

	return raw, etag, nil
}

// Invalidate drops the cached rendering of an asset. Failures are logged only:
// the entry expires on its own.
func (r *HTTPRenderer) Invalidate(ctx context.Context, id uuid.UUID) {
	if err := r.cache.DeleteAssetDetails(ctx, id); err != nil {
		logger.Warnf(ctx, "could not invalidate cached asset #%s: %v", id, err)
	}
	if err := r.cache.DeleteEtagAssetDetails(ctx, id); err != nil {
		logger.Warnf(ctx, "could not invalidate cached etag of asset #%s: %v", id, err)
	}
}
