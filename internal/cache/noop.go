package cache

import (
	"context"

	"github.com/fhuszti/assets-ms-go/internal/port"
	"github.com/fhuszti/assets-ms-go/internal/uuid"
)

// NoopCache is used when caching is disabled (CACHE_TTL_SECONDS=0).
type NoopCache struct{}

// compile-time check: *NoopCache must satisfy port.Cache
var _ port.Cache = (*NoopCache)(nil)

func NewNoop() *NoopCache {
	return &NoopCache{}
}

func (n *NoopCache) GetAssetDetails(ctx context.Context, id uuid.UUID) ([]byte, error) {
	return nil, nil // always cache miss
}

func (n *NoopCache) GetEtagAssetDetails(ctx context.Context, id uuid.UUID) (string, error) {
	return "", nil
}

func (n *NoopCache) SetAssetDetails(ctx context.Context, id uuid.UUID, data []byte) {}

func (n *NoopCache) SetEtagAssetDetails(ctx context.Context, id uuid.UUID, etag string) {}

func (n *NoopCache) DeleteAssetDetails(ctx context.Context, id uuid.UUID) error { return nil }

func (n *NoopCache) DeleteEtagAssetDetails(ctx context.Context, id uuid.UUID) error { return nil }
