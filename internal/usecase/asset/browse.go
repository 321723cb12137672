package asset

import (
	"context"
	"fmt"
	"strings"

	"github.com/fhuszti/assets-ms-go/internal/logger"
	"github.com/fhuszti/assets-ms-go/internal/model"
	"github.com/fhuszti/assets-ms-go/internal/port"
	"github.com/fhuszti/assets-ms-go/internal/uuid"
)

// Browser serves library listings and searches, always scoped to one owner.
type Browser struct {
	finder port.AssetFinder
}

// compile-time check
var _ port.AssetBrowser = (*Browser)(nil)

func NewBrowser(finder port.AssetFinder) *Browser {
	return &Browser{finder: finder}
}

func (s *Browser) ListAssets(ctx context.Context, ownerID uuid.UUID) ([]model.AssetDetails, error) {
	return s.finder.ListByOwner(ctx, ownerID)
}

func (s *Browser) ListDeviceAssetIDs(ctx context.Context, ownerID uuid.UUID, deviceID string) ([]string, error) {
	deviceID = strings.TrimSpace(deviceID)
	if deviceID == "" {
		return nil, fmt.Errorf("%w: device id is required", ErrInvalidInput)
	}
	return s.finder.DeviceAssetIDs(ctx, ownerID, deviceID)
}

func (s *Browser) CuratedObjects(ctx context.Context, ownerID uuid.UUID) ([]model.CuratedObject, error) {
	return s.finder.CuratedObjects(ctx, ownerID)
}

func (s *Browser) CuratedLocations(ctx context.Context, ownerID uuid.UUID) ([]model.AssetLocation, error) {
	return s.finder.Locations(ctx, ownerID)
}

func (s *Browser) SearchTerms(ctx context.Context, ownerID uuid.UUID) ([]string, error) {
	return s.finder.SearchTerms(ctx, ownerID)
}

// SearchAssets matches terms case-insensitively. A query with neither a term
// nor bounds is rejected rather than treated as "everything".
func (s *Browser) SearchAssets(ctx context.Context, ownerID uuid.UUID, q model.AssetQuery) ([]model.AssetDetails, error) {
	q.Term = strings.ToLower(strings.TrimSpace(q.Term))
	if q.Term == "" && q.Bounds == nil {
		return nil, fmt.Errorf("%w: a search term or bounds are required", ErrInvalidInput)
	}
	if b := q.Bounds; b != nil && (b.MinLat > b.MaxLat || b.MinLon > b.MaxLon) {
		return nil, fmt.Errorf("%w: inverted bounds", ErrInvalidInput)
	}

	out, err := s.finder.Search(ctx, ownerID, q)
	if err != nil {
		return nil, err
	}
	logger.Debugf(ctx, "search %q for owner %s matched %d assets", q.Term, ownerID, len(out))
	return out, nil
}
