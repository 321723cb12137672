package mock

import (
	"context"
	"database/sql"
	"sort"
	"strings"
	"sync"

	"github.com/fhuszti/assets-ms-go/internal/model"
	"github.com/fhuszti/assets-ms-go/internal/uuid"
)

// MockAssetRepo is an in-memory asset repository for tests.
type MockAssetRepo struct {
	mu sync.Mutex

	Assets     map[uuid.UUID]*model.Asset
	Exifs      map[uuid.UUID]*model.Exif
	SmartInfos map[uuid.UUID]*model.SmartInfo

	CreateErr    error
	GetErr       error
	ExistsErr    error
	DeleteErr    error
	DeleteErrFor map[uuid.UUID]error
	SaveExifErr  error
	SaveSmartErr error
	FindErr      error

	Created      []*model.Asset
	Deleted      []uuid.UUID
	ExifWrites   int
	SmartWrites  int
	ExistsCalled bool
	LastQuery    model.AssetQuery
}

func NewMockAssetRepo(assets ...*model.Asset) *MockAssetRepo {
	m := &MockAssetRepo{
		Assets:     map[uuid.UUID]*model.Asset{},
		Exifs:      map[uuid.UUID]*model.Exif{},
		SmartInfos: map[uuid.UUID]*model.SmartInfo{},
	}
	for _, a := range assets {
		m.Assets[a.ID] = a
	}
	return m
}

func (m *MockAssetRepo) Create(ctx context.Context, a *model.Asset) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateErr != nil {
		return m.CreateErr
	}
	cp := *a
	m.Assets[a.ID] = &cp
	m.Created = append(m.Created, &cp)
	return nil
}

func (m *MockAssetRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Asset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	a, ok := m.Assets[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *a
	return &cp, nil
}

func (m *MockAssetRepo) ExistsByDeviceAssetID(ctx context.Context, ownerID uuid.UUID, deviceAssetID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ExistsCalled = true
	if m.ExistsErr != nil {
		return false, m.ExistsErr
	}
	for _, a := range m.Assets {
		if a.OwnerID == ownerID && a.DeviceAssetID == deviceAssetID {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockAssetRepo) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.DeleteErrFor[id]; err != nil {
		return err
	}
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	if _, ok := m.Assets[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.Assets, id)
	delete(m.Exifs, id)
	delete(m.SmartInfos, id)
	m.Deleted = append(m.Deleted, id)
	return nil
}

func (m *MockAssetRepo) SaveExif(ctx context.Context, e *model.Exif, overwrite bool) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveExifErr != nil {
		return false, m.SaveExifErr
	}
	if _, ok := m.Exifs[e.AssetID]; ok && !overwrite {
		return false, nil
	}
	cp := *e
	m.Exifs[e.AssetID] = &cp
	m.ExifWrites++
	return true, nil
}

func (m *MockAssetRepo) GetExif(ctx context.Context, assetID uuid.UUID) (*model.Exif, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.Exifs[assetID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *e
	return &cp, nil
}

func (m *MockAssetRepo) SaveSmartInfo(ctx context.Context, s *model.SmartInfo, overwrite bool) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveSmartErr != nil {
		return false, m.SaveSmartErr
	}
	if _, ok := m.SmartInfos[s.AssetID]; ok && !overwrite {
		return false, nil
	}
	cp := *s
	m.SmartInfos[s.AssetID] = &cp
	m.SmartWrites++
	return true, nil
}

func (m *MockAssetRepo) GetSmartInfo(ctx context.Context, assetID uuid.UUID) (*model.SmartInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.SmartInfos[assetID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *s
	return &cp, nil
}

// newestFirst returns the owner's assets, latest capture first.
func (m *MockAssetRepo) newestFirst(ownerID uuid.UUID) []*model.Asset {
	var out []*model.Asset
	for _, a := range m.Assets {
		if a.OwnerID == ownerID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (m *MockAssetRepo) details(a *model.Asset) model.AssetDetails {
	d := model.AssetDetails{Asset: *a}
	if e, ok := m.Exifs[a.ID]; ok {
		cp := *e
		d.Exif = &cp
	}
	if s, ok := m.SmartInfos[a.ID]; ok {
		cp := *s
		d.SmartInfo = &cp
	}
	return d
}

func (m *MockAssetRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.AssetDetails, error) {
	return m.Search(ctx, ownerID, model.AssetQuery{})
}

func (m *MockAssetRepo) Search(ctx context.Context, ownerID uuid.UUID, q model.AssetQuery) ([]model.AssetDetails, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FindErr != nil {
		return nil, m.FindErr
	}
	m.LastQuery = q
	out := make([]model.AssetDetails, 0)
	for _, a := range m.newestFirst(ownerID) {
		d := m.details(a)
		if q.Term != "" && !matchesTerm(d, strings.ToLower(q.Term)) {
			continue
		}
		if b := q.Bounds; b != nil {
			if d.Exif == nil || d.Exif.Latitude == nil || d.Exif.Longitude == nil || !b.Contains(*d.Exif.Latitude, *d.Exif.Longitude) {
				continue
			}
		}
		out = append(out, d)
	}
	return out, nil
}

func matchesTerm(d model.AssetDetails, term string) bool {
	if d.SmartInfo != nil {
		for _, tag := range d.SmartInfo.Tags {
			if strings.ToLower(tag) == term {
				return true
			}
		}
	}
	if d.Exif != nil {
		for _, v := range []*string{d.Exif.Make, d.Exif.Model} {
			if v != nil && strings.ToLower(*v) == term {
				return true
			}
		}
	}
	return false
}

func (m *MockAssetRepo) DeviceAssetIDs(ctx context.Context, ownerID uuid.UUID, deviceID string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FindErr != nil {
		return nil, m.FindErr
	}
	out := make([]string, 0)
	for _, a := range m.newestFirst(ownerID) {
		if a.DeviceID == deviceID {
			out = append(out, a.DeviceAssetID)
		}
	}
	return out, nil
}

func (m *MockAssetRepo) CuratedObjects(ctx context.Context, ownerID uuid.UUID) ([]model.CuratedObject, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FindErr != nil {
		return nil, m.FindErr
	}
	seen := map[string]bool{}
	out := make([]model.CuratedObject, 0)
	for _, a := range m.newestFirst(ownerID) {
		s, ok := m.SmartInfos[a.ID]
		if !ok {
			continue
		}
		for _, tag := range s.Tags {
			tag = strings.ToLower(tag)
			if tag == "" || seen[tag] {
				continue
			}
			seen[tag] = true
			out = append(out, model.CuratedObject{
				Object: tag, AssetID: a.ID, ResizePath: a.ResizePath, DeviceAssetID: a.DeviceAssetID, DeviceID: a.DeviceID,
			})
		}
	}
	return out, nil
}

func (m *MockAssetRepo) Locations(ctx context.Context, ownerID uuid.UUID) ([]model.AssetLocation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FindErr != nil {
		return nil, m.FindErr
	}
	out := make([]model.AssetLocation, 0)
	for _, a := range m.newestFirst(ownerID) {
		e, ok := m.Exifs[a.ID]
		if !ok || e.Latitude == nil || e.Longitude == nil {
			continue
		}
		out = append(out, model.AssetLocation{
			AssetID: a.ID, Latitude: *e.Latitude, Longitude: *e.Longitude,
			ResizePath: a.ResizePath, DeviceAssetID: a.DeviceAssetID, DeviceID: a.DeviceID,
		})
	}
	return out, nil
}

func (m *MockAssetRepo) SearchTerms(ctx context.Context, ownerID uuid.UUID) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FindErr != nil {
		return nil, m.FindErr
	}
	set := map[string]bool{}
	for _, a := range m.newestFirst(ownerID) {
		if s, ok := m.SmartInfos[a.ID]; ok {
			for _, tag := range s.Tags {
				set[strings.ToLower(tag)] = true
			}
		}
		if e, ok := m.Exifs[a.ID]; ok {
			for _, v := range []*string{e.Make, e.Model} {
				if v != nil {
					set[strings.ToLower(*v)] = true
				}
			}
		}
	}
	delete(set, "")
	out := make([]string, 0, len(set))
	for term := range set {
		out = append(out, term)
	}
	sort.Strings(out)
	return out, nil
}
