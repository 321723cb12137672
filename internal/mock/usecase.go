package mock

import (
	"context"
	"sync"

	"github.com/fhuszti/assets-ms-go/internal/batch"
	"github.com/fhuszti/assets-ms-go/internal/model"
	"github.com/fhuszti/assets-ms-go/internal/port"
	"github.com/fhuszti/assets-ms-go/internal/uuid"
)

// AssetGetter implements port.AssetGetter for tests.
type AssetGetter struct {
	Out    *model.AssetDetails
	Err    error
	Called bool
	In     port.GetAssetInput
}

func (m *AssetGetter) GetAsset(ctx context.Context, in port.GetAssetInput) (*model.AssetDetails, error) {
	m.Called = true
	m.In = in
	return m.Out, m.Err
}

// HTTPRenderer implements port.HTTPRenderer for tests.
type HTTPRenderer struct {
	Raw    []byte
	Etag   string
	Err    error
	Called bool
	In     port.GetAssetInput
}

func (m *HTTPRenderer) RenderGetAsset(ctx context.Context, getter port.AssetGetter, in port.GetAssetInput) ([]byte, string, error) {
	m.Called = true
	m.In = in
	return m.Raw, m.Etag, m.Err
}

// Invalidator records invalidated asset ids.
type Invalidator struct {
	mu  sync.Mutex
	IDs []uuid.UUID
}

func (m *Invalidator) Invalidate(ctx context.Context, id uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.IDs = append(m.IDs, id)
}

// AssetIngester implements port.AssetIngester for tests.
// Per-item errors are looked up by device asset id.
type AssetIngester struct {
	ErrFor map[string]error
	In     []port.CreateAssetInput
}

func (m *AssetIngester) CreateAsset(ctx context.Context, in port.CreateAssetInput) (*model.Asset, error) {
	m.In = append(m.In, in)
	if err := m.ErrFor[in.DeviceAssetID]; err != nil {
		return nil, err
	}
	return &model.Asset{ID: uuid.NewUUID(), OwnerID: in.OwnerID, DeviceAssetID: in.DeviceAssetID}, nil
}

func (m *AssetIngester) CreateAssets(ctx context.Context, in []port.CreateAssetInput) batch.Outcomes[port.CreateAssetInput, *model.Asset] {
	return batch.Run(ctx, in, m.CreateAsset)
}

// DuplicateChecker implements port.DuplicateChecker for tests.
type DuplicateChecker struct {
	Exists        bool
	Err           error
	OwnerID       uuid.UUID
	DeviceAssetID string
}

func (m *DuplicateChecker) IsDuplicate(ctx context.Context, ownerID uuid.UUID, deviceAssetID string) (bool, error) {
	m.OwnerID, m.DeviceAssetID = ownerID, deviceAssetID
	return m.Exists, m.Err
}

// AssetDeleter implements port.AssetDeleter for tests.
type AssetDeleter struct {
	Out []port.DeleteResult
	Err error
	In  port.DeleteAssetsInput
}

func (m *AssetDeleter) DeleteAssets(ctx context.Context, in port.DeleteAssetsInput) ([]port.DeleteResult, error) {
	m.In = in
	return m.Out, m.Err
}

// JobInspector implements port.JobInspector for tests.
type JobInspector struct {
	State   port.JobState
	Err     error
	Dead    []port.JobState
	DeadErr error
	AssetID uuid.UUID
	Page    int
	Size    int
}

func (m *JobInspector) GetJobState(ctx context.Context, ownerID, assetID uuid.UUID) (port.JobState, error) {
	m.AssetID = assetID
	return m.State, m.Err
}

func (m *JobInspector) ListDeadLetters(ctx context.Context, page, size int) ([]port.JobState, error) {
	m.Page, m.Size = page, size
	return m.Dead, m.DeadErr
}

// AssetProcessor implements port.AssetProcessor for tests.
type AssetProcessor struct {
	Err    error
	Called bool
	In     port.ProcessAssetInput
}

func (m *AssetProcessor) ProcessAsset(ctx context.Context, in port.ProcessAssetInput) error {
	m.Called = true
	m.In = in
	return m.Err
}

// ExifExtractor implements port.ExifExtractor for tests.
type ExifExtractor struct {
	Err    error
	Called bool
	In     port.ExtractExifInput
}

func (m *ExifExtractor) ExtractExif(ctx context.Context, in port.ExtractExifInput) error {
	m.Called = true
	m.In = in
	return m.Err
}

// ImageTagger implements port.ImageTagger for tests.
type ImageTagger struct {
	Err    error
	Called bool
	In     port.TagImageInput
}

func (m *ImageTagger) TagImage(ctx context.Context, in port.TagImageInput) error {
	m.Called = true
	m.In = in
	return m.Err
}

// FileDeleter implements port.FileDeleter for tests.
type FileDeleter struct {
	Out    batch.Outcomes[string, struct{}]
	Called bool
	In     port.DeleteFilesInput
}

func (m *FileDeleter) DeleteFiles(ctx context.Context, in port.DeleteFilesInput) batch.Outcomes[string, struct{}] {
	m.Called = true
	m.In = in
	return m.Out
}

// AssetBrowser implements port.AssetBrowser for tests.
type AssetBrowser struct {
	Assets    []model.AssetDetails
	DeviceIDs []string
	Objects   []model.CuratedObject
	Locations []model.AssetLocation
	Terms     []string
	Err       error

	OwnerID  uuid.UUID
	DeviceID string
	Query    model.AssetQuery
}

func (m *AssetBrowser) ListAssets(ctx context.Context, ownerID uuid.UUID) ([]model.AssetDetails, error) {
	m.OwnerID = ownerID
	return m.Assets, m.Err
}

func (m *AssetBrowser) ListDeviceAssetIDs(ctx context.Context, ownerID uuid.UUID, deviceID string) ([]string, error) {
	m.OwnerID, m.DeviceID = ownerID, deviceID
	return m.DeviceIDs, m.Err
}

func (m *AssetBrowser) CuratedObjects(ctx context.Context, ownerID uuid.UUID) ([]model.CuratedObject, error) {
	m.OwnerID = ownerID
	return m.Objects, m.Err
}

func (m *AssetBrowser) CuratedLocations(ctx context.Context, ownerID uuid.UUID) ([]model.AssetLocation, error) {
	m.OwnerID = ownerID
	return m.Locations, m.Err
}

func (m *AssetBrowser) SearchTerms(ctx context.Context, ownerID uuid.UUID) ([]string, error) {
	m.OwnerID = ownerID
	return m.Terms, m.Err
}

func (m *AssetBrowser) SearchAssets(ctx context.Context, ownerID uuid.UUID, q model.AssetQuery) ([]model.AssetDetails, error) {
	m.OwnerID, m.Query = ownerID, q
	return m.Assets, m.Err
}
