package mariadb

import (
	"context"
	"database/sql"
	"errors"
	"log"

	"github.com/go-sql-driver/mysql"

	"github.com/fhuszti/assets-ms-go/internal/model"
	"github.com/fhuszti/assets-ms-go/internal/port"
	"github.com/fhuszti/assets-ms-go/internal/usecase/asset"
	"github.com/fhuszti/assets-ms-go/internal/uuid"
)

const mysqlErrDuplicateEntry = 1062

type AssetRepository struct {
	db *sql.DB
}

// compile-time check: *AssetRepository must satisfy port.AssetRepository
var _ port.AssetRepository = (*AssetRepository)(nil)

func NewAssetRepository(db *sql.DB) *AssetRepository {
	return &AssetRepository{db: db}
}

func (r *AssetRepository) Create(ctx context.Context, a *model.Asset) error {
	log.Printf("creating database record for asset #%s of owner #%s...", a.ID, a.OwnerID)

	const query = `
      INSERT INTO assets
        (id, owner_id, device_asset_id, device_id, original_path, resize_path, mime_type, is_favorite, created_at, modified_at)
      VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    `
	_, err := r.db.ExecContext(ctx, query,
		a.ID, a.OwnerID, a.DeviceAssetID, a.DeviceID,
		a.OriginalPath, a.ResizePath, a.MimeType,
		a.IsFavorite, a.CreatedAt, a.ModifiedAt,
	)
	if err != nil {
		var myErr *mysql.MySQLError
		if errors.As(err, &myErr) && myErr.Number == mysqlErrDuplicateEntry {
			return asset.ErrDuplicateAsset
		}
		return err
	}

	return nil
}

func (r *AssetRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Asset, error) {
	log.Printf("getting database record for asset #%s...", id)

	const query = `
      SELECT id, owner_id, device_asset_id, device_id, original_path, resize_path, mime_type, is_favorite, created_at, modified_at
      FROM assets
      WHERE id = ?
    `
	var a model.Asset
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&a.ID, &a.OwnerID, &a.DeviceAssetID, &a.DeviceID,
		&a.OriginalPath, &a.ResizePath, &a.MimeType,
		&a.IsFavorite, &a.CreatedAt, &a.ModifiedAt,
	)
	if err != nil {
		return nil, err
	}

	return &a, nil
}

func (r *AssetRepository) ExistsByDeviceAssetID(ctx context.Context, ownerID uuid.UUID, deviceAssetID string) (bool, error) {
	log.Printf("checking existence of device asset %q for owner #%s...", deviceAssetID, ownerID)

	const query = `SELECT EXISTS(SELECT 1 FROM assets WHERE owner_id = ? AND device_asset_id = ?)`
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, ownerID, deviceAssetID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *AssetRepository) Delete(ctx context.Context, id uuid.UUID) error {
	log.Printf("deleting database record for asset #%s...", id)

	const query = `DELETE FROM assets WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}

	return nil
}

const exifColumns = `asset_id, make, model, image_name, exif_image_width, exif_image_height, file_size_in_byte,
        orientation, date_time_original, modify_date, lens_model, f_number, focal_length, iso, exposure_time,
        latitude, longitude`

func (r *AssetRepository) SaveExif(ctx context.Context, e *model.Exif, overwrite bool) (bool, error) {
	log.Printf("saving exif record for asset #%s (overwrite=%t)...", e.AssetID, overwrite)

	query := `
      INSERT IGNORE INTO exifs
        (` + exifColumns + `)
      VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    `
	if overwrite {
		query = `
      INSERT INTO exifs
        (` + exifColumns + `)
      VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
      ON DUPLICATE KEY UPDATE
        make = VALUES(make), model = VALUES(model), image_name = VALUES(image_name),
        exif_image_width = VALUES(exif_image_width), exif_image_height = VALUES(exif_image_height),
        file_size_in_byte = VALUES(file_size_in_byte), orientation = VALUES(orientation),
        date_time_original = VALUES(date_time_original), modify_date = VALUES(modify_date),
        lens_model = VALUES(lens_model), f_number = VALUES(f_number), focal_length = VALUES(focal_length),
        iso = VALUES(iso), exposure_time = VALUES(exposure_time),
        latitude = VALUES(latitude), longitude = VALUES(longitude)
    `
	}

	res, err := r.db.ExecContext(ctx, query,
		e.AssetID, e.Make, e.Model, e.ImageName, e.ExifImageWidth, e.ExifImageHeight, e.FileSizeInByte,
		e.Orientation, e.DateTimeOriginal, e.ModifyDate, e.LensModel, e.FNumber, e.FocalLength, e.ISO,
		e.ExposureTime, e.Latitude, e.Longitude,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	// ON DUPLICATE KEY UPDATE reports 0 when the stored row was already identical
	return overwrite || n > 0, nil
}

func (r *AssetRepository) GetExif(ctx context.Context, assetID uuid.UUID) (*model.Exif, error) {
	log.Printf("getting exif record for asset #%s...", assetID)

	query := `SELECT ` + exifColumns + ` FROM exifs WHERE asset_id = ?`
	var e model.Exif
	err := r.db.QueryRowContext(ctx, query, assetID).Scan(
		&e.AssetID, &e.Make, &e.Model, &e.ImageName, &e.ExifImageWidth, &e.ExifImageHeight, &e.FileSizeInByte,
		&e.Orientation, &e.DateTimeOriginal, &e.ModifyDate, &e.LensModel, &e.FNumber, &e.FocalLength, &e.ISO,
		&e.ExposureTime, &e.Latitude, &e.Longitude,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *AssetRepository) SaveSmartInfo(ctx context.Context, s *model.SmartInfo, overwrite bool) (bool, error) {
	log.Printf("saving smart info for asset #%s with %d tags (overwrite=%t)...", s.AssetID, len(s.Tags), overwrite)

	query := `INSERT IGNORE INTO smart_infos (asset_id, tags) VALUES (?, ?)`
	if overwrite {
		query = `INSERT INTO smart_infos (asset_id, tags) VALUES (?, ?) ON DUPLICATE KEY UPDATE tags = VALUES(tags)`
	}

	res, err := r.db.ExecContext(ctx, query, s.AssetID, s.Tags)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return overwrite || n > 0, nil
}

func (r *AssetRepository) GetSmartInfo(ctx context.Context, assetID uuid.UUID) (*model.SmartInfo, error) {
	log.Printf("getting smart info for asset #%s...", assetID)

	const query = `SELECT asset_id, tags FROM smart_infos WHERE asset_id = ?`
	var s model.SmartInfo
	if err := r.db.QueryRowContext(ctx, query, assetID).Scan(&s.AssetID, &s.Tags); err != nil {
		return nil, err
	}
	return &s, nil
}
