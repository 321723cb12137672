package mariadb

import (
	"context"
	"log"
	"strings"

	"github.com/fhuszti/assets-ms-go/internal/model"
	"github.com/fhuszti/assets-ms-go/internal/port"
	"github.com/fhuszti/assets-ms-go/internal/uuid"
)

// compile-time check: *AssetRepository must satisfy port.AssetFinder
var _ port.AssetFinder = (*AssetRepository)(nil)

const detailsQuery = `
      SELECT a.id, a.owner_id, a.device_asset_id, a.device_id, a.original_path, a.resize_path, a.mime_type,
        a.is_favorite, a.created_at, a.modified_at,
        e.asset_id IS NOT NULL, e.make, e.model, e.image_name, e.exif_image_width, e.exif_image_height,
        e.file_size_in_byte, e.orientation, e.date_time_original, e.modify_date, e.lens_model, e.f_number,
        e.focal_length, e.iso, e.exposure_time, e.latitude, e.longitude,
        s.asset_id IS NOT NULL, s.tags
      FROM assets a
      LEFT JOIN exifs e ON e.asset_id = a.id
      LEFT JOIN smart_infos s ON s.asset_id = a.id
      WHERE a.owner_id = ?`

const tagsTable = `JSON_TABLE(s.tags, '$[*]' COLUMNS (tag VARCHAR(255) PATH '$')) AS jt`

func (r *AssetRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.AssetDetails, error) {
	log.Printf("listing assets of owner #%s...", ownerID)

	return r.queryDetails(ctx, detailsQuery+` ORDER BY a.created_at DESC`, ownerID)
}

func (r *AssetRepository) Search(ctx context.Context, ownerID uuid.UUID, q model.AssetQuery) ([]model.AssetDetails, error) {
	log.Printf("searching assets of owner #%s for %q...", ownerID, q.Term)

	var sb strings.Builder
	sb.WriteString(detailsQuery)
	args := []any{ownerID}
	if q.Term != "" {
		term := strings.ToLower(q.Term)
		sb.WriteString(` AND (JSON_CONTAINS(LOWER(s.tags), JSON_QUOTE(?)) OR LOWER(e.make) = ? OR LOWER(e.model) = ?)`)
		args = append(args, term, term, term)
	}
	if b := q.Bounds; b != nil {
		sb.WriteString(` AND e.latitude BETWEEN ? AND ? AND e.longitude BETWEEN ? AND ?`)
		args = append(args, b.MinLat, b.MaxLat, b.MinLon, b.MaxLon)
	}
	sb.WriteString(` ORDER BY a.created_at DESC`)

	return r.queryDetails(ctx, sb.String(), args...)
}

func (r *AssetRepository) queryDetails(ctx context.Context, query string, args ...any) ([]model.AssetDetails, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	out := make([]model.AssetDetails, 0)
	for rows.Next() {
		var (
			d                 model.AssetDetails
			e                 model.Exif
			hasExif, hasSmart bool
			tags              model.Tags
		)
		err := rows.Scan(
			&d.ID, &d.OwnerID, &d.DeviceAssetID, &d.DeviceID, &d.OriginalPath, &d.ResizePath, &d.MimeType,
			&d.IsFavorite, &d.CreatedAt, &d.ModifiedAt,
			&hasExif, &e.Make, &e.Model, &e.ImageName, &e.ExifImageWidth, &e.ExifImageHeight,
			&e.FileSizeInByte, &e.Orientation, &e.DateTimeOriginal, &e.ModifyDate, &e.LensModel, &e.FNumber,
			&e.FocalLength, &e.ISO, &e.ExposureTime, &e.Latitude, &e.Longitude,
			&hasSmart, &tags,
		)
		if err != nil {
			return nil, err
		}
		if hasExif {
			e.AssetID = d.ID
			d.Exif = &e
		}
		if hasSmart {
			d.SmartInfo = &model.SmartInfo{AssetID: d.ID, Tags: tags}
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *AssetRepository) DeviceAssetIDs(ctx context.Context, ownerID uuid.UUID, deviceID string) ([]string, error) {
	log.Printf("listing device asset ids of owner #%s on device %q...", ownerID, deviceID)

	const query = `SELECT device_asset_id FROM assets WHERE owner_id = ? AND device_id = ? ORDER BY created_at DESC`
	return r.queryStrings(ctx, query, ownerID, deviceID)
}

func (r *AssetRepository) CuratedObjects(ctx context.Context, ownerID uuid.UUID) ([]model.CuratedObject, error) {
	log.Printf("listing curated objects of owner #%s...", ownerID)

	const query = `
      SELECT LOWER(jt.tag), a.id, a.resize_path, a.device_asset_id, a.device_id
      FROM assets a
      JOIN smart_infos s ON s.asset_id = a.id
      JOIN ` + tagsTable + `
      WHERE a.owner_id = ?
      ORDER BY a.created_at DESC
    `
	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	// rows come newest first, so the first row of each tag is its latest asset
	seen := map[string]bool{}
	out := make([]model.CuratedObject, 0)
	for rows.Next() {
		var o model.CuratedObject
		if err := rows.Scan(&o.Object, &o.AssetID, &o.ResizePath, &o.DeviceAssetID, &o.DeviceID); err != nil {
			return nil, err
		}
		if o.Object == "" || seen[o.Object] {
			continue
		}
		seen[o.Object] = true
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *AssetRepository) Locations(ctx context.Context, ownerID uuid.UUID) ([]model.AssetLocation, error) {
	log.Printf("listing geotagged assets of owner #%s...", ownerID)

	const query = `
      SELECT a.id, e.latitude, e.longitude, a.resize_path, a.device_asset_id, a.device_id
      FROM assets a
      JOIN exifs e ON e.asset_id = a.id
      WHERE a.owner_id = ? AND e.latitude IS NOT NULL AND e.longitude IS NOT NULL
      ORDER BY a.created_at DESC
    `
	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	out := make([]model.AssetLocation, 0)
	for rows.Next() {
		var l model.AssetLocation
		if err := rows.Scan(&l.AssetID, &l.Latitude, &l.Longitude, &l.ResizePath, &l.DeviceAssetID, &l.DeviceID); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *AssetRepository) SearchTerms(ctx context.Context, ownerID uuid.UUID) ([]string, error) {
	log.Printf("listing search terms of owner #%s...", ownerID)

	const query = `
      SELECT term FROM (
        SELECT LOWER(jt.tag) AS term
        FROM assets a JOIN smart_infos s ON s.asset_id = a.id JOIN ` + tagsTable + `
        WHERE a.owner_id = ?
        UNION
        SELECT LOWER(e.make) FROM assets a JOIN exifs e ON e.asset_id = a.id
        WHERE a.owner_id = ? AND e.make IS NOT NULL
        UNION
        SELECT LOWER(e.model) FROM assets a JOIN exifs e ON e.asset_id = a.id
        WHERE a.owner_id = ? AND e.model IS NOT NULL
      ) terms
      WHERE term <> ''
      ORDER BY term
    `
	return r.queryStrings(ctx, query, ownerID, ownerID, ownerID)
}

func (r *AssetRepository) queryStrings(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	out := make([]string, 0)
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
