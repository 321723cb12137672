package task

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/fhuszti/assets-ms-go/internal/port"
	"github.com/fhuszti/assets-ms-go/internal/validation"
)

const (
	TypeProcessAsset     = "process-asset"
	TypeExtractExif      = "extract-exif"
	TypeTagImage         = "tag-image"
	TypeDeleteFileOnDisk = "delete-file-on-disk"
)

type ProcessAssetPayload struct {
	AssetID      string `json:"assetId" validate:"required,uuid"`
	FileName     string `json:"fileName"`
	FileSize     int64  `json:"fileSize" validate:"gte=0"`
	HasThumbnail bool   `json:"hasThumbnail"`
}

type ExtractExifPayload struct {
	AssetID  string `json:"assetId" validate:"required,uuid"`
	FileName string `json:"fileName"`
	FileSize int64  `json:"fileSize" validate:"gte=0"`
}

type TagImagePayload struct {
	AssetID       string `json:"assetId" validate:"required,uuid"`
	ThumbnailPath string `json:"thumbnailPath" validate:"required"`
}

type AssetFilesPayload struct {
	ID           string  `json:"id" validate:"required,uuid"`
	OriginalPath string  `json:"originalPath"`
	ResizePath   *string `json:"resizePath"`
}

type DeleteFilesPayload struct {
	Assets []AssetFilesPayload `json:"assets" validate:"required,min=1,dive"`
}

// ProcessAssetKey is the dedup key of an asset's processing job.
func ProcessAssetKey(assetID string) string { return assetID }

func ExtractExifKey(assetID string) string { return "exif:" + assetID }

func TagImageKey(assetID string) string { return "tag:" + assetID }

// NewProcessAssetJob builds the processing job of an asset, deduplicated on its id.
func NewProcessAssetJob(in port.ProcessAssetInput) (port.Job, error) {
	id := in.AssetID.String()
	return newJob(TypeProcessAsset, ProcessAssetKey(id), ProcessAssetPayload{
		AssetID:      id,
		FileName:     in.FileName,
		FileSize:     in.FileSize,
		HasThumbnail: in.HasThumbnail,
	})
}

func NewExtractExifJob(in port.ExtractExifInput) (port.Job, error) {
	id := in.AssetID.String()
	return newJob(TypeExtractExif, ExtractExifKey(id), ExtractExifPayload{
		AssetID:  id,
		FileName: in.FileName,
		FileSize: in.FileSize,
	})
}

func NewTagImageJob(in port.TagImageInput) (port.Job, error) {
	id := in.AssetID.String()
	return newJob(TypeTagImage, TagImageKey(id), TagImagePayload{
		AssetID:       id,
		ThumbnailPath: in.ThumbnailPath,
	})
}

// NewDeleteFilesJob builds a file cleanup job. Cleanup jobs are never deduplicated.
func NewDeleteFilesJob(in port.DeleteFilesInput) (port.Job, error) {
	p := DeleteFilesPayload{Assets: make([]AssetFilesPayload, 0, len(in.Assets))}
	for _, a := range in.Assets {
		p.Assets = append(p.Assets, AssetFilesPayload{
			ID:           a.ID.String(),
			OriginalPath: a.OriginalPath,
			ResizePath:   a.ResizePath,
		})
	}
	return newJob(TypeDeleteFileOnDisk, "", p)
}

func newJob(taskName, dedupKey string, payload any) (port.Job, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return port.Job{}, fmt.Errorf("could not marshal %s payload: %w", taskName, err)
	}
	return port.Job{TaskName: taskName, Payload: data, DedupKey: dedupKey}, nil
}

func ParseProcessAssetPayload(t *asynq.Task) (ProcessAssetPayload, error) {
	var p ProcessAssetPayload
	if err := parse(t, &p); err != nil {
		return ProcessAssetPayload{}, err
	}
	return p, nil
}

func ParseExtractExifPayload(t *asynq.Task) (ExtractExifPayload, error) {
	var p ExtractExifPayload
	if err := parse(t, &p); err != nil {
		return ExtractExifPayload{}, err
	}
	return p, nil
}

func ParseTagImagePayload(t *asynq.Task) (TagImagePayload, error) {
	var p TagImagePayload
	if err := parse(t, &p); err != nil {
		return TagImagePayload{}, err
	}
	return p, nil
}

func ParseDeleteFilesPayload(t *asynq.Task) (DeleteFilesPayload, error) {
	var p DeleteFilesPayload
	if err := parse(t, &p); err != nil {
		return DeleteFilesPayload{}, err
	}
	return p, nil
}

func parse(t *asynq.Task, dst any) error {
	if err := json.Unmarshal(t.Payload(), dst); err != nil {
		return fmt.Errorf("could not unmarshal %s payload: %w", t.Type(), err)
	}
	if err := validation.ValidateStruct(dst); err != nil {
		return fmt.Errorf("invalid %s payload: %w", t.Type(), err)
	}
	return nil
}
