package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"github.com/fhuszti/assets-ms-go/internal/api_context"
	"github.com/fhuszti/assets-ms-go/internal/logger"
	"github.com/fhuszti/assets-ms-go/internal/port"
	"github.com/fhuszti/assets-ms-go/internal/usecase/asset"
	"github.com/fhuszti/assets-ms-go/internal/uuid"
	"github.com/fhuszti/assets-ms-go/internal/validation"
)

const maxUploadMemory = 32 << 20

const (
	UploadStatusSuccess   = "success"
	UploadStatusDuplicate = "duplicate"
	UploadStatusFailed    = "failed"
)

type UploadForm struct {
	DeviceAssetIDs []string `json:"deviceAssetId" validate:"required,min=1,dive,required,max=255"`
	DeviceID       string   `json:"deviceId" validate:"required,max=255"`
	CreatedAt      string   `json:"createdAt" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	ModifiedAt     string   `json:"modifiedAt" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	IsFavorite     string   `json:"isFavorite" validate:"omitempty,oneof=true false"`
}

type UploadResult struct {
	FileName string     `json:"fileName"`
	Status   string     `json:"status"`
	AssetID  *uuid.UUID `json:"assetId,omitempty"`
	Error    string     `json:"error,omitempty"`
}

// UploadAssetsHandler stages every uploaded file in the file store and ingests it.
// Files are handled independently: the response lists one result per file.
func UploadAssetsHandler(files port.FileStore, svc port.AssetIngester, genID port.UUIDGen) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		owner, ok := api_context.AuthUserIDFromContext(ctx)
		if !ok {
			WriteError(w, http.StatusUnauthorized, "unauthorized", nil)
			return
		}

		if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid multipart form", err)
			return
		}
		defer func() { _ = r.MultipartForm.RemoveAll() }()

		form := UploadForm{
			DeviceAssetIDs: r.MultipartForm.Value["deviceAssetId"],
			DeviceID:       r.FormValue("deviceId"),
			CreatedAt:      r.FormValue("createdAt"),
			ModifiedAt:     r.FormValue("modifiedAt"),
			IsFavorite:     r.FormValue("isFavorite"),
		}
		if !validate(w, r, &form) {
			return
		}
		originals := r.MultipartForm.File["assetData"]
		if len(originals) == 0 {
			WriteError(w, http.StatusBadRequest, "assetData is required", nil)
			return
		}
		var thumb *multipart.FileHeader
		if th := r.MultipartForm.File["thumbnailData"]; len(th) > 0 {
			thumb = th[0]
		}

		createdAt, _ := time.Parse(time.RFC3339, form.CreatedAt)
		var modifiedAt time.Time
		if form.ModifiedAt != "" {
			modifiedAt, _ = time.Parse(time.RFC3339, form.ModifiedAt)
		}

		st := stager{files: files, owner: owner, genID: genID}
		results := make([]UploadResult, len(originals))
		inputs := make([]port.CreateAssetInput, 0, len(originals))
		positions := make([]int, 0, len(originals))

		for i, fh := range originals {
			results[i] = UploadResult{FileName: fh.Filename, Status: UploadStatusFailed}
			in := port.CreateAssetInput{
				OwnerID:       owner,
				DeviceAssetID: form.DeviceAssetIDs[min(i, len(form.DeviceAssetIDs)-1)],
				DeviceID:      form.DeviceID,
				CreatedAt:     createdAt,
				ModifiedAt:    modifiedAt,
				IsFavorite:    form.IsFavorite == "true",
			}

			staged, err := st.stage(ctx, "original", fh, validation.IsAssetMimeType)
			if err != nil {
				results[i].Error = err.Error()
				logger.Warnf(ctx, "could not stage %q: %v", fh.Filename, err)
				continue
			}
			in.File = staged

			if thumb != nil {
				t, err := st.stage(ctx, "thumb", thumb, isImage)
				if err != nil {
					results[i].Error = "thumbnail: " + err.Error()
					st.discard(ctx, in)
					continue
				}
				in.Thumbnail = &t
			}

			inputs = append(inputs, in)
			positions = append(positions, i)
		}

		for k, o := range svc.CreateAssets(ctx, inputs) {
			res := &results[positions[k]]
			if o.Value != nil {
				id := o.Value.ID
				res.AssetID = &id
			}
			switch {
			case o.Err == nil:
				res.Status = UploadStatusSuccess
			case errors.Is(o.Err, asset.ErrDuplicateAsset):
				res.Status = UploadStatusDuplicate
				res.Error = o.Err.Error()
			default:
				res.Error = o.Err.Error()
			}
			if o.Value == nil && o.Err != nil {
				st.discard(ctx, o.Item)
			}
		}

		RespondJSON(w, http.StatusOK, results)
		logger.Infof(ctx, "✅  Processed upload of %d files", len(results))
	}
}

func isImage(mt string) bool {
	return strings.HasPrefix(mt, "image/")
}

type stager struct {
	files port.FileStore
	owner uuid.UUID
	genID port.UUIDGen
}

// stage writes one multipart file to <owner>/<kind>/<random id><ext> and describes it.
func (s stager) stage(ctx context.Context, kind string, fh *multipart.FileHeader, accept func(string) bool) (port.StagedFile, error) {
	f, err := fh.Open()
	if err != nil {
		return port.StagedFile{}, fmt.Errorf("could not read upload: %w", err)
	}
	defer func() { _ = f.Close() }()

	mt, ext, err := detectType(f, fh)
	if err != nil {
		return port.StagedFile{}, err
	}
	if !accept(mt) {
		return port.StagedFile{}, fmt.Errorf("unsupported media type %q", mt)
	}

	key := fmt.Sprintf("%s/%s/%s%s", s.owner, kind, s.genID(), ext)
	path, err := s.files.Save(ctx, key, f, fh.Size, mt)
	if err != nil {
		return port.StagedFile{}, fmt.Errorf("could not store upload: %w", err)
	}
	return port.StagedFile{Name: fh.Filename, Path: path, MimeType: mt, Size: fh.Size}, nil
}

// discard drops staged files of an upload that produced no asset.
func (s stager) discard(ctx context.Context, in port.CreateAssetInput) {
	paths := []string{in.File.Path}
	if in.Thumbnail != nil {
		paths = append(paths, in.Thumbnail.Path)
	}
	for _, p := range paths {
		if p == "" {
			continue
		}
		if err := s.files.Remove(ctx, p); err != nil {
			logger.Warnf(ctx, "could not discard staged file %q: %v", p, err)
		}
	}
}

// detectType sniffs the content, falling back to the declared type for
// formats the sniffer does not know. The file is rewound afterwards.
func detectType(f multipart.File, fh *multipart.FileHeader) (string, string, error) {
	sniffed, err := mimetype.DetectReader(f)
	if err != nil {
		return "", "", fmt.Errorf("could not read upload: %w", err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", "", fmt.Errorf("could not rewind upload: %w", err)
	}

	mt, ext := sniffed.String(), sniffed.Extension()
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = mt[:i]
	}
	if !validation.IsAssetMimeType(mt) {
		if declared := fh.Header.Get("Content-Type"); validation.IsAssetMimeType(declared) {
			mt = strings.ToLower(strings.TrimSpace(strings.SplitN(declared, ";", 2)[0]))
			ext = ""
		}
	}
	if e := strings.ToLower(filepath.Ext(fh.Filename)); ext == "" && e != "" {
		ext = e
	}
	return mt, ext, nil
}
