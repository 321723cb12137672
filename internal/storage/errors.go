package storage

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/minio/minio-go/v7"

	"github.com/fhuszti/assets-ms-go/internal/usecase/asset"
)

func mapMinioErr(err error) error {
	if err == nil {
		return nil
	}
	resp := minio.ToErrorResponse(err)
	switch resp.Code {
	case "NoSuchKey":
		return asset.ErrFileNotFound
	case "NoSuchBucket":
		return asset.ErrBucketNotFound
	case "AccessDenied", "InvalidAccessKeyId", "SignatureDoesNotMatch":
		return asset.ErrUnauthorized
	default:
		return fmt.Errorf("%w: %v", asset.ErrInternal, err)
	}
}

func mapFsErr(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return asset.ErrFileNotFound
	case errors.Is(err, fs.ErrPermission):
		return fmt.Errorf("%w: %v", asset.ErrUnauthorized, err)
	default:
		return fmt.Errorf("%w: %v", asset.ErrInternal, err)
	}
}
