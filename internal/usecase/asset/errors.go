package asset

import "errors"

var (
	ErrDuplicateAsset = errors.New("asset already exists for this device asset id")
	ErrAssetNotFound  = errors.New("asset not found")
	ErrStorageWrite   = errors.New("could not write asset record")
	ErrProcessing     = errors.New("asset processing failed")
	ErrQueue          = errors.New("could not schedule job")
	ErrInvalidInput   = errors.New("invalid asset input")
)

// file store errors
var (
	ErrFileNotFound   = errors.New("storage: file not found")
	ErrBucketNotFound = errors.New("storage: bucket not found")
	ErrUnauthorized   = errors.New("storage: unauthorized")
	ErrInternal       = errors.New("storage: internal error")
)
