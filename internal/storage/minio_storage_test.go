package storage

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/minio/minio-go/v7"

	"github.com/fhuszti/assets-ms-go/internal/usecase/asset"
)

type mockMinio struct {
	bucketExistsFn func(ctx context.Context, bucketName string) (bool, error)
	makeBucketFn   func(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	statObjectFn   func(ctx context.Context, bucket, key string, opts minio.StatObjectOptions) (minio.ObjectInfo, error)
	removeObjectFn func(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
	getObjectFn    func(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (*minio.Object, error)
	putObjectFn    func(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

func (m *mockMinio) BucketExists(ctx context.Context, bucketName string) (bool, error) {
	return m.bucketExistsFn(ctx, bucketName)
}
func (m *mockMinio) MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error {
	return m.makeBucketFn(ctx, bucketName, opts)
}
func (m *mockMinio) StatObject(ctx context.Context, bucket, key string, opts minio.StatObjectOptions) (minio.ObjectInfo, error) {
	return m.statObjectFn(ctx, bucket, key, opts)
}
func (m *mockMinio) RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error {
	return m.removeObjectFn(ctx, bucketName, objectName, opts)
}
func (m *mockMinio) GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (*minio.Object, error) {
	return m.getObjectFn(ctx, bucketName, objectName, opts)
}
func (m *mockMinio) PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	return m.putObjectFn(ctx, bucketName, objectName, reader, objectSize, opts)
}

func noSuchKey() error {
	return minio.ErrorResponse{Code: "NoSuchKey", StatusCode: http.StatusNotFound}
}

func TestWithBucket(t *testing.T) {
	tests := []struct {
		name           string
		exists         bool
		existsErr      error
		makeErr        error
		wantMakeCalled bool
		wantErr        error
	}{
		{name: "bucket exists, no create", exists: true},
		{name: "bucket does not exist, create succeeds", wantMakeCalled: true},
		{name: "BucketExists error bubbles up", existsErr: errors.New("exist fail"), wantErr: asset.ErrInternal},
		{name: "MakeBucket error bubbles up", makeErr: errors.New("make fail"), wantMakeCalled: true, wantErr: asset.ErrInternal},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			makeCalled := false
			mock := &mockMinio{
				bucketExistsFn: func(ctx context.Context, bucketName string) (bool, error) {
					return tc.exists, tc.existsErr
				},
				makeBucketFn: func(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error {
					makeCalled = true
					return tc.makeErr
				},
			}

			s, err := (&Strg{Client: mock}).WithBucket(context.Background(), "assets")
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected %v, got %v", tc.wantErr, err)
				}
			} else {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if s.bucketName != "assets" {
					t.Errorf("bucketName = %q", s.bucketName)
				}
			}
			if makeCalled != tc.wantMakeCalled {
				t.Errorf("MakeBucket called = %v; want %v", makeCalled, tc.wantMakeCalled)
			}
		})
	}
}

func TestMinioStore_Save(t *testing.T) {
	var gotKey, gotCT string
	var gotBody string
	mock := &mockMinio{
		putObjectFn: func(ctx context.Context, bucketName, objectName string, reader io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
			gotKey = objectName
			gotCT = opts.ContentType
			b, _ := io.ReadAll(reader)
			gotBody = string(b)
			return minio.UploadInfo{}, nil
		},
	}
	s := &MinioStore{client: mock, bucketName: "assets"}

	path, err := s.Save(context.Background(), "owner/original/a.jpg", strings.NewReader("bytes"), 5, "image/jpeg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if path != "owner/original/a.jpg" || gotKey != path {
		t.Errorf("path = %q, key = %q", path, gotKey)
	}
	if gotCT != "image/jpeg" || gotBody != "bytes" {
		t.Errorf("content-type %q body %q", gotCT, gotBody)
	}
}

func TestMinioStore_OpenMissing(t *testing.T) {
	getCalled := false
	mock := &mockMinio{
		statObjectFn: func(ctx context.Context, bucket, key string, opts minio.StatObjectOptions) (minio.ObjectInfo, error) {
			return minio.ObjectInfo{}, noSuchKey()
		},
		getObjectFn: func(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (*minio.Object, error) {
			getCalled = true
			return nil, nil
		},
	}
	s := &MinioStore{client: mock, bucketName: "assets"}

	if _, err := s.Open(context.Background(), "missing.jpg"); !errors.Is(err, asset.ErrFileNotFound) {
		t.Fatalf("expected ErrFileNotFound, got %v", err)
	}
	if getCalled {
		t.Error("GetObject should not be called for a missing key")
	}
}

func TestMinioStore_Remove(t *testing.T) {
	tests := []struct {
		name       string
		statErr    error
		removeErr  error
		wantErr    error
		wantRemove bool
	}{
		{name: "removes existing object", wantRemove: true},
		{name: "missing object", statErr: noSuchKey(), wantErr: asset.ErrFileNotFound},
		{name: "access denied", removeErr: minio.ErrorResponse{Code: "AccessDenied"}, wantErr: asset.ErrUnauthorized, wantRemove: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			removed := false
			mock := &mockMinio{
				statObjectFn: func(ctx context.Context, bucket, key string, opts minio.StatObjectOptions) (minio.ObjectInfo, error) {
					return minio.ObjectInfo{Key: key}, tc.statErr
				},
				removeObjectFn: func(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error {
					removed = true
					return tc.removeErr
				},
			}
			s := &MinioStore{client: mock, bucketName: "assets"}

			err := s.Remove(context.Background(), "k")
			if tc.wantErr == nil && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tc.wantErr != nil && !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
			if removed != tc.wantRemove {
				t.Errorf("RemoveObject called = %v, want %v", removed, tc.wantRemove)
			}
		})
	}
}
