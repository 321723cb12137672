package storage

import (
	"context"
	"io"
	"log"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/fhuszti/assets-ms-go/internal/port"
)

// MinioStore keeps asset files as objects of a single bucket.
// Paths are object keys.
type MinioStore struct {
	client     minioClient
	bucketName string
}

// compile-time check: *MinioStore must satisfy port.FileStore
var _ port.FileStore = (*MinioStore)(nil)

type Strg struct {
	Client minioClient
}

func NewMinioClient(endpoint, accessKey, secretKey string, useSSL bool) (*Strg, error) {
	log.Println("initialising minio client...")
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, mapMinioErr(err)
	}
	return &Strg{Client: client}, nil
}

// WithBucket returns a store bound to bucket, creating the bucket if needed.
func (c *Strg) WithBucket(ctx context.Context, bucket string) (*MinioStore, error) {
	ok, err := c.Client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, mapMinioErr(err)
	}
	if !ok {
		log.Printf("bucket %q does not exist, creating it...", bucket)
		if err := c.Client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, mapMinioErr(err)
		}
	}
	return &MinioStore{client: c.Client, bucketName: bucket}, nil
}

func (s *MinioStore) Save(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	log.Printf("saving file %q into bucket %q...", key, s.bucketName)

	opts := minio.PutObjectOptions{ContentType: contentType}
	if _, err := s.client.PutObject(ctx, s.bucketName, key, r, size, opts); err != nil {
		return "", mapMinioErr(err)
	}
	return key, nil
}

func (s *MinioStore) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	log.Printf("opening file %q from bucket %q...", path, s.bucketName)

	// GetObject is lazy, so a missing key only surfaces through Stat
	if _, err := s.client.StatObject(ctx, s.bucketName, path, minio.StatObjectOptions{}); err != nil {
		return nil, mapMinioErr(err)
	}
	obj, err := s.client.GetObject(ctx, s.bucketName, path, minio.GetObjectOptions{})
	if err != nil {
		return nil, mapMinioErr(err)
	}
	return obj, nil
}

func (s *MinioStore) Remove(ctx context.Context, path string) error {
	log.Printf("removing file %q from bucket %q...", path, s.bucketName)

	if _, err := s.client.StatObject(ctx, s.bucketName, path, minio.StatObjectOptions{}); err != nil {
		return mapMinioErr(err)
	}
	return mapMinioErr(s.client.RemoveObject(ctx, s.bucketName, path, minio.RemoveObjectOptions{}))
}
